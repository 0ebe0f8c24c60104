package multiplet

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// Result is the outcome of one analysis
type Result struct {
	Mode   Mode
	Groups []models.MultipletGroup
	// Peaks holds the annotated input lines (non-destructive, visual) in
	// input order, or one aggregate peak per group (destructive) downfield first
	Peaks []models.Peak
	// Dropped counts lines discarded for a non-numeric shift
	Dropped int
}

// Analyzer groups raw lines into multiplets
type Analyzer interface {
	Analyze(lines []models.Peak, mode Mode) *Result
}

type analyzer struct {
	cfg Config
}

// NewAnalyzer creates an analyzer; zero-valued settings take their defaults
func NewAnalyzer(cfg Config) Analyzer {
	return &analyzer{cfg: cfg.withDefaults()}
}

// line is an input peak with its position in the caller's slice
type line struct {
	index     int
	shift     float64
	intensity float64
}

type cluster struct {
	lines    []line
	min, max float64
}

// Analyze sorts lines downfield first and sweeps once. A line joins the open
// group when it lies within the window of the group's current extremes; the
// window is picked by the line's region. Analyze never fails: empty input
// gives an empty result and lines with a non-numeric shift are dropped.
func (a *analyzer) Analyze(lines []models.Peak, mode Mode) *Result {
	res := &Result{Mode: mode, Groups: []models.MultipletGroup{}, Peaks: []models.Peak{}}

	valid := make([]line, 0, len(lines))
	for i, p := range lines {
		if math.IsNaN(p.ChemicalShift) || math.IsInf(p.ChemicalShift, 0) {
			res.Dropped++
			continue
		}
		valid = append(valid, line{index: i, shift: p.ChemicalShift, intensity: nonNegative(p.Intensity)})
	}
	if len(valid) == 0 {
		return res
	}

	clusters := a.sweep(valid)

	total := 0.0
	for _, l := range valid {
		total += l.intensity
	}

	groups := make([]models.MultipletGroup, len(clusters))
	for id, c := range clusters {
		groups[id] = a.describe(id, c, total)
	}
	a.label(groups, mode)
	res.Groups = groups

	if mode == Destructive {
		res.Peaks = a.aggregate(lines, groups)
	} else {
		res.Peaks = a.annotate(lines, groups)
	}
	return res
}

func (a *analyzer) sweep(valid []line) []cluster {
	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].shift != valid[j].shift {
			return valid[i].shift > valid[j].shift
		}
		return valid[i].intensity > valid[j].intensity
	})

	var clusters []cluster
	var cur *cluster
	for _, l := range valid {
		w := a.window(l.shift)
		if cur != nil && l.shift >= cur.min-w && l.shift <= cur.max+w {
			cur.lines = append(cur.lines, l)
			cur.min = math.Min(cur.min, l.shift)
			cur.max = math.Max(cur.max, l.shift)
			continue
		}
		clusters = append(clusters, cluster{lines: []line{l}, min: l.shift, max: l.shift})
		cur = &clusters[len(clusters)-1]
	}
	return clusters
}

func (a *analyzer) window(shift float64) float64 {
	if shift > a.cfg.AromaticThreshold {
		return a.cfg.AromaticWindow
	}
	return a.cfg.AliphaticWindow
}

func (a *analyzer) describe(id int, c cluster, total float64) models.MultipletGroup {
	shifts := make([]float64, len(c.lines))
	heights := make([]float64, len(c.lines))
	members := make([]int, len(c.lines))
	for i, l := range c.lines {
		shifts[i] = l.shift
		heights[i] = l.intensity
		members[i] = l.index
	}

	inf := InferMultiplicity(shifts, heights, a.cfg.FieldStrength)
	center := (c.min + c.max) / 2
	sum := floats.Sum(heights)

	// nearest the center wins; ties go to the taller line, then sweep order
	best := 0
	for i := 1; i < len(c.lines); i++ {
		d, bd := math.Abs(shifts[i]-center), math.Abs(shifts[best]-center)
		if d < bd || (d == bd && heights[i] > heights[best]) {
			best = i
		}
	}

	sort.Ints(members)
	return models.MultipletGroup{
		ID:           id,
		CenterShift:  center,
		MinShift:     c.min,
		MaxShift:     c.max,
		Multiplicity: inf.Multiplicity,
		Couplings:    inf.Couplings,
		Intensity:    sum,
		Integration:  a.integrate(sum, total),
		Size:         len(c.lines),
		Members:      members,
		CenterMember: c.lines[best].index,
	}
}

// label issues labels from the upfield end, then applies reference
// assignments
func (a *analyzer) label(groups []models.MultipletGroup, mode Mode) {
	labeler := NewLabeler(SchemeFor(mode, a.cfg.Nucleus))
	for i := len(groups) - 1; i >= 0; i-- {
		groups[i].Label = labeler.Next()
	}
	if len(a.cfg.References) == 0 {
		return
	}

	for i := range groups {
		ref, ok := a.nearestReference(groups[i].CenterShift)
		if !ok {
			continue
		}
		if ref.Assignment != "" {
			groups[i].Label = ref.Assignment
		}
		if ref.Multiplicity != "" && ref.Multiplicity != models.Multiplet {
			groups[i].Multiplicity = models.ParseMultiplicity(string(ref.Multiplicity))
			if len(ref.CouplingConstants) > 0 {
				groups[i].Couplings = append([]float64(nil), ref.CouplingConstants...)
			}
		}
	}
}

func (a *analyzer) nearestReference(center float64) (models.Peak, bool) {
	best := -1
	bestDist := a.cfg.ReferenceTolerance
	for i, ref := range a.cfg.References {
		if d := math.Abs(ref.ChemicalShift - center); d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return models.Peak{}, false
	}
	return a.cfg.References[best], true
}

// annotate copies every valid input line, in input order, with its group
// metadata attached. Only the center member carries label and integration.
func (a *analyzer) annotate(lines []models.Peak, groups []models.MultipletGroup) []models.Peak {
	owner := make(map[int]int, len(lines))
	for gi, g := range groups {
		for _, idx := range g.Members {
			owner[idx] = gi
		}
	}

	out := make([]models.Peak, 0, len(owner))
	for i, p := range lines {
		gi, ok := owner[i]
		if !ok {
			continue
		}
		g := groups[gi]
		peak := p.Clone()
		info := &models.GroupInfo{
			GroupID:       g.ID,
			IsGroupCenter: i == g.CenterMember,
			GroupSize:     g.Size,
			CenterShift:   g.CenterShift,
			Multiplicity:  g.Multiplicity,
			Couplings:     append([]float64(nil), g.Couplings...),
		}
		if info.IsGroupCenter {
			label := g.Label
			integration := g.Integration
			info.Label = &label
			info.Integration = &integration
		}
		peak.Group = info
		out = append(out, peak)
	}
	return out
}

// aggregate builds one peak per group at the group's center
func (a *analyzer) aggregate(lines []models.Peak, groups []models.MultipletGroup) []models.Peak {
	out := make([]models.Peak, 0, len(groups))
	for _, g := range groups {
		solvent := true
		mean := 0.0
		for _, idx := range g.Members {
			solvent = solvent && lines[idx].IsSolvent
			mean += lines[idx].ChemicalShift
		}
		mean /= float64(len(g.Members))
		label := g.Label
		integration := g.Integration
		out = append(out, models.Peak{
			ChemicalShift:     g.CenterShift,
			Intensity:         g.Intensity,
			Width:             aggregateWidth(mean),
			Multiplicity:      g.Multiplicity,
			Integration:       g.Integration,
			CouplingConstants: append([]float64{}, g.Couplings...),
			IsSolvent:         solvent,
			Assignment:        g.Label,
			Group: &models.GroupInfo{
				GroupID:       g.ID,
				Label:         &label,
				IsGroupCenter: true,
				GroupSize:     g.Size,
				CenterShift:   g.CenterShift,
				Multiplicity:  g.Multiplicity,
				Couplings:     append([]float64(nil), g.Couplings...),
				Integration:   &integration,
			},
		})
	}
	return out
}

// aggregateWidth is the line width (ppm) given to a collapsed group, chosen
// by the mean shift of its members
func aggregateWidth(mean float64) float64 {
	switch {
	case mean > 8.0:
		return 0.003
	case mean > 7.0:
		return 0.002
	}
	return 0.003
}
