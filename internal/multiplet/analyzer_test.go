package multiplet

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// ethylBenzoate is a small line list: an aromatic doublet, a quartet and a triplet
func ethylBenzoate() []models.Peak {
	j := 7.0 / field
	return []models.Peak{
		{ChemicalShift: 8.05, Intensity: 2},
		{ChemicalShift: 8.05 - 8/field, Intensity: 2},
		{ChemicalShift: 4.37 + 1.5*j, Intensity: 1},
		{ChemicalShift: 4.37 + 0.5*j, Intensity: 3},
		{ChemicalShift: 4.37 - 0.5*j, Intensity: 3},
		{ChemicalShift: 4.37 - 1.5*j, Intensity: 1},
		{ChemicalShift: 1.39 + j, Intensity: 3},
		{ChemicalShift: 1.39, Intensity: 6},
		{ChemicalShift: 1.39 - j, Intensity: 3},
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	res := NewAnalyzer(DefaultConfig()).Analyze(nil, NonDestructive)
	require.NotNil(t, res)
	assert.Empty(t, res.Groups)
	assert.Empty(t, res.Peaks)
	assert.Zero(t, res.Dropped)
}

func TestAnalyzeSingleLine(t *testing.T) {
	for _, mode := range []Mode{NonDestructive, Destructive, Visual} {
		t.Run(mode.String(), func(t *testing.T) {
			res := NewAnalyzer(DefaultConfig()).Analyze([]models.Peak{{ChemicalShift: 2.1, Intensity: 5}}, mode)
			require.Len(t, res.Groups, 1)
			assert.Equal(t, models.Singlet, res.Groups[0].Multiplicity)
			assert.Empty(t, res.Groups[0].Couplings)
		})
	}
}

func TestAnalyzeTwoLines(t *testing.T) {
	peaks := []models.Peak{{ChemicalShift: 5.00, Intensity: 1}, {ChemicalShift: 5.03, Intensity: 1}}
	res := NewAnalyzer(DefaultConfig()).Analyze(peaks, NonDestructive)

	require.Len(t, res.Groups, 1)
	g := res.Groups[0]
	assert.Equal(t, models.Doublet, g.Multiplicity)
	require.Len(t, g.Couplings, 1)
	assert.InDelta(t, 0.03*field, g.Couplings[0], 1e-6)
	assert.InDelta(t, 5.015, g.CenterShift, 1e-12)
}

func TestAnalyzeNonDestructive(t *testing.T) {
	lines := ethylBenzoate()
	res := NewAnalyzer(DefaultConfig()).Analyze(lines, NonDestructive)

	require.Len(t, res.Groups, 3)
	assert.Equal(t, models.Doublet, res.Groups[0].Multiplicity)
	assert.Equal(t, models.Quartet, res.Groups[1].Multiplicity)
	assert.Equal(t, models.Triplet, res.Groups[2].Multiplicity)
	assert.InDelta(t, 7.0, res.Groups[1].Couplings[0], 1e-6)
	assert.InDelta(t, 7.0, res.Groups[2].Couplings[0], 1e-6)

	// labels run from the upfield end
	assert.Equal(t, "C", res.Groups[0].Label)
	assert.Equal(t, "B", res.Groups[1].Label)
	assert.Equal(t, "A", res.Groups[2].Label)

	require.Len(t, res.Peaks, len(lines))
	centers := 0
	for i, p := range res.Peaks {
		assert.Equal(t, lines[i].ChemicalShift, p.ChemicalShift, "raw lines keep their shift")
		assert.Equal(t, lines[i].Intensity, p.Intensity, "raw lines keep their intensity")
		require.NotNil(t, p.Group)
		if p.Group.IsGroupCenter {
			centers++
			require.NotNil(t, p.Group.Label)
			require.NotNil(t, p.Group.Integration)
		} else {
			assert.Nil(t, p.Group.Label)
			assert.Nil(t, p.Group.Integration)
		}
	}
	assert.Equal(t, 3, centers)

	// the triplet's middle line sits on the center
	assert.Equal(t, 7, res.Groups[2].CenterMember)
	assert.Nil(t, lines[0].Group, "input is not modified")
}

func TestAnalyzeDestructive(t *testing.T) {
	res := NewAnalyzer(DefaultConfig()).Analyze(ethylBenzoate(), Destructive)

	require.Len(t, res.Peaks, 3)
	q := res.Peaks[1]
	assert.InDelta(t, 4.37, q.ChemicalShift, 1e-9)
	assert.Equal(t, models.Quartet, q.Multiplicity)
	assert.Equal(t, 8.0, q.Intensity)
	assert.Equal(t, "B", q.Assignment)
	assert.InDelta(t, 0.003, q.Width, 1e-12)

	// relative integration: 8 of 24 total against 15 protons
	assert.Equal(t, 5.0, q.Integration)
	assert.Equal(t, 3.0, res.Peaks[0].Integration)
	assert.InDelta(t, 0.003, res.Peaks[0].Width, 1e-12)
}

func TestAnalyzeAggregateWidthUsesMeanShift(t *testing.T) {
	// the group centre is 8.005 but the members average 7.996
	peaks := []models.Peak{
		{ChemicalShift: 8.04, Intensity: 1},
		{ChemicalShift: 8.00, Intensity: 1},
		{ChemicalShift: 7.99, Intensity: 1},
		{ChemicalShift: 7.98, Intensity: 1},
		{ChemicalShift: 7.97, Intensity: 1},
	}
	res := NewAnalyzer(DefaultConfig()).Analyze(peaks, Destructive)
	require.Len(t, res.Peaks, 1)
	assert.InDelta(t, 0.002, res.Peaks[0].Width, 1e-12)
}

func TestAnalyzeAbsoluteIntegration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IntegrationPolicy = AbsoluteScale
	peaks := []models.Peak{
		{ChemicalShift: 1.0, Intensity: 3000},
		{ChemicalShift: 3.0, Intensity: 30000},
	}
	res := NewAnalyzer(cfg).Analyze(peaks, Destructive)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, 4.0, res.Groups[0].Integration)
	assert.Equal(t, 2.0, res.Groups[1].Integration)
}

func TestAnalyzeVisualLabels(t *testing.T) {
	peaks := []models.Peak{
		{ChemicalShift: 7.2, Intensity: 1},
		{ChemicalShift: 3.5, Intensity: 1},
		{ChemicalShift: 1.1, Intensity: 1},
	}

	t.Run("proton numbers", func(t *testing.T) {
		res := NewAnalyzer(DefaultConfig()).Analyze(peaks, Visual)
		assert.Equal(t, []string{"3", "2", "1"}, groupLabels(res))
	})

	t.Run("carbon descending letters", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Nucleus = models.Carbon13
		res := NewAnalyzer(cfg).Analyze(peaks, Visual)
		assert.Equal(t, []string{"X", "Y", "Z"}, groupLabels(res))
	})

	t.Run("other nucleus letters", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Nucleus = models.Nucleus("19F")
		res := NewAnalyzer(cfg).Analyze(peaks, Visual)
		assert.Equal(t, []string{"C", "B", "A"}, groupLabels(res))
	})
}

func TestAnalyzeLabelsDoNotLeakBetweenCalls(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	peaks := []models.Peak{{ChemicalShift: 7.2, Intensity: 1}, {ChemicalShift: 1.1, Intensity: 1}}

	first := a.Analyze(peaks, Visual)
	second := a.Analyze(peaks, Visual)
	assert.Equal(t, groupLabels(first), groupLabels(second))
}

func TestAnalyzeDropsNonNumericShifts(t *testing.T) {
	peaks := []models.Peak{
		{ChemicalShift: math.NaN(), Intensity: 1},
		{ChemicalShift: 2.0, Intensity: 1},
		{ChemicalShift: math.Inf(1), Intensity: 1},
	}
	res := NewAnalyzer(DefaultConfig()).Analyze(peaks, NonDestructive)
	assert.Equal(t, 2, res.Dropped)
	require.Len(t, res.Peaks, 1)
	assert.Equal(t, []int{1}, res.Groups[0].Members)
}

func TestAnalyzeWindowTracksExtremes(t *testing.T) {
	// 2.27 is beyond the aliphatic window of 2.50 and opens a new group;
	// the lines below it stay within the window of that group's low edge
	peaks := []models.Peak{
		{ChemicalShift: 2.00, Intensity: 1},
		{ChemicalShift: 2.09, Intensity: 1},
		{ChemicalShift: 2.18, Intensity: 1},
		{ChemicalShift: 2.27, Intensity: 1},
		{ChemicalShift: 2.50, Intensity: 1},
	}
	res := NewAnalyzer(DefaultConfig()).Analyze(peaks, NonDestructive)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, 1, res.Groups[0].Size)
	assert.Equal(t, 4, res.Groups[1].Size)
}

func TestAnalyzeAromaticWindowIsTighter(t *testing.T) {
	aromatic := []models.Peak{{ChemicalShift: 7.50, Intensity: 1}, {ChemicalShift: 7.43, Intensity: 1}}
	aliphatic := []models.Peak{{ChemicalShift: 2.50, Intensity: 1}, {ChemicalShift: 2.43, Intensity: 1}}

	a := NewAnalyzer(DefaultConfig())
	assert.Len(t, a.Analyze(aromatic, NonDestructive).Groups, 2)
	assert.Len(t, a.Analyze(aliphatic, NonDestructive).Groups, 1)
}

func TestAnalyzeOrderIndependent(t *testing.T) {
	lines := ethylBenzoate()
	a := NewAnalyzer(DefaultConfig())
	want := membership(lines, a.Analyze(lines, NonDestructive))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.Peak(nil), lines...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		res := a.Analyze(shuffled, NonDestructive)
		assert.Equal(t, len(want), len(res.Groups))
		assert.Equal(t, want, membership(shuffled, res))
	}
}

func TestAnalyzeReferenceAssignments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.References = []models.Peak{
		{ChemicalShift: 4.3, Assignment: "CH2", Multiplicity: models.Quartet},
		{ChemicalShift: 1.4, Assignment: "CH3", Multiplicity: models.Multiplet},
	}
	res := NewAnalyzer(cfg).Analyze(ethylBenzoate(), Destructive)

	require.Len(t, res.Peaks, 3)
	assert.Equal(t, "C", res.Peaks[0].Assignment, "no reference within tolerance")
	assert.Equal(t, "CH2", res.Peaks[1].Assignment)
	assert.Equal(t, "CH3", res.Peaks[2].Assignment)
	assert.Equal(t, models.Triplet, res.Peaks[2].Multiplicity, "a generic reference keeps the inferred pattern")

	t.Run("visual mode", func(t *testing.T) {
		res := NewAnalyzer(cfg).Analyze(ethylBenzoate(), Visual)
		assert.Equal(t, []string{"3", "CH2", "CH3"}, groupLabels(res))
	})
}

// membership maps each group, as a sorted list of shifts, to itself so that
// results from differently ordered inputs compare equal
func membership(lines []models.Peak, res *Result) [][]float64 {
	var out [][]float64
	for _, g := range res.Groups {
		var s []float64
		for _, idx := range g.Members {
			s = append(s, lines[idx].ChemicalShift)
		}
		sort.Float64s(s)
		out = append(out, s)
	}
	return out
}

func groupLabels(res *Result) []string {
	out := make([]string, len(res.Groups))
	for i, g := range res.Groups {
		out[i] = g.Label
	}
	return out
}
