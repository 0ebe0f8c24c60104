package models

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// Multiplicity is the splitting pattern of a signal
type Multiplicity string

const (
	Singlet           Multiplicity = "s"
	Doublet           Multiplicity = "d"
	Triplet           Multiplicity = "t"
	Quartet           Multiplicity = "q"
	Quintet           Multiplicity = "quin"
	Sextet            Multiplicity = "sext"
	DoubletOfDoublets Multiplicity = "dd"
	DoubletOfTriplets Multiplicity = "dt"
	TripletOfDoublets Multiplicity = "td"
	DoubletOfQuartets Multiplicity = "dq"
	Multiplet         Multiplicity = "m"
)

// DefaultWidth is the line width in ppm used when a peak carries none
const DefaultWidth = 0.01

var multiplicityAliases = map[string]Multiplicity{
	"s":                   Singlet,
	"singlet":             Singlet,
	"br":                  Singlet,
	"bs":                  Singlet,
	"brs":                 Singlet,
	"br s":                Singlet,
	"broad":               Singlet,
	"d":                   Doublet,
	"doublet":             Doublet,
	"t":                   Triplet,
	"triplet":             Triplet,
	"q":                   Quartet,
	"quartet":             Quartet,
	"quin":                Quintet,
	"quint":               Quintet,
	"quintet":             Quintet,
	"p":                   Quintet,
	"pent":                Quintet,
	"pentet":              Quintet,
	"sext":                Sextet,
	"sextet":              Sextet,
	"hex":                 Sextet,
	"dd":                  DoubletOfDoublets,
	"doublet of doublets": DoubletOfDoublets,
	"dt":                  DoubletOfTriplets,
	"doublet of triplets": DoubletOfTriplets,
	"td":                  TripletOfDoublets,
	"triplet of doublets": TripletOfDoublets,
	"dq":                  DoubletOfQuartets,
	"doublet of quartets": DoubletOfQuartets,
	"m":                   Multiplet,
	"multiplet":           Multiplet,
}

// ParseMultiplicity resolves a free-form tag to a known multiplicity.
// Unknown tags resolve to Multiplet.
func ParseMultiplicity(tag string) Multiplicity {
	key := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(tag))), " ")
	key = strings.TrimSuffix(key, ".")
	if m, ok := multiplicityAliases[key]; ok {
		return m
	}
	return Multiplet
}

// IsKnownMultiplicity reports whether tag is a recognised multiplicity name
func IsKnownMultiplicity(tag string) bool {
	key := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(tag))), " ")
	_, ok := multiplicityAliases[strings.TrimSuffix(key, ".")]
	return ok
}

// Valid reports whether m is one of the canonical tags
func (m Multiplicity) Valid() bool {
	switch m {
	case Singlet, Doublet, Triplet, Quartet, Quintet, Sextet,
		DoubletOfDoublets, DoubletOfTriplets, TripletOfDoublets, DoubletOfQuartets, Multiplet:
		return true
	}
	return false
}

// Nucleus identifies the observed isotope, e.g. "1H" or "13C"
type Nucleus string

const (
	Proton   Nucleus = "1H"
	Carbon13 Nucleus = "13C"
)

// ParseNucleus accepts common spellings ("H", "1h", "C13") and falls back to
// the input unchanged for anything else.
func ParseNucleus(s string) Nucleus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "1H", "H", "H1", "PROTON":
		return Proton
	case "13C", "C", "C13", "CARBON":
		return Carbon13
	}
	return Nucleus(strings.TrimSpace(s))
}

// GroupInfo is attached to a peak once it has been grouped into a multiplet
type GroupInfo struct {
	GroupID       int          `json:"group_id" doc:"Multiplet group index"`
	Label         *string      `json:"label" nullable:"true" doc:"Assignment label, null on non-center members"`
	IsGroupCenter bool         `json:"is_group_center" doc:"Whether this line carries the group label"`
	GroupSize     int          `json:"group_size" doc:"Number of lines in the group"`
	CenterShift   float64      `json:"center_shift" doc:"Geometric center of the group in ppm"`
	Multiplicity  Multiplicity `json:"multiplicity" doc:"Inferred group multiplicity"`
	Couplings     []float64    `json:"coupling_constants,omitempty" doc:"Inferred J values in Hz"`
	Integration   *float64     `json:"integration" nullable:"true" doc:"Group integration, null on non-center members"`
}

// Peak is a single spectral line or an aggregated multiplet
type Peak struct {
	ChemicalShift     float64      `json:"chemical_shift" doc:"Position in ppm"`
	Intensity         float64      `json:"intensity" minimum:"0" required:"false" doc:"Relative height"`
	Width             float64      `json:"width" required:"false" doc:"Full line width in ppm"`
	Multiplicity      Multiplicity `json:"multiplicity" required:"false" doc:"Splitting pattern tag"`
	Integration       float64      `json:"integration" minimum:"0" required:"false" doc:"Relative nucleus count"`
	CouplingConstants []float64    `json:"coupling_constants" required:"false" doc:"J values in Hz"`
	IsSolvent         bool         `json:"is_solvent" required:"false" doc:"Whether the line is a solvent residual"`
	Assignment        string       `json:"assignment,omitempty" doc:"Assignment label from the source text"`
	Group             *GroupInfo   `json:"group,omitempty" doc:"Multiplet grouping metadata"`
}

// Normalize enforces the peak invariants in place
func (p *Peak) Normalize() {
	if p.Width <= 0 || math.IsNaN(p.Width) || math.IsInf(p.Width, 0) {
		p.Width = DefaultWidth
	}
	if p.Intensity < 0 || math.IsNaN(p.Intensity) || math.IsInf(p.Intensity, 0) {
		p.Intensity = 0
	}
	if p.Integration < 0 || math.IsNaN(p.Integration) || math.IsInf(p.Integration, 0) {
		p.Integration = 0
	}
	if !p.Multiplicity.Valid() {
		p.Multiplicity = ParseMultiplicity(string(p.Multiplicity))
	}
	if p.CouplingConstants == nil {
		p.CouplingConstants = []float64{}
	}
}

// Clone returns a deep copy of the peak
func (p Peak) Clone() Peak {
	out := p
	if p.CouplingConstants != nil {
		out.CouplingConstants = append([]float64(nil), p.CouplingConstants...)
	}
	if p.Group != nil {
		g := *p.Group
		if g.Couplings != nil {
			g.Couplings = append([]float64(nil), g.Couplings...)
		}
		if g.Label != nil {
			l := *g.Label
			g.Label = &l
		}
		if g.Integration != nil {
			v := *g.Integration
			g.Integration = &v
		}
		out.Group = &g
	}
	return out
}

// ClonePeaks deep-copies a peak list
func ClonePeaks(peaks []Peak) []Peak {
	out := make([]Peak, len(peaks))
	for i, p := range peaks {
		out[i] = p.Clone()
	}
	return out
}

// peakRecord mirrors Peak for decoding and accepts the keys older sessions used
type peakRecord struct {
	ChemicalShift     *float64   `json:"chemical_shift"`
	Shift             *float64   `json:"shift"`
	Intensity         *float64   `json:"intensity"`
	Width             *float64   `json:"width"`
	Linewidth         *float64   `json:"linewidth"`
	Multiplicity      string     `json:"multiplicity"`
	Integration       *float64   `json:"integration"`
	CouplingConstants []float64  `json:"coupling_constants"`
	Coupling          []float64  `json:"coupling"`
	IsSolvent         bool       `json:"is_solvent"`
	Assignment        string     `json:"assignment"`
	Group             *GroupInfo `json:"group"`
}

// ErrMissingShift is returned when a decoded record has no usable chemical shift
var ErrMissingShift = errors.New("peak record has no chemical shift")

// UnmarshalJSON decodes a peak record, filling defaults for absent fields
func (p *Peak) UnmarshalJSON(data []byte) error {
	var rec peakRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	shift := rec.ChemicalShift
	if shift == nil {
		shift = rec.Shift
	}
	if shift == nil || math.IsNaN(*shift) || math.IsInf(*shift, 0) {
		return ErrMissingShift
	}

	*p = Peak{
		ChemicalShift: *shift,
		Intensity:     1.0,
		Integration:   1.0,
		Multiplicity:  ParseMultiplicity(rec.Multiplicity),
		IsSolvent:     rec.IsSolvent,
		Assignment:    rec.Assignment,
		Group:         rec.Group,
	}
	if rec.Multiplicity == "" {
		p.Multiplicity = Singlet
	}
	if rec.Intensity != nil {
		p.Intensity = *rec.Intensity
	}
	if rec.Integration != nil {
		p.Integration = *rec.Integration
	}
	switch {
	case rec.Width != nil:
		p.Width = *rec.Width
	case rec.Linewidth != nil:
		p.Width = *rec.Linewidth
	}
	p.CouplingConstants = rec.CouplingConstants
	if p.CouplingConstants == nil {
		p.CouplingConstants = rec.Coupling
	}

	p.Normalize()
	return nil
}
