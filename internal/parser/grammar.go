package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/RMahshie/nmrsim/pkg/models"
)

var (
	assignmentLine = regexp.MustCompile(`^([A-Z])\s+(\d+\.?\d*)`)
	tabulatedLine  = regexp.MustCompile(`^(\d+\.?\d*)\s+(\d+\.?\d*)\s+(\d+)`)
	// a shift or shift range followed by a parenthesised detail block
	parenthetical = regexp.MustCompile(`(\d+\.?\d*)(?:\s*[-–]\s*(\d+\.?\d*))?\s*\(([^)]+)\)`)

	alphaRun     = regexp.MustCompile(`[A-Za-z]+`)
	integralRe   = regexp.MustCompile(`(?:^|[^\d.])(\d+)\s*H\b`)
	couplingRe   = regexp.MustCompile(`(?i)J(?:\d+)?\s*=?\s*(\d+\.?\d*)`)
	linewidthRe  = regexp.MustCompile(`(?i)l(?:ine)?w(?:idth)?\s*=?\s*(\d+\.?\d*)\s*(Hz|ppm)?`)
	compoundTag  = regexp.MustCompile(`^[sdtqm]{2,}$`)
	detailNoise  = regexp.MustCompile(`(?i)^(J\b|l(?:ine)?w|\d+\s*H$|\d+(\.\d+)?\s*(Hz)?$)`)
	solventNames = []string{"cdcl3", "dmso-d6", "dmso", "cd3od", "d2o", "c6d6", "cd3cn", "acetone-d6", "cd2cl2", "solvent"}
)

type band struct {
	above        float64
	multiplicity models.Multiplicity
	width        float64
	integration  float64
}

// bands for the letter-plus-shift form, scanned downfield first
var assignmentBands = []band{
	{above: 7.0, multiplicity: models.Multiplet, width: 0.003, integration: 1},
	{above: 6.0, multiplicity: models.Multiplet, width: 0.003, integration: 1},
	{above: 3.0, multiplicity: models.Quartet, width: 0.002, integration: 2},
	{above: 1.0, multiplicity: models.Triplet, width: 0.002, integration: 3},
}

var upfieldBand = band{multiplicity: models.Singlet, width: 0.002, integration: 1}

func bandFor(shift float64) band {
	for _, b := range assignmentBands {
		if shift > b.above {
			return b
		}
	}
	return upfieldBand
}

// parseAssignment handles "A 7.6": the shift band alone decides the peak shape
func parseAssignment(line string) (models.Peak, bool) {
	m := assignmentLine.FindStringSubmatch(line)
	if m == nil {
		return models.Peak{}, false
	}
	shift, ok := parseNumber(m[2])
	if !ok {
		return models.Peak{}, false
	}

	b := bandFor(shift)
	return models.Peak{
		ChemicalShift:     shift,
		Intensity:         1000 * b.integration,
		Width:             b.width,
		Multiplicity:      b.multiplicity,
		Integration:       b.integration,
		CouplingConstants: []float64{},
		Assignment:        m[1],
	}, true
}

// parseTabulated handles three-column rows. A large first value next to a
// small second one reads as (Hz, ppm, intensity); anything else reads as
// (ppm, intensity, peak number).
func parseTabulated(line string, nucleus models.Nucleus) (models.Peak, bool) {
	m := tabulatedLine.FindStringSubmatch(line)
	if m == nil {
		return models.Peak{}, false
	}
	v1, ok1 := parseNumber(m[1])
	v2, ok2 := parseNumber(m[2])
	v3, ok3 := parseNumber(m[3])
	if !ok1 || !ok2 || !ok3 {
		return models.Peak{}, false
	}

	shift, intensity := v1, v2
	if v1 > 50 && v2 < 20 {
		shift, intensity = v2, v3
	}

	peak := models.Peak{
		ChemicalShift:     shift,
		Intensity:         intensity,
		Multiplicity:      models.Singlet,
		Integration:       1,
		CouplingConstants: []float64{},
	}
	if nucleus == models.Carbon13 {
		peak.Intensity = math.Max(100, intensity)
	} else if intensity > 10 {
		peak.Integration = math.Max(1, math.Round(intensity/100))
	}
	peak.Width = normalWidth(shift, false)
	return peak, true
}

// parseParenthetical handles "7.26 (d, J = 8.1 Hz, 1H, H-7)" and may find
// several such signals on one line
func (p *textParser) parseParenthetical(line string) []models.Peak {
	var peaks []models.Peak
	for _, m := range parenthetical.FindAllStringSubmatch(line, -1) {
		shift, ok := parseNumber(m[1])
		if !ok {
			continue
		}
		if m[2] != "" {
			if end, ok := parseNumber(m[2]); ok {
				shift = (shift + end) / 2
			}
		}
		peaks = append(peaks, p.peakFromDetails(shift, m[3]))
	}
	return peaks
}

func (p *textParser) peakFromDetails(shift float64, details string) models.Peak {
	mult, broad := detailMultiplicity(details)

	integration := 1.0
	if m := integralRe.FindStringSubmatch(details); m != nil {
		if v, ok := parseNumber(m[1]); ok {
			integration = v
		}
	}

	couplings := []float64{}
	for _, m := range couplingRe.FindAllStringSubmatch(details, -1) {
		if v, ok := parseNumber(m[1]); ok {
			couplings = append(couplings, v)
		}
	}

	width := 0.0
	if m := linewidthRe.FindStringSubmatch(details); m != nil {
		if v, ok := parseNumber(m[1]); ok && v > 0 {
			unit := strings.ToLower(m[2])
			switch {
			case unit == "hz", unit == "" && v > 1:
				width = v / p.fieldStrength
			default:
				width = v
			}
		}
	}
	if width == 0 {
		width = normalWidth(shift, broad)
	}

	assignment, solvent := detailAssignment(details)
	return models.Peak{
		ChemicalShift:     shift,
		Intensity:         integration,
		Width:             width,
		Multiplicity:      mult,
		Integration:       integration,
		CouplingConstants: couplings,
		IsSolvent:         solvent,
		Assignment:        assignment,
	}
}

// detailMultiplicity picks the first word that reads as a multiplicity.
// Words glued to a digit ("1H", "d6") are integrals or labels and are
// passed over.
func detailMultiplicity(details string) (models.Multiplicity, bool) {
	broad := false
	for _, idx := range alphaRun.FindAllStringIndex(details, -1) {
		if idx[0] > 0 && isDigit(details[idx[0]-1]) {
			continue
		}
		if idx[1] < len(details) && isDigit(details[idx[1]]) {
			continue
		}
		word := strings.ToLower(details[idx[0]:idx[1]])
		switch word {
		case "br", "b", "broad":
			broad = true
			continue
		case "bs", "brs":
			return models.Singlet, true
		}
		if models.IsKnownMultiplicity(word) {
			return models.ParseMultiplicity(word), broad
		}
		if compoundTag.MatchString(word) {
			return models.Multiplet, broad
		}
	}
	return models.Singlet, broad
}

// detailAssignment returns the trailing free-text label of a detail block,
// and whether any part of it names a solvent
func detailAssignment(details string) (string, bool) {
	tokens := strings.Split(details, ",")
	solvent := false
	for _, tok := range tokens {
		if isSolventToken(tok) {
			solvent = true
		}
	}

	last := strings.TrimSpace(tokens[len(tokens)-1])
	if len(tokens) < 2 || last == "" {
		return "", solvent
	}
	if detailNoise.MatchString(last) || isMultiplicityToken(last) {
		return "", solvent
	}
	return last, solvent
}

func isMultiplicityToken(tok string) bool {
	t := strings.ToLower(strings.TrimSpace(tok))
	return models.IsKnownMultiplicity(t) || compoundTag.MatchString(t)
}

func isSolventToken(tok string) bool {
	t := strings.ToLower(strings.TrimSpace(tok))
	for _, name := range solventNames {
		if strings.Contains(t, name) {
			return true
		}
	}
	return false
}

// normalWidth returns the default line width in ppm for a shift band.
// Broad aromatic and exchangeable signals get 0.015, other broad ones 0.006.
func normalWidth(shift float64, broad bool) float64 {
	switch {
	case broad && shift > 7.0:
		return 0.015
	case broad:
		return 0.006
	case shift > 7.0:
		return 0.003
	}
	return 0.002
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
