package parser

import (
	"regexp"
	"strings"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// DefaultFieldStrength is the spectrometer frequency (MHz) assumed when
// converting line widths given in Hz
const DefaultFieldStrength = 400.0

// Result is the outcome of parsing a block of text
type Result struct {
	Peaks        []models.Peak
	Skipped      int
	SkippedLines []string
}

// TextParser turns free-form peak listings into peaks
type TextParser interface {
	Parse(text string, nucleus models.Nucleus) Result
}

type textParser struct {
	fieldStrength float64
}

// Option configures a TextParser
type Option func(*textParser)

// WithFieldStrength sets the frequency used for Hz to ppm width conversion
func WithFieldStrength(mhz float64) Option {
	return func(p *textParser) {
		if mhz > 0 {
			p.fieldStrength = mhz
		}
	}
}

// NewTextParser creates a parser
func NewTextParser(opts ...Option) TextParser {
	p := &textParser{fieldStrength: DefaultFieldStrength}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	lineSplit    = regexp.MustCompile(`[;\n\r]`)
	deltaPrefix  = regexp.MustCompile(`(?i)^(δ|delta)\s*`)
	headerPrefix = regexp.MustCompile(`(?i)^(1H|13C|[0-9]+[A-Z][a-z]?)\s*NMR.*?:`)
)

// Parse reads text line by line. Lines are also split on semicolons. Each
// line is tried against the assignment, tabulated and parenthetical forms in
// that order; lines matching none are counted as skipped. Peaks keep the
// order they appear in.
func (p *textParser) Parse(text string, nucleus models.Nucleus) Result {
	res := Result{Peaks: []models.Peak{}}
	if nucleus == "" {
		nucleus = models.Proton
	}

	for _, raw := range lineSplit.Split(text, -1) {
		line := cleanLine(raw)
		if line == "" {
			continue
		}

		if peak, ok := parseAssignment(line); ok {
			res.Peaks = append(res.Peaks, peak)
			continue
		}
		if peak, ok := parseTabulated(line, nucleus); ok {
			res.Peaks = append(res.Peaks, peak)
			continue
		}
		if peaks := p.parseParenthetical(line); len(peaks) > 0 {
			res.Peaks = append(res.Peaks, peaks...)
			continue
		}

		res.Skipped++
		res.SkippedLines = append(res.SkippedLines, line)
	}

	return res
}

// cleanLine strips whitespace and the "1H NMR (...):" / "δ" lead-ins
func cleanLine(s string) string {
	line := strings.TrimSpace(s)
	for {
		next := strings.TrimSpace(headerPrefix.ReplaceAllString(line, ""))
		next = strings.TrimSpace(deltaPrefix.ReplaceAllString(next, ""))
		if next == line {
			return line
		}
		line = next
	}
}
