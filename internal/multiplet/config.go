package multiplet

import (
	"fmt"
	"strings"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// Mode selects what Analyze returns for each group
type Mode int

const (
	// NonDestructive annotates every input line with its group
	NonDestructive Mode = iota
	// Destructive collapses each group into one aggregate peak
	Destructive
	// Visual annotates like NonDestructive with nucleus-specific labels
	Visual
)

func (m Mode) String() string {
	switch m {
	case Destructive:
		return "destructive"
	case Visual:
		return "visual"
	default:
		return "non_destructive"
	}
}

// ParseMode reads a mode name; the empty string means NonDestructive
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "non_destructive", "non-destructive", "nondestructive":
		return NonDestructive, nil
	case "destructive":
		return Destructive, nil
	case "visual":
		return Visual, nil
	}
	return NonDestructive, fmt.Errorf("unknown grouping mode %q", s)
}

// IntegrationPolicy selects how a group's nucleus count is estimated
type IntegrationPolicy int

const (
	// RelativeScale divides the group's share of the total intensity
	// across an assumed total nucleus count
	RelativeScale IntegrationPolicy = iota
	// AbsoluteScale maps raw summed intensity through fixed breakpoints
	AbsoluteScale
)

func (p IntegrationPolicy) String() string {
	if p == AbsoluteScale {
		return "absolute"
	}
	return "relative"
}

// ParseIntegrationPolicy reads a policy name; the empty string means RelativeScale
func ParseIntegrationPolicy(s string) (IntegrationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relative":
		return RelativeScale, nil
	case "absolute":
		return AbsoluteScale, nil
	}
	return RelativeScale, fmt.Errorf("unknown integration policy %q", s)
}

// Config holds analyzer settings
type Config struct {
	Nucleus       models.Nucleus
	FieldStrength float64 // MHz

	// lines downfield of AromaticThreshold use AromaticWindow, the rest AliphaticWindow (ppm)
	AromaticThreshold float64
	AromaticWindow    float64
	AliphaticWindow   float64

	IntegrationPolicy IntegrationPolicy
	TotalProtons      float64

	// References are labelled signals (e.g. "A 7.6") whose label and
	// multiplicity are copied to the nearest group within ReferenceTolerance
	References         []models.Peak
	ReferenceTolerance float64
}

// DefaultConfig returns the settings used for a 400 MHz proton spectrum
func DefaultConfig() Config {
	return Config{
		Nucleus:            models.Proton,
		FieldStrength:      400,
		AromaticThreshold:  7.0,
		AromaticWindow:     0.05,
		AliphaticWindow:    0.1,
		IntegrationPolicy:  RelativeScale,
		TotalProtons:       15,
		ReferenceTolerance: 0.5,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Nucleus == "" {
		c.Nucleus = def.Nucleus
	}
	if c.FieldStrength <= 0 {
		c.FieldStrength = def.FieldStrength
	}
	if c.AromaticThreshold == 0 {
		c.AromaticThreshold = def.AromaticThreshold
	}
	if c.AromaticWindow <= 0 {
		c.AromaticWindow = def.AromaticWindow
	}
	if c.AliphaticWindow <= 0 {
		c.AliphaticWindow = def.AliphaticWindow
	}
	if c.TotalProtons <= 0 {
		c.TotalProtons = def.TotalProtons
	}
	if c.ReferenceTolerance <= 0 {
		c.ReferenceTolerance = def.ReferenceTolerance
	}
	return c
}
