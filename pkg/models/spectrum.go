package models

import (
	"encoding/json"
	"fmt"
)

// PPMRange is a chemical-shift window, Min < Max
type PPMRange struct {
	Min float64 `json:"min" doc:"Upfield edge in ppm"`
	Max float64 `json:"max" doc:"Downfield edge in ppm"`
}

// Valid reports whether the range is non-empty
func (r PPMRange) Valid() bool {
	return r.Min < r.Max
}

// DefaultPPMRange returns the conventional display window for a nucleus
func DefaultPPMRange(n Nucleus) PPMRange {
	if n == Carbon13 {
		return PPMRange{Min: 0, Max: 220}
	}
	return PPMRange{Min: 0, Max: 12}
}

// Renderer turns a peak list into a discretized (ppm axis, intensity) pair
type Renderer interface {
	Render(peaks []Peak, ppmRange PPMRange, resolution int, fieldStrength float64) ([]float64, []float64, error)
}

// Spectrum owns a peak list and the arrays derived from it. The arrays are
// dropped on every peak mutation and only rebuilt by Regenerate.
type Spectrum struct {
	Nucleus       Nucleus
	FieldStrength float64
	Range         PPMRange
	Title         string

	peaks     []Peak
	axis      []float64
	intensity []float64
}

// NewSpectrum creates an empty spectrum for the given nucleus and field
func NewSpectrum(nucleus Nucleus, fieldStrength float64) *Spectrum {
	return &Spectrum{
		Nucleus:       nucleus,
		FieldStrength: fieldStrength,
		Range:         DefaultPPMRange(nucleus),
	}
}

// Peaks returns a copy of the peak list
func (s *Spectrum) Peaks() []Peak {
	return ClonePeaks(s.peaks)
}

// Len returns the number of peaks
func (s *Spectrum) Len() int {
	return len(s.peaks)
}

// AddPeak normalizes and appends a peak
func (s *Spectrum) AddPeak(p Peak) {
	p = p.Clone()
	p.Normalize()
	s.peaks = append(s.peaks, p)
	s.invalidate()
}

// SetPeaks replaces the peak list
func (s *Spectrum) SetPeaks(peaks []Peak) {
	s.peaks = make([]Peak, 0, len(peaks))
	for _, p := range peaks {
		p = p.Clone()
		p.Normalize()
		s.peaks = append(s.peaks, p)
	}
	s.invalidate()
}

// ClearPeaks removes every peak
func (s *Spectrum) ClearPeaks() {
	s.peaks = nil
	s.invalidate()
}

func (s *Spectrum) invalidate() {
	s.axis = nil
	s.intensity = nil
}

// Derived returns copies of the derived arrays; ok is false when they are stale
func (s *Spectrum) Derived() (axis, intensity []float64, ok bool) {
	if s.axis == nil {
		return nil, nil, false
	}
	return append([]float64(nil), s.axis...), append([]float64(nil), s.intensity...), true
}

// Regenerate rebuilds the derived arrays from the current peaks. Parameter
// validation is left to the renderer.
func (s *Spectrum) Regenerate(r Renderer, resolution int) error {
	axis, intensity, err := r.Render(s.peaks, s.Range, resolution, s.FieldStrength)
	if err != nil {
		return fmt.Errorf("failed to render spectrum: %w", err)
	}
	s.axis = axis
	s.intensity = intensity
	return nil
}

type spectrumJSON struct {
	Nucleus       Nucleus  `json:"nucleus"`
	FieldStrength float64  `json:"field_strength"`
	Range         PPMRange `json:"ppm_range"`
	Title         string   `json:"title,omitempty"`
	Peaks         []Peak   `json:"peaks"`
}

// MarshalJSON serializes parameters and peaks; derived arrays are never stored
func (s *Spectrum) MarshalJSON() ([]byte, error) {
	peaks := s.peaks
	if peaks == nil {
		peaks = []Peak{}
	}
	return json.Marshal(spectrumJSON{
		Nucleus:       s.Nucleus,
		FieldStrength: s.FieldStrength,
		Range:         s.Range,
		Title:         s.Title,
		Peaks:         peaks,
	})
}

// UnmarshalJSON restores a spectrum saved by MarshalJSON
func (s *Spectrum) UnmarshalJSON(data []byte) error {
	var raw struct {
		spectrumJSON
		Peaks []json.RawMessage `json:"peaks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Nucleus = raw.Nucleus
	if s.Nucleus == "" {
		s.Nucleus = Proton
	}
	s.FieldStrength = raw.FieldStrength
	s.Range = raw.Range
	if !s.Range.Valid() {
		s.Range = DefaultPPMRange(s.Nucleus)
	}
	s.Title = raw.Title
	s.peaks = nil
	for _, msg := range raw.Peaks {
		var p Peak
		if err := json.Unmarshal(msg, &p); err != nil {
			continue
		}
		s.peaks = append(s.peaks, p)
	}
	s.invalidate()
	return nil
}
