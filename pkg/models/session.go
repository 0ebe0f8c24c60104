package models

import (
	"time"
)

// Session is a persisted simulation: its inputs and the resulting peak list.
// Rendered arrays are not stored; they are rebuilt from the peaks on load.
type Session struct {
	ID            string    `json:"id"`
	Title         string    `json:"title,omitempty"`
	Nucleus       Nucleus   `json:"nucleus"`
	FieldStrength float64   `json:"field_strength"`
	PPMRange      PPMRange  `json:"ppm_range"`
	Resolution    int       `json:"resolution"`
	NoiseLevel    float64   `json:"noise_level"`
	Seed          int64     `json:"seed"`
	GroupingMode  string    `json:"grouping_mode,omitempty"`
	SourceText    string    `json:"source_text,omitempty"`
	SkippedLines  int       `json:"skipped_lines"`
	Peaks         []Peak    `json:"peaks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Spectrum builds a Spectrum carrying the session's parameters and peaks
func (s *Session) Spectrum() *Spectrum {
	spectrum := NewSpectrum(s.Nucleus, s.FieldStrength)
	spectrum.Range = s.PPMRange
	spectrum.Title = s.Title
	spectrum.SetPeaks(s.Peaks)
	return spectrum
}

// ExportRecord tracks a file written to object storage for a session
type ExportRecord struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Format      string    `json:"format"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}
