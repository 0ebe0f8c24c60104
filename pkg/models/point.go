package models

// SpectrumPoint is a single sample of a rendered spectrum
type SpectrumPoint struct {
	PPM       float64 `json:"ppm" doc:"Chemical shift in ppm"`
	Intensity float64 `json:"intensity" doc:"Curve height at this shift"`
}
