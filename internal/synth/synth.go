package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/RMahshie/nmrsim/pkg/models"
)

var (
	ErrInvalidRange         = errors.New("ppm range min must be below max")
	ErrInvalidResolution    = errors.New("resolution must be positive")
	ErrInvalidFieldStrength = errors.New("field strength must be positive")
)

// NormalSource yields standard normal deviates. *rand.Rand satisfies it.
type NormalSource interface {
	NormFloat64() float64
}

// Generate renders peaks as a sum of Lorentzians on an axis of resolution
// points running from ppmRange.Max down to ppmRange.Min. When noiseLevel is
// positive, Gaussian noise with standard deviation noiseLevel times the
// tallest point is added once at the end; rng may be nil, in which case a
// source seeded with 1 is used. Only the range, resolution and field
// strength are validated; malformed peaks degrade to a plain Lorentzian.
func Generate(peaks []models.Peak, ppmRange models.PPMRange, resolution int, fieldStrength, noiseLevel float64, rng NormalSource) ([]float64, []float64, error) {
	if !(ppmRange.Min < ppmRange.Max) || math.IsInf(ppmRange.Min, 0) || math.IsInf(ppmRange.Max, 0) {
		return nil, nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, ppmRange.Min, ppmRange.Max)
	}
	if resolution <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	if !(fieldStrength > 0) || math.IsInf(fieldStrength, 0) {
		return nil, nil, fmt.Errorf("%w: %g", ErrInvalidFieldStrength, fieldStrength)
	}

	axis := Axis(ppmRange, resolution)
	intensity := make([]float64, resolution)

	for _, p := range peaks {
		if math.IsNaN(p.ChemicalShift) || math.IsInf(p.ChemicalShift, 0) {
			continue
		}
		p.Normalize()
		gamma := p.Width / 2
		for _, l := range Lines(p, fieldStrength) {
			addLorentzian(axis, intensity, l, gamma)
		}
	}

	if noiseLevel > 0 {
		sigma := noiseLevel * floats.Max(intensity)
		if sigma > 0 {
			if rng == nil {
				rng = rand.New(rand.NewSource(1))
			}
			for i := range intensity {
				intensity[i] += rng.NormFloat64() * sigma
			}
		}
	}

	return axis, intensity, nil
}

// Axis returns resolution evenly spaced shifts from r.Max down to r.Min
func Axis(r models.PPMRange, resolution int) []float64 {
	if resolution == 1 {
		return []float64{r.Max}
	}
	return floats.Span(make([]float64, resolution), r.Max, r.Min)
}

// Lorentzian evaluates height·γ²/((x−center)²+γ²)
func Lorentzian(x, center, height, gamma float64) float64 {
	d := x - center
	g2 := gamma * gamma
	return height * g2 / (d*d + g2)
}

func addLorentzian(axis, intensity []float64, l Line, gamma float64) {
	if l.Height == 0 {
		return
	}
	for i, x := range axis {
		intensity[i] += Lorentzian(x, l.Shift, l.Height, gamma)
	}
}

// Synthesizer renders spectra with fixed noise settings. It implements
// models.Renderer.
type Synthesizer struct {
	NoiseLevel float64
	RNG        NormalSource
}

// Render implements models.Renderer
func (s Synthesizer) Render(peaks []models.Peak, ppmRange models.PPMRange, resolution int, fieldStrength float64) ([]float64, []float64, error) {
	return Generate(peaks, ppmRange, resolution, fieldStrength, s.NoiseLevel, s.RNG)
}

// Ascending returns copies of the arrays ordered from low to high ppm
func Ascending(axis, intensity []float64) ([]float64, []float64) {
	n := len(axis)
	a := make([]float64, n)
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = axis[n-1-i]
		if n-1-i < len(intensity) {
			v[i] = intensity[n-1-i]
		}
	}
	return a, v
}

// LocalMaxima returns points higher than both neighbours and at least
// minFraction of the tallest point, in axis order
func LocalMaxima(axis, intensity []float64, minFraction float64) []models.SpectrumPoint {
	if len(intensity) < 3 {
		return nil
	}
	floor := minFraction * floats.Max(intensity)
	var out []models.SpectrumPoint
	for i := 1; i < len(intensity)-1; i++ {
		v := intensity[i]
		if v > intensity[i-1] && v >= intensity[i+1] && v >= floor {
			out = append(out, models.SpectrumPoint{PPM: axis[i], Intensity: v})
		}
	}
	return out
}
