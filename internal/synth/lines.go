package synth

import (
	"math"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// DefaultCoupling (Hz) stands in for any coupling a pattern needs but the peak lacks
const DefaultCoupling = 7.0

// Line is one Lorentzian of a split signal
type Line struct {
	Shift  float64 // ppm
	Height float64
}

// splitting lists, per multiplicity, the binomial order of each successive
// coupling: a doublet splits once into 2, a dt splits into 2 then each into 3
var splitting = map[models.Multiplicity][]int{
	models.Doublet:           {1},
	models.Triplet:           {2},
	models.Quartet:           {3},
	models.Quintet:           {4},
	models.Sextet:            {5},
	models.DoubletOfDoublets: {1, 1},
	models.DoubletOfTriplets: {1, 2},
	models.TripletOfDoublets: {2, 1},
	models.DoubletOfQuartets: {1, 3},
}

// Lines expands a peak into its individual lines. Heights always sum to the
// peak's intensity. Singlets, multiplets and unknown tags give one line.
func Lines(p models.Peak, fieldStrength float64) []Line {
	lines := []Line{{Shift: p.ChemicalShift, Height: p.Intensity}}

	orders, ok := splitting[models.ParseMultiplicity(string(p.Multiplicity))]
	if !ok {
		return lines
	}
	for i, n := range orders {
		j := DefaultCoupling
		if i < len(p.CouplingConstants) {
			if c := p.CouplingConstants[i]; c > 0 && !math.IsInf(c, 0) {
				j = c
			}
		}
		lines = split(lines, n, j/fieldStrength)
	}
	return lines
}

// split replaces every line with n+1 lines spaced jPPM apart and weighted by
// binomial coefficients
func split(lines []Line, n int, jPPM float64) []Line {
	weights := binomial(n)
	out := make([]Line, 0, len(lines)*(n+1))
	for _, l := range lines {
		for k, w := range weights {
			out = append(out, Line{
				Shift:  l.Shift + (float64(k)-float64(n)/2)*jPPM,
				Height: l.Height * w,
			})
		}
	}
	return out
}

// binomial returns row n of Pascal's triangle scaled to sum to 1
func binomial(n int) []float64 {
	row := []float64{1}
	for i := 0; i < n; i++ {
		next := make([]float64, len(row)+1)
		for k, v := range row {
			next[k] += v / 2
			next[k+1] += v / 2
		}
		row = next
	}
	return row
}
