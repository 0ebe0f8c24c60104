package multiplet

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// couplingTolerance is the spread (Hz) within which line spacings are taken
// to be the same coupling
const couplingTolerance = 2.0

// Inference is the pattern read from a group of lines
type Inference struct {
	Multiplicity models.Multiplicity
	Couplings    []float64 // Hz, larger first
}

// InferMultiplicity classifies a group of lines by their count and relative
// heights. shifts (ppm) and intensities are paired and may be in any order.
// Every grouping mode goes through this one routine.
func InferMultiplicity(shifts, intensities []float64, fieldStrength float64) Inference {
	n := len(shifts)
	if n == 0 {
		return Inference{Multiplicity: models.Singlet, Couplings: []float64{}}
	}

	s, norm := sortedLines(shifts, intensities)
	span := (s[n-1] - s[0]) * fieldStrength

	switch n {
	case 1:
		return Inference{Multiplicity: models.Singlet, Couplings: []float64{}}
	case 2:
		return Inference{Multiplicity: models.Doublet, Couplings: []float64{span}}
	case 3:
		if isTriplet(norm) {
			return Inference{Multiplicity: models.Triplet, Couplings: []float64{span / 2}}
		}
		g := gapsHz(s, fieldStrength)
		return Inference{Multiplicity: models.DoubletOfDoublets, Couplings: descending(g)}
	case 4:
		if isQuartet(norm) {
			return Inference{Multiplicity: models.Quartet, Couplings: []float64{span / 3}}
		}
		j1 := ((s[2] - s[0]) + (s[3] - s[1])) / 2 * fieldStrength
		j2 := ((s[1] - s[0]) + (s[3] - s[2])) / 2 * fieldStrength
		return Inference{Multiplicity: models.DoubletOfDoublets, Couplings: descending([]float64{j1, j2})}
	case 5:
		if isSymmetricAbout(norm, []int{2}) {
			return Inference{Multiplicity: models.Quintet, Couplings: []float64{span / 4}}
		}
		return Inference{Multiplicity: models.DoubletOfTriplets, Couplings: clusterCouplings(gapsHz(s, fieldStrength), 2)}
	case 6:
		if isSymmetricAbout(norm, []int{2, 3}) {
			return Inference{Multiplicity: models.Sextet, Couplings: []float64{span / 5}}
		}
		return Inference{Multiplicity: models.DoubletOfTriplets, Couplings: clusterCouplings(gapsHz(s, fieldStrength), 3)}
	case 7:
		return Inference{Multiplicity: models.DoubletOfTriplets, Couplings: clusterCouplings(gapsHz(s, fieldStrength), 2)}
	case 8:
		return Inference{Multiplicity: models.DoubletOfQuartets, Couplings: clusterCouplings(gapsHz(s, fieldStrength), 2)}
	}
	return Inference{Multiplicity: models.Multiplet, Couplings: []float64{}}
}

// sortedLines orders the lines by ascending shift and scales heights so the
// tallest is 1
func sortedLines(shifts, intensities []float64) ([]float64, []float64) {
	idx := make([]int, len(shifts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return shifts[idx[a]] < shifts[idx[b]] })

	s := make([]float64, len(shifts))
	h := make([]float64, len(shifts))
	for i, k := range idx {
		s[i] = shifts[k]
		if k < len(intensities) {
			h[i] = nonNegative(intensities[k])
		}
	}

	if top := floats.Max(h); top > 0 {
		floats.Scale(1/top, h)
	}
	return s, h
}

// isTriplet checks for a 1:2:1 envelope
func isTriplet(n []float64) bool {
	return n[1] >= 0.7 &&
		math.Abs(n[0]-n[2]) < 0.3 &&
		n[0] < 0.8 && n[2] < 0.8
}

// isQuartet checks for two clearly small and two clearly large lines
func isQuartet(n []float64) bool {
	v := append([]float64(nil), n...)
	sort.Float64s(v)
	return v[0] < 0.4 && v[1] < 0.4 && math.Abs(v[1]-v[0]) < 0.2 &&
		v[2] > 0.7 && v[3] > 0.7 && math.Abs(v[3]-v[2]) < 0.2
}

// isSymmetricAbout checks that the central lines dominate and match each
// other, and that heights fall away strictly and symmetrically on both sides
func isSymmetricAbout(n []float64, centre []int) bool {
	peak := 0.0
	for _, i := range centre {
		peak = math.Max(peak, n[i])
	}
	if peak <= 0.8 {
		return false
	}
	if len(centre) == 2 && math.Abs(n[centre[0]]-n[centre[1]]) >= 0.3 {
		return false
	}
	last := len(n) - 1
	for i := 0; i < centre[0]; i++ {
		if math.Abs(n[i]-n[last-i]) >= 0.3 {
			return false
		}
		if n[i] >= n[i+1] || n[last-i] >= n[last-i-1] {
			return false
		}
	}
	return true
}

// gapsHz returns consecutive spacings of sorted shifts, in Hz
func gapsHz(s []float64, fieldStrength float64) []float64 {
	if len(s) < 2 {
		return nil
	}
	g := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		g[i-1] = (s[i] - s[i-1]) * fieldStrength
	}
	return g
}

// clusterCouplings merges spacings that agree within couplingTolerance and
// returns up to limit cluster means, larger first. When there are more
// clusters than limit the most populated win.
func clusterCouplings(gaps []float64, limit int) []float64 {
	if len(gaps) == 0 {
		return []float64{}
	}
	v := append([]float64(nil), gaps...)
	sort.Float64s(v)

	type cluster struct {
		sum   float64
		count int
		first float64
	}
	var clusters []cluster
	for _, g := range v {
		if len(clusters) > 0 && g-clusters[len(clusters)-1].first <= couplingTolerance {
			c := &clusters[len(clusters)-1]
			c.sum += g
			c.count++
			continue
		}
		clusters = append(clusters, cluster{sum: g, count: 1, first: g})
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		if clusters[a].count != clusters[b].count {
			return clusters[a].count > clusters[b].count
		}
		return clusters[a].first > clusters[b].first
	})
	if len(clusters) > limit {
		clusters = clusters[:limit]
	}

	out := make([]float64, len(clusters))
	for i, c := range clusters {
		out[i] = c.sum / float64(c.count)
	}
	return descending(out)
}

func descending(v []float64) []float64 {
	out := append([]float64(nil), v...)
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
