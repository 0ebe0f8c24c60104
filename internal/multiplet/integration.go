package multiplet

import (
	"math"
)

const (
	minIntegration = 1
	maxIntegration = 12
)

// absoluteBreakpoints map raw summed intensity to a nucleus count, scanned top down
var absoluteBreakpoints = []struct {
	above   float64
	divisor float64
}{
	{20000, 7000},
	{5000, 5000},
	{1000, 2000},
}

// AbsoluteIntegration converts a summed intensity with the fixed breakpoint
// table, clamped to [1, 12]
func AbsoluteIntegration(sum float64) float64 {
	v := 1.0
	for _, bp := range absoluteBreakpoints {
		if sum > bp.above {
			v = math.Round(sum / bp.divisor)
			break
		}
	}
	return math.Min(maxIntegration, math.Max(minIntegration, v))
}

// relativeBins bucket a relative estimate into a whole count, scanned
// bottom up; estimates of 10 and above are rounded
var relativeBins = []struct {
	below float64
	count float64
}{
	{1.5, 1},
	{2.5, 2},
	{3.5, 3},
	{4.5, 4},
	{5.5, 5},
	{6.5, 6},
	{8, 7},
	{10, 9},
}

// RelativeIntegration scales a group's share of the total intensity to
// totalProtons and buckets it into a whole count of at least 1
func RelativeIntegration(sum, total, totalProtons float64) float64 {
	if total <= 0 || sum <= 0 {
		return minIntegration
	}
	estimate := sum / total * totalProtons
	for _, bin := range relativeBins {
		if estimate < bin.below {
			return bin.count
		}
	}
	return math.Round(estimate)
}

func (a *analyzer) integrate(sum, total float64) float64 {
	if a.cfg.IntegrationPolicy == AbsoluteScale {
		return AbsoluteIntegration(sum)
	}
	return RelativeIntegration(sum, total, a.cfg.TotalProtons)
}
