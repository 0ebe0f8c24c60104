package parser

import (
	"strings"
	"testing"

	"github.com/RMahshie/nmrsim/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shifts(peaks []models.Peak) []float64 {
	out := make([]float64, len(peaks))
	for i, p := range peaks {
		out[i] = p.ChemicalShift
	}
	return out
}

func TestParseAssignmentLines(t *testing.T) {
	res := NewTextParser().Parse("A 7.6\nB 7.57\nC 2.3", models.Proton)

	require.Len(t, res.Peaks, 3)
	assert.Equal(t, []float64{7.6, 7.57, 2.3}, shifts(res.Peaks))
	assert.Equal(t, "A", res.Peaks[0].Assignment)
	assert.Equal(t, "B", res.Peaks[1].Assignment)
	assert.Equal(t, "C", res.Peaks[2].Assignment)
	assert.Zero(t, res.Skipped)
}

func TestParseAssignmentBands(t *testing.T) {
	tests := []struct {
		line        string
		mult        models.Multiplicity
		integration float64
		width       float64
	}{
		{"A 7.6", models.Multiplet, 1, 0.003},
		{"B 6.5", models.Multiplet, 1, 0.003},
		{"C 3.7", models.Quartet, 2, 0.002},
		{"D 1.25", models.Triplet, 3, 0.002},
		{"E 0.9", models.Singlet, 1, 0.002},
	}

	p := NewTextParser()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := p.Parse(tt.line, models.Proton)
			require.Len(t, res.Peaks, 1)
			peak := res.Peaks[0]
			assert.Equal(t, tt.mult, peak.Multiplicity)
			assert.Equal(t, tt.integration, peak.Integration)
			assert.InDelta(t, tt.width, peak.Width, 1e-12)
			assert.Equal(t, 1000*tt.integration, peak.Intensity)
		})
	}
}

func TestParseParenthetical(t *testing.T) {
	t.Run("singlet with integral", func(t *testing.T) {
		res := NewTextParser().Parse("7.36 (s, 5H)", models.Proton)
		require.Len(t, res.Peaks, 1)
		peak := res.Peaks[0]
		assert.Equal(t, 7.36, peak.ChemicalShift)
		assert.Equal(t, models.Singlet, peak.Multiplicity)
		assert.Equal(t, 5.0, peak.Integration)
		assert.Empty(t, peak.Assignment)
	})

	t.Run("couplings and label", func(t *testing.T) {
		res := NewTextParser().Parse("7.08 (t, J = 7.8 Hz, 1H, H-5)", models.Proton)
		require.Len(t, res.Peaks, 1)
		peak := res.Peaks[0]
		assert.Equal(t, models.Triplet, peak.Multiplicity)
		assert.Equal(t, []float64{7.8}, peak.CouplingConstants)
		assert.Equal(t, 1.0, peak.Integration)
		assert.Equal(t, "H-5", peak.Assignment)
		assert.InDelta(t, 0.003, peak.Width, 1e-12)
	})

	t.Run("two couplings", func(t *testing.T) {
		res := NewTextParser().Parse("6.95 (dd, J1 = 8.4, J2 = 2.1 Hz, 1H)", models.Proton)
		require.Len(t, res.Peaks, 1)
		assert.Equal(t, models.DoubletOfDoublets, res.Peaks[0].Multiplicity)
		assert.Equal(t, []float64{8.4, 2.1}, res.Peaks[0].CouplingConstants)
	})

	t.Run("several signals on one line", func(t *testing.T) {
		text := "1H NMR (400 MHz, CDCl3): δ 3.70 (q, J = 7.0 Hz, 2H), 1.25 (t, J = 7.0 Hz, 3H)"
		res := NewTextParser().Parse(text, models.Proton)
		require.Len(t, res.Peaks, 2)
		assert.Equal(t, []float64{3.70, 1.25}, shifts(res.Peaks))
		assert.Equal(t, models.Quartet, res.Peaks[0].Multiplicity)
		assert.Equal(t, 3.0, res.Peaks[1].Integration)
	})

	t.Run("broad signal is wider", func(t *testing.T) {
		res := NewTextParser().Parse("11.14 (br s, 1H, NH)\n2.10 (br, 1H, OH)", models.Proton)
		require.Len(t, res.Peaks, 2)
		assert.Equal(t, models.Singlet, res.Peaks[0].Multiplicity)
		assert.InDelta(t, 0.015, res.Peaks[0].Width, 1e-12)
		assert.Equal(t, "NH", res.Peaks[0].Assignment)
		assert.InDelta(t, 0.006, res.Peaks[1].Width, 1e-12)
	})

	t.Run("explicit linewidth", func(t *testing.T) {
		res := NewTextParser(WithFieldStrength(500)).Parse("2.0 (s, 3H, lw=5 Hz)\n3.0 (s, 1H, lw=0.02 ppm)\n4.0 (s, lw 0.5)", models.Proton)
		require.Len(t, res.Peaks, 3)
		assert.InDelta(t, 0.01, res.Peaks[0].Width, 1e-12)
		assert.InDelta(t, 0.02, res.Peaks[1].Width, 1e-12)
		assert.InDelta(t, 0.5, res.Peaks[2].Width, 1e-12)
	})

	t.Run("unknown compound tag becomes multiplet", func(t *testing.T) {
		res := NewTextParser().Parse("4.10 (ddd, J = 9.0 Hz, 1H)", models.Proton)
		require.Len(t, res.Peaks, 1)
		assert.Equal(t, models.Multiplet, res.Peaks[0].Multiplicity)
	})

	t.Run("solvent residual", func(t *testing.T) {
		res := NewTextParser().Parse("7.26 (s, CDCl3)\n2.50 (DMSO-d6)", models.Proton)
		require.Len(t, res.Peaks, 2)
		assert.True(t, res.Peaks[0].IsSolvent)
		assert.True(t, res.Peaks[1].IsSolvent)
		assert.Equal(t, models.Singlet, res.Peaks[1].Multiplicity)
	})

	t.Run("shift range uses midpoint", func(t *testing.T) {
		res := NewTextParser().Parse("7.40-7.20 (m, 5H)", models.Proton)
		require.Len(t, res.Peaks, 1)
		assert.InDelta(t, 7.30, res.Peaks[0].ChemicalShift, 1e-9)
	})
}

func TestParseTabulated(t *testing.T) {
	t.Run("carbon shift intensity number", func(t *testing.T) {
		res := NewTextParser().Parse("136.1 900 1\n102.1 50 8", models.Carbon13)
		require.Len(t, res.Peaks, 2)
		assert.Equal(t, 136.1, res.Peaks[0].ChemicalShift)
		assert.Equal(t, 900.0, res.Peaks[0].Intensity)
		assert.Equal(t, 100.0, res.Peaks[1].Intensity, "carbon intensities are floored at 100")
		assert.Equal(t, models.Singlet, res.Peaks[0].Multiplicity)
	})

	t.Run("proton hz ppm intensity", func(t *testing.T) {
		res := NewTextParser().Parse("2903.20 7.265 70\n2900.00 7.257 450", models.Proton)
		require.Len(t, res.Peaks, 2)
		assert.Equal(t, 7.265, res.Peaks[0].ChemicalShift)
		assert.Equal(t, 70.0, res.Peaks[0].Intensity)
		assert.Equal(t, 1.0, res.Peaks[0].Integration)
		assert.Equal(t, 5.0, res.Peaks[1].Integration)
	})
}

func TestParseSkipsGarbage(t *testing.T) {
	text := strings.Join([]string{
		"1H NMR (400 MHz, CDCl3):",
		"",
		"hello world",
		"7.36 (s, 5H)",
		"not a peak; A 7.6",
		"   ",
	}, "\n")

	res := NewTextParser().Parse(text, models.Proton)
	assert.Len(t, res.Peaks, 2)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, []string{"hello world", "not a peak"}, res.SkippedLines)
}

func TestParseEmpty(t *testing.T) {
	res := NewTextParser().Parse("", models.Proton)
	assert.Empty(t, res.Peaks)
	assert.NotNil(t, res.Peaks)
	assert.Zero(t, res.Skipped)
}

func TestDecodeJSON(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		peaks, skipped, err := DecodeJSON(strings.NewReader(`[
			{"chemical_shift": 1.25, "multiplicity": "t", "coupling_constants": [7.0], "integration": 3},
			{"shift": 3.70, "multiplicity": "q", "coupling": [7.0]},
			{"chemical_shift": "abc"},
			{"intensity": 4}
		]`))
		require.NoError(t, err)
		assert.Equal(t, 2, skipped)
		require.Len(t, peaks, 2)
		assert.Equal(t, models.Quartet, peaks[1].Multiplicity)
	})

	t.Run("wrapped", func(t *testing.T) {
		peaks, skipped, err := DecodeJSON(strings.NewReader(`{"nucleus":"1H","peaks":[{"chemical_shift":2.1}]}`))
		require.NoError(t, err)
		assert.Zero(t, skipped)
		assert.Len(t, peaks, 1)
	})

	t.Run("malformed", func(t *testing.T) {
		_, _, err := DecodeJSON(strings.NewReader(`[{`))
		assert.Error(t, err)
	})
}
