package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/RMahshie/nmrsim/internal/synth"
	"github.com/RMahshie/nmrsim/pkg/models"
)

// Format names a downloadable representation of a session
type Format string

const (
	CSV    Format = "csv"    // spectrum points, comma separated
	TXT    Format = "txt"    // spectrum points, tab separated
	Peaks  Format = "peaks"  // peak table CSV
	JSON   Format = "json"   // peak list
	Report Format = "report" // literature-style summary
)

var ErrNotRendered = errors.New("spectrum arrays are missing")

// Formats lists every supported format
var Formats = []Format{CSV, TXT, Peaks, JSON, Report}

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// ContentType returns the MIME type stored alongside the object
func (f Format) ContentType() string {
	switch f {
	case CSV, Peaks:
		return "text/csv"
	case JSON:
		return "application/json"
	default:
		return "text/plain"
	}
}

// Extension returns the file extension, without the dot
func (f Format) Extension() string {
	switch f {
	case Peaks:
		return "csv"
	case Report:
		return "txt"
	default:
		return string(f)
	}
}

// NeedsArrays reports whether the format writes rendered points
func (f Format) NeedsArrays() bool {
	return f == CSV || f == TXT
}

// Document is everything an export may draw on. Axis and Intensity are in
// rendered order, high ppm first.
type Document struct {
	Title         string
	Nucleus       models.Nucleus
	FieldStrength float64
	Range         models.PPMRange
	Peaks         []models.Peak
	Axis          []float64
	Intensity     []float64
}

// FromSession builds a Document from a session and its rendered arrays
func FromSession(s *models.Session, axis, intensity []float64) Document {
	return Document{
		Title:         s.Title,
		Nucleus:       s.Nucleus,
		FieldStrength: s.FieldStrength,
		Range:         s.PPMRange,
		Peaks:         s.Peaks,
		Axis:          axis,
		Intensity:     intensity,
	}
}

// Write renders doc in the given format
func Write(w io.Writer, f Format, doc Document) error {
	if f.NeedsArrays() && (len(doc.Axis) == 0 || len(doc.Axis) != len(doc.Intensity)) {
		return ErrNotRendered
	}
	switch f {
	case CSV:
		return writePoints(w, ',', doc)
	case TXT:
		return writePoints(w, '\t', doc)
	case Peaks:
		return writePeakTable(w, doc.Peaks)
	case JSON:
		return writePeakList(w, doc.Peaks)
	case Report:
		return writeReport(w, doc)
	}
	return fmt.Errorf("unsupported export format: %q", f)
}

// writePoints writes one row per point in ascending ppm under the
// Chemical_Shift_ppm/Intensity header
func writePoints(w io.Writer, sep byte, doc Document) error {
	axis, intensity := synth.Ascending(doc.Axis, doc.Intensity)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Chemical_Shift_ppm%cIntensity\n", sep)
	for i := range axis {
		fmt.Fprintf(bw, "%.6f%c%.6f\n", axis[i], sep, intensity[i])
	}
	return bw.Flush()
}

func writePeakTable(w io.Writer, peaks []models.Peak) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"chemical_shift", "multiplicity", "integration", "coupling_constants"}); err != nil {
		return err
	}
	for _, p := range ascendingPeaks(peaks) {
		couplings := make([]string, len(p.CouplingConstants))
		for i, j := range p.CouplingConstants {
			couplings[i] = strconv.FormatFloat(j, 'f', 1, 64)
		}
		err := cw.Write([]string{
			strconv.FormatFloat(p.ChemicalShift, 'f', 4, 64),
			string(p.Multiplicity),
			strconv.FormatFloat(p.Integration, 'f', 2, 64),
			strings.Join(couplings, ";"),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePeakList(w io.Writer, peaks []models.Peak) error {
	if peaks == nil {
		peaks = []models.Peak{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Peaks []models.Peak `json:"peaks"`
	}{peaks})
}

// writeReport prints the peaks downfield first, one literature-style entry
// per line
func writeReport(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	if doc.Title != "" {
		fmt.Fprintln(bw, doc.Title)
	}
	fmt.Fprintf(bw, "%s NMR (%g MHz):\n", doc.Nucleus, doc.FieldStrength)

	peaks := ascendingPeaks(doc.Peaks)
	for i := len(peaks) - 1; i >= 0; i-- {
		fmt.Fprintln(bw, ReportLine(peaks[i]))
	}
	return bw.Flush()
}

// ReportLine formats a peak as "δ 1.25 (t, 3H, J = 7.0 Hz, CH3)"
func ReportLine(p models.Peak) string {
	parts := []string{string(p.Multiplicity), strconv.FormatFloat(p.Integration, 'f', 0, 64) + "H"}
	if len(p.CouplingConstants) > 0 {
		js := make([]string, len(p.CouplingConstants))
		for i, j := range p.CouplingConstants {
			js[i] = strconv.FormatFloat(j, 'f', 1, 64)
		}
		parts = append(parts, "J = "+strings.Join(js, ", ")+" Hz")
	}
	if p.Assignment != "" {
		parts = append(parts, p.Assignment)
	}
	return fmt.Sprintf("δ %.2f (%s)", p.ChemicalShift, strings.Join(parts, ", "))
}

func ascendingPeaks(peaks []models.Peak) []models.Peak {
	out := append([]models.Peak(nil), peaks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChemicalShift < out[j].ChemicalShift })
	return out
}
