package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/RMahshie/nmrsim/pkg/models"
)

var (
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	bold   = color.New(color.Bold)
)

// warnSkipped lists the input lines the parser could not read
func warnSkipped(w io.Writer, lines []string) {
	if len(lines) == 0 {
		return
	}
	yellow.Fprintf(w, "Skipped %d unreadable line(s):\n", len(lines))
	for _, l := range lines {
		yellow.Fprintf(w, "  %s\n", l)
	}
}

func printPeaks(w io.Writer, peaks []models.Peak) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	bold.Fprintln(tw, "SHIFT\tMULT\tINT\tJ (Hz)\tWIDTH\tASSIGNMENT")
	for _, p := range peaks {
		fmt.Fprintf(tw, "%.4f\t%s\t%.2f\t%s\t%.4f\t%s\n",
			p.ChemicalShift, p.Multiplicity, p.Integration, formatCouplings(p.CouplingConstants), p.Width, p.Assignment)
	}
	return tw.Flush()
}

func printGroups(w io.Writer, groups []models.MultipletGroup) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	bold.Fprintln(tw, "GROUP\tLABEL\tCENTER\tMULT\tnH\tJ (Hz)\tLINES")
	for _, g := range groups {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%s\t%.1f\t%s\t%d\n",
			g.ID, g.Label, g.CenterShift, g.Multiplicity, g.Integration, formatCouplings(g.Couplings), g.Size)
	}
	return tw.Flush()
}

func printSessions(w io.Writer, sessions []*models.Session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	bold.Fprintln(tw, "ID\tTITLE\tNUCLEUS\tPEAKS\tCREATED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Title, s.Nucleus, len(s.Peaks), s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func formatCouplings(js []float64) string {
	if len(js) == 0 {
		return "-"
	}
	parts := make([]string, len(js))
	for i, j := range js {
		parts[i] = strconv.FormatFloat(j, 'f', 1, 64)
	}
	return strings.Join(parts, ", ")
}
