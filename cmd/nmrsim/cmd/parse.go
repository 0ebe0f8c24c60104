package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RMahshie/nmrsim/internal/export"
	"github.com/RMahshie/nmrsim/internal/processing"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a peak list and print the peaks",
		Long: `Parse literature-style or tabulated peak text. Use "-" to read stdin.

Examples:
  nmrsim parse peaks.txt
  echo "δ 7.26 (s, 1H)" | nmrsim parse - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			res := svc.Parse(cmd.Context(), processing.ParseInput{
				Text:          text,
				Nucleus:       opts.nucleusValue(),
				FieldStrength: opts.field,
			})
			warnSkipped(cmd.ErrOrStderr(), res.SkippedLines)

			if asJSON {
				return export.Write(cmd.OutOrStdout(), export.JSON, export.Document{Peaks: res.Peaks})
			}
			return printPeaks(cmd.OutOrStdout(), res.Peaks)
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "Print the peaks as JSON")
	return c
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var (
		mode         string
		policy       string
		totalProtons float64
		report       bool
	)

	c := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Group raw lines into multiplets",
		Long: `Group a raw line list into multiplets and infer multiplicity, coupling
constants, integration and assignment labels.

Modes:
  destructive      replace each group with one aggregated peak
  non_destructive  keep every line and annotate it with its group
  visual           like non_destructive, with reference-guided labels

Examples:
  nmrsim analyze lines.txt --mode destructive --report
  nmrsim analyze lines.txt --policy absolute
  nmrsim parse lines.txt --json | nmrsim analyze -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, peaks, err := loadInput(cmd, args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Analyze(cmd.Context(), processing.AnalyzeInput{
				Text:              text,
				Peaks:             peaks,
				Nucleus:           opts.nucleusValue(),
				FieldStrength:     opts.field,
				Mode:              mode,
				IntegrationPolicy: policy,
				TotalProtons:      totalProtons,
			})
			if err != nil {
				return err
			}
			if res.Skipped > 0 {
				yellow.Fprintf(cmd.ErrOrStderr(), "Skipped %d unreadable line(s)\n", res.Skipped)
			}

			if report {
				return export.Write(cmd.OutOrStdout(), export.Report, export.Document{
					Nucleus:       opts.nucleusValue(),
					FieldStrength: fieldOrDefault(opts.field),
					Peaks:         res.Peaks,
				})
			}
			return printGroups(cmd.OutOrStdout(), res.Groups)
		},
	}

	c.Flags().StringVarP(&mode, "mode", "m", "visual", "Grouping mode: destructive, non_destructive or visual")
	c.Flags().StringVar(&policy, "policy", "", "Integration policy: relative or absolute (default from INTEGRATION_POLICY)")
	c.Flags().Float64Var(&totalProtons, "total-protons", 0, "Assumed total nucleus count for relative integration")
	c.Flags().BoolVar(&report, "report", false, "Print a literature-style report instead of the group table")
	return c
}

func fieldOrDefault(field float64) float64 {
	if field > 0 {
		return field
	}
	return processing.DefaultOptions().FieldStrength
}
