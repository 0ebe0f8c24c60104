package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RMahshie/nmrsim/internal/export"
)

func newSessionsCmd(opts *globalOptions) *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "sessions",
		Short: "List stored simulation sessions",
		Long: `List, show or delete sessions kept in the --db file.

Examples:
  nmrsim --db nmr.db sessions
  nmrsim --db nmr.db sessions show 0b6f1f44-8f3c-4c36-9f7e-3b9a4f1d2a10 --format report
  nmrsim --db nmr.db sessions delete 0b6f1f44-8f3c-4c36-9f7e-3b9a4f1d2a10`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.Root().PersistentPreRun(cmd, args)
			if opts.dbPath == "" {
				return errNoDatabase
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			sessions, err := svc.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printSessions(cmd.OutOrStdout(), sessions)
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions")

	c.AddCommand(newSessionShowCmd(opts))
	c.AddCommand(newSessionDeleteCmd(opts))
	return c
}

func newSessionShowCmd(opts *globalOptions) *cobra.Command {
	var (
		format     string
		outputFile string
	)

	c := &cobra.Command{
		Use:   "show ID",
		Short: "Re-render a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), outputFile, f, export.FromSession(res.Session, res.Axis, res.Intensity))
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "report", "Output format: csv, txt, peaks, json or report")
	c.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (default stdout)")
	return c
}

func newSessionDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(opts)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.DeleteSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			green.Fprintf(cmd.ErrOrStderr(), "Deleted session %s\n", args[0])
			return nil
		},
	}
}
