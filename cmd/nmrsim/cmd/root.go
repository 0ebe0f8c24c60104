// Package cmd provides CLI command implementations
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RMahshie/nmrsim/internal/config"
	"github.com/RMahshie/nmrsim/internal/parser"
	"github.com/RMahshie/nmrsim/internal/processing"
	"github.com/RMahshie/nmrsim/internal/repository/sqlite"
	"github.com/RMahshie/nmrsim/pkg/models"
)

const version = "1.0.0"

var errNoDatabase = errors.New("this command needs a session database, pass --db")

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	dbPath  string
	nucleus string
	field   float64
	verbose bool
}

func (o *globalOptions) nucleusValue() models.Nucleus {
	return models.ParseNucleus(o.nucleus)
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "nmrsim",
		Short: "nmrsim - NMR spectrum simulator",
		Long: `nmrsim reads literature-style NMR peak lists, groups lines into
multiplets and renders synthetic 1D spectra.

- Parse peak text such as "δ 3.70 (q, 2H, J = 7.0 Hz)" or tabulated lines
- Group raw lines into multiplets and infer multiplicity and J values
- Render spectra as CSV or tab-separated points, peak tables or reports
- Keep sessions in a local SQLite file with --db`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level)
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite file for storing sessions")
	root.PersistentFlags().StringVar(&opts.nucleus, "nucleus", "1H", "Observed nucleus: 1H or 13C")
	root.PersistentFlags().Float64Var(&opts.field, "field", 0, "Spectrometer frequency in MHz (0 = FIELD_STRENGTH setting)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newParseCmd(opts))
	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newSimulateCmd(opts))
	root.AddCommand(newSessionsCmd(opts))

	return root
}

// openService builds a simulation service from the environment settings.
// Sessions are only persisted when --db is given.
func openService(opts *globalOptions) (processing.SimulationService, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	simOpts, err := processing.OptionsFromConfig(cfg.Simulation)
	if err != nil {
		return nil, nil, err
	}
	if opts.field > 0 {
		simOpts.FieldStrength = opts.field
	}

	if opts.dbPath == "" {
		return processing.NewSimulationService(nil, nil, simOpts), func() error { return nil }, nil
	}

	store, err := sqlite.Open(opts.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return processing.NewSimulationService(store, nil, simOpts), store.Close, nil
}

// readInput reads a peak list from a file, or from stdin when name is "-"
func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

// loadInput reads FILE either as a saved JSON peak list, as written by
// "parse --json", or as peak text for the parser
func loadInput(cmd *cobra.Command, name string) (string, []models.Peak, error) {
	raw, err := readInput(cmd, name)
	if err != nil {
		return "", nil, err
	}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
		return raw, nil, nil
	}

	peaks, skipped, err := parser.DecodeJSON(strings.NewReader(trimmed))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode peak list: %w", err)
	}
	if skipped > 0 {
		yellow.Fprintf(cmd.ErrOrStderr(), "Skipped %d peak record(s) without a shift\n", skipped)
	}
	if peaks == nil {
		peaks = []models.Peak{}
	}
	return "", peaks, nil
}
