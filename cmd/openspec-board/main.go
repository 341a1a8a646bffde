// openspec-board: a kanban board over OpenSpec change proposals.
//
// The board is served to AI coding tools over MCP (stdio) and can be driven
// directly from the command line.
//
// Usage:
//
//	openspec-board serve              # Start MCP server (stdio transport)
//	openspec-board generate --watch   # Rebuild the dataset when proposals change
//	openspec-board view --epic connectors
package main

import (
	"fmt"
	"os"

	"github.com/mgraves-column/openspec-tracking/internal/config"
	"github.com/mgraves-column/openspec-tracking/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose       bool
	dataDir       string
	datasetPath   string
	proposalsPath string
	ephemeral     bool

	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "openspec-board",
	Short: "Kanban board for OpenSpec change proposals",
	Long: `openspec-board tracks OpenSpec changes on a kanban board.

Cards are generated from each change's proposal.md front-matter. Column,
priority and notes are yours: they are saved locally and survive
regeneration of the dataset.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = resolveConfig(cmd)
		logger.Debug("config resolved",
			zap.String("data_dir", cfg.DataDir),
			zap.String("database", cfg.DatabasePath),
			zap.String("dataset", cfg.DatasetPath),
			zap.String("proposals", cfg.ProposalsPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// resolveConfig layers changed flags over the environment and defaults.
func resolveConfig(cmd *cobra.Command) config.Config {
	c := config.Load()
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		c = c.WithDataDir(dataDir)
	}
	if flags.Changed("dataset") {
		c.DatasetPath = datasetPath
	}
	if flags.Changed("proposals") {
		c.ProposalsPath = proposalsPath
	}
	c.Verbose = verbose
	c.Ephemeral = ephemeral
	return c
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
	pf.StringVar(&dataDir, "data-dir", "", "Directory for the board database and dataset (default ~/.openspec-board)")
	pf.StringVar(&datasetPath, "dataset", "", "Source dataset file (default <data-dir>/dataset.json)")
	pf.StringVar(&proposalsPath, "proposals", "", "OpenSpec changes directory (default openspec/changes)")
	pf.BoolVar(&ephemeral, "ephemeral", false, "Keep the board in memory; nothing is saved")

	rootCmd.AddCommand(
		serveCmd,
		generateCmd,
		viewCmd,
		cardCmd,
		moveCmd,
		updateCmd,
		reorderCmd,
		exportCmd,
		importCmd,
		resetCmd,
		versionCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
