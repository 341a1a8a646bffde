package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mgraves-column/openspec-tracking/internal/server"
	"github.com/mgraves-column/openspec-tracking/internal/source"
	"github.com/mgraves-column/openspec-tracking/internal/tools"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := server.New(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()

		logger.Info("serving MCP on stdio", zap.String("version", server.Version))
		return mcpserver.ServeStdio(s)
	},
}

var (
	generateOut   string
	generateWatch bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the source dataset from the proposals directory",
	Long: `Scans every change directory (except archive/) for proposal.md front-matter and
writes the dataset file. Any invalid proposal fails the run; all problems are listed.

With --watch the dataset is rebuilt whenever the proposals change. A running
server keeps the dataset it started with until it is restarted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cfg.DatasetPath
		if generateOut != "" {
			out = generateOut
		}
		opts := source.Options{Logger: logger.Named("source")}

		if !generateWatch {
			ds, err := source.Generate(cmd.Context(), cfg.ProposalsPath, opts)
			if err != nil {
				return reportGenerateErrors(cmd.ErrOrStderr(), err)
			}
			if err := source.WriteDataset(out, ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n  Cards: %d\n  Data version: %d\n", out, len(ds.Cards), ds.DataVersion)
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := source.NewWatcher(cfg.ProposalsPath, out, opts)
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		if _, err := w.Regenerate(ctx); err != nil {
			_ = reportGenerateErrors(cmd.ErrOrStderr(), err)
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return fmt.Errorf("watching %s: %w", cfg.ProposalsPath, err)
		}
		defer w.Stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", cfg.ProposalsPath)
		<-ctx.Done()
		return nil
	},
}

// reportGenerateErrors prints each accumulated generation error.
func reportGenerateErrors(w io.Writer, err error) error {
	errs := multierr.Errors(err)
	fmt.Fprintf(w, "Errors processing %d changes:\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "  - %v\n", e)
	}
	return errors.New("dataset generation failed")
}

var (
	viewSearch   string
	viewPriority string
	viewEpic     string
	viewColumn   string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the board, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, func(b *server.Board) (toolHandler, map[string]any) {
			return tools.NewViewTool(b.Session).Handle, map[string]any{
				"search":   viewSearch,
				"priority": viewPriority,
				"epic":     viewEpic,
				"column":   viewColumn,
			}
		})
	},
}

var cardCmd = &cobra.Command{
	Use:   "card ID",
	Short: "Print one card in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, func(b *server.Board) (toolHandler, map[string]any) {
			return tools.NewCardTool(b.Session, b.Config.ProposalsPath).Handle, map[string]any{"card_id": args[0]}
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move ID COLUMN",
	Short: "Move a card to a column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, func(b *server.Board) (toolHandler, map[string]any) {
			return tools.NewMoveTool(b.Session).Handle, map[string]any{"card_id": args[0], "column": args[1]}
		})
	},
}

var (
	updatePriority string
	updateNotes    string
	updateColumn   string
)

var updateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a card's priority, notes or column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := map[string]any{"card_id": args[0]}
		flags := cmd.Flags()
		if flags.Changed("priority") {
			a["priority"] = updatePriority
		}
		if flags.Changed("notes") {
			a["notes"] = updateNotes
		}
		if flags.Changed("column") {
			a["column"] = updateColumn
		}
		return withBoard(cmd, func(b *server.Board) (toolHandler, map[string]any) {
			return tools.NewUpdateTool(b.Session).Handle, a
		})
	},
}

var reorderCmd = &cobra.Command{
	Use:   "reorder COLUMN ID...",
	Short: "Set the order of a column's cards",
	Long: `Sets the order of the cards in COLUMN. List every card of the column:
cards of the column left out are removed from the board.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, func(b *server.Board) (toolHandler, map[string]any) {
			return tools.NewReorderTool(b.Session).Handle, map[string]any{
				"column":   args[0],
				"card_ids": strings.Join(args[1:], ","),
			}
		})
	},
}

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the board to openspec-board-YYYY-MM-DD.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, func(b *server.Board) (toolHandler, map[string]any) {
			return tools.NewExportTool(b.Session, b.Store, b.Config.ExportDir).Handle, map[string]any{"directory": exportDir}
		})
	},
}

var importReconcile bool

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Load a board from an exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := tools.ImportReplace
		if importReconcile {
			mode = tools.ImportReconcile
		}
		return withBoard(cmd, func(b *server.Board) (toolHandler, map[string]any) {
			return tools.NewImportTool(b.Session, b.Store).Handle, map[string]any{"path": args[0], "mode": mode}
		})
	},
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard board edits and restore the source dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(cmd, func(b *server.Board) (toolHandler, map[string]any) {
			return tools.NewResetTool(b.Session).Handle, map[string]any{"confirm": resetYes}
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "openspec-board v%s\n", server.Version)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Dataset file to write (default: --dataset)")
	generateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate whenever the proposals change")

	viewCmd.Flags().StringVarP(&viewSearch, "search", "s", "", "Case-insensitive text filter")
	viewCmd.Flags().StringVarP(&viewPriority, "priority", "p", "", "Priority filter (or all)")
	viewCmd.Flags().StringVarP(&viewEpic, "epic", "e", "", "Epic filter (or all)")
	viewCmd.Flags().StringVarP(&viewColumn, "column", "c", "", "Only show this column")

	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority")
	updateCmd.Flags().StringVarP(&updateNotes, "notes", "n", "", "New notes (empty clears)")
	updateCmd.Flags().StringVarP(&updateColumn, "column", "c", "", "New column")

	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "Directory to write into (default: current directory)")
	importCmd.Flags().BoolVar(&importReconcile, "reconcile", false, "Keep the current card set; take column, priority and notes from the file")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Confirm the reset")
}

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// withBoard opens the board, runs one tool handler against it and prints the
// result. A tool error result becomes the command error.
func withBoard(cmd *cobra.Command, pick func(*server.Board) (toolHandler, map[string]any)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := server.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("closing board storage failed", zap.Error(err))
		}
	}()

	handle, args := pick(b)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handle(ctx, req)
	if err != nil {
		return err
	}

	text := resultText(result)
	if result.IsError {
		return errors.New(text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
