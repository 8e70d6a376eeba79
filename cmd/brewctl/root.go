package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rsned/potion-brewing-agent/internal/brewing/db"
	"github.com/rsned/potion-brewing-agent/internal/brewing/tuning"
)

var (
	// Global flags
	dbPath     string
	tuningPath string
	verbose    bool
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "brewctl",
	Short: "Offline tooling for the potion brewing agent",
	Long: `brewctl captures, archives and replays potion brewing games.

Commands:
  capture   Play as the agent on stdin/stdout and record a transcript
  import    Load transcripts into the game archive
  games     List archived games
  replay    Re-run the engine over archived games
  plan      Estimate turns-to-brew for every recipe of one turn`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), stderrIsTerminal(), verbose)
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and runs it until it
// finishes or the process is interrupted.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/brewing/games.db", "Path to SQLite game archive")
	rootCmd.PersistentFlags().StringVar(&tuningPath, "tuning", "", "YAML tuning file (default: built-in constants)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger logs text for humans and JSON for everything else.
func newLogger(w io.Writer, terminal, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if terminal {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// loadTuning returns the built-in tuning unless --tuning names a file.
func loadTuning() (tuning.Tuning, error) {
	if tuningPath == "" {
		return tuning.Default(), nil
	}
	t, err := tuning.Load(tuningPath)
	if err != nil {
		return tuning.Tuning{}, fmt.Errorf("load tuning: %w", err)
	}
	logger.Debug("loaded tuning", "file", tuningPath, "mean_price", t.MeanPrice)
	return t, nil
}

// openArchive opens the game archive named by --db, creating it if needed.
func openArchive(ctx context.Context) (*db.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	database, err := db.OpenAndInit(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}
