package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rsned/potion-brewing-agent/internal/brewing/sync"
)

var importClear bool

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Load transcripts into the game archive",
	Long: `Import one or more transcript files. Games already in the archive are
replaced by the imported copy.

Example:
  brewctl import transcripts/*.jsonl.zst`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importClear, "clear", false, "Remove all archived games before importing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	syncer := sync.NewSyncer(database)
	if importClear {
		if err := syncer.ClearAll(ctx); err != nil {
			return fmt.Errorf("clear archive: %w", err)
		}
		logger.Info("archive cleared", "db", dbPath)
	}

	var games, turns int
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		logger.Debug("importing transcript", "file", path)
		res, err := syncer.ImportTranscriptFile(ctx, path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s games, %s turns\n",
			path, humanize.Bytes(uint64(info.Size())),
			humanize.Comma(int64(len(res.GameIDs))), humanize.Comma(int64(res.Turns)))
		games += len(res.GameIDs)
		turns += res.Turns
	}

	if len(args) > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "total: %s games, %s turns\n",
			humanize.Comma(int64(games)), humanize.Comma(int64(turns)))
	}
	return nil
}
