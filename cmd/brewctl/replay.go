package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rsned/potion-brewing-agent/internal/brewing/db"
	"github.com/rsned/potion-brewing-agent/internal/brewing/engine"
	"github.com/rsned/potion-brewing-agent/internal/brewing/replay"
	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

var replayLimit int

var replayCmd = &cobra.Command{
	Use:   "replay [GAME_ID]",
	Short: "Re-run the engine over archived games",
	Long: `Feed every archived turn back to the engine and report where its action
differs from the recorded one. Combine with --tuning to see how a change in
constants would have played.

Examples:
  brewctl replay
  brewctl replay 3f0c... --tuning tuning.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&replayLimit, "limit", 20, "Maximum divergences to print (0 for all)")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	t, err := loadTuning()
	if err != nil {
		return err
	}
	database, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	r := replay.NewReplayer(db.NewGameStore(database), engine.New(t, logger), logger)

	var res *replay.Result
	if len(args) == 1 {
		res, err = r.ReplayGame(ctx, args[0])
	} else {
		res, err = r.ReplayAll(ctx)
	}
	if err != nil {
		return err
	}

	printReplay(cmd.OutOrStdout(), res, replayLimit)
	return nil
}

func printReplay(w io.Writer, res *replay.Result, limit int) {
	fmt.Fprintf(w, "%d games, %d turns, %d matches (%.1f%%)\n",
		res.Games, res.Turns, res.Matches, 100*res.MatchRate())
	for _, k := range brewing.ValidActionKinds() {
		if n := res.Actions[k]; n > 0 {
			fmt.Fprintf(w, "  %-5s %d\n", k, n)
		}
	}

	if len(res.Divergences) == 0 {
		return
	}
	fmt.Fprintln(w, "\nDivergences:")
	for i, d := range res.Divergences {
		if limit > 0 && i == limit {
			fmt.Fprintf(w, "  ... %d more\n", len(res.Divergences)-limit)
			break
		}
		fmt.Fprintf(w, "  %s turn %d: recorded %q, replayed %q\n", d.GameID, d.Turn, d.Recorded, d.Replayed.String())
	}
}
