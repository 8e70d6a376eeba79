package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rsned/potion-brewing-agent/internal/brewing/db"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List archived games",
	Args:  cobra.NoArgs,
	RunE:  runGames,
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}

func runGames(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	database, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	store := db.NewGameStore(database)
	games, err := store.ListGames(ctx)
	if err != nil {
		return err
	}
	counts, err := store.CountActions(ctx)
	if err != nil {
		return err
	}

	printGames(cmd.OutOrStdout(), games, counts, time.Now())
	return nil
}

// sqliteTime is the layout of SQLite's datetime('now').
const sqliteTime = "2006-01-02 15:04:05"

func printGames(w io.Writer, games []db.Game, counts map[string]int, now time.Time) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games archived.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tTURNS\tSOURCE\tIMPORTED")
	for _, g := range games {
		imported := g.ImportedAt
		if t, err := time.Parse(sqliteTime, g.ImportedAt); err == nil {
			imported = humanize.RelTime(t, now, "ago", "from now")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, humanize.Comma(int64(g.TurnCount)), g.Source, imported)
	}
	_ = tw.Flush()

	kinds := make([]string, 0, len(counts))
	var total int
	for k, n := range counts {
		kinds = append(kinds, k)
		total += n
	}
	sort.Strings(kinds)

	fmt.Fprintf(w, "\n%d games, %s turns\n", len(games), humanize.Comma(int64(total)))
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-5s %s\n", k, humanize.Comma(int64(counts[k])))
	}
}
