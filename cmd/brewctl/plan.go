package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rsned/potion-brewing-agent/internal/brewing/planner"
	"github.com/rsned/potion-brewing-agent/internal/brewing/protocol"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Estimate turns-to-brew for every recipe of one turn",
	Long: `Read a single turn in the game's input format from stdin and print, for
each recipe, the fewest cast/rest turns before it can be brewed.

Example:
  brewctl plan < turn.txt`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	t, err := loadTuning()
	if err != nil {
		return err
	}
	turn, err := protocol.NewDecoder(cmd.InOrStdin()).ReadTurn()
	if err != nil {
		return fmt.Errorf("read turn: %w", err)
	}

	p, err := planner.New(t.Planner)
	if err != nil {
		return err
	}
	printEstimates(cmd.OutOrStdout(), p.PlanAll(turn))
	return nil
}

func printEstimates(w io.Writer, estimates []planner.Estimate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECIPE\tPRICE\tTURNS\tPATH")
	for _, e := range estimates {
		if !e.Reachable {
			fmt.Fprintf(tw, "%d\t%d\t-\tunreachable\n", e.RecipeID, e.Price)
			continue
		}
		steps := make([]string, len(e.Cost.Path))
		for i, a := range e.Cost.Path {
			steps[i] = a.String()
		}
		path := strings.Join(steps, ", ")
		if path == "" {
			path = "brew now"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", e.RecipeID, e.Price, e.Cost.Turns, path)
	}
	_ = tw.Flush()
}
