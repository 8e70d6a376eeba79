// Package replay re-runs the decision engine over archived games.
//
// A replay answers one question: given the same turn input, does the engine
// (possibly with different tuning) still choose the action that was recorded?
package replay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rsned/potion-brewing-agent/internal/brewing/db"
	"github.com/rsned/potion-brewing-agent/internal/brewing/protocol"
	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

// Divergence is a turn where the replayed action differs from the recorded one.
type Divergence struct {
	GameID   string         `json:"game_id"`
	Turn     int            `json:"turn"`
	Recorded string         `json:"recorded"`
	Replayed brewing.Action `json:"replayed"`
}

// Result summarizes a replay of one or more games.
type Result struct {
	Games       int                        `json:"games"`
	Turns       int                        `json:"turns"`
	Matches     int                        `json:"matches"`
	Divergences []Divergence               `json:"divergences,omitempty"`
	Actions     map[brewing.ActionKind]int `json:"actions"`
}

// MatchRate returns the fraction of turns where the replay agreed with the record.
func (r *Result) MatchRate() float64 {
	if r.Turns == 0 {
		return 0
	}
	return float64(r.Matches) / float64(r.Turns)
}

func (r *Result) merge(o *Result) {
	r.Games += o.Games
	r.Turns += o.Turns
	r.Matches += o.Matches
	r.Divergences = append(r.Divergences, o.Divergences...)
	for k, n := range o.Actions {
		r.Actions[k] += n
	}
}

func newResult() *Result {
	return &Result{Actions: make(map[brewing.ActionKind]int)}
}

// Replayer feeds stored turns to a Decider.
type Replayer struct {
	store   *db.GameStore
	decider protocol.Decider
	logger  *slog.Logger
}

// NewReplayer creates a new Replayer.
func NewReplayer(store *db.GameStore, decider protocol.Decider, logger *slog.Logger) *Replayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replayer{store: store, decider: decider, logger: logger}
}

// ReplayGame replays every turn of one game.
func (r *Replayer) ReplayGame(ctx context.Context, gameID string) (*Result, error) {
	game, err := r.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, fmt.Errorf("game not found: %s", gameID)
	}

	turns, err := r.store.GetTurns(ctx, gameID)
	if err != nil {
		return nil, err
	}

	result := newResult()
	result.Games = 1
	for _, t := range turns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		turn, err := protocol.ParseTurn(t.Input)
		if err != nil {
			return nil, fmt.Errorf("game %s turn %d: %w", gameID, t.Turn, err)
		}

		action := r.decider.Decide(turn)
		result.Turns++
		result.Actions[action.Kind]++

		if recorded, err := brewing.ParseAction(t.Action); err == nil && recorded == action {
			result.Matches++
			continue
		}
		result.Divergences = append(result.Divergences, Divergence{
			GameID:   gameID,
			Turn:     t.Turn,
			Recorded: t.Action,
			Replayed: action,
		})
	}

	r.logger.Debug("replayed game",
		"game", gameID,
		"turns", result.Turns,
		"matches", result.Matches)
	return result, nil
}

// ReplayAll replays every stored game and aggregates the results.
func (r *Replayer) ReplayAll(ctx context.Context) (*Result, error) {
	games, err := r.store.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	total := newResult()
	for _, g := range games {
		res, err := r.ReplayGame(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		total.merge(res)
	}
	return total, nil
}
