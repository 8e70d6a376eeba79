// Package engine contains the brewing decision logic.
package engine

import (
	"io"
	"log/slog"

	"github.com/rsned/potion-brewing-agent/internal/brewing/tuning"
	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

// Engine picks one action per turn. It keeps no state between turns.
type Engine struct {
	tuning tuning.Tuning
	logger *slog.Logger
}

// New creates a new Engine with the given tuning.
func New(t tuning.Tuning, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		tuning: t,
		logger: logger,
	}
}

// Tuning returns the constants the engine scores with.
func (e *Engine) Tuning() tuning.Tuning {
	return e.tuning
}

// Candidate is a castable spell scored against one recipe.
type Candidate struct {
	Recipe     brewing.Recipe      `json:"recipe"`
	Spell      brewing.Spell       `json:"spell"`
	Required   brewing.Vec4[int32] `json:"required"`
	Usefulness brewing.Usefulness  `json:"usefulness"`
	Score      float64             `json:"score"`
}

// score combines the usefulness buckets of a spell against a recipe.
// A recipe with no positive shortfall divides by one instead of zero; its
// advancement is always zero so the term vanishes.
func (e *Engine) score(recipe *brewing.Recipe, u brewing.Usefulness, required brewing.Vec4[int32]) float64 {
	nbRequired := required.Positive().Norm1()
	if nbRequired == 0 {
		nbRequired = 1
	}
	return float64(u.Advancement)/float64(nbRequired)*float64(recipe.Price)/e.tuning.MeanPrice -
		float64(u.Regression) +
		float64(u.Cleaning)
}

// castableSpells returns the ready spells the player can afford, in input order.
func castableSpells(p *brewing.Player) []brewing.Spell {
	var spells []brewing.Spell
	for i := range p.ReadySpells {
		if p.CanCast(&p.ReadySpells[i]) {
			spells = append(spells, p.ReadySpells[i])
		}
	}
	return spells
}
