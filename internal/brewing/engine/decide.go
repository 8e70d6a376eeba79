package engine

import (
	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

// Decide selects the action for a turn.
//
// Priority order:
//  1. brew the highest priced brewable recipe
//  2. rest when no ready spell can be cast
//  3. cast the spell with the best score against any recipe, unless that
//     score is negative and the inventory is nearly full, in which case rest
//
// Ties always go to the first maximum in input order.
func (e *Engine) Decide(turn *brewing.Turn) brewing.Action {
	me := &turn.Me

	if recipe := bestBrewable(me, turn.Recipes); recipe != nil {
		e.logger.Debug("brewing", "recipe", recipe.ID, "price", recipe.Price)
		return brewing.Brew(recipe.ID)
	}

	spells := castableSpells(me)
	if len(spells) == 0 {
		e.logger.Debug("no castable spell, resting", "used", len(me.UsedSpells))
		return brewing.Rest()
	}

	if len(turn.Recipes) == 0 {
		e.logger.Debug("no recipe on offer, waiting")
		return brewing.Wait()
	}

	best := e.bestCandidate(me, turn.Recipes, spells)
	if best.Score < 0 && me.Inventory.Norm1() >= e.tuning.RestInventoryThreshold {
		e.logger.Debug("best cast is harmful and inventory is full, resting",
			"spell", best.Spell.ID, "score", best.Score, "inventory", me.Inventory.Norm1())
		return brewing.Rest()
	}

	e.logger.Debug("casting",
		"spell", best.Spell.ID,
		"recipe", best.Recipe.ID,
		"score", best.Score,
		"advancement", best.Usefulness.Advancement,
		"regression", best.Usefulness.Regression,
		"cleaning", best.Usefulness.Cleaning,
	)
	return brewing.Cast(best.Spell.ID)
}

// Evaluate scores every castable ready spell against every recipe, recipes
// in the outer order and spells in the inner order.
func (e *Engine) Evaluate(turn *brewing.Turn) []Candidate {
	me := &turn.Me
	spells := castableSpells(me)

	candidates := make([]Candidate, 0, len(turn.Recipes)*len(spells))
	for i := range turn.Recipes {
		for j := range spells {
			candidates = append(candidates, e.evaluate(me, &turn.Recipes[i], &spells[j]))
		}
	}
	return candidates
}

func (e *Engine) evaluate(me *brewing.Player, recipe *brewing.Recipe, spell *brewing.Spell) Candidate {
	required := me.RequiredIngredients(brewing.Signed(recipe.Ingredients))
	u := EvaluateUsefulness(spell.Delta, required)
	return Candidate{
		Recipe:     *recipe,
		Spell:      *spell,
		Required:   required,
		Usefulness: u,
		Score:      e.score(recipe, u, required),
	}
}

// bestCandidate keeps the best spell per recipe, then the best recipe overall.
// It panics when called without recipes or spells.
func (e *Engine) bestCandidate(me *brewing.Player, recipes []brewing.Recipe, spells []brewing.Spell) Candidate {
	if len(recipes) == 0 || len(spells) == 0 {
		panic("engine: bestCandidate called with an empty candidate set")
	}

	var best Candidate
	for i := range recipes {
		var perRecipe Candidate
		for j := range spells {
			c := e.evaluate(me, &recipes[i], &spells[j])
			if j == 0 || c.Score > perRecipe.Score {
				perRecipe = c
			}
		}
		if i == 0 || perRecipe.Score > best.Score {
			best = perRecipe
		}
	}
	return best
}

// bestBrewable returns the highest priced recipe the player can brew, or nil.
func bestBrewable(me *brewing.Player, recipes []brewing.Recipe) *brewing.Recipe {
	var best *brewing.Recipe
	for i := range recipes {
		if !me.CanBrew(&recipes[i]) {
			continue
		}
		if best == nil || recipes[i].Price > best.Price {
			best = &recipes[i]
		}
	}
	return best
}
