// Package brewing contains the core types for the potion brewing agent.
package brewing

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================
// ENTITY TYPES
// ============================================

// Recipe is a potion order that can be brewed for a price.
type Recipe struct {
	ID          int          `json:"id"`
	Ingredients Vec4[uint32] `json:"ingredients"` // costs, consumed on brew
	Price       uint32       `json:"price"`

	// Carried through from the BREW line, not used by the heuristic.
	UrgencyBonus int `json:"urgency_bonus,omitempty"`
	UrgencyCount int `json:"urgency_count,omitempty"`
}

// Spell turns some ingredients into others when cast.
type Spell struct {
	ID         int         `json:"id"`
	Delta      Vec4[int32] `json:"delta"` // negative = consumed, positive = produced
	TomeIndex  int         `json:"tome_index"`
	TaxCount   int         `json:"tax_count"`
	Castable   bool        `json:"castable"`
	Repeatable int         `json:"repeatable"`
}

// Usefulness scores one spell against the ingredients still required for a recipe.
type Usefulness struct {
	Advancement uint32 `json:"advancement"`
	Regression  uint32 `json:"regression"`
	Cleaning    uint32 `json:"cleaning"`
}

// Turn is the full game state read for a single turn.
type Turn struct {
	Recipes  []Recipe `json:"recipes"`
	Me       Player   `json:"me"`
	Opponent Player   `json:"opponent"`
	Tome     []Spell  `json:"tome,omitempty"`
}

// ============================================
// ACTION TYPES
// ============================================

// ActionKind identifies which action a turn emits.
type ActionKind string

const (
	ActionBrew ActionKind = "BREW"
	ActionCast ActionKind = "CAST"
	ActionRest ActionKind = "REST"
	ActionWait ActionKind = "WAIT"
)

// ValidActionKinds returns all action kinds.
func ValidActionKinds() []ActionKind {
	return []ActionKind{ActionBrew, ActionCast, ActionRest, ActionWait}
}

// IsValid checks if the kind is a known action kind.
func (k ActionKind) IsValid() bool {
	for _, valid := range ValidActionKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// HasTarget reports whether actions of this kind carry a recipe or spell id.
func (k ActionKind) HasTarget() bool {
	return k == ActionBrew || k == ActionCast
}

// Action is the single decision emitted for a turn.
type Action struct {
	Kind ActionKind `json:"kind"`
	ID   int        `json:"id,omitempty"`
}

// Brew returns the action brewing the given recipe.
func Brew(recipeID int) Action { return Action{Kind: ActionBrew, ID: recipeID} }

// Cast returns the action casting the given spell.
func Cast(spellID int) Action { return Action{Kind: ActionCast, ID: spellID} }

// Rest returns the action that makes every used spell castable again.
func Rest() Action { return Action{Kind: ActionRest} }

// Wait returns the action that does nothing.
func Wait() Action { return Action{Kind: ActionWait} }

// String renders the action as a protocol output line (without newline).
func (a Action) String() string {
	if a.Kind.HasTarget() {
		return fmt.Sprintf("%s %d", a.Kind, a.ID)
	}
	return string(a.Kind)
}

// ParseAction parses a protocol output line such as "CAST 78" or "REST".
func ParseAction(line string) (Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action")
	}
	kind := ActionKind(fields[0])
	if !kind.IsValid() {
		return Action{}, fmt.Errorf("unknown action %q", fields[0])
	}
	if !kind.HasTarget() {
		if len(fields) != 1 {
			return Action{}, fmt.Errorf("%s takes no argument: %q", kind, line)
		}
		return Action{Kind: kind}, nil
	}
	if len(fields) != 2 {
		return Action{}, fmt.Errorf("%s needs exactly one id: %q", kind, line)
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return Action{}, fmt.Errorf("%s id %q: %w", kind, fields[1], err)
	}
	return Action{Kind: kind, ID: id}, nil
}
