// Package planner estimates how many turns of casting and resting a player
// needs before a recipe becomes brewable.
//
// The decision engine does not consult the planner; it backs the offline
// tooling and is the starting point for multi-turn play.
package planner

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rsned/potion-brewing-agent/internal/brewing/tuning"
	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

// maxSpells bounds the spells tracked in a search state's used-set bitmask.
const maxSpells = 64

// RecipeCost is the cheapest found way to reach a brewable inventory.
type RecipeCost struct {
	Turns int                  `json:"turns"`
	Waste brewing.Vec4[uint32] `json:"waste"` // inventory left over after brewing
	Path  []brewing.Action     `json:"path"`
}

// Estimate is the planner's answer for one recipe of a turn.
type Estimate struct {
	RecipeID  int         `json:"recipe_id"`
	Price     uint32      `json:"price"`
	Reachable bool        `json:"reachable"`
	Cost      *RecipeCost `json:"cost,omitempty"`
}

type planResult struct {
	cost *RecipeCost
	ok   bool
}

// Planner runs a bounded breadth-first search over cast and rest actions.
type Planner struct {
	cfg   tuning.Planner
	cache *lru.Cache[string, planResult]
}

// New creates a Planner. Results are memoized in an LRU cache sized by cfg.CacheSize.
func New(cfg tuning.Planner) (*Planner, error) {
	cache, err := lru.New[string, planResult](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating plan cache: %w", err)
	}
	return &Planner{cfg: cfg, cache: cache}, nil
}

type state struct {
	inventory brewing.Vec4[uint32]
	used      uint64
}

type node struct {
	state
	depth  int
	parent int
	action brewing.Action
}

// Plan returns the minimum number of turns before the player can brew recipe,
// or false when no sequence within the configured depth gets there.
func (p *Planner) Plan(player *brewing.Player, recipe *brewing.Recipe) (*RecipeCost, bool) {
	spells := player.Spells()
	if len(spells) > maxSpells {
		spells = spells[:maxSpells]
	}

	key := p.fingerprint(player, recipe, spells)
	if res, ok := p.cache.Get(key); ok {
		return res.cost, res.ok
	}

	cost, ok := p.search(player, recipe, spells)
	p.cache.Add(key, planResult{cost: cost, ok: ok})
	return cost, ok
}

// PlanAll estimates every recipe of the turn for the agent's own player.
func (p *Planner) PlanAll(turn *brewing.Turn) []Estimate {
	estimates := make([]Estimate, 0, len(turn.Recipes))
	for i := range turn.Recipes {
		r := &turn.Recipes[i]
		cost, ok := p.Plan(&turn.Me, r)
		estimates = append(estimates, Estimate{
			RecipeID:  r.ID,
			Price:     r.Price,
			Reachable: ok,
			Cost:      cost,
		})
	}
	return estimates
}

func (p *Planner) search(player *brewing.Player, recipe *brewing.Recipe, spells []brewing.Spell) (*RecipeCost, bool) {
	start := state{inventory: player.Inventory}
	for i := len(player.ReadySpells); i < len(spells); i++ {
		start.used |= 1 << uint(i)
	}

	nodes := []node{{state: start, parent: -1}}
	visited := map[state]struct{}{start: {}}

	for head := 0; head < len(nodes); head++ {
		cur := nodes[head]
		probe := brewing.Player{Inventory: cur.inventory}
		if probe.CanBrew(recipe) {
			return &RecipeCost{
				Turns: cur.depth,
				Waste: cur.inventory.Sub(recipe.Ingredients),
				Path:  pathTo(nodes, head),
			}, true
		}
		if cur.depth >= p.cfg.MaxDepth {
			continue
		}

		for i := range spells {
			bit := uint64(1) << uint(i)
			if cur.used&bit != 0 || !probe.CanCast(&spells[i]) {
				continue
			}
			next := brewing.Convert[uint32](brewing.Signed(cur.inventory).Add(spells[i].Delta))
			if next.Norm1() > p.cfg.InventoryCapacity {
				continue
			}
			s := state{inventory: next, used: cur.used | bit}
			if _, seen := visited[s]; seen {
				continue
			}
			visited[s] = struct{}{}
			nodes = append(nodes, node{state: s, depth: cur.depth + 1, parent: head, action: brewing.Cast(spells[i].ID)})
		}

		if cur.used != 0 {
			s := state{inventory: cur.inventory}
			if _, seen := visited[s]; !seen {
				visited[s] = struct{}{}
				nodes = append(nodes, node{state: s, depth: cur.depth + 1, parent: head, action: brewing.Rest()})
			}
		}
	}
	return nil, false
}

func pathTo(nodes []node, idx int) []brewing.Action {
	var path []brewing.Action
	for i := idx; nodes[i].parent >= 0; i = nodes[i].parent {
		path = append(path, nodes[i].action)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

func (p *Planner) fingerprint(player *brewing.Player, recipe *brewing.Recipe, spells []brewing.Spell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v|%v|%d|%d|%d", player.Inventory, recipe.Ingredients,
		len(player.ReadySpells), p.cfg.InventoryCapacity, p.cfg.MaxDepth)
	for _, s := range spells {
		fmt.Fprintf(&b, "|%d:%v", s.ID, s.Delta)
	}
	return b.String()
}
