package planner

import (
	"testing"

	"github.com/rsned/potion-brewing-agent/internal/brewing/tuning"
	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	p, err := New(tuning.Default().Planner)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

// starterSpells are the four spells every witch starts with.
func starterSpells(castable bool) []brewing.Spell {
	return []brewing.Spell{
		{ID: 78, Delta: brewing.Vec4[int32]{2, 0, 0, 0}, Castable: castable},
		{ID: 79, Delta: brewing.Vec4[int32]{-1, 1, 0, 0}, Castable: castable},
		{ID: 80, Delta: brewing.Vec4[int32]{0, -1, 1, 0}, Castable: castable},
		{ID: 81, Delta: brewing.Vec4[int32]{0, 0, -1, 1}, Castable: castable},
	}
}

func TestPlanAlreadyBrewable(t *testing.T) {
	p := newTestPlanner(t)
	player := brewing.NewPlayer(brewing.Vec4[uint32]{3, 1, 0, 0}, 0, starterSpells(true))
	recipe := &brewing.Recipe{ID: 1, Ingredients: brewing.Vec4[uint32]{2, 1, 0, 0}}

	cost, ok := p.Plan(&player, recipe)
	if !ok {
		t.Fatal("Plan reported unreachable")
	}
	if cost.Turns != 0 || len(cost.Path) != 0 {
		t.Errorf("cost = %+v, want zero turns", cost)
	}
	if cost.Waste != (brewing.Vec4[uint32]{1, 0, 0, 0}) {
		t.Errorf("Waste = %v, want [1 0 0 0]", cost.Waste)
	}
}

func TestPlanSingleCast(t *testing.T) {
	p := newTestPlanner(t)
	player := brewing.NewPlayer(brewing.Vec4[uint32]{}, 0, starterSpells(true))
	recipe := &brewing.Recipe{ID: 2, Ingredients: brewing.Vec4[uint32]{2, 0, 0, 0}}

	cost, ok := p.Plan(&player, recipe)
	if !ok {
		t.Fatal("Plan reported unreachable")
	}
	if cost.Turns != 1 || len(cost.Path) != 1 || cost.Path[0] != brewing.Cast(78) {
		t.Errorf("cost = %+v, want [CAST 78]", cost)
	}
}

func TestPlanChainsSpells(t *testing.T) {
	p := newTestPlanner(t)
	player := brewing.NewPlayer(brewing.Vec4[uint32]{}, 0, starterSpells(true))
	recipe := &brewing.Recipe{ID: 3, Ingredients: brewing.Vec4[uint32]{0, 0, 1, 0}}

	cost, ok := p.Plan(&player, recipe)
	if !ok {
		t.Fatal("Plan reported unreachable")
	}
	want := []brewing.Action{brewing.Cast(78), brewing.Cast(79), brewing.Cast(80)}
	if cost.Turns != len(want) || len(cost.Path) != len(want) {
		t.Fatalf("cost = %+v, want path %v", cost, want)
	}
	for i := range want {
		if cost.Path[i] != want[i] {
			t.Errorf("Path[%d] = %v, want %v", i, cost.Path[i], want[i])
		}
	}
	if cost.Waste != (brewing.Vec4[uint32]{1, 0, 0, 0}) {
		t.Errorf("Waste = %v, want [1 0 0 0]", cost.Waste)
	}
}

func TestPlanNeedsRest(t *testing.T) {
	p := newTestPlanner(t)
	spells := []brewing.Spell{{ID: 78, Delta: brewing.Vec4[int32]{2, 0, 0, 0}, Castable: false}}
	player := brewing.NewPlayer(brewing.Vec4[uint32]{}, 0, spells)
	recipe := &brewing.Recipe{ID: 4, Ingredients: brewing.Vec4[uint32]{4, 0, 0, 0}}

	cost, ok := p.Plan(&player, recipe)
	if !ok {
		t.Fatal("Plan reported unreachable")
	}
	want := []brewing.Action{brewing.Rest(), brewing.Cast(78), brewing.Rest(), brewing.Cast(78)}
	if len(cost.Path) != len(want) {
		t.Fatalf("Path = %v, want %v", cost.Path, want)
	}
	for i := range want {
		if cost.Path[i] != want[i] {
			t.Errorf("Path[%d] = %v, want %v", i, cost.Path[i], want[i])
		}
	}
}

func TestPlanUnreachable(t *testing.T) {
	p := newTestPlanner(t)
	player := brewing.NewPlayer(brewing.Vec4[uint32]{}, 0, starterSpells(true))

	// Tier 3 needs a long chain; four of them is beyond the depth limit.
	recipe := &brewing.Recipe{ID: 5, Ingredients: brewing.Vec4[uint32]{0, 0, 0, 4}}
	if cost, ok := p.Plan(&player, recipe); ok {
		t.Errorf("Plan = %+v, want unreachable", cost)
	}

	// Capacity caps total inventory.
	big := &brewing.Recipe{ID: 6, Ingredients: brewing.Vec4[uint32]{12, 0, 0, 0}}
	if cost, ok := p.Plan(&player, big); ok {
		t.Errorf("Plan = %+v, want unreachable beyond capacity", cost)
	}
}

func TestPlanCachesResults(t *testing.T) {
	p := newTestPlanner(t)
	player := brewing.NewPlayer(brewing.Vec4[uint32]{}, 0, starterSpells(true))
	recipe := &brewing.Recipe{ID: 2, Ingredients: brewing.Vec4[uint32]{2, 0, 0, 0}}

	first, _ := p.Plan(&player, recipe)
	if p.cache.Len() != 1 {
		t.Fatalf("cache len = %d, want 1", p.cache.Len())
	}
	second, _ := p.Plan(&player, recipe)
	if first != second {
		t.Error("second Plan did not return the cached result")
	}
}

func TestPlanAll(t *testing.T) {
	p := newTestPlanner(t)
	turn := &brewing.Turn{
		Recipes: []brewing.Recipe{
			{ID: 10, Ingredients: brewing.Vec4[uint32]{2, 0, 0, 0}, Price: 6},
			{ID: 11, Ingredients: brewing.Vec4[uint32]{0, 0, 0, 4}, Price: 20},
		},
		Me: brewing.NewPlayer(brewing.Vec4[uint32]{}, 0, starterSpells(true)),
	}
	got := p.PlanAll(turn)
	if len(got) != 2 {
		t.Fatalf("PlanAll returned %d estimates", len(got))
	}
	if !got[0].Reachable || got[0].Cost.Turns != 1 || got[0].RecipeID != 10 {
		t.Errorf("estimate 0 = %+v", got[0])
	}
	if got[1].Reachable || got[1].Cost != nil {
		t.Errorf("estimate 1 = %+v, want unreachable", got[1])
	}
}
