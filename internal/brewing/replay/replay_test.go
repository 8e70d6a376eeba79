package replay

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rsned/potion-brewing-agent/internal/brewing/db"
	"github.com/rsned/potion-brewing-agent/internal/brewing/engine"
	"github.com/rsned/potion-brewing-agent/internal/brewing/tuning"
	"github.com/rsned/potion-brewing-agent/pkg/brewing"
)

var (
	// Brewable recipe 44.
	brewTurn = []string{
		"2",
		"44 BREW -3 0 0 0 5 0 0 0 0",
		"78 CAST 2 0 0 0 0 -1 -1 1 0",
		"3 0 0 0 0",
		"0 0 0 0 0",
	}
	// Nothing castable, so the engine rests.
	restTurn = []string{
		"2",
		"45 BREW 0 -2 0 0 9 0 0 0 0",
		"78 CAST 2 0 0 0 0 -1 -1 0 0",
		"0 0 0 0 5",
		"0 0 0 0 0",
	}
)

func newTestStore(t *testing.T) *db.GameStore {
	t.Helper()
	database, err := db.OpenAndInit(context.Background(), filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("OpenAndInit: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return db.NewGameStore(database)
}

func insertGame(t *testing.T, store *db.GameStore, id string, actions ...string) {
	t.Helper()
	inputs := [][]string{brewTurn, restTurn}
	var turns []db.Turn
	for i, a := range actions {
		turns = append(turns, db.Turn{GameID: id, Turn: i + 1, Input: inputs[i%2], Action: a})
	}
	if err := store.InsertGame(context.Background(), db.Game{ID: id}, turns); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
}

func newReplayer(store *db.GameStore) *Replayer {
	return NewReplayer(store, engine.New(tuning.Default(), nil), nil)
}

func TestReplayGame(t *testing.T) {
	store := newTestStore(t)
	insertGame(t, store, "g1", "BREW 44", "CAST 78")

	res, err := newReplayer(store).ReplayGame(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ReplayGame: %v", err)
	}
	if res.Turns != 2 || res.Matches != 1 {
		t.Errorf("turns/matches = %d/%d, want 2/1", res.Turns, res.Matches)
	}
	if len(res.Divergences) != 1 {
		t.Fatalf("got %d divergences, want 1", len(res.Divergences))
	}
	d := res.Divergences[0]
	if d.Turn != 2 || d.Recorded != "CAST 78" || d.Replayed != brewing.Rest() {
		t.Errorf("divergence = %+v", d)
	}
	if res.Actions[brewing.ActionBrew] != 1 || res.Actions[brewing.ActionRest] != 1 {
		t.Errorf("actions = %v", res.Actions)
	}
	if got := res.MatchRate(); got != 0.5 {
		t.Errorf("MatchRate = %v, want 0.5", got)
	}
}

func TestReplayGameUnparseableRecordedAction(t *testing.T) {
	store := newTestStore(t)
	insertGame(t, store, "g1", "SELL 3")

	res, err := newReplayer(store).ReplayGame(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ReplayGame: %v", err)
	}
	if res.Matches != 0 || len(res.Divergences) != 1 {
		t.Errorf("result = %+v, want one divergence", res)
	}
}

func TestReplayGameNotFound(t *testing.T) {
	if _, err := newReplayer(newTestStore(t)).ReplayGame(context.Background(), "missing"); err == nil {
		t.Error("ReplayGame of a missing game succeeded")
	}
}

func TestReplayGameMalformedInput(t *testing.T) {
	store := newTestStore(t)
	turns := []db.Turn{{GameID: "bad", Turn: 1, Input: []string{"1", "44 BRW -3 0 0 0 5 0 0 0 0", "0 0 0 0 0", "0 0 0 0 0"}, Action: "WAIT"}}
	if err := store.InsertGame(context.Background(), db.Game{ID: "bad"}, turns); err != nil {
		t.Fatal(err)
	}
	if _, err := newReplayer(store).ReplayGame(context.Background(), "bad"); err == nil {
		t.Error("ReplayGame accepted malformed turn input")
	}
}

func TestReplayAll(t *testing.T) {
	store := newTestStore(t)
	insertGame(t, store, "a", "BREW 44", "REST")
	insertGame(t, store, "b", "BREW 44", "REST", "WAIT")

	res, err := newReplayer(store).ReplayAll(context.Background())
	if err != nil {
		t.Fatalf("ReplayAll: %v", err)
	}
	if res.Games != 2 || res.Turns != 5 || res.Matches != 4 {
		t.Errorf("games/turns/matches = %d/%d/%d, want 2/5/4", res.Games, res.Turns, res.Matches)
	}
	if res.Actions[brewing.ActionBrew] != 3 {
		t.Errorf("BREW count = %d, want 3", res.Actions[brewing.ActionBrew])
	}
}

func TestReplayCancelled(t *testing.T) {
	store := newTestStore(t)
	insertGame(t, store, "g1", "BREW 44")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newReplayer(store).ReplayAll(ctx); err == nil {
		t.Error("ReplayAll ignored a cancelled context")
	}
}
