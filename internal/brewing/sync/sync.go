// Package sync imports recorded transcripts into the game archive.
package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rsned/potion-brewing-agent/internal/brewing/db"
	"github.com/rsned/potion-brewing-agent/internal/brewing/transcript"
)

// Syncer handles transcript imports.
type Syncer struct {
	db *db.DB
}

// NewSyncer creates a new Syncer.
func NewSyncer(database *db.DB) *Syncer {
	return &Syncer{db: database}
}

// ImportResult summarizes one imported transcript file.
type ImportResult struct {
	Path    string
	GameIDs []string
	Turns   int
}

// ImportTranscriptFile imports every game found in a transcript file.
func (s *Syncer) ImportTranscriptFile(ctx context.Context, path string) (*ImportResult, error) {
	records, err := transcript.ReadAll(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	games := groupByGame(records)

	store := db.NewGameStore(s.db)
	result := &ImportResult{Path: path}
	for _, g := range games {
		if err := store.InsertGame(ctx, db.Game{ID: g.id, Source: filepath.Base(path)}, g.turns); err != nil {
			return nil, fmt.Errorf("inserting game: %w", err)
		}
		result.GameIDs = append(result.GameIDs, g.id)
		result.Turns += len(g.turns)
	}

	// Update sync metadata
	if err := s.db.SetSyncMetadata(ctx, "games_last_sync", time.Now().Format(time.RFC3339)); err != nil {
		return nil, err
	}
	all, err := store.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.db.SetSyncMetadata(ctx, "games_count", strconv.Itoa(len(all))); err != nil {
		return nil, err
	}

	return result, nil
}

// ClearAll removes all games from the database.
func (s *Syncer) ClearAll(ctx context.Context) error {
	return db.NewGameStore(s.db).ClearGames(ctx)
}

type gameTurns struct {
	id    string
	turns []db.Turn
}

// groupByGame splits records into games in order of first appearance.
// Records without a game id are treated as one game and get a fresh id.
func groupByGame(records []transcript.Record) []gameTurns {
	var games []gameTurns
	index := make(map[string]int)
	var anonymous string

	for _, rec := range records {
		id := rec.GameID
		if id == "" {
			if anonymous == "" {
				anonymous = uuid.NewString()
			}
			id = anonymous
		}
		i, ok := index[id]
		if !ok {
			i = len(games)
			index[id] = i
			games = append(games, gameTurns{id: id})
		}
		games[i].turns = append(games[i].turns, db.Turn{
			GameID:     id,
			Turn:       rec.Turn,
			Input:      rec.Input,
			Action:     rec.Action,
			RecordedAt: rec.RecordedAt,
		})
	}

	for i := range games {
		sort.SliceStable(games[i].turns, func(a, b int) bool {
			return games[i].turns[a].Turn < games[i].turns[b].Turn
		})
	}
	return games
}
