package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Game is a stored game header.
type Game struct {
	ID         string
	Source     string
	TurnCount  int
	ImportedAt string
}

// Turn is one stored turn of a game.
type Turn struct {
	GameID     string
	Turn       int
	Input      []string
	Action     string
	RecordedAt time.Time
}

// GameStore handles game and turn data access.
type GameStore struct {
	db *DB
}

// NewGameStore creates a new GameStore.
func NewGameStore(db *DB) *GameStore {
	return &GameStore{db: db}
}

// InsertGame stores a game and its turns in a single transaction, replacing
// any game with the same ID.
func (s *GameStore) InsertGame(ctx context.Context, game Game, turns []Turn) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE game_id = ?`, game.ID); err != nil {
			return fmt.Errorf("deleting old turns: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO games (id, source, turn_count, imported_at)
			VALUES (?, ?, ?, datetime('now'))
			ON CONFLICT(id) DO UPDATE SET
				source = excluded.source,
				turn_count = excluded.turn_count,
				imported_at = excluded.imported_at
		`, game.ID, game.Source, len(turns)); err != nil {
			return fmt.Errorf("inserting game %s: %w", game.ID, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO turns (game_id, turn, input, action, recorded_at)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing turn insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, t := range turns {
			recordedAt := ""
			if !t.RecordedAt.IsZero() {
				recordedAt = t.RecordedAt.UTC().Format(time.RFC3339Nano)
			}
			if _, err := stmt.ExecContext(ctx, game.ID, t.Turn, strings.Join(t.Input, "\n"), t.Action, recordedAt); err != nil {
				return fmt.Errorf("inserting turn %d of game %s: %w", t.Turn, game.ID, err)
			}
		}
		return nil
	})
}

// GetGame retrieves a game header by ID. Returns nil if it does not exist.
func (s *GameStore) GetGame(ctx context.Context, id string) (*Game, error) {
	g := &Game{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT source, turn_count, imported_at FROM games WHERE id = ?
	`, id).Scan(&g.Source, &g.TurnCount, &g.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return g, nil
}

// ListGames lists all stored games, most recently imported first.
func (s *GameStore) ListGames(ctx context.Context) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, turn_count, imported_at
		FROM games
		ORDER BY imported_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.Source, &g.TurnCount, &g.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, g)
	}

	return games, rows.Err()
}

// GetTurns retrieves the turns of a game in turn order.
func (s *GameStore) GetTurns(ctx context.Context, gameID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT turn, input, action, recorded_at
		FROM turns
		WHERE game_id = ?
		ORDER BY turn
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []Turn
	for rows.Next() {
		t := Turn{GameID: gameID}
		var input, recordedAt string
		if err := rows.Scan(&t.Turn, &input, &t.Action, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		t.Input = strings.Split(input, "\n")
		if recordedAt != "" {
			if t.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
				return nil, fmt.Errorf("parsing recorded_at of turn %d: %w", t.Turn, err)
			}
		}
		turns = append(turns, t)
	}

	return turns, rows.Err()
}

// CountActions returns how often each recorded action kind occurs across all games.
func (s *GameStore) CountActions(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT CASE WHEN instr(action, ' ') > 0
		            THEN substr(action, 1, instr(action, ' ') - 1)
		            ELSE action END AS kind,
		       COUNT(*)
		FROM turns
		GROUP BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("counting actions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scanning action count: %w", err)
		}
		counts[kind] = n
	}

	return counts, rows.Err()
}

// ClearGames removes all games and turns.
func (s *GameStore) ClearGames(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM turns`); err != nil {
			return fmt.Errorf("clearing turns: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM games`); err != nil {
			return fmt.Errorf("clearing games: %w", err)
		}
		return nil
	})
}
