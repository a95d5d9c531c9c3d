// Package store persists finished games in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Score is one finished game.
type Score struct {
	ID        int64
	Username  string
	Score     int
	Mistakes  int
	Speed     int
	Layout    string
	Duration  time.Duration
	CreatedAt time.Time
}

// Store is a SQLite-backed score table.
type Store struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		score INTEGER NOT NULL,
		mistakes INTEGER NOT NULL,
		speed INTEGER NOT NULL,
		layout TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, created_at ASC);`,
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps SQLite writes serialized.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordScore inserts a finished game and returns its id.
// A zero CreatedAt is set to the current time.
func (s *Store) RecordScore(ctx context.Context, sc Score) (int64, error) {
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (username, score, mistakes, speed, layout, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sc.Username, sc.Score, sc.Mistakes, sc.Speed, sc.Layout,
		sc.Duration.Milliseconds(), sc.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert score id: %w", err)
	}
	return id, nil
}

// TopScores returns the best limit games, highest score first and earliest
// first among equal scores.
func (s *Store) TopScores(ctx context.Context, limit int) ([]Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, score, mistakes, speed, layout, duration_ms, created_at
		 FROM scores
		 ORDER BY score DESC, created_at ASC, id ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var sc Score
		var durationMS, createdMS int64
		if err := rows.Scan(&sc.ID, &sc.Username, &sc.Score, &sc.Mistakes, &sc.Speed,
			&sc.Layout, &durationMS, &createdMS); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		sc.Duration = time.Duration(durationMS) * time.Millisecond
		sc.CreatedAt = time.UnixMilli(createdMS)
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return scores, nil
}
