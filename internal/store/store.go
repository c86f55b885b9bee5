// Package store persists the assistant's domain entities (loans,
// notes, events, automations, memories) and conversation history in a
// single sqlite database.
package store

import (
	"database/sql"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
)

type Store struct {
	DB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id TEXT,
			role TEXT,
			content TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS loans (
			id TEXT PRIMARY KEY,
			person TEXT,
			amount REAL,
			direction TEXT,
			note TEXT DEFAULT '',
			settled INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			title TEXT,
			content TEXT,
			tags TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT,
			start DATETIME,
			duration_min INTEGER DEFAULT 60,
			description TEXT DEFAULT '',
			reminder INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS automations (
			id TEXT PRIMARY KEY,
			chat_id TEXT,
			name TEXT,
			task TEXT,
			interval_seconds INTEGER,
			enabled INTEGER DEFAULT 1,
			last_run DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT,
			status TEXT DEFAULT 'pending',
			priority TEXT DEFAULT 'medium',
			due_date TEXT DEFAULT '',
			project TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS memories (
			id TEXT PRIMARY KEY,
			content TEXT,
			category TEXT DEFAULT 'general',
			importance REAL DEFAULT 0.5,
			source TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// newID returns a short unique identifier, enough for user-facing
// entity ids.
func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
