package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hzhang91/docchat/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements CheckpointStore using SQLite. All sessions share a
// single database file, one row per session id.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS checkpoints (
			session_id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			checkpoint_id TEXT NOT NULL,
			ts DATETIME NOT NULL,
			messages TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get retrieves the current checkpoint for a session.
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (*domain.Checkpoint, error) {
	var cp domain.Checkpoint
	var messages string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, checkpoint_id, ts, messages FROM checkpoints WHERE session_id = ?`,
		sessionID).Scan(&cp.Version, &cp.CheckpointID, &cp.Timestamp, &messages)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messages), &cp.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return &cp, nil
}

// Put overwrites the checkpoint for a session.
func (s *SQLiteStore) Put(ctx context.Context, sessionID string, checkpoint *domain.Checkpoint) error {
	messages := checkpoint.Messages
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	encoded, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO checkpoints (session_id, version, checkpoint_id, ts, messages) VALUES (?, ?, ?, ?, ?)`,
		sessionID, checkpoint.Version, checkpoint.CheckpointID, checkpoint.Timestamp, string(encoded))
	return err
}
