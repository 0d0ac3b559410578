// Package store implements the local SQLite persistence layer: the signed-in
// user record, the per-user chat history index, and the current-chat pointer.
// It is the only component that touches durable state.
package store

import (
	"database/sql"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/verdictx/vx/internal/file"
)

// Store implements a SQLite store for the chat client.
type Store struct {
	db *sql.DB
}

// New store.
func New(dbPath string) (*Store, error) {
	if err := file.CreateDirectoryIfNotExist(filepath.Dir(dbPath)); err != nil {
		return nil, errors.Wrap(err, "creating storage directory")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chats (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			created_label TEXT NOT NULL,
			creation_timestamp INTEGER NOT NULL,
			update_timestamp INTEGER NOT NULL,
			messages TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating chats table")
	}

	_, err = db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chats_fts USING fts5(
			id,
			searchable_content
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating FTS table")
	}

	// Settings is the key-value side of the store: the user record and the
	// current-chat pointer live here.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating settings table")
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// setSetting upserts a settings key.
func (s *Store) setSetting(key, value string) error {
	_, err := s.db.Exec(`REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return errors.Wrapf(err, "writing setting %q", key)
	}
	return nil
}

// getSetting returns a settings value, or "" when the key is absent.
func (s *Store) getSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading setting %q", key)
	}
	return value, nil
}

// clearSetting removes a settings key. No-op when absent.
func (s *Store) clearSetting(key string) error {
	_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return errors.Wrapf(err, "clearing setting %q", key)
	}
	return nil
}
