package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrSessionNotFound is returned when writing to a session that does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionChanged is returned when a chat turn targets a generation
	// that a later Replace has superseded.
	ErrSessionChanged = errors.New("session video changed")
)

// DB holds the SQLite connection.
type DB struct {
	*sql.DB
}

// Open connects to the database at path and applies the schema.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// pragmas apply per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db}, nil
}

// migrate brings databases created before the generation column up to date.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`SELECT generation FROM sessions LIMIT 0`); err == nil {
		return nil
	}
	if _, err := db.Exec(`ALTER TABLE sessions ADD COLUMN generation INTEGER NOT NULL DEFAULT 1`); err != nil {
		return fmt.Errorf("failed to add generation column: %w", err)
	}
	return nil
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
