// Package index persists classified catalog builds in SQLite, with optional
// FTS5 full-text search over entries.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS builds (
	id              TEXT PRIMARY KEY,
	topics_checksum TEXT NOT NULL DEFAULT '',
	topic_count     INTEGER NOT NULL DEFAULT 0,
	entry_count     INTEGER NOT NULL DEFAULT 0,
	warning_count   INTEGER NOT NULL DEFAULT 0,
	built_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
	id         TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	topics     TEXT NOT NULL DEFAULT '[]',
	body       TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS topics (
	path     TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	depth    INTEGER NOT NULL,
	position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS placements (
	seq        INTEGER PRIMARY KEY,
	topic_path TEXT NOT NULL,
	entry_id   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS warnings (
	seq      INTEGER PRIMARY KEY,
	entry_id TEXT NOT NULL,
	path     TEXT NOT NULL,
	missing  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_placements_topic ON placements(topic_path);
CREATE INDEX IF NOT EXISTS idx_placements_entry ON placements(entry_id);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
