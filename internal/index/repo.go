package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/topictree/internal/apperr"
	"github.com/starford/topictree/internal/models"
	"github.com/starford/topictree/internal/topics"
)

// BuildRow summarises one classification build.
type BuildRow struct {
	ID             string    `json:"id"`
	TopicsChecksum string    `json:"topics_checksum"`
	TopicCount     int       `json:"topic_count"`
	EntryCount     int       `json:"entry_count"`
	WarningCount   int       `json:"warning_count"`
	BuiltAt        time.Time `json:"built_at"`
}

// EntryRecord is an entry plus the body text kept for search.
type EntryRecord struct {
	models.Entry
	Body string
}

// EntryRow is an indexed entry with the topic paths it was classified into.
type EntryRow struct {
	models.Entry
	Placements []string `json:"placements"`
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Snapshot is everything a build produced.
type Snapshot struct {
	Build    BuildRow
	Tree     *topics.Node
	Entries  []EntryRecord
	Warnings []topics.Warning
}

// SaveSnapshot replaces the indexed catalog with s and records the build,
// all within one transaction.
func (db *DB) SaveSnapshot(s Snapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{"placements", "warnings", "topics", "entries"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("index: clear %s: %w", table, err)
		}
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (id, path, title, checksum, topics, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare entry insert: %w", err)
	}
	defer entryStmt.Close()
	for _, e := range s.Entries {
		topicsJSON, _ := json.Marshal(nonNil(e.Topics))
		if _, err := entryStmt.Exec(e.ID, e.Path, e.Title, e.Checksum, string(topicsJSON), e.Body, e.UpdatedAt); err != nil {
			return fmt.Errorf("index: insert entry %s: %w", e.ID, err)
		}
		if err := ftsInsert(tx, e.ID, e.Title, e.Body, e.Topics); err != nil {
			return err
		}
	}

	if s.Tree != nil {
		if err := insertTree(tx, s.Tree); err != nil {
			return err
		}
	}

	warnStmt, err := tx.Prepare(`INSERT INTO warnings (entry_id, path, missing) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare warning insert: %w", err)
	}
	defer warnStmt.Close()
	for _, w := range s.Warnings {
		if _, err := warnStmt.Exec(w.Entry, topics.JoinPath(w.Path), w.Missing); err != nil {
			return fmt.Errorf("index: insert warning: %w", err)
		}
	}

	b := s.Build
	_, err = tx.Exec(`
		INSERT INTO builds (id, topics_checksum, topic_count, entry_count, warning_count, built_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.TopicsChecksum, b.TopicCount, b.EntryCount, b.WarningCount, b.BuiltAt)
	if err != nil {
		return fmt.Errorf("index: insert build: %w", err)
	}

	return tx.Commit()
}

func insertTree(tx *sql.Tx, root *topics.Node) error {
	topicStmt, err := tx.Prepare(`INSERT INTO topics (path, name, depth, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare topic insert: %w", err)
	}
	defer topicStmt.Close()
	placeStmt, err := tx.Prepare(`INSERT INTO placements (topic_path, entry_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare placement insert: %w", err)
	}
	defer placeStmt.Close()

	position := 0
	return root.Walk(func(n *topics.Node) error {
		if n.IsRoot() {
			return nil
		}
		path := topics.JoinPath(n.Path())
		if _, err := topicStmt.Exec(path, n.Name(), n.Depth(), position); err != nil {
			return fmt.Errorf("index: insert topic %s: %w", path, err)
		}
		position++
		for _, id := range n.Entries() {
			if _, err := placeStmt.Exec(path, id); err != nil {
				return fmt.Errorf("index: insert placement: %w", err)
			}
		}
		return nil
	})
}

// LatestBuild returns the most recent build, or apperr.ErrNotFound.
func (db *DB) LatestBuild() (*BuildRow, error) {
	builds, err := db.ListBuilds(1)
	if err != nil {
		return nil, err
	}
	if len(builds) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &builds[0], nil
}

// ListBuilds returns up to limit builds, newest first.
func (db *DB) ListBuilds(limit int) ([]BuildRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, topics_checksum, topic_count, entry_count, warning_count, built_at
		FROM builds
		ORDER BY built_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("index: list builds: %w", err)
	}
	defer rows.Close()

	var out []BuildRow
	for rows.Next() {
		var b BuildRow
		if err := rows.Scan(&b.ID, &b.TopicsChecksum, &b.TopicCount, &b.EntryCount, &b.WarningCount, &b.BuiltAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListEntries returns every indexed entry ordered by id.
func (db *DB) ListEntries() ([]EntryRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, path, title, checksum, topics, updated_at FROM entries ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list entries: %w", err)
	}
	defer rows.Close()

	var out []EntryRow
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	placements, err := db.placementsByEntry()
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Placements = nonNil(placements[out[i].ID])
	}
	return out, nil
}

// GetEntry returns one entry, or apperr.ErrNotFound.
func (db *DB) GetEntry(id string) (*EntryRow, error) {
	row := db.conn.QueryRow(`
		SELECT id, path, title, checksum, topics, updated_at FROM entries WHERE id = ?
	`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get entry: %w", err)
	}

	rows, err := db.conn.Query(`SELECT topic_path FROM placements WHERE entry_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("index: entry placements: %w", err)
	}
	defer rows.Close()
	e.Placements = []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		e.Placements = append(e.Placements, p)
	}
	return e, rows.Err()
}

// TopicEntries returns the entry ids classified directly into the topic at
// path, in classification order. Unknown topics yield apperr.ErrNotFound.
func (db *DB) TopicEntries(path string) ([]string, error) {
	var exists int
	if err := db.conn.QueryRow(`SELECT count(*) FROM topics WHERE path = ?`, path).Scan(&exists); err != nil {
		return nil, fmt.Errorf("index: topic lookup: %w", err)
	}
	if exists == 0 {
		return nil, apperr.ErrNotFound
	}

	rows, err := db.conn.Query(`SELECT entry_id FROM placements WHERE topic_path = ? ORDER BY seq`, path)
	if err != nil {
		return nil, fmt.Errorf("index: topic entries: %w", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Warnings returns the warnings of the indexed build in emission order.
func (db *DB) Warnings() ([]topics.Warning, error) {
	rows, err := db.conn.Query(`SELECT entry_id, path, missing FROM warnings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("index: warnings: %w", err)
	}
	defer rows.Close()
	out := []topics.Warning{}
	for rows.Next() {
		var w topics.Warning
		var path string
		if err := rows.Scan(&w.Entry, &path, &w.Missing); err != nil {
			return nil, err
		}
		w.Path = topics.SplitPath(path)
		out = append(out, w)
	}
	return out, rows.Err()
}

func (db *DB) placementsByEntry() (map[string][]string, error) {
	rows, err := db.conn.Query(`SELECT entry_id, topic_path FROM placements ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("index: placements: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, err
		}
		out[id] = append(out[id], path)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*EntryRow, error) {
	var e EntryRow
	var topicsJSON string
	if err := s.Scan(&e.ID, &e.Path, &e.Title, &e.Checksum, &topicsJSON, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(topicsJSON), &e.Topics); err != nil {
		return nil, fmt.Errorf("index: decode topics of %s: %w", e.ID, err)
	}
	return &e, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
