// Package catalog builds classified topic snapshots from a site directory and
// keeps the latest one available to readers.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/topictree/internal/entries"
	"github.com/starford/topictree/internal/index"
	"github.com/starford/topictree/internal/models"
	"github.com/starford/topictree/internal/storage"
	"github.com/starford/topictree/internal/topics"
)

// Layout locates the topic definition and the entries inside the site root.
type Layout struct {
	TopicsFile string
	EntriesDir string
}

// Snapshot is one classified build. Readers must treat it, and its tree, as
// read-only.
type Snapshot struct {
	ID             string
	BuiltAt        time.Time
	TopicsChecksum string
	Tree           *topics.Node
	Entries        []models.Entry // ordered by ID
	Warnings       []topics.Warning

	bodies map[string]string
}

// Entry returns the entry with the given id.
func (s *Snapshot) Entry(id string) (models.Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.Entry{}, false
}

// Build reads the topic definition and every entry, then classifies the
// entries into a fresh tree. A malformed topic file aborts the build with a
// *topics.FormatError; unreadable or unparsable entries are logged and skipped.
func Build(ctx context.Context, store storage.Provider, layout Layout, logger *slog.Logger) (*Snapshot, error) {
	raw, err := store.Read(layout.TopicsFile)
	if err != nil {
		return nil, fmt.Errorf("catalog: read topics: %w", err)
	}
	tree, err := topics.ParseReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	metas, err := store.List(layout.EntriesDir)
	if err != nil {
		return nil, fmt.Errorf("catalog: list entries: %w", err)
	}

	snap := &Snapshot{
		ID:             uuid.NewString(),
		BuiltAt:        time.Now().UTC(),
		TopicsChecksum: storage.Checksum(raw),
		Tree:           tree,
		bodies:         make(map[string]string, len(metas)),
	}

	assignments := make([]topics.Assignment, 0, len(metas))
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("catalog: read entry failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		res, err := entries.Parse(data)
		if err != nil {
			logger.Warn("catalog: parse entry failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		id := entryID(layout.EntriesDir, m.Path)
		snap.Entries = append(snap.Entries, models.Entry{
			ID:        id,
			Path:      m.Path,
			Title:     res.Title,
			Topics:    nonNil(res.Topics),
			Checksum:  m.Checksum,
			UpdatedAt: m.UpdatedAt,
		})
		snap.bodies[id] = res.Body
		assignments = append(assignments, topics.Assignment{Entry: id, Topics: res.Topics})
	}

	snap.Warnings = topics.Classify(tree, assignments)
	for _, w := range snap.Warnings {
		logger.Warn("catalog: unknown topic",
			slog.String("entry", w.Entry),
			slog.String("topic", topics.JoinPath(w.Path)),
			slog.String("missing", w.Missing))
	}

	return snap, nil
}

// record converts s into the form the index persists.
func (s *Snapshot) record() index.Snapshot {
	records := make([]index.EntryRecord, len(s.Entries))
	for i, e := range s.Entries {
		records[i] = index.EntryRecord{Entry: e, Body: s.bodies[e.ID]}
	}
	return index.Snapshot{
		Build:    s.Summary(),
		Tree:     s.Tree,
		Entries:  records,
		Warnings: s.Warnings,
	}
}

// Summary returns the build row describing s.
func (s *Snapshot) Summary() index.BuildRow {
	return index.BuildRow{
		ID:             s.ID,
		TopicsChecksum: s.TopicsChecksum,
		TopicCount:     s.Tree.CountTopics(),
		EntryCount:     len(s.Entries),
		WarningCount:   len(s.Warnings),
		BuiltAt:        s.BuiltAt,
	}
}

// entryID is the entry path relative to the entries dir, without ".md".
func entryID(entriesDir, p string) string {
	dir := path.Clean(entriesDir)
	if dir != "." && dir != "" {
		p = strings.TrimPrefix(p, dir+"/")
	}
	return strings.TrimSuffix(p, ".md")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
