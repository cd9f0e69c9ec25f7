package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/topictree/internal/apperr"
	"github.com/starford/topictree/internal/index"
	"github.com/starford/topictree/internal/storage"
	"github.com/starford/topictree/internal/topics"
)

// Service owns the current snapshot. Rebuilds are serialized; readers always
// see a complete snapshot.
type Service struct {
	store  storage.Provider
	db     index.Store
	layout Layout
	logger *slog.Logger

	buildMu sync.Mutex

	mu      sync.RWMutex
	current *Snapshot
}

// NewService creates a catalog service. No snapshot exists until Rebuild
// succeeds.
func NewService(store storage.Provider, db index.Store, layout Layout, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, db: db, layout: layout, logger: logger}
}

// Layout returns the site layout the service builds from.
func (s *Service) Layout() Layout { return s.layout }

// Rebuild builds a new snapshot, persists it, and publishes it. On failure
// the previous snapshot stays current.
func (s *Service) Rebuild(ctx context.Context) (*Snapshot, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	snap, err := Build(ctx, s.store, s.layout, s.logger)
	if err != nil {
		s.logger.Error("catalog: build failed", slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.db.SaveSnapshot(snap.record()); err != nil {
		return nil, fmt.Errorf("catalog: persist build: %w", err)
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("catalog: rebuilt",
		slog.String("build_id", snap.ID),
		slog.Int("topics", snap.Tree.CountTopics()),
		slog.Int("entries", len(snap.Entries)),
		slog.Int("warnings", len(snap.Warnings)))
	return snap, nil
}

// Current returns the latest published snapshot, or apperr.ErrNoSnapshot.
func (s *Service) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperr.ErrNoSnapshot
	}
	return s.current, nil
}

// Topic returns the node at path in the current tree. An empty path returns
// the root.
func (s *Service) Topic(_ context.Context, path []string) (*topics.Node, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, err
	}
	node, ok := snap.Tree.Find(path)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return node, nil
}

// TopicEntries returns the ids classified directly into the topic at path.
func (s *Service) TopicEntries(_ context.Context, path string) ([]string, error) {
	return s.db.TopicEntries(path)
}

// Entries lists every indexed entry with its placements.
func (s *Service) Entries(_ context.Context) ([]index.EntryRow, error) {
	return s.db.ListEntries()
}

// Entry returns one indexed entry.
func (s *Service) Entry(_ context.Context, id string) (*index.EntryRow, error) {
	return s.db.GetEntry(id)
}

// Warnings returns the unresolved topic paths of the indexed build.
func (s *Service) Warnings(_ context.Context) ([]topics.Warning, error) {
	return s.db.Warnings()
}

// Build returns the indexed build summary.
func (s *Service) Build(_ context.Context) (*index.BuildRow, error) {
	return s.db.LatestBuild()
}

// Builds returns recent build summaries, newest first.
func (s *Service) Builds(_ context.Context, limit int) ([]index.BuildRow, error) {
	return s.db.ListBuilds(limit)
}

// Search delegates full-text search over entries to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}
