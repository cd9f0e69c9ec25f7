package index

import "github.com/starford/topictree/internal/topics"

// Store is the persistence surface the catalog and its readers depend on.
type Store interface {
	SaveSnapshot(s Snapshot) error
	LatestBuild() (*BuildRow, error)
	ListBuilds(limit int) ([]BuildRow, error)
	ListEntries() ([]EntryRow, error)
	GetEntry(id string) (*EntryRow, error)
	TopicEntries(path string) ([]string, error)
	Warnings() ([]topics.Warning, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

var _ Store = (*DB)(nil)
