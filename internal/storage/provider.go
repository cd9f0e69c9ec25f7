// Package storage gives read access to the site directory: the topic
// definition file and the Markdown entries.
package storage

import "github.com/starford/topictree/internal/models"

// Provider is the interface for site file access. All paths are relative to
// the site root and use forward slashes.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Abs resolves path to an absolute file-system path inside the root.
	Abs(path string) (string, error)
	// Root returns the absolute site root.
	Root() string
}
