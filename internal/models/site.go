// Package models defines the domain types shared across topictree packages.
package models

import "time"

// FileMeta describes one Markdown file under the site root.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry is a Markdown entry as seen by the classifier.
type Entry struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Title     string    `json:"title,omitempty"`
	Topics    []string  `json:"topics"` // raw paths as declared in frontmatter
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
