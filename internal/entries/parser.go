// Package entries extracts the title and declared topic paths from Markdown
// entries with YAML frontmatter.
package entries

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// Result holds the parts of an entry the catalog needs.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
	Topics      []string // raw "/"-separated paths, in declaration order
}

// Parse splits frontmatter from body and collects the entry's topics.
// Content without frontmatter is all body and declares no topics.
func Parse(data []byte) (*Result, error) {
	var fm map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return nil, fmt.Errorf("entries: frontmatter: %w", err)
	}
	body := strings.TrimLeft(string(rest), "\n\r")

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		Topics:      extractTopics(fm),
	}, nil
}

// extractTopics reads "topics" (or the singular "topic") as either a single
// string or a list of strings. Blank and repeated paths are dropped.
func extractTopics(fm map[string]any) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm["topics"]
	if !ok {
		raw, ok = fm["topic"]
	}
	if !ok {
		return nil
	}

	var values []string
	switch v := raw.(type) {
	case string:
		values = []string{v}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
	}

	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, s := range values {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// deriveTitle prefers the frontmatter title, then the first H1 heading.
func deriveTitle(fm map[string]any, body string) string {
	if t, ok := fm["title"].(string); ok && t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
