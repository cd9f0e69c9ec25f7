package topics

import (
	"fmt"
	"strings"
)

// Assignment pairs an entry with the raw "/"-separated topic paths it
// declares.
type Assignment struct {
	Entry  string
	Topics []string
}

// Warning reports a topic path that did not resolve. Nothing is attached for
// that path.
type Warning struct {
	Entry   string   `json:"entry"`
	Path    []string `json:"path"`
	Missing string   `json:"missing"` // first segment without a matching topic
}

func (w Warning) String() string {
	return fmt.Sprintf("in entry %s: unknown (sub)topic %s", w.Entry, JoinPath(w.Path))
}

// SplitPath splits a raw topic path on "/" and trims each segment.
func SplitPath(raw string) []string {
	parts := strings.Split(raw, PathSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// JoinPath is the inverse of SplitPath for trimmed segments.
func JoinPath(path []string) string {
	return strings.Join(path, PathSeparator)
}

// Classify attaches every entry to the node at the end of each of its topic
// paths, in input order. Paths that do not resolve produce a Warning and
// leave the tree untouched; they never stop classification.
func Classify(root *Node, assignments []Assignment) []Warning {
	var warnings []Warning
	for _, a := range assignments {
		for _, raw := range a.Topics {
			if w, ok := ClassifyPath(root, a.Entry, SplitPath(raw)); !ok {
				warnings = append(warnings, w)
			}
		}
	}
	return warnings
}

// ClassifyPath attaches entry to the node at path. It returns false and a
// Warning when path is empty or does not resolve.
func ClassifyPath(root *Node, entry string, path []string) (Warning, bool) {
	if len(path) == 0 {
		return Warning{Entry: entry, Path: path}, false
	}
	node, matched := root.Lookup(path)
	if matched != len(path) {
		return Warning{Entry: entry, Path: path, Missing: path[matched]}, false
	}
	node.attach(entry)
	return Warning{}, true
}
