package api

import (
	"github.com/starford/topictree/internal/index"
	"github.com/starford/topictree/internal/topics"
)

// TopicNode is one node of the topic tree in API responses.
type TopicNode struct {
	Name     string      `json:"name" example:"Sorting"`
	Path     string      `json:"path" example:"Algorithms/Sorting"`
	Depth    int         `json:"depth" example:"2"`
	Entries  []string    `json:"entries" validate:"required"`
	Children []TopicNode `json:"children" validate:"required"`
}

// TreeResponse wraps the full tree with the build it belongs to.
type TreeResponse struct {
	BuildID string    `json:"build_id" validate:"required"`
	Root    TopicNode `json:"root" validate:"required"`
}

// EntryListResponse wraps all classified entries.
type EntryListResponse struct {
	Entries []index.EntryRow `json:"entries" validate:"required"`
	Total   int              `json:"total" example:"42" validate:"required"`
}

// WarningsResponse wraps unresolved topic paths.
type WarningsResponse struct {
	Warnings []WarningItem `json:"warnings" validate:"required"`
}

// WarningItem is a single unresolved topic path.
type WarningItem struct {
	Entry   string `json:"entry" example:"Graph_Theory" validate:"required"`
	Path    string `json:"path" example:"Mathematics/Graphs" validate:"required"`
	Missing string `json:"missing" example:"Graphs"`
	Message string `json:"message" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// BuildsResponse wraps recent builds.
type BuildsResponse struct {
	Builds []index.BuildRow `json:"builds" validate:"required"`
}

func toTopicNode(n *topics.Node) TopicNode {
	children := n.Children()
	out := TopicNode{
		Name:     n.Name(),
		Path:     topics.JoinPath(n.Path()),
		Depth:    n.Depth(),
		Entries:  n.Entries(),
		Children: make([]TopicNode, len(children)),
	}
	for i, c := range children {
		out.Children[i] = toTopicNode(c)
	}
	return out
}

func toWarningItems(ws []topics.Warning) []WarningItem {
	out := make([]WarningItem, len(ws))
	for i, w := range ws {
		out[i] = WarningItem{
			Entry:   w.Entry,
			Path:    topics.JoinPath(w.Path),
			Missing: w.Missing,
			Message: w.String(),
		}
	}
	return out
}
