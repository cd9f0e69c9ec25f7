// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the topic catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/topictree/internal/apperr"
	"github.com/starford/topictree/internal/catalog"
	"github.com/starford/topictree/internal/topics"
)

// FormatResourceURI identifies the topic-file format resource.
const FormatResourceURI = "topictree://topic-format"

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalog.Service
}

// New creates a new MCP server with all catalog tools registered.
func New(svc *catalog.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Topictree",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_topic_tree",
		mcp.WithDescription("Return the whole topic tree as an indented dump. "+
			"Each topic line is followed by the entries placed directly in it."),
	), s.getTopicTree)

	s.mcp.AddTool(mcp.NewTool("list_topic_entries",
		mcp.WithDescription("List the entries classified directly into one topic."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Topic path, segments joined by / (e.g. Algorithms/Sorting)")),
	), s.listTopicEntries)

	s.mcp.AddTool(mcp.NewTool("get_entry_topics",
		mcp.WithDescription("Return the topic paths an entry declares and where it was placed."),
		mcp.WithString("entry", mcp.Required(), mcp.Description("Entry id (path under the entries directory without .md)")),
	), s.getEntryTopics)

	s.mcp.AddTool(mcp.NewTool("list_warnings",
		mcp.WithDescription("List topic paths that entries reference but the topic file does not declare."),
	), s.listWarnings)

	s.mcp.AddTool(mcp.NewTool("search_entries",
		mcp.WithDescription("Full-text search through entry titles, bodies and topic paths."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchEntries)

	s.mcp.AddTool(mcp.NewTool("rebuild_catalog",
		mcp.WithDescription("Re-read the topic file and entries and rebuild the catalog. "+
			"A malformed topic file leaves the previous catalog in place. "+
			"Read the format via get_topic_format or the "+FormatResourceURI+" resource."),
	), s.rebuildCatalog)

	s.mcp.AddTool(mcp.NewTool("get_topic_format",
		mcp.WithDescription("Returns the topic file and entry frontmatter format. "+
			"Call this before editing the topic file or entry topics."),
	), s.getTopicFormat)

	s.mcp.AddResource(
		mcp.NewResource(FormatResourceURI, "Topic Format",
			mcp.WithResourceDescription("Indented topic file format and entry topic declarations."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTopicFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNoSnapshot):
		return mcp.NewToolResultError("catalog not built yet; call rebuild_catalog")
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError("not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) getTopicTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.svc.Current()
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(snap.Tree.String()), nil
}

func (s *Server) listTopicEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := topics.SplitPath(raw)
	if len(path) == 0 {
		return mcp.NewToolResultError("path must name a topic"), nil
	}
	node, err := s.svc.Topic(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown topic: %s", topics.JoinPath(path))), nil
	}
	ids := node.Entries()
	if len(ids) == 0 {
		return mcp.NewToolResultText("no entries"), nil
	}
	return mcp.NewToolResultText(strings.Join(ids, "\n")), nil
}

func (s *Server) getEntryTopics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("entry")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := s.svc.Entry(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown entry: %s", id)), nil
		}
		return toolError(err), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"entry":      e.ID,
		"title":      e.Title,
		"topics":     e.Topics,
		"placements": e.Placements,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listWarnings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, err := s.svc.Warnings(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if len(ws) == 0 {
		return mcp.NewToolResultText("no warnings"), nil
	}
	lines := make([]string, len(ws))
	for i, w := range ws {
		lines[i] = w.String()
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) searchEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return toolError(err), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) rebuildCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.svc.Rebuild(ctx)
	if err != nil {
		var fe *topics.FormatError
		if errors.As(err, &fe) {
			return mcp.NewToolResultError(fmt.Sprintf("topic file rejected at line %d: %v", fe.Line, fe.Err)), nil
		}
		return toolError(err), nil
	}
	b := snap.Summary()
	return mcp.NewToolResultText(fmt.Sprintf("build %s: %d topics, %d entries, %d warnings",
		b.ID, b.TopicCount, b.EntryCount, b.WarningCount)), nil
}

func (s *Server) getTopicFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TopicFormatContract), nil
}

func (s *Server) readTopicFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatResourceURI,
			MIMEType: "text/markdown",
			Text:     TopicFormatContract,
		},
	}, nil
}
