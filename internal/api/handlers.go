package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/topictree/internal/apperr"
	"github.com/starford/topictree/internal/catalog"
	"github.com/starford/topictree/internal/index"
	"github.com/starford/topictree/internal/topics"
)

// Handler holds API route handlers.
type Handler struct {
	svc       *catalog.Service
	onRebuild catalog.RebuildCallback
}

// NewHandler creates a new Handler. onRebuild may be nil.
func NewHandler(svc *catalog.Service, onRebuild catalog.RebuildCallback) *Handler {
	return &Handler{svc: svc, onRebuild: onRebuild}
}

// wildcard extracts the trailing path from the URL.
// Supports encoded slashes from OpenAPI clients (e.g. Algorithms%2FSorting).
func wildcard(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// writeServiceError maps catalog errors onto status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrNoSnapshot):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("catalog not built yet"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// Tree handles GET /api/tree.
//
//	@Summary		Get the full topic tree
//	@Tags			topics
//	@Produce		json
//	@Success		200	{object}	TreeResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Current()
	if err != nil {
		writeServiceError(w, "tree", err)
		return
	}
	writeJSON(w, http.StatusOK, TreeResponse{BuildID: snap.ID, Root: toTopicNode(snap.Tree)})
}

// GetTopic handles GET /api/topics/*.
//
//	@Summary		Get one topic and its subtree
//	@Tags			topics
//	@Produce		json
//	@Param			path	path		string	true	"Topic path, segments joined by /"
//	@Success		200		{object}	TopicNode
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/topics/{path} [get]
func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	path := topics.SplitPath(wildcard(r))
	if len(path) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("topic path required"))
		return
	}
	node, err := h.svc.Topic(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get topic", err)
		return
	}
	writeJSON(w, http.StatusOK, toTopicNode(node))
}

// ListEntries handles GET /api/entries.
//
//	@Summary		List classified entries
//	@Tags			entries
//	@Produce		json
//	@Param			topic	query		string	false	"Only entries placed directly in this topic"
//	@Success		200		{object}	EntryListResponse
//	@Security		BearerAuth
//	@Router			/entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Entries(r.Context())
	if err != nil {
		writeServiceError(w, "list entries", err)
		return
	}

	if topic := r.URL.Query().Get("topic"); topic != "" {
		ids, err := h.svc.TopicEntries(r.Context(), topics.JoinPath(topics.SplitPath(topic)))
		if err != nil {
			writeServiceError(w, "list entries", err)
			return
		}
		placed := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			placed[id] = struct{}{}
		}
		filtered := items[:0]
		for _, e := range items {
			if _, ok := placed[e.ID]; ok {
				filtered = append(filtered, e)
			}
		}
		items = filtered
	}

	writeJSON(w, http.StatusOK, EntryListResponse{Entries: items, Total: len(items)})
}

// GetEntry handles GET /api/entries/*.
//
//	@Summary		Get a single entry with its placements
//	@Tags			entries
//	@Produce		json
//	@Param			id	path		string	true	"Entry id"
//	@Success		200	{object}	index.EntryRow
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries/{id} [get]
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := wildcard(r)
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("entry id required"))
		return
	}
	e, err := h.svc.Entry(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get entry", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Warnings handles GET /api/warnings.
//
//	@Summary		List unresolved topic paths of the current build
//	@Tags			builds
//	@Produce		json
//	@Success		200	{object}	WarningsResponse
//	@Security		BearerAuth
//	@Router			/warnings [get]
func (h *Handler) Warnings(w http.ResponseWriter, r *http.Request) {
	ws, err := h.svc.Warnings(r.Context())
	if err != nil {
		writeServiceError(w, "warnings", err)
		return
	}
	writeJSON(w, http.StatusOK, WarningsResponse{Warnings: toWarningItems(ws)})
}

// GetBuild handles GET /api/build.
//
//	@Summary		Get the current build summary
//	@Tags			builds
//	@Produce		json
//	@Success		200	{object}	index.BuildRow
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/build [get]
func (h *Handler) GetBuild(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Build(r.Context())
	if err != nil {
		writeServiceError(w, "get build", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ListBuilds handles GET /api/builds.
//
//	@Summary		List recent builds, newest first
//	@Tags			builds
//	@Produce		json
//	@Param			limit	query		int	false	"Max results"
//	@Success		200		{object}	BuildsResponse
//	@Security		BearerAuth
//	@Router			/builds [get]
func (h *Handler) ListBuilds(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	builds, err := h.svc.Builds(r.Context(), limit)
	if err != nil {
		writeServiceError(w, "list builds", err)
		return
	}
	if builds == nil {
		builds = []index.BuildRow{}
	}
	writeJSON(w, http.StatusOK, BuildsResponse{Builds: builds})
}

// Rebuild handles POST /api/rebuild.
//
//	@Summary		Rebuild the catalog from the site sources
//	@Tags			builds
//	@Produce		json
//	@Success		200	{object}	index.BuildRow
//	@Failure		422	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/rebuild [post]
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Rebuild(r.Context())
	if h.onRebuild != nil {
		h.onRebuild(snap, err)
	}
	if err != nil {
		var fe *topics.FormatError
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusUnprocessableEntity, errResponse{Error: fe.Error(), Line: fe.Line})
			return
		}
		writeServiceError(w, "rebuild", err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Summary())
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search over entries
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q parameter is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeServiceError(w, "search", err)
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
