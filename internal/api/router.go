package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/topictree/internal/catalog"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// onRebuild, if non-nil, is told about every rebuild triggered through the API.
func NewRouter(svc *catalog.Service, authEnabled bool, token string, sseHandler http.Handler, onRebuild catalog.RebuildCallback) chi.Router {
	h := NewHandler(svc, onRebuild)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Topic tree.
	r.Get("/tree", h.Tree)
	r.Get("/topics/*", h.GetTopic)

	// Entries.
	r.Get("/entries", h.ListEntries)
	r.Get("/entries/*", h.GetEntry)

	// Diagnostics and builds.
	r.Get("/warnings", h.Warnings)
	r.Get("/build", h.GetBuild)
	r.Get("/builds", h.ListBuilds)
	r.Post("/rebuild", h.Rebuild)

	// Search.
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
