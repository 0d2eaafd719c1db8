package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raudvere/lectern/internal/loader"
	"github.com/raudvere/lectern/internal/state"
	"github.com/raudvere/lectern/internal/workspace"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(ctrl *workspace.Controller, ld *loader.Loader, db *state.DB, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(ctrl, ld, db)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Workspace tabs.
	r.Get("/workspace", h.GetWorkspace)
	r.Post("/workspace/open", h.OpenDocument)
	r.Post("/workspace/close", h.CloseTab)
	r.Post("/workspace/close-active", h.CloseActiveTab)
	r.Post("/workspace/adjacent", h.ActivateAdjacent)

	// Current document.
	r.Get("/document", h.GetDocument)

	// Link resolution.
	r.Post("/links/resolve", h.ResolveLink)

	// In-document find.
	r.Post("/find", h.Find)
	r.Post("/find/step", h.FindStep)

	// Recent documents.
	r.Get("/recent", h.Recent)

	// Scroll persistence.
	r.Post("/scroll", h.Scroll)

	// Reader settings and layout.
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.PutSettings)
	r.Post("/reader-width", h.ReaderWidth)
	r.Get("/sidebar", h.GetSidebar)
	r.Put("/sidebar", h.PutSidebar)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
