package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/raudvere/lectern/internal/apperr"
	"github.com/raudvere/lectern/internal/findnav"
	"github.com/raudvere/lectern/internal/linkintent"
	"github.com/raudvere/lectern/internal/loadcoord"
	"github.com/raudvere/lectern/internal/loader"
	"github.com/raudvere/lectern/internal/recent"
	"github.com/raudvere/lectern/internal/render"
	"github.com/raudvere/lectern/internal/state"
	"github.com/raudvere/lectern/internal/tabs"
	"github.com/raudvere/lectern/internal/workspace"
)

// Handler holds API route handlers.
type Handler struct {
	ctrl   *workspace.Controller
	loader *loader.Loader
	db     *state.DB
}

// NewHandler creates a new Handler.
func NewHandler(ctrl *workspace.Controller, ld *loader.Loader, db *state.DB) *Handler {
	return &Handler{ctrl: ctrl, loader: ld, db: db}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// GetWorkspace handles GET /api/workspace.
//
//	@Summary		Get the workspace snapshot
//	@Tags			workspace
//	@Produce		json
//	@Success		200	{object}	WorkspaceResponse
//	@Security		BearerAuth
//	@Router			/workspace [get]
func (h *Handler) GetWorkspace(w http.ResponseWriter, _ *http.Request) {
	ts := h.ctrl.Tabs()
	resp := WorkspaceResponse{
		Tabs:       ts.Tabs,
		ActivePath: ts.ActivePath,
		Find:       h.ctrl.FindState(),
		LastError:  h.ctrl.LastError(),
	}
	if resp.Tabs == nil {
		resp.Tabs = []tabs.Tab{}
	}
	if doc := h.ctrl.CurrentDocument(); doc != nil {
		resp.Document = &DocumentSummary{
			Path:               doc.Path,
			Title:              doc.Title,
			WordCount:          doc.WordCount,
			ReadingTimeMinutes: doc.ReadingTimeMinutes,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// OpenDocument handles POST /api/workspace/open.
//
//	@Summary		Open a document in a tab
//	@Tags			workspace
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenRequest	true	"Document to open"
//	@Success		200		{object}	OutcomeResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/workspace/open [post]
func (h *Handler) OpenDocument(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	res := h.ctrl.OpenInTab(req.Path, workspace.OpenOptions{
		ActivateTab:   req.Activate,
		RestartWatch:  req.Activate,
		RestoreScroll: req.RestoreScroll,
	})
	if res == loadcoord.FailedBeforeLoad {
		msg := h.ctrl.LastError()
		if msg == "" {
			msg = "load failed"
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(msg))
		return
	}
	writeJSON(w, http.StatusOK, OutcomeResponse{Result: res.String()})
}

// CloseTab handles POST /api/workspace/close.
//
//	@Summary		Close a tab
//	@Tags			workspace
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CloseRequest	true	"Tab to close"
//	@Success		200		{object}	OutcomeResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/workspace/close [post]
func (h *Handler) CloseTab(w http.ResponseWriter, r *http.Request) {
	var req CloseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	outcome := h.ctrl.CloseTab(req.Path)
	writeJSON(w, http.StatusOK, OutcomeResponse{Result: string(outcome)})
}

// CloseActiveTab handles POST /api/workspace/close-active.
//
//	@Summary		Close the active tab
//	@Tags			workspace
//	@Produce		json
//	@Success		200	{object}	OutcomeResponse
//	@Security		BearerAuth
//	@Router			/workspace/close-active [post]
func (h *Handler) CloseActiveTab(w http.ResponseWriter, _ *http.Request) {
	outcome := h.ctrl.CloseActiveTab()
	writeJSON(w, http.StatusOK, OutcomeResponse{Result: string(outcome)})
}

// ActivateAdjacent handles POST /api/workspace/adjacent.
//
//	@Summary		Activate the neighbor tab
//	@Tags			workspace
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AdjacentRequest	true	"Direction"
//	@Success		200		{object}	OutcomeResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/workspace/adjacent [post]
func (h *Handler) ActivateAdjacent(w http.ResponseWriter, r *http.Request) {
	var req AdjacentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var dir tabs.Direction
	switch req.Direction {
	case "next":
		dir = tabs.Next
	case "previous":
		dir = tabs.Previous
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("direction must be \"next\" or \"previous\""))
		return
	}
	res := h.ctrl.ActivateAdjacentTab(dir)
	writeJSON(w, http.StatusOK, OutcomeResponse{Result: res.String()})
}

// GetDocument handles GET /api/document.
//
//	@Summary		Get the current document
//	@Tags			document
//	@Produce		json
//	@Success		200	{object}	DocumentDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/document [get]
func (h *Handler) GetDocument(w http.ResponseWriter, _ *http.Request) {
	doc := h.ctrl.CurrentDocument()
	if doc == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no document loaded"))
		return
	}
	writeJSON(w, http.StatusOK, DocumentDetail{
		Document:           doc,
		ShouldChunk:        render.ShouldChunk(h.ctrl.Preferences().PerformanceMode, len(doc.HTML)),
		ChunkNodesPerYield: render.ChunkNodesPerYield,
	})
}

// ResolveLink handles POST /api/links/resolve.
//
//	@Summary		Resolve a link href into a navigation intent
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ResolveLinkRequest	true	"Link to resolve"
//	@Success		200		{object}	ResolveLinkResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/resolve [post]
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	var req ResolveLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}
	docPath := req.DocumentPath
	if docPath == "" {
		if doc := h.ctrl.CurrentDocument(); doc != nil {
			docPath = doc.Path
		}
	}
	if docPath == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("no document to resolve against"))
		return
	}

	resp := ResolveLinkResponse{Intent: linkintent.Resolve(req.Href, docPath)}
	switch resp.Kind {
	case linkintent.KindOpenMarkdownFile, linkintent.KindOpenLocalFile:
		resolved, err := h.loader.ResolveLinkedFile(resp.Path, docPath)
		switch {
		case err == nil:
			resp.ResolvedPath = resolved
		case errors.Is(err, apperr.ErrOutsideWorkspace):
			resp.Error = fmt.Sprintf("Cannot open %s: it is outside the current document's folder.", resp.Path)
		case errors.Is(err, apperr.ErrNotFound):
			resp.Error = fmt.Sprintf("File not found: %s", resp.Path)
		default:
			slog.Error("resolve link failed", slog.String("href", req.Href), slog.String("error", err.Error()))
			resp.Error = "could not resolve linked file"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Find handles POST /api/find.
//
//	@Summary		Derive in-document find state
//	@Tags			find
//	@Accept			json
//	@Produce		json
//	@Param			body	body		FindRequest	true	"Query and match count"
//	@Success		200		{object}	findnav.State
//	@Security		BearerAuth
//	@Router			/find [post]
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	var req FindRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.UpdateFind(req.Query, req.MatchCount))
}

// FindStep handles POST /api/find/step.
//
//	@Summary		Step the find cursor
//	@Tags			find
//	@Accept			json
//	@Produce		json
//	@Param			body	body		FindStepRequest	true	"Direction"
//	@Success		200		{object}	findnav.State
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/find/step [post]
func (h *Handler) FindStep(w http.ResponseWriter, r *http.Request) {
	var req FindStepRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var dir findnav.Direction
	switch req.Direction {
	case "forward":
		dir = findnav.Forward
	case "backward":
		dir = findnav.Backward
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("direction must be \"forward\" or \"backward\""))
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.StepFind(dir))
}

// Recent handles GET /api/recent.
//
//	@Summary		List recently opened documents
//	@Tags			recent
//	@Produce		json
//	@Success		200	{object}	RecentResponse
//	@Security		BearerAuth
//	@Router			/recent [get]
func (h *Handler) Recent(w http.ResponseWriter, _ *http.Request) {
	entries := h.ctrl.Recents().Entries
	if entries == nil {
		entries = []recent.Entry{}
	}
	writeJSON(w, http.StatusOK, RecentResponse{Entries: entries})
}

// Scroll handles POST /api/scroll.
//
//	@Summary		Record a scroll offset
//	@Tags			workspace
//	@Accept			json
//	@Param			body	body	ScrollRequest	true	"Scroll position"
//	@Success		204		"Recorded"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/scroll [post]
func (h *Handler) Scroll(w http.ResponseWriter, r *http.Request) {
	var req ScrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	h.ctrl.SetScroll(req.Path, req.Offset)
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings handles GET /api/settings.
//
//	@Summary		Get reader settings
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	state.Settings
//	@Security		BearerAuth
//	@Router			/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.db.LoadSettings())
}

// PutSettings handles PUT /api/settings.
//
//	@Summary		Update reader settings
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		state.Settings	true	"Settings"
//	@Success		200		{object}	state.Settings
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings [put]
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	s := h.db.LoadSettings()
	if !decodeBody(w, r, &s) {
		return
	}
	if s.ReaderWidthCh <= 0 || s.ReaderWidthMax <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("widths must be positive"))
		return
	}
	h.db.SaveSettings(s)

	prefs := h.ctrl.Preferences()
	prefs.PerformanceMode = s.PerformanceMode
	h.ctrl.SetPreferences(prefs)

	writeJSON(w, http.StatusOK, s)
}

// ReaderWidth handles POST /api/reader-width.
//
// The client reports its measured layout metrics; the server derives the
// width ceiling, reconciles the persisted width against it, and returns
// the result.
//
//	@Summary		Reconcile reader width against measured layout
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ReaderWidthRequest	true	"Layout metrics"
//	@Success		200		{object}	ReaderWidthResponse
//	@Security		BearerAuth
//	@Router			/reader-width [post]
func (h *Handler) ReaderWidth(w http.ResponseWriter, r *http.Request) {
	var req ReaderWidthRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s := h.db.LoadSettings()
	nextMax := render.DeriveWidthMax(render.WidthMetrics{
		AvailableWidthPx: req.AvailableWidthPx,
		PaddingPx:        req.PaddingPx,
		CharWidthPx:      req.CharWidthPx,
		FallbackMax:      s.ReaderWidthMax,
	})
	width := render.ReconcileOnMaxChange(s.ReaderWidthCh, s.ReaderWidthMax, nextMax, s.KeepAtMax)
	if width != s.ReaderWidthCh || nextMax != s.ReaderWidthMax {
		s.ReaderWidthCh = width
		s.ReaderWidthMax = nextMax
		h.db.SaveSettings(s)
	}
	writeJSON(w, http.StatusOK, ReaderWidthResponse{WidthCh: width, MaxCh: nextMax})
}

// GetSidebar handles GET /api/sidebar.
//
//	@Summary		Get sidebar layout
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	state.SidebarLayout
//	@Security		BearerAuth
//	@Router			/sidebar [get]
func (h *Handler) GetSidebar(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.db.LoadSidebarLayout())
}

// PutSidebar handles PUT /api/sidebar.
//
//	@Summary		Update sidebar layout
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		state.SidebarLayout	true	"Layout"
//	@Success		200		{object}	state.SidebarLayout
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sidebar [put]
func (h *Handler) PutSidebar(w http.ResponseWriter, r *http.Request) {
	l := h.db.LoadSidebarLayout()
	if !decodeBody(w, r, &l) {
		return
	}
	if l.WidthPx <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("widthPx must be positive"))
		return
	}
	h.db.SaveSidebarLayout(l)
	writeJSON(w, http.StatusOK, l)
}
