package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/rnote-app/rnote/internal/config"
	"github.com/rnote-app/rnote/internal/errors"
	"github.com/rnote-app/rnote/internal/export"
	"github.com/rnote-app/rnote/internal/list"
	"github.com/rnote-app/rnote/internal/store"
)

// Handlers contains HTTP route handlers for the viewer.
type Handlers struct {
	store    *store.Store
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /notes, the day-grouped journal.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.All()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Journal",
			Version: h.renderer.version,
		},
		Days:  list.GroupByDay(notes),
		Total: len(notes),
	})
}

// HandleDetail handles GET /notes/{id}, a single note view.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("note ID is required"))
		return
	}

	n, err := h.store.GetByID(id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	title := n.Title
	if title == "" {
		title = formatTime(n.CreatedAt)
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   title,
			Version: h.renderer.version,
		},
		Note:         *n,
		RenderedHTML: renderMarkdown(n.Body),
	})
}

// HandleDelete handles DELETE /notes/{id} and the form-friendly
// POST /notes/{id}/delete.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("note ID is required"))
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": true,
			"id":      id,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/notes", http.StatusFound)
}

// HandleExportJSON handles GET /export.json, serving the export
// document for the full committed collection.
func (h *Handlers) HandleExportJSON(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.All()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	pkg := export.BuildPackage(notes, time.Now())
	renderJSON(w, http.StatusOK, pkg)
}
