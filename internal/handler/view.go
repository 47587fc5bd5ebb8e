package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"car-listings-viewer/internal/model"
	"car-listings-viewer/internal/render"
	"car-listings-viewer/internal/service"
)

// ViewHandler exposes the listings view to a browser renderer. Every
// mutating route answers with the resulting view, even when the underlying
// fetch failed: the failure is part of the view.
type ViewHandler struct {
	view    *service.ViewService
	apiBase string
	logger  *slog.Logger
}

func NewViewHandler(view *service.ViewService, apiBase string, logger *slog.Logger) *ViewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewHandler{view: view, apiBase: apiBase, logger: logger}
}

// Routes mounts the view routes on r
func (h *ViewHandler) Routes(r chi.Router) {
	r.Get("/", h.Page)
	r.Post("/page/{n}", h.GoToPage)
	r.Post("/next", h.Next)
	r.Post("/prev", h.Prev)
	r.Post("/reload", h.Reload)
	r.Post("/search", h.Search)
	r.Get("/analysis", h.Analysis)

	r.Route("/detail", func(r chi.Router) {
		r.Get("/", h.Detail)
		r.Delete("/", h.CloseDetail)
		r.Post("/retry", h.RetryDetail)
		r.Post("/image/{dir}", h.AdvanceImage)
		r.Post("/{id}", h.OpenDetail)
	})
}

// Page returns the card grid
func (h *ViewHandler) Page(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, render.Page(h.view.Snapshot(), h.apiBase))
}

// GoToPage navigates to page {n}
func (h *ViewHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_page", "La pagina debe ser un numero")
		return
	}
	h.navigate(w, h.view.GoToPage(r.Context(), n))
}

func (h *ViewHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, h.view.NextPage(r.Context()))
}

func (h *ViewHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, h.view.PrevPage(r.Context()))
}

func (h *ViewHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, h.view.Reload(r.Context()))
}

// navigate answers a page navigation. Out-of-range pages are rejected, a
// superseded or failed fetch still returns the current view.
func (h *ViewHandler) navigate(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrPageOutOfRange) {
		writeError(w, http.StatusBadRequest, "page_out_of_range", "La pagina solicitada no existe")
		return
	}
	if err != nil && !errors.Is(err, service.ErrSuperseded) {
		h.logger.Debug("page navigation failed", "error", err)
	}
	writeJSON(w, http.StatusOK, render.Page(h.view.Snapshot(), h.apiBase))
}

// Search sets the client-side search term
func (h *ViewHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "JSON invalido en el cuerpo de la peticion")
		return
	}
	h.view.SetSearchTerm(req.Term)
	writeJSON(w, http.StatusOK, render.Page(h.view.Snapshot(), h.apiBase))
}

// Analysis returns the image statistics panel
func (h *ViewHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	snap := h.view.Snapshot()
	writeJSON(w, http.StatusOK, render.Analysis(snap.Analysis, snap.AnalysisErr))
}

// Detail returns the detail view
func (h *ViewHandler) Detail(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, render.Detail(h.view.Snapshot().Detail))
}

// OpenDetail opens listing {id}; a failed load answers with the failed view
func (h *ViewHandler) OpenDetail(w http.ResponseWriter, r *http.Request) {
	err := h.view.OpenDetail(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrDetailNotClosed) {
		writeError(w, http.StatusConflict, "detail_open", "Cierra el detalle actual antes de abrir otro")
		return
	}
	if errors.Is(err, service.ErrEmptyID) {
		writeError(w, http.StatusBadRequest, "invalid_id", "Falta el identificador del anuncio")
		return
	}
	writeJSON(w, http.StatusOK, render.Detail(h.view.Snapshot().Detail))
}

func (h *ViewHandler) RetryDetail(w http.ResponseWriter, r *http.Request) {
	if err := h.view.RetryDetail(r.Context()); errors.Is(err, service.ErrNothingToRetry) {
		writeError(w, http.StatusConflict, "nothing_to_retry", "No hay ningun detalle fallido")
		return
	}
	writeJSON(w, http.StatusOK, render.Detail(h.view.Snapshot().Detail))
}

func (h *ViewHandler) CloseDetail(w http.ResponseWriter, r *http.Request) {
	h.view.CloseDetail()
	writeJSON(w, http.StatusOK, render.Detail(h.view.Snapshot().Detail))
}

// AdvanceImage moves the carousel; only the image pane is returned
func (h *ViewHandler) AdvanceImage(w http.ResponseWriter, r *http.Request) {
	var delta int
	switch chi.URLParam(r, "dir") {
	case "next":
		delta = 1
	case "prev":
		delta = -1
	default:
		writeError(w, http.StatusBadRequest, "invalid_direction", "La direccion debe ser next o prev")
		return
	}
	h.view.AdvanceImage(delta)
	writeJSON(w, http.StatusOK, render.Images(h.view.Snapshot().Detail))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}
