// Package handler exposes trial views over HTTP.
package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trialfinder/internal/trials/models"
	"trialfinder/internal/trials/service"
	"trialfinder/internal/trials/view"
	dErrors "trialfinder/pkg/domain-errors"
	"trialfinder/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service

// Service defines the view operations the handler drives.
type Service interface {
	Open(ctx context.Context, wait bool) (*service.OpenResult, error)
	Get(ctx context.Context, id uuid.UUID) (view.Snapshot, error)
	SetCriteria(ctx context.Context, id uuid.UUID, c models.Criteria) (view.Snapshot, error)
	SetSort(ctx context.Context, id uuid.UUID, s models.Sort) (view.Snapshot, error)
	Advance(ctx context.Context, id uuid.UUID) (view.Snapshot, error)
	NearEnd(ctx context.Context, id uuid.UUID, visible bool) (view.Snapshot, error)
	Close(ctx context.Context, id uuid.UUID) error
	Facets(ctx context.Context, id uuid.UUID) (*models.Facets, error)
	Summary(ctx context.Context, id uuid.UUID) (*models.Summary, error)
	ByPhase(ctx context.Context, id uuid.UUID) ([]models.NamedCount, error)
	ByStatus(ctx context.Context, id uuid.UUID) ([]models.NamedCount, error)
	TopEnrollment(ctx context.Context, id uuid.UUID, n int) ([]models.NamedCount, error)
	ExportCSV(ctx context.Context, id uuid.UUID, w io.Writer) (int, error)
	EmbedToken(ctx context.Context) (*models.EmbedToken, error)
}

// Handler handles trial view endpoints.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// New creates a new trial view Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register registers the view routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/analytics/embed-token", h.handleEmbedToken)
	r.Route("/views", func(r chi.Router) {
		r.Post("/", h.handleOpen)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleClose)
			r.Put("/criteria", h.handleSetCriteria)
			r.Put("/sort", h.handleSetSort)
			r.Post("/advance", h.handleAdvance)
			r.Post("/near-end", h.handleNearEnd)
			r.Get("/facets", h.handleFacets)
			r.Get("/summary", h.handleSummary)
			r.Get("/by-phase", h.handleByPhase)
			r.Get("/by-status", h.handleByStatus)
			r.Get("/top-enrollment", h.handleTopEnrollment)
			r.Get("/export.csv", h.handleExport)
		})
	})
}

func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	wait := false
	if raw := r.URL.Query().Get("wait"); raw != "" {
		var err error
		if wait, err = strconv.ParseBool(raw); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "wait must be a boolean"))
			return
		}
	}

	res, err := h.svc.Open(r.Context(), wait)
	if err != nil {
		h.fail(w, r, "open view", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, OpenResponse{
		ViewID:   res.ViewID,
		State:    res.Snapshot.State,
		Snapshot: res.Snapshot,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, "get view", func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.svc.Get(ctx, id)
	})
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Close(r.Context(), id); err != nil {
		h.fail(w, r, "close view", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetCriteria(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndValidate[CriteriaRequest](w, r, h.logger)
	if !ok {
		return
	}
	snap, err := h.svc.SetCriteria(r.Context(), id, req.Criteria)
	if err != nil {
		h.fail(w, r, "set criteria", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleSetSort(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndValidate[SortRequest](w, r, h.logger)
	if !ok {
		return
	}
	snap, err := h.svc.SetSort(r.Context(), id, req.Sort())
	if err != nil {
		h.fail(w, r, "set sort", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, "advance view", func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.svc.Advance(ctx, id)
	})
}

func (h *Handler) handleNearEnd(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndValidate[NearEndRequest](w, r, h.logger)
	if !ok {
		return
	}
	snap, err := h.svc.NearEnd(r.Context(), id, *req.Visible)
	if err != nil {
		h.fail(w, r, "near-end signal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleFacets(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, "facets", func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.svc.Facets(ctx, id)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, "summary", func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.svc.Summary(ctx, id)
	})
}

func (h *Handler) handleByPhase(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, "trials by phase", func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.svc.ByPhase(ctx, id)
	})
}

func (h *Handler) handleByStatus(w http.ResponseWriter, r *http.Request) {
	h.withView(w, r, "trials by status", func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.svc.ByStatus(ctx, id)
	})
}

func (h *Handler) handleTopEnrollment(w http.ResponseWriter, r *http.Request) {
	n := service.DefaultTopEnrollment
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "n must be an integer"))
			return
		}
		n = parsed
	}
	h.withView(w, r, "top enrollment", func(ctx context.Context, id uuid.UUID) (any, error) {
		return h.svc.TopEnrollment(ctx, id, n)
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	// Buffered so a failure can still be reported as a JSON error.
	var buf bytes.Buffer
	if _, err := h.svc.ExportCSV(r.Context(), id, &buf); err != nil {
		h.fail(w, r, "export view", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trials.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleEmbedToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.svc.EmbedToken(r.Context())
	if err != nil {
		h.fail(w, r, "embed token", err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, http.StatusOK, token)
}

// withView parses the view id, runs fn, and writes its result as JSON.
func (h *Handler) withView(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, uuid.UUID) (any, error)) {
	id, ok := viewID(w, r)
	if !ok {
		return
	}
	out, err := fn(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := dErrors.CodeOf(err)
	if httputil.StatusFor(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "op", op, "error", err)
	} else {
		h.logger.DebugContext(r.Context(), "request rejected", "op", op, "code", code, "error", err)
	}
	httputil.WriteError(w, err)
}

func viewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid view id"))
		return uuid.Nil, false
	}
	return id, true
}
