package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"planets/internal/planet/models"
	id "planets/pkg/domain"
	dErrors "planets/pkg/domain-errors"
	"planets/pkg/platform/httputil"
	"planets/pkg/requestcontext"
)

// QueryService defines the read operations the handler needs.
type QueryService interface {
	FindByID(ctx context.Context, planetID id.PlanetID) (*models.PlanetResponse, error)
	FindByName(ctx context.Context, name string) (*models.PlanetResponse, error)
	Search(ctx context.Context, climate, terrain string, page models.PageRequest) (models.Page[*models.PlanetResponse], error)
}

// MutationService defines the write operations the handler needs.
type MutationService interface {
	Create(ctx context.Context, req models.PlanetRequest) (*models.PlanetResponse, error)
	FullUpdate(ctx context.Context, planetID id.PlanetID, req models.PlanetRequest) (*models.PlanetResponse, error)
	PartialUpdate(ctx context.Context, planetID id.PlanetID, patch models.PlanetPatch) (*models.PlanetResponse, error)
	Delete(ctx context.Context, planetID id.PlanetID) (*models.DeleteResult, error)
}

// Handler wires planet endpoints to the query and mutation services.
type Handler struct {
	queries   QueryService
	mutations MutationService
	logger    *slog.Logger
}

func New(queries QueryService, mutations MutationService, logger *slog.Logger) *Handler {
	return &Handler{
		queries:   queries,
		mutations: mutations,
		logger:    logger,
	}
}

// Register mounts the planet routes. Static segments are registered before
// the {id} pattern so chi prefers them.
func (h *Handler) Register(r chi.Router) {
	r.Route("/planets", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/search", h.HandleSearch)
		r.Get("/name/{name}", h.HandleFindByName)
		r.Get("/{id}", h.HandleFindByID)
		r.Put("/{id}", h.HandleFullUpdate)
		r.Patch("/{id}", h.HandlePartialUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleCreate handles POST /planets.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PlanetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	planet, err := h.mutations.Create(ctx, req.toModel())
	if err != nil {
		h.fail(ctx, w, "failed to create planet", err)
		return
	}

	h.logger.InfoContext(ctx, "planet created",
		"request_id", requestID,
		"planet_id", planet.ID.String(),
	)
	w.Header().Set("Location", "/planets/"+planet.ID.String())
	httputil.WriteJSON(w, http.StatusCreated, planet)
}

// HandleFindByID handles GET /planets/{id}.
func (h *Handler) HandleFindByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	planetID, ok := h.planetID(w, r)
	if !ok {
		return
	}

	planet, err := h.queries.FindByID(ctx, planetID)
	if err != nil {
		h.fail(ctx, w, "failed to find planet", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, planet)
}

// HandleFindByName handles GET /planets/name/{name}.
func (h *Handler) HandleFindByName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	planet, err := h.queries.FindByName(ctx, chi.URLParam(r, "name"))
	if err != nil {
		h.fail(ctx, w, "failed to find planet by name", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, planet)
}

// HandleSearch handles GET /planets/search.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	q, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid search parameters",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	page, err := h.queries.Search(ctx, q.Climate, q.Terrain, q.Page)
	if err != nil {
		h.fail(ctx, w, "planet search failed", err)
		return
	}

	h.logger.DebugContext(ctx, "planet search",
		"request_id", requestID,
		"results", len(page.Content),
		"total", page.TotalElements,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, page)
}

// HandleFullUpdate handles PUT /planets/{id}.
func (h *Handler) HandleFullUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	planetID, ok := h.planetID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[PlanetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	planet, err := h.mutations.FullUpdate(ctx, planetID, req.toModel())
	if err != nil {
		h.fail(ctx, w, "failed to update planet", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, planet)
}

// HandlePartialUpdate handles PATCH /planets/{id}.
func (h *Handler) HandlePartialUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	planetID, ok := h.planetID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[PatchPlanetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	planet, err := h.mutations.PartialUpdate(ctx, planetID, req.toModel())
	if err != nil {
		h.fail(ctx, w, "failed to patch planet", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, planet)
}

// HandleDelete handles DELETE /planets/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	planetID, ok := h.planetID(w, r)
	if !ok {
		return
	}

	result, err := h.mutations.Delete(ctx, planetID)
	if err != nil {
		h.fail(ctx, w, "failed to delete planet", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) planetID(w http.ResponseWriter, r *http.Request) (id.PlanetID, bool) {
	planetID, err := id.ParsePlanetID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid planet id",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return id.PlanetID{}, false
	}
	return planetID, true
}

// fail logs at a level matching the error class and writes the envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	status := httputil.StatusFor(dErrors.CodeOf(err))
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"status", status,
		"error", err,
	)
	httputil.WriteError(w, err)
}
