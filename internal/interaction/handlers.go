package interaction

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handlers provides HTTP handlers for interaction operations.
type Handlers struct {
	store    *Store
	recorder *Recorder
	logger   zerolog.Logger
}

// NewHandlers creates new interaction handlers.
func NewHandlers(store *Store, recorder *Recorder, logger zerolog.Logger) *Handlers {
	return &Handlers{
		store:    store,
		recorder: recorder,
		logger:   logger.With().Str("component", "interaction-handlers").Logger(),
	}
}

// RegisterRoutes registers the interaction routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/interactions", h.ListInteractions)
	g.POST("/interactions", h.RecordInteraction)
	g.PATCH("/interactions/:movieId", h.UpdateInteraction)
}

// userID extracts the authenticated user id set by the auth middleware.
func userID(c echo.Context) string {
	if id, ok := c.Get("user_id").(string); ok {
		return id
	}
	return ""
}

// ListInteractions returns the caller's interaction history, newest
// first. An optional ?type= filter narrows to one decision type.
// GET /api/v1/interactions
func (h *Handlers) ListInteractions(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var (
		interactions []Interaction
		err          error
	)
	if filter := c.QueryParam("type"); filter != "" {
		t := Type(filter)
		if !t.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid interaction type")
		}
		interactions, err = h.store.ListByType(c.Request().Context(), uid, t)
	} else {
		interactions, err = h.store.List(c.Request().Context(), uid)
	}
	if err != nil {
		// Reads degrade to an empty history rather than failing the
		// request.
		h.logger.Warn().Err(err).Str("user_id", uid).Msg("Failed to list interactions, returning empty list")
		return c.JSON(http.StatusOK, []Interaction{})
	}

	return c.JSON(http.StatusOK, interactions)
}

// RecordInteraction stores a swipe decision and reports whether it
// produced a match.
// POST /api/v1/interactions
func (h *Handlers) RecordInteraction(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	matched, err := h.recorder.Record(c.Request().Context(), uid, req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record interaction")
	}

	return c.JSON(http.StatusOK, map[string]bool{"matched": matched})
}

// UpdateInteraction patches the rating or notes on an existing
// interaction. Updating a movie the user never swiped is a no-op.
// PATCH /api/v1/interactions/:movieId
func (h *Handlers) UpdateInteraction(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	movieID := c.Param("movieId")
	if movieID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "movie id is required")
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	if err := h.store.UpdateFields(c.Request().Context(), uid, movieID, req); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update interaction")
	}

	return c.NoContent(http.StatusNoContent)
}
