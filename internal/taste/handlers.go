package taste

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for taste statistics.
type Handlers struct {
	service *Service
}

// NewHandlers creates new taste handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the taste routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/taste", h.GetProfile)
}

// GetProfile returns the caller's taste profile, computed fresh from
// their liked and watched sets.
// GET /api/v1/taste
func (h *Handlers) GetProfile(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	profile := h.service.ProfileFor(c.Request().Context(), uid)
	return c.JSON(http.StatusOK, profile)
}
