package discovery

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for discovery operations.
type Handlers struct {
	builder *Builder
}

// NewHandlers creates new discovery handlers.
func NewHandlers(builder *Builder) *Handlers {
	return &Handlers{builder: builder}
}

// RegisterRoutes registers the discovery routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/discover", h.GetQueue)
}

// GetQueue returns the next batch of swipe candidates.
// GET /api/v1/discover?page=N
func (h *Handlers) GetQueue(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	page := 1
	if pageStr := c.QueryParam("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	queue := h.builder.Build(c.Request().Context(), uid, page)
	return c.JSON(http.StatusOK, queue)
}
