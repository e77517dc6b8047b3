package metadata

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reelswipe/reelswipe/internal/metadata/tmdb"
)

// Handlers provides HTTP handlers for movie metadata operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates new metadata handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the metadata routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/movies/search", h.SearchMovies)
	g.GET("/movies/trending", h.GetTrending)
	g.GET("/movies/:id", h.GetMovie)
	g.GET("/movies/:id/trailer", h.GetTrailer)
	g.POST("/movies/batch", h.GetMoviesBatch)
}

// SearchMovies searches for movies by title.
// GET /api/v1/movies/search?q=...
func (h *Handlers) SearchMovies(c echo.Context) error {
	query := c.QueryParam("q")

	results, err := h.service.Search(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, tmdb.ErrAPIKeyMissing) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "metadata provider not configured")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "search failed")
	}

	return c.JSON(http.StatusOK, results)
}

// GetTrending returns today's trending movies.
// GET /api/v1/movies/trending
func (h *Handlers) GetTrending(c echo.Context) error {
	results, err := h.service.Trending(c.Request().Context())
	if err != nil {
		if errors.Is(err, tmdb.ErrAPIKeyMissing) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "metadata provider not configured")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "trending lookup failed")
	}

	return c.JSON(http.StatusOK, results)
}

// GetMovie returns the full record for one movie.
// GET /api/v1/movies/:id
func (h *Handlers) GetMovie(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	movie, err := h.service.Details(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, tmdb.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		if errors.Is(err, tmdb.ErrAPIKeyMissing) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "metadata provider not configured")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "metadata lookup failed")
	}

	return c.JSON(http.StatusOK, movie)
}

// GetTrailer returns the trailer key for a movie. The key is empty when the
// provider has no videos for the title.
// GET /api/v1/movies/:id/trailer
func (h *Handlers) GetTrailer(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	key, err := h.service.TrailerKey(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, tmdb.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "trailer lookup failed")
	}

	return c.JSON(http.StatusOK, map[string]string{"key": key})
}

// GetMoviesBatch resolves a list of movie IDs to full records. IDs that
// cannot be resolved are dropped from the response.
// POST /api/v1/movies/batch
func (h *Handlers) GetMoviesBatch(c echo.Context) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.IDs) == 0 {
		return c.JSON(http.StatusOK, []Movie{})
	}

	movies := h.service.MoviesByIDs(c.Request().Context(), req.IDs)
	return c.JSON(http.StatusOK, movies)
}
