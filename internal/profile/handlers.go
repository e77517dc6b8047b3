package profile

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for account and profile operations.
type Handlers struct {
	service  *Service
	auth     *Auth
	avatars  *AvatarStore
	importer *Importer
}

// NewHandlers creates new profile handlers.
func NewHandlers(service *Service, auth *Auth, avatars *AvatarStore, importer *Importer) *Handlers {
	return &Handlers{
		service:  service,
		auth:     auth,
		avatars:  avatars,
		importer: importer,
	}
}

// RegisterPublicRoutes registers the unauthenticated account routes.
func (h *Handlers) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
}

// RegisterRoutes registers the authenticated profile routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PATCH("/profile", h.UpdateProfile)
	g.POST("/profile/avatar", h.UploadAvatar)
	g.POST("/profile/import", h.ImportWatchHistory)
	g.DELETE("/profile", h.DeleteProfile)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type sessionResponse struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// Register creates an account and returns a session token.
// POST /api/v1/auth/register
func (h *Handlers) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.service.Register(c.Request().Context(), req.Username, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.auth.GenerateToken(p.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(http.StatusCreated, sessionResponse{Token: token, Profile: p})
}

// Login authenticates and returns a session token.
// POST /api/v1/auth/login
func (h *Handlers) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	token, err := h.auth.GenerateToken(p.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(http.StatusOK, sessionResponse{Token: token, Profile: p})
}

// GetProfile returns the caller's profile.
// GET /api/v1/profile
func (h *Handlers) GetProfile(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	p, err := h.service.Get(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load profile")
	}

	return c.JSON(http.StatusOK, p)
}

// UpdateProfile patches the caller's display name or avatar URL.
// PATCH /api/v1/profile
func (h *Handlers) UpdateProfile(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var req struct {
		FullName  string `json:"fullName"`
		AvatarURL string `json:"avatarUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.service.Update(c.Request().Context(), uid, req.FullName, req.AvatarURL)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update profile")
	}

	return c.JSON(http.StatusOK, p)
}

// UploadAvatar stores a new avatar image and points the profile at it.
// POST /api/v1/profile/avatar
func (h *Handlers) UploadAvatar(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	file, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read avatar file")
	}
	defer src.Close()

	url, err := h.avatars.Save(src, file.Header.Get("Content-Type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Drop the previous image so the store does not accumulate
	// orphans.
	if old, err := h.service.Get(c.Request().Context(), uid); err == nil && old.AvatarURL != "" {
		_ = h.avatars.Remove(old.AvatarURL)
	}

	p, err := h.service.Update(c.Request().Context(), uid, "", url)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update profile")
	}

	return c.JSON(http.StatusOK, p)
}

// ImportWatchHistory ingests a CSV of previously watched movies.
// POST /api/v1/profile/import
func (h *Handlers) ImportWatchHistory(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	file, err := c.FormFile("history")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "history file is required")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read history file")
	}
	defer src.Close()

	result, err := h.importer.Import(c.Request().Context(), uid, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid CSV file")
	}

	return c.JSON(http.StatusOK, result)
}

// DeleteProfile removes the account and its interaction history.
// DELETE /api/v1/profile
func (h *Handlers) DeleteProfile(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	// The avatar object goes with the account.
	if p, err := h.service.Get(c.Request().Context(), uid); err == nil && p.AvatarURL != "" {
		_ = h.avatars.Remove(p.AvatarURL)
	}

	if err := h.service.Delete(c.Request().Context(), uid); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete profile")
	}

	return c.NoContent(http.StatusNoContent)
}
