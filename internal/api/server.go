package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/config"
	"github.com/reelswipe/reelswipe/internal/database"
	"github.com/reelswipe/reelswipe/internal/discovery"
	"github.com/reelswipe/reelswipe/internal/interaction"
	"github.com/reelswipe/reelswipe/internal/metadata"
	"github.com/reelswipe/reelswipe/internal/profile"
	"github.com/reelswipe/reelswipe/internal/taste"
	"github.com/reelswipe/reelswipe/internal/websocket"
)

// Server handles HTTP requests for the ReelSwipe API.
type Server struct {
	echo   *echo.Echo
	db     *database.DB
	hub    *websocket.Hub
	logger zerolog.Logger
	cfg    *config.Config

	// Services
	metadataService     *metadata.Service
	interactionStore    *interaction.Store
	interactionRecorder *interaction.Recorder
	discoveryBuilder    *discovery.Builder
	tasteService        *taste.Service
	profileService      *profile.Service
	authService         *profile.Auth
	avatarStore         *profile.AvatarStore
	importer            *profile.Importer
}

// NewServer creates a new API server instance.
func NewServer(db *database.DB, hub *websocket.Hub, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		db:     db,
		hub:    hub,
		logger: logger,
		cfg:    cfg,
	}

	// Initialize services
	s.metadataService = metadata.NewService(cfg.TMDB, logger)
	s.interactionStore = interaction.NewStore(db, logger)
	s.interactionRecorder = interaction.NewRecorder(s.interactionStore, hub, logger)
	s.discoveryBuilder = discovery.NewBuilder(s.metadataService, s.interactionStore, cfg.Discovery, logger)
	s.tasteService = taste.NewService(s.interactionStore, s.metadataService, logger)
	s.profileService = profile.NewService(db, s.interactionStore, logger)

	auth, err := profile.NewAuth(db, cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	s.authService = auth

	avatars, err := profile.NewAvatarStore(cfg.Avatars.Path)
	if err != nil {
		return nil, err
	}
	s.avatarStore = avatars

	s.importer = profile.NewImporter(s.metadataService, s.interactionStore, hub, logger)

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// CORS
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.healthCheck)

	// Avatar images are loaded via <img> tags without auth headers.
	s.echo.Static("/avatars", s.avatarStore.Dir())

	// WebSocket endpoint for match and interaction events
	s.echo.GET("/ws", s.hub.HandleWebSocket)

	// API v1 group
	api := s.echo.Group("/api/v1")

	// Public account routes
	profileHandlers := profile.NewHandlers(s.profileService, s.authService, s.avatarStore, s.importer)
	profileHandlers.RegisterPublicRoutes(api)

	// Everything else requires a session token
	authed := api.Group("", s.authService.Middleware())
	profileHandlers.RegisterRoutes(authed)

	metadataHandlers := metadata.NewHandlers(s.metadataService)
	metadataHandlers.RegisterRoutes(authed)

	interactionHandlers := interaction.NewHandlers(s.interactionStore, s.interactionRecorder, s.logger)
	interactionHandlers.RegisterRoutes(authed)

	discoveryHandlers := discovery.NewHandlers(s.discoveryBuilder)
	discoveryHandlers.RegisterRoutes(authed)

	tasteHandlers := taste.NewHandlers(s.tasteService)
	tasteHandlers.RegisterRoutes(authed)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Metadata exposes the metadata service for background tasks.
func (s *Server) Metadata() *metadata.Service {
	return s.metadataService
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":             "ok",
		"metadataConfigured": s.metadataService.IsConfigured(),
		"wsClients":          s.hub.ClientCount(),
	})
}
