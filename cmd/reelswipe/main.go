package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/reelswipe/reelswipe/internal/api"
	"github.com/reelswipe/reelswipe/internal/config"
	"github.com/reelswipe/reelswipe/internal/database"
	"github.com/reelswipe/reelswipe/internal/logger"
	"github.com/reelswipe/reelswipe/internal/scheduler"
	"github.com/reelswipe/reelswipe/internal/scheduler/tasks"
	"github.com/reelswipe/reelswipe/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Local development overrides; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("logLevel", cfg.Logging.Level).
		Msg("starting ReelSwipe")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hub := websocket.NewHub()
	go hub.Run()

	server, err := api.NewServer(db, hub, cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize scheduler")
	}

	trendingTask := tasks.NewTrendingRefreshTask(server.Metadata(), log.Logger)
	if err := sched.RegisterTask(scheduler.TaskConfig{
		ID:         "trending-refresh",
		Name:       "Trending Refresh",
		Cron:       "*/30 * * * *",
		Func:       trendingTask.Run,
		RunOnStart: true,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to register trending refresh task")
	}
	sched.Start()

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil {
			log.Info().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	if err := sched.Stop(); err != nil {
		log.Warn().Err(err).Msg("scheduler shutdown error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
