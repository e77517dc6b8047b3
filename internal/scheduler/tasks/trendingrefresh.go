package tasks

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/metadata"
)

// TrendingRefreshTask keeps the trending cache warm so the onboarding
// screen never waits on the provider.
type TrendingRefreshTask struct {
	metadata *metadata.Service
	logger   zerolog.Logger
}

// NewTrendingRefreshTask creates a new trending refresh task.
func NewTrendingRefreshTask(m *metadata.Service, logger zerolog.Logger) *TrendingRefreshTask {
	return &TrendingRefreshTask{
		metadata: m,
		logger:   logger.With().Str("task", "trending-refresh").Logger(),
	}
}

// Run refreshes the cached trending list.
func (t *TrendingRefreshTask) Run(ctx context.Context) error {
	if !t.metadata.IsConfigured() {
		t.logger.Debug().Msg("Metadata provider not configured, skipping trending refresh")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := t.metadata.RefreshTrending(ctx); err != nil {
		return err
	}

	t.logger.Info().Msg("Trending cache refreshed")
	return nil
}
