package discovery

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/config"
	"github.com/reelswipe/reelswipe/internal/metadata"
	"github.com/reelswipe/reelswipe/internal/metadata/tmdb"
)

// MetadataSource provides catalog pages and raw-to-canonical mapping.
type MetadataSource interface {
	FetchPopularPage(ctx context.Context, page int) ([]tmdb.RawMovie, int, error)
	MapRaw(raw tmdb.RawMovie) metadata.Movie
}

// HistorySource provides the movie ids a user has already swiped.
type HistorySource interface {
	MovieIDs(ctx context.Context, userID string) ([]string, error)
}

// Builder assembles a user's swipe queue from the popularity-ordered
// catalog, filtering out low-rated and already-seen titles.
type Builder struct {
	metadata MetadataSource
	history  HistorySource
	target   int
	maxPages int
	bar      int
	logger   zerolog.Logger
}

// Queue is one discovery response: the movies to show and the catalog
// page the next call should start from.
type Queue struct {
	Movies   []metadata.Movie `json:"movies"`
	NextPage int              `json:"nextPage"`
}

// NewBuilder creates a discovery queue builder.
func NewBuilder(meta MetadataSource, history HistorySource, cfg config.DiscoveryConfig, logger zerolog.Logger) *Builder {
	return &Builder{
		metadata: meta,
		history:  history,
		target:   cfg.TargetCount,
		maxPages: cfg.MaxPagesPerCall,
		bar:      cfg.QualityBar,
		logger:   logger.With().Str("component", "discovery").Logger(),
	}
}

// Build scans catalog pages starting at startPage and accumulates movies
// that clear the quality bar and that the user has not already swiped.
// It stops when the target count is reached, the per-call page cap is
// hit, or the catalog runs out. A failed page fetch returns whatever
// accumulated so far with NextPage pointing at the failed page, so the
// next call retries it.
func (b *Builder) Build(ctx context.Context, userID string, startPage int) Queue {
	if startPage < 1 {
		startPage = 1
	}

	seen := b.seenMovieIDs(ctx, userID)

	movies := []metadata.Movie{}
	page := startPage
	totalPages := 0

	for scanned := 0; scanned < b.maxPages && len(movies) < b.target; scanned++ {
		if totalPages > 0 && page > totalPages {
			break
		}

		raws, total, err := b.metadata.FetchPopularPage(ctx, page)
		if err != nil {
			b.logger.Warn().Err(err).Int("page", page).Msg("Catalog page fetch failed, returning partial queue")
			return Queue{Movies: movies, NextPage: page}
		}
		totalPages = total

		for _, raw := range raws {
			if len(movies) == b.target {
				break
			}
			// Records without an identifier cannot be deduplicated or
			// swiped on; drop them.
			if raw.ID == 0 {
				continue
			}
			if metadata.CriticScore(raw.VoteAverage) <= b.bar {
				continue
			}
			movie := b.metadata.MapRaw(raw)
			if _, ok := seen[movie.ID]; ok {
				continue
			}
			seen[movie.ID] = struct{}{}
			movies = append(movies, movie)
		}

		page++
	}

	return Queue{Movies: movies, NextPage: page}
}

// seenMovieIDs loads the user's swipe history as a lookup set. History
// failures degrade to an empty set so discovery keeps working; the
// user may see repeats until the store recovers.
func (b *Builder) seenMovieIDs(ctx context.Context, userID string) map[string]struct{} {
	ids, err := b.history.MovieIDs(ctx, userID)
	if err != nil {
		b.logger.Warn().Err(err).Str("user_id", userID).Msg("History lookup failed, building without exclusions")
		return map[string]struct{}{}
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen
}
