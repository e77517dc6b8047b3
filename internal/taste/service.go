package taste

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/interaction"
	"github.com/reelswipe/reelswipe/internal/metadata"
)

// InteractionSource provides a user's decisions by type.
type InteractionSource interface {
	ListByType(ctx context.Context, userID string, t interaction.Type) ([]interaction.Interaction, error)
}

// MovieResolver materializes movie ids into full records.
type MovieResolver interface {
	MoviesByIDs(ctx context.Context, ids []string) []metadata.Movie
}

// Service computes taste profiles on demand from a user's liked and
// watched sets.
type Service struct {
	interactions InteractionSource
	movies       MovieResolver
	logger       zerolog.Logger
}

// NewService creates a new taste service.
func NewService(interactions InteractionSource, movies MovieResolver, logger zerolog.Logger) *Service {
	return &Service{
		interactions: interactions,
		movies:       movies,
		logger:       logger.With().Str("component", "taste").Logger(),
	}
}

// ProfileFor resolves the user's liked and watched movies and computes
// the taste profile. Store failures degrade to empty sets.
func (s *Service) ProfileFor(ctx context.Context, userID string) Profile {
	liked := s.resolve(ctx, userID, interaction.TypeYes)
	watched := s.resolve(ctx, userID, interaction.TypeWatched)
	return ComputeProfile(liked, watched)
}

func (s *Service) resolve(ctx context.Context, userID string, t interaction.Type) []TaggedMovie {
	records, err := s.interactions.ListByType(ctx, userID, t)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Str("type", string(t)).Msg("Interaction lookup failed, treating as empty")
		return nil
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.MovieID)
	}

	movies := s.movies.MoviesByIDs(ctx, ids)
	tagged := make([]TaggedMovie, 0, len(movies))
	for _, m := range movies {
		tagged = append(tagged, TaggedMovie{Genres: m.Genres, Director: m.Director})
	}
	return tagged
}
