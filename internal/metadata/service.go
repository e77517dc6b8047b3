package metadata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/config"
	"github.com/reelswipe/reelswipe/internal/metadata/tmdb"
)

// maxSearchResults caps the number of results returned from a search.
const maxSearchResults = 12

// minSearchQueryLen is the minimum query length before we hit the network.
const minSearchQueryLen = 2

// TMDBClient defines the interface for the TMDB client, allowing mocking in tests.
type TMDBClient interface {
	GetPopular(ctx context.Context, page int) (*tmdb.PageResponse, error)
	SearchMovies(ctx context.Context, query string) ([]tmdb.RawMovie, error)
	GetTrending(ctx context.Context) ([]tmdb.RawMovie, error)
	GetMovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	GetVideos(ctx context.Context, id int) ([]tmdb.Video, error)
	IsConfigured() bool
}

// Service is the metadata gateway. It translates provider payloads into the
// canonical movie shape and caches lookups.
type Service struct {
	tmdb      TMDBClient
	cache     *Cache
	imageBase string
	logger    zerolog.Logger
}

// NewService creates a new metadata service.
func NewService(cfg config.TMDBConfig, logger zerolog.Logger) *Service {
	log := logger.With().Str("component", "metadata").Logger()

	return &Service{
		tmdb:      tmdb.NewClient(cfg, logger),
		cache:     NewCache(DefaultCacheConfig()),
		imageBase: cfg.ImageBaseURL,
		logger:    log,
	}
}

// NewServiceWithClients creates a metadata service with the given client.
// Used for testing with mock clients.
func NewServiceWithClients(client TMDBClient, imageBase string, logger zerolog.Logger) *Service {
	return &Service{
		tmdb:      client,
		cache:     NewCache(DefaultCacheConfig()),
		imageBase: imageBase,
		logger:    logger.With().Str("component", "metadata").Logger(),
	}
}

// IsConfigured reports whether the provider client has an API key.
func (s *Service) IsConfigured() bool {
	return s.tmdb.IsConfigured()
}

// MapRaw converts a provider list entry into a canonical movie. The mapping
// is total: malformed entries come back with defaults, never an error.
func (s *Service) MapRaw(raw tmdb.RawMovie) Movie {
	return MapRawToMovie(raw, s.imageBase)
}

// FetchPopularPage retrieves one page of the provider's popularity-ordered
// catalog. Returns the raw entries and the total number of pages available.
func (s *Service) FetchPopularPage(ctx context.Context, page int) ([]tmdb.RawMovie, int, error) {
	resp, err := s.tmdb.GetPopular(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	return resp.Results, resp.TotalPages, nil
}

// Search looks up movies by title. Queries shorter than two characters
// return an empty result without touching the network.
func (s *Service) Search(ctx context.Context, query string) ([]PartialMovie, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchQueryLen {
		return []PartialMovie{}, nil
	}

	cacheKey := "search:" + strings.ToLower(query)
	if cached, ok := s.cache.GetPartials(cacheKey); ok {
		return cached, nil
	}

	raw, err := s.tmdb.SearchMovies(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(raw) > maxSearchResults {
		raw = raw[:maxSearchResults]
	}

	results := make([]PartialMovie, 0, len(raw))
	for _, r := range raw {
		results = append(results, mapRawToPartial(r, s.imageBase))
	}

	s.cache.Set(cacheKey, results)
	return results, nil
}

// Trending returns the provider's daily trending movies.
func (s *Service) Trending(ctx context.Context) ([]PartialMovie, error) {
	const cacheKey = "trending"
	if cached, ok := s.cache.GetPartials(cacheKey); ok {
		return cached, nil
	}

	raw, err := s.tmdb.GetTrending(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]PartialMovie, 0, len(raw))
	for _, r := range raw {
		results = append(results, mapRawToPartial(r, s.imageBase))
	}

	s.cache.Set(cacheKey, results)
	return results, nil
}

// RefreshTrending forces a fetch of the trending list, replacing the cached
// copy. Used by the background warmer.
func (s *Service) RefreshTrending(ctx context.Context) error {
	s.cache.Delete("trending")
	_, err := s.Trending(ctx)
	return err
}

// Details fetches the full canonical record for a single movie, including
// director, cast, and runtime.
func (s *Service) Details(ctx context.Context, id string) (*Movie, error) {
	cacheKey := "details:" + id
	if cached, ok := s.cache.GetMovie(cacheKey); ok {
		return cached, nil
	}

	numericID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid movie id %q: %w", id, err)
	}

	details, err := s.tmdb.GetMovieDetails(ctx, numericID)
	if err != nil {
		return nil, err
	}

	movie := mapDetailsToMovie(details, s.imageBase)
	s.cache.Set(cacheKey, &movie)
	return &movie, nil
}

// TrailerKey returns the provider key for the best available trailer:
// the first official YouTube trailer, else the first video of any kind,
// else the empty string.
func (s *Service) TrailerKey(ctx context.Context, id string) (string, error) {
	cacheKey := "trailer:" + id
	if cached, ok := s.cache.GetTrailerKey(cacheKey); ok {
		return cached, nil
	}

	numericID, err := strconv.Atoi(id)
	if err != nil {
		return "", fmt.Errorf("invalid movie id %q: %w", id, err)
	}

	videos, err := s.tmdb.GetVideos(ctx, numericID)
	if err != nil {
		return "", err
	}

	key := pickTrailer(videos)
	s.cache.Set(cacheKey, key)
	return key, nil
}

// pickTrailer selects the best trailer key from a video list.
func pickTrailer(videos []tmdb.Video) string {
	for _, v := range videos {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return v.Key
		}
	}
	if len(videos) > 0 {
		return videos[0].Key
	}
	return ""
}

// MoviesByIDs resolves a set of movie IDs to full records concurrently.
// IDs that fail to resolve are dropped; the call succeeds with whatever
// subset could be fetched.
func (s *Service) MoviesByIDs(ctx context.Context, ids []string) []Movie {
	type indexed struct {
		idx   int
		movie *Movie
	}

	results := make(chan indexed, len(ids))
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(idx int, movieID string) {
			defer wg.Done()
			movie, err := s.Details(ctx, movieID)
			if err != nil {
				s.logger.Warn().Err(err).Str("movie_id", movieID).Msg("Failed to resolve movie, dropping from batch")
				return
			}
			results <- indexed{idx: idx, movie: movie}
		}(i, id)
	}

	wg.Wait()
	close(results)

	// Preserve request order for the survivors.
	ordered := make([]*Movie, len(ids))
	for r := range results {
		ordered[r.idx] = r.movie
	}

	movies := make([]Movie, 0, len(ids))
	for _, m := range ordered {
		if m != nil {
			movies = append(movies, *m)
		}
	}
	return movies
}
