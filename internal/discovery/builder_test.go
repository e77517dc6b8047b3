package discovery

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/config"
	"github.com/reelswipe/reelswipe/internal/metadata"
	"github.com/reelswipe/reelswipe/internal/metadata/tmdb"
)

// mockCatalog serves canned catalog pages.
type mockCatalog struct {
	pages      map[int][]tmdb.RawMovie
	totalPages int
	failPages  map[int]bool
	fetches    []int
}

func (m *mockCatalog) FetchPopularPage(ctx context.Context, page int) ([]tmdb.RawMovie, int, error) {
	m.fetches = append(m.fetches, page)
	if m.failPages[page] {
		return nil, 0, errors.New("upstream down")
	}
	return m.pages[page], m.totalPages, nil
}

func (m *mockCatalog) MapRaw(raw tmdb.RawMovie) metadata.Movie {
	return metadata.MapRawToMovie(raw, "https://image.tmdb.org/t/p")
}

// mockHistory serves a fixed swipe history.
type mockHistory struct {
	ids []string
	err error
}

func (m *mockHistory) MovieIDs(ctx context.Context, userID string) ([]string, error) {
	return m.ids, m.err
}

func testConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{TargetCount: 10, MaxPagesPerCall: 3, QualityBar: 65}
}

func newTestBuilder(catalog *mockCatalog, history *mockHistory) *Builder {
	return NewBuilder(catalog, history, testConfig(), zerolog.Nop())
}

// rawPage builds n raw movies with sequential ids starting at firstID,
// all rated above the bar.
func rawPage(firstID, n int, voteAverage float64) []tmdb.RawMovie {
	movies := make([]tmdb.RawMovie, n)
	for i := range movies {
		movies[i] = tmdb.RawMovie{
			ID:          firstID + i,
			Title:       "Movie " + strconv.Itoa(firstID+i),
			VoteAverage: voteAverage,
		}
	}
	return movies
}

func TestBuildFillsTargetFromOnePage(t *testing.T) {
	catalog := &mockCatalog{
		pages:      map[int][]tmdb.RawMovie{1: rawPage(1, 20, 8.0)},
		totalPages: 500,
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 1)

	if len(queue.Movies) != 10 {
		t.Fatalf("Expected 10 movies, got %d", len(queue.Movies))
	}
	if queue.NextPage != 2 {
		t.Errorf("Expected next page 2, got %d", queue.NextPage)
	}
	if len(catalog.fetches) != 1 {
		t.Errorf("Expected 1 page fetch, got %v", catalog.fetches)
	}
}

func TestBuildMixedQualityPage(t *testing.T) {
	// 15 candidates, 5 below the bar: the 10 survivors fill the queue
	// and the cursor moves one page forward.
	catalog := &mockCatalog{
		pages:      map[int][]tmdb.RawMovie{1: append(rawPage(1, 10, 8.0), rawPage(11, 5, 3.0)...)},
		totalPages: 500,
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 1)

	if len(queue.Movies) != 10 {
		t.Fatalf("Expected 10 movies, got %d", len(queue.Movies))
	}
	for _, m := range queue.Movies {
		if m.Ratings.Critic <= 65 {
			t.Errorf("Movie %s below quality bar leaked in (critic %d)", m.ID, m.Ratings.Critic)
		}
	}
	if queue.NextPage != 2 {
		t.Errorf("Expected next page 2, got %d", queue.NextPage)
	}
}

func TestBuildDeduplicatesAcrossPages(t *testing.T) {
	// Popularity ranks shift between sequential fetches, so the same
	// title can show up on two scanned pages.
	catalog := &mockCatalog{
		pages: map[int][]tmdb.RawMovie{
			1: rawPage(1, 4, 8.0),
			2: append(rawPage(3, 2, 8.0), rawPage(5, 4, 8.0)...),
		},
		totalPages: 2,
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 1)

	if len(queue.Movies) != 8 {
		t.Fatalf("Expected 8 movies, got %d", len(queue.Movies))
	}
	counts := map[string]int{}
	for _, m := range queue.Movies {
		counts[m.ID]++
	}
	for id, n := range counts {
		if n > 1 {
			t.Errorf("Movie %s appears %d times in the queue", id, n)
		}
	}
}

func TestBuildQualityBarIsStrict(t *testing.T) {
	catalog := &mockCatalog{
		pages: map[int][]tmdb.RawMovie{1: {
			{ID: 1, Title: "At the bar", VoteAverage: 6.5},    // critic 65: excluded
			{ID: 2, Title: "Just above", VoteAverage: 6.6},    // critic 66: included
			{ID: 3, Title: "Rounds to bar", VoteAverage: 6.54}, // critic 65: excluded
			{ID: 4, Title: "Low", VoteAverage: 3.0},
		}},
		totalPages: 500,
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 1)

	if len(queue.Movies) != 1 {
		t.Fatalf("Expected 1 survivor, got %d", len(queue.Movies))
	}
	if queue.Movies[0].ID != "2" {
		t.Errorf("Expected movie 2 to survive, got %s", queue.Movies[0].ID)
	}
}

func TestBuildExcludesSwipedMovies(t *testing.T) {
	catalog := &mockCatalog{
		pages:      map[int][]tmdb.RawMovie{1: rawPage(1, 5, 8.0)},
		totalPages: 500,
	}
	builder := newTestBuilder(catalog, &mockHistory{ids: []string{"1", "3", "5"}})

	queue := builder.Build(context.Background(), "alice", 1)

	want := map[string]bool{"2": true, "4": true}
	if len(queue.Movies) != 2 {
		t.Fatalf("Expected 2 movies, got %d", len(queue.Movies))
	}
	for _, m := range queue.Movies {
		if !want[m.ID] {
			t.Errorf("Swiped movie %s leaked into the queue", m.ID)
		}
	}
}

func TestBuildPageCapTerminates(t *testing.T) {
	// Every page full of low-rated movies: nothing survives, the scan
	// must stop after three pages instead of walking the whole catalog.
	catalog := &mockCatalog{
		pages: map[int][]tmdb.RawMovie{
			5: rawPage(1, 20, 4.0),
			6: rawPage(21, 20, 4.0),
			7: rawPage(41, 20, 4.0),
			8: rawPage(61, 20, 9.0),
		},
		totalPages: 500,
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 5)

	if len(queue.Movies) != 0 {
		t.Errorf("Expected empty queue, got %d", len(queue.Movies))
	}
	if queue.NextPage != 8 {
		t.Errorf("Expected next page 8, got %d", queue.NextPage)
	}
	if len(catalog.fetches) != 3 {
		t.Errorf("Expected 3 fetches, got %v", catalog.fetches)
	}
}

func TestBuildSpansPages(t *testing.T) {
	// 15 good movies spread over two pages; queue fills mid second page.
	catalog := &mockCatalog{
		pages: map[int][]tmdb.RawMovie{
			1: append(rawPage(1, 7, 8.0), rawPage(100, 10, 2.0)...),
			2: rawPage(8, 8, 8.0),
		},
		totalPages: 500,
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 1)

	if len(queue.Movies) != 10 {
		t.Fatalf("Expected 10 movies, got %d", len(queue.Movies))
	}
	if queue.Movies[0].ID != "1" || queue.Movies[9].ID != "10" {
		t.Errorf("Catalog order not preserved: first=%s last=%s", queue.Movies[0].ID, queue.Movies[9].ID)
	}
	if queue.NextPage != 3 {
		t.Errorf("Expected next page 3, got %d", queue.NextPage)
	}
}

func TestBuildStopsAtCatalogEnd(t *testing.T) {
	catalog := &mockCatalog{
		pages:      map[int][]tmdb.RawMovie{41: rawPage(1, 3, 8.0)},
		totalPages: 41,
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 41)

	if len(queue.Movies) != 3 {
		t.Fatalf("Expected 3 movies, got %d", len(queue.Movies))
	}
	if len(catalog.fetches) != 1 {
		t.Errorf("Expected scan to stop at catalog end, fetches: %v", catalog.fetches)
	}
	if queue.NextPage != 42 {
		t.Errorf("Expected next page 42, got %d", queue.NextPage)
	}
}

func TestBuildPartialOnFetchFailure(t *testing.T) {
	catalog := &mockCatalog{
		pages: map[int][]tmdb.RawMovie{
			1: rawPage(1, 4, 8.0),
		},
		totalPages: 500,
		failPages:  map[int]bool{2: true},
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 1)

	if len(queue.Movies) != 4 {
		t.Fatalf("Expected 4 partial movies, got %d", len(queue.Movies))
	}
	// Cursor stays at the failed page so the next call retries it.
	if queue.NextPage != 2 {
		t.Errorf("Expected next page 2, got %d", queue.NextPage)
	}
}

func TestBuildFirstPageFailure(t *testing.T) {
	catalog := &mockCatalog{
		totalPages: 500,
		failPages:  map[int]bool{7: true},
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 7)

	if len(queue.Movies) != 0 {
		t.Errorf("Expected empty queue, got %d", len(queue.Movies))
	}
	if queue.NextPage != 7 {
		t.Errorf("Expected cursor unchanged at 7, got %d", queue.NextPage)
	}
}

func TestBuildHistoryFailureDegrades(t *testing.T) {
	catalog := &mockCatalog{
		pages:      map[int][]tmdb.RawMovie{1: rawPage(1, 12, 8.0)},
		totalPages: 500,
	}
	builder := newTestBuilder(catalog, &mockHistory{err: errors.New("store down")})

	queue := builder.Build(context.Background(), "alice", 1)

	// Queue still builds, just without exclusions.
	if len(queue.Movies) != 10 {
		t.Errorf("Expected 10 movies despite history failure, got %d", len(queue.Movies))
	}
}

func TestBuildNormalizesStartPage(t *testing.T) {
	catalog := &mockCatalog{
		pages:      map[int][]tmdb.RawMovie{1: rawPage(1, 12, 8.0)},
		totalPages: 500,
	}
	builder := newTestBuilder(catalog, &mockHistory{})

	queue := builder.Build(context.Background(), "alice", 0)

	if len(catalog.fetches) == 0 || catalog.fetches[0] != 1 {
		t.Errorf("Expected scan to start at page 1, fetches: %v", catalog.fetches)
	}
	if len(queue.Movies) != 10 {
		t.Errorf("Expected 10 movies, got %d", len(queue.Movies))
	}
}
