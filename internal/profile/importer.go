package profile

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/interaction"
	"github.com/reelswipe/reelswipe/internal/metadata"
)

// SearchSource resolves a title to candidate movies.
type SearchSource interface {
	Search(ctx context.Context, query string) ([]metadata.PartialMovie, error)
	Details(ctx context.Context, id string) (*metadata.Movie, error)
}

// InteractionWriter records resolved rows as watched movies.
type InteractionWriter interface {
	Upsert(ctx context.Context, i interaction.Interaction) error
}

// ImportResult summarizes one watch-history import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Importer turns exported watch-history CSVs into WATCHED interactions.
// Expected columns: Title, Year, and optionally Rating (0.5-5 scale,
// as letterboxd exports it).
type Importer struct {
	search       SearchSource
	interactions InteractionWriter
	broadcaster  interaction.Broadcaster
	logger       zerolog.Logger
}

// NewImporter creates a watch-history importer. broadcaster may be nil.
func NewImporter(search SearchSource, interactions InteractionWriter, broadcaster interaction.Broadcaster, logger zerolog.Logger) *Importer {
	return &Importer{
		search:       search,
		interactions: interactions,
		broadcaster:  broadcaster,
		logger:       logger.With().Str("component", "importer").Logger(),
	}
}

type importEvent struct {
	UserID   string `json:"userId"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// Import reads the CSV and records one WATCHED interaction per row it
// can resolve against the catalog. Rows that cannot be parsed or
// matched are counted as skipped, never fatal.
func (im *Importer) Import(ctx context.Context, userID string, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, err
	}
	titleCol, yearCol, ratingCol := columnIndexes(header)
	if titleCol < 0 {
		// No header row: treat the first row as data with positional
		// columns.
		titleCol, yearCol, ratingCol = 0, 1, 2
		if im.importRow(ctx, userID, header, titleCol, yearCol, ratingCol) {
			return im.importRows(ctx, userID, reader, titleCol, yearCol, ratingCol, ImportResult{Imported: 1})
		}
		return im.importRows(ctx, userID, reader, titleCol, yearCol, ratingCol, ImportResult{Skipped: 1})
	}

	return im.importRows(ctx, userID, reader, titleCol, yearCol, ratingCol, ImportResult{})
}

func (im *Importer) importRows(ctx context.Context, userID string, reader *csv.Reader, titleCol, yearCol, ratingCol int, result ImportResult) (ImportResult, error) {
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}

		if im.importRow(ctx, userID, row, titleCol, yearCol, ratingCol) {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	im.logger.Info().
		Str("user_id", userID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Watch history import finished")

	if im.broadcaster != nil && result.Imported > 0 {
		im.broadcaster.Broadcast("import:completed", importEvent{
			UserID:   userID,
			Imported: result.Imported,
			Skipped:  result.Skipped,
		})
	}

	return result, nil
}

// importRow resolves one CSV row and records it. Returns false when the
// row cannot be used.
func (im *Importer) importRow(ctx context.Context, userID string, row []string, titleCol, yearCol, ratingCol int) bool {
	if titleCol >= len(row) {
		return false
	}
	title := strings.TrimSpace(row[titleCol])
	if title == "" {
		return false
	}

	year := 0
	if yearCol >= 0 && yearCol < len(row) {
		year, _ = strconv.Atoi(strings.TrimSpace(row[yearCol]))
	}

	movie := im.resolve(ctx, title, year)
	if movie == nil {
		return false
	}

	rec := interaction.Interaction{
		UserID:    userID,
		MovieID:   movie.ID,
		Type:      interaction.TypeWatched,
		Timestamp: time.Now().UnixMilli(),
	}
	if ratingCol >= 0 && ratingCol < len(row) {
		if rating := parseImportRating(row[ratingCol]); rating > 0 {
			rec.Rating = &rating
		}
	}

	if err := im.interactions.Upsert(ctx, rec); err != nil {
		im.logger.Warn().Err(err).Str("title", title).Msg("Failed to record imported row")
		return false
	}
	return true
}

// resolve searches the catalog for the row's title and picks the best
// candidate: an exact title and year match if the year is known, else
// the first result.
func (im *Importer) resolve(ctx context.Context, title string, year int) *metadata.Movie {
	candidates, err := im.search.Search(ctx, title)
	if err != nil || len(candidates) == 0 {
		return nil
	}

	if year > 0 {
		for _, c := range candidates {
			movie, err := im.search.Details(ctx, c.ID)
			if err != nil {
				continue
			}
			if movie.ReleaseYear == year && strings.EqualFold(movie.Title, title) {
				return movie
			}
		}
	}

	movie, err := im.search.Details(ctx, candidates[0].ID)
	if err != nil {
		return nil
	}
	return movie
}

// columnIndexes finds the Title/Year/Rating columns in a header row.
// Returns titleCol -1 when the row does not look like a header.
func columnIndexes(header []string) (titleCol, yearCol, ratingCol int) {
	titleCol, yearCol, ratingCol = -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title", "name":
			titleCol = i
		case "year", "release year":
			yearCol = i
		case "rating":
			ratingCol = i
		}
	}
	return titleCol, yearCol, ratingCol
}

// parseImportRating maps an exported rating to the 1-5 integer scale.
// Half-star values round up; unparseable or out-of-range values are
// dropped.
func parseImportRating(raw string) int {
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	rating := int(val + 0.5)
	if rating < 1 || rating > 5 {
		return 0
	}
	return rating
}
