package interaction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/database"
)

// Store persists interactions. All methods return real errors; callers
// decide where to collapse failures into empty results.
type Store struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewStore creates a new interaction store.
func NewStore(db *database.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "interaction-store").Logger(),
	}
}

// List returns all interactions recorded for a user, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]Interaction, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT user_id, movie_id, type, timestamp, rating, notes
		FROM interactions
		WHERE user_id = ?
		ORDER BY timestamp DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	defer rows.Close()

	interactions := []Interaction{}
	for rows.Next() {
		var i Interaction
		var rating sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&i.UserID, &i.MovieID, &i.Type, &i.Timestamp, &rating, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		if rating.Valid {
			r := int(rating.Int64)
			i.Rating = &r
		}
		if notes.Valid {
			n := notes.String
			i.Notes = &n
		}
		interactions = append(interactions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	return interactions, nil
}

// ListByType returns a user's interactions of one type, newest first.
func (s *Store) ListByType(ctx context.Context, userID string, t Type) ([]Interaction, error) {
	all, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := []Interaction{}
	for _, i := range all {
		if i.Type == t {
			filtered = append(filtered, i)
		}
	}
	return filtered, nil
}

// Upsert records an interaction, replacing any earlier decision the
// user made about the same movie.
func (s *Store) Upsert(ctx context.Context, i Interaction) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO interactions (user_id, movie_id, type, timestamp, rating, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			type = excluded.type,
			timestamp = excluded.timestamp,
			rating = excluded.rating,
			notes = excluded.notes`,
		i.UserID, i.MovieID, i.Type, i.Timestamp, i.Rating, i.Notes)
	if err != nil {
		return fmt.Errorf("failed to upsert interaction: %w", err)
	}
	return nil
}

// UpdateFields patches the rating and notes of an existing interaction.
// A missing interaction is a silent no-op.
func (s *Store) UpdateFields(ctx context.Context, userID, movieID string, req UpdateRequest) error {
	if req.Rating == nil && req.Notes == nil {
		return nil
	}

	query := "UPDATE interactions SET "
	args := []interface{}{}
	if req.Rating != nil {
		query += "rating = ?"
		args = append(args, *req.Rating)
	}
	if req.Notes != nil {
		if req.Rating != nil {
			query += ", "
		}
		query += "notes = ?"
		args = append(args, *req.Notes)
	}
	query += " WHERE user_id = ? AND movie_id = ?"
	args = append(args, userID, movieID)

	result, err := s.db.Conn().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update interaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		s.logger.Debug().Str("user_id", userID).Str("movie_id", movieID).Msg("Update targeted a missing interaction")
	}
	return nil
}

// HasReciprocalLike reports whether any other user has a YES recorded
// for the same movie.
func (s *Store) HasReciprocalLike(ctx context.Context, userID, movieID string) (bool, error) {
	var exists bool
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM interactions
			WHERE movie_id = ? AND type = 'YES' AND user_id != ?
		)`, movieID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reciprocal like: %w", err)
	}
	return exists, nil
}

// MovieIDs returns just the movie ids a user has interacted with.
func (s *Store) MovieIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT movie_id FROM interactions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interacted movie ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan movie id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movie ids: %w", err)
	}

	return ids, nil
}

// PurgeUser removes every interaction a user has recorded.
func (s *Store) PurgeUser(ctx context.Context, userID string) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`DELETE FROM interactions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to purge interactions: %w", err)
	}
	return nil
}
