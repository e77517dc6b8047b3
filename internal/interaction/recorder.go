package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrValidation is returned when a record request fails validation.
var ErrValidation = errors.New("invalid interaction")

// Broadcaster pushes interaction events to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}

// Recorder validates and records swipe decisions, and reports whether a
// YES produced a match with another user.
type Recorder struct {
	store       *Store
	broadcaster Broadcaster
	logger      zerolog.Logger
}

// NewRecorder creates a new interaction recorder.
func NewRecorder(store *Store, broadcaster Broadcaster, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:       store,
		broadcaster: broadcaster,
		logger:      logger.With().Str("component", "recorder").Logger(),
	}
}

// RecordRequest is a new decision to record.
type RecordRequest struct {
	MovieID string  `json:"movieId"`
	Type    Type    `json:"type"`
	Rating  *int    `json:"rating,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// matchEvent is broadcast to collaborators when a decision lands.
type matchEvent struct {
	UserID  string `json:"userId"`
	MovieID string `json:"movieId"`
	Type    Type   `json:"type"`
	Matched bool   `json:"matched"`
}

// Record stores a decision and returns true when a YES movie is also
// liked by someone else. The timestamp is assigned here, not by the
// caller.
func (r *Recorder) Record(ctx context.Context, userID string, req RecordRequest) (bool, error) {
	if req.MovieID == "" {
		return false, fmt.Errorf("%w: movie id is required", ErrValidation)
	}
	if !req.Type.Valid() {
		return false, fmt.Errorf("%w: unknown type %q", ErrValidation, req.Type)
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return false, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	i := Interaction{
		UserID:    userID,
		MovieID:   req.MovieID,
		Type:      req.Type,
		Timestamp: time.Now().UnixMilli(),
		Rating:    req.Rating,
		Notes:     req.Notes,
	}

	if err := r.store.Upsert(ctx, i); err != nil {
		return false, err
	}

	matched := false
	if req.Type == TypeYes {
		var err error
		matched, err = r.store.HasReciprocalLike(ctx, userID, req.MovieID)
		if err != nil {
			// The decision is already stored; a failed match check only
			// loses the notification.
			r.logger.Warn().Err(err).Str("movie_id", req.MovieID).Msg("Match check failed")
			matched = false
		}
	}

	if r.broadcaster != nil {
		r.broadcaster.Broadcast("interaction:recorded", matchEvent{
			UserID:  userID,
			MovieID: req.MovieID,
			Type:    req.Type,
			Matched: matched,
		})
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("movie_id", req.MovieID).
		Str("type", string(req.Type)).
		Bool("matched", matched).
		Msg("Interaction recorded")

	return matched, nil
}
