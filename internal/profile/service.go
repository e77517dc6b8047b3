package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelswipe/reelswipe/internal/database"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Profile is a user account record. The password hash never leaves the
// service.
type Profile struct {
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
	CreatedAt string `json:"createdAt"`
}

// InteractionPurger removes a user's interaction history on account
// deletion.
type InteractionPurger interface {
	PurgeUser(ctx context.Context, userID string) error
}

// Service manages user profiles.
type Service struct {
	db           *database.DB
	interactions InteractionPurger
	logger       zerolog.Logger
}

// NewService creates a new profile service.
func NewService(db *database.DB, interactions InteractionPurger, logger zerolog.Logger) *Service {
	return &Service{
		db:           db,
		interactions: interactions,
		logger:       logger.With().Str("component", "profile").Logger(),
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password, fullName string) (*Profile, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO profiles (username, full_name, password_hash)
		VALUES (?, ?, ?)`, username, fullName, string(hash))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return s.Get(ctx, username)
}

// Authenticate checks a username/password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Profile, error) {
	username = strings.TrimSpace(strings.ToLower(username))

	var hash string
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT password_hash FROM profiles WHERE username = ?`, username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.Get(ctx, username)
}

// Get loads a profile by username.
func (s *Service) Get(ctx context.Context, username string) (*Profile, error) {
	var p Profile
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT username, full_name, avatar_url, created_at
		FROM profiles WHERE username = ?`, username).
		Scan(&p.Username, &p.FullName, &p.AvatarURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

// Update changes the display fields of a profile. Empty fields are
// left as they are.
func (s *Service) Update(ctx context.Context, username, fullName, avatarURL string) (*Profile, error) {
	result, err := s.db.Conn().ExecContext(ctx, `
		UPDATE profiles SET
			full_name = CASE WHEN ? != '' THEN ? ELSE full_name END,
			avatar_url = CASE WHEN ? != '' THEN ? ELSE avatar_url END
		WHERE username = ?`,
		fullName, fullName, avatarURL, avatarURL, username)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrUserNotFound
	}

	return s.Get(ctx, username)
}

// Delete removes the account and purges its interaction history.
func (s *Service) Delete(ctx context.Context, username string) error {
	result, err := s.db.Conn().ExecContext(ctx,
		`DELETE FROM profiles WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrUserNotFound
	}

	if err := s.interactions.PurgeUser(ctx, username); err != nil {
		// The account row is already gone; orphaned interactions are
		// invisible but should not fail the deletion.
		s.logger.Warn().Err(err).Str("username", username).Msg("Failed to purge interactions on delete")
	}

	return nil
}
