package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/interaction"
	"github.com/reelswipe/reelswipe/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *interaction.Store) {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := interaction.NewStore(db, zerolog.Nop())
	return NewService(db, store, zerolog.Nop()), store
}

func TestRegisterAndAuthenticate(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	p, err := service.Register(ctx, "Alice", "hunter2hunter2", "Alice Example")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if p.Username != "alice" {
		t.Errorf("Expected lowercased username, got %s", p.Username)
	}
	if p.FullName != "Alice Example" {
		t.Errorf("Unexpected full name: %s", p.FullName)
	}

	got, err := service.Authenticate(ctx, "alice", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Unexpected username: %s", got.Username)
	}

	if _, err := service.Authenticate(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials, got %v", err)
	}
	if _, err := service.Authenticate(ctx, "nobody", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials for unknown user, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "", "longenoughpw", ""); err == nil {
		t.Error("Expected error for empty username")
	}
	if _, err := service.Register(ctx, "bob", "short", ""); err == nil {
		t.Error("Expected error for short password")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "hunter2hunter2", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := service.Register(ctx, "ALICE", "hunter2hunter2", ""); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Expected username taken, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "hunter2hunter2", "Alice"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	p, err := service.Update(ctx, "alice", "Alice Cooper", "")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if p.FullName != "Alice Cooper" {
		t.Errorf("Expected updated name, got %s", p.FullName)
	}

	// Empty fields stay untouched.
	p, err = service.Update(ctx, "alice", "", "/avatars/a.png")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if p.FullName != "Alice Cooper" {
		t.Errorf("Name lost on avatar-only update: %s", p.FullName)
	}
	if p.AvatarURL != "/avatars/a.png" {
		t.Errorf("Expected avatar set, got %s", p.AvatarURL)
	}

	if _, err := service.Update(ctx, "nobody", "X", ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestDeletePurgesInteractions(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "hunter2hunter2", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.Upsert(ctx, interaction.Interaction{UserID: "alice", MovieID: "100", Type: interaction.TypeYes, Timestamp: 1000}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := service.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := service.Get(ctx, "alice"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected profile gone, got %v", err)
	}
	list, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected interactions purged, got %d rows", len(list))
	}

	if err := service.Delete(ctx, "alice"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected not found on double delete, got %v", err)
	}
}
