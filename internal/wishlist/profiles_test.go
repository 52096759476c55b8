package wishlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"giftlist/internal/docstore"
	"giftlist/internal/names"
)

func TestLogin(t *testing.T) {
	store := docstore.NewMemoryStore()
	t.Cleanup(store.Close)

	registry := names.NewRegistry(testFamily)
	registry.SetEmails(map[string]string{"anna": "anna@example.com"})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(store, registry, logger)
	ctx := context.Background()

	t.Run("first login creates the profile", func(t *testing.T) {
		profile, err := svc.Login(ctx, "anna", "1234")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if profile.ID != "Anna" || profile.DisplayName != "Anna" {
			t.Errorf("the configured spelling must win, got %+v", profile)
		}
		if profile.Email != "anna@example.com" {
			t.Errorf("email = %q, want the roster email", profile.Email)
		}
	})

	t.Run("matching pin verifies", func(t *testing.T) {
		if _, err := svc.Login(ctx, "ANNA", "1234"); err != nil {
			t.Errorf("login: %v", err)
		}
	})

	t.Run("wrong pin is rejected", func(t *testing.T) {
		if _, err := svc.Login(ctx, "Anna", "9999"); !errors.Is(err, ErrWrongPIN) {
			t.Errorf("expected ErrWrongPIN, got %v", err)
		}
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		if _, err := svc.Login(ctx, "Eve", "1234"); !errors.Is(err, ErrNameNotAllowed) {
			t.Errorf("expected ErrNameNotAllowed, got %v", err)
		}
	})

	t.Run("malformed pin is rejected", func(t *testing.T) {
		for _, pin := range []string{"", "12", "123456789", "12ab"} {
			if _, err := svc.Login(ctx, "Ben", pin); !IsValidation(err) {
				t.Errorf("pin %q: expected a validation error, got %v", pin, err)
			}
		}
	})
}

func TestChangePIN(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.ChangePIN(ctx, "Anna", "777777"); err != nil {
		t.Fatalf("change pin: %v", err)
	}
	if _, err := svc.Login(ctx, "Anna", "777777"); err != nil {
		t.Errorf("login with the new pin: %v", err)
	}
	if _, err := svc.Login(ctx, "Anna", "1234"); !errors.Is(err, ErrWrongPIN) {
		t.Errorf("the old pin must stop working, got %v", err)
	}

	if err := svc.ChangePIN(ctx, "Anna", "abc"); !IsValidation(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
	if err := svc.ChangePIN(ctx, "Nobody", "1234"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfilesSortedAndSafe(t *testing.T) {
	svc, _ := newTestService(t)

	profiles, err := svc.Profiles(context.Background())
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if len(profiles) != len(testFamily) {
		t.Fatalf("got %d profiles, want %d", len(profiles), len(testFamily))
	}
	for i := 1; i < len(profiles); i++ {
		if profiles[i-1].DisplayName > profiles[i].DisplayName {
			t.Errorf("profiles not sorted: %s before %s", profiles[i-1].DisplayName, profiles[i].DisplayName)
		}
	}
}
