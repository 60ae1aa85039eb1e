package user

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	u := &User{ID: "usr_1", Email: "Demo@Example.COM", CreatedAt: time.Now()}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Email lookup is case-insensitive.
	got, err := store.GetByEmail(ctx, "demo@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "usr_1" {
		t.Errorf("ID = %q", got.ID)
	}

	got, err = store.GetByID(ctx, "usr_1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "demo@example.com" {
		t.Errorf("Email = %q, want lowercased", got.Email)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
	if _, err := store.GetByID(context.Background(), "usr_missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
