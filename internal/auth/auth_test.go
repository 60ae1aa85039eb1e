package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minibank/core/internal/user"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	users := user.NewMemoryStore()
	err := users.Create(context.Background(), &user.User{
		ID:        "usr_000000000000000000000001",
		Email:     "demo@digitalbanking.dev",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewManager("demo-token", "demo@digitalbanking.dev", users)
}

func TestLogin(t *testing.T) {
	m := newTestManager(t)

	token, u, err := m.Login(context.Background(), "demo@digitalbanking.dev")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "demo-token" {
		t.Errorf("token = %q", token)
	}
	if u.Email != "demo@digitalbanking.dev" {
		t.Errorf("user = %+v", u)
	}
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	m := newTestManager(t)
	if _, _, err := m.Login(context.Background(), "  DEMO@digitalbanking.DEV "); err != nil {
		t.Errorf("Login with cased email: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	m := newTestManager(t)
	if _, _, err := m.Login(context.Background(), "stranger@example.com"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("err = %v, want ErrUnknownUser", err)
	}
}

func TestValidateToken(t *testing.T) {
	m := newTestManager(t)

	u, err := m.ValidateToken(context.Background(), "Bearer demo-token")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if u.Email != "demo@digitalbanking.dev" {
		t.Errorf("user = %+v", u)
	}

	// Bare token without the Bearer prefix also works.
	if _, err := m.ValidateToken(context.Background(), "demo-token"); err != nil {
		t.Errorf("bare token: %v", err)
	}
}

func TestValidateToken_Invalid(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.ValidateToken(context.Background(), ""); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty err = %v, want ErrNoToken", err)
	}
	if _, err := m.ValidateToken(context.Background(), "Bearer wrong"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong err = %v, want ErrInvalidToken", err)
	}
}
