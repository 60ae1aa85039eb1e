// Package auth provides API authentication for the demo deployment.
//
// Authentication model:
// - Public endpoints (health, metrics, sandbox scoring): no auth required
// - Everything under /api: a static bearer token mapped to the demo user
//
// The token is configuration, not a credential store. A real deployment
// swaps Manager for an identity provider behind the same middleware.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/minibank/core/internal/user"
)

// Errors
var (
	ErrNoToken      = errors.New("bearer token required")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownUser  = errors.New("no user for token")
)

// Manager validates bearer tokens and resolves them to a user.
type Manager struct {
	token string
	email string
	users user.Store
}

// NewManager creates an auth manager bound to the demo token and the
// email it resolves to.
func NewManager(token, email string, users user.Store) *Manager {
	return &Manager{token: token, email: email, users: users}
}

// Login checks the submitted email and returns the bearer token the
// client should present on subsequent requests.
func (m *Manager) Login(ctx context.Context, email string) (token string, u *user.User, err error) {
	if !strings.EqualFold(strings.TrimSpace(email), m.email) {
		return "", nil, ErrUnknownUser
	}
	u, err = m.users.GetByEmail(ctx, m.email)
	if err != nil {
		return "", nil, err
	}
	return m.token, u, nil
}

// ValidateToken validates a raw Authorization header value and resolves
// the authenticated user.
func (m *Manager) ValidateToken(ctx context.Context, raw string) (*user.User, error) {
	if raw == "" {
		return nil, ErrNoToken
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if subtle.ConstantTimeCompare([]byte(raw), []byte(m.token)) != 1 {
		return nil, ErrInvalidToken
	}
	u, err := m.users.GetByEmail(ctx, m.email)
	if err != nil {
		return nil, ErrUnknownUser
	}
	return u, nil
}
