// Package account holds balance-bearing accounts.
//
// Balances are mutated only by the transfer subsystem, inside its
// transaction and under its locking discipline; this package's Store is a
// plain read/create surface. A balance can never go negative as a result
// of a transfer debit: the transfer store re-verifies funds with the
// account rows locked before it writes.
package account

import (
	"context"
	"errors"
	"time"
)

var ErrAccountNotFound = errors.New("account not found")

// Account represents one balance in one currency owned by one user.
type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // checking, savings
	Currency  string    `json:"currency"`
	Balance   string    `json:"balance"` // decimal string, 2 places
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists accounts.
type Store interface {
	Get(ctx context.Context, id string) (*Account, error)
	ListByUser(ctx context.Context, userID string) ([]*Account, error)
	Create(ctx context.Context, a *Account) error
}
