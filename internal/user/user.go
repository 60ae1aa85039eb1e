// Package user holds owner records for accounts and transfers.
//
// There is no self-serve signup: owners are provisioned by the seeder
// (the demo owner) or by operations tooling. The request layer resolves
// the authenticated owner and passes its ID into the core explicitly.
package user

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User is the owning identity behind accounts and transfers.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists users.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
}
