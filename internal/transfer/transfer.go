// Package transfer moves money between two accounts of the same owner.
//
// Flow:
//  1. Caller supplies an idempotency key; replays return the original row
//  2. The financial write (transfer + both balances + debit/credit ledger
//     pair) commits as one atomic unit
//  3. The owner's trailing-24h activity is aggregated and sent to the
//     risk scorer; scoring failures degrade to a zero score
//  4. The assessment is persisted separately and never affects the
//     already-committed transfer
package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/minibank/core/internal/account"
)

// Validation and business-rule failures, all detected before any mutation.
var (
	ErrMissingIdempotencyKey = errors.New("missing idempotency key")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidAccounts       = errors.New("source and destination accounts must be different")
	ErrUnauthorized          = errors.New("accounts must belong to the caller")
	ErrCurrencyMismatch      = errors.New("currency mismatch")
	ErrTransferNotFound      = errors.New("transfer not found")

	// ErrInsufficientFunds surfaces from the account book: the source
	// balance cannot cover the debit.
	ErrInsufficientFunds = account.ErrInsufficientFunds
)

// StatusApproved is the only status this subsystem produces. Risk scoring
// is advisory and never declines a transfer.
const StatusApproved = "approved"

// Transfer is the intent to move money, immutable once created.
type Transfer struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	FromAccountID  string    `json:"fromAccountId"`
	ToAccountID    string    `json:"toAccountId"`
	Amount         string    `json:"amount"` // decimal string, 2 places
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	IdempotencyKey string    `json:"idempotencyKey"`
	Memo           string    `json:"memo,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
)

// LedgerEntry is one leg of a transfer. Exactly two exist per transfer,
// one debit and one credit of equal amount. Balance is the account's
// resulting balance at the moment of the entry, so audits never need to
// replay history. Entries are append-only: no update, no delete.
type LedgerEntry struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"accountId"`
	TransferID string    `json:"transferId"`
	Type       EntryType `json:"type"`
	Amount     string    `json:"amount"`
	Balance    string    `json:"balance"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WindowStats aggregates an owner's approved transfers over a trailing
// time window. Risk scoring reads it as a velocity signal.
type WindowStats struct {
	Count    int       `json:"count"`
	Total    string    `json:"total"`
	Since    time.Time `json:"since"`
	Currency string    `json:"currency,omitempty"`
}

// CreateResult is the outcome of the atomic create. Replayed is true when
// a concurrent request with the same (owner, key) won the insert race and
// Transfer is that winner's row.
type CreateResult struct {
	Transfer *Transfer
	Replayed bool
}

// Store persists transfers and their ledger entries.
//
// CreateApproved is the atomic unit: insert the transfer, debit and
// credit the two account balances, and append the ledger pair; all
// commit or all roll back. Implementations serialize concurrent mutation
// of the same account (row locks in Postgres, a store mutex in memory)
// and enforce (user_id, idempotency_key) uniqueness, resolving a lost
// insert race by returning the winner's row instead of an error.
type Store interface {
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*Transfer, error)
	CreateApproved(ctx context.Context, t *Transfer) (*CreateResult, error)
	GetByUser(ctx context.Context, userID, id string) (*Transfer, error)
	SearchByPrefix(ctx context.Context, userID, prefix string, limit int) ([]*Transfer, error)
	WindowStats(ctx context.Context, userID string, since time.Time, status, currency string) (*WindowStats, error)
	EntriesByAccount(ctx context.Context, accountID string) ([]*LedgerEntry, error)
}
