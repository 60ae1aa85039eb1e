package transfer

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minibank/core/internal/idgen"
	"github.com/minibank/core/internal/money"
)

// AccountMutator applies the balance side of a transfer atomically and
// returns the post-mutation balances. The account MemoryStore implements
// it; the Postgres path updates account rows inside its own transaction
// instead.
type AccountMutator interface {
	ApplyTransfer(ctx context.Context, fromID, toID, amount string) (fromBalance, toBalance string, err error)
}

// MemoryStore is an in-memory transfer store for demo/development mode.
// The store mutex makes CreateApproved atomic, which is the same
// contract the Postgres implementation provides with a transaction.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts AccountMutator
	byID     map[string]*Transfer
	byKey    map[string]string // userID + "\x00" + idempotencyKey -> transfer id
	entries  []*LedgerEntry
}

// NewMemoryStore creates an in-memory transfer store backed by the given
// account book.
func NewMemoryStore(accounts AccountMutator) *MemoryStore {
	return &MemoryStore{
		accounts: accounts,
		byID:     make(map[string]*Transfer),
		byKey:    make(map[string]string),
	}
}

func dedupKey(userID, key string) string {
	return userID + "\x00" + key
}

func (m *MemoryStore) FindByIdempotencyKey(ctx context.Context, userID, key string) (*Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byKey[dedupKey(userID, key)]
	if !ok {
		return nil, ErrTransferNotFound
	}
	cp := *m.byID[id]
	return &cp, nil
}

func (m *MemoryStore) CreateApproved(ctx context.Context, t *Transfer) (*CreateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Uniqueness check and balance mutation happen under one lock, so a
	// losing concurrent writer observes the winner's row here.
	if id, ok := m.byKey[dedupKey(t.UserID, t.IdempotencyKey)]; ok {
		cp := *m.byID[id]
		return &CreateResult{Transfer: &cp, Replayed: true}, nil
	}

	fromBalance, toBalance, err := m.accounts.ApplyTransfer(ctx, t.FromAccountID, t.ToAccountID, t.Amount)
	if err != nil {
		return nil, err
	}

	cp := *t
	m.byID[cp.ID] = &cp
	m.byKey[dedupKey(cp.UserID, cp.IdempotencyKey)] = cp.ID

	m.entries = append(m.entries,
		&LedgerEntry{
			ID:         idgen.WithPrefix("led_"),
			AccountID:  cp.FromAccountID,
			TransferID: cp.ID,
			Type:       EntryDebit,
			Amount:     cp.Amount,
			Balance:    fromBalance,
			CreatedAt:  cp.CreatedAt,
		},
		&LedgerEntry{
			ID:         idgen.WithPrefix("led_"),
			AccountID:  cp.ToAccountID,
			TransferID: cp.ID,
			Type:       EntryCredit,
			Amount:     cp.Amount,
			Balance:    toBalance,
			CreatedAt:  cp.CreatedAt,
		},
	)

	out := cp
	return &CreateResult{Transfer: &out}, nil
}

func (m *MemoryStore) GetByUser(ctx context.Context, userID, id string) (*Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.byID[id]
	if !ok || t.UserID != userID {
		return nil, ErrTransferNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryStore) SearchByPrefix(ctx context.Context, userID, prefix string, limit int) ([]*Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Transfer
	for _, t := range m.byID {
		if t.UserID == userID && strings.HasPrefix(t.ID, prefix) {
			cp := *t
			out = append(out, &cp)
		}
	}
	// Newest first, bounded.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) WindowStats(ctx context.Context, userID string, since time.Time, status, currency string) (*WindowStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	total := big.NewInt(0)
	for _, t := range m.byID {
		if t.UserID != userID || t.Status != status {
			continue
		}
		if t.CreatedAt.Before(since) {
			continue
		}
		if currency != "" && t.Currency != currency {
			continue
		}
		count++
		amt, _ := money.Parse(t.Amount)
		total.Add(total, amt)
	}
	return &WindowStats{Count: count, Total: money.Format(total)}, nil
}

func (m *MemoryStore) EntriesByAccount(ctx context.Context, accountID string) ([]*LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*LedgerEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].AccountID == accountID {
			cp := *m.entries[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}
