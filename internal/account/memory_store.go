package account

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/minibank/core/internal/money"
)

// ErrInsufficientFunds is returned by ApplyTransfer when the source
// balance cannot cover the debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// MemoryStore is an in-memory account store for demo/development mode.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewMemoryStore creates a new in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]*Account)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) ListByUser(ctx context.Context, userID string) ([]*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	m.accounts[cp.ID] = &cp
	return nil
}

// ApplyTransfer atomically debits from and credits to by amount, under
// the store mutex so concurrent transfers against the same account
// serialize. Returns the post-mutation balances for the ledger snapshot.
func (m *MemoryStore) ApplyTransfer(ctx context.Context, fromID, toID, amount string) (fromBalance, toBalance string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, ok := m.accounts[fromID]
	if !ok {
		return "", "", ErrAccountNotFound
	}
	to, ok := m.accounts[toID]
	if !ok {
		return "", "", ErrAccountNotFound
	}

	amt, ok := money.Parse(amount)
	if !ok || amt.Sign() <= 0 {
		return "", "", errors.New("invalid amount")
	}
	bal, _ := money.Parse(from.Balance)
	if bal.Cmp(amt) < 0 {
		return "", "", ErrInsufficientFunds
	}

	toBal, _ := money.Parse(to.Balance)
	from.Balance = money.Format(new(big.Int).Sub(bal, amt))
	to.Balance = money.Format(new(big.Int).Add(toBal, amt))
	return from.Balance, to.Balance, nil
}
