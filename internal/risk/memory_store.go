package risk

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory assessment store for demo/development mode.
type MemoryStore struct {
	mu         sync.RWMutex
	byTransfer map[string]*Assessment
}

// NewMemoryStore creates a new in-memory assessment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byTransfer: make(map[string]*Assessment)}
}

func (m *MemoryStore) Save(ctx context.Context, a *Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// One assessment per transfer; a second save for the same transfer
	// is a no-op so replays cannot duplicate it.
	if _, exists := m.byTransfer[a.TransferID]; exists {
		return nil
	}
	cp := *a
	cp.Reasons = append([]string(nil), a.Reasons...)
	m.byTransfer[cp.TransferID] = &cp
	return nil
}

func (m *MemoryStore) GetByTransfer(ctx context.Context, transferID string) (*Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byTransfer[transferID]
	if !ok {
		return nil, ErrAssessmentNotFound
	}
	cp := *a
	cp.Reasons = append([]string(nil), a.Reasons...)
	return &cp, nil
}
