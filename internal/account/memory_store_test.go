package account

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func seedPair(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	ctx := context.Background()
	for _, a := range []*Account{
		{ID: "acc_a", UserID: "usr_1", Currency: "CAD", Balance: "100.00"},
		{ID: "acc_b", UserID: "usr_1", Currency: "CAD", Balance: "0.00"},
	} {
		if err := store.Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	return store
}

func TestApplyTransfer(t *testing.T) {
	store := seedPair(t)

	fromBal, toBal, err := store.ApplyTransfer(context.Background(), "acc_a", "acc_b", "40.00")
	if err != nil {
		t.Fatalf("ApplyTransfer: %v", err)
	}
	if fromBal != "60.00" || toBal != "40.00" {
		t.Errorf("balances = %s / %s", fromBal, toBal)
	}
}

func TestApplyTransfer_InsufficientFunds(t *testing.T) {
	store := seedPair(t)

	_, _, err := store.ApplyTransfer(context.Background(), "acc_a", "acc_b", "100.01")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	a, _ := store.Get(context.Background(), "acc_a")
	if a.Balance != "100.00" {
		t.Errorf("balance mutated on failure: %s", a.Balance)
	}
}

func TestApplyTransfer_UnknownAccount(t *testing.T) {
	store := seedPair(t)
	if _, _, err := store.ApplyTransfer(context.Background(), "acc_missing", "acc_b", "1.00"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestApplyTransfer_ConcurrentConservation(t *testing.T) {
	store := seedPair(t)
	ctx := context.Background()

	// 100 concurrent 1.00 debits against a 100.00 balance: all succeed,
	// none over-draw, and the money is conserved.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.ApplyTransfer(ctx, "acc_a", "acc_b", "1.00")
		}()
	}
	wg.Wait()

	a, _ := store.Get(ctx, "acc_a")
	b, _ := store.Get(ctx, "acc_b")
	if a.Balance != "0.00" {
		t.Errorf("source = %s, want 0.00", a.Balance)
	}
	if b.Balance != "100.00" {
		t.Errorf("destination = %s, want 100.00", b.Balance)
	}
}

func TestGet_CopiesNotAliases(t *testing.T) {
	store := seedPair(t)
	ctx := context.Background()

	a1, _ := store.Get(ctx, "acc_a")
	a1.Balance = "999.99"

	a2, _ := store.Get(ctx, "acc_a")
	if a2.Balance != "100.00" {
		t.Errorf("store state leaked through returned pointer: %s", a2.Balance)
	}
}
