package transfer

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/minibank/core/internal/account"
	"github.com/minibank/core/internal/idgen"
	"github.com/minibank/core/internal/testutil"
	"github.com/minibank/core/internal/user"
)

type pgFixture struct {
	db       *sql.DB
	store    *PostgresStore
	userID   string
	checking string
	savings  string
}

func newPGFixture(t *testing.T) (*pgFixture, func()) {
	t.Helper()
	db, cleanup := testutil.PGTest(t)
	ctx := context.Background()

	u := &user.User{ID: idgen.WithPrefix("usr_"), Email: "pgtest@example.com", CreatedAt: time.Now().UTC()}
	if err := user.NewPostgresStore(db).Create(ctx, u); err != nil {
		cleanup()
		t.Fatalf("create user: %v", err)
	}

	accounts := account.NewPostgresStore(db)
	checking := &account.Account{
		ID: idgen.WithPrefix("acc_"), UserID: u.ID, Name: "Checking",
		Type: "checking", Currency: "CAD", Balance: "2500.00", CreatedAt: time.Now().UTC(),
	}
	savings := &account.Account{
		ID: idgen.WithPrefix("acc_"), UserID: u.ID, Name: "Savings",
		Type: "savings", Currency: "CAD", Balance: "5000.00", CreatedAt: time.Now().UTC(),
	}
	for _, a := range []*account.Account{checking, savings} {
		if err := accounts.Create(ctx, a); err != nil {
			cleanup()
			t.Fatalf("create account: %v", err)
		}
	}

	return &pgFixture{
		db:       db,
		store:    NewPostgresStore(db),
		userID:   u.ID,
		checking: checking.ID,
		savings:  savings.ID,
	}, cleanup
}

func (f *pgFixture) newTransfer(amount, key string) *Transfer {
	return &Transfer{
		ID:             idgen.WithPrefix("trf_"),
		UserID:         f.userID,
		FromAccountID:  f.checking,
		ToAccountID:    f.savings,
		Amount:         amount,
		Currency:       "CAD",
		Status:         StatusApproved,
		IdempotencyKey: key,
		CreatedAt:      time.Now().UTC(),
	}
}

func (f *pgFixture) balance(t *testing.T, id string) string {
	t.Helper()
	var balance string
	err := f.db.QueryRow(`SELECT balance::TEXT FROM accounts WHERE id = $1`, id).Scan(&balance)
	if err != nil {
		t.Fatalf("read balance: %v", err)
	}
	return balance
}

func TestPostgresStore_CreateApproved(t *testing.T) {
	f, cleanup := newPGFixture(t)
	defer cleanup()
	ctx := context.Background()

	res, err := f.store.CreateApproved(ctx, f.newTransfer("100.00", "pg-key-1"))
	if err != nil {
		t.Fatalf("CreateApproved: %v", err)
	}
	if res.Replayed {
		t.Error("fresh create marked replayed")
	}

	if got := f.balance(t, f.checking); got != "2400.00" {
		t.Errorf("source balance = %s, want 2400.00", got)
	}
	if got := f.balance(t, f.savings); got != "5100.00" {
		t.Errorf("destination balance = %s, want 5100.00", got)
	}

	entries, err := f.store.EntriesByAccount(ctx, f.checking)
	if err != nil {
		t.Fatalf("EntriesByAccount: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != EntryDebit || entries[0].Balance != "2400.00" {
		t.Errorf("debit entries = %+v", entries)
	}

	entries, err = f.store.EntriesByAccount(ctx, f.savings)
	if err != nil {
		t.Fatalf("EntriesByAccount: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != EntryCredit || entries[0].Balance != "5100.00" {
		t.Errorf("credit entries = %+v", entries)
	}
}

func TestPostgresStore_InsufficientFundsRollsBack(t *testing.T) {
	f, cleanup := newPGFixture(t)
	defer cleanup()

	_, err := f.store.CreateApproved(context.Background(), f.newTransfer("9999.00", "pg-key-over"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	if got := f.balance(t, f.checking); got != "2500.00" {
		t.Errorf("source balance = %s, want untouched", got)
	}
	var count int
	_ = f.db.QueryRow(`SELECT COUNT(*) FROM transfers`).Scan(&count)
	if count != 0 {
		t.Errorf("transfer rows = %d, want 0", count)
	}
}

func TestPostgresStore_IdempotencyConflictReturnsWinner(t *testing.T) {
	f, cleanup := newPGFixture(t)
	defer cleanup()
	ctx := context.Background()

	winner, err := f.store.CreateApproved(ctx, f.newTransfer("100.00", "pg-key-dup"))
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	loser, err := f.store.CreateApproved(ctx, f.newTransfer("100.00", "pg-key-dup"))
	if err != nil {
		t.Fatalf("duplicate create: %v", err)
	}
	if !loser.Replayed {
		t.Error("duplicate not marked replayed")
	}
	if loser.Transfer.ID != winner.Transfer.ID {
		t.Errorf("duplicate returned %s, want winner %s", loser.Transfer.ID, winner.Transfer.ID)
	}

	// Single debit only.
	if got := f.balance(t, f.checking); got != "2400.00" {
		t.Errorf("source balance = %s, want 2400.00", got)
	}
	var count int
	_ = f.db.QueryRow(`SELECT COUNT(*) FROM ledger_entries`).Scan(&count)
	if count != 2 {
		t.Errorf("ledger rows = %d, want 2", count)
	}
}

func TestPostgresStore_ConcurrentSameKey(t *testing.T) {
	f, cleanup := newPGFixture(t)
	defer cleanup()
	ctx := context.Background()

	const n = 6
	var wg sync.WaitGroup
	results := make(chan *CreateResult, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.store.CreateApproved(ctx, f.newTransfer("50.00", "pg-key-race"))
			if err != nil {
				t.Errorf("concurrent create: %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	var created int
	for res := range results {
		if !res.Replayed {
			created++
		}
	}
	if created != 1 {
		t.Errorf("fresh creates = %d, want exactly 1", created)
	}
	if got := f.balance(t, f.checking); got != "2450.00" {
		t.Errorf("source balance = %s, want 2450.00", got)
	}
}

func TestPostgresStore_WindowStats(t *testing.T) {
	f, cleanup := newPGFixture(t)
	defer cleanup()
	ctx := context.Background()

	recent := f.newTransfer("150.00", "pg-key-recent")
	if _, err := f.store.CreateApproved(ctx, recent); err != nil {
		t.Fatalf("recent: %v", err)
	}

	old := f.newTransfer("500.00", "pg-key-old")
	old.CreatedAt = time.Now().UTC().Add(-25 * time.Hour)
	if _, err := f.store.CreateApproved(ctx, old); err != nil {
		t.Fatalf("old: %v", err)
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	stats, err := f.store.WindowStats(ctx, f.userID, since, StatusApproved, "")
	if err != nil {
		t.Fatalf("WindowStats: %v", err)
	}
	if stats.Count != 1 {
		t.Errorf("count = %d, want 1", stats.Count)
	}
	if stats.Total != "150.00" {
		t.Errorf("total = %s, want 150.00", stats.Total)
	}

	// Currency filter.
	stats, err = f.store.WindowStats(ctx, f.userID, since, StatusApproved, "USD")
	if err != nil {
		t.Fatalf("WindowStats: %v", err)
	}
	if stats.Count != 0 || stats.Total != "0.00" {
		t.Errorf("USD stats = %+v", stats)
	}
}

func TestPostgresStore_SearchByPrefix(t *testing.T) {
	f, cleanup := newPGFixture(t)
	defer cleanup()
	ctx := context.Background()

	created := f.newTransfer("25.00", "pg-key-search")
	if _, err := f.store.CreateApproved(ctx, created); err != nil {
		t.Fatalf("create: %v", err)
	}

	results, err := f.store.SearchByPrefix(ctx, f.userID, created.ID[:10], 10)
	if err != nil {
		t.Fatalf("SearchByPrefix: %v", err)
	}
	if len(results) != 1 || results[0].ID != created.ID {
		t.Errorf("results = %+v", results)
	}

	results, err = f.store.SearchByPrefix(ctx, "usr_nobody", "trf_", 10)
	if err != nil {
		t.Fatalf("SearchByPrefix: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("cross-user results = %d, want 0", len(results))
	}
}
