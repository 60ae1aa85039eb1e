// Package demo seeds the fixed demo dataset: one user with a checking
// and a savings account, plus optional backdated transfer history. The
// server uses Seed in memory mode on startup; cmd/seed runs Seed and
// SeedHistory against Postgres.
package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minibank/core/internal/account"
	"github.com/minibank/core/internal/idgen"
	"github.com/minibank/core/internal/money"
	"github.com/minibank/core/internal/risk"
	"github.com/minibank/core/internal/transfer"
	"github.com/minibank/core/internal/user"
)

// Fixed balances and currency for the demo accounts.
const (
	Currency        = "CAD"
	CheckingBalance = "2500.00"
	SavingsBalance  = "5000.00"
)

// Seed ensures the demo user and accounts exist. It is idempotent: an
// existing user is reused and accounts are only created when the user
// has none.
func Seed(ctx context.Context, users user.Store, accounts account.Store, email string) (*user.User, error) {
	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		u = &user.User{
			ID:        idgen.WithPrefix("usr_"),
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
		if err := users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create demo user: %w", err)
		}
		// Create may have lost a race to another seeder.
		if u, err = users.GetByEmail(ctx, email); err != nil {
			return nil, fmt.Errorf("re-read demo user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("look up demo user: %w", err)
	}

	existing, err := accounts.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list demo accounts: %w", err)
	}
	if len(existing) > 0 {
		return u, nil
	}

	now := time.Now().UTC()
	for _, a := range []*account.Account{
		{
			ID:        idgen.WithPrefix("acc_"),
			UserID:    u.ID,
			Name:      "Everyday Checking",
			Type:      "checking",
			Currency:  Currency,
			Balance:   CheckingBalance,
			CreatedAt: now,
		},
		{
			ID:        idgen.WithPrefix("acc_"),
			UserID:    u.ID,
			Name:      "High-Interest Savings",
			Type:      "savings",
			Currency:  Currency,
			Balance:   SavingsBalance,
			CreatedAt: now,
		},
	} {
		if err := accounts.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("create demo account %s: %w", a.Name, err)
		}
	}
	return u, nil
}

// SeedHistory backfills a few approved transfers between the demo
// accounts, with their ledger entries and risk assessments, so the
// trailing-window stats and dashboards show activity on a fresh
// database. Idempotency keys are fixed, so a re-run replays the
// existing rows instead of moving money again.
func SeedHistory(ctx context.Context, transfers transfer.Store, risks risk.Store, owner *user.User, accts []*account.Account) error {
	var checking, savings *account.Account
	for _, a := range accts {
		switch a.Type {
		case "checking":
			checking = a
		case "savings":
			savings = a
		}
	}
	if checking == nil || savings == nil {
		return errors.New("demo history needs one checking and one savings account")
	}

	now := time.Now().UTC()
	history := []struct {
		key    string
		from   *account.Account
		to     *account.Account
		amount string
		memo   string
		age    time.Duration
	}{
		{"demo-history-001", checking, savings, "150.00", "monthly savings sweep", 30 * time.Hour},
		{"demo-history-002", savings, checking, "600.00", "furniture purchase", 20 * time.Hour},
		{"demo-history-003", checking, savings, "75.50", "round-up transfer", 2 * time.Hour},
	}

	eng := risk.NewEngine()
	for _, h := range history {
		t := &transfer.Transfer{
			ID:             idgen.WithPrefix("trf_"),
			UserID:         owner.ID,
			FromAccountID:  h.from.ID,
			ToAccountID:    h.to.ID,
			Amount:         h.amount,
			Currency:       Currency,
			Status:         transfer.StatusApproved,
			IdempotencyKey: h.key,
			Memo:           h.memo,
			CreatedAt:      now.Add(-h.age),
		}
		res, err := transfers.CreateApproved(ctx, t)
		if err != nil {
			return fmt.Errorf("seed transfer %s: %w", h.key, err)
		}
		if res.Replayed {
			continue
		}

		stats, err := transfers.WindowStats(ctx, owner.ID, t.CreatedAt.Add(-transfer.Window), transfer.StatusApproved, t.Currency)
		if err != nil {
			return fmt.Errorf("seed window stats: %w", err)
		}
		verdict, err := eng.Score(ctx, &risk.Request{
			UserID:        owner.ID,
			FromAccountID: t.FromAccountID,
			ToAccountID:   t.ToAccountID,
			Amount:        money.Float(t.Amount),
			Currency:      t.Currency,
			Timestamp:     t.CreatedAt,
			WindowCount:   stats.Count,
			WindowTotal:   money.Float(stats.Total),
		})
		if err != nil {
			return fmt.Errorf("seed risk score: %w", err)
		}
		a := &risk.Assessment{
			ID:         idgen.WithPrefix("risk_"),
			TransferID: res.Transfer.ID,
			Score:      verdict.Score,
			Level:      risk.Classify(verdict.Score),
			Reasons:    verdict.Reasons,
			CreatedAt:  t.CreatedAt,
		}
		if err := risks.Save(ctx, a); err != nil {
			return fmt.Errorf("seed assessment for %s: %w", res.Transfer.ID, err)
		}
	}
	return nil
}
