package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/minibank/core/internal/account"
	"github.com/minibank/core/internal/idgen"
	"github.com/minibank/core/internal/money"
)

const uniqueViolation = "23505"

// PostgresStore implements Store with PostgreSQL.
//
// CreateApproved locks the two account rows in id order (crossing
// transfers otherwise deadlock), re-verifies funds under the lock, and
// writes transfer, balances, and ledger pair in one transaction. The
// UNIQUE (user_id, idempotency_key) constraint resolves concurrent
// duplicates: the losing insert re-reads and returns the winner's row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed transfer store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) FindByIdempotencyKey(ctx context.Context, userID, key string) (*Transfer, error) {
	return p.queryOne(ctx, `
		SELECT id, user_id, from_account_id, to_account_id, amount::TEXT,
		       currency, status, idempotency_key, COALESCE(memo, ''), created_at
		FROM transfers WHERE user_id = $1 AND idempotency_key = $2
	`, userID, key)
}

func (p *PostgresStore) GetByUser(ctx context.Context, userID, id string) (*Transfer, error) {
	return p.queryOne(ctx, `
		SELECT id, user_id, from_account_id, to_account_id, amount::TEXT,
		       currency, status, idempotency_key, COALESCE(memo, ''), created_at
		FROM transfers WHERE user_id = $1 AND id = $2
	`, userID, id)
}

func (p *PostgresStore) queryOne(ctx context.Context, query string, args ...any) (*Transfer, error) {
	t := &Transfer{}
	err := p.db.QueryRowContext(ctx, query, args...).Scan(
		&t.ID, &t.UserID, &t.FromAccountID, &t.ToAccountID, &t.Amount,
		&t.Currency, &t.Status, &t.IdempotencyKey, &t.Memo, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTransferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query transfer: %w", err)
	}
	return t, nil
}

func (p *PostgresStore) CreateApproved(ctx context.Context, t *Transfer) (*CreateResult, error) {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin transfer tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Lock both account rows in id order.
	first, second := t.FromAccountID, t.ToAccountID
	if first > second {
		first, second = second, first
	}
	balances := make(map[string]string, 2)
	for _, id := range []string{first, second} {
		var balance string
		err := tx.QueryRowContext(ctx,
			`SELECT balance::TEXT FROM accounts WHERE id = $1 FOR UPDATE`, id,
		).Scan(&balance)
		if err == sql.ErrNoRows {
			return nil, account.ErrAccountNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("lock account %s: %w", id, err)
		}
		balances[id] = balance
	}

	// The service already checked funds, but only this read is under the
	// lock: two concurrent debits must not both pass on a stale balance.
	if money.Cmp(balances[t.FromAccountID], t.Amount) < 0 {
		return nil, ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transfers (id, user_id, from_account_id, to_account_id,
		                       amount, currency, status, idempotency_key, memo, created_at)
		VALUES ($1, $2, $3, $4, $5::NUMERIC(18,2), $6, $7, $8, NULLIF($9, ''), $10)
	`, t.ID, t.UserID, t.FromAccountID, t.ToAccountID, t.Amount,
		t.Currency, t.Status, t.IdempotencyKey, t.Memo, t.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			// Lost the idempotency race: abort and return the winner.
			_ = tx.Rollback()
			winner, ferr := p.FindByIdempotencyKey(ctx, t.UserID, t.IdempotencyKey)
			if ferr != nil {
				return nil, fmt.Errorf("re-read after idempotency conflict: %w", ferr)
			}
			return &CreateResult{Transfer: winner, Replayed: true}, nil
		}
		return nil, fmt.Errorf("insert transfer: %w", err)
	}

	var fromBalance, toBalance string
	err = tx.QueryRowContext(ctx, `
		UPDATE accounts SET balance = balance - $2::NUMERIC(18,2)
		WHERE id = $1 RETURNING balance::TEXT
	`, t.FromAccountID, t.Amount).Scan(&fromBalance)
	if err != nil {
		return nil, fmt.Errorf("debit account: %w", err)
	}
	err = tx.QueryRowContext(ctx, `
		UPDATE accounts SET balance = balance + $2::NUMERIC(18,2)
		WHERE id = $1 RETURNING balance::TEXT
	`, t.ToAccountID, t.Amount).Scan(&toBalance)
	if err != nil {
		return nil, fmt.Errorf("credit account: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, account_id, transfer_id, type, amount, balance, created_at)
		VALUES ($1, $3, $4, 'debit',  $5::NUMERIC(18,2), $6::NUMERIC(18,2), $9),
		       ($2, $7, $4, 'credit', $5::NUMERIC(18,2), $8::NUMERIC(18,2), $9)
	`, idgen.WithPrefix("led_"), idgen.WithPrefix("led_"),
		t.FromAccountID, t.ID, t.Amount, fromBalance, t.ToAccountID, toBalance, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert ledger entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transfer tx: %w", err)
	}

	cp := *t
	return &CreateResult{Transfer: &cp}, nil
}

func (p *PostgresStore) SearchByPrefix(ctx context.Context, userID, prefix string, limit int) ([]*Transfer, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, from_account_id, to_account_id, amount::TEXT,
		       currency, status, idempotency_key, COALESCE(memo, ''), created_at
		FROM transfers
		WHERE user_id = $1 AND id LIKE $2 || '%'
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("search transfers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Transfer
	for rows.Next() {
		t := &Transfer{}
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.FromAccountID, &t.ToAccountID, &t.Amount,
			&t.Currency, &t.Status, &t.IdempotencyKey, &t.Memo, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// WindowStats aggregates in the database so cost stays bounded as
// history grows; rows are never loaded and summed in process.
func (p *PostgresStore) WindowStats(ctx context.Context, userID string, since time.Time, status, currency string) (*WindowStats, error) {
	stats := &WindowStats{}
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)::NUMERIC(18,2)::TEXT
		FROM transfers
		WHERE user_id = $1 AND created_at >= $2 AND status = $3
		  AND ($4 = '' OR currency = $4)
	`, userID, since, status, currency).Scan(&stats.Count, &stats.Total)
	if err != nil {
		return nil, fmt.Errorf("window stats: %w", err)
	}
	return stats, nil
}

func (p *PostgresStore) EntriesByAccount(ctx context.Context, accountID string) ([]*LedgerEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, account_id, transfer_id, type, amount::TEXT, balance::TEXT, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*LedgerEntry
	for rows.Next() {
		e := &LedgerEntry{}
		if err := rows.Scan(&e.ID, &e.AccountID, &e.TransferID, &e.Type, &e.Amount, &e.Balance, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
