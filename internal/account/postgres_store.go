package account

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store with PostgreSQL. Balance columns are
// NUMERIC(18,2); scanning into a string keeps full precision.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed account store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Account, error) {
	a := &Account{}
	err := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, currency, balance::TEXT, created_at
		FROM accounts WHERE id = $1
	`, id).Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Currency, &a.Balance, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	return a, nil
}

func (p *PostgresStore) ListByUser(ctx context.Context, userID string) ([]*Account, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, currency, balance::TEXT, created_at
		FROM accounts WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Account
	for rows.Next() {
		a := &Account{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Currency, &a.Balance, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Create(ctx context.Context, a *Account) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, currency, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::NUMERIC(18,2), $7)
	`, a.ID, a.UserID, a.Name, a.Type, a.Currency, a.Balance, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}
