package risk

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore implements Store with PostgreSQL. Reason tags are stored
// as a JSON array in a TEXT column.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed assessment store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Save(ctx context.Context, a *Assessment) error {
	reasons := a.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	reasonsJSON, err := json.Marshal(reasons)
	if err != nil {
		reasonsJSON = []byte("[]")
	}

	// ON CONFLICT DO NOTHING upholds the one-assessment-per-transfer
	// invariant under concurrent replays.
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO risk_assessments (id, transfer_id, risk_score, level, reasons_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (transfer_id) DO NOTHING
	`, a.ID, a.TransferID, a.Score, string(a.Level), string(reasonsJSON), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (p *PostgresStore) GetByTransfer(ctx context.Context, transferID string) (*Assessment, error) {
	a := &Assessment{}
	var level, reasonsJSON string
	err := p.db.QueryRowContext(ctx, `
		SELECT id, transfer_id, risk_score, level, reasons_json, created_at
		FROM risk_assessments WHERE transfer_id = $1
	`, transferID).Scan(&a.ID, &a.TransferID, &a.Score, &level, &reasonsJSON, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query assessment: %w", err)
	}

	a.Level = Level(level)
	if err := json.Unmarshal([]byte(reasonsJSON), &a.Reasons); err != nil {
		a.Reasons = []string{}
	}
	if a.Reasons == nil {
		a.Reasons = []string{}
	}
	return a, nil
}
