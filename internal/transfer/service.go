package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/minibank/core/internal/account"
	"github.com/minibank/core/internal/idgen"
	"github.com/minibank/core/internal/metrics"
	"github.com/minibank/core/internal/money"
	"github.com/minibank/core/internal/risk"
	"github.com/minibank/core/internal/traces"
)

// Window is the trailing period aggregated for risk scoring.
const Window = 24 * time.Hour

// Service orchestrates transfer creation.
type Service struct {
	accounts account.Store
	store    Store
	risks    risk.Store
	scorer   risk.Scorer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a transfer service.
func NewService(accounts account.Store, store Store, risks risk.Store, scorer risk.Scorer, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		store:    store,
		risks:    risks,
		scorer:   scorer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock (for tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput carries one create-transfer request. The owner identity is
// passed explicitly by the request layer; the core resolves nothing
// ambient.
type CreateInput struct {
	UserID         string
	FromAccountID  string
	ToAccountID    string
	Amount         string
	Currency       string
	Memo           string
	IdempotencyKey string
}

// Outcome is the composed result: the transfer plus its advisory risk
// assessment. Replayed marks idempotent replays of an earlier request.
type Outcome struct {
	Transfer    *Transfer
	RiskScore   int
	RiskLevel   risk.Level
	RiskReasons []string
	Replayed    bool
}

// CreateTransfer validates, commits the financial write, then scores and
// records the advisory assessment.
//
// Order of checks matters: the idempotency lookup runs before amount
// validation so a replay of a previously accepted request always returns
// the original row, and every validation failure happens before any
// mutation. Steps after the commit (window stats, scoring, assessment)
// are best-effort and can never undo it.
func (s *Service) CreateTransfer(ctx context.Context, in CreateInput) (*Outcome, error) {
	ctx, span := traces.StartSpan(ctx, "transfer.create")
	defer span.End()

	if in.IdempotencyKey == "" {
		return nil, ErrMissingIdempotencyKey
	}

	existing, err := s.store.FindByIdempotencyKey(ctx, in.UserID, in.IdempotencyKey)
	if err == nil {
		return s.replayOutcome(ctx, existing)
	}
	if !errors.Is(err, ErrTransferNotFound) {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	amt, ok := money.Parse(in.Amount)
	if !ok || amt.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.FromAccountID == in.ToAccountID {
		return nil, ErrInvalidAccounts
	}

	from, err := s.accounts.Get(ctx, in.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accounts.Get(ctx, in.ToAccountID)
	if err != nil {
		return nil, err
	}

	if from.UserID != in.UserID || to.UserID != in.UserID {
		return nil, ErrUnauthorized
	}
	if from.Currency != in.Currency || to.Currency != in.Currency {
		return nil, ErrCurrencyMismatch
	}
	if money.Cmp(from.Balance, in.Amount) < 0 {
		return nil, ErrInsufficientFunds
	}

	t := &Transfer{
		ID:             idgen.WithPrefix("trf_"),
		UserID:         in.UserID,
		FromAccountID:  in.FromAccountID,
		ToAccountID:    in.ToAccountID,
		Amount:         money.Format(amt),
		Currency:       in.Currency,
		Status:         StatusApproved,
		IdempotencyKey: in.IdempotencyKey,
		Memo:           in.Memo,
		CreatedAt:      s.now().UTC(),
	}

	res, err := s.store.CreateApproved(ctx, t)
	if err != nil {
		return nil, err
	}
	if res.Replayed {
		// A concurrent request with the same key won the insert race.
		return s.replayOutcome(ctx, res.Transfer)
	}

	span.SetAttributes(traces.TransferID(t.ID), traces.Currency(t.Currency))
	metrics.TransfersTotal.WithLabelValues(t.Status).Inc()

	outcome := &Outcome{Transfer: res.Transfer}
	s.assess(ctx, res.Transfer, outcome)
	return outcome, nil
}

// assess runs the post-commit advisory path: window stats, the scoring
// call, and the assessment write. Failures here are logged and absorbed;
// the financial write already committed.
func (s *Service) assess(ctx context.Context, t *Transfer, out *Outcome) {
	stats, err := s.store.WindowStats(ctx, t.UserID, s.now().UTC().Add(-Window), StatusApproved, t.Currency)
	if err != nil {
		s.logger.Warn("window stats failed, scoring with empty window",
			"transfer_id", t.ID, "error", err)
		stats = &WindowStats{Total: "0.00"}
	}

	result, err := s.scorer.Score(ctx, &risk.Request{
		UserID:        t.UserID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        money.Float(t.Amount),
		Currency:      t.Currency,
		Timestamp:     t.CreatedAt,
		WindowCount:   stats.Count,
		WindowTotal:   money.Float(stats.Total),
	})
	if err != nil {
		// Fail-open: the transfer stays approved with a zero score.
		s.logger.Warn("risk scoring failed, defaulting to score 0",
			"transfer_id", t.ID, "error", err)
		metrics.RiskCallsTotal.WithLabelValues("error").Inc()
		result = &risk.Result{Score: 0, Reasons: []string{}}
	} else {
		metrics.RiskCallsTotal.WithLabelValues("ok").Inc()
	}

	level := risk.Classify(result.Score)
	metrics.RiskScore.Observe(float64(result.Score))

	assessment := &risk.Assessment{
		ID:         idgen.WithPrefix("risk_"),
		TransferID: t.ID,
		Score:      result.Score,
		Level:      level,
		Reasons:    result.Reasons,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.risks.Save(ctx, assessment); err != nil {
		s.logger.Warn("risk assessment persist failed",
			"transfer_id", t.ID, "error", err)
	}

	out.RiskScore = result.Score
	out.RiskLevel = level
	out.RiskReasons = result.Reasons
}

// replayOutcome composes the response for an idempotent replay from the
// stored transfer and its assessment. No ledger entries are written, no
// balances change, and the scorer is not called again.
func (s *Service) replayOutcome(ctx context.Context, t *Transfer) (*Outcome, error) {
	out := &Outcome{
		Transfer:    t,
		RiskLevel:   risk.LevelLow,
		RiskReasons: []string{},
		Replayed:    true,
	}
	a, err := s.risks.GetByTransfer(ctx, t.ID)
	if err == nil {
		out.RiskScore = a.Score
		out.RiskLevel = a.Level
		out.RiskReasons = a.Reasons
	} else if !errors.Is(err, risk.ErrAssessmentNotFound) {
		s.logger.Warn("assessment lookup failed on replay",
			"transfer_id", t.ID, "error", err)
	}
	return out, nil
}

// GetWithRisk returns one of the owner's transfers with its assessment.
func (s *Service) GetWithRisk(ctx context.Context, userID, transferID string) (*Outcome, error) {
	t, err := s.store.GetByUser(ctx, userID, transferID)
	if err != nil {
		return nil, err
	}
	out, err := s.replayOutcome(ctx, t)
	if err != nil {
		return nil, err
	}
	out.Replayed = false
	return out, nil
}

// SearchByPrefix returns the owner's most recent transfers whose id
// starts with prefix.
func (s *Service) SearchByPrefix(ctx context.Context, userID, prefix string, limit int) ([]*Transfer, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.store.SearchByPrefix(ctx, userID, prefix, limit)
}

// Last24h aggregates the owner's approved transfers over the trailing
// window. Currency may be empty to aggregate across all currencies.
func (s *Service) Last24h(ctx context.Context, userID, currency string) (*WindowStats, error) {
	since := s.now().UTC().Add(-Window)
	stats, err := s.store.WindowStats(ctx, userID, since, StatusApproved, currency)
	if err != nil {
		return nil, err
	}
	stats.Since = since
	stats.Currency = currency
	return stats, nil
}

// Ledger returns an account's ledger entries, newest first.
func (s *Service) Ledger(ctx context.Context, userID, accountID string) ([]*LedgerEntry, error) {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrUnauthorized
	}
	return s.store.EntriesByAccount(ctx, accountID)
}
