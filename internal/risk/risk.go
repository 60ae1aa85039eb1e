// Package risk scores transfers and records the resulting assessments.
//
// Scoring is advisory: an assessment explains a transfer after the fact
// and never blocks or reverses it. The score comes from an external
// scoring service when one is configured, with a built-in rule engine
// as the sandbox/demo fallback. When the scorer fails for any reason the
// caller substitutes a zero score ("fail-open").
package risk

import (
	"context"
	"errors"
	"time"
)

var ErrAssessmentNotFound = errors.New("risk assessment not found")

// Level is the severity band derived from a score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Classify maps a 0-100 score to a severity band.
// Pure function: score >= 70 is high, 40-69 medium, below 40 low.
func Classify(score int) Level {
	switch {
	case score >= 70:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Assessment is the persisted outcome of scoring one transfer.
// At most one exists per transfer.
type Assessment struct {
	ID         string    `json:"id"`
	TransferID string    `json:"transferId"`
	Score      int       `json:"riskScore"`
	Level      Level     `json:"level"`
	Reasons    []string  `json:"reasons"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Request carries the signals a scorer evaluates. Field names follow the
// scoring service's wire contract; the window figures are the owner's
// trailing-24h approved transfer count and total.
type Request struct {
	UserID        string    `json:"userId"`
	FromAccountID string    `json:"fromAccountId"`
	ToAccountID   string    `json:"toAccountId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
	WindowCount   int       `json:"last24hTransferCount"`
	WindowTotal   float64   `json:"last24hTransferTotal"`
}

// Result is a scorer's verdict: a 0-100 score plus stable reason tags.
type Result struct {
	Score   int      `json:"riskScore"`
	Reasons []string `json:"reasons"`
}

// Scorer produces a score for a request, or fails.
type Scorer interface {
	Score(ctx context.Context, req *Request) (*Result, error)
}

// Store persists assessments.
type Store interface {
	Save(ctx context.Context, a *Assessment) error
	GetByTransfer(ctx context.Context, transferID string) (*Assessment, error)
}
