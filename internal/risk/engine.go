package risk

import "context"

// Rule thresholds and weights. The score is additive and the reason tags
// are stable string codes consumed by dashboards; changing a tag is a
// breaking change for downstream filters.
const (
	largeAmountThreshold   = 500.0
	largeAmountPoints      = 30
	highFrequencyThreshold = 5
	highFrequencyPoints    = 25
	highTotalThreshold     = 1000.0
	highTotalPoints        = 20

	maxScore = 100
)

// Engine is a rule-based scorer. It exists so the sandbox endpoint and
// demo deployments work without the external scoring service, and it
// mirrors that service's published rules.
type Engine struct{}

// NewEngine creates a rule-based scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score evaluates the request against the additive rules. It never fails.
func (e *Engine) Score(ctx context.Context, req *Request) (*Result, error) {
	score := 0
	reasons := []string{}

	if req.Amount >= largeAmountThreshold {
		score += largeAmountPoints
		reasons = append(reasons, "large_amount")
	}
	if req.WindowCount >= highFrequencyThreshold {
		score += highFrequencyPoints
		reasons = append(reasons, "high_frequency")
	}
	if req.WindowTotal >= highTotalThreshold {
		score += highTotalPoints
		reasons = append(reasons, "high_total")
	}

	if score > maxScore {
		score = maxScore
	}
	return &Result{Score: score, Reasons: reasons}, nil
}
