package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/minibank/core/internal/traces"
)

// Client calls the external scoring service over HTTP.
//
// The contract is narrow on purpose: POST {base}/risk/score with a
// Request, get back a Result. Timeouts, non-2xx statuses, and malformed
// bodies are all the same failure mode to the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a scoring client with a bounded per-call timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Score posts the request to the scoring service.
func (c *Client) Score(ctx context.Context, req *Request) (*Result, error) {
	ctx, span := traces.StartSpan(ctx, "risk.score",
		attribute.String("risk.user_id", req.UserID),
		attribute.Float64("risk.amount", req.Amount),
	)
	defer span.End()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/risk/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("score call failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return nil, fmt.Errorf("score call returned %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("decode score response: %w", err)
	}

	// Persisted scores must stay within the 0-100 contract.
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > maxScore {
		result.Score = maxScore
	}
	if result.Reasons == nil {
		result.Reasons = []string{}
	}

	span.SetAttributes(attribute.Int("risk.score", result.Score))
	return &result, nil
}
