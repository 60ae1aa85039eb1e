package risk

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minibank/core/internal/idgen"
	"github.com/minibank/core/internal/logging"
	"github.com/minibank/core/internal/validation"
)

// Handler provides the scoring sandbox endpoint: score a hypothetical
// transfer without creating one. Dashboards use it to explain the rules.
type Handler struct {
	scorer Scorer
}

// NewHandler creates a new risk handler.
func NewHandler(scorer Scorer) *Handler {
	return &Handler{scorer: scorer}
}

// RegisterRoutes sets up risk routes on the given group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/risk/score", h.Sandbox)
}

// SandboxRequest is the request body for POST /risk/score.
type SandboxRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency" binding:"required"`
}

// Sandbox handles POST /risk/score. The request is scored against
// synthetic identifiers and an empty activity window.
func (h *Handler) Sandbox(c *gin.Context) {
	var req SandboxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}
	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_amount",
			"message": "Amount must not be negative",
		})
		return
	}
	currency, ok := validation.NormalizeCurrency(req.Currency)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_currency",
			"message": "Currency must be a 3-letter ISO code (e.g. CAD)",
		})
		return
	}

	result, err := h.scorer.Score(c.Request.Context(), &Request{
		UserID:        "sandbox",
		FromAccountID: idgen.New(),
		ToAccountID:   idgen.New(),
		Amount:        req.Amount,
		Currency:      currency,
		Timestamp:     time.Now().UTC(),
	})
	if err != nil {
		logging.L(c.Request.Context()).Warn("sandbox score failed", "error", err)
		result = &Result{Score: 0, Reasons: []string{}}
	}

	c.JSON(http.StatusOK, result)
}
