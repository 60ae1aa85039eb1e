package transfer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minibank/core/internal/account"
	"github.com/minibank/core/internal/auth"
	"github.com/minibank/core/internal/risk"
	"github.com/minibank/core/internal/validation"
)

// Handler provides HTTP endpoints for transfers, ledgers, and stats.
type Handler struct {
	service *Service
}

// NewHandler creates a new transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes sets up transfer routes. All of them require
// an authenticated owner.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/transfers", h.CreateTransfer)
	r.GET("/transfers", h.SearchTransfers)
	r.GET("/transfers/:transferId", h.GetTransfer)
	r.GET("/stats/transfers/window", h.WindowStats)
	r.GET("/accounts/:accountId/ledger", h.AccountLedger)
}

// CreateRequest is the request body for creating a transfer.
type CreateRequest struct {
	FromAccountID string `json:"fromAccountId" binding:"required"`
	ToAccountID   string `json:"toAccountId" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Currency      string `json:"currency" binding:"required"`
	Memo          string `json:"memo"`
}

// transferResponse is the composed transfer + assessment payload shared
// by create, replay, and get.
type transferResponse struct {
	*Transfer
	RiskScore   int        `json:"riskScore"`
	RiskLevel   risk.Level `json:"riskLevel"`
	RiskReasons []string   `json:"riskReasons"`
	Replayed    bool       `json:"replayed"`
}

func outcomeResponse(out *Outcome) transferResponse {
	reasons := out.RiskReasons
	if reasons == nil {
		reasons = []string{}
	}
	return transferResponse{
		Transfer:    out.Transfer,
		RiskScore:   out.RiskScore,
		RiskLevel:   out.RiskLevel,
		RiskReasons: reasons,
		Replayed:    out.Replayed,
	}
}

// CreateTransfer handles POST /api/transfers.
//
// The idempotency key travels in the Idempotency-Key header. A replay of
// a previously accepted request returns 200 with the original row; a
// fresh create returns 201.
func (h *Handler) CreateTransfer(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
		return
	}

	currency, ok := validation.NormalizeCurrency(req.Currency)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_currency",
			"message": "Currency must be a 3-letter code",
		})
		return
	}
	if !validation.IsValidAmount(req.Amount) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_amount",
			"message": "Amount must be a positive decimal",
		})
		return
	}

	out, err := h.service.CreateTransfer(c.Request.Context(), CreateInput{
		UserID:         auth.UserID(c),
		FromAccountID:  req.FromAccountID,
		ToAccountID:    req.ToAccountID,
		Amount:         req.Amount,
		Currency:       currency,
		Memo:           validation.SanitizeString(req.Memo, validation.MaxMemoLength),
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, outcomeResponse(out))
}

// GetTransfer handles GET /api/transfers/:transferId.
func (h *Handler) GetTransfer(c *gin.Context) {
	out, err := h.service.GetWithRisk(c.Request.Context(), auth.UserID(c), c.Param("transferId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcomeResponse(out))
}

// SearchTransfers handles GET /api/transfers?prefix=trf_ab&limit=10.
func (h *Handler) SearchTransfers(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	transfers, err := h.service.SearchByPrefix(c.Request.Context(), auth.UserID(c), c.Query("prefix"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if transfers == nil {
		transfers = []*Transfer{}
	}
	c.JSON(http.StatusOK, gin.H{
		"transfers": transfers,
		"count":     len(transfers),
	})
}

// WindowStats handles GET /api/stats/transfers/window?currency=CAD.
func (h *Handler) WindowStats(c *gin.Context) {
	currency := ""
	if q := c.Query("currency"); q != "" {
		normalized, ok := validation.NormalizeCurrency(q)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_currency",
				"message": "Currency must be a 3-letter code",
			})
			return
		}
		currency = normalized
	}

	stats, err := h.service.Last24h(c.Request.Context(), auth.UserID(c), currency)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AccountLedger handles GET /api/accounts/:accountId/ledger.
func (h *Handler) AccountLedger(c *gin.Context) {
	entries, err := h.service.Ledger(c.Request.Context(), auth.UserID(c), c.Param("accountId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if entries == nil {
		entries = []*LedgerEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// writeError maps service errors onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingIdempotencyKey):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_idempotency_key",
			"message": "Idempotency-Key header is required",
		})
	case errors.Is(err, ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_amount",
			"message": "Amount must be a positive decimal",
		})
	case errors.Is(err, ErrInvalidAccounts):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_accounts",
			"message": "Source and destination accounts must differ",
		})
	case errors.Is(err, ErrCurrencyMismatch):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "currency_mismatch",
			"message": "Both accounts must match the transfer currency",
		})
	case errors.Is(err, ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "insufficient_funds",
			"message": "Source account balance cannot cover the transfer",
		})
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Accounts must belong to the authenticated user",
		})
	case errors.Is(err, account.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Account not found",
		})
	case errors.Is(err, ErrTransferNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Transfer not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Transfer processing failed",
		})
	}
}
