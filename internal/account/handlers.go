package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minibank/core/internal/auth"
)

// Handler provides HTTP endpoints for accounts.
type Handler struct {
	store Store
}

// NewHandler creates a new account handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterProtectedRoutes sets up account routes.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/accounts", h.ListAccounts)
	r.GET("/accounts/:accountId", h.GetAccount)
}

// ListAccounts handles GET /api/accounts.
func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.store.ListByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list accounts",
		})
		return
	}
	if accounts == nil {
		accounts = []*Account{}
	}
	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// GetAccount handles GET /api/accounts/:accountId.
func (h *Handler) GetAccount(c *gin.Context) {
	a, err := h.store.Get(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Account not found",
		})
		return
	}
	if a.UserID != auth.UserID(c) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "Account belongs to another user",
		})
		return
	}
	c.JSON(http.StatusOK, a)
}
