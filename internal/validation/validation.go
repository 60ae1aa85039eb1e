// Package validation provides input validation helpers and middleware.
package validation

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxRequestSize is the maximum request body size (1MB)
const MaxRequestSize = 1 << 20

// MaxMemoLength caps the free-text memo on a transfer.
const MaxMemoLength = 280

var (
	// currencyRegex matches 3-letter ISO currency codes after normalization
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	// amountRegex matches positive decimal amounts like "10" or "10.00"
	amountRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	// idRegex matches the prefixed record ids issued by idgen
	idRegex = regexp.MustCompile(`^[a-z]+_[a-f0-9]{24}$`)
)

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// NormalizeCurrency trims, upper-cases, and validates a currency code.
func NormalizeCurrency(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, currencyRegex.MatchString(s)
}

// IsValidAmount checks that s is a well-formed non-negative decimal string.
func IsValidAmount(s string) bool {
	return amountRegex.MatchString(strings.TrimSpace(s))
}

// IsValidID checks that s looks like a record id issued by this service.
func IsValidID(s string) bool {
	return idRegex.MatchString(s)
}

// SanitizeString trims whitespace, strips null bytes, and caps length.
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.ReplaceAll(s, "\x00", "")
}
