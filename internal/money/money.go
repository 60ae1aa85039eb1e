// Package money provides shared decimal amount parsing and formatting.
//
// Amounts travel as decimal strings with 2 decimal places and are
// computed on as big.Int cents (1.50 = 150). Floats never enter balance
// arithmetic; the only float conversion is for the scoring wire format.
package money

import (
	"math/big"
	"strconv"
	"strings"
)

const Decimals = 2

// Parse converts a decimal string (e.g. "1.50") to its cent big.Int
// representation (150). Returns (nil, false) on invalid input.
//
// Rules:
//   - Empty string returns (0, true)
//   - Negative amounts are rejected
//   - Multiple decimal points are rejected
//   - Fractional parts are padded/truncated to 2 decimal places
func Parse(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return big.NewInt(0), true
	}

	if strings.HasPrefix(s, "-") {
		return nil, false
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, false
	}
	whole := parts[0]
	frac := ""
	if len(parts) > 1 {
		frac = parts[1]
	}
	if whole == "" && frac == "" {
		return nil, false
	}
	if whole == "" {
		whole = "0"
	}

	// Pad or trim to 2 decimals
	for len(frac) < Decimals {
		frac += "0"
	}
	frac = frac[:Decimals]

	combined := whole + frac
	result, ok := new(big.Int).SetString(combined, 10)
	return result, ok
}

// Format converts a cent big.Int to a decimal string with exactly 2
// decimal places (e.g. "1.50").
func Format(amount *big.Int) string {
	if amount == nil {
		return "0.00"
	}
	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)
	s := abs.String()
	for len(s) < Decimals+1 {
		s = "0" + s
	}
	decimal := len(s) - Decimals
	result := s[:decimal] + "." + s[decimal:]
	if neg {
		result = "-" + result
	}
	return result
}

// IsPositive reports whether s parses to an amount greater than zero.
func IsPositive(s string) bool {
	amt, ok := Parse(s)
	return ok && amt.Sign() > 0
}

// Cmp compares two decimal strings. Unparseable operands compare as
// zero. Returns -1, 0, or 1.
func Cmp(a, b string) int {
	av, ok := Parse(a)
	if !ok {
		av = big.NewInt(0)
	}
	bv, ok := Parse(b)
	if !ok {
		bv = big.NewInt(0)
	}
	return av.Cmp(bv)
}

// Add returns a+b as a formatted decimal string. Unparseable operands
// count as zero.
func Add(a, b string) string {
	return Format(new(big.Int).Add(parseOrZero(a), parseOrZero(b)))
}

// Sub returns a-b as a formatted decimal string. Unparseable operands
// count as zero.
func Sub(a, b string) string {
	return Format(new(big.Int).Sub(parseOrZero(a), parseOrZero(b)))
}

func parseOrZero(s string) *big.Int {
	v, ok := Parse(s)
	if !ok {
		return big.NewInt(0)
	}
	return v
}

// Float converts a decimal string to a float64 for wire formats that
// demand numbers. Never use the result for balance arithmetic.
func Float(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
