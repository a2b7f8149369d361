package preprocess

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount coerces an arbitrary amount value to a finite, non-negative
// float. Strings are stripped to digits, '.', and '-' before parsing
// (currency symbols, thousands separators). Anything unparsable resolves
// to 0, never an error.
func ParseAmount(v any) float64 {
	switch n := v.(type) {
	case float64:
		return sanitizeAmount(n)
	case float32:
		return sanitizeAmount(float64(n))
	case int:
		return sanitizeAmount(float64(n))
	case int64:
		return sanitizeAmount(float64(n))
	case string:
		cleaned := stripNonNumeric(n)
		if cleaned == "" {
			return 0
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return 0
		}
		return sanitizeAmount(d.InexactFloat64())
	default:
		return 0
	}
}

// AmountLog is ln(1+amount) for positive amounts, 0 otherwise.
func AmountLog(amount float64) float64 {
	if amount > 0 {
		return math.Log1p(amount)
	}
	return 0
}

func sanitizeAmount(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
