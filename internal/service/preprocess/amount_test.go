package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"plain float", 149.62, 149.62},
		{"integer", 200, 200},
		{"numeric string", "1500", 1500},
		{"currency symbols stripped", "₩1,500.50", 1500.5},
		{"dollar prefix", "$99.99", 99.99},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"negative clamps to zero", -42.0, 0},
		{"negative string clamps to zero", "-42", 0},
		{"nan clamps to zero", math.NaN(), 0},
		{"inf clamps to zero", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.input))
		})
	}
}

func TestAmountLog(t *testing.T) {
	assert.Equal(t, 0.0, AmountLog(0))
	assert.Equal(t, 0.0, AmountLog(-1))
	assert.InDelta(t, math.Log1p(100), AmountLog(100), 1e-12)
}
