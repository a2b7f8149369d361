package anomaly

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

func TestHeuristicScore_Signals(t *testing.T) {
	tests := []struct {
		name      string
		record    record.Record
		avgAmount float64
		want      float64
	}{
		{
			name:      "empty record scores zero",
			record:    record.Record{},
			avgAmount: 100,
			want:      0,
		},
		{
			name:      "amount three times average",
			record:    record.Record{"amount": 400.0},
			avgAmount: 100,
			want:      0.3,
		},
		{
			name:      "amount double average",
			record:    record.Record{"amount": 250.0},
			avgAmount: 100,
			want:      0.2,
		},
		{
			name:      "amount slightly above average",
			record:    record.Record{"amount": 160.0},
			avgAmount: 100,
			want:      0.1,
		},
		{
			name:      "night transaction",
			record:    record.Record{"is_night": 1.0},
			avgAmount: 100,
			want:      0.2,
		},
		{
			name:      "log amount capped",
			record:    record.Record{"amount_log": 12.0},
			avgAmount: 0,
			want:      0.2,
		},
		{
			name:      "known fraud label",
			record:    record.Record{"is_fraud": 1.0},
			avgAmount: 100,
			want:      0.1,
		},
		{
			name:      "extreme feature",
			record:    record.Record{"V3": -4.2},
			avgAmount: 100,
			want:      0.01,
		},
		{
			name: "everything at once clamps to one",
			record: func() record.Record {
				r := record.Record{
					"amount":     1e9,
					"amount_log": 20.0,
					"is_night":   1.0,
					"is_fraud":   1.0,
				}
				for i := 1; i <= vectorWidth; i++ {
					r[fmt.Sprintf("V%d", i)] = 10.0
				}
				return r
			}(),
			avgAmount: 100,
			want:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heuristicScore(tt.record, tt.avgAmount, 0)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHeuristicScore_JitterAdds(t *testing.T) {
	r := record.Record{"amount": 400.0}
	base := heuristicScore(r, 100, 0)
	jittered := heuristicScore(r, 100, 0.05)
	assert.InDelta(t, base+0.05, jittered, 1e-9)
}

func TestExtremeFeatureScore_Capped(t *testing.T) {
	r := record.Record{}
	for i := 1; i <= vectorWidth; i++ {
		r[fmt.Sprintf("v%d", i)] = -5.0
	}
	// 28 hits at 0.01 each, capped at 0.2 by the caller
	assert.InDelta(t, 0.28, extremeFeatureScore(r), 1e-9)
	assert.InDelta(t, 0.2, heuristicScore(r, 0, 0), 1e-9)
}

func TestBatchAvgAmount(t *testing.T) {
	records := []record.Record{
		{"amount": 100.0},
		{"amount": 0.0},
		{},
	}
	assert.InDelta(t, 100.0/3, batchAvgAmount(records), 1e-9)
	assert.Zero(t, batchAvgAmount(nil))
}

func TestScoreBatch_HeuristicAlwaysInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	svc := NewService(nil, nil, WithRand(rand.New(rand.NewSource(2))))

	records := make([]record.Record, 1000)
	for i := range records {
		r := record.Record{
			"amount":     randomAmount(rng),
			"amount_log": rng.NormFloat64() * 10,
			"is_night":   float64(rng.Intn(2)),
			"is_fraud":   float64(rng.Intn(2)),
		}
		for j := 1; j <= vectorWidth; j++ {
			r[fmt.Sprintf("V%d", j)] = rng.NormFloat64() * 5
		}
		records[i] = r
	}

	result, err := svc.ScoreBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, result.Records, 1000)

	for i, r := range result.Records {
		score, ok := r.Float(record.FieldScore)
		require.True(t, ok, "record %d missing score", i)
		assert.False(t, math.IsNaN(score), "record %d score is NaN", i)
		assert.GreaterOrEqual(t, score, 0.0, "record %d", i)
		assert.LessOrEqual(t, score, 1.0, "record %d", i)
	}
}

// randomAmount covers the full input domain: negative, zero, tiny, and
// huge values.
func randomAmount(rng *rand.Rand) float64 {
	switch rng.Intn(4) {
	case 0:
		return -rng.Float64() * 1e6
	case 1:
		return 0
	case 2:
		return rng.Float64()
	default:
		return rng.Float64() * 1e9
	}
}
