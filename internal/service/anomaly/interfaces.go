package anomaly

import (
	"context"

	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

// ModelClient scores a batch of feature vectors through the external
// anomaly model. Implementations must bound the call with their own
// timeout; any transport error, timeout, or non-2xx response surfaces as
// an error and the caller falls back to heuristic scoring.
type ModelClient interface {
	Score(ctx context.Context, vectors []map[string]float64) ([]float64, error)
}

// Service scores record batches.
type Service interface {
	// ScoreBatch attaches an anomaly_score in [0,1] to every record.
	// The whole batch is scored by exactly one path: a single model
	// attempt, then heuristic fallback. Never returns an error for
	// model unavailability.
	ScoreBatch(ctx context.Context, records []record.Record) (*Result, error)
}
