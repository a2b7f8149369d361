package preprocess

import (
	"context"
	"log/slog"

	"github.com/txninsight/txn-insight-backend/internal/domain/errors"
	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

// Service runs the normalization, feature extraction, and aggregation
// stages over one batch. Stateless; safe for concurrent callers as long
// as each call owns its batch.
type service struct {
	logger *slog.Logger
}

// Service is the preprocessing pipeline interface.
type Service interface {
	Preprocess(ctx context.Context, records []record.Record) (*Result, error)
}

// NewService creates a new preprocessing service.
func NewService(logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{logger: logger}
}

// Preprocess normalizes column names, derives the feature set, and
// computes the summary snapshot plus entity rollups. The input batch is
// never mutated; parse failures of individual fields resolve to documented
// defaults and never abort the run.
func (s *service) Preprocess(ctx context.Context, records []record.Record) (*Result, error) {
	if records == nil {
		return nil, errors.ErrRecordsNotList
	}

	enriched := EnrichBatch(records)
	summary := Summarize(enriched)

	result := &Result{
		Records: enriched,
		Summary: summary,
	}
	if userStats := UserStats(enriched); len(userStats) > 0 {
		result.UserStats = userStats
	}
	if merchantStats := MerchantStats(enriched); len(merchantStats) > 0 {
		result.MerchantStats = merchantStats
	}

	s.logger.InfoContext(ctx, "batch preprocessed",
		"records", summary.TotalCount,
		"fraud", summary.FraudCount,
		"night", summary.NightCount,
	)

	return result, nil
}
