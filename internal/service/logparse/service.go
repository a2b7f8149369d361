package logparse

import (
	"context"
	"log/slog"

	"github.com/txninsight/txn-insight-backend/internal/domain/errors"
	"github.com/txninsight/txn-insight-backend/internal/domain/logevent"
)

// Service parses raw log lines and summarizes parsed batches.
type Service interface {
	// Parse turns raw lines into structured events, one per line.
	Parse(ctx context.Context, lines []string) ([]logevent.Event, error)
	// Stats builds the statistics report over parsed events.
	Stats(ctx context.Context, events []logevent.Event) (*Stats, error)
}

type service struct {
	logger *slog.Logger
}

// NewService creates a log analysis service.
func NewService(logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{logger: logger}
}

func (s *service) Parse(ctx context.Context, lines []string) ([]logevent.Event, error) {
	if lines == nil {
		return nil, errors.ErrLinesNotList
	}
	events := ParseLines(lines)

	var unknown int
	for _, e := range events {
		if e.Level == logevent.LevelUnknown {
			unknown++
		}
	}
	s.logger.InfoContext(ctx, "log lines parsed", "lines", len(lines), "unmatched", unknown)

	return events, nil
}

func (s *service) Stats(ctx context.Context, events []logevent.Event) (*Stats, error) {
	if events == nil {
		return nil, errors.NewValidationError("INVALID_PARSED", "parsed must be an array")
	}
	stats := Compute(events)
	s.logger.InfoContext(ctx, "log stats computed",
		"events", stats.Counts.Total,
		"errors", stats.Counts.Error,
	)
	return stats, nil
}
