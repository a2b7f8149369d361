package anomaly

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/txninsight/txn-insight-backend/internal/domain/errors"
	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

// service implements Service. With a nil client the heuristic path is
// used unconditionally.
type service struct {
	client ModelClient
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures the service.
type Option func(*service)

// WithRand overrides the jitter source; tests use a fixed seed.
func WithRand(rng *rand.Rand) Option {
	return func(s *service) { s.rng = rng }
}

// NewService creates an anomaly scoring service. client may be nil when
// no model endpoint is configured.
func NewService(client ModelClient, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &service{
		client: client,
		logger: logger,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreBatch scores the batch through the model when one is configured,
// falling back to the heuristic on any model failure. One attempt, no
// retry; the batch is never split across the two paths.
func (s *service) ScoreBatch(ctx context.Context, records []record.Record) (*Result, error) {
	if records == nil {
		return nil, errors.ErrRecordsNotList
	}

	if s.client != nil {
		scores, err := s.client.Score(ctx, buildVectors(records))
		if err == nil {
			s.logger.InfoContext(ctx, "model scores attached", "records", len(records))
			return &Result{
				Records: attachScores(records, scores),
				Source:  SourceModel,
			}, nil
		}
		s.logger.WarnContext(ctx, "model service unavailable, using heuristic scores", "error", err)
	}

	return &Result{
		Records: s.scoreHeuristic(records),
		Source:  SourceHeuristic,
		Warning: "model service unavailable, using heuristic scores",
	}, nil
}

// buildVectors assembles the fixed-width model input: V1..V28 plus the
// raw amount. Missing features are sent as zero.
func buildVectors(records []record.Record) []map[string]float64 {
	vectors := make([]map[string]float64, len(records))
	for i, r := range records {
		data := make(map[string]float64, vectorWidth+1)
		for j := 1; j <= vectorWidth; j++ {
			data[fmt.Sprintf("V%d", j)] = featureValue(r, j)
		}
		data["Amount"] = recordAmount(r)
		vectors[i] = data
	}
	return vectors
}

// attachScores zips model scores onto cloned records in input order.
// A short score array pads with zero.
func attachScores(records []record.Record, scores []float64) []record.Record {
	out := record.CloneBatch(records)
	for i, r := range out {
		var score float64
		if i < len(scores) {
			score = scores[i]
		}
		r[record.FieldScore] = score
	}
	return out
}

func (s *service) scoreHeuristic(records []record.Record) []record.Record {
	avgAmount := batchAvgAmount(records)
	out := record.CloneBatch(records)
	for _, r := range out {
		r[record.FieldScore] = heuristicScore(r, avgAmount, s.jitter())
	}
	return out
}

// jitter draws from [0, jitterMax) under a lock; math/rand sources are
// not safe for concurrent use.
func (s *service) jitter() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * jitterMax
}

// recordAmount prefers the raw Amount column, then the normalized field.
func recordAmount(r record.Record) float64 {
	if v, ok := r.Float("Amount"); ok {
		return v
	}
	v, _ := r.Float(record.FieldAmount)
	return v
}
