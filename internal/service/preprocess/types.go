package preprocess

import "github.com/txninsight/txn-insight-backend/internal/domain/record"

// TimeSchema discriminates how a record's time field was interpreted.
type TimeSchema string

const (
	// SchemaElapsed covers datasets whose time column counts seconds since
	// the first row. Hour buckets wrap cyclically over multi-day spans and
	// do not correspond to wall-clock time of day.
	SchemaElapsed TimeSchema = "elapsed"
	// SchemaWallClock covers records carrying a parseable timestamp.
	SchemaWallClock TimeSchema = "wall_clock"
	// SchemaNone means no usable time field was found; time-derived
	// features are absent on the record.
	SchemaNone TimeSchema = "none"
)

// HourStat is the per-hour slice of the summary distribution.
type HourStat struct {
	Total int `json:"total"`
	Fraud int `json:"fraud"`
}

// SummaryStats is a full aggregate snapshot over one preprocessed batch.
// Recomputed from scratch on every call, never mutated incrementally.
// Amount min/max/median are taken over positive amounts only; the mean is
// over all records.
type SummaryStats struct {
	TotalCount     int              `json:"totalCount"`
	FraudCount     int              `json:"fraudCount"`
	NormalCount    int              `json:"normalCount"`
	AvgAmount      float64          `json:"avgAmount"`
	MedianAmount   float64          `json:"medianAmount"`
	MaxAmount      float64          `json:"maxAmount"`
	MinAmount      float64          `json:"minAmount"`
	NightCount     int              `json:"nightCount"`
	NightRatio     float64          `json:"nightRatio"`
	FraudRatio     float64          `json:"fraudRatio"`
	AvgFraudAmount *float64         `json:"avgFraudAmount,omitempty"`
	HourDistribution map[int]*HourStat `json:"hourDistribution"`
	FeatureMeans   map[string]float64 `json:"featureMeans,omitempty"`
}

// EntityRollup aggregates one user or merchant.
type EntityRollup struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
	AvgAmount   float64 `json:"avgAmount"`
	MaxAmount   float64 `json:"maxAmount"`
	MinAmount   float64 `json:"minAmount"`
	FailCount   int     `json:"failCount"`
	FailRate    float64 `json:"failRate"`
}

// Result is the output of one preprocessing run.
type Result struct {
	Records       []record.Record          `json:"cleanDataframe"`
	Summary       *SummaryStats            `json:"summaryStats"`
	UserStats     map[string]*EntityRollup `json:"userStats,omitempty"`
	MerchantStats map[string]*EntityRollup `json:"merchantStats,omitempty"`
}
