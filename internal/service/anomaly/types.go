package anomaly

import "github.com/txninsight/txn-insight-backend/internal/domain/record"

// ScoreSource tells which path produced a batch's scores.
type ScoreSource string

const (
	SourceModel     ScoreSource = "model"
	SourceHeuristic ScoreSource = "heuristic"
)

// vectorWidth is the number of PCA feature columns sent to the model,
// V1 through V28, alongside the raw amount.
const vectorWidth = 28

// Heuristic scoring constants. Each contribution is independent and
// capped; the final score is clamped to [0,1].
const (
	amountRatioLow       = 1.5
	amountRatioMid       = 2.0
	amountRatioHigh      = 3.0
	amountRatioLowScore  = 0.1
	amountRatioMidScore  = 0.2
	amountRatioHighScore = 0.3

	nightScore = 0.2

	logAmountDivisor = 15.0
	logAmountCap     = 0.2

	extremeFeatureThreshold = 3.0
	extremeFeatureIncrement = 0.01
	extremeFeatureCap       = 0.2

	knownLabelBonus = 0.1

	jitterMax = 0.1
)

// Result carries the scored batch and which path scored it. Warning is
// set only when the model was unavailable and the heuristic stood in.
type Result struct {
	Records []record.Record `json:"records"`
	Source  ScoreSource     `json:"source"`
	Warning string          `json:"warning,omitempty"`
}
