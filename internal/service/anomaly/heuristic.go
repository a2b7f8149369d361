package anomaly

import (
	"fmt"
	"math"

	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

// heuristicScore combines independent capped signals into a [0,1] score.
// The jitter argument is the caller's random draw in [0, jitterMax);
// passing it in keeps the combination itself deterministic and testable.
func heuristicScore(r record.Record, avgAmount, jitter float64) float64 {
	var score float64

	amount, _ := r.Float(record.FieldAmount)
	if amount > 0 && avgAmount > 0 {
		switch ratio := amount / avgAmount; {
		case ratio > amountRatioHigh:
			score += amountRatioHighScore
		case ratio > amountRatioMid:
			score += amountRatioMidScore
		case ratio > amountRatioLow:
			score += amountRatioLowScore
		}
	}

	if r.Flag(record.FieldIsNight) {
		score += nightScore
	}

	if amountLog, ok := r.Float(record.FieldAmountLog); ok && amountLog > 0 {
		score += math.Min(amountLog/logAmountDivisor, logAmountCap)
	}

	score += math.Min(extremeFeatureScore(r), extremeFeatureCap)

	if r.Flag(record.FieldIsFraud) {
		score += knownLabelBonus
	}

	score += jitter

	return math.Max(0, math.Min(score, 1))
}

// extremeFeatureScore counts PCA features whose magnitude exceeds the
// threshold, a fixed increment each.
func extremeFeatureScore(r record.Record) float64 {
	var score float64
	for i := 1; i <= vectorWidth; i++ {
		v := featureValue(r, i)
		if math.Abs(v) > extremeFeatureThreshold {
			score += extremeFeatureIncrement
		}
	}
	return score
}

// featureValue reads the i-th PCA column under its raw or normalized name.
func featureValue(r record.Record, i int) float64 {
	if v, ok := r.Float(fmt.Sprintf("V%d", i)); ok {
		return v
	}
	v, _ := r.Float(fmt.Sprintf("v%d", i))
	return v
}

// batchAvgAmount is the plain mean over all records, zero amounts
// included.
func batchAvgAmount(records []record.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		amount, _ := r.Float(record.FieldAmount)
		sum += amount
	}
	return sum / float64(len(records))
}
