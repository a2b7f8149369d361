package preprocess

import (
	"fmt"
	"sort"

	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

// vFeatureMeanCount is how many leading PCA feature columns get their mean
// reported in the summary.
const vFeatureMeanCount = 3

// Summarize computes the full summary snapshot over an enriched batch.
// An empty batch yields zero counts and zero ratios, never NaN.
func Summarize(records []record.Record) *SummaryStats {
	stats := &SummaryStats{
		HourDistribution: make(map[int]*HourStat),
	}

	totalCount := len(records)
	stats.TotalCount = totalCount
	if totalCount == 0 {
		return stats
	}

	var (
		amountSum      float64
		positive       []float64
		fraudAmountSum float64
	)

	for _, r := range records {
		amount, _ := r.Float(record.FieldAmount)
		amountSum += amount
		if amount > 0 {
			positive = append(positive, amount)
		}

		fraud := r.Flag(record.FieldIsFraud)
		if fraud {
			stats.FraudCount++
			fraudAmountSum += amount
		}
		if r.Flag(record.FieldIsNight) {
			stats.NightCount++
		}

		if hour, ok := recordHour(r); ok {
			slot := stats.HourDistribution[hour]
			if slot == nil {
				slot = &HourStat{}
				stats.HourDistribution[hour] = slot
			}
			slot.Total++
			if fraud {
				slot.Fraud++
			}
		}
	}

	stats.NormalCount = totalCount - stats.FraudCount
	stats.AvgAmount = amountSum / float64(totalCount)
	stats.NightRatio = float64(stats.NightCount) / float64(totalCount)
	stats.FraudRatio = float64(stats.FraudCount) / float64(totalCount)

	if len(positive) > 0 {
		sort.Float64s(positive)
		// Lower-middle median on even-sized sets; kept as a floor-index
		// selection rather than interpolation.
		stats.MedianAmount = positive[len(positive)/2]
		stats.MinAmount = positive[0]
		stats.MaxAmount = positive[len(positive)-1]
	}

	if stats.FraudCount > 0 {
		avgFraud := fraudAmountSum / float64(stats.FraudCount)
		stats.AvgFraudAmount = &avgFraud
	}

	stats.FeatureMeans = featureMeans(records, totalCount)

	return stats
}

// recordHour reads the hour slot for the distribution: the cyclic elapsed
// bucket when present, otherwise the wall-clock hour. Records without
// either are skipped.
func recordHour(r record.Record) (int, bool) {
	if v, ok := r.Float(record.FieldHourBucket); ok {
		return int(v), true
	}
	if v, ok := r.Float(record.FieldHour); ok {
		return int(v), true
	}
	return 0, false
}

// featureMeans averages the leading PCA columns when the batch carries
// them. Absent columns count as zero, matching the source behavior.
func featureMeans(records []record.Record, totalCount int) map[string]float64 {
	means := make(map[string]float64, vFeatureMeanCount)
	found := false
	for i := 1; i <= vFeatureMeanCount; i++ {
		upper := fmt.Sprintf("V%d", i)
		lower := fmt.Sprintf("v%d", i)
		var sum float64
		for _, r := range records {
			if v, ok := r.Float(upper); ok {
				sum += v
				found = true
			} else if v, ok := r.Float(lower); ok {
				sum += v
				found = true
			}
		}
		means[lower] = sum / float64(totalCount)
	}
	if !found {
		return nil
	}
	return means
}
