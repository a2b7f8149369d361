package preprocess

import "github.com/txninsight/txn-insight-backend/internal/domain/record"

// EntityStats builds per-entity rollups keyed on the given id field, in a
// single pass. Rows with a missing or empty id are skipped entirely; no
// placeholder bucket is created for them.
func EntityStats(records []record.Record, idField string) map[string]*EntityRollup {
	rollups := make(map[string]*EntityRollup)

	for _, r := range records {
		id, ok := entityID(r, idField)
		if !ok {
			continue
		}

		rollup := rollups[id]
		if rollup == nil {
			rollup = &EntityRollup{MinAmount: -1}
			rollups[id] = rollup
		}

		rollup.Count++
		amount, _ := r.Float(record.FieldAmount)
		rollup.TotalAmount += amount
		if amount > rollup.MaxAmount {
			rollup.MaxAmount = amount
		}
		if rollup.MinAmount < 0 || amount < rollup.MinAmount {
			rollup.MinAmount = amount
		}
		if r.Flag(record.FieldIsFail) {
			rollup.FailCount++
		}
	}

	for _, rollup := range rollups {
		if rollup.Count > 0 {
			rollup.AvgAmount = rollup.TotalAmount / float64(rollup.Count)
			rollup.FailRate = float64(rollup.FailCount) / float64(rollup.Count)
		}
		if rollup.MinAmount < 0 {
			rollup.MinAmount = 0
		}
	}

	return rollups
}

// UserStats rolls up by user id.
func UserStats(records []record.Record) map[string]*EntityRollup {
	return EntityStats(records, record.FieldUserID)
}

// MerchantStats rolls up by merchant id.
func MerchantStats(records []record.Record) map[string]*EntityRollup {
	return EntityStats(records, record.FieldMerchantID)
}

// entityID reads an id as a non-empty string. Numeric ids picked up by
// dynamic CSV typing are stringified; zero is still a valid id.
func entityID(r record.Record, field string) (string, bool) {
	if s, ok := r.String(field); ok {
		if s == "" {
			return "", false
		}
		return s, true
	}
	if f, ok := r.Float(field); ok {
		return stringify(f), true
	}
	return "", false
}
