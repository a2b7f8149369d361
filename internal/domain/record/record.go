package record

// Canonical field names produced by normalization and feature extraction.
const (
	FieldAmount      = "amount"
	FieldAmountLog   = "amount_log"
	FieldTimestamp   = "timestamp"
	FieldUserID      = "user_id"
	FieldMerchantID  = "merchant_id"
	FieldStatus      = "status"
	FieldFailReason  = "fail_reason"
	FieldFailType    = "fail_type"
	FieldIPAddress   = "ip_address"
	FieldCountry     = "ip_country"
	FieldHour        = "hour"
	FieldDayOfWeek   = "day_of_week"
	FieldHourBucket  = "hour_bucket"
	FieldIsNight     = "is_night"
	FieldIsFraud     = "is_fraud"
	FieldIsFail      = "is_fail"
	FieldTimeSeconds = "time_seconds"
	FieldTimeMinutes = "time_minutes"
	FieldTimeHours   = "time_hours"
	FieldScore       = "anomaly_score"
)

// Record is a single row of tabular input: field name to scalar value
// (float64, string, bool, or nil after JSON/CSV decoding). Pipeline stages
// add derived fields but preserve the originals.
type Record map[string]any

// Clone returns a shallow copy. Stages that mutate records operate on a
// clone so callers never observe in-place changes to their batch.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Float reads a numeric field, coercing JSON-decoded values. Missing,
// null, and non-numeric values return 0 with ok=false.
func (r Record) Float(key string) (float64, bool) {
	v, exists := r[key]
	if !exists || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// String reads a field as a string. Numeric values are not formatted;
// only true strings qualify.
func (r Record) String(key string) (string, bool) {
	v, exists := r[key]
	if !exists || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Flag reports whether a 0/1 feature field is set to 1.
func (r Record) Flag(key string) bool {
	f, ok := r.Float(key)
	return ok && f == 1
}

// Has reports whether the field is present and non-nil.
func (r Record) Has(key string) bool {
	v, exists := r[key]
	return exists && v != nil
}

// CloneBatch clones every record in a batch.
func CloneBatch(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
