package preprocess

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

// Statuses that count as success; everything else marks a failure.
var successStatuses = map[string]struct{}{
	"SUCCESS": {},
	"200":     {},
	"OK":      {},
}

var privateIPPattern = regexp.MustCompile(`^(192\.168\.|10\.|127\.|172\.(1[6-9]|2[0-9]|3[01])\.)`)

// placeholderCountry is returned for every non-private address. This is a
// coarse heuristic, not a GeoIP lookup; the resolver only distinguishes
// RFC1918/loopback ranges from the rest.
const placeholderCountry = "KR"

// DetectSchema picks the time-schema variant for a record: a numeric
// elapsed-seconds field wins over a parseable timestamp string.
func DetectSchema(r record.Record) TimeSchema {
	if _, ok := elapsedSeconds(r); ok {
		return SchemaElapsed
	}
	if v, ok := r[record.FieldTimestamp]; ok && v != nil {
		if _, parsed := ParseTimestamp(v); parsed {
			return SchemaWallClock
		}
	}
	return SchemaNone
}

// elapsedSeconds reads the raw elapsed-time column. The column survives
// normalization as "time" because only the fully-cased variants are
// synonyms of timestamp.
func elapsedSeconds(r record.Record) (float64, bool) {
	for _, key := range []string{"Time", "time", record.FieldTimeSeconds} {
		if v, ok := r.Float(key); ok {
			return v, true
		}
	}
	return 0, false
}

// Enrich derives the feature set for one record in place. The record must
// already be normalized; callers pass a clone when the original batch must
// stay untouched.
func Enrich(r record.Record) record.Record {
	amount := ParseAmount(amountValue(r))
	r[record.FieldAmount] = amount
	r[record.FieldAmountLog] = AmountLog(amount)

	switch DetectSchema(r) {
	case SchemaElapsed:
		enrichElapsed(r)
	case SchemaWallClock:
		enrichWallClock(r)
	}

	if label, ok := fraudLabel(r); ok {
		r[record.FieldIsFraud] = boolToFeature(label)
	}

	if r.Has(record.FieldStatus) {
		isFail, failType := ClassifyFailure(r[record.FieldStatus], r[record.FieldFailReason])
		r[record.FieldIsFail] = boolToFeature(isFail)
		r[record.FieldFailType] = failType
	}

	if ip, ok := r.String(record.FieldIPAddress); ok {
		r[record.FieldCountry] = CountryFromIP(ip)
	}

	return r
}

// EnrichBatch normalizes and enriches a whole batch into a fresh slice.
func EnrichBatch(records []record.Record) []record.Record {
	out := make([]record.Record, len(records))
	for i, r := range records {
		out[i] = Enrich(record.Normalize(r))
	}
	return out
}

// enrichElapsed derives time buckets from an elapsed-seconds column.
// The hour bucket wraps every 24 elapsed hours; over multi-day datasets
// this is a cyclic position, not wall-clock time of day.
func enrichElapsed(r record.Record) {
	t, _ := elapsedSeconds(r)
	if t < 0 {
		t = 0
	}
	hours := math.Floor(t / 3600)
	bucket := int(math.Mod(hours, 24))

	r[record.FieldTimeSeconds] = t
	r[record.FieldTimeMinutes] = math.Floor(t / 60)
	r[record.FieldTimeHours] = hours
	r[record.FieldHourBucket] = float64(bucket)
	r[record.FieldIsNight] = boolToFeature(IsNightHour(bucket))
}

// enrichWallClock derives time features from a parsed timestamp. The
// 3-hour band keeps its own field so it cannot be confused with the
// elapsed-schema cyclic bucket.
func enrichWallClock(r record.Record) {
	t, ok := ParseTimestamp(r[record.FieldTimestamp])
	if !ok {
		return
	}
	f := ExtractTimeFeatures(t)
	r[record.FieldHour] = float64(f.Hour)
	r[record.FieldDayOfWeek] = float64(f.DayOfWeek)
	r[record.FieldIsNight] = boolToFeature(f.IsNight)
	r["date"] = f.Date
	r["hour_band"] = f.HourBand
	r["timestamp_parsed"] = f.Parsed.Format("2006-01-02T15:04:05.000Z07:00")
}

// ClassifyFailure compares a status case-insensitively against the success
// set. Failures carry a fail type: the explicit reason when provided,
// otherwise the upper-cased raw status.
func ClassifyFailure(status, failReason any) (bool, string) {
	statusStr := strings.ToUpper(strings.TrimSpace(stringify(status)))
	if _, ok := successStatuses[statusStr]; ok {
		return false, "NONE"
	}
	if reason := stringify(failReason); reason != "" {
		return true, strings.ToUpper(reason)
	}
	return true, statusStr
}

// CountryFromIP classifies RFC1918 and loopback addresses as LOCAL and
// resolves everything else to the fixed placeholder country.
func CountryFromIP(ip string) string {
	if strings.TrimSpace(ip) == "" {
		return "UNKNOWN"
	}
	if privateIPPattern.MatchString(ip) {
		return "LOCAL"
	}
	return placeholderCountry
}

// fraudLabel reads the ground-truth class column under its raw or
// normalized name.
func fraudLabel(r record.Record) (bool, bool) {
	for _, key := range []string{"Class", "class", record.FieldIsFraud} {
		if v, ok := r.Float(key); ok {
			return v == 1, true
		}
	}
	return false, false
}

func amountValue(r record.Record) any {
	if v, ok := r["Amount"]; ok && v != nil {
		return v
	}
	return r[record.FieldAmount]
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%v", s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func boolToFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
