package preprocess

import (
	"strconv"
	"strings"
	"time"
)

// TimeFeatures are the wall-clock features derived from a parsed timestamp.
type TimeFeatures struct {
	Hour      int
	DayOfWeek int
	IsNight   bool
	Date      string
	HourBand  string
	Parsed    time.Time
}

// Candidate layouts tried in order; first strict match wins. Unix
// second/millisecond values are handled separately for numeric input.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339,
	"2006/01/02 15:04:05",
	"20060102150405",
}

// ParseTimestamp parses a timestamp value (string or numeric) through the
// candidate layouts, falling back to unix-epoch interpretation for pure
// numbers and to a lenient RFC3339 attempt last. Returns ok=false when
// nothing matches; callers leave time features entirely absent in that
// case rather than zeroing them.
func ParseTimestamp(v any) (time.Time, bool) {
	switch ts := v.(type) {
	case time.Time:
		return ts, true
	case float64:
		return fromEpoch(ts)
	case int:
		return fromEpoch(float64(ts))
	case int64:
		return fromEpoch(float64(ts))
	case string:
		s := strings.TrimSpace(ts)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		// Numeric strings are epoch seconds or milliseconds.
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(n)
		}
		// Lenient last resort: RFC3339 with or without sub-seconds.
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// fromEpoch treats values above 1e12 as milliseconds, otherwise seconds.
func fromEpoch(n float64) (time.Time, bool) {
	if n <= 0 {
		return time.Time{}, false
	}
	if n >= 1e12 {
		return time.UnixMilli(int64(n)).UTC(), true
	}
	return time.Unix(int64(n), 0).UTC(), true
}

// ExtractTimeFeatures derives hour, day-of-week, night flag, compact date,
// and the 3-hour band from a parsed wall-clock timestamp.
func ExtractTimeFeatures(t time.Time) TimeFeatures {
	hour := t.Hour()
	return TimeFeatures{
		Hour:      hour,
		DayOfWeek: int(t.Weekday()),
		IsNight:   IsNightHour(hour),
		Date:      t.Format("20060102"),
		HourBand:  hourBand(hour),
		Parsed:    t,
	}
}

// IsNightHour reports whether an hour of day falls in the night window
// [22,24) or [0,5].
func IsNightHour(hour int) bool {
	return hour <= 5 || hour >= 22
}

func hourBand(hour int) string {
	switch {
	case hour < 3:
		return "00-03"
	case hour < 6:
		return "03-06"
	case hour < 9:
		return "06-09"
	case hour < 12:
		return "09-12"
	case hour < 15:
		return "12-15"
	case hour < 18:
		return "15-18"
	case hour < 21:
		return "18-21"
	default:
		return "21-24"
	}
}
