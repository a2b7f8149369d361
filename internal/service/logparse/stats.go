package logparse

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/txninsight/txn-insight-backend/internal/domain/logevent"
)

const (
	topPatternLimit  = 10
	maxPatternLength = 100
)

var (
	uuidPattern  = regexp.MustCompile(`(?i)[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)
	digitPattern = regexp.MustCompile(`\d+`)
)

var statsLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// LevelCounts tallies events by severity.
type LevelCounts struct {
	Total   int `json:"total"`
	Info    int `json:"info"`
	Warn    int `json:"warn"`
	Error   int `json:"error"`
	Debug   int `json:"debug"`
	Fatal   int `json:"fatal"`
	Unknown int `json:"unknown"`
}

// PatternCount is one normalized error pattern and its frequency.
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// JobErrorCount is the ERROR count for one job id.
type JobErrorCount struct {
	JobID string `json:"jobId"`
	Count int    `json:"count"`
}

// DeviceErrorCount is the ERROR count for one device.
type DeviceErrorCount struct {
	Device string `json:"device"`
	Count  int    `json:"count"`
}

// RetryStats summarizes retry metadata across the batch.
type RetryStats struct {
	RetryCounts int `json:"retryCounts"`
	MaxRetry    int `json:"maxRetry"`
}

// Stats is the full statistics report over a parsed batch.
type Stats struct {
	Counts           LevelCounts        `json:"counts"`
	HourlyError      [24]int            `json:"hourlyError"`
	HourlyWarn       [24]int            `json:"hourlyWarn"`
	HourlyInfo       [24]int            `json:"hourlyInfo"`
	TopErrorPatterns []PatternCount     `json:"topErrorPatterns"`
	TopJobErrors     []JobErrorCount    `json:"topJobErrors"`
	TopDeviceErrors  []DeviceErrorCount `json:"topDeviceErrors"`
	RetryStats       RetryStats         `json:"retryStats"`
}

// Compute builds the statistics report in a single pass per concern.
func Compute(events []logevent.Event) *Stats {
	stats := &Stats{
		TopErrorPatterns: []PatternCount{},
		TopJobErrors:     []JobErrorCount{},
		TopDeviceErrors:  []DeviceErrorCount{},
	}
	stats.Counts.Total = len(events)

	patterns := newOrderedCounter()
	jobs := newOrderedCounter()
	devices := newOrderedCounter()

	for _, e := range events {
		switch e.Level {
		case logevent.LevelInfo:
			stats.Counts.Info++
		case logevent.LevelWarn:
			stats.Counts.Warn++
		case logevent.LevelError:
			stats.Counts.Error++
		case logevent.LevelDebug:
			stats.Counts.Debug++
		case logevent.LevelFatal:
			stats.Counts.Fatal++
		default:
			stats.Counts.Unknown++
		}

		if hour, ok := eventHour(e); ok {
			switch e.Level {
			case logevent.LevelError:
				stats.HourlyError[hour]++
			case logevent.LevelWarn:
				stats.HourlyWarn[hour]++
			case logevent.LevelInfo:
				stats.HourlyInfo[hour]++
			}
		}

		if e.Level == logevent.LevelError {
			patterns.add(normalizePattern(errorMessage(e)))
			if jobID := e.Meta["job_id"]; jobID != "" {
				jobs.add(jobID)
			}
			if device := e.Meta["device"]; device != "" {
				devices.add(device)
			}
		}

		if retry, ok := e.Meta["retry"]; ok {
			stats.RetryStats.RetryCounts++
			n, err := strconv.Atoi(retry)
			if err != nil {
				n = 0
			}
			if n > stats.RetryStats.MaxRetry {
				stats.RetryStats.MaxRetry = n
			}
		}
	}

	for _, entry := range patterns.top(topPatternLimit) {
		stats.TopErrorPatterns = append(stats.TopErrorPatterns, PatternCount{Pattern: entry.key, Count: entry.count})
	}
	for _, entry := range jobs.top(topPatternLimit) {
		stats.TopJobErrors = append(stats.TopJobErrors, JobErrorCount{JobID: entry.key, Count: entry.count})
	}
	for _, entry := range devices.top(topPatternLimit) {
		stats.TopDeviceErrors = append(stats.TopDeviceErrors, DeviceErrorCount{Device: entry.key, Count: entry.count})
	}

	return stats
}

// normalizePattern strips dynamic values so superficially different
// instances of the same error collapse into one pattern. UUIDs go first;
// replacing digits first would shred them.
func normalizePattern(msg string) string {
	normalized := uuidPattern.ReplaceAllString(msg, "UUID")
	normalized = digitPattern.ReplaceAllString(normalized, "N")
	if len(normalized) > maxPatternLength {
		normalized = normalized[:maxPatternLength]
	}
	return normalized
}

// errorMessage prefers the cleaned message, falling back to the raw line.
func errorMessage(e logevent.Event) string {
	if e.Message != "" {
		return e.Message
	}
	return e.Raw
}

// eventHour extracts the hour from the event's own timestamp, keeping
// whatever zone the line carried. Unparseable timestamps are excluded
// rather than bucketed at zero.
func eventHour(e logevent.Event) (int, bool) {
	if e.Timestamp == nil {
		return 0, false
	}
	for _, layout := range statsLayouts {
		if t, err := time.Parse(layout, *e.Timestamp); err == nil {
			return t.Hour(), true
		}
	}
	return 0, false
}

// orderedCounter counts string keys while remembering first-seen order,
// so ranking ties break toward the earlier key.
type orderedCounter struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: map[string]int{}, order: map[string]int{}}
}

func (c *orderedCounter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order[key] = c.next
		c.next++
	}
	c.counts[key]++
}

type counterEntry struct {
	key   string
	count int
}

func (c *orderedCounter) top(limit int) []counterEntry {
	entries := make([]counterEntry, 0, len(c.counts))
	for key, count := range c.counts {
		entries = append(entries, counterEntry{key: key, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return c.order[entries[i].key] < c.order[entries[j].key]
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
