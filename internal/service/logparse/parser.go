package logparse

import (
	"regexp"
	"strings"

	"github.com/txninsight/txn-insight-backend/internal/domain/logevent"
)

// linePattern matches the standard line grammar:
//
//	2025-01-05T02:23:11Z ERROR message - key=value key2=value2
//
// The timestamp accepts a space or T separator and an optional zone
// (Z or a numeric offset).
var linePattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:Z|[+\-]\d{2}:\d{2})?)\s+(INFO|WARN|ERROR|DEBUG|FATAL)\s+(.*)$`,
)

// metaPattern matches key=value pairs embedded in the message tail.
var metaPattern = regexp.MustCompile(`(\w+)=(\S+)`)

var trailingDash = regexp.MustCompile(`\s*-\s*$`)

// ParseLine turns one raw line into a structured event. A line that does
// not match the grammar is never dropped: it comes back with level
// UNKNOWN, the whole line as the message, and no timestamp.
func ParseLine(line string) logevent.Event {
	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		return logevent.Event{
			Raw:     line,
			Level:   logevent.LevelUnknown,
			Message: line,
			Meta:    map[string]string{},
		}
	}

	timestamp, level, rest := match[1], logevent.Level(match[2]), match[3]

	meta := map[string]string{}
	message := rest
	pairs := metaPattern.FindAllStringSubmatch(rest, -1)
	for _, pair := range pairs {
		meta[pair[1]] = pair[2]
		message = strings.TrimSpace(strings.Replace(message, pair[0], "", 1))
	}
	if len(pairs) > 0 {
		message = strings.TrimSpace(trailingDash.ReplaceAllString(message, ""))
	}

	return logevent.Event{
		Raw:       line,
		Timestamp: &timestamp,
		Level:     level,
		Message:   message,
		Meta:      meta,
	}
}

// ParseLines parses every line, preserving input order.
func ParseLines(lines []string) []logevent.Event {
	events := make([]logevent.Event, len(lines))
	for i, line := range lines {
		events[i] = ParseLine(line)
	}
	return events
}
