package logparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txninsight/txn-insight-backend/internal/domain/logevent"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		wantTimestamp string
		wantLevel     logevent.Level
		wantMessage   string
		wantMeta      map[string]string
	}{
		{
			name:          "standard line with metadata",
			line:          "2025-01-05T02:23:11Z ERROR disk failure - job_id=42 retry=3",
			wantTimestamp: "2025-01-05T02:23:11Z",
			wantLevel:     logevent.LevelError,
			wantMessage:   "disk failure",
			wantMeta:      map[string]string{"job_id": "42", "retry": "3"},
		},
		{
			name:          "space separated timestamp without zone",
			line:          "2025-01-05 14:00:00 INFO job started",
			wantTimestamp: "2025-01-05 14:00:00",
			wantLevel:     logevent.LevelInfo,
			wantMessage:   "job started",
			wantMeta:      map[string]string{},
		},
		{
			name:          "numeric offset zone",
			line:          "2025-01-05T23:59:59+09:00 WARN queue depth high - depth=900",
			wantTimestamp: "2025-01-05T23:59:59+09:00",
			wantLevel:     logevent.LevelWarn,
			wantMessage:   "queue depth high",
			wantMeta:      map[string]string{"depth": "900"},
		},
		{
			name:          "metadata only",
			line:          "2025-01-05T02:23:11Z DEBUG conn=12 state=open",
			wantTimestamp: "2025-01-05T02:23:11Z",
			wantLevel:     logevent.LevelDebug,
			wantMessage:   "",
			wantMeta:      map[string]string{"conn": "12", "state": "open"},
		},
		{
			name:          "fatal level",
			line:          "2025-01-05T02:23:11Z FATAL out of memory",
			wantTimestamp: "2025-01-05T02:23:11Z",
			wantLevel:     logevent.LevelFatal,
			wantMessage:   "out of memory",
			wantMeta:      map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := ParseLine(tt.line)

			assert.Equal(t, tt.line, event.Raw)
			require.NotNil(t, event.Timestamp)
			assert.Equal(t, tt.wantTimestamp, *event.Timestamp)
			assert.Equal(t, tt.wantLevel, event.Level)
			assert.Equal(t, tt.wantMessage, event.Message)
			assert.Equal(t, tt.wantMeta, event.Meta)
		})
	}
}

func TestParseLine_Unmatched(t *testing.T) {
	lines := []string{
		"garbage unparseable text",
		"",
		"TRACE 2025-01-05 wrong order",
		"2025-01-05T02:23:11Z NOTICE unsupported level",
	}

	for _, line := range lines {
		event := ParseLine(line)

		assert.Equal(t, line, event.Raw)
		assert.Nil(t, event.Timestamp)
		assert.Equal(t, logevent.LevelUnknown, event.Level)
		assert.Equal(t, line, event.Message)
		assert.Empty(t, event.Meta)
	}
}

func TestParseLines_PreservesOrder(t *testing.T) {
	lines := []string{
		"2025-01-05T02:23:11Z ERROR disk failure - job_id=42 retry=3",
		"garbage unparseable text",
		"2025-01-05T03:00:00Z INFO recovered",
	}

	events := ParseLines(lines)
	require.Len(t, events, 3)
	assert.Equal(t, logevent.LevelError, events[0].Level)
	assert.Equal(t, logevent.LevelUnknown, events[1].Level)
	assert.Equal(t, logevent.LevelInfo, events[2].Level)
}
