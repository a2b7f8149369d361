package logevent

// Level is the severity extracted from a log line.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarn    Level = "WARN"
	LevelError   Level = "ERROR"
	LevelDebug   Level = "DEBUG"
	LevelFatal   Level = "FATAL"
	LevelUnknown Level = "UNKNOWN"
)

// Event is one structured log line. A line that does not match the
// expected format still yields an Event: level UNKNOWN, the whole raw
// line as Message, nil Timestamp, empty Meta.
type Event struct {
	Raw       string            `json:"raw"`
	Timestamp *string           `json:"timestamp"`
	Level     Level             `json:"level"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta"`
}
