package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/txninsight/txn-insight-backend/internal/domain/errors"
	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

// Service loads raw input files into memory for the pipeline.
type Service interface {
	// LoadCSV reads a headered CSV file into dynamically typed records.
	LoadCSV(ctx context.Context, path string) ([]record.Record, error)
	// LoadLogLines reads a log file into its non-blank lines.
	LoadLogLines(ctx context.Context, path string) ([]string, error)
}

type service struct {
	logger *slog.Logger
}

// NewService creates a file ingestion service.
func NewService(logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{logger: logger}
}

func (s *service) LoadCSV(ctx context.Context, path string) ([]record.Record, error) {
	f, err := s.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows tolerated, trailing fields dropped

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewValidationError("INVALID_CSV", "malformed csv file").WithCause(err)
	}
	if len(rows) == 0 {
		return []record.Record{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]record.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		r := make(record.Record, len(headers))
		for i, header := range headers {
			if i >= len(row) {
				break
			}
			r[header] = typedCell(row[i])
		}
		records = append(records, r)
	}

	s.logger.InfoContext(ctx, "csv loaded", "path", path, "records", len(records))
	return records, nil
}

func (s *service) LoadLogLines(ctx context.Context, path string) ([]string, error) {
	f, err := s.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := []string{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading log file")
	}

	s.logger.InfoContext(ctx, "log file loaded", "path", path, "lines", len(lines))
	return lines, nil
}

func (s *service) open(path string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.ErrMissingPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewValidationError("INVALID_FILE_PATH", "invalid file path").WithCause(err)
	}
	f, err := os.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("file")
		}
		return nil, errors.Wrap(err, "opening file")
	}
	return f, nil
}

// typedCell converts a CSV cell the way a dynamically typed frame would:
// numbers become float64, true/false become bool, empty becomes nil,
// everything else stays a string.
func typedCell(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}
	return cell
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
