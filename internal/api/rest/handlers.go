package rest

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/txninsight/txn-insight-backend/internal/domain/errors"
	"github.com/txninsight/txn-insight-backend/internal/domain/logevent"
	"github.com/txninsight/txn-insight-backend/internal/infrastructure/telemetry"
	"github.com/txninsight/txn-insight-backend/internal/metrics"
	"github.com/txninsight/txn-insight-backend/internal/service/anomaly"
	"github.com/txninsight/txn-insight-backend/internal/service/ingest"
	"github.com/txninsight/txn-insight-backend/internal/service/logparse"
	"github.com/txninsight/txn-insight-backend/internal/service/preprocess"
)

// maxBodySize caps request bodies; batches are large but bounded.
const maxBodySize = 64 << 20 // 64MB

// Services groups the pipeline services the handlers dispatch to.
type Services struct {
	Ingest     ingest.Service
	Preprocess preprocess.Service
	Anomaly    anomaly.Service
	Logs       logparse.Service
}

// Handler routes transaction and log analysis requests to the services.
type Handler struct {
	services *Services
	validate *validator.Validate
	logger   *slog.Logger
	version  string
}

// NewHandler creates the API handler.
func NewHandler(services *Services, logger *slog.Logger, version string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		services: services,
		validate: validator.New(),
		logger:   logger,
		version:  version,
	}
}

func (h *Handler) handleLoadCSV(w http.ResponseWriter, r *http.Request) {
	var req loadCSVRequest
	if !h.decode(w, r, &req) {
		return
	}

	records, err := h.services.Ingest.LoadCSV(r.Context(), req.FilePath)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loadCSVResponse{DataframeJSON: records})
}

func (h *Handler) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.StartSpan(r.Context(), "preprocess.batch")
	var err error
	defer func() { telemetry.EndSpan(span, err) }()

	var req preprocessRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.services.Preprocess.Preprocess(ctx, req.DataframeJSON)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.BatchesPreprocessed.Inc()
	metrics.RecordsPreprocessed.Add(float64(len(result.Records)))

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleAnomalyScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.StartSpan(r.Context(), "anomaly.score")
	var err error
	defer func() { telemetry.EndSpan(span, err) }()

	var req scoreRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.services.Anomaly.ScoreBatch(ctx, req.Records)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.RecordsScored.WithLabelValues(string(result.Source)).Add(float64(len(result.Records)))
	if result.Source == anomaly.SourceHeuristic && result.Warning != "" {
		metrics.ModelFallbacks.Inc()
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLoadLog(w http.ResponseWriter, r *http.Request) {
	var req loadLogRequest
	if !h.decode(w, r, &req) {
		return
	}

	lines, err := h.services.Ingest.LoadLogLines(r.Context(), req.FilePath)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loadLogResponse{Lines: lines})
}

func (h *Handler) handleParseLog(w http.ResponseWriter, r *http.Request) {
	var req parseLogRequest
	if !h.decode(w, r, &req) {
		return
	}

	events, err := h.services.Logs.Parse(r.Context(), req.Lines)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	metrics.LogLinesParsed.Add(float64(len(events)))
	for _, e := range events {
		if e.Level == logevent.LevelUnknown {
			metrics.LogLinesUnmatched.Inc()
		}
	}

	h.writeJSON(w, http.StatusOK, parseLogResponse{Parsed: events})
}

func (h *Handler) handleLogStats(w http.ResponseWriter, r *http.Request) {
	var req logStatsRequest
	if !h.decode(w, r, &req) {
		return
	}

	stats, err := h.services.Logs.Stats(r.Context(), req.Parsed)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Version: h.version})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	// Stateless service; ready as soon as it serves.
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ready", Version: h.version})
}

// decode parses and validates the JSON body, writing the error response
// itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, r, errors.NewValidationError("INVALID_JSON", "request body is not valid JSON").WithCause(err))
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var fields validator.ValidationErrors
		appErr := errors.NewValidationError("VALIDATION_FAILED", "request validation failed")
		if stderrors.As(err, &fields) {
			details := make(map[string]any, len(fields))
			for _, f := range fields {
				details[f.Field()] = f.Tag()
			}
			appErr = appErr.WithDetails(details)
		}
		h.writeError(w, r, appErr)
		return false
	}

	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	detail := errorDetail{Code: "INTERNAL_ERROR", Message: "An internal error occurred"}

	if appErr, ok := errors.AsAppError(err); ok {
		status = appErr.StatusCode
		detail = errorDetail{Code: appErr.Code, Message: appErr.Message}
		if len(appErr.Details) > 0 {
			detail.Details = appErr.Details
		}
	}

	if status >= 500 {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "status", status, "error", err)
	} else {
		h.logger.WarnContext(r.Context(), "request rejected",
			"path", r.URL.Path, "status", status, "code", detail.Code)
	}

	h.writeJSON(w, status, errorBody{Error: detail})
}
