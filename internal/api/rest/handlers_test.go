package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txninsight/txn-insight-backend/internal/service/anomaly"
	"github.com/txninsight/txn-insight-backend/internal/service/ingest"
	"github.com/txninsight/txn-insight-backend/internal/service/logparse"
	"github.com/txninsight/txn-insight-backend/internal/service/preprocess"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	services := &Services{
		Ingest:     ingest.NewService(nil),
		Preprocess: preprocess.NewService(nil),
		Anomaly:    anomaly.NewService(nil, nil),
		Logs:       logparse.NewService(nil),
	}
	return NewRouter(NewHandler(services, nil, "test"))
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHandleLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txns.csv")
	require.NoError(t, os.WriteFile(path, []byte("Time,V1,Amount,Class\n0,-1.36,149.62,0\n"), 0o644))

	rec := postJSON(t, testRouter(t), "/api/v1/fds/load-csv", map[string]string{"filePath": path})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		DataframeJSON []map[string]any `json:"dataframeJson"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.DataframeJSON, 1)
	assert.Equal(t, 149.62, resp.DataframeJSON[0]["Amount"])
}

func TestHandleLoadCSV_MissingPath(t *testing.T) {
	rec := postJSON(t, testRouter(t), "/api/v1/fds/load-csv", map[string]string{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}

func TestHandleLoadCSV_NotFound(t *testing.T) {
	rec := postJSON(t, testRouter(t), "/api/v1/fds/load-csv",
		map[string]string{"filePath": filepath.Join(t.TempDir(), "nope.csv")})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePreprocess(t *testing.T) {
	body := map[string]any{
		"dataframeJson": []map[string]any{
			{"Time": 0, "V1": -1.36, "Amount": 149.62, "Class": 0},
			{"Time": 7200, "V1": 2.1, "Amount": 3.79, "Class": 1},
		},
	}

	rec := postJSON(t, testRouter(t), "/api/v1/fds/preprocess", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		CleanDataframe []map[string]any `json:"cleanDataframe"`
		SummaryStats   struct {
			TotalCount int `json:"totalCount"`
			FraudCount int `json:"fraudCount"`
		} `json:"summaryStats"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.CleanDataframe, 2)
	assert.Equal(t, 2, resp.SummaryStats.TotalCount)
	assert.Equal(t, 1, resp.SummaryStats.FraudCount)
	assert.Contains(t, resp.CleanDataframe[0], "amount_log")
	assert.Contains(t, resp.CleanDataframe[0], "hour_bucket")
}

func TestHandlePreprocess_NullBatch(t *testing.T) {
	rec := postJSON(t, testRouter(t), "/api/v1/fds/preprocess", map[string]any{"dataframeJson": nil})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "INVALID_RECORDS", resp.Error.Code)
}

func TestHandleAnomalyScore(t *testing.T) {
	body := map[string]any{
		"records": []map[string]any{
			{"amount": 100.0, "amount_log": 4.6},
			{"amount": 900.0, "amount_log": 6.8, "is_night": 1},
		},
	}

	rec := postJSON(t, testRouter(t), "/api/v1/fds/anomaly-score", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Records []map[string]any `json:"records"`
		Source  string           `json:"source"`
		Warning string           `json:"warning"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "heuristic", resp.Source)
	assert.NotEmpty(t, resp.Warning)
	for _, r := range resp.Records {
		score, ok := r["anomaly_score"].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestHandleParseLog(t *testing.T) {
	body := map[string]any{
		"lines": []string{
			"2025-01-05T02:23:11Z ERROR disk failure - job_id=42 retry=3",
			"garbage unparseable text",
		},
	}

	rec := postJSON(t, testRouter(t), "/api/v1/logs/parse", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Parsed []struct {
			Level   string            `json:"level"`
			Message string            `json:"message"`
			Meta    map[string]string `json:"meta"`
		} `json:"parsed"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Parsed, 2)
	assert.Equal(t, "ERROR", resp.Parsed[0].Level)
	assert.Equal(t, "disk failure", resp.Parsed[0].Message)
	assert.Equal(t, "42", resp.Parsed[0].Meta["job_id"])
	assert.Equal(t, "UNKNOWN", resp.Parsed[1].Level)
}

func TestHandleLogStats(t *testing.T) {
	parsed := logparse.ParseLines([]string{
		"2025-01-05T02:23:11Z ERROR disk failure - job_id=42 retry=3",
		"2025-01-05T02:24:00Z INFO all good",
	})
	body := map[string]any{"parsed": parsed}

	rec := postJSON(t, testRouter(t), "/api/v1/logs/stats", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Counts struct {
			Total int `json:"total"`
			Error int `json:"error"`
		} `json:"counts"`
		RetryStats struct {
			MaxRetry int `json:"maxRetry"`
		} `json:"retryStats"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 2, resp.Counts.Total)
	assert.Equal(t, 1, resp.Counts.Error)
	assert.Equal(t, 3, resp.RetryStats.MaxRetry)
}

func TestHandleLoadLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("2025-01-05T02:23:11Z INFO up\n\n"), 0o644))

	rec := postJSON(t, testRouter(t), "/api/v1/logs/load", map[string]string{"filePath": path})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Lines []string `json:"lines"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, []string{"2025-01-05T02:23:11Z INFO up"}, resp.Lines)
}

func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestHandler_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fds/preprocess", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
