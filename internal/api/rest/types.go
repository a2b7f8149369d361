package rest

import (
	"github.com/txninsight/txn-insight-backend/internal/domain/logevent"
	"github.com/txninsight/txn-insight-backend/internal/domain/record"
)

// Request bodies. Field names follow the wire contract, camelCase.

type loadCSVRequest struct {
	FilePath string `json:"filePath" validate:"required"`
}

type loadCSVResponse struct {
	DataframeJSON []record.Record `json:"dataframeJson"`
}

type preprocessRequest struct {
	DataframeJSON []record.Record `json:"dataframeJson"`
}

type scoreRequest struct {
	Records []record.Record `json:"records"`
}

type loadLogRequest struct {
	FilePath string `json:"filePath" validate:"required"`
}

type loadLogResponse struct {
	Lines []string `json:"lines"`
}

type parseLogRequest struct {
	Lines []string `json:"lines"`
}

type parseLogResponse struct {
	Parsed []logevent.Event `json:"parsed"`
}

type logStatsRequest struct {
	Parsed []logevent.Event `json:"parsed"`
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
