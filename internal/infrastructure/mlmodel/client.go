package mlmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/txninsight/txn-insight-backend/internal/domain/errors"
)

// DefaultTimeout bounds one scoring call. Model inference over a large
// batch can be slow, so this is deliberately generous.
const DefaultTimeout = 30 * time.Second

// Client calls the external anomaly-model service over HTTP. One request
// per batch; callers treat any error identically (fall back to heuristic
// scoring), so no retries happen here.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a model client. A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	Records []scoreRecord `json:"records"`
}

type scoreRecord struct {
	Data map[string]float64 `json:"data"`
}

type scoreResponse struct {
	Scores []float64 `json:"scores"`
}

// Score submits the batch and returns scores in request order.
func (c *Client) Score(ctx context.Context, vectors []map[string]float64) ([]float64, error) {
	payload := scoreRequest{Records: make([]scoreRecord, len(vectors))}
	for i, v := range vectors {
		payload.Records[i] = scoreRecord{Data: v}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encoding score request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building score request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("model", "request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.NewExternalError("model", fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.NewExternalError("model", "decoding response").WithCause(err)
	}

	return decoded.Scores, nil
}
