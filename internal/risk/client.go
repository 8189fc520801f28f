// Package risk is the client for the external waste risk scoring service.
// The engine treats the analysis as an opaque upstream input; how scores
// are computed is not this repository's concern.
package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cwihealth/cwi-server/internal/database"
)

// Client calls the scoring service over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a scorer client. The timeout bounds one analysis call.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Request carries the waste entry fields the scorer evaluates.
type Request struct {
	Department        string  `json:"department"`
	WasteType         string  `json:"wasteType"`
	QuantityKg        float64 `json:"quantityKg"`
	ProcedureCategory string  `json:"procedureCategory"`
	DisposalMethod    string  `json:"disposalMethod"`
	Shift             string  `json:"shift"`
	Notes             string  `json:"notes,omitempty"`
}

// Analyze submits a waste entry for scoring and returns the analysis.
func (c *Client) Analyze(ctx context.Context, req *Request) (*database.RiskAnalysis, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scorer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build scorer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var analysis database.RiskAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("failed to decode scorer response: %w", err)
	}

	if analysis.RiskScore < 0 || analysis.RiskScore > 100 {
		return nil, fmt.Errorf("scorer returned out-of-range risk score %d", analysis.RiskScore)
	}

	return &analysis, nil
}
