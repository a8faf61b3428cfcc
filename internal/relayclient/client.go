// Package relayclient talks to the plan relay on behalf of the goals client.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"goalplan-backend/internal/goals"
	"goalplan-backend/internal/plan"
)

const generatePath = "/api/generate-plan"

// RelayError is a non-200 answer from the relay itself.
type RelayError struct {
	Status  int
	Message string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	sessionID  string
	appVersion string
}

func New(baseURL string, timeout time.Duration, appVersion string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		sessionID:  uuid.New().String(),
		appVersion: appVersion,
	}
}

// GeneratePlan posts list to the relay. Mock plans arrive as a normal
// response with UsedMock set; only relay-level failures are errors.
func (c *Client) GeneratePlan(ctx context.Context, list []goals.Goal) (plan.GenerateResponse, error) {
	body, err := json.Marshal(plan.GenerateRequest{Goals: list})
	if err != nil {
		return plan.GenerateResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return plan.GenerateResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Platform", "cli")
	req.Header.Set("X-Session-Id", c.sessionID)
	req.Header.Set("Idempotency-Key", uuid.New().String())
	if c.appVersion != "" {
		req.Header.Set("X-App-Version", c.appVersion)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return plan.GenerateResponse{}, fmt.Errorf("relay unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return plan.GenerateResponse{}, fmt.Errorf("read relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e plan.ErrorResponse
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return plan.GenerateResponse{}, &RelayError{Status: resp.StatusCode, Message: e.Error}
	}

	var out plan.GenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return plan.GenerateResponse{}, fmt.Errorf("decode relay response: %w", err)
	}
	return out, nil
}
