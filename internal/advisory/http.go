package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Veraticus/taxwise/internal/common"
)

const maxResponseBytes = 1 << 20

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// httpGenerator speaks the plain advisory contract: the score delta in, {"text"} out.
type httpGenerator struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

type advisoryRequest struct {
	ActionType     string  `json:"action_type"`
	Prompt         string  `json:"prompt"`
	Amount         float64 `json:"amount"`
	CurrentScore   int     `json:"current_score"`
	ProjectedScore int     `json:"projected_score"`
}

type advisoryResponse struct {
	Text string `json:"text"`
}

func newHTTPGenerator(cfg Config) (*httpGenerator, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: advisory endpoint", common.ErrMissingConfig)
	}
	return &httpGenerator{
		httpClient: newHTTPClient(),
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
	}, nil
}

func (g *httpGenerator) Name() string { return ProviderHTTP }

func (g *httpGenerator) Generate(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(advisoryRequest{
		CurrentScore:   req.Delta.Baseline,
		ProjectedScore: req.Delta.Projected,
		Amount:         req.Delta.Scenario.Amount,
		ActionType:     string(req.Delta.Scenario.Type),
		Prompt:         req.Prompt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	body, err := doJSON(g.httpClient, httpReq, ProviderHTTP)
	if err != nil {
		return "", err
	}

	var resp advisoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", common.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}
	return resp.Text, nil
}

// doJSON executes req and returns the body of a 2xx response.
func doJSON(client *http.Client, req *http.Request, provider string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(provider, resp.StatusCode, body)
	}
	return body, nil
}

func statusError(provider string, status int, body []byte) error {
	if len(body) > 200 {
		body = body[:200]
	}
	err := fmt.Errorf("%w: %s returned status %d: %s", common.ErrAdvisoryUnavailable, provider, status, body)
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case status >= 400 && status < 500:
		return common.Permanent(err)
	default:
		return err
	}
}
