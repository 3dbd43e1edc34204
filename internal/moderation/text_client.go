package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ZeroShotResult carries the ranked labels of a zero-shot classification
// response. Labels and Scores are parallel, best first.
type ZeroShotResult struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Top returns the best-ranked label and its score.
func (r ZeroShotResult) Top() (string, float64, bool) {
	if len(r.Labels) == 0 || len(r.Scores) == 0 {
		return "", 0, false
	}
	return r.Labels[0], r.Scores[0], true
}

// TextClient calls a hosted zero-shot text classification endpoint.
type TextClient struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

func NewTextClient(httpClient *http.Client, endpoint, token string) *TextClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TextClient{
		httpClient: httpClient,
		endpoint:   endpoint,
		token:      token,
	}
}

func (c *TextClient) Classify(ctx context.Context, text string, candidateLabels []string) (ZeroShotResult, error) {
	payload := map[string]interface{}{
		"inputs": text,
		"parameters": map[string]interface{}{
			"candidate_labels": candidateLabels,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return ZeroShotResult{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ZeroShotResult{}, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ZeroShotResult{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return ZeroShotResult{}, fmt.Errorf("text classification error: status %d: %s", resp.StatusCode, string(data))
	}

	var result ZeroShotResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ZeroShotResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Labels) != len(result.Scores) {
		return ZeroShotResult{}, fmt.Errorf("malformed response: %d labels, %d scores", len(result.Labels), len(result.Scores))
	}
	return result, nil
}
