package moderation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LabelScore is one entry of an image classification response.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ImageClient calls a hosted image classification endpoint. The request
// carries the image base64-encoded, the response is an array of label/score
// pairs.
type ImageClient struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

func NewImageClient(httpClient *http.Client, endpoint, token string) *ImageClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ImageClient{
		httpClient: httpClient,
		endpoint:   endpoint,
		token:      token,
	}
}

func (c *ImageClient) Classify(ctx context.Context, image []byte) ([]LabelScore, error) {
	payload := map[string]interface{}{
		"inputs": base64.StdEncoding.EncodeToString(image),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("image classification error: status %d: %s", resp.StatusCode, string(data))
	}

	var scores []LabelScore
	if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return scores, nil
}
