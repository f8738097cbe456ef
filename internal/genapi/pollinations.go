package genapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"modeltron/internal/logging"
)

// Default Pollinations endpoints.
const (
	DefaultPollinationsTextURL  = "https://text.pollinations.ai"
	DefaultPollinationsImageURL = "https://image.pollinations.ai"
)

// PollinationsConfig configures the Pollinations client.
type PollinationsConfig struct {
	TextBaseURL  string
	ImageBaseURL string
	Timeout      time.Duration
}

// PollinationsClient implements TextGenerator and Imager against pollinations.ai.
type PollinationsClient struct {
	textURL    string
	imageURL   string
	httpClient *http.Client
}

type pollinationsRequest struct {
	Messages    []Turn  `json:"messages"`
	Model       string  `json:"model,omitempty"`
	Seed        int     `json:"seed"`
	Temperature float64 `json:"temperature,omitempty"`
	JSONMode    bool    `json:"jsonMode,omitempty"`
}

// NewPollinationsClient creates a client; empty URLs use the public endpoints.
func NewPollinationsClient(cfg PollinationsConfig) *PollinationsClient {
	if cfg.TextBaseURL == "" {
		cfg.TextBaseURL = DefaultPollinationsTextURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultPollinationsImageURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &PollinationsClient{
		textURL:    strings.TrimRight(cfg.TextBaseURL, "/"),
		imageURL:   strings.TrimRight(cfg.ImageBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider name.
func (c *PollinationsClient) Name() string { return "pollinations" }

// Complete posts the conversation and returns the plain-text reply.
func (c *PollinationsClient) Complete(ctx context.Context, turns []Turn, opts TextOptions) (string, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "pollinations complete")
	defer timer.StopWithThreshold(20 * time.Second)

	body, err := json.Marshal(pollinationsRequest{
		Messages:    turns,
		Model:       opts.Model,
		Seed:        opts.Seed,
		Temperature: opts.Temperature,
		JSONMode:    opts.JSONMode,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.textURL+"/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.APIDebug("[Pollinations] complete: model=%s turns=%d", opts.Model, len(turns))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("[Pollinations] request failed: %v", err)
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logging.APIError("[Pollinations] status %d", resp.StatusCode)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrEmptyResponse
	}
	logging.API("[Pollinations] complete: response_len=%d", len(text))
	return text, nil
}

// Image builds the image URL. The service renders on first fetch, so no request is made here.
func (c *PollinationsClient) Image(ctx context.Context, req ImageRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("image prompt required")
	}

	q := url.Values{}
	if req.Width > 0 {
		q.Set("width", strconv.Itoa(req.Width))
	}
	if req.Height > 0 {
		q.Set("height", strconv.Itoa(req.Height))
	}
	q.Set("seed", strconv.Itoa(req.Seed))
	if req.Model != "" {
		q.Set("model", req.Model)
	}
	q.Set("nologo", strconv.FormatBool(req.NoLogo))
	q.Set("enhance", strconv.FormatBool(req.Enhance))

	u := c.imageURL + "/prompt/" + url.PathEscape(prompt) + "?" + q.Encode()
	logging.APIDebug("[Pollinations] image url built: %d chars", len(u))
	return u, nil
}
