// Package cohere provides embedding, rerank and generation adapters backed
// by the Cohere v2 API.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.cohere.com"
	DefaultChatModel   = "command-r-08-2024"
	DefaultEmbedModel  = "embed-multilingual-v3.0"
	DefaultRerankModel = "rerank-multilingual-v3.0"
	DefaultTimeout     = 60 * time.Second

	// ProactiveRate throttles outbound calls ahead of the API's own limits.
	ProactiveRate = 10 // requests per second

	// maxRetries bounds the transient-status retry budget per call.
	maxRetries = 3

	// retryBaseDelay is the first backoff step; each retry doubles it and
	// adds jitter of up to half the step.
	retryBaseDelay = 500 * time.Millisecond
)

// Config holds connection settings shared by all Cohere adapters.
type Config struct {
	// APIKey is the Cohere API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.com).
	BaseURL string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration
}

// Client is the shared HTTP client for the Cohere adapters. One instance is
// constructed per process and reused across requests.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// apiError is the Cohere error response body.
type apiError struct {
	Message string `json:"message"`
}

// NewClient creates a new Cohere API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}, nil
}

// retryableStatus reports whether a response status is a transient
// rate-limit or server-busy condition worth retrying. Everything else
// fails immediately.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// backoffDelay computes the exponential backoff with jitter for an attempt.
func backoffDelay(attempt int) time.Duration {
	step := retryBaseDelay << attempt
	return step + time.Duration(rand.Int63n(int64(step/2)+1))
}

// post sends one JSON request with proactive throttling and a bounded
// retry budget for transient statuses. The caller owns the response body.
func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err = c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("send request: %w", err)
		}

		if !retryableStatus(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		resp.Body.Close()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoffDelay(attempt)):
		}
	}
}

// postJSON sends a request and decodes a successful JSON response into out.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	resp, err := c.post(ctx, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("cohere error (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("cohere error (status %d): %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
