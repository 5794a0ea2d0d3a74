// Package ai wraps the Gemini generative-language REST API for vocabulary
// extraction and word lookup.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"langlab_backend/models"
)

// Client calls the Gemini API. A client constructed without an API key is
// still usable; every call fails with ErrAIRequestFailed so the rest of the
// app degrades instead of crashing.
type Client struct {
	log        *zap.SugaredLogger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *zap.SugaredLogger) *Client {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		log.Warn("GEMINI_API_KEY is not set; AI features will be disabled")
	}

	baseURL := strings.TrimSpace(os.Getenv("GEMINI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = "gemini-2.5-flash"
	}

	timeoutSec := 60
	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := os.Getenv("GEMINI_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &Client{
		log:        log.With("service", "GeminiClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func (c *Client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *Client) do(ctx context.Context, path string, body any) ([]byte, error) {
	backoff := 1 * time.Second

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			return raw, nil
		}

		if !isRetryable(err) || attempt == c.maxRetries {
			return nil, classify(err)
		}

		sleepFor := retryAfter(resp, backoff)
		c.log.Warnw("Gemini request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff *= 2
	}
}

func isRetryable(err error) bool {
	var he *httpError
	if errors.As(err, &he) {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500
	}
	// Network-level failures are worth a retry.
	return true
}

func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if resp != nil {
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 && secs <= 30 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return fallback
}

// classify maps a transport failure onto the session-facing error taxonomy.
// Rate limiting gets its own sentinel so the UI can show a friendlier
// message.
func classify(err error) error {
	var he *httpError
	if errors.As(err, &he) {
		if he.StatusCode == http.StatusTooManyRequests || strings.Contains(he.Body, "RESOURCE_EXHAUSTED") {
			return fmt.Errorf("%w: %v", models.ErrAIRateLimited, err)
		}
	}
	return fmt.Errorf("%w: %v", models.ErrAIRequestFailed, err)
}

// generateContent runs one structured-output generation and returns the
// model's JSON text.
func (c *Client) generateContent(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY is not configured", models.ErrAIRequestFailed)
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   schema,
		},
	}

	raw, err := c.do(ctx, "/v1beta/models/"+c.model+":generateContent", body)
	if err != nil {
		return "", err
	}

	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text").String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", models.ErrAIRequestFailed)
	}
	return text, nil
}
