// Package remote talks to a JSONBin-compatible blob store: one JSON document ("bin") per
// user, created once and then replaced wholesale on every save.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public JSONBin v3 API.
const DefaultBaseURL = "https://api.jsonbin.io/v3"

// DefaultBinName labels bins created by this app.
const DefaultBinName = "300-workout-tracker"

const (
	headerAccessKey = "X-Access-Key"
	headerBinName   = "X-Bin-Name"
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("remote store not configured")
	// ErrNoBin is returned when reading before a bin exists.
	ErrNoBin = errors.New("no remote bin")
)

// StatusError is a non-2xx response from the remote store.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.Status, e.Body)
}

// retryable reports whether another attempt could succeed.
func (e *StatusError) retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// Client is a JSONBin v3 client. A Client without an API key is disabled and every call
// returns ErrNotConfigured.
type Client struct {
	baseURL    string
	apiKey     string
	binName    string
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the number of attempts per call and the first backoff delay, which
// doubles after each failed attempt.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.backoff = backoff
	}
}

// NewClient creates a client for baseURL. timeout bounds each HTTP request.
func NewClient(baseURL, apiKey, binName string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if binName == "" {
		binName = DefaultBinName
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		binName:    binName,
		httpClient: &http.Client{Timeout: timeout},
		attempts:   3,
		backoff:    time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Latest returns the current record of a bin.
func (c *Client) Latest(ctx context.Context, binID string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	if binID == "" {
		return nil, ErrNoBin
	}
	body, err := c.do(ctx, "fetching bin", http.MethodGet, "/b/"+binID+"/latest", nil, nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding bin: %w", err)
	}
	if len(env.Record) == 0 {
		return nil, fmt.Errorf("decoding bin: response has no record")
	}
	return env.Record, nil
}

// Update replaces the record of an existing bin.
func (c *Client) Update(ctx context.Context, binID string, data []byte) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	if binID == "" {
		return ErrNoBin
	}
	_, err := c.do(ctx, "updating bin", http.MethodPut, "/b/"+binID, data, nil)
	return err
}

// Create stores data in a new bin and returns its ID.
func (c *Client) Create(ctx context.Context, data []byte) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	body, err := c.do(ctx, "creating bin", http.MethodPost, "/b", data, map[string]string{headerBinName: c.binName})
	if err != nil {
		return "", err
	}
	var env struct {
		Metadata struct {
			ID string `json:"id"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("decoding created bin: %w", err)
	}
	if env.Metadata.ID == "" {
		return "", fmt.Errorf("decoding created bin: response has no id")
	}
	return env.Metadata.ID, nil
}

// do sends one request, retrying transport errors, 5xx and 429 with exponential backoff.
func (c *Client) do(ctx context.Context, op, method, path string, data []byte, headers map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := range c.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		body, err := c.once(ctx, op, method, path, data, headers)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) once(ctx context.Context, op, method, path string, data []byte, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if data != nil {
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set(headerAccessKey, c.apiKey)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
