// Package client is the JSON API client used to talk to the backend. It
// coalesces concurrent identical reads and normalizes error responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// APIError is the normalized form of any non-2xx response.
type APIError struct {
	Message    string
	Status     int
	RetryAfter time.Duration // Populated for 429 responses.
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}

// Client wraps http.Client with JSON encoding and GET deduplication.
type Client struct {
	httpClient *http.Client
	baseURL    string
	group      singleflight.Group
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// NewWithHTTPClient creates a client with a caller-supplied http.Client,
// used by tests and callers needing custom transports.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Get performs a GET request. Concurrent identical GETs share one network
// call; every caller receives the same bytes.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	key := http.MethodGet + " " + c.baseURL + path

	value, err, _ := c.group.Do(key, func() (any, error) {
		return c.do(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return nil, err
	}

	body, ok := value.([]byte)
	if !ok {
		return nil, errors.New("unexpected coalesced response type")
	}

	return body, nil
}

// Post performs a POST request. Mutations are never coalesced.
func (c *Client) Post(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, payload)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, payload)
}

// Delete performs a DELETE request. The response body is always discarded;
// deletions report empty success.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)

	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp, raw)
	}

	// 204 and every DELETE response collapse to empty success.
	if resp.StatusCode == http.StatusNoContent || method == http.MethodDelete {
		return nil, nil
	}

	return raw, nil
}

// errorBody is the subset of the backend's error envelope the client needs.
type errorBody struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retryAfter"`
	Error      *struct {
		Details string `json:"details"`
	} `json:"error"`
}

func newAPIError(resp *http.Response, raw []byte) *APIError {
	apiErr := &APIError{
		Message: http.StatusText(resp.StatusCode),
		Status:  resp.StatusCode,
	}

	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
		if parsed.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(parsed.RetryAfter * float64(time.Second))
		}
	}

	// The Retry-After header wins over the body field.
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}
	}

	return apiErr
}
