// Package backend is the HTTP client for the marketplace REST API.
//
// Every request goes through Do, which normalizes the path against the
// configured base URL, attaches the bearer token when one is present,
// serializes JSON bodies, and decodes JSON responses. Non-2xx responses
// become *APIError values carrying the status code and the best available
// message from the response body.
package backend

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client issues requests against a single API base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

// New constructs a Client for the given base URL. A trailing slash on the
// base URL is trimmed so path joining stays predictable.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() {
	c.httpc.CloseIdleConnections()
}

// Ping checks that the backend answers HTTP at all. Any HTTP status counts
// as reachable; only transport-level failures are errors. Reference lists
// such as /roles/ require auth, so reachability uses the bare base URL.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, io.LimitReader(res.Body, 1<<16))
	return nil
}

// APIError is a non-success response from the backend. Message is extracted
// from the body's "error" or "message" field when present, else the raw text
// body, else a generic "request failed (status)" string. Body holds the
// decoded JSON body (or raw text) for callers that need detail.
type APIError struct {
	Status  int
	Message string
	Body    any
}

func (e *APIError) Error() string { return e.Message }

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Do executes one request. A non-nil body is serialized as JSON with
// Content-Type application/json. When out is non-nil and the response
// declares a JSON content type, the body is decoded into out.
func (c *Client) Do(ctx context.Context, method, path, token string, body, out any) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	res, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("elapsed", time.Since(start)))

	isJSON := strings.Contains(res.Header.Get("Content-Type"), "application/json")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newAPIError(res.StatusCode, raw, isJSON)
	}

	if out != nil && len(raw) > 0 && isJSON {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path, token string, out any) error {
	return c.Do(ctx, http.MethodGet, path, token, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path, token string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, token, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path, token string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, token, body, out)
}

// Delete issues a DELETE request. Some endpoints take a JSON body on DELETE
// (the backend identifies the record from it), so body is allowed here.
func (c *Client) Delete(ctx context.Context, path, token string, body any) error {
	return c.Do(ctx, http.MethodDelete, path, token, body, nil)
}

func newAPIError(status int, raw []byte, isJSON bool) *APIError {
	apiErr := &APIError{Status: status}

	if isJSON {
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			apiErr.Body = decoded
			if msg, ok := decoded["error"].(string); ok && msg != "" {
				apiErr.Message = msg
			} else if msg, ok := decoded["message"].(string); ok && msg != "" {
				apiErr.Message = msg
			}
		}
	}
	if apiErr.Message == "" {
		if text := strings.TrimSpace(string(raw)); text != "" && !isJSON {
			apiErr.Message = text
			apiErr.Body = text
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed (%d)", status)
	}
	return apiErr
}
