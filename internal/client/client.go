// Package client is a typed HTTP client for the site API. Every response must
// declare application/json; anything else fails with
// ErrUnexpectedResponseFormat instead of being guessed at.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
)

var ErrUnexpectedResponseFormat = errors.New("unexpected response format")

// APIError is a non-2xx response decoded from the API's error body.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
	Fields     []domain.FieldError
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Detail, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client handles HTTP communication with the backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a client for the API served at baseURL (without the /api suffix).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", httpx.ContentTypeJSON)
	}
	req.Header.Set("Accept", httpx.ContentTypeJSON)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != httpx.ContentTypeJSON {
		return fmt.Errorf("%w: %s %s returned status %d with content type %q",
			ErrUnexpectedResponseFormat, method, path, resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp httpx.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("%w: undecodable error body (status %d): %v", ErrUnexpectedResponseFormat, resp.StatusCode, err)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Message,
			Detail:     errResp.Error,
			Fields:     errResp.Fields,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponseFormat, err)
	}
	return nil
}
