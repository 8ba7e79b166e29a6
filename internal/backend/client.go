// Package backend is the client for the portal's REST API. Every call forwards the
// caller's bearer token and unwraps the {success, statusCode, message, data} envelope.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

var (
	ErrMissingToken   = errors.New("bearer token required")
	ErrBackendRequest = errors.New("backend request failed")
)

// RequestError describes a failed backend call. Status is zero when the
// backend was never reached.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend unreachable: %s", e.Message)
	}
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

func (e *RequestError) Unwrap() error {
	return ErrBackendRequest
}

// Envelope is the backend's response wrapper.
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// Client issues authenticated JSON requests to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With("system", "backend"),
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body as JSON to path and decodes the envelope's data into out.
// body and out may be nil.
func (c *Client) Do(ctx context.Context, token, method, path string, body, out any) error {
	if token == "" {
		return ErrMissingToken
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", "method", method, "path", path, "error", err)
		return &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Message: err.Error()}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 && len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		return &RequestError{Status: resp.StatusCode, Message: responseText(resp.StatusCode, raw)}
	}

	if !env.Success || resp.StatusCode >= 300 {
		status := env.StatusCode
		if status == 0 {
			status = resp.StatusCode
		}
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		c.logger.Info("backend request rejected", "method", method, "path", path, "status", status, "message", msg)
		return &RequestError{Status: status, Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("decode data: %v", err)}
		}
	}
	return nil
}

func responseText(status int, raw []byte) string {
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}

// HTTPStatus maps a backend error to the status the portal should answer with.
func HTTPStatus(err error) int {
	if errors.Is(err, ErrMissingToken) {
		return http.StatusUnauthorized
	}
	var re *RequestError
	if errors.As(err, &re) {
		if re.Status >= 400 && re.Status < 600 {
			return re.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
