// Package cloudinary is the HTTP transport to the object-storage provider's upload API.
// It posts multipart forms and returns raw responses; interpreting them is left to callers.
package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
)

// File is the payload part of an upload form.
type File struct {
	Name string
	Data []byte
}

// Response is the provider's raw reply.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client posts signed forms to one provider account. Requests carry no
// client-side timeout and are never retried.
type Client struct {
	baseURL   string
	cloudName string
	http      *http.Client
	logger    *slog.Logger
}

// New creates a Client. A nil httpClient uses http.DefaultClient.
func New(baseURL, cloudName string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		cloudName: cloudName,
		http:      httpClient,
		logger:    logger.With("system", "cloudinary"),
	}
}

// UploadURL returns the upload endpoint for resourceType ("image" or "raw").
func (c *Client) UploadURL(resourceType string) string {
	return fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, resourceType)
}

// DeleteURL returns the delete_by_token endpoint.
func (c *Client) DeleteURL() string {
	return fmt.Sprintf("%s/%s/delete_by_token", c.baseURL, c.cloudName)
}

// Upload posts fields and file to the upload endpoint for resourceType.
func (c *Client) Upload(ctx context.Context, resourceType string, fields map[string]string, file File) (*Response, error) {
	return c.post(ctx, c.UploadURL(resourceType), fields, &file)
}

// DeleteByToken posts fields to the delete_by_token endpoint.
func (c *Client) DeleteByToken(ctx context.Context, fields map[string]string) (*Response, error) {
	return c.post(ctx, c.DeleteURL(), fields, nil)
}

func (c *Client) post(ctx context.Context, url string, fields map[string]string, file *File) (*Response, error) {
	body, contentType, err := encodeForm(fields, file)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("provider request complete", "url", url, "status", resp.StatusCode)
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

func encodeForm(fields map[string]string, file *File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.WriteField(name, fields[name]); err != nil {
			return nil, "", err
		}
	}

	if file != nil {
		part, err := w.CreateFormFile("file", file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
