package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("file store: %d %s", e.StatusCode, e.Message)
}

type listResponse struct {
	Message string   `json:"mensaje"`
	Content []string `json:"contenido"`
}

type readResponse struct {
	Message string `json:"mensaje"`
	Content string `json:"contenido"`
}

type messageResponse struct {
	Message string `json:"mensaje"`
}

// Client talks to a file store server.
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return NewWithResty(resty.New().SetTimeout(defaultTimeout), baseURL)
}

// NewWithResty reuses an existing resty client, e.g. one with retries configured.
func NewWithResty(rc *resty.Client, baseURL string) *Client {
	rc.SetBaseURL(strings.TrimRight(baseURL, "/"))
	rc.SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

// List returns every stored file name.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var out listResponse
	resp, err := c.request(ctx).SetResult(&out).Get("/files")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return out.Content, nil
}

// Create stores a new file. It fails with a 409 APIError if the name is taken.
func (c *Client) Create(ctx context.Context, filename, content string) error {
	body := map[string]string{"filename": filename, "content": content}
	resp, err := c.request(ctx).SetBody(body).Post("/files")
	return checkResponse(resp, err)
}

// Read returns the content of filename.
func (c *Client) Read(ctx context.Context, filename string) (string, error) {
	var out readResponse
	resp, err := c.request(ctx).SetResult(&out).Get(filePath(filename))
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	return out.Content, nil
}

// Update replaces the content of an existing file.
func (c *Client) Update(ctx context.Context, filename, content string) error {
	body := map[string]string{"content": content}
	resp, err := c.request(ctx).SetBody(body).Put(filePath(filename))
	return checkResponse(resp, err)
}

// Delete removes filename.
func (c *Client) Delete(ctx context.Context, filename string) error {
	resp, err := c.request(ctx).Delete(filePath(filename))
	return checkResponse(resp, err)
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetError(&messageResponse{})
}

func filePath(filename string) string {
	return "/files/" + url.PathEscape(filename)
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("file store request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	if msg, ok := resp.Error().(*messageResponse); ok && msg.Message != "" {
		apiErr.Message = msg.Message
	}
	return apiErr
}
