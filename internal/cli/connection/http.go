package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rambotech/dropzone-go/internal/infra/tlsroots"
)

// Client provides HTTP communication with a dropzone-server.
type Client struct {
	baseURL     string
	client      *http.Client
	accessToken string
	adminToken  string
}

// Option configures a Client.
type Option func(*Client) error

// WithAdminToken sets the admin token sent on admin requests.
func WithAdminToken(token string) Option {
	return func(c *Client) error {
		c.adminToken = token
		return nil
	}
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.client.Timeout = d
		return nil
	}
}

// WithCAFile trusts the certificates in the given PEM file, in
// addition to the system roots, for TLS connections to the server.
func WithCAFile(path string) Option {
	return func(c *Client) error {
		pool, err := tlsroots.NewPool()
		if err != nil {
			return err
		}
		if err := pool.AddCertFile(path); err != nil {
			return err
		}
		c.client.Transport = &http.Transport{
			TLSClientConfig: pool.TLSConfig(),
		}
		return nil
	}
}

// NewClient creates a client for the given server address. Addresses
// without a scheme default to http://.
func NewClient(server, accessToken string, opts ...Option) (*Client, error) {
	baseURL := server
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, "", nil, false)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, "", nil, false)
}

// Post performs a POST request with a raw body. Payload and reference
// values go over the wire as-is.
func (c *Client) Post(ctx context.Context, path, body string) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body, nil, false)
}

// PostJSON performs a POST request with a JSON-encoded body.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, "", body, false)
}

// AdminGet performs a GET request authenticated with the admin token.
func (c *Client) AdminGet(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, "", nil, true)
}

// AdminPost performs a POST request authenticated with the admin token.
func (c *Client) AdminPost(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, "", body, true)
}

// AdminDelete performs a DELETE request authenticated with the admin token.
func (c *Client) AdminDelete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, "", nil, true)
}

func (c *Client) do(ctx context.Context, method, path, rawBody string, jsonBody any, admin bool) (*http.Response, error) {
	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case jsonBody != nil:
		data, err := json.Marshal(jsonBody)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = strings.NewReader(string(data))
		contentType = "application/json"
	case rawBody != "":
		reader = strings.NewReader(rawBody)
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if admin {
		req.Header.Set("X-Admin-Token", c.adminToken)
	} else if c.accessToken != "" {
		req.Header.Set("X-Access-Token", c.accessToken)
	}
	req.Header.Set("User-Agent", "dropzone-cli/1.0")

	return c.client.Do(req)
}

// envelope mirrors the server's response envelope.
type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details any             `json:"details"`
}

// ParseResponse unwraps the server response envelope and decodes its
// data field into target. A 204 leaves target untouched and returns
// ErrNoPayload; error responses become "[CODE] message" errors.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return ErrNoPayload
	}

	if resp.StatusCode >= 400 {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
			return fmt.Errorf("[%s] %s", env.Code, env.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if target == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("parse response data: %w", err)
	}
	return nil
}

// ErrNoPayload is returned by ParseResponse when the server answered
// 204: the zone has no payload waiting for the recipient.
var ErrNoPayload = errors.New("no payload available")
