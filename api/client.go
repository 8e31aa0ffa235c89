package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/rag"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Interface compliance check.
var _ rag.Asker = (*Client)(nil)

// Client talks to the RAG backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     rag.TokenSource
	log        logrus.FieldLogger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where the bearer token is read from. The source is
// consulted once per outgoing request.
func WithTokenSource(src rag.TokenSource) Option {
	return func(c *Client) { c.tokens = src }
}

// WithLogger sets the logger used for fallback and malformed-frame reports.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    rag.DefaultBaseURL,
		httpClient: http.DefaultClient,
		log:        discardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newRequest builds a request against the API and attaches the bearer
// token and a fresh request id.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}
	return req, nil
}

// do sends a JSON request and decodes a JSON response into out. A nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	req, err := c.newJSONRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", jsonContentType)
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w: %w", rag.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseHTTPError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) logger(req *http.Request) logrus.FieldLogger {
	return c.log.WithFields(logrus.Fields{
		"request_id": req.Header.Get(requestIDHeader),
		"path":       req.URL.Path,
	})
}

// StatusError is returned for non-2xx responses. Code and Detail come from
// the backend's {"error": ..., "detail": ...} body when present.
type StatusError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *StatusError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api: HTTP %d", e.StatusCode)
	if e.Code != "" {
		b.WriteString(": " + e.Code)
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	return b.String()
}

// Unwrap maps authentication and lookup failures onto the rag sentinels.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return rag.ErrUnauthorized
	case http.StatusNotFound:
		return rag.ErrNotFound
	default:
		return nil
	}
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("failed to read body: %v", err)}
	}
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}
	detail := apiErr.Detail
	if detail == "" {
		detail = apiErr.IngestError
	}
	return &StatusError{StatusCode: resp.StatusCode, Code: apiErr.Error, Detail: detail}
}
