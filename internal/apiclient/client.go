// Package apiclient is the shared HTTP request helper used by every
// platform client. It attaches credentials, encodes JSON bodies, and turns
// failures into RemoteAPIError or TransportError. It never retries.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Auth is the credential header attached to every request.
type Auth struct {
	Header string
	Value  string
}

// Bearer builds an "Authorization: Bearer <token>" credential.
func Bearer(token string) Auth { return Auth{Header: "Authorization", Value: "Bearer " + token} }

// Bot builds an "Authorization: Bot <token>" credential.
func Bot(token string) Auth { return Auth{Header: "Authorization", Value: "Bot " + token} }

// Header builds a credential carried in a custom header.
func Header(name, value string) Auth { return Auth{Header: name, Value: value} }

// Options configures a Client.
type Options struct {
	Platform   string
	BaseURL    string
	Auth       Auth
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Request describes one call. Path is relative to the client's base URL
// unless it is absolute (pagination links).
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response carries the parts of a successful reply callers may need
// beyond the decoded body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues authenticated JSON requests against one platform.
type Client struct {
	platform string
	http     *resty.Client
	logger   zerolog.Logger
}

// New creates a Client for a single platform.
func New(opts Options) *Client {
	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if opts.Auth.Header != "" {
		rc.SetHeader(opts.Auth.Header, opts.Auth.Value)
	}
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}

	return &Client{
		platform: opts.Platform,
		http:     rc,
		logger:   log.With().Str("component", "apiclient").Str("platform", opts.Platform).Logger(),
	}
}

// Platform returns the platform name used in errors and logs.
func (c *Client) Platform() string { return c.platform }

// Do issues the request and decodes a JSON reply into out when out is
// non-nil and the reply has a body.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Response, error) {
	if strings.TrimSpace(req.Path) == "" {
		return nil, ErrEmptyPath
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	r := c.http.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		r.SetHeader("Content-Type", "application/json").SetBody(data)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("request failed")
		return nil, &TransportError{Platform: c.platform, Method: req.Method, Path: req.Path, Err: err}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.IsError() {
		return nil, &RemoteAPIError{
			Platform:   c.platform,
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	body := resp.Body()
	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("decoding %s %s response: %w", req.Method, req.Path, err)
		}
	}

	return &Response{StatusCode: resp.StatusCode(), Header: resp.Header(), Body: body}, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}
