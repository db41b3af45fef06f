// Package canvas wraps the Canvas LMS REST API. Every call returns a
// whitelisted projection of the remote resource; nothing is cached.
package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ta-agent/taagent/internal/apiclient"
	"github.com/ta-agent/taagent/internal/config"
)

// Client talks to one Canvas instance with a single bearer token.
type Client struct {
	api      *apiclient.Client
	perPage  int
	maxPages int
}

// New builds a Client from the canvas configuration section.
func New(cfg config.CanvasConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if !strings.HasSuffix(base, "/api/v1") {
		base += "/api/v1"
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	return &Client{
		api: apiclient.New(apiclient.Options{
			Platform: "canvas",
			BaseURL:  base,
			Auth:     apiclient.Bearer(cfg.Token),
			Timeout:  cfg.Timeout,
		}),
		perPage:  perPage,
		maxPages: cfg.MaxPages,
	}
}

// getAll follows Link rel="next" headers and concatenates each page.
// maxPages <= 0 means no limit.
func getAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("per_page", strconv.Itoa(c.perPage))

	var all []T
	next := path
	for page := 0; next != ""; page++ {
		if c.maxPages > 0 && page >= c.maxPages {
			break
		}
		var batch []T
		var (
			resp *apiclient.Response
			err  error
		)
		if page == 0 {
			resp, err = c.api.Get(ctx, path, q, &batch)
		} else {
			resp, err = c.api.Get(ctx, next, nil, &batch)
		}
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		next = nextLink(resp)
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}

func coursePath(courseID int64, parts ...any) string {
	return joinPath(append([]any{"courses", courseID}, parts...)...)
}

func joinPath(parts ...any) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('/')
		switch v := p.(type) {
		case string:
			b.WriteString(url.PathEscape(v))
		default:
			b.WriteString(fmt.Sprint(v))
		}
	}
	return b.String()
}

// Deleted is the acknowledgement returned by delete operations.
type Deleted struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

func nextLink(resp *apiclient.Response) string {
	if resp == nil {
		return ""
	}
	return apiclient.NextLink(resp.Header)
}
