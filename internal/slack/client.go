// Package slack is a thin Slack Web API client holding one bot token per
// workspace. Workspaces are picked by name on every call.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ta-agent/taagent/internal/apiclient"
	"github.com/ta-agent/taagent/internal/config"
)

// Client routes calls to the workspace named by the caller.
type Client struct {
	workspaces       map[string]*apiclient.Client
	defaultWorkspace string
	pollInterval     time.Duration
	logger           zerolog.Logger
}

// New builds a Client with one API client per configured workspace.
func New(cfg config.SlackConfig) *Client {
	c := &Client{
		workspaces:       make(map[string]*apiclient.Client, len(cfg.Workspaces)),
		defaultWorkspace: strings.ToLower(cfg.DefaultWorkspace),
		pollInterval:     cfg.PollInterval,
		logger:           log.With().Str("component", "slack").Logger(),
	}
	if c.pollInterval <= 0 {
		c.pollInterval = 5 * time.Second
	}
	for name, token := range cfg.Workspaces {
		c.workspaces[strings.ToLower(name)] = apiclient.New(apiclient.Options{
			Platform: "slack",
			BaseURL:  cfg.BaseURL,
			Auth:     apiclient.Bearer(token),
			Timeout:  cfg.Timeout,
		})
	}
	return c
}

// Workspaces returns the configured workspace names, sorted.
func (c *Client) Workspaces() []string {
	names := make([]string, 0, len(c.workspaces))
	for name := range c.workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// workspace resolves a name case-insensitively. Empty or unknown names
// fall back to the default workspace.
func (c *Client) workspace(name string) (string, *apiclient.Client, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if api, ok := c.workspaces[key]; ok {
		return key, api, nil
	}
	if api, ok := c.workspaces[c.defaultWorkspace]; ok {
		if key != "" {
			c.logger.Debug().Str("requested", name).Str("using", c.defaultWorkspace).Msg("unknown workspace, using default")
		}
		return c.defaultWorkspace, api, nil
	}
	return "", nil, fmt.Errorf("no token configured for slack workspace %q", name)
}

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// call issues a Web API method and unwraps Slack's {"ok": false} failures
// into RemoteAPIError.
func (c *Client) call(ctx context.Context, api *apiclient.Client, httpMethod, method string, query url.Values, body, out any) error {
	resp, err := api.Do(ctx, apiclient.Request{Method: httpMethod, Path: "/" + method, Query: query, Body: body}, nil)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return fmt.Errorf("decoding slack %s response: %w", method, err)
	}
	if !env.OK {
		return &apiclient.RemoteAPIError{
			Platform:   "slack",
			Method:     httpMethod,
			Path:       "/" + method,
			StatusCode: resp.StatusCode,
			Body:       env.Error,
		}
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("decoding slack %s response: %w", method, err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, api *apiclient.Client, method string, query url.Values, out any) error {
	return c.call(ctx, api, http.MethodGet, method, query, nil, out)
}

func (c *Client) post(ctx context.Context, api *apiclient.Client, method string, body, out any) error {
	return c.call(ctx, api, http.MethodPost, method, nil, body, out)
}
