// Package aicheck asks the ZeroGPT detector whether a text reads as
// AI-generated.
package aicheck

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ta-agent/taagent/internal/apiclient"
	"github.com/ta-agent/taagent/internal/config"
)

// ErrEmptyText is returned before any request when there is nothing to check.
var ErrEmptyText = errors.New("text to check must not be empty")

// Result is the detector's verdict.
type Result struct {
	IsHuman            float64 `json:"is_human"`
	FakePercentage     float64 `json:"fake_percentage"`
	Feedback           string  `json:"feedback"`
	AdditionalFeedback string  `json:"additional_feedback"`
	TextWords          int     `json:"text_words"`
	AIWords            int     `json:"ai_words"`
	DetectedLanguage   string  `json:"detected_language"`
}

// Client calls the detection endpoint.
type Client struct {
	api  *apiclient.Client
	path string
}

// New builds a Client. The configured URL is the full endpoint.
func New(cfg config.AICheckConfig) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid aicheck url %q", cfg.URL)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return &Client{
		api: apiclient.New(apiclient.Options{
			Platform: "zerogpt",
			BaseURL:  u.Scheme + "://" + u.Host,
			Auth:     apiclient.Header("ApiKey", cfg.APIKey),
			Timeout:  cfg.Timeout,
		}),
		path: path,
	}, nil
}

type detectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		IsHuman            float64 `json:"isHuman"`
		FakePercentage     float64 `json:"fakePercentage"`
		Feedback           string  `json:"feedback"`
		AdditionalFeedback string  `json:"additional_feedback"`
		TextWords          int     `json:"textWords"`
		AIWords            int     `json:"aiWords"`
		DetectedLanguage   string  `json:"detected_language"`
	} `json:"data"`
}

// Check submits text for detection. A response with success=false is
// reported as a RemoteAPIError carrying the detector's message.
func (c *Client) Check(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	var resp detectResponse
	raw, err := c.api.Post(ctx, c.path, map[string]any{"input_text": text}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Unknown error from ZeroGPT API."
		}
		return nil, &apiclient.RemoteAPIError{
			Platform:   "zerogpt",
			Method:     "POST",
			Path:       c.path,
			StatusCode: raw.StatusCode,
			Body:       msg,
		}
	}
	d := resp.Data
	return &Result{
		IsHuman:            d.IsHuman,
		FakePercentage:     d.FakePercentage,
		Feedback:           d.Feedback,
		AdditionalFeedback: d.AdditionalFeedback,
		TextWords:          d.TextWords,
		AIWords:            d.AIWords,
		DetectedLanguage:   d.DetectedLanguage,
	}, nil
}
