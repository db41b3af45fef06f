package slack

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ta-agent/taagent/internal/apiclient"
)

const (
	// DefaultReadLimit is used when ReadMessages is called with limit 0.
	DefaultReadLimit = 50
	// MaxReadLimit caps one conversations.history page.
	MaxReadLimit = 200
	// DefaultMonitorDuration applies when MonitorChannel gets duration <= 0.
	DefaultMonitorDuration = 60 * time.Second
	// MaxMonitorDuration bounds how long one monitor call blocks.
	MaxMonitorDuration = 10 * time.Minute
)

// Message is the projection of a channel message. ID and Timestamp are
// both Slack's ts, which doubles as the message identifier.
type Message struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	Timestamp   string   `json:"timestamp"`
	Attachments []string `json:"attachments"`
}

type rawMessage struct {
	TS          string `json:"ts"`
	Text        string `json:"text"`
	User        string `json:"user"`
	BotID       string `json:"bot_id"`
	Attachments []struct {
		URL string `json:"url"`
	} `json:"attachments"`
	Files []struct {
		URL string `json:"url_private"`
	} `json:"files"`
}

type historyResponse struct {
	Messages []rawMessage `json:"messages"`
	HasMore  bool         `json:"has_more"`
}

// userNames resolves user IDs to names once per call.
type userNames struct {
	c     *Client
	ws    string
	cache map[string]string
}

func (u *userNames) name(ctx context.Context, id string) string {
	if id == "" {
		id = "UNKNOWN"
	}
	if n, ok := u.cache[id]; ok {
		return n
	}
	n := fmt.Sprintf("Unknown User (%s)", id)
	if user, err := u.c.LookupUser(ctx, u.ws, id); err == nil && user.Name != "" {
		n = user.Name
	}
	u.cache[id] = n
	return n
}

func (u *userNames) project(ctx context.Context, m rawMessage) Message {
	urls := make([]string, 0, len(m.Attachments)+len(m.Files))
	for _, a := range m.Attachments {
		if a.URL != "" {
			urls = append(urls, a.URL)
		}
	}
	for _, f := range m.Files {
		if f.URL != "" {
			urls = append(urls, f.URL)
		}
	}
	return Message{
		ID:          m.TS,
		Content:     m.Text,
		Author:      u.name(ctx, m.User),
		Timestamp:   m.TS,
		Attachments: urls,
	}
}

func (c *Client) history(ctx context.Context, api *apiclient.Client, channel string, q url.Values) (*historyResponse, error) {
	q.Set("channel", channel)
	var resp historyResponse
	if err := c.get(ctx, api, "conversations.history", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReadMessages returns up to limit messages, newest first. When before is
// set only messages strictly older than that ts are returned.
func (c *Client) ReadMessages(ctx context.Context, workspace, channel string, limit int, before string) ([]Message, error) {
	ws, api, err := c.workspace(workspace)
	if err != nil {
		return nil, err
	}
	names := &userNames{c: c, ws: ws, cache: map[string]string{}}
	page, _, err := c.readPage(ctx, api, names, channel, limit, before)
	return page, err
}

// readPage fetches one conversations.history page and reports whether
// Slack holds older messages beyond it.
func (c *Client) readPage(ctx context.Context, api *apiclient.Client, names *userNames, channel string, limit int, before string) ([]Message, bool, error) {
	switch {
	case limit <= 0:
		limit = DefaultReadLimit
	case limit > MaxReadLimit:
		limit = MaxReadLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if before != "" {
		q.Set("latest", before)
		q.Set("inclusive", "false")
	}
	resp, err := c.history(ctx, api, channel, q)
	if err != nil {
		return nil, false, err
	}

	out := make([]Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		out = append(out, names.project(ctx, m))
	}
	return out, resp.HasMore, nil
}

// ReadHistory walks a channel backwards while Slack reports has_more or
// until max is reached. Slack may return short pages mid-channel, so page
// size alone never ends the walk. max <= 0 reads the whole channel.
func (c *Client) ReadHistory(ctx context.Context, workspace, channel string, max int, onPage func(page []Message)) ([]Message, error) {
	ws, api, err := c.workspace(workspace)
	if err != nil {
		return nil, err
	}
	names := &userNames{c: c, ws: ws, cache: map[string]string{}}

	var all []Message
	before := ""
	for {
		limit := MaxReadLimit
		if max > 0 && max-len(all) < limit {
			limit = max - len(all)
		}
		page, hasMore, err := c.readPage(ctx, api, names, channel, limit, before)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if onPage != nil {
			onPage(page)
		}
		if !hasMore || len(page) == 0 || (max > 0 && len(all) >= max) {
			return all, nil
		}
		before = page[len(page)-1].ID
	}
}

// SentMessage is the projection returned by SendMessage.
type SentMessage struct {
	ID        string `json:"id"`
	Channel   string `json:"channel"`
	Timestamp string `json:"timestamp"`
}

// SendMessage posts text to a channel, in a thread when threadTS is set.
func (c *Client) SendMessage(ctx context.Context, workspace, channel, text, threadTS string) (*SentMessage, error) {
	_, api, err := c.workspace(workspace)
	if err != nil {
		return nil, err
	}
	body := map[string]any{"channel": channel, "text": text}
	if threadTS != "" {
		body["thread_ts"] = threadTS
	}
	var resp struct {
		TS      string `json:"ts"`
		Channel string `json:"channel"`
	}
	if err := c.post(ctx, api, "chat.postMessage", body, &resp); err != nil {
		return nil, err
	}
	ch := resp.Channel
	if ch == "" {
		ch = channel
	}
	return &SentMessage{ID: resp.TS, Channel: ch, Timestamp: resp.TS}, nil
}

// MonitorChannel polls a channel for the given duration and returns the
// messages that arrived meanwhile, oldest first. Cancelling ctx stops the
// watch early and returns what was collected so far.
func (c *Client) MonitorChannel(ctx context.Context, workspace, channel string, duration time.Duration) ([]Message, error) {
	ws, api, err := c.workspace(workspace)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		duration = DefaultMonitorDuration
	}
	if duration > MaxMonitorDuration {
		duration = MaxMonitorDuration
	}

	baseline, err := c.history(ctx, api, channel, url.Values{"limit": {"1"}})
	if err != nil {
		return nil, err
	}
	latest := "0"
	if len(baseline.Messages) > 0 {
		latest = baseline.Messages[0].TS
	}

	c.logger.Info().Str("workspace", ws).Str("channel", channel).Dur("duration", duration).Msg("monitoring channel")

	names := &userNames{c: c, ws: ws, cache: map[string]string{}}
	collected := []Message{}
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(duration)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return collected, nil
		case <-deadline.C:
			c.logger.Info().Str("channel", channel).Int("messages", len(collected)).Msg("monitoring complete")
			return collected, nil
		case <-ticker.C:
		}

		fresh, err := c.since(ctx, api, channel, latest)
		if err != nil {
			return collected, err
		}
		if len(fresh) == 0 {
			continue
		}
		latest = fresh[0].TS
		for i := len(fresh) - 1; i >= 0; i-- {
			collected = append(collected, names.project(ctx, fresh[i]))
		}
	}
}

// since returns every message newer than oldest, newest first. A burst
// larger than one page is walked back with the latest cursor so nothing
// between the watermark and the newest message is skipped.
func (c *Client) since(ctx context.Context, api *apiclient.Client, channel, oldest string) ([]rawMessage, error) {
	var fresh []rawMessage
	latest := ""
	for {
		q := url.Values{"oldest": {oldest}, "limit": {strconv.Itoa(MaxReadLimit)}}
		if latest != "" {
			q.Set("latest", latest)
			q.Set("inclusive", "false")
		}
		resp, err := c.history(ctx, api, channel, q)
		if err != nil {
			return fresh, err
		}
		// oldest may be inclusive; drop the watermark message itself.
		for _, m := range resp.Messages {
			if m.TS != oldest {
				fresh = append(fresh, m)
			}
		}
		if !resp.HasMore || len(resp.Messages) == 0 {
			return fresh, nil
		}
		latest = resp.Messages[len(resp.Messages)-1].TS
	}
}
