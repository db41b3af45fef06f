package bots

import (
	"context"
	"fmt"
	"strings"

	"github.com/ta-agent/taagent/internal/slack"
)

// MessageHandler processes incoming messages and produces responses.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error)
}

// Poster sends a message to a Slack channel. *slack.Client satisfies it.
type Poster interface {
	SendMessage(ctx context.Context, workspace, channel, text, threadTS string) (*slack.SentMessage, error)
}

// Gateway routes messages to a handler and posts the replies.
type Gateway struct {
	handler MessageHandler
	poster  Poster
}

// NewGateway creates a new Gateway with the given message handler.
func NewGateway(handler MessageHandler, poster Poster) *Gateway {
	return &Gateway{handler: handler, poster: poster}
}

// Process routes an incoming message through the handler and posts the
// reply, if any.
func (g *Gateway) Process(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	out, err := g.handler.HandleMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Text == "" {
		return out, nil
	}
	if _, err := g.poster.SendMessage(ctx, out.Workspace, out.ChannelID, slackText(out.Text), out.ThreadID); err != nil {
		return out, fmt.Errorf("posting reply: %w", err)
	}
	return out, nil
}

// slackText rewrites the Markdown the model tends to produce into Slack
// mrkdwn: **bold** becomes *bold* and "- " list items become bullets.
func slackText(text string) string {
	text = strings.ReplaceAll(text, "**", "*")
	if !strings.Contains(text, "\n") && !strings.HasPrefix(text, "- ") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "- ") {
			lines[i] = line[:len(line)-len(trimmed)] + "• " + trimmed[2:]
		}
	}
	return strings.Join(lines, "\n")
}
