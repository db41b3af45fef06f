package tools

import (
	"context"
	"time"

	"github.com/ta-agent/taagent/internal/slack"
)

type workspaceArgs struct {
	Workspace string `json:"workspace,omitempty" jsonschema_description:"Slack workspace name; the default workspace when omitted"`
}

type readSlackArgs struct {
	Workspace string `json:"workspace,omitempty"`
	ChannelID string `json:"channel_id" validate:"required"`
	Limit     int    `json:"limit,omitempty" validate:"omitempty,min=1,max=1000" jsonschema_description:"Messages to return, default 50"`
	Before    string `json:"before,omitempty" jsonschema_description:"Only messages older than this timestamp"`
}

type sendSlackArgs struct {
	Workspace string `json:"workspace,omitempty"`
	ChannelID string `json:"channel_id" validate:"required"`
	Text      string `json:"text" validate:"required"`
	ThreadTS  string `json:"thread_ts,omitempty" jsonschema_description:"Reply in the thread of this message"`
}

type monitorSlackArgs struct {
	Workspace string `json:"workspace,omitempty"`
	ChannelID string `json:"channel_id" validate:"required"`
	Seconds   int    `json:"duration_seconds,omitempty" validate:"omitempty,min=1,max=600" jsonschema_description:"How long to watch, default 60, at most 600"`
}

type lookupSlackArgs struct {
	Workspace string `json:"workspace,omitempty"`
	UserID    string `json:"user_id" validate:"required"`
}

// RegisterSlack adds the Slack tools.
func RegisterSlack(r *Registry, c *slack.Client) {
	Register(r, "list_slack_channels", "List the public and private Slack channels the bot can see.",
		func(ctx context.Context, a workspaceArgs) (any, error) { return c.ListChannels(ctx, a.Workspace) })
	Register(r, "read_slack_messages", "Read recent messages from a Slack channel, newest first, with author names.",
		func(ctx context.Context, a readSlackArgs) (any, error) {
			return c.ReadMessages(ctx, a.Workspace, a.ChannelID, a.Limit, a.Before)
		})
	Register(r, "send_slack_message", "Post a message to a Slack channel, optionally as a thread reply.",
		func(ctx context.Context, a sendSlackArgs) (any, error) {
			return c.SendMessage(ctx, a.Workspace, a.ChannelID, a.Text, a.ThreadTS)
		})
	Register(r, "monitor_slack_channel", "Watch a Slack channel for a while and return the messages posted meanwhile, oldest first.",
		func(ctx context.Context, a monitorSlackArgs) (any, error) {
			return c.MonitorChannel(ctx, a.Workspace, a.ChannelID, time.Duration(a.Seconds)*time.Second)
		})
	Register(r, "lookup_slack_user", "Get a Slack member's name and whether they are a bot.",
		func(ctx context.Context, a lookupSlackArgs) (any, error) {
			return c.LookupUser(ctx, a.Workspace, a.UserID)
		})
}
