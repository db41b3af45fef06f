package tools

import (
	"context"

	"github.com/ta-agent/taagent/internal/discord"
)

type guildArgs struct {
	GuildID string `json:"guild_id" validate:"required" jsonschema_description:"Discord server (guild) ID"`
}

type readDiscordArgs struct {
	ChannelID string `json:"channel_id" validate:"required"`
	Limit     int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100" jsonschema_description:"Messages to return, 1-100, default 50"`
	Before    string `json:"before,omitempty" jsonschema_description:"Only messages older than this message ID"`
}

type createServerArgs struct {
	Name string `json:"name" validate:"required,min=2,max=100" jsonschema_description:"Server name"`
}

type sendDiscordArgs struct {
	ChannelID        string `json:"channel_id" validate:"required"`
	Content          string `json:"content" validate:"required,max=2000"`
	EmbedTitle       string `json:"embed_title,omitempty" validate:"max=256"`
	EmbedDescription string `json:"embed_description,omitempty" validate:"max=4096"`
}

type editDiscordArgs struct {
	ChannelID string `json:"channel_id" validate:"required"`
	MessageID string `json:"message_id" validate:"required"`
	Content   string `json:"content" validate:"required,max=2000"`
}

type deleteDiscordArgs struct {
	ChannelID string `json:"channel_id" validate:"required"`
	MessageID string `json:"message_id" validate:"required"`
}

// RegisterDiscord adds the Discord tools.
func RegisterDiscord(r *Registry, c *discord.Client) {
	Register(r, "list_discord_channels", "List the text channels and categories of a Discord server.",
		func(ctx context.Context, a guildArgs) (any, error) { return c.ListChannels(ctx, a.GuildID) })
	Register(r, "read_discord_messages", "Read recent messages from a Discord channel, newest first. Use before to page back.",
		func(ctx context.Context, a readDiscordArgs) (any, error) {
			return c.ReadMessages(ctx, a.ChannelID, a.Limit, a.Before)
		})
	Register(r, "create_discord_server", "Create a Discord server with a general channel and return a permanent invite link.",
		func(ctx context.Context, a createServerArgs) (any, error) { return c.CreateServer(ctx, a.Name) })
	Register(r, "send_discord_message", "Post a message to a Discord channel, optionally with an embed.",
		func(ctx context.Context, a sendDiscordArgs) (any, error) {
			var embed *discord.Embed
			if a.EmbedTitle != "" || a.EmbedDescription != "" {
				embed = &discord.Embed{Title: a.EmbedTitle, Description: a.EmbedDescription}
			}
			return c.SendMessage(ctx, a.ChannelID, a.Content, embed)
		})
	Register(r, "edit_discord_message", "Replace the content of a message the bot posted.",
		func(ctx context.Context, a editDiscordArgs) (any, error) {
			return c.EditMessage(ctx, a.ChannelID, a.MessageID, a.Content)
		})
	Register(r, "delete_discord_message", "Delete a message from a Discord channel.",
		func(ctx context.Context, a deleteDiscordArgs) (any, error) {
			return c.DeleteMessage(ctx, a.ChannelID, a.MessageID)
		})
}
