// Package discord is a thin client for the Discord REST API using a bot token.
package discord

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ta-agent/taagent/internal/apiclient"
	"github.com/ta-agent/taagent/internal/config"
)

// Channel types kept by ListChannels.
const (
	ChannelTypeText     = 0
	ChannelTypeCategory = 4
)

const (
	// DefaultReadLimit is used when ReadMessages is called with limit 0.
	DefaultReadLimit = 50
	// MaxReadLimit is the largest page Discord will return.
	MaxReadLimit = 100
	// MessageLimit is the safe length for one outgoing message; Discord
	// rejects content over 2000 characters.
	MessageLimit = 1900

	inviteBaseURL = "https://discord.gg/"
)

// Client talks to the Discord REST API.
type Client struct {
	api    *apiclient.Client
	logger zerolog.Logger
}

// New builds a Client from the discord configuration section.
func New(cfg config.DiscordConfig) *Client {
	return &Client{
		api: apiclient.New(apiclient.Options{
			Platform:  "discord",
			BaseURL:   cfg.BaseURL,
			Auth:      apiclient.Bot(cfg.Token),
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		}),
		logger: log.With().Str("component", "discord").Logger(),
	}
}

// Channel is the projection of a guild channel.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

// ListChannels returns the text channels and categories of a guild.
func (c *Client) ListChannels(ctx context.Context, guildID string) ([]Channel, error) {
	var raw []Channel
	if _, err := c.api.Get(ctx, "/guilds/"+url.PathEscape(guildID)+"/channels", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]Channel, 0, len(raw))
	for _, ch := range raw {
		if ch.Type == ChannelTypeText || ch.Type == ChannelTypeCategory {
			out = append(out, ch)
		}
	}
	return out, nil
}

// CreateChannel adds a channel to a guild.
func (c *Client) CreateChannel(ctx context.Context, guildID, name string, channelType int) (*Channel, error) {
	var ch Channel
	body := map[string]any{"name": name, "type": channelType}
	if _, err := c.api.Post(ctx, "/guilds/"+url.PathEscape(guildID)+"/channels", body, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// Invite is the projection of a channel invite.
type Invite struct {
	Code string `json:"code"`
	Link string `json:"invite_link"`
}

// CreateInvite creates an invite for a channel. maxAge and maxUses of 0
// mean the invite never expires and has unlimited uses.
func (c *Client) CreateInvite(ctx context.Context, channelID string, maxAge, maxUses int, temporary bool) (*Invite, error) {
	var raw struct {
		Code string `json:"code"`
	}
	body := map[string]any{"max_age": maxAge, "max_uses": maxUses, "temporary": temporary}
	if _, err := c.api.Post(ctx, "/channels/"+url.PathEscape(channelID)+"/invites", body, &raw); err != nil {
		return nil, err
	}
	return &Invite{Code: raw.Code, Link: inviteBaseURL + raw.Code}, nil
}

// Server is the result of CreateServer.
type Server struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ChannelID  string `json:"channel_id"`
	InviteLink string `json:"invite_link"`
}

// CreateServer creates a guild with a "general" text channel and a
// permanent invite. The steps are not transactional: if a later step
// fails, what was already created stays in place.
func (c *Client) CreateServer(ctx context.Context, name string) (*Server, error) {
	var guild struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if _, err := c.api.Post(ctx, "/guilds", map[string]any{"name": name}, &guild); err != nil {
		return nil, fmt.Errorf("creating guild: %w", err)
	}
	c.logger.Info().Str("guild_id", guild.ID).Str("name", guild.Name).Msg("guild created")

	ch, err := c.CreateChannel(ctx, guild.ID, "general", ChannelTypeText)
	if err != nil {
		c.logger.Warn().Err(err).Str("guild_id", guild.ID).Msg("guild left without a general channel")
		return nil, fmt.Errorf("creating general channel in guild %s: %w", guild.ID, err)
	}

	inv, err := c.CreateInvite(ctx, ch.ID, 0, 0, false)
	if err != nil {
		c.logger.Warn().Err(err).Str("guild_id", guild.ID).Str("channel_id", ch.ID).Msg("guild left without an invite")
		return nil, fmt.Errorf("creating invite for channel %s: %w", ch.ID, err)
	}

	return &Server{ID: guild.ID, Name: guild.Name, ChannelID: ch.ID, InviteLink: inv.Link}, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultReadLimit
	case limit > MaxReadLimit:
		return MaxReadLimit
	default:
		return limit
	}
}

func limitQuery(limit int, before string) url.Values {
	q := url.Values{"limit": {strconv.Itoa(clampLimit(limit))}}
	if before != "" {
		q.Set("before", before)
	}
	return q
}
