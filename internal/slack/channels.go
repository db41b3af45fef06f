package slack

import (
	"context"
	"net/url"
)

// Channel is the projection of a conversation.
type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

// ListChannels returns public and private channels the bot can see,
// following Slack's cursor pagination.
func (c *Client) ListChannels(ctx context.Context, workspace string) ([]Channel, error) {
	_, api, err := c.workspace(workspace)
	if err != nil {
		return nil, err
	}
	out := []Channel{}
	cursor := ""
	for {
		q := url.Values{"types": {"public_channel,private_channel"}, "limit": {"200"}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}
		var resp struct {
			Channels []Channel `json:"channels"`
			Meta     struct {
				NextCursor string `json:"next_cursor"`
			} `json:"response_metadata"`
		}
		if err := c.get(ctx, api, "conversations.list", q, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.Channels...)
		if resp.Meta.NextCursor == "" {
			return out, nil
		}
		cursor = resp.Meta.NextCursor
	}
}

// User is the projection of a workspace member.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	IsBot    bool   `json:"is_bot"`
}

// LookupUser returns a member's profile.
func (c *Client) LookupUser(ctx context.Context, workspace, userID string) (*User, error) {
	_, api, err := c.workspace(workspace)
	if err != nil {
		return nil, err
	}
	var resp struct {
		User User `json:"user"`
	}
	if err := c.get(ctx, api, "users.info", url.Values{"user": {userID}}, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
