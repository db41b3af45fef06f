package discord

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Message is the projection of a channel message.
type Message struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	AuthorID    string   `json:"author_id"`
	Timestamp   string   `json:"timestamp"`
	Attachments []string `json:"attachments"`
}

type rawMessage struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Edited    string `json:"edited_timestamp"`
	Author    struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"author"`
	Attachments []struct {
		URL string `json:"url"`
	} `json:"attachments"`
}

func (m rawMessage) project() Message {
	urls := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		urls = append(urls, a.URL)
	}
	return Message{
		ID:          m.ID,
		Content:     m.Content,
		Author:      m.Author.Username,
		AuthorID:    m.Author.ID,
		Timestamp:   m.Timestamp,
		Attachments: urls,
	}
}

func messagesPath(channelID string) string {
	return "/channels/" + url.PathEscape(channelID) + "/messages"
}

// ReadMessages returns up to limit messages, newest first. When before is
// set only messages strictly older than that message ID are returned.
func (c *Client) ReadMessages(ctx context.Context, channelID string, limit int, before string) ([]Message, error) {
	var raw []rawMessage
	if _, err := c.api.Get(ctx, messagesPath(channelID), limitQuery(limit, before), &raw); err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.project())
	}
	return out, nil
}

// ReadHistory walks a channel backwards, chaining the before cursor with
// the oldest ID seen, until a short page or max messages. max <= 0 reads
// the whole channel. onPage, if set, is called after each page.
func (c *Client) ReadHistory(ctx context.Context, channelID string, max int, onPage func(page []Message)) ([]Message, error) {
	var all []Message
	before := ""
	for {
		limit := MaxReadLimit
		if max > 0 && max-len(all) < limit {
			limit = max - len(all)
		}
		page, err := c.ReadMessages(ctx, channelID, limit, before)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if onPage != nil {
			onPage(page)
		}
		if len(page) < limit || (max > 0 && len(all) >= max) {
			return all, nil
		}
		before = page[len(page)-1].ID
	}
}

// Embed is an optional rich block on a sent message.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// SentMessage is the projection returned by SendMessage.
type SentMessage struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	ChannelID string `json:"channel_id"`
	Timestamp string `json:"timestamp"`
}

// SendMessage posts a message, with an embed when one is given.
func (c *Client) SendMessage(ctx context.Context, channelID, content string, embed *Embed) (*SentMessage, error) {
	body := map[string]any{"content": content}
	if embed != nil && (embed.Title != "" || embed.Description != "") {
		body["embeds"] = []Embed{*embed}
	}
	var raw rawMessage
	if _, err := c.api.Post(ctx, messagesPath(channelID), body, &raw); err != nil {
		return nil, err
	}
	return &SentMessage{ID: raw.ID, Content: raw.Content, ChannelID: raw.ChannelID, Timestamp: raw.Timestamp}, nil
}

// SendLong posts text split into as many messages as needed.
func (c *Client) SendLong(ctx context.Context, channelID, text string) ([]SentMessage, error) {
	var sent []SentMessage
	for _, chunk := range SplitMessage(text, MessageLimit) {
		m, err := c.SendMessage(ctx, channelID, chunk, nil)
		if err != nil {
			return sent, err
		}
		sent = append(sent, *m)
	}
	return sent, nil
}

// EditedMessage is the projection returned by EditMessage.
type EditedMessage struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	ChannelID       string `json:"channel_id"`
	EditedTimestamp string `json:"edited_timestamp"`
}

// EditMessage replaces the content of a message the bot sent.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID, content string) (*EditedMessage, error) {
	var raw rawMessage
	path := messagesPath(channelID) + "/" + url.PathEscape(messageID)
	if _, err := c.api.Patch(ctx, path, map[string]any{"content": content}, &raw); err != nil {
		return nil, err
	}
	return &EditedMessage{ID: raw.ID, Content: raw.Content, ChannelID: raw.ChannelID, EditedTimestamp: raw.Edited}, nil
}

// DeleteResult acknowledges a deleted message.
type DeleteResult struct {
	Success   bool   `json:"success"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) (*DeleteResult, error) {
	path := messagesPath(channelID) + "/" + url.PathEscape(messageID)
	if _, err := c.api.Delete(ctx, path, nil); err != nil {
		return nil, err
	}
	return &DeleteResult{Success: true, ChannelID: channelID, MessageID: messageID}, nil
}

// SplitMessage breaks text into chunks of at most limit runes, preferring
// to cut at a newline, then a space.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		window := string(runes[:limit])
		if i := strings.LastIndex(window, "\n"); i > 0 {
			cut = utf8.RuneCountInString(window[:i])
		} else if i := strings.LastIndex(window, " "); i > 0 {
			cut = utf8.RuneCountInString(window[:i])
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), " \n"))
		runes = runes[cut:]
		for len(runes) > 0 && (runes[0] == '\n' || runes[0] == ' ') {
			runes = runes[1:]
		}
	}
	if last := strings.TrimRight(string(runes), " \n"); last != "" {
		chunks = append(chunks, last)
	}
	return chunks
}
