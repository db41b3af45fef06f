package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ta-agent/taagent/internal/apiclient"
	"github.com/ta-agent/taagent/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.DiscordConfig{BaseURL: srv.URL, Token: "bot-token", UserAgent: "DiscordBot (test, v1)"})
}

func TestListChannelsFiltersTypes(t *testing.T) {
	var gotAuth, gotUA string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/guilds/G1/channels" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`[
			{"id": "1", "name": "general", "type": 0, "position": 0, "topic": "hi"},
			{"id": "2", "name": "voice", "type": 2, "bitrate": 64000},
			{"id": "3", "name": "Info", "type": 4, "nsfw": false}
		]`))
	}))

	channels, err := c.ListChannels(context.Background(), "G1")
	if err != nil {
		t.Fatalf("ListChannels: %v", err)
	}
	if gotAuth != "Bot bot-token" || gotUA != "DiscordBot (test, v1)" {
		t.Errorf("headers: auth=%q ua=%q", gotAuth, gotUA)
	}
	if len(channels) != 2 {
		t.Fatalf("got %d channels, want 2", len(channels))
	}
	if channels[0] != (Channel{ID: "1", Name: "general", Type: 0}) || channels[1] != (Channel{ID: "3", Name: "Info", Type: 4}) {
		t.Errorf("channels = %+v", channels)
	}

	data, _ := json.Marshal(channels[0])
	if string(data) != `{"id":"1","name":"general","type":0}` {
		t.Errorf("projection = %s", data)
	}
}

// historyServer serves a channel holding messages with IDs n..1, newest first.
func historyServer(t *testing.T, n int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		start := n
		if b := r.URL.Query().Get("before"); b != "" {
			id, _ := strconv.Atoi(b)
			start = id - 1
		}
		var msgs []map[string]any
		for id := start; id >= 1 && len(msgs) < limit; id-- {
			msgs = append(msgs, map[string]any{
				"id":        strconv.Itoa(id),
				"content":   fmt.Sprintf("message %d", id),
				"timestamp": "2025-01-01T00:00:00Z",
				"author":    map[string]any{"id": "u1", "username": "ada", "discriminator": "0"},
				"attachments": []map[string]any{
					{"url": "https://cdn.example/" + strconv.Itoa(id), "size": 10},
				},
				"pinned": false,
			})
		}
		if msgs == nil {
			msgs = []map[string]any{}
		}
		json.NewEncoder(w).Encode(msgs)
	})
}

func TestReadMessagesPaginationDisjoint(t *testing.T) {
	c := newTestClient(t, historyServer(t, 10))
	ctx := context.Background()

	first, err := c.ReadMessages(ctx, "C1", 4, "")
	if err != nil {
		t.Fatalf("ReadMessages: %v", err)
	}
	oldest := first[len(first)-1].ID
	second, err := c.ReadMessages(ctx, "C1", 4, oldest)
	if err != nil {
		t.Fatalf("ReadMessages: %v", err)
	}

	seen := map[string]bool{}
	for _, m := range first {
		seen[m.ID] = true
	}
	oldestN, _ := strconv.Atoi(oldest)
	for _, m := range second {
		if seen[m.ID] {
			t.Errorf("message %s appears on both pages", m.ID)
		}
		if id, _ := strconv.Atoi(m.ID); id >= oldestN {
			t.Errorf("message %s is not older than cursor %s", m.ID, oldest)
		}
	}
	if second[0].ID != strconv.Itoa(oldestN-1) {
		t.Errorf("gap after cursor: first of page two = %s", second[0].ID)
	}

	m := first[0]
	if m.Author != "ada" || m.AuthorID != "u1" || len(m.Attachments) != 1 || m.Attachments[0] != "https://cdn.example/10" {
		t.Errorf("projection = %+v", m)
	}
}

func TestReadMessagesLimitClamp(t *testing.T) {
	var limits []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		w.Write([]byte(`[]`))
	}))
	for _, l := range []int{0, 500, 7} {
		if _, err := c.ReadMessages(context.Background(), "C1", l, ""); err != nil {
			t.Fatalf("ReadMessages: %v", err)
		}
	}
	if strings.Join(limits, ",") != "50,100,7" {
		t.Errorf("limits = %v", limits)
	}
}

func TestReadHistoryExhaustive(t *testing.T) {
	c := newTestClient(t, historyServer(t, 250))
	pages := 0
	all, err := c.ReadHistory(context.Background(), "C1", 0, func([]Message) { pages++ })
	if err != nil {
		t.Fatalf("ReadHistory: %v", err)
	}
	if len(all) != 250 {
		t.Errorf("got %d messages, want 250", len(all))
	}
	if pages != 3 {
		t.Errorf("pages = %d, want 3", pages)
	}
	seen := map[string]bool{}
	for _, m := range all {
		if seen[m.ID] {
			t.Fatalf("duplicate message %s", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestReadHistoryMax(t *testing.T) {
	c := newTestClient(t, historyServer(t, 250))
	all, err := c.ReadHistory(context.Background(), "C1", 120, nil)
	if err != nil {
		t.Fatalf("ReadHistory: %v", err)
	}
	if len(all) != 120 {
		t.Errorf("got %d messages, want 120", len(all))
	}
}

func TestCreateServer(t *testing.T) {
	var steps []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		steps = append(steps, r.Method+" "+r.URL.Path+" "+string(body))
		w.WriteHeader(http.StatusCreated)
		switch r.URL.Path {
		case "/guilds":
			w.Write([]byte(`{"id": "G9", "name": "CS 101"}`))
		case "/guilds/G9/channels":
			w.Write([]byte(`{"id": "C9", "name": "general", "type": 0}`))
		case "/channels/C9/invites":
			w.Write([]byte(`{"code": "abc123"}`))
		}
	}))

	srv, err := c.CreateServer(context.Background(), "CS 101")
	if err != nil {
		t.Fatalf("CreateServer: %v", err)
	}
	want := Server{ID: "G9", Name: "CS 101", ChannelID: "C9", InviteLink: "https://discord.gg/abc123"}
	if *srv != want {
		t.Errorf("server = %+v", srv)
	}
	if len(steps) != 3 {
		t.Fatalf("steps = %v", steps)
	}
	if !strings.Contains(steps[1], `"name":"general"`) || !strings.Contains(steps[1], `"type":0`) {
		t.Errorf("channel step = %s", steps[1])
	}
	if !strings.Contains(steps[2], `"max_age":0`) || !strings.Contains(steps[2], `"temporary":false`) {
		t.Errorf("invite step = %s", steps[2])
	}
}

func TestCreateServerInviteFailureNotCompensated(t *testing.T) {
	var methods []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/guilds":
			w.Write([]byte(`{"id": "G9", "name": "x"}`))
		case "/guilds/G9/channels":
			w.Write([]byte(`{"id": "C9", "name": "general", "type": 0}`))
		default:
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message": "Missing Permissions", "code": 50013}`))
		}
	}))

	_, err := c.CreateServer(context.Background(), "x")
	var remote *apiclient.RemoteAPIError
	if !errors.As(err, &remote) || remote.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 RemoteAPIError, got %v", err)
	}
	for _, m := range methods {
		if strings.HasPrefix(m, "DELETE") {
			t.Errorf("no compensating delete expected, saw %s", m)
		}
	}
}

func TestSendEditDelete(t *testing.T) {
	var sent map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewDecoder(r.Body).Decode(&sent)
			w.Write([]byte(`{"id": "M1", "content": "hi", "channel_id": "C1", "timestamp": "t0", "tts": false}`))
		case http.MethodPatch:
			w.Write([]byte(`{"id": "M1", "content": "edited", "channel_id": "C1", "edited_timestamp": "t1"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	ctx := context.Background()

	m, err := c.SendMessage(ctx, "C1", "hi", &Embed{Title: "T", Description: "D"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if *m != (SentMessage{ID: "M1", Content: "hi", ChannelID: "C1", Timestamp: "t0"}) {
		t.Errorf("sent = %+v", m)
	}
	if embeds, ok := sent["embeds"].([]any); !ok || len(embeds) != 1 {
		t.Errorf("embeds = %v", sent["embeds"])
	}

	e, err := c.EditMessage(ctx, "C1", "M1", "edited")
	if err != nil || e.EditedTimestamp != "t1" {
		t.Errorf("EditMessage = %+v, %v", e, err)
	}

	d, err := c.DeleteMessage(ctx, "C1", "M1")
	if err != nil || !d.Success || d.MessageID != "M1" {
		t.Errorf("DeleteMessage = %+v, %v", d, err)
	}
}

func TestSplitMessage(t *testing.T) {
	if got := SplitMessage("short", 1900); len(got) != 1 || got[0] != "short" {
		t.Errorf("short = %v", got)
	}

	long := strings.Repeat("word ", 1000)
	chunks := SplitMessage(long, 1900)
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	total := 0
	for _, ch := range chunks {
		if n := utf8.RuneCountInString(ch); n > 1900 {
			t.Errorf("chunk of %d runes exceeds limit", n)
		}
		total += strings.Count(ch, "word")
	}
	if total != 1000 {
		t.Errorf("lost words: %d", total)
	}

	lines := strings.Repeat("line one\n", 300)
	for _, ch := range SplitMessage(lines, 100) {
		if strings.HasPrefix(ch, "\n") || strings.HasSuffix(ch, "\n") {
			t.Errorf("chunk not trimmed at newline: %q", ch)
		}
	}
}

func TestSplitMessageLastChunk(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"trailing newline", "aaaa bbbb\ncccc\n", 10, []string{"aaaa bbbb", "cccc"}},
		{"trailing spaces", "aaaa bbbb cc   ", 10, []string{"aaaa bbbb", "cc"}},
		{"whitespace tail only", "aaaa bbbb\n \n  ", 10, []string{"aaaa bbbb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitMessage(tt.text, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitMessage = %q, want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
