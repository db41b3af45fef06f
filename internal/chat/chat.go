// Package chat serves the /ws WebSocket: each connection is one agent
// session exchanging thinking/response frames with the browser.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ta-agent/taagent/internal/agent"
)

// Frame types sent to the client.
const (
	FrameThinking = "thinking"
	FrameResponse = "response"
)

// ProcessingText is the content of the thinking frame sent when a turn starts.
const ProcessingText = "Processing..."

// Frame is the outgoing WebSocket message format.
type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Options configure the handler.
type Options struct {
	// StreamPartials sends each reply fragment as an extra thinking frame.
	StreamPartials bool
	// AllowAllOrigins accepts upgrades from any Origin.
	AllowAllOrigins bool
}

// Handler upgrades connections and runs one session per connection.
type Handler struct {
	orch     *agent.Orchestrator
	defaults agent.Context
	opts     Options
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a Handler whose sessions start bound to defaults.
func NewHandler(orch *agent.Orchestrator, defaults agent.Context, opts Options) *Handler {
	h := &Handler{
		orch:     orch,
		defaults: defaults,
		opts:     opts,
		logger:   log.With().Str("component", "chat").Logger(),
	}
	if opts.AllowAllOrigins {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	sess := h.orch.NewSession(h.defaults)
	logger := h.logger.With().Str("session", sess.ID).Str("remote", r.RemoteAddr).Logger()
	logger.Info().Msg("session opened")
	defer logger.Info().Msg("session closed")

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		if err := h.handle(r.Context(), conn, sess, msg); err != nil {
			logger.Warn().Err(err).Msg("websocket write")
			return
		}
	}
}

// handle processes one incoming frame. The returned error is a write
// failure; the connection is no longer usable.
func (h *Handler) handle(ctx context.Context, conn *websocket.Conn, sess *agent.Session, msg []byte) error {
	if sw, ok, err := parseSwitch(msg); ok {
		if err != nil {
			return conn.WriteJSON(Frame{Type: FrameResponse, Content: "Invalid switch command: " + err.Error()})
		}
		sess.Switch(sw)
		return conn.WriteJSON(Frame{Type: FrameResponse, Content: fmt.Sprintf("Switched to %s. How can I assist you?", sw.CourseName)})
	}

	if err := conn.WriteJSON(Frame{Type: FrameThinking, Content: ProcessingText}); err != nil {
		return err
	}

	var onDelta func(string)
	var writeErr error
	if h.opts.StreamPartials {
		onDelta = func(fragment string) {
			if writeErr == nil {
				writeErr = conn.WriteJSON(Frame{Type: FrameThinking, Content: fragment})
			}
		}
	}

	reply, err := sess.Run(ctx, string(msg), onDelta)
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		reply = "Sorry, I couldn't complete that request: " + err.Error()
	}
	return conn.WriteJSON(Frame{Type: FrameResponse, Content: reply})
}

// switchFrame is the control message that rebinds a session.
type switchFrame struct {
	Type             string `json:"type"`
	CourseID         flexID `json:"course_id"`
	CourseName       string `json:"course_name"`
	DiscordServerID  flexID `json:"discord_server_id"`
	DiscordChannelID flexID `json:"discord_channel_id"`
	SlackName        string `json:"slack_name"`
}

// parseSwitch reports whether msg is a switch frame and, if so, the
// context it selects. A frame that is not a JSON object with type
// "switch" is ordinary chat text.
func parseSwitch(msg []byte) (agent.Context, bool, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return agent.Context{}, false, nil
	}
	var probe struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(trimmed, &probe) != nil || probe.Type != "switch" {
		return agent.Context{}, false, nil
	}

	var f switchFrame
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return agent.Context{}, true, err
	}
	if f.CourseID == "" {
		return agent.Context{}, true, errors.New("course_id is required")
	}
	c := agent.Context{
		CourseID:         string(f.CourseID),
		CourseName:       f.CourseName,
		DiscordServerID:  string(f.DiscordServerID),
		DiscordChannelID: string(f.DiscordChannelID),
		SlackName:        f.SlackName,
	}
	if c.CourseName == "" {
		c.CourseName = "course " + c.CourseID
	}
	return c, true, nil
}

// flexID accepts an ID sent as a JSON string or number and keeps its
// digits verbatim. Discord snowflakes do not survive a float64.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", data)
	}
	*id = flexID(n.String())
	return nil
}
