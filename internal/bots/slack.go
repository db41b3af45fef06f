package bots

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// turnTimeout bounds one background agent turn started by an event.
const turnTimeout = 5 * time.Minute

// SlackHandler handles incoming Slack webhook events.
type SlackHandler struct {
	gateway          *Gateway
	signingSecret    string
	defaultWorkspace string
	now              func() time.Time
	wg               sync.WaitGroup
	logger           zerolog.Logger
}

// NewSlackHandler creates a new Slack event handler. Replies are posted
// with defaultWorkspace's token unless the route names another workspace.
func NewSlackHandler(gateway *Gateway, signingSecret, defaultWorkspace string) *SlackHandler {
	return &SlackHandler{
		gateway:          gateway,
		signingSecret:    signingSecret,
		defaultWorkspace: defaultWorkspace,
		now:              time.Now,
		logger:           log.With().Str("component", "slack-events").Logger(),
	}
}

// slackEvent represents the top-level Slack event payload.
type slackEvent struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	EventID   string          `json:"event_id"`
	Event     slackInnerEvent `json:"event"`
}

// slackInnerEvent represents the inner event in a Slack event_callback.
type slackInnerEvent struct {
	Type        string `json:"type"`
	Subtype     string `json:"subtype"`
	User        string `json:"user"`
	Text        string `json:"text"`
	Channel     string `json:"channel"`
	ChannelType string `json:"channel_type"`
	TS          string `json:"ts"`
	ThreadTS    string `json:"thread_ts"`
	BotID       string `json:"bot_id"`
}

// HandleEvent handles incoming Slack events (HTTP POST). Slack expects an
// answer within three seconds, so agent turns run in the background.
func (h *SlackHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify Slack request signature if signing secret is configured.
	if h.signingSecret != "" {
		if !h.verifySignature(r, body) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var event slackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "url_verification":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"challenge": event.Challenge})
		return

	case "event_callback":
		// Retries of an event we already accepted would answer twice.
		if r.Header.Get("X-Slack-Retry-Num") != "" {
			w.WriteHeader(http.StatusOK)
			return
		}
		msg, ok := h.incoming(r, event.Event)
		if !ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.dispatch(r.Context(), event.EventID, msg)
		w.WriteHeader(http.StatusOK)
		return

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// incoming converts an inner event into a message worth answering: app
// mentions anywhere, plain messages only in direct conversations. Bot
// messages and edits are skipped to avoid loops.
func (h *SlackHandler) incoming(r *http.Request, ev slackInnerEvent) (IncomingMessage, bool) {
	if ev.BotID != "" || ev.Subtype != "" {
		return IncomingMessage{}, false
	}
	switch {
	case ev.Type == "app_mention":
	case ev.Type == "message" && ev.ChannelType == "im":
	default:
		return IncomingMessage{}, false
	}

	workspace := chi.URLParam(r, "workspace")
	if workspace == "" {
		workspace = h.defaultWorkspace
	}
	thread := ev.ThreadTS
	if thread == "" {
		thread = ev.TS
	}
	return IncomingMessage{
		Workspace: workspace,
		ChannelID: ev.Channel,
		UserID:    ev.User,
		Text:      ev.Text,
		ThreadID:  thread,
		Timestamp: ev.TS,
	}, true
}

func (h *SlackHandler) dispatch(parent context.Context, eventID string, msg IncomingMessage) {
	logger := h.logger.With().
		Str("event", eventID).
		Str("workspace", msg.Workspace).
		Str("channel", msg.ChannelID).
		Logger()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), turnTimeout)
		defer cancel()

		start := time.Now()
		if _, err := h.gateway.Process(ctx, msg); err != nil {
			logger.Error().Err(err).Msg("slack event failed")
			return
		}
		logger.Info().Dur("elapsed", time.Since(start)).Msg("slack event answered")
	}()
}

// Verifies reports whether requests must carry a valid Slack signature.
func (h *SlackHandler) Verifies() bool {
	return h.signingSecret != ""
}

// Wait blocks until every background turn has finished.
func (h *SlackHandler) Wait() {
	h.wg.Wait()
}

// verifySignature verifies the Slack request signature using HMAC-SHA256.
func (h *SlackHandler) verifySignature(r *http.Request, body []byte) bool {
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")

	if timestamp == "" || signature == "" {
		return false
	}
	if !h.verifyTimestamp(timestamp) {
		return false
	}

	expected := "v0=" + hex.EncodeToString(sign(h.signingSecret, timestamp, body))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func sign(secret, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	return mac.Sum(nil)
}

// verifyTimestamp checks that the request timestamp is within 5 minutes.
func (h *SlackHandler) verifyTimestamp(timestamp string) bool {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	diff := h.now().Unix() - ts
	if diff < 0 {
		diff = -diff
	}
	return diff <= 300
}
