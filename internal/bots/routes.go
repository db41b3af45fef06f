package bots

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the Slack events webhook. The optional path suffix
// names the workspace whose token posts replies.
func RegisterRoutes(r chi.Router, slackHandler *SlackHandler) {
	r.Post("/api/bots/slack/events", slackHandler.HandleEvent)
	r.Post("/api/bots/slack/events/{workspace}", slackHandler.HandleEvent)
}
