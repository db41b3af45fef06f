package tools

import (
	"context"

	"github.com/ta-agent/taagent/internal/aicheck"
)

type checkAIArgs struct {
	Text string `json:"text" validate:"required" jsonschema_description:"Text to check"`
}

// RegisterAICheck adds the AI-text detection tool.
func RegisterAICheck(r *Registry, c *aicheck.Client) {
	Register(r, "check_ai", "Estimate whether a text was written by AI. Only use when asked to check a text.",
		func(ctx context.Context, a checkAIArgs) (any, error) { return c.Check(ctx, a.Text) })
}
