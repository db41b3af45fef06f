package bots

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/ta-agent/taagent/internal/agent"
)

// mentionRE matches user mentions such as <@U0123ABC>.
var mentionRE = regexp.MustCompile(`<@[A-Z0-9]+>`)

// Processor answers Slack messages through the agent, keeping one session
// per workspace channel so follow-ups share history.
type Processor struct {
	orch     *agent.Orchestrator
	defaults agent.Context

	mu       sync.Mutex
	sessions map[string]*agent.Session
}

// NewProcessor creates a processor whose sessions start bound to defaults.
func NewProcessor(orch *agent.Orchestrator, defaults agent.Context) *Processor {
	return &Processor{
		orch:     orch,
		defaults: defaults,
		sessions: make(map[string]*agent.Session),
	}
}

// HandleMessage runs the message text as one agent turn. Agent failures
// become the reply text rather than an error so the user always hears back.
func (p *Processor) HandleMessage(ctx context.Context, msg IncomingMessage) (*OutgoingMessage, error) {
	out := &OutgoingMessage{
		Workspace: msg.Workspace,
		ChannelID: msg.ChannelID,
		ThreadID:  msg.ThreadID,
	}

	text := strings.TrimSpace(mentionRE.ReplaceAllString(msg.Text, ""))
	if text == "" {
		out.Text = "Hi! Mention me with a question about the course and I'll take a look."
		return out, nil
	}

	reply, err := p.session(msg).Run(ctx, text, nil)
	if err != nil {
		out.Text = "Sorry, I couldn't complete that request: " + err.Error()
		return out, nil
	}
	out.Text = reply
	return out, nil
}

func (p *Processor) session(msg IncomingMessage) *agent.Session {
	key := msg.Workspace + "/" + msg.ChannelID

	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[key]; ok {
		return s
	}
	c := p.defaults
	if msg.Workspace != "" {
		c.SlackName = msg.Workspace
	}
	s := p.orch.NewSession(c)
	p.sessions[key] = s
	return s
}

// Sessions reports how many channel sessions are open.
func (p *Processor) Sessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}
