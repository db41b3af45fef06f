// Package agent runs the conversation loop between a user, an LLM provider
// and the registered tools.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ta-agent/taagent/internal/llm"
	"github.com/ta-agent/taagent/internal/tools"
)

var (
	// ErrEmptyInput is returned by Run for blank user text.
	ErrEmptyInput = errors.New("message must not be empty")
	// ErrMaxSteps is returned when the model keeps requesting tools past
	// the configured step limit.
	ErrMaxSteps = errors.New("agent stopped after reaching the step limit")
)

// State is the lifecycle state of a session.
type State int32

const (
	StateIdle State = iota
	StateAwaiting
)

func (s State) String() string {
	if s == StateAwaiting {
		return "awaiting-response"
	}
	return "idle"
}

// ToolCall is one executed tool invocation, as handed to an Auditor.
type ToolCall struct {
	SessionID string
	Tool      string
	Arguments string
	Outcome   tools.Outcome
	Duration  time.Duration
}

// Auditor records executed tool calls.
type Auditor interface {
	Record(ctx context.Context, call ToolCall) error
}

// Options tune the orchestrator.
type Options struct {
	Model       string
	Temperature float32
	MaxSteps    int
	Auditor     Auditor
}

// Orchestrator holds what all sessions share: the provider and the tool set.
type Orchestrator struct {
	provider llm.Provider
	registry *tools.Registry
	defs     []llm.ToolDefinition
	opts     Options
	logger   zerolog.Logger
}

// New creates an Orchestrator. MaxSteps defaults to 10.
func New(provider llm.Provider, registry *tools.Registry, opts Options) *Orchestrator {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 10
	}
	defs := make([]llm.ToolDefinition, 0, registry.Len())
	for _, t := range registry.List() {
		defs = append(defs, llm.ToolDefinition{Name: t.Name, Description: t.Description, Parameters: t.Schema})
	}
	return &Orchestrator{
		provider: provider,
		registry: registry,
		defs:     defs,
		opts:     opts,
		logger:   log.With().Str("component", "agent").Logger(),
	}
}

// Session is one conversation. Turns are serialized: a second Run waits
// for the first to finish.
type Session struct {
	ID string

	o       *Orchestrator
	mu      sync.Mutex
	state   atomic.Int32
	ctx     Context
	history []llm.Message
	logger  zerolog.Logger
}

// NewSession starts an empty conversation bound to c.
func (o *Orchestrator) NewSession(c Context) *Session {
	id := uuid.New().String()
	return &Session{
		ID:     id,
		o:      o,
		ctx:    c,
		logger: o.logger.With().Str("session", id).Logger(),
	}
}

// State reports whether a turn is in flight.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Context returns the bound context. It waits for any running turn.
func (s *Session) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// History returns a copy of the conversation so far, without the system
// prompt. It waits for any running turn.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history...)
}

// Switch rebinds the session to c and clears the history.
func (s *Session) Switch(c Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = c
	s.history = nil
	s.logger.Info().Str("course_id", c.CourseID).Str("course_name", c.CourseName).Msg("context switched")
}

// Run takes one user turn: it calls the model, answers every tool call it
// requests, and repeats until the model replies with text. onDelta, when
// set, receives reply fragments as they stream. If the model call fails or
// the step limit is hit, the history is restored to its state before the
// turn.
func (s *Session) Run(ctx context.Context, text string, onDelta func(string)) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Store(int32(StateAwaiting))
	defer s.state.Store(int32(StateIdle))

	mark := len(s.history)
	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: text})
	system := llm.Message{Role: llm.RoleSystem, Content: Instructions(s.ctx)}

	start := time.Now()
	var inTokens, outTokens int
	for step := 0; step < s.o.opts.MaxSteps; step++ {
		resp, err := s.o.provider.Complete(ctx, llm.CompletionRequest{
			Model:       s.o.opts.Model,
			Messages:    append([]llm.Message{system}, s.history...),
			Tools:       s.o.defs,
			Temperature: s.o.opts.Temperature,
			OnDelta:     onDelta,
		})
		if err != nil {
			s.history = s.history[:mark]
			s.logger.Warn().Err(err).Int("step", step).Msg("llm completion failed")
			return "", fmt.Errorf("llm completion: %w", err)
		}
		inTokens += resp.InputTokens
		outTokens += resp.OutputTokens

		if len(resp.ToolCalls) == 0 {
			s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
			s.logger.Info().
				Int("steps", step+1).
				Int("input_tokens", inTokens).
				Int("output_tokens", outTokens).
				Float64("est_cost_usd", llm.EstimateCost(s.o.opts.Model, inTokens, outTokens)).
				Dur("elapsed", time.Since(start)).
				Msg("turn complete")
			return resp.Content, nil
		}

		s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})
		for _, call := range resp.ToolCalls {
			s.history = append(s.history, s.runTool(ctx, call))
		}
	}

	s.history = s.history[:mark]
	s.logger.Warn().Int("max_steps", s.o.opts.MaxSteps).Msg("step limit reached")
	return "", ErrMaxSteps
}

// runTool executes one call and returns the tool message answering it.
func (s *Session) runTool(ctx context.Context, call llm.ToolCall) llm.Message {
	start := time.Now()
	outcome := s.o.registry.Call(ctx, call.Name, json.RawMessage(call.Arguments))
	elapsed := time.Since(start)

	ev := s.logger.Debug()
	if !outcome.Success {
		ev = s.logger.Warn().Str("error_kind", string(outcome.Error.Kind)).Str("error", outcome.Error.Message)
	}
	ev.Str("tool", call.Name).Dur("elapsed", elapsed).Msg("tool call")

	if s.o.opts.Auditor != nil {
		rec := ToolCall{SessionID: s.ID, Tool: call.Name, Arguments: call.Arguments, Outcome: outcome, Duration: elapsed}
		if err := s.o.opts.Auditor.Record(ctx, rec); err != nil {
			s.logger.Warn().Err(err).Str("tool", call.Name).Msg("audit record failed")
		}
	}

	content, err := json.Marshal(outcome)
	if err != nil {
		content, _ = json.Marshal(tools.Failed(fmt.Errorf("encoding tool result: %w", err)))
	}
	return llm.Message{Role: llm.RoleTool, ToolCallID: call.ID, Name: call.Name, Content: string(content)}
}
