package tools

import (
	"context"
	"errors"

	"github.com/ta-agent/taagent/internal/aicheck"
	"github.com/ta-agent/taagent/internal/apiclient"
)

// FailureKind classifies why a tool call did not succeed.
type FailureKind string

const (
	KindValidation FailureKind = "validation"
	KindRemote     FailureKind = "remote"
	KindTransport  FailureKind = "transport"
	KindInternal   FailureKind = "internal"
)

// Failure describes a failed tool call. StatusCode is the upstream HTTP
// status for remote failures.
type Failure struct {
	Kind       FailureKind `json:"kind"`
	Message    string      `json:"message"`
	StatusCode int         `json:"status_code,omitempty"`
}

// Outcome is the single result shape every tool returns to the agent.
type Outcome struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   *Failure `json:"error,omitempty"`
}

// Succeeded wraps a tool's payload.
func Succeeded(data any) Outcome {
	return Outcome{Success: true, Data: data}
}

// Failed converts an error from a client or from argument checking into
// a tagged failure.
func Failed(err error) Outcome {
	return Outcome{Success: false, Error: classify(err)}
}

// ValidationError reports arguments rejected before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func classify(err error) *Failure {
	var (
		validation *ValidationError
		remote     *apiclient.RemoteAPIError
		transport  *apiclient.TransportError
	)
	switch {
	case errors.As(err, &validation),
		errors.Is(err, apiclient.ErrEmptyPath),
		errors.Is(err, apiclient.ErrInvalidBody),
		errors.Is(err, aicheck.ErrEmptyText):
		return &Failure{Kind: KindValidation, Message: err.Error()}
	case errors.As(err, &remote):
		return &Failure{Kind: KindRemote, Message: remote.Body, StatusCode: remote.StatusCode}
	case errors.As(err, &transport),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return &Failure{Kind: KindTransport, Message: err.Error()}
	default:
		return &Failure{Kind: KindInternal, Message: err.Error()}
	}
}
