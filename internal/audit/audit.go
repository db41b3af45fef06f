// Package audit keeps a SQLite trail of every tool call the agent makes.
package audit

import "time"

// Entry is a single audit trail record.
type Entry struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Tool       string    `json:"tool"`
	Arguments  string    `json:"arguments"`
	Success    bool      `json:"success"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message,omitempty"`
	Duration   int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// timeLayout is how created_at is stored; it sorts lexically.
const timeLayout = "2006-01-02 15:04:05.000"
