package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ta-agent/taagent/internal/agent"
	"github.com/ta-agent/taagent/internal/db"
)

// Store provides CRUD operations for audit entries.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Log inserts a new audit entry. If entry.ID is empty a UUID is generated;
// a zero CreatedAt is set to now.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if entry.Arguments == "" {
		entry.Arguments = "{}"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tool_calls (
			id, session_id, tool, arguments, success, error_kind,
			status_code, message, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.SessionID,
		entry.Tool,
		entry.Arguments,
		entry.Success,
		entry.ErrorKind,
		entry.StatusCode,
		entry.Message,
		entry.Duration,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// Record stores one executed tool call. It satisfies agent.Auditor.
func (s *Store) Record(ctx context.Context, call agent.ToolCall) error {
	e := Entry{
		SessionID: call.SessionID,
		Tool:      call.Tool,
		Arguments: call.Arguments,
		Success:   call.Outcome.Success,
		Duration:  call.Duration.Milliseconds(),
	}
	if f := call.Outcome.Error; f != nil {
		e.ErrorKind = string(f.Kind)
		e.StatusCode = f.StatusCode
		e.Message = f.Message
	}
	return s.Log(ctx, e)
}

// GetByID retrieves a single audit entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM tool_calls WHERE id = ?", id)
	return scanInto(row)
}

// QueryFilter controls which audit entries are returned by Query.
type QueryFilter struct {
	SessionID string
	Tool      string
	Success   *bool
	ErrorKind string
	Since     *time.Time
	Until     *time.Time
	Limit     int
	Offset    int
}

const columns = "id, session_id, tool, arguments, success, error_kind, status_code, message, duration_ms, created_at"

// Query returns audit entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Tool != "" {
		clauses = append(clauses, "tool = ?")
		args = append(args, filter.Tool)
	}
	if filter.Success != nil {
		clauses = append(clauses, "success = ?")
		args = append(args, *filter.Success)
	}
	if filter.ErrorKind != "" {
		clauses = append(clauses, "error_kind = ?")
		args = append(args, filter.ErrorKind)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	if filter.Until != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, filter.Until.UTC().Format(timeLayout))
	}

	query := "SELECT " + columns + " FROM tool_calls"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all audit entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tool_calls WHERE created_at < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old audit entries: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e  Entry
		ts any
	)
	err := sc.Scan(
		&e.ID, &e.SessionID, &e.Tool, &e.Arguments, &e.Success, &e.ErrorKind,
		&e.StatusCode, &e.Message, &e.Duration, &ts,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning audit entry: %w", err)
	}
	e.CreatedAt = parseTime(ts)
	return &e, nil
}

// parseTime accepts created_at as the driver hands it back: a time.Time
// for DATETIME columns it could parse, otherwise the stored text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		for _, layout := range []string{timeLayout, time.DateTime, time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTime(string(t))
	}
	return time.Time{}
}
