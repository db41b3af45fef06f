package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ta-agent/taagent/internal/agent"
	"github.com/ta-agent/taagent/internal/db"
	"github.com/ta-agent/taagent/internal/tools"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

var base = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *Store) {
	t.Helper()
	entries := []Entry{
		{ID: "e1", SessionID: "s1", Tool: "get_course", Arguments: `{"course_id":1}`, Success: true, Duration: 120, CreatedAt: base},
		{ID: "e2", SessionID: "s1", Tool: "create_assignment", Arguments: `{"course_id":1}`, ErrorKind: "validation", Message: "name is required", CreatedAt: base.Add(time.Minute)},
		{ID: "e3", SessionID: "s2", Tool: "get_course", Arguments: `{"course_id":404}`, ErrorKind: "remote", StatusCode: 404, Message: "not found", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "e4", SessionID: "s2", Tool: "read_slack_messages", Arguments: `{"channel_id":"C1"}`, Success: true, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, e := range entries {
		if err := store.Log(context.Background(), e); err != nil {
			t.Fatalf("Log(%s): %v", e.ID, err)
		}
	}
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	seed(t, store)

	got, err := store.GetByID(context.Background(), "e3")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Tool != "get_course" || got.SessionID != "s2" {
		t.Errorf("entry = %+v", got)
	}
	if got.Success || got.ErrorKind != "remote" || got.StatusCode != 404 || got.Message != "not found" {
		t.Errorf("failure fields = %+v", got)
	}
	if got.Arguments != `{"course_id":404}` {
		t.Errorf("Arguments = %q", got.Arguments)
	}
	if !got.CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}
}

func TestLogGeneratesUUID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Log(ctx, Entry{Tool: "get_all_courses", Success: true}); err != nil {
		t.Fatalf("Log: %v", err)
	}
	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if len(entries[0].ID) != 36 {
		t.Errorf("expected UUID id, got %q", entries[0].ID)
	}
	if entries[0].Arguments != "{}" {
		t.Errorf("Arguments = %q", entries[0].Arguments)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestRecordFromAgent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	call := agent.ToolCall{
		SessionID: "sess",
		Tool:      "delete_quiz",
		Arguments: `{"course_id":1,"quiz_id":2}`,
		Outcome:   tools.Outcome{Error: &tools.Failure{Kind: tools.KindRemote, Message: "forbidden", StatusCode: 403}},
		Duration:  250 * time.Millisecond,
	}
	if err := store.Record(ctx, call); err != nil {
		t.Fatalf("Record: %v", err)
	}
	entries, err := store.Query(ctx, QueryFilter{SessionID: "sess"})
	if err != nil || len(entries) != 1 {
		t.Fatalf("Query: %v %v", entries, err)
	}
	e := entries[0]
	if e.Success || e.ErrorKind != "remote" || e.StatusCode != 403 || e.Duration != 250 {
		t.Errorf("entry = %+v", e)
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	yes, no := true, false
	since := base.Add(90 * time.Second)
	until := base.Add(90 * time.Second)
	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{"all newest first", QueryFilter{}, []string{"e4", "e3", "e2", "e1"}},
		{"session", QueryFilter{SessionID: "s1"}, []string{"e2", "e1"}},
		{"tool", QueryFilter{Tool: "get_course"}, []string{"e3", "e1"}},
		{"succeeded", QueryFilter{Success: &yes}, []string{"e4", "e1"}},
		{"failed", QueryFilter{Success: &no}, []string{"e3", "e2"}},
		{"error kind", QueryFilter{ErrorKind: "validation"}, []string{"e2"}},
		{"since", QueryFilter{Since: &since}, []string{"e4", "e3"}},
		{"until", QueryFilter{Until: &until}, []string{"e2", "e1"}},
		{"limit", QueryFilter{Limit: 2}, []string{"e4", "e3"}},
		{"limit offset", QueryFilter{Limit: 2, Offset: 1}, []string{"e3", "e2"}},
		{"offset only", QueryFilter{Offset: 3}, []string{"e1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			var ids []string
			for _, e := range entries {
				ids = append(ids, e.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", ids, tt.want)
				}
			}
		})
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	n, err := store.DeleteBefore(ctx, base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	entries, _ := store.Query(ctx, QueryFilter{})
	if len(entries) != 2 {
		t.Errorf("remaining = %d, want 2", len(entries))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)
	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func newRouter(store *Store) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r
}

func TestHTTPGetByID(t *testing.T) {
	store := setupStore(t)
	seed(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/audit/e1", nil)
	rec := httptest.NewRecorder()
	newRouter(store).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got Entry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tool != "get_course" || !got.Success || got.Duration != 120 {
		t.Errorf("entry = %+v", got)
	}
}

func TestHTTPGetByIDNotFound(t *testing.T) {
	store := setupStore(t)
	req := httptest.NewRequest(http.MethodGet, "/api/audit/missing", nil)
	rec := httptest.NewRecorder()
	newRouter(store).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHTTPQueryWithFilter(t *testing.T) {
	store := setupStore(t)
	seed(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/audit/?tool=get_course&success=false", nil)
	rec := httptest.NewRecorder()
	newRouter(store).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []Entry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e3" {
		t.Errorf("entries = %+v", got)
	}
}

func TestHTTPQueryEmptyIsArray(t *testing.T) {
	store := setupStore(t)
	req := httptest.NewRequest(http.MethodGet, "/api/audit/", nil)
	rec := httptest.NewRecorder()
	newRouter(store).ServeHTTP(rec, req)
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q", body)
	}
}
