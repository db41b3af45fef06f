package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ta-agent/taagent/internal/aicheck"
	"github.com/ta-agent/taagent/internal/apiclient"
	"github.com/ta-agent/taagent/internal/canvas"
	"github.com/ta-agent/taagent/internal/config"
	"github.com/ta-agent/taagent/internal/discord"
	"github.com/ta-agent/taagent/internal/slack"
)

// fullRegistry registers every tool against servers that fail the test if
// they are ever reached.
func fullRegistry(t *testing.T) (*Registry, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "unexpected", http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)

	r := NewRegistry()
	RegisterCanvas(r, canvas.New(config.CanvasConfig{BaseURL: srv.URL, Token: "t"}))
	RegisterDiscord(r, discord.New(config.DiscordConfig{BaseURL: srv.URL, Token: "t"}))
	RegisterSlack(r, slack.New(config.SlackConfig{BaseURL: srv.URL, DefaultWorkspace: "math", Workspaces: map[string]string{"math": "t"}}))
	ai, err := aicheck.New(config.AICheckConfig{URL: srv.URL + "/detect", APIKey: "k"})
	if err != nil {
		t.Fatalf("aicheck.New: %v", err)
	}
	RegisterAICheck(r, ai)
	return r, &hits
}

func schemaOf(t *testing.T, tool *Tool) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(tool.Schema, &m); err != nil {
		t.Fatalf("schema of %s: %v", tool.Name, err)
	}
	return m
}

func TestEveryToolHasObjectSchema(t *testing.T) {
	r, _ := fullRegistry(t)
	if r.Len() < 50 {
		t.Fatalf("registered %d tools, want at least 50", r.Len())
	}
	for _, tool := range r.List() {
		if tool.Description == "" {
			t.Errorf("%s has no description", tool.Name)
		}
		m := schemaOf(t, tool)
		if m["type"] != "object" {
			t.Errorf("%s schema type = %v", tool.Name, m["type"])
		}
		if _, ok := m["properties"].(map[string]any); !ok {
			t.Errorf("%s schema has no properties object", tool.Name)
		}
		if m["additionalProperties"] != false {
			t.Errorf("%s allows additional properties", tool.Name)
		}
		if _, ok := m["$schema"]; ok {
			t.Errorf("%s schema carries $schema", tool.Name)
		}
	}
}

func TestExpectedToolNames(t *testing.T) {
	r, _ := fullRegistry(t)
	for _, name := range []string{
		"get_all_courses", "get_course", "create_assignment", "get_assignments",
		"create_quiz", "reorder_quiz_items", "create_quiz_question",
		"start_quiz_submission", "complete_quiz_submission", "get_grade_history",
		"list_groups", "get_department_grades",
		"list_discord_channels", "read_discord_messages", "create_discord_server",
		"send_discord_message", "edit_discord_message", "delete_discord_message",
		"list_slack_channels", "read_slack_messages", "send_slack_message",
		"monitor_slack_channel", "lookup_slack_user", "check_ai",
	} {
		if _, ok := r.Get(name); !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestCreateAssignmentSchema(t *testing.T) {
	r, _ := fullRegistry(t)
	tool, _ := r.Get("create_assignment")
	m := schemaOf(t, tool)

	var required []string
	for _, v := range m["required"].([]any) {
		required = append(required, v.(string))
	}
	sort.Strings(required)
	if strings.Join(required, ",") != "course_id,name" {
		t.Errorf("required = %v", required)
	}
	props := m["properties"].(map[string]any)
	for _, p := range []string{"course_id", "name", "points_possible", "submission_types", "grading_type", "due_at"} {
		if _, ok := props[p]; !ok {
			t.Errorf("missing property %q", p)
		}
	}
	grading := props["grading_type"].(map[string]any)
	if enum, ok := grading["enum"].([]any); !ok || len(enum) != 6 {
		t.Errorf("grading_type enum = %v", grading["enum"])
	}
}

func TestValidationFailuresMakeNoRequest(t *testing.T) {
	r, hits := fullRegistry(t)
	tests := []struct {
		tool string
		args string
	}{
		{"create_assignment", `{"course_id": 123}`},
		{"create_assignment", `{"course_id": 123, "name": "HW1", "grading_type": "vibes"}`},
		{"create_assignment", `{"course_id": 123, "name": "HW1", "colour": "red"}`},
		{"create_assignment", `{"course_id": "abc", "name": "HW1"}`},
		{"create_quiz", `{"course_id": 1, "title": "Q", "quiz_type": "exam"}`},
		{"reorder_quiz_items", `{"course_id": 1, "quiz_id": 2, "order": []}`},
		{"reorder_quiz_items", `{"course_id": 1, "quiz_id": 2, "order": [{"id": 3, "type": "page"}]}`},
		{"create_quiz_question", `{"course_id": 1, "quiz_id": 2, "question_name": "n", "question_text": "t", "question_type": "riddle"}`},
		{"list_quiz_questions", `{"course_id": 1, "quiz_id": 2, "quiz_submission_id": 7}`},
		{"list_groups", `{"context_type": "school", "context_id": 1}`},
		{"read_discord_messages", `{"channel_id": "C", "limit": 500}`},
		{"send_discord_message", `{"channel_id": "C", "content": ""}`},
		{"monitor_slack_channel", `{"channel_id": "C", "duration_seconds": 3600}`},
		{"check_ai", `{}`},
		{"check_ai", `{"text": "a"} {"text": "b"}`},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			out := r.Call(context.Background(), tt.tool, json.RawMessage(tt.args))
			if out.Success {
				t.Fatalf("%s(%s) succeeded", tt.tool, tt.args)
			}
			if out.Error.Kind != KindValidation {
				t.Errorf("kind = %q (%s), want validation", out.Error.Kind, out.Error.Message)
			}
		})
	}
	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("%d requests reached the server", n)
	}
}

func TestUnknownTool(t *testing.T) {
	r := NewRegistry()
	out := r.Call(context.Background(), "nope", nil)
	if out.Success || out.Error.Kind != KindValidation || !strings.Contains(out.Error.Message, "nope") {
		t.Errorf("outcome = %+v", out)
	}
}

func TestCreateAssignmentConfirmation(t *testing.T) {
	var body map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/courses/123/assignments" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		w.Write([]byte(`{"id": 999, "name": "HW1", "points_possible": 10, "published": false}`))
	}))
	defer srv.Close()

	r := NewRegistry()
	RegisterCanvas(r, canvas.New(config.CanvasConfig{BaseURL: srv.URL, Token: "t"}))
	out := r.Call(context.Background(), "create_assignment", json.RawMessage(`{"course_id": 123, "name": "HW1", "points_possible": 10}`))
	if !out.Success {
		t.Fatalf("outcome = %+v", out.Error)
	}
	if out.Data != "Successfully created assignment." {
		t.Errorf("data = %#v", out.Data)
	}
	a := body["assignment"]
	if a["name"] != "HW1" || a["points_possible"] != float64(10) {
		t.Errorf("posted assignment = %v", a)
	}
	if _, ok := a["description"]; ok {
		t.Error("unset description was posted")
	}
}

func TestListDiscordChannelsFiltersTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/guilds/G1/channels" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": "1", "name": "general", "type": 0, "position": 0},
			{"id": "2", "name": "voice", "type": 2, "bitrate": 64000},
			{"id": "3", "name": "Course", "type": 4, "nsfw": false}
		]`))
	}))
	defer srv.Close()

	r := NewRegistry()
	RegisterDiscord(r, discord.New(config.DiscordConfig{BaseURL: srv.URL, Token: "t"}))
	out := r.Call(context.Background(), "list_discord_channels", json.RawMessage(`{"guild_id": "G1"}`))
	if !out.Success {
		t.Fatalf("outcome = %+v", out.Error)
	}
	data, _ := json.Marshal(out.Data)
	want := `[{"id":"1","name":"general","type":0},{"id":"3","name":"Course","type":4}]`
	if string(data) != want {
		t.Errorf("data = %s, want %s", data, want)
	}
}

func TestRemoteFailureKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"message":"The specified resource does not exist."}]}`))
	}))
	defer srv.Close()

	r := NewRegistry()
	RegisterCanvas(r, canvas.New(config.CanvasConfig{BaseURL: srv.URL, Token: "t"}))
	out := r.Call(context.Background(), "get_course", json.RawMessage(`{"course_id": 404}`))
	if out.Success {
		t.Fatal("expected failure")
	}
	if out.Error.Kind != KindRemote || out.Error.StatusCode != http.StatusNotFound {
		t.Errorf("failure = %+v", out.Error)
	}
	if !strings.Contains(out.Error.Message, "does not exist") {
		t.Errorf("message = %q", out.Error.Message)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	r := NewRegistry()
	RegisterDiscord(r, discord.New(config.DiscordConfig{BaseURL: base, Token: "t"}))
	out := r.Call(context.Background(), "list_discord_channels", json.RawMessage(`{"guild_id": "G1"}`))
	if out.Success || out.Error.Kind != KindTransport {
		t.Errorf("outcome = %+v", out.Error)
	}
	if out.Error.StatusCode != 0 {
		t.Errorf("status = %d", out.Error.StatusCode)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind FailureKind
		code int
	}{
		{"validation", &ValidationError{Msg: "bad"}, KindValidation, 0},
		{"empty path", fmt.Errorf("x: %w", apiclient.ErrEmptyPath), KindValidation, 0},
		{"empty text", aicheck.ErrEmptyText, KindValidation, 0},
		{"remote", fmt.Errorf("wrapped: %w", &apiclient.RemoteAPIError{Platform: "slack", StatusCode: 200, Body: "channel_not_found"}), KindRemote, 200},
		{"transport", &apiclient.TransportError{Platform: "canvas", Err: errors.New("refused")}, KindTransport, 0},
		{"canceled", context.Canceled, KindTransport, 0},
		{"other", errors.New("boom"), KindInternal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Failed(tt.err).Error
			if f.Kind != tt.kind || f.StatusCode != tt.code {
				t.Errorf("failure = %+v, want kind %s status %d", f, tt.kind, tt.code)
			}
		})
	}
}

func TestOutcomeJSON(t *testing.T) {
	data, _ := json.Marshal(Succeeded("ok"))
	if string(data) != `{"success":true,"data":"ok"}` {
		t.Errorf("success = %s", data)
	}
	data, _ = json.Marshal(Failed(&apiclient.RemoteAPIError{StatusCode: 403, Body: "forbidden"}))
	if string(data) != `{"success":false,"error":{"kind":"remote","message":"forbidden","status_code":403}}` {
		t.Errorf("failure = %s", data)
	}
}

func TestFilter(t *testing.T) {
	r, _ := fullRegistry(t)

	only, err := r.Filter([]string{"*discord*"}, []string{"delete_*"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	for _, name := range only.Names() {
		if !strings.Contains(name, "discord") || strings.HasPrefix(name, "delete_") {
			t.Errorf("unexpected tool %q", name)
		}
	}
	if only.Len() != 5 {
		t.Errorf("kept %d tools, want 5: %v", only.Len(), only.Names())
	}

	all, err := r.Filter(nil, nil)
	if err != nil || all.Len() != r.Len() {
		t.Errorf("empty filter kept %d of %d (err %v)", all.Len(), r.Len(), err)
	}

	if _, err := r.Filter([]string{"[oops"}, nil); err == nil {
		t.Error("expected invalid pattern error")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	fn := func(context.Context, noArgs) (any, error) { return nil, nil }
	Register(r, "dup", "first", fn)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate name")
		}
	}()
	Register(r, "dup", "second", fn)
}

func TestEmptyArgumentsDecodeAsObject(t *testing.T) {
	r := NewRegistry()
	Register(r, "ping", "ping", func(context.Context, noArgs) (any, error) { return "pong", nil })
	for _, raw := range []string{"", "null", "{}", "  "} {
		out := r.Call(context.Background(), "ping", json.RawMessage(raw))
		if !out.Success || out.Data != "pong" {
			t.Errorf("args %q: outcome = %+v", raw, out)
		}
	}
}

func TestMCPDefinition(t *testing.T) {
	r, _ := fullRegistry(t)
	tool, _ := r.Get("check_ai")
	def := tool.MCP()
	if def.Name != "check_ai" || def.Description != tool.Description {
		t.Errorf("mcp tool = %+v", def)
	}
	if string(def.RawInputSchema) != string(tool.Schema) {
		t.Errorf("raw schema = %s", def.RawInputSchema)
	}
}

func TestRegisterUnnamedArgumentTypes(t *testing.T) {
	r := NewRegistry()
	Register(r, "ping", "Ping.", func(context.Context, struct{}) (any, error) { return "pong", nil })
	Register(r, "echo", "Echo.", func(_ context.Context, a struct {
		Text string `json:"text" jsonschema:"required" validate:"required"`
	}) (any, error) {
		return a.Text, nil
	})

	for _, name := range []string{"ping", "echo"} {
		tool, _ := r.Get(name)
		var schema map[string]any
		if err := json.Unmarshal(tool.Schema, &schema); err != nil {
			t.Fatalf("%s: schema: %v", name, err)
		}
		if schema["type"] != "object" {
			t.Errorf("%s: type = %v", name, schema["type"])
		}
		if _, ok := schema["properties"]; !ok {
			t.Errorf("%s: schema has no properties: %s", name, tool.Schema)
		}
	}

	if out := r.Call(context.Background(), "ping", nil); !out.Success || out.Data != "pong" {
		t.Errorf("ping outcome = %+v", out)
	}
	if out := r.Call(context.Background(), "echo", json.RawMessage(`{"text":"hi"}`)); !out.Success || out.Data != "hi" {
		t.Errorf("echo outcome = %+v", out)
	}
	if out := r.Call(context.Background(), "echo", json.RawMessage(`{}`)); out.Success || out.Error.Kind != KindValidation {
		t.Errorf("expected validation failure, got %+v", out)
	}
}
