package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearCredentialEnv blanks every credential variable so the host
// environment cannot leak into a test.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CANVAS_API_URL", "CANVAS_API_TOKEN", "DISCORD_TOKEN", "ZEROGPT_API_KEY",
		"OPENAI_API_KEY", "OPENROUTER_API_KEY", "OLLAMA_HOST",
	} {
		t.Setenv(name, "")
	}
}

func fullyCredentialed() *Config {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "sk-test"
	cfg.Canvas.BaseURL = "https://canvas.example.edu"
	cfg.Canvas.Token = "canvas-token"
	cfg.Discord.Token = "discord-token"
	cfg.Slack.Workspaces = map[string]string{"math": "xoxb-math"}
	cfg.AICheck.APIKey = "zerogpt-key"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLM.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "o4-mini" {
		t.Errorf("expected default model o4-mini, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxSteps != 10 {
		t.Errorf("expected default max_steps 10, got %d", cfg.LLM.MaxSteps)
	}
	if cfg.Slack.PollInterval != 5*time.Second {
		t.Errorf("expected poll interval 5s, got %v", cfg.Slack.PollInterval)
	}
	if cfg.Context.SlackName != "math" {
		t.Errorf("expected default slack name math, got %q", cfg.Context.SlackName)
	}
	if cfg.Server.StreamPartials {
		t.Error("partial streaming should be off by default")
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearCredentialEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "test.taagent.yml")

	original := DefaultConfig()
	original.LLM.Provider = ProviderOpenRouter
	original.LLM.Model = "openai/gpt-4o"
	original.Server.Port = 9100
	original.Context.CourseID = "42"
	original.Tools.Exclude = []string{"delete_*", "*_quiz_question"}
	original.Slack.PollInterval = 2 * time.Second

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.LLM.Provider != original.LLM.Provider {
		t.Errorf("provider: got %q, want %q", loaded.LLM.Provider, original.LLM.Provider)
	}
	if loaded.LLM.Model != original.LLM.Model {
		t.Errorf("model: got %q, want %q", loaded.LLM.Model, original.LLM.Model)
	}
	if loaded.Server.Port != 9100 {
		t.Errorf("port: got %d, want 9100", loaded.Server.Port)
	}
	if loaded.Context.CourseID != "42" {
		t.Errorf("course_id: got %q, want 42", loaded.Context.CourseID)
	}
	if loaded.Slack.PollInterval != 2*time.Second {
		t.Errorf("poll_interval: got %v, want 2s", loaded.Slack.PollInterval)
	}
	if len(loaded.Tools.Exclude) != 2 || loaded.Tools.Exclude[0] != "delete_*" {
		t.Errorf("tools.exclude: got %v", loaded.Tools.Exclude)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearCredentialEnv(t)
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.LLM.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.LLM.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	clearCredentialEnv(t)
	path := filepath.Join(t.TempDir(), "test.yml")

	t.Setenv("TAAGENT_SERVER__PORT", "9999")
	t.Setenv("TAAGENT_CONTEXT__COURSE_NAME", "Calculus")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("env override failed: got port %d, want 9999", loaded.Server.Port)
	}
	if loaded.Context.CourseName != "Calculus" {
		t.Errorf("env override failed: got course name %q", loaded.Context.CourseName)
	}
}

func TestLoadCredentialEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("CANVAS_API_URL", "https://canvas.example.edu")
	t.Setenv("CANVAS_API_TOKEN", "ctok")
	t.Setenv("DISCORD_TOKEN", "dtok")
	t.Setenv("ZEROGPT_API_KEY", "ztok")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("SLACK_BOT_MATH", "xoxb-math")
	t.Setenv("SLACK_BOT_CSE", "xoxb-cse")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Canvas.Token != "ctok" || cfg.Discord.Token != "dtok" || cfg.AICheck.APIKey != "ztok" {
		t.Errorf("credentials not applied: %+v", cfg)
	}
	if cfg.LLM.APIKey != "sk-env" {
		t.Errorf("llm api key: got %q", cfg.LLM.APIKey)
	}
	if cfg.Slack.Workspaces["math"] != "xoxb-math" || cfg.Slack.Workspaces["cse"] != "xoxb-cse" {
		t.Errorf("slack workspaces: got %v", cfg.Slack.Workspaces)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidateValid(t *testing.T) {
	if err := fullyCredentialed().Validate(); err != nil {
		t.Errorf("credentialed config should be valid, got: %v", err)
	}
}

func TestValidateMissingCredentials(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	for _, name := range []string{"CANVAS_API_URL", "CANVAS_API_TOKEN", "DISCORD_TOKEN", "ZEROGPT_API_KEY", "OPENAI_API_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should mention %s", err, name)
		}
	}
}

func TestValidateDefaultWorkspaceToken(t *testing.T) {
	cfg := fullyCredentialed()
	cfg.Slack.Workspaces = map[string]string{"cse": "xoxb-cse"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SLACK_BOT_MATH") {
		t.Errorf("expected SLACK_BOT_MATH to be reported, got %v", err)
	}
}

func TestValidateInvalidProvider(t *testing.T) {
	cfg := fullyCredentialed()
	cfg.LLM.Provider = "invalid"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid provider")
	}
}

func TestValidateEmptyModel(t *testing.T) {
	cfg := fullyCredentialed()
	cfg.LLM.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty model")
	}
}

func TestValidateOllamaNeedsNoKey(t *testing.T) {
	cfg := fullyCredentialed()
	cfg.LLM.Provider = ProviderOllama
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("ollama should not need an API key: %v", err)
	}
}

func TestValidateMaxSteps(t *testing.T) {
	cfg := fullyCredentialed()
	cfg.LLM.MaxSteps = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero max_steps")
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestWorkspaceNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slack.Workspaces = map[string]string{"math": "a", "cse": "b"}
	got := cfg.WorkspaceNames()
	if len(got) != 2 || got[0] != "cse" || got[1] != "math" {
		t.Errorf("WorkspaceNames() = %v", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" math , cse ", []string{"math", "cse"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestLoadWorkspaceKeysCaseInsensitive(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("CANVAS_API_URL", "https://canvas.example.edu")
	t.Setenv("CANVAS_API_TOKEN", "ctok")
	t.Setenv("DISCORD_TOKEN", "dtok")
	t.Setenv("ZEROGPT_API_KEY", "ztok")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	path := filepath.Join(t.TempDir(), "test.yml")
	yml := "slack:\n  default_workspace: Math\n  workspaces:\n    Math: xoxb-math\n    CSE: xoxb-cse\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Slack.Workspaces["math"] != "xoxb-math" || cfg.Slack.Workspaces["cse"] != "xoxb-cse" {
		t.Errorf("slack workspaces: got %v", cfg.Slack.Workspaces)
	}
	if cfg.Slack.DefaultWorkspace != "math" {
		t.Errorf("default workspace: got %q", cfg.Slack.DefaultWorkspace)
	}
	for _, name := range cfg.MissingCredentials() {
		if strings.HasPrefix(name, "SLACK_BOT_") {
			t.Errorf("unexpected missing credential %s", name)
		}
	}
}
