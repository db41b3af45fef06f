package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ta-agent/taagent/internal/agent"
)

func TestParseSwitchCommand(t *testing.T) {
	current := agent.Context{CourseID: "1", CourseName: "Math 101", DiscordServerID: "9", SlackName: "math"}

	tests := []struct {
		line     string
		wantID   string
		wantName string
		wantErr  bool
	}{
		{"/switch 42 Physics 201", "42", "Physics 201", false},
		{"/switch 42", "42", "course 42", false},
		{"/switch", "", "", true},
		{"/switch   ", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			next, err := parseSwitchCommand(current, tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if next.CourseID != tt.wantID || next.CourseName != tt.wantName {
				t.Errorf("got %s/%q, want %s/%q", next.CourseID, next.CourseName, tt.wantID, tt.wantName)
			}
			if next.DiscordServerID != "9" || next.SlackName != "math" {
				t.Errorf("platform bindings not carried over: %+v", next)
			}
		})
	}
}

type line struct {
	ID string `json:"id"`
}

func TestExportHistoryWritesJSONLines(t *testing.T) {
	t.Setenv("CI", "true")
	path := filepath.Join(t.TempDir(), "out.jsonl")

	err := exportHistory(path, "test", func(onPage func([]line)) error {
		onPage([]line{{"3"}, {"2"}})
		onPage([]line{{"1"}})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\"id\":\"3\"}\n{\"id\":\"2\"}\n{\"id\":\"1\"}\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestExportHistoryKeepsPartialOnError(t *testing.T) {
	t.Setenv("CI", "true")
	path := filepath.Join(t.TempDir(), "out.jsonl")

	err := exportHistory(path, "test", func(onPage func([]line)) error {
		onPage([]line{{"5"}})
		return errors.New("rate limited")
	})
	if err == nil || !strings.Contains(err.Error(), "after 1 messages") {
		t.Fatalf("expected read error, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{\"id\":\"5\"}\n" {
		t.Errorf("expected partial export, got %q", data)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "chat", "mcp", "tools", "discord", "slack", "init", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
