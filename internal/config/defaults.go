package config

import "time"

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:     "o4-mini",
	ProviderOpenRouter: "openai/o4-mini",
	ProviderOllama:     "llama3.1",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			Model:    defaultModels[ProviderOpenAI],
			RPM:      0,
			MaxSteps: 10,
		},
		Canvas: CanvasConfig{
			PerPage:  100,
			MaxPages: 10,
			Timeout:  30 * time.Second,
		},
		Discord: DiscordConfig{
			BaseURL:   "https://discord.com/api/v10",
			UserAgent: "DiscordBot (https://github.com/ta-agent/taagent, v1.0)",
			Timeout:   30 * time.Second,
		},
		Slack: SlackConfig{
			BaseURL:          "https://slack.com/api",
			DefaultWorkspace: "math",
			Workspaces:       map[string]string{},
			PollInterval:     5 * time.Second,
			Timeout:          30 * time.Second,
		},
		AICheck: AICheckConfig{
			URL:     "https://api.zerogpt.com/api/detect/detectText",
			Timeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Port: 8000,
		},
		Context: ContextConfig{
			CourseID:         "11883045",
			CourseName:       "Math 101",
			DiscordServerID:  "1365763509006372927",
			DiscordChannelID: "1365763511040610365",
			SlackName:        "math",
		},
		Tools: ToolsConfig{
			Include: []string{"**"},
		},
		Audit: AuditConfig{
			Enabled: false,
			DBPath:  ".taagent/audit.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultModel returns the default model for a provider, falling back to
// the OpenAI default for unknown providers.
func DefaultModel(p ProviderType) string {
	if m, ok := defaultModels[p]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}
