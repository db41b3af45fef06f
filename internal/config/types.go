package config

import "time"

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level taagent configuration, corresponding to .taagent.yml.
// It is built once by Load and handed by value to each client constructor.
type Config struct {
	LLM     LLMConfig     `yaml:"llm" koanf:"llm"`
	Canvas  CanvasConfig  `yaml:"canvas" koanf:"canvas"`
	Discord DiscordConfig `yaml:"discord" koanf:"discord"`
	Slack   SlackConfig   `yaml:"slack" koanf:"slack"`
	AICheck AICheckConfig `yaml:"aicheck" koanf:"aicheck"`
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Context ContextConfig `yaml:"context" koanf:"context"`
	Tools   ToolsConfig   `yaml:"tools" koanf:"tools"`
	Audit   AuditConfig   `yaml:"audit" koanf:"audit"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// LLMConfig selects the model runtime the agent talks to.
type LLMConfig struct {
	Provider    ProviderType `yaml:"provider" koanf:"provider"`
	Model       string       `yaml:"model" koanf:"model"`
	APIKey      string       `yaml:"api_key,omitempty" koanf:"api_key"`
	BaseURL     string       `yaml:"base_url,omitempty" koanf:"base_url"`
	RPM         int          `yaml:"rpm" koanf:"rpm"`
	MaxSteps    int          `yaml:"max_steps" koanf:"max_steps"`
	Temperature float32      `yaml:"temperature" koanf:"temperature"`
}

// CanvasConfig holds the LMS endpoint and bearer token.
type CanvasConfig struct {
	BaseURL  string        `yaml:"base_url" koanf:"base_url"`
	Token    string        `yaml:"token,omitempty" koanf:"token"`
	PerPage  int           `yaml:"per_page" koanf:"per_page"`
	MaxPages int           `yaml:"max_pages" koanf:"max_pages"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`
}

// DiscordConfig holds the Discord bot credentials.
type DiscordConfig struct {
	BaseURL   string        `yaml:"base_url" koanf:"base_url"`
	Token     string        `yaml:"token,omitempty" koanf:"token"`
	UserAgent string        `yaml:"user_agent" koanf:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
}

// SlackConfig maps workspace names to bot tokens.
type SlackConfig struct {
	BaseURL          string            `yaml:"base_url" koanf:"base_url"`
	DefaultWorkspace string            `yaml:"default_workspace" koanf:"default_workspace"`
	Workspaces       map[string]string `yaml:"workspaces,omitempty" koanf:"workspaces"`
	PollInterval     time.Duration     `yaml:"poll_interval" koanf:"poll_interval"`
	Timeout          time.Duration     `yaml:"timeout" koanf:"timeout"`
}

// AICheckConfig configures the ZeroGPT detector.
type AICheckConfig struct {
	URL     string        `yaml:"url" koanf:"url"`
	APIKey  string        `yaml:"api_key,omitempty" koanf:"api_key"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

// ServerConfig holds settings for the HTTP/WebSocket server.
type ServerConfig struct {
	Port               int    `yaml:"port" koanf:"port"`
	AllowAllOrigins    bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	StreamPartials     bool   `yaml:"stream_partials" koanf:"stream_partials"`
	SlackSigningSecret string `yaml:"slack_signing_secret,omitempty" koanf:"slack_signing_secret"`
}

// ContextConfig is the course/server/channel a new session starts bound to.
// IDs are kept as strings: Discord snowflakes overflow float64.
type ContextConfig struct {
	CourseID         string `yaml:"course_id" koanf:"course_id"`
	CourseName       string `yaml:"course_name" koanf:"course_name"`
	DiscordServerID  string `yaml:"discord_server_id" koanf:"discord_server_id"`
	DiscordChannelID string `yaml:"discord_channel_id" koanf:"discord_channel_id"`
	SlackName        string `yaml:"slack_name" koanf:"slack_name"`
}

// ToolsConfig narrows the registered tool set with doublestar globs.
type ToolsConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// AuditConfig controls the SQLite tool-call audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	DBPath  string `yaml:"db_path" koanf:"db_path"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
