package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for structured environment overrides.
// Nested keys are separated by a double underscore: TAAGENT_SERVER__PORT.
const EnvPrefix = "TAAGENT_"

// slackTokenPrefix introduces one Slack bot token per workspace, e.g.
// SLACK_BOT_MATH for the "math" workspace.
const slackTokenPrefix = "SLACK_BOT_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TAAGENT_*) and the well-known credential
// variables. A .env file in the working directory is read first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// TAAGENT_SERVER__PORT -> server.port, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	applyCredentialEnv(cfg)

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}

	return cfg, nil
}

// applyCredentialEnv fills credentials from the conventional variables the
// platforms document. Explicit config values win.
func applyCredentialEnv(cfg *Config) {
	setIfEmpty(&cfg.Canvas.BaseURL, os.Getenv("CANVAS_API_URL"))
	setIfEmpty(&cfg.Canvas.Token, os.Getenv("CANVAS_API_TOKEN"))
	setIfEmpty(&cfg.Discord.Token, os.Getenv("DISCORD_TOKEN"))
	setIfEmpty(&cfg.AICheck.APIKey, os.Getenv("ZEROGPT_API_KEY"))
	if envVar := APIKeyEnvVar(cfg.LLM.Provider); envVar != "" {
		setIfEmpty(&cfg.LLM.APIKey, os.Getenv(envVar))
	}
	if cfg.LLM.Provider == ProviderOllama {
		setIfEmpty(&cfg.LLM.BaseURL, os.Getenv("OLLAMA_HOST"))
	}

	// Workspace names are case-insensitive; the YAML keys keep whatever case
	// the user typed.
	workspaces := make(map[string]string, len(cfg.Slack.Workspaces))
	for name, token := range cfg.Slack.Workspaces {
		workspaces[strings.ToLower(name)] = token
	}
	cfg.Slack.Workspaces = workspaces
	cfg.Slack.DefaultWorkspace = strings.ToLower(cfg.Slack.DefaultWorkspace)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, slackTokenPrefix) || value == "" {
			continue
		}
		ws := strings.ToLower(strings.TrimPrefix(name, slackTokenPrefix))
		if ws == "" {
			continue
		}
		if _, exists := cfg.Slack.Workspaces[ws]; !exists {
			cfg.Slack.Workspaces[ws] = value
		}
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI:     true,
	ProviderOpenRouter: true,
	ProviderOllama:     true,
}

// Validate checks that the configuration contains valid values and that
// every platform credential is present. Callers that serve requests treat
// a non-nil error as fatal.
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		return fmt.Errorf("llm.provider is required")
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider %q: must be one of openai, openrouter, ollama", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.MaxSteps <= 0 {
		return fmt.Errorf("llm.max_steps must be positive")
	}
	if c.LLM.RPM < 0 {
		return fmt.Errorf("llm.rpm must be non-negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if missing := c.MissingCredentials(); len(missing) > 0 {
		return fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MissingCredentials lists the environment variables whose values are
// required but absent.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Canvas.BaseURL == "" {
		missing = append(missing, "CANVAS_API_URL")
	}
	if c.Canvas.Token == "" {
		missing = append(missing, "CANVAS_API_TOKEN")
	}
	if c.Discord.Token == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if len(c.Slack.Workspaces) == 0 {
		missing = append(missing, slackTokenPrefix+"<WORKSPACE>")
	} else if _, ok := c.Slack.Workspaces[strings.ToLower(c.Slack.DefaultWorkspace)]; !ok {
		missing = append(missing, slackTokenPrefix+strings.ToUpper(c.Slack.DefaultWorkspace))
	}
	if c.AICheck.APIKey == "" {
		missing = append(missing, "ZEROGPT_API_KEY")
	}
	if envVar := APIKeyEnvVar(c.LLM.Provider); envVar != "" && c.LLM.APIKey == "" {
		missing = append(missing, envVar)
	}
	return missing
}

// WorkspaceNames returns the configured Slack workspaces in sorted order.
func (c *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(c.Slack.Workspaces))
	for name := range c.Slack.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}
