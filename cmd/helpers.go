package cmd

import (
	"fmt"

	"github.com/ta-agent/taagent/internal/agent"
	"github.com/ta-agent/taagent/internal/aicheck"
	"github.com/ta-agent/taagent/internal/audit"
	"github.com/ta-agent/taagent/internal/canvas"
	"github.com/ta-agent/taagent/internal/config"
	"github.com/ta-agent/taagent/internal/db"
	"github.com/ta-agent/taagent/internal/discord"
	"github.com/ta-agent/taagent/internal/llm"
	"github.com/ta-agent/taagent/internal/logging"
	"github.com/ta-agent/taagent/internal/slack"
	"github.com/ta-agent/taagent/internal/tools"
)

// loadConfig loads the config and installs the logger it describes. When
// strict is set, missing credentials are an error.
func loadConfig(strict bool) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `taagent init` to create a config file", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, verbose)
	if strict {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	return cfg, nil
}

// clients holds the platform clients built from one config.
type clients struct {
	canvas  *canvas.Client
	discord *discord.Client
	slack   *slack.Client
	aicheck *aicheck.Client
}

func newClients(cfg *config.Config) (*clients, error) {
	ai, err := aicheck.New(cfg.AICheck)
	if err != nil {
		return nil, err
	}
	return &clients{
		canvas:  canvas.New(cfg.Canvas),
		discord: discord.New(cfg.Discord),
		slack:   slack.New(cfg.Slack),
		aicheck: ai,
	}, nil
}

// buildRegistry registers every tool and narrows the set with the
// configured include/exclude globs.
func buildRegistry(cfg *config.Config, c *clients) (*tools.Registry, error) {
	r := tools.NewRegistry()
	tools.RegisterCanvas(r, c.canvas)
	tools.RegisterDiscord(r, c.discord)
	tools.RegisterSlack(r, c.slack)
	tools.RegisterAICheck(r, c.aicheck)

	filtered, err := r.Filter(cfg.Tools.Include, cfg.Tools.Exclude)
	if err != nil {
		return nil, fmt.Errorf("filtering tools: %w", err)
	}
	return filtered, nil
}

// openAudit opens the audit store when enabled. The returned close func
// is never nil.
func openAudit(cfg *config.Config) (*audit.Store, func(), error) {
	if !cfg.Audit.Enabled {
		return nil, func() {}, nil
	}
	database, err := db.Open(cfg.Audit.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening audit database: %w", err)
	}
	return audit.NewStore(database), func() { database.Close() }, nil
}

// newOrchestrator builds the agent over registry. store may be nil.
func newOrchestrator(cfg *config.Config, registry *tools.Registry, store *audit.Store) (*agent.Orchestrator, error) {
	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	opts := agent.Options{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxSteps:    cfg.LLM.MaxSteps,
	}
	if store != nil {
		opts.Auditor = store
	}
	return agent.New(provider, registry, opts), nil
}
