package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ta-agent/taagent/internal/agent"
	"github.com/ta-agent/taagent/internal/bots"
	"github.com/ta-agent/taagent/internal/chat"
	"github.com/ta-agent/taagent/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	Long: `Starts the taagent server: the /ws chat WebSocket, the Slack events
webhook, the tool listing and, when enabled, the audit trail API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		c, err := newClients(cfg)
		if err != nil {
			return err
		}
		registry, err := buildRegistry(cfg, c)
		if err != nil {
			return err
		}
		store, closeAudit, err := openAudit(cfg)
		if err != nil {
			return err
		}
		defer closeAudit()

		orch, err := newOrchestrator(cfg, registry, store)
		if err != nil {
			return err
		}
		defaults := agent.ContextFromConfig(cfg.Context)

		gateway := bots.NewGateway(bots.NewProcessor(orch, defaults), c.slack)
		var slackHandler *bots.SlackHandler
		if cfg.Server.SlackSigningSecret != "" {
			slackHandler = bots.NewSlackHandler(gateway, cfg.Server.SlackSigningSecret, cfg.Slack.DefaultWorkspace)
		} else {
			log.Warn().Msg("server.slack_signing_secret not set; Slack events route disabled")
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, server.Deps{
			Chat: chat.NewHandler(orch, defaults, chat.Options{
				StreamPartials:  cfg.Server.StreamPartials,
				AllowAllOrigins: cfg.Server.AllowAllOrigins,
			}),
			Registry: registry,
			Audit:    store,
			Slack:    slackHandler,
		})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "taagent server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "  Tools: %d\n", registry.Len())
		fmt.Fprintf(os.Stderr, "  Course: %s (%s)\n", defaults.CourseName, defaults.CourseID)
		if store != nil {
			fmt.Fprintf(os.Stderr, "  Audit: %s\n", cfg.Audit.DBPath)
		}

		err = srv.Run(ctx)
		if slackHandler != nil {
			log.Info().Msg("waiting for in-flight Slack replies")
			slackHandler.Wait()
		}
		return err
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
