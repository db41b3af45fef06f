package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ta-agent/taagent/internal/agent"
	mcpserver "github.com/ta-agent/taagent/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the tools over MCP stdio",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio exposing the configured Canvas, Discord, Slack and AI-check tools to other agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
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

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "taagent MCP server started on stdio (tools=%d)\n", registry.Len())

		var auditor agent.Auditor
		if store != nil {
			auditor = store
		}
		return mcpserver.NewServer(registry, auditor).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
