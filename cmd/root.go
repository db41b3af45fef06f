package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "taagent",
	Short: "AI teaching assistant for Canvas, Discord and Slack",
	Long: `taagent is an LLM-driven teaching assistant. It exposes Canvas LMS,
Discord, Slack and ZeroGPT operations as tools, runs an agent loop over
them, and serves the agent over a WebSocket, a Slack events webhook,
an interactive terminal chat and MCP stdio.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".taagent.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
