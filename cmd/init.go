package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ta-agent/taagent/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize taagent configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick the LLM, Canvas instance and default course context, and writes a .taagent.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
