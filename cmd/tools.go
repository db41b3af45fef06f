package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List or call the agent's tools directly",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
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

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			type entry struct {
				Name        string          `json:"name"`
				Description string          `json:"description"`
				Schema      json.RawMessage `json:"input_schema"`
			}
			var out []entry
			for _, t := range registry.List() {
				out = append(out, entry{t.Name, t.Description, t.Schema})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, t := range registry.List() {
			desc, _, _ := strings.Cut(t.Description, "\n")
			fmt.Fprintf(w, "%s\t%s\n", t.Name, desc)
		}
		return w.Flush()
	},
}

var toolsCallCmd = &cobra.Command{
	Use:   "call <name>",
	Short: "Call one tool with JSON arguments and print its outcome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
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

		raw, _ := cmd.Flags().GetString("args")
		outcome := registry.Call(cmd.Context(), args[0], json.RawMessage(raw))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcome); err != nil {
			return err
		}
		if !outcome.Success {
			return errors.New("tool call failed")
		}
		return nil
	},
}

func init() {
	toolsListCmd.Flags().Bool("json", false, "print names, descriptions and input schemas as JSON")
	toolsCallCmd.Flags().String("args", "{}", "tool arguments as a JSON object")
	toolsCmd.AddCommand(toolsListCmd, toolsCallCmd)
	rootCmd.AddCommand(toolsCmd)
}
