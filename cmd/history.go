package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ta-agent/taagent/internal/discord"
	"github.com/ta-agent/taagent/internal/progress"
	"github.com/ta-agent/taagent/internal/slack"
)

var discordCmd = &cobra.Command{
	Use:   "discord",
	Short: "Discord utilities",
}

var slackCmd = &cobra.Command{
	Use:   "slack",
	Short: "Slack utilities",
}

var discordHistoryCmd = &cobra.Command{
	Use:   "history <channel_id>",
	Short: "Export a channel's message history as JSON lines, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		if cfg.Discord.Token == "" {
			return fmt.Errorf("DISCORD_TOKEN is not set")
		}
		client := discord.New(cfg.Discord)
		max, _ := cmd.Flags().GetInt("max")
		out, _ := cmd.Flags().GetString("out")

		return exportHistory(out, "discord "+args[0], func(onPage func([]discord.Message)) error {
			_, err := client.ReadHistory(cmd.Context(), args[0], max, onPage)
			return err
		})
	},
}

var slackHistoryCmd = &cobra.Command{
	Use:   "history <workspace> <channel_id>",
	Short: "Export a channel's message history as JSON lines, newest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		client := slack.New(cfg.Slack)
		max, _ := cmd.Flags().GetInt("max")
		out, _ := cmd.Flags().GetString("out")

		return exportHistory(out, "slack "+args[0]+"/"+args[1], func(onPage func([]slack.Message)) error {
			_, err := client.ReadHistory(cmd.Context(), args[0], args[1], max, onPage)
			return err
		})
	},
}

// exportHistory streams each page read by read to path (stdout when
// empty) as JSON lines, reporting progress on stderr.
func exportHistory[M any](path, description string, read func(onPage func([]M)) error) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	reporter := progress.NewReporter(description)
	reporter.Start(0)

	var (
		count, pages int
		writeErr     error
	)
	err := read(func(page []M) {
		pages++
		for _, m := range page {
			if writeErr == nil {
				writeErr = enc.Encode(m)
			}
		}
		count += len(page)
		reporter.Update(count, fmt.Sprintf("page %d", pages))
	})
	reporter.Finish()

	if err != nil {
		bw.Flush()
		return fmt.Errorf("reading history after %d messages: %w", count, err)
	}
	if writeErr != nil {
		return fmt.Errorf("writing history: %w", writeErr)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	fmt.Fprintf(os.Stderr, "exported %d messages\n", count)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{discordHistoryCmd, slackHistoryCmd} {
		c.Flags().Int("max", 0, "stop after this many messages (0 reads everything)")
		c.Flags().String("out", "", "write to this file instead of stdout")
	}
	discordCmd.AddCommand(discordHistoryCmd)
	slackCmd.AddCommand(slackHistoryCmd)
	rootCmd.AddCommand(discordCmd, slackCmd)
}
