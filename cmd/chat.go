package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ta-agent/taagent/internal/agent"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the teaching assistant in the terminal",
	Long: `Starts an interactive chat with the agent, bound to the configured course.

Commands:
  /switch <course_id> [course name]   rebind to another course and clear history
  /context                            show the bound course, server, channel and workspace
  exit, quit                          leave`,
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

		orch, err := newOrchestrator(cfg, registry, store)
		if err != nil {
			return err
		}
		sess := orch.NewSession(agent.ContextFromConfig(cfg.Context))

		fmt.Printf("taagent %s: chatting about %s. Type exit to leave.\n\n", Version, sess.Context().CourseName)
		return runREPL(cmd.Context(), sess)
	},
}

func runREPL(parent context.Context, sess *agent.Session) error {
	if parent == nil {
		parent = context.Background()
	}
	for {
		prompt := promptui.Prompt{Label: "you"}
		line, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case line == "/context":
			printContext(sess.Context())
			continue
		case strings.HasPrefix(line, "/switch"):
			next, err := parseSwitchCommand(sess.Context(), line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			sess.Switch(next)
			fmt.Printf("Switched to %s. How can I assist you?\n\n", next.CourseName)
			continue
		}

		// Ctrl-C cancels the running turn, not the chat.
		ctx, stop := signal.NotifyContext(parent, os.Interrupt)
		streamed := false
		reply, err := sess.Run(ctx, line, func(delta string) {
			if !streamed {
				fmt.Print("ta: ")
				streamed = true
			}
			fmt.Print(delta)
		})
		stop()

		switch {
		case err != nil:
			if streamed {
				fmt.Println()
			}
			fmt.Printf("Sorry, I couldn't complete that request: %v\n\n", err)
		case streamed:
			fmt.Print("\n\n")
		default:
			fmt.Printf("ta: %s\n\n", reply)
		}
	}
}

// parseSwitchCommand reads "/switch <course_id> [course name]". Discord
// and Slack bindings carry over from the current context.
func parseSwitchCommand(current agent.Context, line string) (agent.Context, error) {
	fields := strings.Fields(strings.TrimPrefix(line, "/switch"))
	if len(fields) == 0 {
		return current, errors.New("usage: /switch <course_id> [course name]")
	}
	next := current
	next.CourseID = fields[0]
	next.CourseName = "course " + fields[0]
	if len(fields) > 1 {
		next.CourseName = strings.Join(fields[1:], " ")
	}
	return next, nil
}

func printContext(c agent.Context) {
	fmt.Printf("course:          %s (%s)\n", c.CourseName, c.CourseID)
	fmt.Printf("discord server:  %s\n", c.DiscordServerID)
	fmt.Printf("discord channel: %s\n", c.DiscordChannelID)
	fmt.Printf("slack workspace: %s\n\n", c.SlackName)
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
