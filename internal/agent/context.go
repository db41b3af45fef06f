package agent

import (
	"fmt"
	"strings"

	"github.com/ta-agent/taagent/internal/config"
)

// Context is the course, Discord server/channel and Slack workspace a
// session is bound to. IDs are kept verbatim as strings.
type Context struct {
	CourseID         string `json:"course_id"`
	CourseName       string `json:"course_name"`
	DiscordServerID  string `json:"discord_server_id"`
	DiscordChannelID string `json:"discord_channel_id"`
	SlackName        string `json:"slack_name"`
}

// ContextFromConfig returns the default session context.
func ContextFromConfig(c config.ContextConfig) Context {
	return Context{
		CourseID:         c.CourseID,
		CourseName:       c.CourseName,
		DiscordServerID:  c.DiscordServerID,
		DiscordChannelID: c.DiscordChannelID,
		SlackName:        c.SlackName,
	}
}

// Instructions builds the system prompt for a context.
func Instructions(c Context) string {
	var b strings.Builder
	b.WriteString("You are an assistant that helps the user work with several services and collect insights from them. ")
	b.WriteString("You have tools for the Canvas LMS, Discord and Slack. The Canvas tools cover most of what can be done in Canvas itself; ")
	b.WriteString("use what you learn from them to answer the user or carry out their request as completely as you can. ")
	b.WriteString("The Discord and Slack tools are mainly for retrieving messages, analysing them and reporting back, along with their other capabilities.\n\n")

	fmt.Fprintf(&b, "Your primary course is course ID %s", c.CourseID)
	if c.CourseName != "" {
		fmt.Fprintf(&b, " (%s)", c.CourseName)
	}
	b.WriteString(". When the request is unclear, answer about this course unless the user explicitly asks about other courses or data. ")
	b.WriteString("Make sure any course you reference is the right one, and refer to courses by name rather than ID when talking to the user.\n\n")

	b.WriteString("You may use any combination of tools in any order to complete the task. ")
	fmt.Fprintf(&b, "The Discord server ID is %s and the Discord channel ID is %s. ", c.DiscordServerID, c.DiscordChannelID)
	fmt.Fprintf(&b, "The Slack workspace is called %s. ", c.SlackName)
	b.WriteString("There is also an AI-text check tool; only use it when specifically asked to.\n\n")

	b.WriteString("When you send messages on Discord or Slack, sound like a real human TA: no template-like replies, casual language, ")
	b.WriteString("varied greetings, the occasional minor typo, and the conversational tone the students use. ")
	b.WriteString("Those messages should read as if they came from an actual teaching assistant rather than an AI system.")
	return b.String()
}
