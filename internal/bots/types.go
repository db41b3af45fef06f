package bots

// IncomingMessage is a user message received through the Slack events API.
type IncomingMessage struct {
	Workspace string
	ChannelID string
	UserID    string
	Text      string
	ThreadID  string // thread the reply belongs in
	Timestamp string
}

// OutgoingMessage is the reply posted back to Slack.
type OutgoingMessage struct {
	Workspace string
	ChannelID string
	Text      string
	ThreadID  string
}
