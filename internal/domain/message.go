package domain

import "time"

// InboundMessage is a text message or command received from the chat platform.
type InboundMessage struct {
	UpdateID  int
	MessageID int
	ChatID    int64
	ChatTitle string
	ChatType  string // private | group | supergroup | channel
	ThreadID  int    // forum topic / reply thread, 0 when absent
	IsTopic   bool   // sent inside a forum topic
	SenderID  int64
	Text      string
	Command   string // without the leading slash and @bot suffix; empty for plain text
	Timestamp time.Time
}

// IsCommand reports whether the message starts with a bot command.
func (m InboundMessage) IsCommand() bool { return m.Command != "" }

type OutboundMessage struct {
	ChatID                string // numeric chat ID or @channelname
	Text                  string
	ParseMode             string // Markdown | MarkdownV2 | HTML, empty for plain text
	DisableWebPagePreview bool
	ThreadID              int
	ReplyToMessageID      int
}
