package model

import "fmt"

// Inbound is one user message as delivered by the chat transport.
type Inbound struct {
	SessionID string
	ChatID    int64
	Text      string
	// Command is set, without the leading slash, when Text is a bot command.
	Command string
}

// SessionKey builds the per-user, per-chat session identifier.
func SessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}

// Reply is what the bot answers to one Inbound.
type Reply struct {
	Text string
	// Options are rendered as a one-time selectable keyboard.
	Options []string
	// RemoveOptions dismisses a keyboard left from a previous reply.
	RemoveOptions bool
}

// Turn carries one Inbound through the dialog graph.
type Turn struct {
	SessionID string
	Text      string
	State     ConversationState
	Player    *Player
	Reply     Reply
	// Done marks a terminal transition; the session is cleared afterwards.
	Done bool
}
