package model

import "context"

// Stage is the position of a session in the lookup dialog.
type Stage int

const (
	// AwaitingName is the initial stage: the next text is a player name.
	AwaitingName Stage = iota
	// AwaitingSelection means a candidate menu was shown and the next text
	// should be one of its display names.
	AwaitingSelection
)

func (s Stage) String() string {
	switch s {
	case AwaitingName:
		return "awaiting_name"
	case AwaitingSelection:
		return "awaiting_selection"
	default:
		return "unknown"
	}
}

// MaxCandidates bounds the disambiguation menu.
const MaxCandidates = 5

// ConversationState is kept per session between messages.
type ConversationState struct {
	Stage      Stage    `json:"stage"`
	Candidates []Player `json:"candidates,omitempty"`
}

// FindCandidate returns the stored candidate whose display name equals name.
func (s ConversationState) FindCandidate(name string) (Player, bool) {
	for _, p := range s.Candidates {
		if p.DisplayName == name {
			return p, true
		}
	}
	return Player{}, false
}

type SessionRepository interface {
	// Load returns the state of a session, AwaitingName when none is stored.
	Load(ctx context.Context, sessionID string) ConversationState

	// Save stores the state of a session, refreshing its idle TTL.
	Save(ctx context.Context, sessionID string, state ConversationState)

	// Clear resets a session to AwaitingName.
	Clear(ctx context.Context, sessionID string)
}
