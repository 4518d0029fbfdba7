// Package model defines data structures for the renovation assistant.
package model

import (
	"time"
)

// Role represents the role of a turn's author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Mode switches enrichment on or off for a turn. It is supplied by the
// caller per request and threaded through the pipeline explicitly.
type Mode string

const (
	// ModeChat disables all enrichment tools.
	ModeChat Mode = "chat"
	// ModeAgent enables the full enrichment fan-out.
	ModeAgent Mode = "agent"
)

// Valid reports whether the mode is a known value.
func (m Mode) Valid() bool {
	return m == ModeChat || m == ModeAgent
}

// TurnMetadata carries per-turn classification and suggestion bookkeeping.
// The suggestion key lists are what the deduplicator consults on later turns.
type TurnMetadata struct {
	Intent       Intent   `json:"intent,omitempty"`
	Confidence   float64  `json:"confidence,omitempty"`
	ActionKeys   []string `json:"action_keys,omitempty"`
	QuestionKeys []string `json:"question_keys,omitempty"`
}

// Turn represents one exchange in a conversation. Immutable once recorded.
type Turn struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id"`
	TenantID       string       `json:"tenant_id"`
	Role           Role         `json:"role"`
	Text           string       `json:"text"`
	CreatedAt      time.Time    `json:"created_at"`
	Metadata       TurnMetadata `json:"metadata,omitempty"`

	// JetStream metadata, populated when read back from the journal.
	Sequence uint64 `json:"sequence,omitempty"`
}

// History is an ordered, append-only sequence of turns. The orchestrator
// only ever reads a bounded suffix of it.
type History []Turn

// Suffix returns the last n turns, or the whole history if shorter.
func (h History) Suffix(n int) History {
	if n <= 0 || len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// LastAssistantTurns returns up to n most recent assistant turns,
// newest last.
func (h History) LastAssistantTurns(n int) []Turn {
	if n <= 0 {
		return nil
	}
	var out []Turn
	for i := len(h) - 1; i >= 0 && len(out) < n; i-- {
		if h[i].Role == RoleAssistant {
			out = append(out, h[i])
		}
	}
	// Reverse so callers see chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// LastUserText returns the text of the most recent user turn, or "".
func (h History) LastUserText() string {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Role == RoleUser {
			return h[i].Text
		}
	}
	return ""
}
