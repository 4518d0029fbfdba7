package model

import (
	"time"
)

// Conversation represents a renovation conversation thread and owns its
// turn history. History is append-only; turns are never edited or deleted.
type Conversation struct {
	ID        string            `json:"id"`
	TenantID  string            `json:"tenant_id"`
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	TurnCount int               `json:"turn_count,omitempty"`
	Deleted   bool              `json:"deleted,omitempty"`
}

// CreateConversationRequest is the request to create a new conversation.
type CreateConversationRequest struct {
	Title    string            `json:"title"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// UpdateConversationRequest is the request to update a conversation.
type UpdateConversationRequest struct {
	Title    string            `json:"title,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
	HasMore       bool           `json:"has_more"`
}

// TurnRequest is the request to process one user turn.
type TurnRequest struct {
	Message string `json:"message"`
	Mode    Mode   `json:"mode"`
}

// TurnResponse is the caller-facing payload for a processed turn.
type TurnResponse struct {
	ConversationID     string              `json:"conversation_id"`
	Text               string              `json:"text"`
	SuggestedActions   []SuggestedAction   `json:"suggested_actions"`
	SuggestedQuestions []SuggestedQuestion `json:"suggested_questions"`
	Enrichment         []Enrichment        `json:"enrichment,omitempty"`
	Intent             Intent              `json:"intent"`
	TurnCount          int                 `json:"turn_count"`
}

// ListTurnsResponse is the response for reading conversation history.
type ListTurnsResponse struct {
	Turns   []Turn `json:"turns"`
	HasMore bool   `json:"has_more"`
}
