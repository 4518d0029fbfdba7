// Package service provides business logic for the renovation assistant.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthplan/renovation-assistant/internal/model"
	natsclient "github.com/hearthplan/renovation-assistant/internal/nats"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
	"github.com/hearthplan/renovation-assistant/pkg/metrics"
)

// ErrNotFound is returned when a conversation does not exist for the
// tenant.
var ErrNotFound = errors.New("conversation not found")

// conversationState pairs a conversation with its append-only history.
type conversationState struct {
	conv  model.Conversation
	turns model.History
}

// ConversationService owns conversations and their turn histories. Turns
// are appended once per processed exchange, never edited. Storage is
// in-memory (would be replaced with a database in production); the NATS
// journal provides the durable audit trail.
type ConversationService struct {
	journal *natsclient.Journal
	logger  *logger.Logger

	conversations map[string]*conversationState
	mu            sync.RWMutex
}

// NewConversationService creates a new conversation service. journal may
// be nil when no NATS server is configured.
func NewConversationService(journal *natsclient.Journal, log *logger.Logger) *ConversationService {
	return &ConversationService{
		journal:       journal,
		logger:        log,
		conversations: make(map[string]*conversationState),
	}
}

// Create creates a new conversation.
func (s *ConversationService) Create(ctx context.Context, tenantID, userID string, req *model.CreateConversationRequest) (*model.Conversation, error) {
	now := time.Now().UTC()

	conv := model.Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TenantID:  tenantID,
		UserID:    userID,
		Title:     req.Title,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  req.Metadata,
	}

	s.mu.Lock()
	s.conversations[conv.ID] = &conversationState{conv: conv}
	s.mu.Unlock()

	metrics.ConversationsTotal.WithLabelValues(tenantID).Inc()
	s.logger.Info("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.String("tenant_id", tenantID),
	)

	return &conv, nil
}

// Get retrieves a conversation by ID.
func (s *ConversationService) Get(ctx context.Context, tenantID, conversationID string) (*model.Conversation, error) {
	s.mu.RLock()
	state, exists := s.conversations[conversationID]
	s.mu.RUnlock()

	if !exists || state.conv.TenantID != tenantID || state.conv.Deleted {
		return nil, ErrNotFound
	}

	conv := state.conv
	return &conv, nil
}

// List retrieves conversations for a tenant.
func (s *ConversationService) List(ctx context.Context, tenantID string, limit, offset int) (*model.ListConversationsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var convs []model.Conversation
	for _, state := range s.conversations {
		if state.conv.TenantID == tenantID && !state.conv.Deleted {
			convs = append(convs, state.conv)
		}
	}

	total := len(convs)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &model.ListConversationsResponse{
		Conversations: convs[start:end],
		Total:         total,
		HasMore:       end < total,
	}, nil
}

// Update updates a conversation's title or metadata.
func (s *ConversationService) Update(ctx context.Context, tenantID, conversationID string, req *model.UpdateConversationRequest) (*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.conversations[conversationID]
	if !exists || state.conv.TenantID != tenantID || state.conv.Deleted {
		return nil, ErrNotFound
	}

	if req.Title != "" {
		state.conv.Title = req.Title
	}
	if req.Metadata != nil {
		state.conv.Metadata = req.Metadata
	}
	state.conv.UpdatedAt = time.Now().UTC()

	conv := state.conv
	return &conv, nil
}

// Delete soft deletes a conversation.
func (s *ConversationService) Delete(ctx context.Context, tenantID, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.conversations[conversationID]
	if !exists || state.conv.TenantID != tenantID {
		return ErrNotFound
	}

	state.conv.Deleted = true
	state.conv.UpdatedAt = time.Now().UTC()

	return nil
}

// History returns a copy of the conversation's turn history. The copy
// keeps mid-turn readers isolated from the single append that follows
// assembly.
func (s *ConversationService) History(ctx context.Context, tenantID, conversationID string) (model.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, exists := s.conversations[conversationID]
	if !exists || state.conv.TenantID != tenantID || state.conv.Deleted {
		return nil, ErrNotFound
	}

	out := make(model.History, len(state.turns))
	copy(out, state.turns)
	return out, nil
}

// AppendTurns records processed turns at the end of a conversation's
// history, atomically, and journals them best effort.
func (s *ConversationService) AppendTurns(ctx context.Context, tenantID, conversationID string, turns ...model.Turn) error {
	s.mu.Lock()
	state, exists := s.conversations[conversationID]
	if !exists || state.conv.TenantID != tenantID || state.conv.Deleted {
		s.mu.Unlock()
		return ErrNotFound
	}
	state.turns = append(state.turns, turns...)
	state.conv.TurnCount = len(state.turns)
	state.conv.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	if s.journal == nil {
		return nil
	}
	for i := range turns {
		if _, err := s.journal.PublishTurn(ctx, &turns[i]); err != nil {
			// Journal trouble must never fail a turn.
			metrics.JournalPublishFailures.Inc()
			s.logger.Warn("failed to journal turn",
				zap.String("conversation_id", conversationID),
				zap.Error(err),
			)
		}
	}
	return nil
}
