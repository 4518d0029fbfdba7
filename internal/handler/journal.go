package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hearthplan/renovation-assistant/internal/middleware"
	"github.com/hearthplan/renovation-assistant/internal/model"
	natsclient "github.com/hearthplan/renovation-assistant/internal/nats"
	"github.com/hearthplan/renovation-assistant/internal/service"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
)

// JournalHandler exposes the durable turn journal for audit reads. The
// working history lives in the conversation service; this endpoint reads
// what was journaled to JetStream, sequence numbers included.
type JournalHandler struct {
	journal       *natsclient.Journal
	conversations *service.ConversationService
	logger        *logger.Logger
}

// NewJournalHandler creates a new journal handler. journal may be nil
// when no NATS server is configured.
func NewJournalHandler(
	journal *natsclient.Journal,
	conversations *service.ConversationService,
	log *logger.Logger,
) *JournalHandler {
	return &JournalHandler{
		journal:       journal,
		conversations: conversations,
		logger:        log,
	}
}

// Replay handles GET /api/v1/conversations/:id/journal
func (h *JournalHandler) Replay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.journal == nil {
		writeError(w, http.StatusServiceUnavailable, "journal not configured")
		return
	}

	if _, err := h.conversations.Get(ctx, tenantID, conversationID); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	turns, err := h.journal.ReplayTurns(ctx, tenantID, conversationID, limit)
	if err != nil {
		h.logger.Error("failed to replay journal",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to replay journal")
		return
	}

	writeJSON(w, http.StatusOK, &model.ListTurnsResponse{Turns: turns})
}
