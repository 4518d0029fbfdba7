package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hearthplan/renovation-assistant/internal/middleware"
	"github.com/hearthplan/renovation-assistant/internal/model"
	"github.com/hearthplan/renovation-assistant/internal/service"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
)

// TurnHandler handles turn endpoints: submitting a user message for
// processing and reading recorded history back.
type TurnHandler struct {
	workflow      *service.WorkflowService
	conversations *service.ConversationService
	logger        *logger.Logger
}

// NewTurnHandler creates a new turn handler.
func NewTurnHandler(
	workflow *service.WorkflowService,
	conversations *service.ConversationService,
	log *logger.Logger,
) *TurnHandler {
	return &TurnHandler{
		workflow:      workflow,
		conversations: conversations,
		logger:        log,
	}
}

// Process handles POST /api/v1/conversations/:id/turns
//
// The request blocks while the pipeline runs; the enrichment fan-out is
// bounded by the orchestrator's single timeout.
func (h *TurnHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMode(req.Mode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.workflow.ProcessTurn(ctx, tenantID, conversationID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		h.logger.Error("failed to process turn",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to process turn")
		return
	}

	conv, err := h.conversations.Get(ctx, tenantID, conversationID)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, &model.TurnResponse{
		ConversationID:     conversationID,
		Text:               record.Text,
		SuggestedActions:   record.SuggestedActions,
		SuggestedQuestions: record.SuggestedQuestions,
		Enrichment:         record.Enrichment,
		Intent:             record.Intent,
		TurnCount:          conv.TurnCount,
	})
}

// List handles GET /api/v1/conversations/:id/turns
func (h *TurnHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetTenantID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	resp, err := h.workflow.Turns(ctx, tenantID, conversationID, limit)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		h.logger.Error("failed to list turns", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list turns")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
