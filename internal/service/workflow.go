package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthplan/renovation-assistant/internal/facts"
	"github.com/hearthplan/renovation-assistant/internal/intent"
	"github.com/hearthplan/renovation-assistant/internal/llm"
	"github.com/hearthplan/renovation-assistant/internal/model"
	"github.com/hearthplan/renovation-assistant/internal/respond"
	"github.com/hearthplan/renovation-assistant/internal/suggest"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
	"github.com/hearthplan/renovation-assistant/pkg/metrics"
)

// Enricher runs the enrichment fan-out for a turn.
type Enricher interface {
	Enrich(ctx context.Context, intent model.Intent, query string, mode model.Mode) []model.Enrichment
}

// WorkflowService runs the per-turn pipeline: classify, extract facts,
// generate text, enrich, dedupe suggestions, assemble. Everything except
// the generation call and the enrichment dispatches is synchronous and
// CPU-only. All per-turn state is derived from history; nothing is cached
// across turns.
type WorkflowService struct {
	conversations *ConversationService
	classifier    *intent.Classifier
	extractor     *facts.Extractor
	assembler     *respond.Assembler
	llmClient     llm.Client
	enricher      Enricher
	logger        *logger.Logger

	lookbackTurns int
	historyTurns  int

	now func() time.Time
}

// NewWorkflowService creates a workflow service. llmClient may be nil
// (text generation degrades to a fallback reply); enricher must not be.
func NewWorkflowService(
	conversations *ConversationService,
	llmClient llm.Client,
	enricher Enricher,
	lookbackTurns, historyTurns int,
	log *logger.Logger,
) *WorkflowService {
	if lookbackTurns <= 0 {
		lookbackTurns = suggest.DefaultLookback
	}
	if historyTurns <= 0 {
		historyTurns = 10
	}
	return &WorkflowService{
		conversations: conversations,
		classifier:    intent.New(),
		extractor:     facts.New(),
		assembler:     respond.New(),
		llmClient:     llmClient,
		enricher:      enricher,
		logger:        log,
		lookbackTurns: lookbackTurns,
		historyTurns:  historyTurns,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ProcessTurn runs one user message through the pipeline and appends both
// sides of the exchange to history after assembly. The history read at
// the start is the only read; the append at the end is the only write.
func (s *WorkflowService) ProcessTurn(ctx context.Context, tenantID, conversationID string, req *model.TurnRequest) (*model.ResponseRecord, error) {
	mode := req.Mode
	if !mode.Valid() {
		mode = model.ModeChat
	}

	history, err := s.conversations.History(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}
	window := history.Suffix(s.historyTurns)

	now := s.now()
	userTurn := model.Turn{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		TenantID:       tenantID,
		Role:           model.RoleUser,
		Text:           req.Message,
		CreatedAt:      now,
	}

	// Classification and extraction are cheap and local; extraction sees
	// the pending user turn so facts stated this turn count immediately.
	ir := s.classifier.Classify(req.Message, window)
	metrics.IntentClassifications.WithLabelValues(string(ir.Intent)).Inc()
	userTurn.Metadata = model.TurnMetadata{Intent: ir.Intent, Confidence: ir.Confidence}

	factMap := s.extractor.Extract(append(window, userTurn))

	text := s.generate(ctx, req.Message, window, factMap, ir)

	query := req.Message
	if query == "" {
		query = window.LastUserText()
	}
	enrichment := s.enricher.Enrich(ctx, ir.Intent, query, mode)

	actionCandidates, questionCandidates := suggest.Candidates(ir.Intent, factMap)
	actions := suggest.FilterActions(actionCandidates, window, s.lookbackTurns, suggest.ActionCap)
	questions := suggest.FilterQuestions(questionCandidates, window, s.lookbackTurns, suggest.QuestionCap)

	record := s.assembler.Assemble(respond.Input{
		Text:       text,
		Intent:     ir,
		Facts:      factMap,
		Actions:    actions,
		Questions:  questions,
		Enrichment: enrichment,
		Mode:       mode,
		Now:        now,
	})

	assistantTurn := model.Turn{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		TenantID:       tenantID,
		Role:           model.RoleAssistant,
		Text:           record.Text,
		CreatedAt:      s.now(),
		Metadata: model.TurnMetadata{
			Intent:       ir.Intent,
			Confidence:   ir.Confidence,
			ActionKeys:   actionKeys(record.SuggestedActions),
			QuestionKeys: questionKeys(record.SuggestedQuestions),
		},
	}

	if err := s.conversations.AppendTurns(ctx, tenantID, conversationID, userTurn, assistantTurn); err != nil {
		return nil, err
	}

	metrics.RecordTurn(tenantID, string(ir.Intent), string(mode))

	return &record, nil
}

// Turns returns the recorded history for a conversation, most recent
// last.
func (s *WorkflowService) Turns(ctx context.Context, tenantID, conversationID string, limit int) (*model.ListTurnsResponse, error) {
	history, err := s.conversations.History(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}

	hasMore := limit > 0 && len(history) > limit
	if hasMore {
		history = history.Suffix(limit)
	}
	return &model.ListTurnsResponse{Turns: history, HasMore: hasMore}, nil
}

// generate awaits the external text-generation call. Both transient and
// content-policy failures yield an empty string here; the assembler
// substitutes the fallback reply so the turn still completes.
func (s *WorkflowService) generate(ctx context.Context, utterance string, window model.History, factMap model.FactMap, ir model.IntentResult) string {
	if s.llmClient == nil {
		return ""
	}

	req := buildCompletionRequest(utterance, window, factMap, ir)

	start := time.Now()
	resp, err := s.llmClient.Complete(ctx, req)
	if err != nil {
		metrics.RecordLLM(s.llmClient.Name(), "error", time.Since(start).Seconds(), 0, 0)
		s.logger.Warn("text generation failed, using fallback",
			zap.String("provider", s.llmClient.Name()),
			zap.Error(err),
		)
		return ""
	}

	metrics.RecordLLM(s.llmClient.Name(), "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
	return resp.Content
}

func actionKeys(actions []model.SuggestedAction) []string {
	keys := make([]string, len(actions))
	for i, a := range actions {
		keys[i] = a.Key
	}
	return keys
}

func questionKeys(questions []model.SuggestedQuestion) []string {
	keys := make([]string, len(questions))
	for i, q := range questions {
		keys[i] = q.Key
	}
	return keys
}
