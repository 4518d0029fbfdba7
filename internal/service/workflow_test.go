package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hearthplan/renovation-assistant/internal/llm"
	"github.com/hearthplan/renovation-assistant/internal/model"
	"github.com/hearthplan/renovation-assistant/internal/respond"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
)

type fakeLLM struct {
	content string
	err     error
	calls   int
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content}, nil
}

type fakeEnricher struct {
	results []model.Enrichment
	calls   int
	mode    model.Mode
}

func (f *fakeEnricher) Enrich(ctx context.Context, intent model.Intent, query string, mode model.Mode) []model.Enrichment {
	f.calls++
	f.mode = mode
	if mode != model.ModeAgent {
		return nil
	}
	return f.results
}

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func newTestWorkflow(t *testing.T, llmClient llm.Client, enricher Enricher) (*WorkflowService, *ConversationService, string) {
	t.Helper()

	convs := NewConversationService(nil, testLogger())
	conv, err := convs.Create(context.Background(), "tenant-1", "user-1", &model.CreateConversationRequest{Title: "kitchen"})
	require.NoError(t, err)

	wf := NewWorkflowService(convs, llmClient, enricher, 3, 10, testLogger())
	return wf, convs, conv.ID
}

func TestProcessTurnHappyPath(t *testing.T) {
	gen := &fakeLLM{content: "A mid-range kitchen remodel typically runs..."}
	enr := &fakeEnricher{}
	wf, convs, convID := newTestWorkflow(t, gen, enr)

	rec, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "how much would a kitchen remodel cost",
		Mode:    model.ModeChat,
	})
	require.NoError(t, err)

	assert.Equal(t, model.IntentCostEstimate, rec.Intent)
	assert.Equal(t, gen.content, rec.Text)
	assert.LessOrEqual(t, len(rec.SuggestedActions), 3)
	assert.LessOrEqual(t, len(rec.SuggestedQuestions), 4)

	// Both sides of the exchange are recorded, in order, after assembly.
	history, err := convs.History(context.Background(), "tenant-1", convID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
	assert.Equal(t, model.IntentCostEstimate, history[1].Metadata.Intent)
}

func TestProcessTurnDedupsRecentSuggestions(t *testing.T) {
	gen := &fakeLLM{content: "Here's a rough range."}
	wf, _, convID := newTestWorkflow(t, gen, &fakeEnricher{})

	first, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "how much does a bathroom remodel cost",
		Mode:    model.ModeChat,
	})
	require.NoError(t, err)

	firstKeys := map[string]bool{}
	for _, a := range first.SuggestedActions {
		firstKeys[a.Key] = true
	}
	require.True(t, firstKeys["get_detailed_estimate"])

	// Same intent one turn later: the just-shown action keys must be
	// filtered out by the lookback window.
	second, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "and what about the shower, what would that cost",
		Mode:    model.ModeChat,
	})
	require.NoError(t, err)

	for _, a := range second.SuggestedActions {
		assert.False(t, firstKeys[a.Key], "action %q repeated within lookback window", a.Key)
	}
}

func TestProcessTurnPDFWithoutPlan(t *testing.T) {
	gen := &fakeLLM{content: "generated text that should be replaced"}
	wf, _, convID := newTestWorkflow(t, gen, &fakeEnricher{})

	rec, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "create me pdf doc with cost breakdown",
		Mode:    model.ModeChat,
	})
	require.NoError(t, err)

	assert.Equal(t, model.IntentPDFRequest, rec.Intent)
	assert.Contains(t, rec.Text, "plan")
	assert.NotContains(t, rec.Text, "cannot")
}

func TestProcessTurnRetainsFactsAcrossTurns(t *testing.T) {
	gen := &fakeLLM{content: "ok"}
	wf, _, convID := newTestWorkflow(t, gen, &fakeEnricher{})

	_, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "I'd like a mid-range finish for the kitchen",
		Mode:    model.ModeChat,
	})
	require.NoError(t, err)

	rec, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "I will do it myself",
		Mode:    model.ModeChat,
	})
	require.NoError(t, err)

	// quality_tier was stated earlier and diy was stated just now; neither
	// may be re-asked.
	for _, q := range rec.SuggestedQuestions {
		assert.NotEqual(t, "ask_quality_tier", q.Key)
		assert.NotEqual(t, "ask_diy_or_contractor", q.Key)
	}
}

func TestProcessTurnGenerationFailureFallsBack(t *testing.T) {
	gen := &fakeLLM{err: errors.New("model overloaded")}
	wf, _, convID := newTestWorkflow(t, gen, &fakeEnricher{})

	rec, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "hello",
		Mode:    model.ModeChat,
	})
	require.NoError(t, err)
	assert.Equal(t, respond.FallbackText, rec.Text)
}

func TestProcessTurnAgentModeCarriesEnrichment(t *testing.T) {
	gen := &fakeLLM{content: "Step 1..."}
	enr := &fakeEnricher{results: []model.Enrichment{
		{Kind: model.EnrichmentVideos, OK: true, Videos: []model.VideoResult{{Title: "tiling 101"}}},
	}}
	wf, _, convID := newTestWorkflow(t, gen, enr)

	rec, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "how do I tile a backsplash",
		Mode:    model.ModeAgent,
	})
	require.NoError(t, err)

	require.Len(t, rec.Enrichment, 1)
	assert.Equal(t, model.EnrichmentVideos, rec.Enrichment[0].Kind)
	assert.Equal(t, model.ModeAgent, enr.mode)
}

func TestProcessTurnChatModeHasNoEnrichment(t *testing.T) {
	gen := &fakeLLM{content: "Step 1..."}
	enr := &fakeEnricher{results: []model.Enrichment{{Kind: model.EnrichmentVideos, OK: true}}}
	wf, _, convID := newTestWorkflow(t, gen, enr)

	rec, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
		Message: "how do I tile a backsplash",
		Mode:    model.ModeChat,
	})
	require.NoError(t, err)
	assert.Empty(t, rec.Enrichment)
}

func TestProcessTurnUnknownConversation(t *testing.T) {
	wf, _, _ := newTestWorkflow(t, &fakeLLM{content: "x"}, &fakeEnricher{})

	_, err := wf.ProcessTurn(context.Background(), "tenant-1", "missing", &model.TurnRequest{
		Message: "hi",
		Mode:    model.ModeChat,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTurnsHistoryRead(t *testing.T) {
	gen := &fakeLLM{content: "ok"}
	wf, _, convID := newTestWorkflow(t, gen, &fakeEnricher{})

	for i := 0; i < 3; i++ {
		_, err := wf.ProcessTurn(context.Background(), "tenant-1", convID, &model.TurnRequest{
			Message: "hello",
			Mode:    model.ModeChat,
		})
		require.NoError(t, err)
	}

	resp, err := wf.Turns(context.Background(), "tenant-1", convID, 4)
	require.NoError(t, err)
	assert.Len(t, resp.Turns, 4)
	assert.True(t, resp.HasMore)
}
