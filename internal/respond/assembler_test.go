package respond

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

func TestAssembleAppliesCaps(t *testing.T) {
	a := New()

	var actions []model.SuggestedAction
	for i := 0; i < 6; i++ {
		actions = append(actions, model.SuggestedAction{Key: "a"})
	}
	var questions []model.SuggestedQuestion
	for i := 0; i < 9; i++ {
		questions = append(questions, model.SuggestedQuestion{Key: "q"})
	}

	rec := a.Assemble(Input{
		Text:      "here you go",
		Intent:    model.IntentResult{Intent: model.IntentGeneral},
		Facts:     model.FactMap{},
		Actions:   actions,
		Questions: questions,
		Mode:      model.ModeAgent,
		Now:       time.Unix(0, 0),
	})

	assert.Len(t, rec.SuggestedActions, 3)
	assert.Len(t, rec.SuggestedQuestions, 4)
}

func TestAssembleStripsEnrichmentInChatMode(t *testing.T) {
	a := New()

	rec := a.Assemble(Input{
		Text:   "answer",
		Intent: model.IntentResult{Intent: model.IntentCostEstimate},
		Facts:  model.FactMap{},
		Enrichment: []model.Enrichment{
			{Kind: model.EnrichmentProducts, OK: true},
		},
		Mode: model.ModeChat,
		Now:  time.Unix(0, 0),
	})

	assert.Empty(t, rec.Enrichment)
}

func TestAssemblePDFWithoutPlanOffersToCreateIt(t *testing.T) {
	a := New()

	rec := a.Assemble(Input{
		Text:   "Here is the cost breakdown you asked about.",
		Intent: model.IntentResult{Intent: model.IntentPDFRequest, Confidence: 0.8},
		Facts:  model.FactMap{},
		Mode:   model.ModeChat,
		Now:    time.Unix(0, 0),
	})

	assert.Contains(t, rec.Text, "plan")
	assert.NotContains(t, rec.Text, "cannot")
	assert.NotContains(t, rec.Text, "unable")
}

func TestAssemblePDFWithPlanKeepsGeneratedText(t *testing.T) {
	a := New()

	facts := model.FactMap{model.FactDIYPlan: {Value: "true"}}
	rec := a.Assemble(Input{
		Text:   "Your PDF is on the way.",
		Intent: model.IntentResult{Intent: model.IntentPDFRequest},
		Facts:  facts,
		Mode:   model.ModeChat,
		Now:    time.Unix(0, 0),
	})

	assert.Equal(t, "Your PDF is on the way.", rec.Text)
}

func TestAssembleFallbackTextWhenGenerationFailed(t *testing.T) {
	a := New()

	rec := a.Assemble(Input{
		Text:   "",
		Intent: model.IntentResult{Intent: model.IntentGeneral},
		Facts:  model.FactMap{},
		Mode:   model.ModeChat,
		Now:    time.Unix(0, 0),
	})

	assert.Equal(t, FallbackText, rec.Text)
}

func TestAssembleIdempotent(t *testing.T) {
	a := New()

	in := Input{
		Text:   "done",
		Intent: model.IntentResult{Intent: model.IntentDIYGuide, Confidence: 0.7},
		Facts:  model.FactMap{},
		Actions: []model.SuggestedAction{
			{Key: "view_tool_list", Label: "See the tool list"},
		},
		Enrichment: []model.Enrichment{
			{Kind: model.EnrichmentVideos, OK: true, Videos: []model.VideoResult{{Title: "t"}}},
		},
		Mode: model.ModeAgent,
		Now:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	first, err := json.Marshal(a.Assemble(in))
	require.NoError(t, err)
	second, err := json.Marshal(a.Assemble(in))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
