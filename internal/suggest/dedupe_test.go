package suggest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

func assistantTurn(actionKeys, questionKeys []string) model.Turn {
	return model.Turn{
		Role: model.RoleAssistant,
		Metadata: model.TurnMetadata{
			ActionKeys:   actionKeys,
			QuestionKeys: questionKeys,
		},
	}
}

func TestFilterActionsDropsRecentlyShown(t *testing.T) {
	history := model.History{
		{Role: model.RoleUser, Text: "how much will it cost"},
		assistantTurn([]string{"get_detailed_estimate"}, nil),
	}

	candidates := []model.SuggestedAction{
		{Key: "get_detailed_estimate", Label: "Get a detailed estimate"},
		{Key: "compare_contractor_quotes", Label: "Compare contractor quotes"},
	}

	got := FilterActions(candidates, history, DefaultLookback, ActionCap)
	require.Len(t, got, 1)
	assert.Equal(t, "compare_contractor_quotes", got[0].Key)
}

func TestFilterActionsWindowExpiry(t *testing.T) {
	// The key was suggested four assistant turns ago, outside the default
	// window of three, so it is eligible again.
	history := model.History{
		assistantTurn([]string{"get_detailed_estimate"}, nil),
		assistantTurn([]string{"view_tool_list"}, nil),
		assistantTurn(nil, nil),
		assistantTurn(nil, nil),
	}

	candidates := []model.SuggestedAction{
		{Key: "get_detailed_estimate", Label: "Get a detailed estimate"},
	}

	got := FilterActions(candidates, history, DefaultLookback, ActionCap)
	assert.Len(t, got, 1)
}

func TestFilterActionsCapAndOrder(t *testing.T) {
	var candidates []model.SuggestedAction
	for i := 0; i < 10; i++ {
		candidates = append(candidates, model.SuggestedAction{Key: fmt.Sprintf("action_%d", i)})
	}

	got := FilterActions(candidates, nil, DefaultLookback, ActionCap)
	require.Len(t, got, ActionCap)
	for i, a := range got {
		assert.Equal(t, fmt.Sprintf("action_%d", i), a.Key)
	}
}

func TestFilterQuestionsDropsRecentlyShown(t *testing.T) {
	history := model.History{
		assistantTurn(nil, []string{"ask_budget", "ask_quality_tier"}),
	}

	candidates := []model.SuggestedQuestion{
		{Key: "ask_budget"},
		{Key: "ask_room_dimensions"},
		{Key: "ask_quality_tier"},
	}

	got := FilterQuestions(candidates, history, DefaultLookback, QuestionCap)
	require.Len(t, got, 1)
	assert.Equal(t, "ask_room_dimensions", got[0].Key)
}

func TestFilterQuestionsNeverExceedsCap(t *testing.T) {
	var candidates []model.SuggestedQuestion
	for i := 0; i < 8; i++ {
		candidates = append(candidates, model.SuggestedQuestion{Key: fmt.Sprintf("q_%d", i)})
	}

	got := FilterQuestions(candidates, nil, DefaultLookback, QuestionCap)
	assert.Len(t, got, QuestionCap)
}

func TestCandidatesSkipAnsweredFacts(t *testing.T) {
	factMap := model.FactMap{
		model.FactQualityTier: {Value: "mid-range", Explicit: true},
	}

	_, questions := Candidates(model.IntentCostEstimate, factMap)
	for _, q := range questions {
		assert.NotEqual(t, "ask_quality_tier", q.Key)
	}
}

func TestCandidatesPDFWithoutPlan(t *testing.T) {
	actions, _ := Candidates(model.IntentPDFRequest, model.FactMap{})
	require.NotEmpty(t, actions)
	assert.Equal(t, "create_diy_plan", actions[0].Key)

	withPlan := model.FactMap{model.FactDIYPlan: {Value: "true"}}
	actions, _ = Candidates(model.IntentPDFRequest, withPlan)
	assert.Equal(t, "export_pdf", actions[0].Key)
}
