package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

func TestExtractQualityTier(t *testing.T) {
	e := New()

	history := model.History{
		{Role: model.RoleUser, Text: "I'd like a mid-range kitchen remodel"},
	}

	m := e.Extract(history)
	require.True(t, m.Has(model.FactQualityTier))
	assert.Equal(t, "mid-range", m.Value(model.FactQualityTier))
}

func TestExtractRetainsEarlierFactsAcrossTurns(t *testing.T) {
	e := New()

	// quality_tier stated three turns before the DIY statement must survive.
	history := model.History{
		{Role: model.RoleUser, Text: "I'd like a mid-range bathroom update"},
		{Role: model.RoleAssistant, Text: "Great, mid-range it is."},
		{Role: model.RoleUser, Text: "what tools do I need"},
		{Role: model.RoleAssistant, Text: "Here is a tool list."},
		{Role: model.RoleUser, Text: "I will do it myself"},
	}

	m := e.Extract(history)
	assert.Equal(t, "mid-range", m.Value(model.FactQualityTier))
	assert.Equal(t, "diy", m.Value(model.FactDIYOrContractor))
}

func TestExtractLaterStatementOverwrites(t *testing.T) {
	e := New()

	history := model.History{
		{Role: model.RoleUser, Text: "keep it budget-friendly"},
		{Role: model.RoleAssistant, Text: "Understood."},
		{Role: model.RoleUser, Text: "actually let's go high-end"},
	}

	m := e.Extract(history)
	assert.Equal(t, "high-end", m.Value(model.FactQualityTier))
	assert.Equal(t, 2, m[model.FactQualityTier].TurnIndex)
}

func TestExtractBudgetAndDimensions(t *testing.T) {
	e := New()

	history := model.History{
		{Role: model.RoleUser, Text: "My budget is $5,000 and the room is 10 x 12 feet"},
	}

	m := e.Extract(history)
	assert.Equal(t, "$5,000", m.Value(model.FactBudget))
	assert.Equal(t, "10x12", m.Value(model.FactRoomDimensions))
}

func TestExtractBudgetMixedCase(t *testing.T) {
	e := New()

	// Word-form budgets must match regardless of the user's casing.
	history := model.History{
		{Role: model.RoleUser, Text: "I can spend about 5,000 Dollars on this"},
	}

	m := e.Extract(history)
	assert.Equal(t, "5,000 dollars", m.Value(model.FactBudget))
}

func TestExtractContractorPreference(t *testing.T) {
	e := New()

	history := model.History{
		{Role: model.RoleUser, Text: "I'd rather hire someone for this"},
	}

	m := e.Extract(history)
	assert.Equal(t, "contractor", m.Value(model.FactDIYOrContractor))
}

func TestExtractDIYPlanFromAssistantTurn(t *testing.T) {
	e := New()

	history := model.History{
		{Role: model.RoleUser, Text: "how do I retile my shower"},
		{
			Role:     model.RoleAssistant,
			Text:     "Step 1: remove the old tile...",
			Metadata: model.TurnMetadata{Intent: model.IntentDIYGuide},
		},
	}

	m := e.Extract(history)
	assert.True(t, m.Has(model.FactDIYPlan))
	// Inferred, so a later explicit fact for another key is unaffected.
	assert.False(t, m[model.FactDIYPlan].Explicit)
}

func TestInferredNeverOverwritesExplicit(t *testing.T) {
	m := make(model.FactMap)

	m.Set(model.FactQualityTier, model.Fact{Value: "mid-range", TurnIndex: 0, Explicit: true})
	m.Set(model.FactQualityTier, model.Fact{Value: "budget", TurnIndex: 3, Explicit: false})

	assert.Equal(t, "mid-range", m.Value(model.FactQualityTier))
}

func TestExtractEmptyHistory(t *testing.T) {
	e := New()

	m := e.Extract(nil)
	assert.Empty(t, m)
}
