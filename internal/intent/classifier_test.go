package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

func TestClassify(t *testing.T) {
	c := New()

	tests := []struct {
		name      string
		utterance string
		want      model.Intent
	}{
		{"cost question", "how much would a kitchen remodel cost", model.IntentCostEstimate},
		{"diy question", "how do I install a tile backsplash", model.IntentDIYGuide},
		{"product question", "which brand of paint should I buy", model.IntentProductRecommendation},
		{"contractor question", "can you help me hire a contractor", model.IntentContractorRequest},
		{"design question", "visualize my bathroom with green tiles", model.IntentDesignConcept},
		{"pdf request", "export my plan as a pdf", model.IntentPDFRequest},
		{"small talk", "hello there", model.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.utterance, nil)
			assert.Equal(t, tt.want, got.Intent)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestClassifyPDFOutranksCostAndDIY(t *testing.T) {
	c := New()

	// Document keywords must win even when cost/DIY keywords appear in the
	// same utterance.
	utterances := []string{
		"create me pdf doc with cost breakdown",
		"download the diy guide",
		"I want a printable cost estimate",
	}

	for _, u := range utterances {
		got := c.Classify(u, nil)
		assert.Equal(t, model.IntentPDFRequest, got.Intent, "utterance: %s", u)
	}
}

func TestClassifyConfidenceGrowsWithMatches(t *testing.T) {
	c := New()

	one := c.Classify("what does it cost", nil)
	many := c.Classify("how much does it cost, give me a price estimate", nil)

	require.Equal(t, model.IntentCostEstimate, one.Intent)
	require.Equal(t, model.IntentCostEstimate, many.Intent)
	assert.Greater(t, many.Confidence, one.Confidence)
}

func TestClassifyContinuationUsesHistory(t *testing.T) {
	c := New()

	history := model.History{
		{Role: model.RoleUser, Text: "how do I install laminate flooring"},
		{Role: model.RoleAssistant, Text: "Here is a step-by-step plan."},
	}

	got := c.Classify("", history)
	assert.Equal(t, model.IntentDIYGuide, got.Intent)
}

func TestClassifyNeverFails(t *testing.T) {
	c := New()

	got := c.Classify("", nil)
	assert.Equal(t, model.IntentGeneral, got.Intent)
	assert.Less(t, got.Confidence, 0.5)
}
