// Package intent classifies user utterances into renovation intents.
package intent

import (
	"strings"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

// rule is one entry in the priority-ordered classification table. The
// first rule with any keyword match wins, so earlier intents cannot be
// swallowed by incidental matches further down.
type rule struct {
	intent   model.Intent
	keywords []string
	base     float64
}

// defaultRules is ordered by priority: explicit document/export requests
// outrank design, DIY and cost matches, which outrank the general
// fallback. The keyword lists are tuning heuristics, not a contract.
var defaultRules = []rule{
	{model.IntentPDFRequest, []string{"pdf", "export", "download", "printable", "print"}, 0.6},
	{model.IntentDesignConcept, []string{"visualize", "visualise", "mockup", "mock-up", "design concept", "look like", "render", "redesign"}, 0.5},
	{model.IntentContractorRequest, []string{"contractor", "hire", "professional", "tradesperson", "handyman"}, 0.5},
	{model.IntentDIYGuide, []string{"diy", "how do i", "how to", "step by step", "step-by-step", "tutorial", "guide", "do it myself", "install"}, 0.5},
	{model.IntentCostEstimate, []string{"cost", "price", "estimate", "how much", "quote", "breakdown"}, 0.5},
	{model.IntentProductRecommendation, []string{"recommend", "which product", "what product", "should i buy", "brand", "materials"}, 0.5},
}

const (
	// generalConfidence is the low-confidence fallback for unmatched input.
	generalConfidence = 0.25
	// matchIncrement raises confidence for each matched keyword beyond
	// the first; multi-word phrases count double for specificity.
	matchIncrement = 0.1
)

// Classifier maps a user utterance plus recent history to an intent. It is
// a pure function of its inputs and never fails.
type Classifier struct {
	rules []rule
}

// New creates a classifier with the default rule table.
func New() *Classifier {
	return &Classifier{rules: defaultRules}
}

// Classify determines the intent for an utterance. An empty utterance is a
// continuation turn and falls back to the most recent user turn in history.
func (c *Classifier) Classify(utterance string, history model.History) model.IntentResult {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		text = strings.ToLower(history.LastUserText())
	}
	if text == "" {
		return model.IntentResult{Intent: model.IntentGeneral, Confidence: generalConfidence}
	}

	for _, r := range c.rules {
		score := 0
		for _, kw := range r.keywords {
			if !strings.Contains(text, kw) {
				continue
			}
			if strings.Contains(kw, " ") {
				score += 2
			} else {
				score++
			}
		}
		if score == 0 {
			continue
		}
		conf := r.base + matchIncrement*float64(score-1)
		if conf > 1.0 {
			conf = 1.0
		}
		return model.IntentResult{Intent: r.intent, Confidence: conf}
	}

	return model.IntentResult{Intent: model.IntentGeneral, Confidence: generalConfidence}
}
