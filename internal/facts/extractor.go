// Package facts derives stated conversation facts from turn history, so
// downstream text generation never re-asks a question whose answer is
// already in the conversation.
package facts

import (
	"regexp"
	"strings"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

var (
	budgetPattern    = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d+)?k?|\b\d[\d,]*(?:\.\d+)?\s?(?:dollars|usd|bucks)\b`)
	dimensionPattern = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:x|by|×)\s*(\d+(?:\.\d+)?)\b`)
)

// Tier keyword tables. A later explicit statement replaces an earlier one
// for the same key.
var tierPhrases = []struct {
	value   string
	phrases []string
}{
	{"high-end", []string{"high-end", "high end", "premium", "luxury", "top of the line"}},
	{"mid-range", []string{"mid-range", "mid range", "middle of the road", "average quality"}},
	{"budget", []string{"budget-friendly", "on a budget", "cheap", "low cost", "economical", "basic finish"}},
}

var (
	diyPhrases        = []string{"do it myself", "doing it myself", "on my own", "diy", "by myself"}
	contractorPhrases = []string{"hire someone", "hire a", "contractor", "professional do", "get it done professionally"}
)

// Extractor scans history for previously stated facts. Pure function of
// history; recomputed each turn rather than cached across turns.
type Extractor struct{}

// New creates a fact extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract walks turns in chronological order and applies the fact
// recognizers. Explicit restatements overwrite; inferred values never
// replace an explicit fact.
func (e *Extractor) Extract(history model.History) model.FactMap {
	m := make(model.FactMap)

	for i, turn := range history {
		if turn.Role == model.RoleAssistant {
			// A delivered DIY guide is the prerequisite for PDF export.
			if turn.Metadata.Intent == model.IntentDIYGuide {
				m.Set(model.FactDIYPlan, model.Fact{Value: "true", TurnIndex: i})
			}
			continue
		}

		text := strings.ToLower(turn.Text)

		for _, tier := range tierPhrases {
			if containsAny(text, tier.phrases) {
				m.Set(model.FactQualityTier, model.Fact{Value: tier.value, TurnIndex: i, Explicit: true})
				break
			}
		}

		if containsAny(text, diyPhrases) {
			m.Set(model.FactDIYOrContractor, model.Fact{Value: "diy", TurnIndex: i, Explicit: true})
		} else if containsAny(text, contractorPhrases) {
			m.Set(model.FactDIYOrContractor, model.Fact{Value: "contractor", TurnIndex: i, Explicit: true})
		}

		if match := budgetPattern.FindString(text); match != "" {
			m.Set(model.FactBudget, model.Fact{Value: strings.TrimSpace(match), TurnIndex: i, Explicit: true})
		}

		if parts := dimensionPattern.FindStringSubmatch(text); parts != nil {
			m.Set(model.FactRoomDimensions, model.Fact{Value: parts[1] + "x" + parts[2], TurnIndex: i, Explicit: true})
		}
	}

	return m
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
