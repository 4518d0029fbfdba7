// Package suggest produces and filters suggested actions and follow-up
// questions for a turn.
package suggest

import (
	"github.com/hearthplan/renovation-assistant/internal/model"
)

const (
	// DefaultLookback is how many recent assistant turns are consulted
	// before a suggestion becomes eligible again.
	DefaultLookback = 3
	// ActionCap and QuestionCap bound the suggestion lists.
	ActionCap   = 3
	QuestionCap = 4
)

// FilterActions drops candidates whose key was suggested within the last
// `lookback` assistant turns, then truncates to limit preserving order.
// Callers pre-sort candidates by relevance. Pure; history is not mutated.
func FilterActions(candidates []model.SuggestedAction, history model.History, lookback, limit int) []model.SuggestedAction {
	seen := recentKeys(history, lookback, func(m model.TurnMetadata) []string { return m.ActionKeys })

	out := make([]model.SuggestedAction, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Key]; dup {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}

// FilterQuestions is the question-side counterpart of FilterActions.
func FilterQuestions(candidates []model.SuggestedQuestion, history model.History, lookback, limit int) []model.SuggestedQuestion {
	seen := recentKeys(history, lookback, func(m model.TurnMetadata) []string { return m.QuestionKeys })

	out := make([]model.SuggestedQuestion, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Key]; dup {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}

func recentKeys(history model.History, lookback int, keys func(model.TurnMetadata) []string) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, turn := range history.LastAssistantTurns(lookback) {
		for _, k := range keys(turn.Metadata) {
			seen[k] = struct{}{}
		}
	}
	return seen
}
