package service

import (
	"fmt"
	"strings"

	"github.com/hearthplan/renovation-assistant/internal/llm"
	"github.com/hearthplan/renovation-assistant/internal/model"
)

const systemPreamble = `You are a friendly, practical home-renovation assistant. Give concrete, actionable guidance. Keep answers concise and specific to the user's project.`

// factLabels render established facts into the system prompt so the model
// never re-asks a question whose answer is already in history.
var factLabels = map[model.FactKey]string{
	model.FactQualityTier:     "Quality tier",
	model.FactDIYOrContractor: "DIY or contractor",
	model.FactBudget:          "Budget",
	model.FactRoomDimensions:  "Room dimensions",
	model.FactDIYPlan:         "DIY plan already provided",
}

// buildCompletionRequest assembles the prompt for the text-generation
// collaborator from the utterance, the history window and the fact map.
func buildCompletionRequest(utterance string, window model.History, factMap model.FactMap, ir model.IntentResult) *llm.CompletionRequest {
	var sb strings.Builder
	sb.WriteString(systemPreamble)

	if len(factMap) > 0 {
		sb.WriteString("\n\nThe user has already told you the following. Do not ask about these again:")
		for _, key := range []model.FactKey{
			model.FactQualityTier,
			model.FactDIYOrContractor,
			model.FactBudget,
			model.FactRoomDimensions,
			model.FactDIYPlan,
		} {
			if f, ok := factMap[key]; ok {
				fmt.Fprintf(&sb, "\n- %s: %s", factLabels[key], f.Value)
			}
		}
	}

	fmt.Fprintf(&sb, "\n\nDetected request type: %s.", ir.Intent)

	messages := make([]llm.ChatMessage, 0, len(window)+1)
	for _, turn := range window {
		messages = append(messages, llm.ChatMessage{
			Role:    string(turn.Role),
			Content: turn.Text,
		})
	}
	if utterance != "" {
		messages = append(messages, llm.ChatMessage{
			Role:    string(model.RoleUser),
			Content: utterance,
		})
	}

	return &llm.CompletionRequest{
		System:      sb.String(),
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}
