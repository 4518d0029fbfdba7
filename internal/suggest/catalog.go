package suggest

import (
	"github.com/hearthplan/renovation-assistant/internal/model"
)

// actionCatalog holds candidate actions per intent, ordered by relevance.
// Labels may be reworded freely; keys are stable because dedup is by key.
var actionCatalog = map[model.Intent][]model.SuggestedAction{
	model.IntentCostEstimate: {
		{Key: "get_detailed_estimate", Label: "Get a detailed estimate"},
		{Key: "compare_contractor_quotes", Label: "Compare contractor quotes"},
		{Key: "export_pdf", Label: "Export your plan as PDF"},
		{Key: "find_products", Label: "See recommended products"},
	},
	model.IntentDIYGuide: {
		{Key: "view_tool_list", Label: "See the tool list"},
		{Key: "watch_tutorials", Label: "Watch video tutorials"},
		{Key: "export_pdf", Label: "Export your plan as PDF"},
	},
	model.IntentProductRecommendation: {
		{Key: "compare_products", Label: "Compare these products"},
		{Key: "get_detailed_estimate", Label: "Get a detailed estimate"},
		{Key: "find_products", Label: "See more products"},
	},
	model.IntentContractorRequest: {
		{Key: "compare_contractor_quotes", Label: "Request contractor quotes"},
		{Key: "prepare_contractor_questions", Label: "Prepare questions for contractors"},
		{Key: "get_detailed_estimate", Label: "Get a detailed estimate"},
	},
	model.IntentDesignConcept: {
		{Key: "generate_more_concepts", Label: "Generate more concepts"},
		{Key: "find_products", Label: "Shop this look"},
		{Key: "get_detailed_estimate", Label: "Estimate the cost"},
	},
	model.IntentPDFRequest: {
		{Key: "export_pdf", Label: "Export your plan as PDF"},
	},
	model.IntentGeneral: {
		{Key: "start_cost_estimate", Label: "Start a cost estimate"},
		{Key: "browse_diy_guides", Label: "Browse DIY guides"},
		{Key: "explore_design_ideas", Label: "Explore design ideas"},
	},
}

// factQuestions are follow-up questions offered only while the
// corresponding fact is still missing from history.
var factQuestions = []struct {
	fact     model.FactKey
	question model.SuggestedQuestion
}{
	{model.FactQualityTier, model.SuggestedQuestion{Key: "ask_quality_tier", Label: "Are you aiming for budget, mid-range, or high-end finishes?"}},
	{model.FactDIYOrContractor, model.SuggestedQuestion{Key: "ask_diy_or_contractor", Label: "Will you do the work yourself or hire a contractor?"}},
	{model.FactBudget, model.SuggestedQuestion{Key: "ask_budget", Label: "Do you have a budget in mind?"}},
	{model.FactRoomDimensions, model.SuggestedQuestion{Key: "ask_room_dimensions", Label: "What are the room's dimensions?"}},
}

// Candidates returns the pre-dedup candidate lists for an intent. Question
// candidates skip facts already established, so the assistant never
// re-asks an answered question.
func Candidates(intent model.Intent, factMap model.FactMap) ([]model.SuggestedAction, []model.SuggestedQuestion) {
	actions := actionCatalog[intent]
	if actions == nil {
		actions = actionCatalog[model.IntentGeneral]
	}

	// pdf_request without a plan pivots to creating one first.
	if intent == model.IntentPDFRequest && !factMap.Has(model.FactDIYPlan) {
		actions = []model.SuggestedAction{
			{Key: "create_diy_plan", Label: "Create a DIY plan first"},
			{Key: "get_detailed_estimate", Label: "Get a detailed estimate"},
		}
	}

	var questions []model.SuggestedQuestion
	for _, fq := range factQuestions {
		if !factMap.Has(fq.fact) {
			questions = append(questions, fq.question)
		}
	}

	return actions, questions
}
