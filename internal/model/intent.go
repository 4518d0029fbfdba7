package model

// Intent is the discrete category of user need driving which tools and
// suggestions apply on a turn.
type Intent string

const (
	IntentPDFRequest            Intent = "pdf_request"
	IntentDesignConcept         Intent = "design_concept"
	IntentDIYGuide              Intent = "diy_guide"
	IntentCostEstimate          Intent = "cost_estimate"
	IntentProductRecommendation Intent = "product_recommendation"
	IntentContractorRequest     Intent = "contractor_request"
	IntentGeneral               Intent = "general"
)

// IntentResult is the classifier output for a single turn. It is produced
// fresh each turn and persisted only in the turn's metadata.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}
