package model

// FactKey identifies a fact the context extractor recognizes.
type FactKey string

const (
	FactQualityTier     FactKey = "quality_tier"
	FactDIYOrContractor FactKey = "diy_or_contractor"
	FactBudget          FactKey = "budget"
	FactRoomDimensions  FactKey = "room_dimensions"
	// FactDIYPlan records that the assistant has already delivered a DIY
	// plan in this conversation, which is the prerequisite for a PDF export.
	FactDIYPlan FactKey = "diy_plan"
)

// Fact is the most-recently-stated value for a fact key, along with the
// turn index it was extracted from and whether the user stated it
// explicitly or it was inferred.
type Fact struct {
	Value     string `json:"value"`
	TurnIndex int    `json:"turn_index"`
	Explicit  bool   `json:"explicit"`
}

// FactMap maps fact keys to their current values. It is recomputed from
// history each turn; no component holds it across turns.
type FactMap map[FactKey]Fact

// Set applies the overwrite rule: an explicit statement always wins, an
// inferred value never replaces an explicit one.
func (m FactMap) Set(key FactKey, f Fact) {
	if prev, ok := m[key]; ok && prev.Explicit && !f.Explicit {
		return
	}
	m[key] = f
}

// Has reports whether a fact is established for key.
func (m FactMap) Has(key FactKey) bool {
	_, ok := m[key]
	return ok
}

// Value returns the current value for key, or "" if unset.
func (m FactMap) Value(key FactKey) string {
	return m[key].Value
}
