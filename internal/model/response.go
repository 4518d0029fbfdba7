package model

import (
	"time"
)

// SuggestedAction is a tappable next step offered to the user. Uniqueness
// is by Key; labels may be rephrased while the key stays stable.
type SuggestedAction struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SuggestedQuestion is a follow-up question offered to the user.
type SuggestedQuestion struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// EnrichmentKind identifies an enrichment source.
type EnrichmentKind string

const (
	EnrichmentProducts EnrichmentKind = "products"
	EnrichmentVideos   EnrichmentKind = "videos"
	EnrichmentImages   EnrichmentKind = "images"
)

// ProductResult is one product/web search hit.
type ProductResult struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	SourceURL   string `json:"source_url"`
}

// VideoResult is one tutorial video hit.
type VideoResult struct {
	Title        string `json:"title"`
	Channel      string `json:"channel"`
	Duration     string `json:"duration"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	URL          string `json:"url"`
}

// GeneratedImage is one generated design concept image.
type GeneratedImage struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

// Enrichment is the outcome of one enrichment source. When OK is false the
// section still carries a navigable fallback (DegradedReason + FallbackURL)
// rather than disappearing.
type Enrichment struct {
	Kind           EnrichmentKind   `json:"kind"`
	OK             bool             `json:"ok"`
	DegradedReason string           `json:"degraded_reason,omitempty"`
	FallbackURL    string           `json:"fallback_url,omitempty"`
	Products       []ProductResult  `json:"products,omitempty"`
	Videos         []VideoResult    `json:"videos,omitempty"`
	Images         []GeneratedImage `json:"images,omitempty"`
}

// ResponseRecord is the single immutable payload assembled for a turn.
type ResponseRecord struct {
	Text               string              `json:"text"`
	SuggestedActions   []SuggestedAction   `json:"suggested_actions"`
	SuggestedQuestions []SuggestedQuestion `json:"suggested_questions"`
	Enrichment         []Enrichment        `json:"enrichment,omitempty"`
	Mode               Mode                `json:"mode"`
	Intent             Intent              `json:"intent"`
	Confidence         float64             `json:"confidence"`
	CreatedAt          time.Time           `json:"created_at"`
}
