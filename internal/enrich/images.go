package enrich

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hearthplan/renovation-assistant/internal/model"
)

// DallEImages generates design concept images through the OpenAI image
// API.
type DallEImages struct {
	client *openai.Client
}

// NewDallEImages creates an image generator. An empty apiKey yields a
// generator that reports ErrNotConfigured.
func NewDallEImages(apiKey string) *DallEImages {
	if apiKey == "" {
		return &DallEImages{}
	}
	return &DallEImages{client: openai.NewClient(apiKey)}
}

// Generate renders concept images for the prompt. dall-e-3 accepts one
// image per request, so variations beyond the first are clamped.
func (g *DallEImages) Generate(ctx context.Context, prompt string, variations int) ([]model.GeneratedImage, error) {
	if g.client == nil {
		return nil, ErrNotConfigured
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         "Interior renovation concept: " + prompt,
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("image generation: %w", err)
	}

	images := make([]model.GeneratedImage, 0, len(resp.Data))
	for _, d := range resp.Data {
		images = append(images, model.GeneratedImage{URL: d.URL, B64JSON: d.B64JSON})
	}
	return images, nil
}
