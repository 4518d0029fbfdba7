// Package enrich fans out to the optional enrichment tools (product
// search, tutorial videos, image generation) with partial-success
// semantics: each source fails independently and degrades to a navigable
// placeholder instead of dropping its section.
package enrich

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/hearthplan/renovation-assistant/internal/model"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
	"github.com/hearthplan/renovation-assistant/pkg/metrics"
)

// ErrNotConfigured signals a collaborator with no API credential. The
// orchestrator turns it into a documented link-out fallback, not an error.
var ErrNotConfigured = errors.New("collaborator not configured")

// MaxVideoResults caps tutorial video suggestions per turn.
const MaxVideoResults = 3

// ProductSearcher finds purchasable products for a query.
type ProductSearcher interface {
	Search(ctx context.Context, query, region string) ([]model.ProductResult, error)
}

// VideoSearcher finds tutorial videos for a query.
type VideoSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.VideoResult, error)
}

// ImageGenerator renders design concept images for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, variations int) ([]model.GeneratedImage, error)
}

// Orchestrator decides which sources apply to an intent and runs them
// concurrently, each under its own timeout.
type Orchestrator struct {
	products ProductSearcher
	videos   VideoSearcher
	images   ImageGenerator
	region   string
	timeout  time.Duration
	logger   *logger.Logger
}

// NewOrchestrator creates an enrichment orchestrator. Any collaborator may
// be nil; its sections then degrade to link-out placeholders.
func NewOrchestrator(
	products ProductSearcher,
	videos VideoSearcher,
	images ImageGenerator,
	region string,
	timeout time.Duration,
	log *logger.Logger,
) *Orchestrator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Orchestrator{
		products: products,
		videos:   videos,
		images:   images,
		region:   region,
		timeout:  timeout,
		logger:   log,
	}
}

// Enrich runs the applicable sources for intent. In chat mode it returns
// nil immediately: a hard short-circuit with no dispatches and no side
// effects. Results merge by source kind, not by completion order, so the
// output is deterministic for deterministic inputs.
func (o *Orchestrator) Enrich(ctx context.Context, intent model.Intent, query string, mode model.Mode) []model.Enrichment {
	if mode != model.ModeAgent {
		return nil
	}

	results := make(map[model.EnrichmentKind]model.Enrichment)
	var mu sync.Mutex
	var wg conc.WaitGroup

	dispatch := func(kind model.EnrichmentKind, run func(context.Context) (model.Enrichment, error)) {
		wg.Go(func() {
			enr := o.await(ctx, kind, query, run)
			mu.Lock()
			results[kind] = enr
			mu.Unlock()
		})
	}

	switch intent {
	case model.IntentProductRecommendation, model.IntentCostEstimate:
		dispatch(model.EnrichmentProducts, func(ctx context.Context) (model.Enrichment, error) {
			return o.searchProducts(ctx, query)
		})
	case model.IntentDIYGuide:
		// Tutorials plus the tools/materials to follow them with.
		dispatch(model.EnrichmentVideos, func(ctx context.Context) (model.Enrichment, error) {
			return o.searchVideos(ctx, query)
		})
		dispatch(model.EnrichmentProducts, func(ctx context.Context) (model.Enrichment, error) {
			return o.searchProducts(ctx, query)
		})
	case model.IntentDesignConcept:
		dispatch(model.EnrichmentImages, func(ctx context.Context) (model.Enrichment, error) {
			return o.generateImages(ctx, query)
		})
	default:
		return nil
	}

	wg.Wait()

	// Fixed merge order keeps the response deterministic regardless of
	// which source settled first.
	var out []model.Enrichment
	for _, kind := range []model.EnrichmentKind{model.EnrichmentProducts, model.EnrichmentVideos, model.EnrichmentImages} {
		if enr, ok := results[kind]; ok {
			out = append(out, enr)
		}
	}
	return out
}

// await runs one source under the per-source timeout. The collaborator
// libraries do not all honor context cancellation, so the timeout is
// enforced by select rather than trusted to the callee; a timed-out
// source degrades without cancelling its siblings.
func (o *Orchestrator) await(ctx context.Context, kind model.EnrichmentKind, query string, run func(context.Context) (model.Enrichment, error)) model.Enrichment {
	start := time.Now()

	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ch := make(chan model.Enrichment, 1)
	go func() {
		enr, err := run(cctx)
		if err != nil {
			reason := "source failed"
			if errors.Is(err, ErrNotConfigured) {
				reason = "not configured"
			}
			o.logger.Warn("enrichment source degraded",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			enr = degraded(kind, reason, query)
		}
		ch <- enr
	}()

	select {
	case enr := <-ch:
		status := "degraded"
		if enr.OK {
			status = "success"
		}
		metrics.RecordEnrichment(string(kind), status, time.Since(start).Seconds())
		return enr
	case <-cctx.Done():
		o.logger.Warn("enrichment source timed out", zap.String("kind", string(kind)))
		metrics.RecordEnrichment(string(kind), "timeout", time.Since(start).Seconds())
		return degraded(kind, "timed out", query)
	}
}

func (o *Orchestrator) searchProducts(ctx context.Context, query string) (model.Enrichment, error) {
	if o.products == nil {
		return model.Enrichment{}, ErrNotConfigured
	}
	items, err := o.products.Search(ctx, query, o.region)
	if err != nil {
		return model.Enrichment{}, err
	}
	if len(items) == 0 {
		return degraded(model.EnrichmentProducts, "no results", query), nil
	}
	return model.Enrichment{Kind: model.EnrichmentProducts, OK: true, Products: items}, nil
}

func (o *Orchestrator) searchVideos(ctx context.Context, query string) (model.Enrichment, error) {
	if o.videos == nil {
		return model.Enrichment{}, ErrNotConfigured
	}
	items, err := o.videos.Search(ctx, query, MaxVideoResults)
	if err != nil {
		return model.Enrichment{}, err
	}
	if len(items) == 0 {
		return degraded(model.EnrichmentVideos, "no results", query), nil
	}
	if len(items) > MaxVideoResults {
		items = items[:MaxVideoResults]
	}
	return model.Enrichment{Kind: model.EnrichmentVideos, OK: true, Videos: items}, nil
}

func (o *Orchestrator) generateImages(ctx context.Context, query string) (model.Enrichment, error) {
	if o.images == nil {
		return model.Enrichment{}, ErrNotConfigured
	}
	images, err := o.images.Generate(ctx, query, 1)
	if err != nil {
		return model.Enrichment{}, err
	}
	if len(images) == 0 {
		return degraded(model.EnrichmentImages, "no images produced", query), nil
	}
	return model.Enrichment{Kind: model.EnrichmentImages, OK: true, Images: images}, nil
}

// degraded builds the placeholder section for a failed source: a link-out
// the user can still follow, never a silent gap.
func degraded(kind model.EnrichmentKind, reason, query string) model.Enrichment {
	return model.Enrichment{
		Kind:           kind,
		OK:             false,
		DegradedReason: reason,
		FallbackURL:    fallbackURL(kind, query),
	}
}

func fallbackURL(kind model.EnrichmentKind, query string) string {
	q := url.QueryEscape(query)
	switch kind {
	case model.EnrichmentProducts:
		return "https://www.google.com/search?tbm=shop&q=" + q
	case model.EnrichmentVideos:
		return "https://www.youtube.com/results?search_query=" + q
	case model.EnrichmentImages:
		return "https://www.google.com/search?tbm=isch&q=" + q
	}
	return ""
}
