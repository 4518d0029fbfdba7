package enrich

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	serpapi "github.com/serpapi/google-search-results-golang"

	"github.com/hearthplan/renovation-assistant/internal/model"
	"github.com/hearthplan/renovation-assistant/pkg/logger"
)

// Tutorial length band: anything shorter is usually a teaser, anything
// longer a livestream or full-course recording.
const (
	minTutorialMinutes = 2
	maxTutorialMinutes = 45
)

// curatedChannels are trusted renovation channels preferred over the raw
// ranking before falling back to unfiltered results.
var curatedChannels = []string{
	"This Old House",
	"Home RenoVision DIY",
	"The Home Depot",
	"Lowe's Home Improvement",
	"House Improvements",
	"Fix This Build That",
}

// SerpVideos searches YouTube via SerpAPI for tutorial videos.
type SerpVideos struct {
	apiKey string
	logger *logger.Logger
}

// NewSerpVideos creates a video searcher. An empty apiKey yields a
// searcher that reports ErrNotConfigured, which the orchestrator turns
// into a generic search-results link.
func NewSerpVideos(apiKey string, log *logger.Logger) *SerpVideos {
	return &SerpVideos{apiKey: apiKey, logger: log}
}

// Search returns up to maxResults tutorial videos, duration-filtered and
// with curated channels ranked first.
func (s *SerpVideos) Search(ctx context.Context, query string, maxResults int) ([]model.VideoResult, error) {
	if s.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if maxResults <= 0 {
		maxResults = MaxVideoResults
	}

	search := serpapi.NewSearch("youtube", map[string]string{
		"search_query": query + " tutorial",
	}, s.apiKey)

	data, err := search.GetJSON()
	if err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}

	var videos []model.VideoResult
	if items, ok := data["video_results"].([]interface{}); ok {
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			v := model.VideoResult{
				Title:    str(m, "title"),
				Duration: str(m, "length"),
				URL:      str(m, "link"),
			}
			if ch, ok := m["channel"].(map[string]interface{}); ok {
				v.Channel = str(ch, "name")
			}
			if th, ok := m["thumbnail"].(map[string]interface{}); ok {
				v.ThumbnailURL = str(th, "static")
			}
			if !withinTutorialBand(v.Duration) {
				continue
			}
			videos = append(videos, v)
		}
	}

	return rankCurated(videos, maxResults), nil
}

// rankCurated moves curated-channel hits ahead of the rest, keeping the
// engine's relative order within each group.
func rankCurated(videos []model.VideoResult, maxResults int) []model.VideoResult {
	var curated, rest []model.VideoResult
	for _, v := range videos {
		if isCuratedChannel(v.Channel) {
			curated = append(curated, v)
		} else {
			rest = append(rest, v)
		}
	}
	out := append(curated, rest...)
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

func isCuratedChannel(channel string) bool {
	for _, c := range curatedChannels {
		if strings.EqualFold(channel, c) {
			return true
		}
	}
	return false
}

// withinTutorialBand parses durations like "12:34" or "1:02:10" and keeps
// those inside the tutorial length band. Unparseable durations are kept;
// filtering is best effort.
func withinTutorialBand(duration string) bool {
	if duration == "" {
		return true
	}
	parts := strings.Split(duration, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return true
	}
	var minutes int
	if len(parts) == 3 {
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return true
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return true
		}
		minutes = h*60 + m
	} else {
		m, err := strconv.Atoi(parts[0])
		if err != nil {
			return true
		}
		minutes = m
	}
	return minutes >= minTutorialMinutes && minutes <= maxTutorialMinutes
}
