// Package pipeline implements the trend-discovery flow: prompt → category →
// candidate videos → engagement ranking → trend narrative → formatted
// response.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"trendscope/internal/models"
)

// Searcher finds candidate videos for a category. An empty result is a
// valid outcome, not an error.
type Searcher interface {
	Search(ctx context.Context, category string, maxResults int64) []*models.Video
}

// CategoryExtractor derives a search category from a free-text prompt.
type CategoryExtractor interface {
	Extract(ctx context.Context, prompt string) string
}

// VideoRanker orders videos by engagement.
type VideoRanker interface {
	Rank(videos []*models.Video) []*models.Video
}

// TrendSynthesizer produces the narrative over the ranked videos.
type TrendSynthesizer interface {
	Synthesize(ctx context.Context, videos []*models.Video, category string) models.TrendNarrative
}

// AnalysisStore persists one completed run. Persistence is best-effort;
// the pipeline swallows its failures.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, analysis *models.TrendAnalysis) (string, error)
}

// Pipeline composes the four stages into one request/response cycle. All
// per-request state is threaded through return values; a Pipeline is safe
// for concurrent use.
type Pipeline struct {
	extractor   CategoryExtractor
	searcher    Searcher
	ranker      VideoRanker
	synthesizer TrendSynthesizer
	store       AnalysisStore
	logger      *log.Logger
	maxResults  int64
}

func New(extractor CategoryExtractor, searcher Searcher, ranker VideoRanker, synthesizer TrendSynthesizer, store AnalysisStore, maxResults int64, logger *log.Logger) *Pipeline {
	if maxResults < 1 {
		maxResults = 20
	}
	return &Pipeline{
		extractor:   extractor,
		searcher:    searcher,
		ranker:      ranker,
		synthesizer: synthesizer,
		store:       store,
		logger:      logger,
		maxResults:  maxResults,
	}
}

// Run executes one trend query. userID is the optional identity of the
// requesting user; when present, a completed run is persisted best-effort.
// Run always returns a well-formed result: unexpected faults are caught here
// and surface as Success=false.
func (p *Pipeline) Run(ctx context.Context, prompt, userID string) (result models.PipelineResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("Error processing query '%s': %v", prompt, r)
			result = models.PipelineResult{
				Success: false,
				Message: "An error occurred while processing your request",
				Error:   fmt.Sprint(r),
			}
		}
	}()

	prompt = strings.TrimSpace(prompt)
	p.logger.Printf("Processing query: '%s'", prompt)

	category := p.extractor.Extract(ctx, prompt)

	videos := p.searcher.Search(ctx, category, p.maxResults)
	if len(videos) == 0 {
		p.logger.Printf("No videos found for category: %s", category)
		return models.PipelineResult{
			Success:  false,
			Message:  fmt.Sprintf("No trending videos found for '%s'", category),
			Category: category,
		}
	}

	ranked := p.ranker.Rank(videos)
	narrative := p.synthesizer.Synthesize(ctx, ranked, category)
	formatted := formatVideos(ranked)

	result = models.PipelineResult{
		Success:  true,
		Category: category,
		Videos:   formatted,
		Analysis: &narrative,
	}

	if userID != "" && p.store != nil {
		if id, err := p.persist(ctx, userID, prompt, videos, result); err != nil {
			p.logger.Printf("Error storing trend analysis: %v", err)
		} else {
			result.AnalysisID = id
			p.logger.Printf("Stored trend analysis %s for user %s", id, userID)
		}
	}

	return result
}

// persist writes the durable snapshot of a successful run: aggregate
// metrics over the pre-ranking candidate set plus the full formatted
// payload.
func (p *Pipeline) persist(ctx context.Context, userID, prompt string, videos []*models.Video, result models.PipelineResult) (string, error) {
	var totalViews, totalLikes, totalComments int64
	for _, v := range videos {
		totalViews += v.ViewCount
		totalLikes += v.LikeCount
		totalComments += v.CommentCount
	}
	count := float64(len(videos))

	metrics, err := json.Marshal(map[string]any{
		"video_count":  len(videos),
		"avg_views":    float64(totalViews) / count,
		"avg_likes":    float64(totalLikes) / count,
		"avg_comments": float64(totalComments) / count,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal metrics: %w", err)
	}

	fullResponse, err := json.Marshal(map[string]any{
		"category": result.Category,
		"videos":   result.Videos,
		"analysis": result.Analysis,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal response payload: %w", err)
	}

	return p.store.SaveAnalysis(ctx, &models.TrendAnalysis{
		UserID:          userID,
		Query:           prompt,
		Platform:        "youtube",
		TrendStrength:   float64(result.Analysis.TrendStrength),
		TrendDirection:  result.Analysis.TrendDirection,
		Summary:         result.Analysis.Summary,
		Insights:        result.Analysis.Insights,
		Recommendations: result.Analysis.Recommendations,
		Metrics:         string(metrics),
		FullResponse:    string(fullResponse),
	})
}

func formatVideos(videos []*models.Video) []models.FormattedVideo {
	formatted := make([]models.FormattedVideo, 0, len(videos))
	for _, v := range videos {
		var score float64
		if v.Engagement != nil {
			score = v.Engagement.Score
		}
		formatted = append(formatted, models.FormattedVideo{
			ID:              v.ID,
			Title:           v.Title,
			ChannelTitle:    v.ChannelTitle,
			PublishedAt:     v.PublishedAt,
			Thumbnail:       v.Thumbnail,
			ViewCount:       v.ViewCount,
			LikeCount:       v.LikeCount,
			CommentCount:    v.CommentCount,
			EngagementScore: score,
		})
	}
	return formatted
}
