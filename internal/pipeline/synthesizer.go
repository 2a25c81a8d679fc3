package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"trendscope/internal/llm"
	"trendscope/internal/models"
)

const trendPromptTemplate = `Based on the following trending YouTube videos in the '%s' category:
%s

Please analyze and provide:
1. A trend strength score from 1-10
2. A trend direction (growing, stable, declining)
3. A summary of the overall trends (max 100 words)
4. Key insights about what makes these videos successful (max 200 words)
5. Recommendations for content creators in this space (max 200 words)

Format your response as a JSON object with keys: trend_strength, trend_direction, summary, insights, recommendations`

// Synthesizer asks the model for a structured trend narrative over the
// ranked videos.
type Synthesizer struct {
	llm    Completer
	logger *log.Logger
}

func NewSynthesizer(completer Completer, logger *log.Logger) *Synthesizer {
	return &Synthesizer{llm: completer, logger: logger}
}

// videoDigest is the compact per-video view sent to the model.
type videoDigest struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Views        int64  `json:"views"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
}

// Synthesize builds a digest of at most the top 10 videos and asks the model
// for the five narrative fields. The model's reply is not trusted to be
// JSON: an unparseable reply degrades to fixed substring slices of the raw
// text, and a failed call degrades to a generic narrative. Never errors.
func (s *Synthesizer) Synthesize(ctx context.Context, videos []*models.Video, category string) models.TrendNarrative {
	digest := make([]videoDigest, 0, 10)
	for i, video := range videos {
		if i >= 10 {
			break
		}
		digest = append(digest, videoDigest{
			Title:        video.Title,
			ChannelTitle: video.ChannelTitle,
			PublishedAt:  video.PublishedAt,
			Views:        video.ViewCount,
			Likes:        video.LikeCount,
			Comments:     video.CommentCount,
		})
	}

	digestJSON, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		s.logger.Printf("Error building video digest: %v", err)
		return genericNarrative(category)
	}

	raw, err := s.llm.Complete(ctx, llm.Request{
		System:      "You are a helpful assistant skilled in analyzing YouTube trends.",
		Prompt:      fmt.Sprintf(trendPromptTemplate, category, digestJSON),
		Temperature: 0.5,
		MaxTokens:   1000,
	})
	if err != nil {
		s.logger.Printf("Error analyzing trends: %v", err)
		return genericNarrative(category)
	}

	raw = strings.TrimSpace(raw)

	narrative, ok := parseNarrative(raw)
	if !ok {
		s.logger.Printf("Model did not return valid JSON for '%s', slicing text response", category)
		return models.TrendNarrative{
			TrendStrength:   5,
			TrendDirection:  "stable",
			Summary:         sliceText(raw, 0, 100),
			Insights:        sliceText(raw, 100, 300),
			Recommendations: sliceText(raw, 300, 500),
		}
	}

	s.logger.Printf("Generated trend analysis for '%s'", category)
	return narrative
}

// parseNarrative attempts to read the model's reply as the expected JSON
// object, tolerating prose around the braces. The boolean reports whether
// the parsed branch applies; callers use the raw text otherwise.
func parseNarrative(raw string) (models.TrendNarrative, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return models.TrendNarrative{}, false
	}

	var parsed struct {
		TrendStrength   float64 `json:"trend_strength"`
		TrendDirection  string  `json:"trend_direction"`
		Summary         string  `json:"summary"`
		Insights        string  `json:"insights"`
		Recommendations string  `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return models.TrendNarrative{}, false
	}

	return models.TrendNarrative{
		TrendStrength:   int(parsed.TrendStrength),
		TrendDirection:  parsed.TrendDirection,
		Summary:         parsed.Summary,
		Insights:        parsed.Insights,
		Recommendations: parsed.Recommendations,
	}, true
}

// sliceText returns the character range [start,end) of s, shrinking to what
// is actually there. Offsets count characters, not bytes.
func sliceText(s string, start, end int) string {
	runes := []rune(s)
	if start >= len(runes) {
		return ""
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

func genericNarrative(category string) models.TrendNarrative {
	return models.TrendNarrative{
		TrendStrength:   5,
		TrendDirection:  "stable",
		Summary:         fmt.Sprintf("Analysis of trending videos in %s.", category),
		Insights:        "Could not generate insights due to an error.",
		Recommendations: "Try again later for recommendations.",
	}
}
