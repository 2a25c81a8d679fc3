package pipeline

import (
	"log"
	"sort"
	"time"

	"trendscope/internal/models"
)

// Ranker computes composite engagement scores and sorts videos by them.
type Ranker struct {
	logger *log.Logger
	// now is swappable for deterministic recency tests.
	now func() time.Time
}

func NewRanker(logger *log.Logger) *Ranker {
	return &Ranker{logger: logger, now: time.Now}
}

// Rank annotates each video with an engagement score and returns the set
// stable-sorted descending by score. Ranking is best-effort: if anything
// goes wrong mid-pass the input comes back unsorted and unannotated rather
// than failing the request.
func (r *Ranker) Rank(videos []*models.Video) (ranked []*models.Video) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Printf("Error analyzing engagement: %v", p)
			ranked = videos
		}
	}()

	now := r.now().UTC()

	ranked = make([]*models.Video, len(videos))
	copy(ranked, videos)

	for _, video := range ranked {
		recency := recencyScore(video.PublishedAt, now)

		score := float64(video.ViewCount)*0.4 +
			float64(video.LikeCount)*0.3 +
			float64(video.CommentCount)*0.2 +
			recency*100000 // Boost recency importance

		video.Engagement = &models.Engagement{
			Score:        score,
			Views:        video.ViewCount,
			Likes:        video.LikeCount,
			Comments:     video.CommentCount,
			RecencyScore: recency,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Engagement.Score > ranked[j].Engagement.Score
	})

	return ranked
}

// recencyScore maps days-since-publish onto [0,1]: 1 for today, decaying
// linearly to 0 at 30 days. Absent or unparseable timestamps score 0.
func recencyScore(publishedAt string, now time.Time) float64 {
	if publishedAt == "" {
		return 0
	}
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return 0
	}

	days := int(now.Sub(published).Hours() / 24)
	if days < 0 {
		days = 0
	}

	score := 1 - float64(days)/30
	if score < 0 {
		return 0
	}
	return score
}
