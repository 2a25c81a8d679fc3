package models

// Video is the platform-side record for a single video: identity, snippet
// metadata and raw statistics. Statistics the platform omits default to zero.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	// PublishedAt keeps the platform's raw RFC3339 string; the ranker parses
	// it and treats unparseable values as "no recency".
	PublishedAt  string `json:"published_at"`
	Thumbnail    string `json:"thumbnail"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`

	// Engagement is attached by the ranker; nil until a ranking pass has run.
	Engagement *Engagement `json:"engagement,omitempty"`
}

// Engagement is the composite ranking annotation computed per video.
type Engagement struct {
	Score        float64 `json:"score"`
	Views        int64   `json:"views"`
	Likes        int64   `json:"likes"`
	Comments     int64   `json:"comments"`
	RecencyScore float64 `json:"recency_score"`
}

// TrendNarrative is the structured trend summary produced by the synthesizer.
type TrendNarrative struct {
	TrendStrength   int    `json:"trend_strength"`
	TrendDirection  string `json:"trend_direction"`
	Summary         string `json:"summary"`
	Insights        string `json:"insights"`
	Recommendations string `json:"recommendations"`
}

// FormattedVideo is the presentation record returned to the frontend.
// Field names are part of the wire contract and must stay camelCase.
type FormattedVideo struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	ChannelTitle    string  `json:"channelTitle"`
	PublishedAt     string  `json:"publishedAt"`
	Thumbnail       string  `json:"thumbnail"`
	ViewCount       int64   `json:"viewCount"`
	LikeCount       int64   `json:"likeCount"`
	CommentCount    int64   `json:"commentCount"`
	EngagementScore float64 `json:"engagementScore"`
}

// PipelineResult is the user-facing response for one pipeline run. Every run
// produces a well-formed result; failures surface as Success=false with a
// message, never as a transport fault.
type PipelineResult struct {
	Success    bool             `json:"success"`
	Category   string           `json:"category,omitempty"`
	Videos     []FormattedVideo `json:"videos,omitempty"`
	Analysis   *TrendNarrative  `json:"analysis,omitempty"`
	AnalysisID string           `json:"analysis_id,omitempty"`
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
}
