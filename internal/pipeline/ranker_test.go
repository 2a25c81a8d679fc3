package pipeline

import (
	"io"
	"log"
	"testing"
	"time"

	"trendscope/internal/models"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testRanker(now time.Time) *Ranker {
	r := NewRanker(testLogger())
	r.now = func() time.Time { return now }
	return r
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		publishedAt string
		expected    float64
	}{
		{
			name:        "Published right now",
			publishedAt: "2025-06-15T12:00:00Z",
			expected:    1.0,
		},
		{
			name:        "Published 15 days ago",
			publishedAt: "2025-05-31T12:00:00Z",
			expected:    0.5,
		},
		{
			name:        "Published exactly 30 days ago",
			publishedAt: "2025-05-16T12:00:00Z",
			expected:    0.0,
		},
		{
			name:        "Published 60 days ago",
			publishedAt: "2025-04-16T12:00:00Z",
			expected:    0.0,
		},
		{
			name:        "Missing timestamp",
			publishedAt: "",
			expected:    0.0,
		},
		{
			name:        "Unparseable timestamp",
			publishedAt: "not-a-date",
			expected:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recencyScore(tt.publishedAt, now)
			if got != tt.expected {
				t.Errorf("recencyScore(%q) = %v, want %v", tt.publishedAt, got, tt.expected)
			}
		})
	}
}

func TestRecencyScoreMonotonic(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	prev := 2.0
	for days := 0; days <= 45; days++ {
		publishedAt := now.AddDate(0, 0, -days).Format(time.RFC3339)
		score := recencyScore(publishedAt, now)
		if score > prev {
			t.Fatalf("recency score increased at %d days: %v > %v", days, score, prev)
		}
		if score < 0 || score > 1 {
			t.Fatalf("recency score out of range at %d days: %v", days, score)
		}
		prev = score
	}
}

func TestRankScoring(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	r := testRanker(now)

	videos := []*models.Video{
		{ID: "old", ViewCount: 1000, LikeCount: 100, CommentCount: 10, PublishedAt: "2025-01-01T00:00:00Z"},
		{ID: "fresh", ViewCount: 1000, LikeCount: 100, CommentCount: 10, PublishedAt: "2025-06-15T11:00:00Z"},
	}

	ranked := r.Rank(videos)

	if len(ranked) != 2 {
		t.Fatalf("Rank() returned %d videos, want 2", len(ranked))
	}
	// Equal raw metrics, so the fresh video's recency boost must win.
	if ranked[0].ID != "fresh" {
		t.Errorf("ranked[0].ID = %s, want fresh", ranked[0].ID)
	}

	want := 1000*0.4 + 100*0.3 + 10*0.2 + 1.0*100000
	if got := ranked[0].Engagement.Score; got != want {
		t.Errorf("fresh video score = %v, want %v", got, want)
	}
	if got := ranked[1].Engagement.RecencyScore; got != 0 {
		t.Errorf("old video recency = %v, want 0", got)
	}
}

func TestRankMissingMetrics(t *testing.T) {
	r := testRanker(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	videos := []*models.Video{
		{ID: "empty"},
		{ID: "views-only", ViewCount: 50},
	}

	ranked := r.Rank(videos)

	if len(ranked) != 2 {
		t.Fatalf("Rank() returned %d videos, want 2", len(ranked))
	}
	for _, v := range ranked {
		if v.Engagement == nil {
			t.Fatalf("video %s has no engagement annotation", v.ID)
		}
	}
	if ranked[0].ID != "views-only" {
		t.Errorf("ranked[0].ID = %s, want views-only", ranked[0].ID)
	}
	if ranked[1].Engagement.Score != 0 {
		t.Errorf("empty video score = %v, want 0", ranked[1].Engagement.Score)
	}
}

func TestRankStableOnTies(t *testing.T) {
	r := testRanker(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	// Identical metrics everywhere: original relative order must survive.
	videos := []*models.Video{
		{ID: "a", ViewCount: 100},
		{ID: "b", ViewCount: 100},
		{ID: "c", ViewCount: 100},
	}

	ranked := r.Rank(videos)

	for i, want := range []string{"a", "b", "c"} {
		if ranked[i].ID != want {
			t.Errorf("ranked[%d].ID = %s, want %s", i, ranked[i].ID, want)
		}
	}
}

func TestRankIdempotent(t *testing.T) {
	r := testRanker(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	videos := []*models.Video{
		{ID: "big", ViewCount: 10000},
		{ID: "mid", ViewCount: 5000},
		{ID: "small", ViewCount: 100},
	}

	first := r.Rank(videos)
	second := r.Rank(first)

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("re-rank changed order at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if first[i].Engagement.Score != second[i].Engagement.Score {
			t.Errorf("re-rank changed score for %s", first[i].ID)
		}
	}
}
