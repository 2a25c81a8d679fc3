package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendscope/internal/auth"
	"trendscope/internal/models"
)

type fakeRunner struct {
	result     models.PipelineResult
	lastPrompt string
	lastUserID string
	calls      int
}

func (f *fakeRunner) Run(ctx context.Context, prompt, userID string) models.PipelineResult {
	f.calls++
	f.lastPrompt = prompt
	f.lastUserID = userID
	return f.result
}

type fakeHistory struct {
	analyses []*models.TrendAnalysis
	err      error
}

func (f *fakeHistory) ListByUser(ctx context.Context, userID string, limit int) ([]*models.TrendAnalysis, error) {
	return f.analyses, f.err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestAnalyze(t *testing.T) {
	runner := &fakeRunner{result: models.PipelineResult{
		Success:  true,
		Category: "cooking",
		Videos:   []models.FormattedVideo{{ID: "v1", Title: "One"}},
		Analysis: &models.TrendNarrative{TrendStrength: 7, TrendDirection: "growing"},
	}}
	h := NewTrendingHandler(runner, &fakeHistory{}, discardLogger())

	req := httptest.NewRequest("POST", "/api/trending/analyze", strings.NewReader(`{"prompt":"best cooking channels"}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result models.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if !result.Success || result.Category != "cooking" || len(result.Videos) != 1 {
		t.Errorf("result = %+v", result)
	}
	if runner.lastUserID != "" {
		t.Errorf("anonymous request carried user id %q", runner.lastUserID)
	}
}

func TestAnalyzeAuthenticated(t *testing.T) {
	runner := &fakeRunner{result: models.PipelineResult{Success: true}}
	h := NewTrendingHandler(runner, &fakeHistory{}, discardLogger())

	req := httptest.NewRequest("POST", "/api/trending/analyze", strings.NewReader(`{"prompt":"gaming"}`))
	req = req.WithContext(auth.WithUser(req.Context(), &models.User{ID: "u1", Username: "alice"}))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if runner.lastUserID != "u1" {
		t.Errorf("user id = %q, want u1", runner.lastUserID)
	}
}

func TestAnalyzeNoResultsStaysHTTP200(t *testing.T) {
	runner := &fakeRunner{result: models.PipelineResult{
		Success:  false,
		Message:  "No trending videos found for 'xyz'",
		Category: "xyz",
	}}
	h := NewTrendingHandler(runner, &fakeHistory{}, discardLogger())

	req := httptest.NewRequest("POST", "/api/trending/analyze", strings.NewReader(`{"prompt":"xyz"}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a degraded result", rec.Code)
	}
	var result models.PipelineResult
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result.Success {
		t.Error("success = true, want false")
	}
}

func TestAnalyzeBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Empty prompt", body: `{"prompt":"   "}`},
		{name: "Missing prompt", body: `{}`},
		{name: "Broken JSON", body: `{"prompt":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			h := NewTrendingHandler(runner, &fakeHistory{}, discardLogger())

			req := httptest.NewRequest("POST", "/api/trending/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Analyze(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if runner.calls != 0 {
				t.Errorf("pipeline ran %d times on a bad request", runner.calls)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	history := &fakeHistory{analyses: []*models.TrendAnalysis{
		{ID: "a1", Query: "cooking"},
		{ID: "a2", Query: "gaming"},
	}}
	h := NewTrendingHandler(&fakeRunner{}, history, discardLogger())

	req := httptest.NewRequest("GET", "/api/trending/history", nil)
	req = req.WithContext(auth.WithUser(req.Context(), &models.User{ID: "u1"}))
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Success  bool                    `json:"success"`
		Analyses []*models.TrendAnalysis `json:"analyses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if !resp.Success || len(resp.Analyses) != 2 {
		t.Errorf("response = %+v", resp)
	}
}

func TestHistoryRequiresUser(t *testing.T) {
	h := NewTrendingHandler(&fakeRunner{}, &fakeHistory{}, discardLogger())

	req := httptest.NewRequest("GET", "/api/trending/history", nil)
	rec := httptest.NewRecorder()

	h.History(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
