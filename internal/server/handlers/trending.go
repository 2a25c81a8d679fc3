package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"trendscope/internal/auth"
	"trendscope/internal/models"
)

// PipelineRunner executes one trend query. Satisfied by *pipeline.Pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, prompt, userID string) models.PipelineResult
}

// AnalysisHistory lists a user's stored runs. Satisfied by
// *storage.AnalysisStore.
type AnalysisHistory interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.TrendAnalysis, error)
}

// TrendingHandler serves the analyze and history endpoints.
type TrendingHandler struct {
	pipeline PipelineRunner
	history  AnalysisHistory
	logger   *log.Logger
}

func NewTrendingHandler(pipeline PipelineRunner, history AnalysisHistory, logger *log.Logger) *TrendingHandler {
	return &TrendingHandler{pipeline: pipeline, history: history, logger: logger}
}

type analyzeRequest struct {
	Prompt string `json:"prompt"`
}

// Analyze runs the trend pipeline for the request prompt. Anonymous
// requests are served; only authenticated runs are persisted.
func (h *TrendingHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondWithError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	userID := ""
	if user := auth.UserFrom(r.Context()); user != nil {
		userID = user.ID
	}

	h.logger.Printf("Analyzing trending videos for prompt: %s", req.Prompt)
	result := h.pipeline.Run(r.Context(), req.Prompt, userID)

	// Degraded outcomes (no results, internal fallback) are still HTTP 200;
	// the success flag is the contract.
	respondWithJSON(w, http.StatusOK, result)
}

// History returns the authenticated user's past analyses, newest first.
func (h *TrendingHandler) History(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	analyses, err := h.history.ListByUser(r.Context(), user.ID, limit)
	if err != nil {
		h.logger.Printf("Error listing analyses for user %s: %v", user.ID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load analysis history")
		return
	}
	if analyses == nil {
		analyses = []*models.TrendAnalysis{}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analyses": analyses,
	})
}
