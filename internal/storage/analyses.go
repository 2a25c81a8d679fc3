package storage

import (
	"context"
	"fmt"

	"trendscope/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AnalysisStore persists the write-once snapshots of completed pipeline
// runs.
type AnalysisStore struct {
	db *pgxpool.Pool
}

func NewAnalysisStore(db *pgxpool.Pool) *AnalysisStore {
	return &AnalysisStore{db: db}
}

// SaveAnalysis inserts one run snapshot and returns its assigned ID.
func (s *AnalysisStore) SaveAnalysis(ctx context.Context, analysis *models.TrendAnalysis) (string, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(ctx, `
		INSERT INTO trend_analyses (
			id, user_id, query, platform,
			trend_strength, trend_direction,
			summary, insights, recommendations,
			metrics, full_response
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, analysis.UserID, analysis.Query, analysis.Platform,
		analysis.TrendStrength, analysis.TrendDirection,
		analysis.Summary, analysis.Insights, analysis.Recommendations,
		analysis.Metrics, analysis.FullResponse)
	if err != nil {
		return "", fmt.Errorf("error saving trend analysis: %w", err)
	}

	return id, nil
}

// ListByUser returns a user's past analyses, newest first.
func (s *AnalysisStore) ListByUser(ctx context.Context, userID string, limit int) ([]*models.TrendAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, query, platform,
			trend_strength, trend_direction,
			summary, insights, recommendations,
			metrics, full_response, created_at
		FROM trend_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing trend analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*models.TrendAnalysis
	for rows.Next() {
		var a models.TrendAnalysis
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Query, &a.Platform,
			&a.TrendStrength, &a.TrendDirection,
			&a.Summary, &a.Insights, &a.Recommendations,
			&a.Metrics, &a.FullResponse, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning trend analysis: %w", err)
		}
		analyses = append(analyses, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trend analyses: %w", err)
	}

	return analyses, nil
}
