package models

import "time"

// User is a registered account. HashedPassword is a bcrypt hash and never
// leaves the storage/auth layers.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrendAnalysis is the durable, write-once snapshot of one pipeline run.
// Metrics and FullResponse hold pre-serialized JSON payloads.
type TrendAnalysis struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Query           string    `json:"query"`
	Platform        string    `json:"platform"`
	TrendStrength   float64   `json:"trend_strength"`
	TrendDirection  string    `json:"trend_direction"`
	Summary         string    `json:"summary"`
	Insights        string    `json:"insights"`
	Recommendations string    `json:"recommendations"`
	Metrics         string    `json:"metrics,omitempty"`
	FullResponse    string    `json:"full_response,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
