package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trendscope/internal/auth"
	"trendscope/internal/config"
	"trendscope/internal/models"
	"trendscope/internal/monitoring"
	"trendscope/internal/server/handlers"
	"trendscope/internal/storage"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

type fakeUsers struct{}

func (f *fakeUsers) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return user, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, storage.ErrNotFound
}

type fakeRunner struct{}

func (f *fakeRunner) Run(ctx context.Context, prompt, userID string) models.PipelineResult {
	return models.PipelineResult{Success: true}
}

type fakeHistory struct{}

func (f *fakeHistory) ListByUser(ctx context.Context, userID string, limit int) ([]*models.TrendAnalysis, error) {
	return nil, nil
}

func testServer(db Pinger, monitor *monitoring.Monitor) *Server {
	logger := log.New(io.Discard, "", 0)
	users := &fakeUsers{}
	tokens := auth.NewTokenManager(&config.AuthConfig{Secret: "test-secret", TokenExpireMinutes: 30})

	return New(
		&config.ServerConfig{Host: "127.0.0.1", Port: 0, CORSOrigins: []string{"*"}, ReadTimeoutSec: 1, WriteTimeoutSec: 1},
		db,
		monitor,
		auth.NewMiddleware(tokens, users, logger),
		handlers.NewAuthHandler(users, tokens, logger),
		handlers.NewTrendingHandler(&fakeRunner{}, &fakeHistory{}, logger),
		logger,
	)
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		jobFailed  bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Healthy",
			wantStatus: http.StatusOK,
			wantBody:   "OK - No runs yet",
		},
		{
			name:       "Database unreachable",
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "database unreachable",
		},
		{
			name:       "Failed chart refresh degrades but stays up",
			jobFailed:  true,
			wantStatus: http.StatusOK,
			wantBody:   "OK (degraded)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monitor := monitoring.NewMonitor(log.New(io.Discard, "", 0))
			if tt.jobFailed {
				monitor.RecordFailure(errors.New("chart fetch failed"), time.Second)
			}
			srv := testServer(&fakePinger{err: tt.pingErr}, monitor)

			rec := httptest.NewRecorder()
			srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
