package storage

import (
	"context"
	"errors"
	"fmt"

	"trendscope/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// UserStore persists registered accounts.
type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

// CreateUser inserts a new account and returns it with its assigned ID.
func (s *UserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.NewString()

	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, full_name, hashed_password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, user.ID, user.Username, user.Email, user.FullName, user.HashedPassword).Scan(&user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// GetByUsername fetches one account, ErrNotFound when it does not exist.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, full_name, hashed_password, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail fetches one account by email, ErrNotFound when it does not
// exist.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, full_name, hashed_password, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user by email: %w", err)
	}
	return &user, nil
}
