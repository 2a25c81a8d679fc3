// Package auth handles password hashing, access tokens and the request
// middleware that resolves the current user.
package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"trendscope/internal/config"
	"trendscope/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the session cookie carrying the access token.
const CookieName = "access_token"

type contextKey struct{}

// UserLookup resolves a username to an account. Satisfied by
// *storage.UserStore.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenManager signs and verifies the JWT access tokens used for both the
// session cookie and the API token endpoint.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		expiry: time.Duration(cfg.TokenExpireMinutes) * time.Minute,
	}
}

// Expiry returns the configured token lifetime.
func (tm *TokenManager) Expiry() time.Duration {
	return tm.expiry
}

// CreateToken issues a signed token with the username as subject.
func (tm *TokenManager) CreateToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies a token and returns its subject username.
func (tm *TokenManager) ParseToken(tokenString string) (string, error) {
	// Clients that store the raw Authorization value keep the Bearer prefix.
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// Middleware builds the two auth middlewares: Require rejects requests
// without a valid session, Optional attaches the user when present and lets
// anonymous requests through.
type Middleware struct {
	tokens *TokenManager
	users  UserLookup
	logger *log.Logger
}

func NewMiddleware(tokens *TokenManager, users UserLookup, logger *log.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := m.resolve(r)
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := m.resolve(r); user != nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) resolve(r *http.Request) *models.User {
	tokenString := ""
	if cookie, err := r.Cookie(CookieName); err == nil {
		tokenString = cookie.Value
	} else if header := r.Header.Get("Authorization"); header != "" {
		tokenString = header
	}
	if tokenString == "" {
		return nil
	}

	username, err := m.tokens.ParseToken(tokenString)
	if err != nil {
		m.logger.Printf("Token verification failed: %v", err)
		return nil
	}

	user, err := m.users.GetByUsername(r.Context(), username)
	if err != nil {
		m.logger.Printf("User %s from token not found: %v", username, err)
		return nil
	}
	return user
}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFrom returns the authenticated user, nil for anonymous requests.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKey{}).(*models.User)
	return user
}
