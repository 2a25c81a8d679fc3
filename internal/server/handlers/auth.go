package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"trendscope/internal/auth"
	"trendscope/internal/models"
	"trendscope/internal/storage"
)

// UserAccounts is the account storage the auth handlers need. Satisfied by
// *storage.UserStore.
type UserAccounts interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler serves signup, login, logout and the API token endpoint.
type AuthHandler struct {
	users  UserAccounts
	tokens *auth.TokenManager
	logger *log.Logger
}

func NewAuthHandler(users UserAccounts, tokens *auth.TokenManager, logger *log.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	switch {
	case len(req.Username) < 3:
		respondWithError(w, http.StatusBadRequest, "Username must be at least 3 characters")
		return
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		respondWithError(w, http.StatusBadRequest, "A valid email is required")
		return
	case req.FullName == "":
		respondWithError(w, http.StatusBadRequest, "Full name is required")
		return
	case len(req.Password) < 8:
		respondWithError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	case req.Password != req.ConfirmPassword:
		respondWithError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if _, err := h.users.GetByUsername(r.Context(), req.Username); err == nil {
		respondWithError(w, http.StatusConflict, "Username already registered")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.logger.Printf("Signup lookup failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		respondWithError(w, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.logger.Printf("Signup lookup failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Printf("Password hashing error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.users.CreateUser(r.Context(), &models.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hash,
	})
	if err != nil {
		h.logger.Printf("Error creating user %s: %v", req.Username, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Printf("Registered new user: %s", user.Username)
	respondWithJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := h.authenticate(r.Context(), req.Username, req.Password)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.tokens.CreateToken(user.Username)
	if err != nil {
		h.logger.Printf("Token creation error for %s: %v", user.Username, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.tokens.Expiry().Seconds()),
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"username": user.Username,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Token is the API-client token endpoint; it accepts form-encoded
// credentials and returns a bearer token instead of setting a cookie.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	user := h.authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if user == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		respondWithError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := h.tokens.CreateToken(user.Username)
	if err != nil {
		h.logger.Printf("Token creation error for %s: %v", user.Username, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) authenticate(ctx context.Context, username, password string) *models.User {
	h.logger.Printf("Authentication attempt for user: %s", username)

	user, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		h.logger.Printf("Authentication failed: user %s not found", username)
		return nil
	}
	if !auth.CheckPassword(password, user.HashedPassword) {
		h.logger.Printf("Authentication failed: invalid password for user %s", username)
		return nil
	}
	return user
}
