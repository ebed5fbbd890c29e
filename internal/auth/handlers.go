package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB     *sql.DB
	secret []byte
}

func NewHandler(db *sql.DB, secret []byte) *Handler {
	return &Handler{DB: db, secret: secret}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountInfo is the response-side projection of a user. The password
// hash never leaves the login/register queries.
type accountInfo struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Level               int    `json:"level"`
	XP                  int    `json:"xp"`
	TotalTasksCompleted int    `json:"totalTasksCompleted"`
	Preferences         struct {
		Timezone    string `json:"timezone"`
		DailyGoalXP int    `json:"dailyGoalXP"`
	} `json:"preferences"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  accountInfo `json:"user"`
}

func (h *Handler) fetchAccount(ctx context.Context, userID string) (accountInfo, error) {
	var a accountInfo
	err := h.DB.QueryRowContext(ctx, `
		SELECT id, name, email, level, xp, total_tasks_completed, timezone, daily_goal_xp
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&a.ID, &a.Name, &a.Email, &a.Level, &a.XP, &a.TotalTasksCompleted,
		&a.Preferences.Timezone, &a.Preferences.DailyGoalXP,
	)
	return a, err
}

// ------------------------------------------------------------------
// Registration: POST /auth/register
// ------------------------------------------------------------------

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" {
		http.Error(w, "name and email are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		http.Error(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	// check duplicate email
	var exists int
	err := h.DB.QueryRowContext(r.Context(),
		"SELECT COUNT(*) FROM users WHERE email = $1", req.Email,
	).Scan(&exists)
	if err == nil && exists > 0 {
		http.Error(w, "email already exists", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "hash error", http.StatusInternalServerError)
		return
	}

	id := uuid.NewString()
	_, err = h.DB.ExecContext(r.Context(), `
		INSERT INTO users (id, name, email, password)
		VALUES ($1, $2, $3, $4)
	`, id, req.Name, req.Email, string(hash))
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.respondWithToken(w, r, id)
}

// ------------------------------------------------------------------
// Login: POST /auth/login
// ------------------------------------------------------------------

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var (
		id   string
		hash string
	)
	err := h.DB.QueryRowContext(r.Context(),
		"SELECT id, password FROM users WHERE email = $1", req.Email,
	).Scan(&id, &hash)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}

	h.respondWithToken(w, r, id)
}

// ------------------------------------------------------------------
// Current user: GET /auth/me
// ------------------------------------------------------------------

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	a, err := h.fetchAccount(r.Context(), uid)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

// ------------------------------------------------------------------
// Logout: POST /auth/logout
// ------------------------------------------------------------------

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// JWT is stateless; the client drops the token.
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, userID string) {
	token, err := GenerateToken(h.secret, userID)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	a, err := h.fetchAccount(r.Context(), userID)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authResponse{Token: token, User: a})
}
