package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lvlai-backend/internal/auth"
)

// Profile: GET /users/me

func MeHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := st.Get(r.Context(), uid)
		if err != nil {
			writeUserError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(u)
	}
}

// Profile update: PUT /users/me

func UpdateMeHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		current, err := st.Get(r.Context(), uid)
		if err != nil {
			writeUserError(w, err)
			return
		}

		var body struct {
			Name        *string `json:"name"`
			Timezone    *string `json:"timezone"`
			DailyGoalXP *int    `json:"dailyGoalXP"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		name := current.Name
		if body.Name != nil {
			name = strings.TrimSpace(*body.Name)
			if name == "" {
				http.Error(w, "name is required", http.StatusBadRequest)
				return
			}
			if len(name) > 50 {
				http.Error(w, "name cannot be more than 50 characters", http.StatusBadRequest)
				return
			}
		}

		timezone := current.Preferences.Timezone
		if body.Timezone != nil && strings.TrimSpace(*body.Timezone) != "" {
			timezone = strings.TrimSpace(*body.Timezone)
		}

		dailyGoal := current.Preferences.DailyGoalXP
		if body.DailyGoalXP != nil {
			if *body.DailyGoalXP < 0 {
				http.Error(w, "dailyGoalXP cannot be negative", http.StatusBadRequest)
				return
			}
			dailyGoal = *body.DailyGoalXP
		}

		updated, err := st.UpdateProfile(r.Context(), uid, name, timezone, dailyGoal)
		if err != nil {
			writeUserError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(updated)
	}
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		http.Error(w, "invalid user id", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
	}
}
