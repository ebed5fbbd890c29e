package tasks

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"lvlai-backend/internal/analytics"
	"lvlai-backend/internal/auth"
)

type taskBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	TaskTime    *time.Time `json:"taskTime"`
	DueDate     *time.Time `json:"dueDate"`
	Points      *int       `json:"points"`
	Tags        []string   `json:"tags"`
}

// -------------------------------
// HANDLERS
// -------------------------------

func ListHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		result, err := st.ListByOwner(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func CreateHandler(st *Store, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body taskBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		title := ""
		if body.Title != nil {
			title = strings.TrimSpace(*body.Title)
		}
		if title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		if len(title) > 200 {
			http.Error(w, "title cannot be more than 200 characters", http.StatusBadRequest)
			return
		}

		t := Task{
			UserID:   uid,
			Title:    title,
			Priority: PriorityMedium,
			Status:   StatusPending,
			Points:   10,
			Tags:     []string{},
		}

		if body.Description != nil && strings.TrimSpace(*body.Description) != "" {
			d := strings.TrimSpace(*body.Description)
			t.Description = &d
		}
		if body.Priority != nil {
			p := Priority(*body.Priority)
			if !p.Valid() {
				http.Error(w, "invalid priority", http.StatusBadRequest)
				return
			}
			t.Priority = p
		}
		if body.Status != nil {
			s := Status(*body.Status)
			if !s.Valid() {
				http.Error(w, "invalid status", http.StatusBadRequest)
				return
			}
			t.Status = s
		}
		t.TaskTime = body.TaskTime
		t.DueDate = body.DueDate
		if body.Points != nil {
			if *body.Points < 0 {
				http.Error(w, "points cannot be negative", http.StatusBadRequest)
				return
			}
			t.Points = *body.Points
		}
		if body.Tags != nil {
			t.Tags = body.Tags
		}

		created, err := st.Create(r.Context(), t)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: task_created
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":      created.ID,
				"priority":     created.Priority,
				"has_due_date": created.DueDate != nil,
				"points":       created.Points,
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	}
}

func GetHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		t, err := st.Get(r.Context(), uid, r.PathValue("id"))
		if err != nil {
			writeTaskError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

func UpdateHandler(st *Store, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		t, err := st.Get(r.Context(), uid, r.PathValue("id"))
		if err != nil {
			writeTaskError(w, err)
			return
		}

		var body taskBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		wasCompleted := t.Status == StatusCompleted

		t, err = applyTaskBody(t, body, time.Now().UTC())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, err := st.Update(r.Context(), t)
		if err != nil {
			writeTaskError(w, err)
			return
		}

		if !wasCompleted && updated.Status == StatusCompleted {
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id": updated.ID,
				"points":  updated.Points,
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_completed", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(updated)
	}
}

func DeleteHandler(st *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := st.Delete(r.Context(), uid, r.PathValue("id")); err != nil {
			writeTaskError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

// applyTaskBody merges a partial update into an existing task. Marking
// a task completed stamps completed_at once; re-saving an already
// completed task keeps the original stamp.
func applyTaskBody(t Task, body taskBody, now time.Time) (Task, error) {
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			return Task{}, errors.New("title is required")
		}
		if len(title) > 200 {
			return Task{}, errors.New("title cannot be more than 200 characters")
		}
		t.Title = title
	}
	if body.Description != nil {
		d := strings.TrimSpace(*body.Description)
		if d == "" {
			t.Description = nil
		} else {
			t.Description = &d
		}
	}
	if body.Priority != nil {
		p := Priority(*body.Priority)
		if !p.Valid() {
			return Task{}, errors.New("invalid priority")
		}
		t.Priority = p
	}
	if body.Status != nil {
		s := Status(*body.Status)
		if !s.Valid() {
			return Task{}, errors.New("invalid status")
		}
		t.Status = s
	}
	if body.TaskTime != nil {
		t.TaskTime = body.TaskTime
	}
	if body.DueDate != nil {
		t.DueDate = body.DueDate
	}
	if body.Points != nil {
		if *body.Points < 0 {
			return Task{}, errors.New("points cannot be negative")
		}
		t.Points = *body.Points
	}
	if body.Tags != nil {
		t.Tags = body.Tags
	}

	if t.Status == StatusCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}

	return t, nil
}

func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		http.Error(w, "invalid task id", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	default:
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
	}
}
