package organizer

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"lvlai-backend/internal/ai"
	"lvlai-backend/internal/analytics"
	"lvlai-backend/internal/auth"
	"lvlai-backend/internal/users"
)

// Chat: POST /organizer/chat

func ChatHandler(agent *Agent, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Message     string      `json:"message"`
			Temperature float64     `json:"temperature"`
			MaxTokens   int64       `json:"maxTokens"`
			Provider    ai.Provider `json:"provider"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		body.Message = strings.TrimSpace(body.Message)
		if body.Message == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}
		if len(body.Message) > 1000 {
			http.Error(w, "message cannot exceed 1000 characters", http.StatusBadRequest)
			return
		}
		if body.Provider != "" && !body.Provider.Valid() {
			http.Error(w, "invalid provider", http.StatusBadRequest)
			return
		}

		response, err := agent.Chat(r.Context(), uid, body.Message, CallOptions{
			Temperature: body.Temperature,
			MaxTokens:   body.MaxTokens,
			Provider:    body.Provider,
		})
		if err != nil {
			writeAgentError(w, "response from organizer", err)
			return
		}

		// analytics: organizer_chat (never the message text itself)
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"message_len": len(body.Message),
				"provider":    string(body.Provider),
			}
			_ = analytics.Log(r.Context(), dbx, env, "organizer_chat", props, analytics.SourceEventKeyFromRequest(r))
		}

		writeJSON(w, map[string]any{
			"response":  response,
			"timestamp": time.Now().UTC(),
		})
	}
}

// Insight operations: GET /organizer/...
// These surface dispatch failures to the caller instead of a canned
// reply; the frontend owns the error state for them.

func SuggestionsHandler(agent *Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		suggestions, err := agent.OrganizationSuggestions(r.Context(), uid, callOptionsFromQuery(r))
		if err != nil {
			writeAgentError(w, "organization suggestions", err)
			return
		}

		writeJSON(w, map[string]any{"suggestions": suggestions})
	}
}

func DailyPlanHandler(agent *Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		plan, err := agent.DailyPlan(r.Context(), uid, callOptionsFromQuery(r))
		if err != nil {
			writeAgentError(w, "daily plan", err)
			return
		}

		writeJSON(w, map[string]any{
			"plan": plan,
			"date": time.Now().UTC().Format("2006-01-02"),
		})
	}
}

func ProductivityAnalysisHandler(agent *Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		analysis, err := agent.ProductivityAnalysis(r.Context(), uid, callOptionsFromQuery(r))
		if err != nil {
			writeAgentError(w, "productivity analysis", err)
			return
		}

		writeJSON(w, map[string]any{"analysis": analysis})
	}
}

func MotivationHandler(agent *Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		motivation, err := agent.Motivation(r.Context(), uid, callOptionsFromQuery(r))
		if err != nil {
			writeAgentError(w, "motivation", err)
			return
		}

		writeJSON(w, map[string]any{"motivation": motivation})
	}
}

// Context debug view: GET /organizer/context

func ContextHandler(agent *Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rc, err := agent.RetrieveContext(r.Context(), uid)
		if err != nil {
			writeAgentError(w, "context", err)
			return
		}

		writeJSON(w, map[string]any{
			"context":          rc,
			"formattedContext": FormatContextForPrompt(rc),
		})
	}
}

// Standalone prompt helpers.

func TaskSuggestionsHandler(agent *Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Input       string      `json:"input"`
			Temperature float64     `json:"temperature"`
			Provider    ai.Provider `json:"provider"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(body.Input) == "" {
			http.Error(w, "input is required", http.StatusBadRequest)
			return
		}

		suggestions, err := agent.SuggestTasks(r.Context(), body.Input, CallOptions{
			Temperature: body.Temperature,
			Provider:    body.Provider,
		})
		if err != nil {
			writeAgentError(w, "task suggestions", err)
			return
		}

		writeJSON(w, map[string]any{"suggestions": suggestions})
	}
}

func TaskAnalysisHandler(agent *Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Description string      `json:"description"`
			Temperature float64     `json:"temperature"`
			Provider    ai.Provider `json:"provider"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(body.Description) == "" {
			http.Error(w, "description is required", http.StatusBadRequest)
			return
		}

		analysis, err := agent.AnalyzeTask(r.Context(), body.Description, CallOptions{
			Temperature: body.Temperature,
			Provider:    body.Provider,
		})
		if err != nil {
			writeAgentError(w, "task analysis", err)
			return
		}

		writeJSON(w, map[string]any{"analysis": analysis})
	}
}

// Diagnostics.

func TestProviderHandler(agent *Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		provider := ai.Provider(r.URL.Query().Get("provider"))
		if provider != "" && !provider.Valid() {
			http.Error(w, "invalid provider", http.StatusBadRequest)
			return
		}

		writeJSON(w, agent.TestProvider(r.Context(), provider))
	}
}

// Health: GET /organizer/health (public)

func HealthHandler(client *ai.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providers := client.ConfiguredProviders()

		writeJSON(w, map[string]any{
			"status":    "healthy",
			"service":   "organizer-agent",
			"timestamp": time.Now().UTC(),
			"providers": map[string]bool{
				string(ai.ProviderDeepSeek):   providers[ai.ProviderDeepSeek],
				string(ai.ProviderOpenRouter): providers[ai.ProviderOpenRouter],
			},
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func callOptionsFromQuery(r *http.Request) CallOptions {
	provider := ai.Provider(r.URL.Query().Get("provider"))
	if !provider.Valid() {
		provider = ""
	}
	return CallOptions{Provider: provider}
}

// writeAgentError maps agent failures onto transport errors. Context
// build failures are client errors; everything else is the server's
// problem.
func writeAgentError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidID):
		http.Error(w, "invalid user id", http.StatusBadRequest)
	case errors.Is(err, users.ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ai.ErrNoProviderConfigured):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, "failed to get "+what+": "+err.Error(), http.StatusInternalServerError)
	}
}
