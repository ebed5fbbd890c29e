package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"lvlai-backend/internal/ai"
	"lvlai-backend/internal/auth"
	"lvlai-backend/internal/config"
	"lvlai-backend/internal/db"
	"lvlai-backend/internal/organizer"
	"lvlai-backend/internal/tasks"
	"lvlai-backend/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(context.Background(), database); err != nil {
		log.Fatal("❌ Failed to ensure schema:", err)
	}

	log.Println("✅ Connected to PostgreSQL!")

	userStore := users.NewStore(database)
	taskStore := tasks.NewStore(database)

	aiClient := ai.NewClient(ai.Config{
		DeepSeekAPIKey:   cfg.DeepSeekAPIKey,
		DeepSeekModel:    cfg.DeepSeekModel,
		OpenRouterAPIKey: cfg.OpenRouterAPIKey,
		OpenRouterModel:  cfg.OpenRouterModel,
	})
	agent := organizer.NewAgent(userStore, taskStore, aiClient)

	authHandler := auth.NewHandler(database, []byte(cfg.JWTSecret))
	mw := auth.New([]byte(cfg.JWTSecret))

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH API -----
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", mw.Wrap(authHandler.Logout))
	mux.HandleFunc("GET /auth/me", mw.Wrap(authHandler.Me))
	mux.HandleFunc("DELETE /auth/account", mw.Wrap(auth.DeleteAccountHandler(database)))

	// ----- USERS API -----
	mux.HandleFunc("GET /users/me", mw.Wrap(users.MeHandler(userStore)))
	mux.HandleFunc("PUT /users/me", mw.Wrap(users.UpdateMeHandler(userStore)))

	// ----- TASKS API -----
	mux.HandleFunc("GET /tasks", mw.Wrap(tasks.ListHandler(taskStore)))
	mux.HandleFunc("POST /tasks", mw.Wrap(tasks.CreateHandler(taskStore, database)))
	mux.HandleFunc("GET /tasks/{id}", mw.Wrap(tasks.GetHandler(taskStore)))
	mux.HandleFunc("PUT /tasks/{id}", mw.Wrap(tasks.UpdateHandler(taskStore, database)))
	mux.HandleFunc("DELETE /tasks/{id}", mw.Wrap(tasks.DeleteHandler(taskStore)))

	// ----- ORGANIZER AGENT API -----
	mux.HandleFunc("POST /organizer/chat", mw.Wrap(organizer.ChatHandler(agent, database)))
	mux.HandleFunc("GET /organizer/suggestions", mw.Wrap(organizer.SuggestionsHandler(agent)))
	mux.HandleFunc("GET /organizer/daily-plan", mw.Wrap(organizer.DailyPlanHandler(agent)))
	mux.HandleFunc("GET /organizer/productivity-analysis", mw.Wrap(organizer.ProductivityAnalysisHandler(agent)))
	mux.HandleFunc("GET /organizer/motivation", mw.Wrap(organizer.MotivationHandler(agent)))
	mux.HandleFunc("GET /organizer/context", mw.Wrap(organizer.ContextHandler(agent)))
	mux.HandleFunc("POST /organizer/task-suggestions", mw.Wrap(organizer.TaskSuggestionsHandler(agent)))
	mux.HandleFunc("POST /organizer/task-analysis", mw.Wrap(organizer.TaskAnalysisHandler(agent)))
	mux.HandleFunc("GET /organizer/test-provider", mw.Wrap(organizer.TestProviderHandler(agent)))
	mux.HandleFunc("GET /organizer/health", organizer.HealthHandler(aiClient))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-App-Version", "X-Session-Id", "Idempotency-Key"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("🚀 API server is running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
