package organizer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"lvlai-backend/internal/ai"
	"lvlai-backend/internal/tasks"
	"lvlai-backend/internal/users"
)

// completionStub serves the chat-completions shape both providers speak.
func completionStub(t *testing.T, content string, fail bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"message": "bad request", "type": "invalid_request_error"}}`))
			return
		}
		w.Write([]byte(`{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "deepseek-chat",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": ` + strconv.Quote(content) + `}, "finish_reason": "stop"}
			]
		}`))
	}))
}

func newTestAgent(t *testing.T, srv *httptest.Server) *Agent {
	t.Helper()
	client := ai.NewClient(ai.Config{
		DeepSeekAPIKey:  "test-key",
		DeepSeekBaseURL: srv.URL,
	})
	list := []tasks.Task{makeTask("t1", tasks.StatusPending, time.Now(), nil)}
	return NewAgent(&fakeUserSource{user: testUser()}, &fakeTaskSource{list: list}, client)
}

func TestChat_FallbackOnDispatchFailure(t *testing.T) {
	srv := completionStub(t, "", true)
	defer srv.Close()

	agent := newTestAgent(t, srv)

	got, err := agent.Chat(context.Background(), testUser().ID, "help me plan my day", CallOptions{})
	if err != nil {
		t.Fatalf("chat must not propagate dispatch failures: %v", err)
	}
	if got != FallbackReply {
		t.Fatalf("expected fallback reply, got %q", got)
	}
}

func TestInsightOps_PropagateDispatchFailure(t *testing.T) {
	srv := completionStub(t, "", true)
	defer srv.Close()

	agent := newTestAgent(t, srv)
	ctx := context.Background()
	uid := testUser().ID

	ops := map[string]func() (string, error){
		"suggestions": func() (string, error) { return agent.OrganizationSuggestions(ctx, uid, CallOptions{}) },
		"daily plan":  func() (string, error) { return agent.DailyPlan(ctx, uid, CallOptions{}) },
		"analysis":    func() (string, error) { return agent.ProductivityAnalysis(ctx, uid, CallOptions{}) },
		"motivation":  func() (string, error) { return agent.Motivation(ctx, uid, CallOptions{}) },
	}

	for name, op := range ops {
		if _, err := op(); err == nil {
			t.Errorf("%s: expected dispatch failure to propagate", name)
		}
	}
}

func TestChat_ReturnsModelReply(t *testing.T) {
	srv := completionStub(t, "  Focus on your overdue report first.  ", false)
	defer srv.Close()

	agent := newTestAgent(t, srv)

	got, err := agent.Chat(context.Background(), testUser().ID, "what should I do first?", CallOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Focus on your overdue report first." {
		t.Fatalf("expected trimmed model reply, got %q", got)
	}
}

func TestChat_ContextFailurePropagates(t *testing.T) {
	srv := completionStub(t, "irrelevant", false)
	defer srv.Close()

	client := ai.NewClient(ai.Config{DeepSeekAPIKey: "test-key", DeepSeekBaseURL: srv.URL})
	agent := NewAgent(
		&fakeUserSource{err: users.ErrNotFound},
		&fakeTaskSource{},
		client,
	)

	_, err := agent.Chat(context.Background(), testUser().ID, "hi", CallOptions{})
	if !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("context build failure must propagate even on the chat path, got %v", err)
	}
}

func TestTestProvider_Connected(t *testing.T) {
	srv := completionStub(t, "Hello from deepseek!", false)
	defer srv.Close()

	agent := newTestAgent(t, srv)

	res := agent.TestProvider(context.Background(), ai.ProviderDeepSeek)
	if res.Status != "connected" {
		t.Fatalf("expected connected, got %+v", res)
	}
	if res.Provider != ai.ProviderDeepSeek {
		t.Errorf("wrong provider in result: %+v", res)
	}
	if res.Response == "" {
		t.Error("expected probe response text")
	}
}

func TestTestProvider_Error(t *testing.T) {
	srv := completionStub(t, "", true)
	defer srv.Close()

	agent := newTestAgent(t, srv)

	res := agent.TestProvider(context.Background(), ai.ProviderDeepSeek)
	if res.Status != "error" {
		t.Fatalf("expected error status, got %+v", res)
	}
	if res.Response == "" {
		t.Error("expected error text in response")
	}
}

func TestTestProvider_NoProviderConfigured(t *testing.T) {
	client := ai.NewClient(ai.Config{})
	agent := NewAgent(&fakeUserSource{user: testUser()}, &fakeTaskSource{}, client)

	res := agent.TestProvider(context.Background(), "")
	if res.Status != "error" {
		t.Fatalf("expected error status, got %+v", res)
	}
}
