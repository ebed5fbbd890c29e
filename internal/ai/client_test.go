package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// stubCompletions answers the chat-completions endpoint with either a
// fixed reply or a 400 so the SDK fails without retrying.
func stubCompletions(t *testing.T, content string, fail bool) *httptest.Server {
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

func TestAsk_RejectsEmptyInput(t *testing.T) {
	c := NewClient(Config{DeepSeekAPIKey: "k"})

	for _, pair := range [][2]string{
		{"", "hello"},
		{"system", ""},
		{"   ", "hello"},
		{"system", "\n\t"},
	} {
		_, err := c.Ask(context.Background(), pair[0], pair[1], AskOptions{})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("Ask(%q, %q): err = %v, want ErrInvalidRequest", pair[0], pair[1], err)
		}
	}
}

func TestAsk_NoProviderConfigured(t *testing.T) {
	c := NewClient(Config{})

	_, err := c.Ask(context.Background(), "system", "hello", AskOptions{})
	if !errors.Is(err, ErrNoProviderConfigured) {
		t.Fatalf("err = %v, want ErrNoProviderConfigured", err)
	}

	// The fallback policy covers dispatch failures only, not selection.
	_, err = c.Ask(context.Background(), "system", "hello", AskOptions{Fallback: "sorry"})
	if !errors.Is(err, ErrNoProviderConfigured) {
		t.Fatalf("with fallback: err = %v, want ErrNoProviderConfigured", err)
	}
}

func TestAsk_TrimsReply(t *testing.T) {
	srv := stubCompletions(t, "\n  All set.  \n", false)
	defer srv.Close()

	c := NewClient(Config{DeepSeekAPIKey: "k", DeepSeekBaseURL: srv.URL})

	got, err := c.Ask(context.Background(), "system", "hello", AskOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "All set." {
		t.Fatalf("reply = %q, want trimmed text", got)
	}
}

func TestAsk_BlankReplyIsError(t *testing.T) {
	srv := stubCompletions(t, "   ", false)
	defer srv.Close()

	c := NewClient(Config{DeepSeekAPIKey: "k", DeepSeekBaseURL: srv.URL})

	if _, err := c.Ask(context.Background(), "system", "hello", AskOptions{}); err == nil {
		t.Fatal("expected an error for a blank completion")
	}
}

func TestAsk_FallbackOnDispatchFailure(t *testing.T) {
	srv := stubCompletions(t, "", true)
	defer srv.Close()

	c := NewClient(Config{DeepSeekAPIKey: "k", DeepSeekBaseURL: srv.URL})

	got, err := c.Ask(context.Background(), "system", "hello", AskOptions{Fallback: "try again later"})
	if err != nil {
		t.Fatalf("fallback should swallow dispatch failures, got %v", err)
	}
	if got != "try again later" {
		t.Fatalf("reply = %q, want the fallback text", got)
	}
}

func TestAsk_DispatchFailurePropagatesWithoutFallback(t *testing.T) {
	srv := stubCompletions(t, "", true)
	defer srv.Close()

	c := NewClient(Config{DeepSeekAPIKey: "k", DeepSeekBaseURL: srv.URL})

	if _, err := c.Ask(context.Background(), "system", "hello", AskOptions{}); err == nil {
		t.Fatal("expected the dispatch failure to propagate")
	}
}

func TestAsk_ForcedProviderWithoutKeyFailsAtDispatch(t *testing.T) {
	c := NewClient(Config{DeepSeekAPIKey: "k"})

	_, err := c.Ask(context.Background(), "system", "hello", AskOptions{Provider: ProviderOpenRouter})
	if err == nil {
		t.Fatal("expected an error for a forced provider with no key")
	}
	if errors.Is(err, ErrNoProviderConfigured) {
		t.Fatal("a bad override is a dispatch failure, not a selection failure")
	}
}
