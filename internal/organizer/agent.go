package organizer

import (
	"context"

	"lvlai-backend/internal/ai"
)

// FallbackReply is what chat resolves to when dispatch fails. The
// conversational path never surfaces a raw error to the end user; the
// insight operations do, because their callers own an error state.
const FallbackReply = "I'm sorry, I'm having trouble processing your request right now. Please try again later or contact support if the issue persists."

// ModelClient is the slice of the dispatcher the agent needs.
type ModelClient interface {
	Ask(ctx context.Context, systemPrompt, userMessage string, opts ai.AskOptions) (string, error)
	PreferredProvider() (ai.Provider, error)
}

// Agent composes context retrieval, prompt formatting, and model
// dispatch into the user-facing organizer operations. It holds no
// per-user state; every call rebuilds context from the stores.
type Agent struct {
	retriever *Retriever
	model     ModelClient
}

func NewAgent(userSource UserSource, taskSource TaskSource, model ModelClient) *Agent {
	return &Agent{
		retriever: &Retriever{Users: userSource, Tasks: taskSource},
		model:     model,
	}
}

// CallOptions are per-call knobs a route may pass through. Zero values
// defer to the operation's own defaults.
type CallOptions struct {
	Temperature float64
	MaxTokens   int64
	Provider    ai.Provider
}

// Chat answers a free-text message against the user's full context.
// Dispatch failures resolve to FallbackReply instead of an error;
// context-build and provider-selection failures still propagate.
func (a *Agent) Chat(ctx context.Context, userID, message string, opts CallOptions) (string, error) {
	return a.askWithContext(ctx, userID, message, opts, FallbackReply)
}

// OrganizationSuggestions asks for focus, overdue triage, grouping and
// breakdown advice over the current task set.
func (a *Agent) OrganizationSuggestions(ctx context.Context, userID string, opts CallOptions) (string, error) {
	opts.Temperature = 0.6
	return a.askWithContext(ctx, userID, suggestionsPrompt, opts, "")
}

// DailyPlan asks for an ordered plan for today.
func (a *Agent) DailyPlan(ctx context.Context, userID string, opts CallOptions) (string, error) {
	opts.Temperature = 0.6
	return a.askWithContext(ctx, userID, dailyPlanPrompt, opts, "")
}

// ProductivityAnalysis asks for pattern insights over completion habits.
func (a *Agent) ProductivityAnalysis(ctx context.Context, userID string, opts CallOptions) (string, error) {
	opts.Temperature = 0.7
	return a.askWithContext(ctx, userID, productivityPrompt, opts, "")
}

// Motivation asks for an encouraging message grounded in progress.
func (a *Agent) Motivation(ctx context.Context, userID string, opts CallOptions) (string, error) {
	opts.Temperature = 0.8
	return a.askWithContext(ctx, userID, motivationPrompt, opts, "")
}

func (a *Agent) askWithContext(ctx context.Context, userID, userMessage string, opts CallOptions, fallback string) (string, error) {
	rc, err := a.retriever.RetrieveCompleteContext(ctx, userID)
	if err != nil {
		return "", err
	}

	system := systemPromptWithContext(FormatContextForPrompt(rc))

	return a.model.Ask(ctx, system, userMessage, ai.AskOptions{
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Provider:    opts.Provider,
		Fallback:    fallback,
	})
}

// RetrieveContext exposes the raw retrieved context, for the debug
// endpoint.
func (a *Agent) RetrieveContext(ctx context.Context, userID string) (*RetrievedContext, error) {
	return a.retriever.RetrieveCompleteContext(ctx, userID)
}

// SuggestTasks breaks a free-text goal into task suggestions. No
// retrieved context; the input carries everything.
func (a *Agent) SuggestTasks(ctx context.Context, input string, opts CallOptions) (string, error) {
	return a.model.Ask(ctx, taskSuggestionsSystemPrompt, input, ai.AskOptions{
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Provider:    opts.Provider,
	})
}

// AnalyzeTask gives a complexity/priority assessment of one task
// description.
func (a *Agent) AnalyzeTask(ctx context.Context, description string, opts CallOptions) (string, error) {
	return a.model.Ask(ctx, taskAnalysisSystemPrompt, description, ai.AskOptions{
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Provider:    opts.Provider,
	})
}

type ProviderTestResult struct {
	Provider ai.Provider `json:"provider"`
	Status   string      `json:"status"` // connected | error
	Response string      `json:"response,omitempty"`
}

// TestProvider sends a trivial probe through the dispatcher and reports
// connectivity. Operational diagnostics, not an end-user surface.
func (a *Agent) TestProvider(ctx context.Context, provider ai.Provider) ProviderTestResult {
	if provider == "" {
		p, err := a.model.PreferredProvider()
		if err != nil {
			return ProviderTestResult{Status: "error", Response: err.Error()}
		}
		provider = p
	}

	resp, err := a.model.Ask(ctx, probeSystemPrompt, probeUserPrompt(string(provider)), ai.AskOptions{
		Provider: provider,
	})
	if err != nil {
		return ProviderTestResult{Provider: provider, Status: "error", Response: err.Error()}
	}

	return ProviderTestResult{Provider: provider, Status: "connected", Response: resp}
}
