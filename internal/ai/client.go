package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	deepSeekBaseURL   = "https://api.deepseek.com"
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	requestTimeout = 30 * time.Second
	maxRetries     = 2

	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
)

var ErrInvalidRequest = errors.New("both system prompt and user message are required")

type Config struct {
	DeepSeekAPIKey   string
	DeepSeekModel    string
	OpenRouterAPIKey string
	OpenRouterModel  string

	// Base URL overrides, used by tests to point at a stub server.
	DeepSeekBaseURL   string
	OpenRouterBaseURL string
}

// Client dispatches system+user message pairs to one of the two
// backends. The underlying SDK clients are stateless besides connection
// pooling, so each one is built once and reused for the process
// lifetime; temperature and token caps travel with the request.
type Client struct {
	cfg Config

	deepseekOnce sync.Once
	deepseek     openai.Client

	openrouterOnce sync.Once
	openrouter     openai.Client
}

func NewClient(cfg Config) *Client {
	if cfg.DeepSeekModel == "" {
		cfg.DeepSeekModel = "deepseek-chat"
	}
	if cfg.OpenRouterModel == "" {
		cfg.OpenRouterModel = "deepseek/deepseek-chat"
	}
	if cfg.DeepSeekBaseURL == "" {
		cfg.DeepSeekBaseURL = deepSeekBaseURL
	}
	if cfg.OpenRouterBaseURL == "" {
		cfg.OpenRouterBaseURL = openRouterBaseURL
	}
	return &Client{cfg: cfg}
}

// AskOptions tune a single dispatch. Zero values mean "use defaults".
// A non-empty Fallback switches the failure policy for this call from
// propagate to fallback: dispatch failures resolve to the fallback text
// instead of an error. Selection failures and bad input still propagate.
type AskOptions struct {
	Temperature float64
	MaxTokens   int64
	Provider    Provider
	Fallback    string
}

// Ask sends one system+user message pair and returns the model's reply
// as a trimmed string.
func (c *Client) Ask(ctx context.Context, systemPrompt, userMessage string, opts AskOptions) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" || strings.TrimSpace(userMessage) == "" {
		return "", ErrInvalidRequest
	}

	provider := opts.Provider
	if provider == "" {
		p, err := c.PreferredProvider()
		if err != nil {
			return "", err
		}
		provider = p
	}

	text, err := c.dispatch(ctx, provider, systemPrompt, userMessage, opts)
	if err != nil {
		if opts.Fallback != "" {
			log.Printf("[WARN] dispatch to %s failed, returning fallback: %v", provider, err)
			return opts.Fallback, nil
		}
		return "", err
	}
	return text, nil
}

func (c *Client) dispatch(ctx context.Context, provider Provider, systemPrompt, userMessage string, opts AskOptions) (string, error) {
	backend, model, err := c.backend(provider)
	if err != nil {
		return "", err
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	completion, err := backend.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", provider, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s: no response from model", provider)
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%s: empty response from model", provider)
	}
	return text, nil
}

func (c *Client) backend(provider Provider) (openai.Client, string, error) {
	switch provider {
	case ProviderDeepSeek:
		if c.cfg.DeepSeekAPIKey == "" {
			return openai.Client{}, "", fmt.Errorf("deepseek: API key is not set")
		}
		c.deepseekOnce.Do(func() {
			c.deepseek = newBackend(c.cfg.DeepSeekAPIKey, c.cfg.DeepSeekBaseURL)
		})
		return c.deepseek, c.cfg.DeepSeekModel, nil

	case ProviderOpenRouter:
		if c.cfg.OpenRouterAPIKey == "" {
			return openai.Client{}, "", fmt.Errorf("openrouter: API key is not set")
		}
		c.openrouterOnce.Do(func() {
			c.openrouter = newBackend(c.cfg.OpenRouterAPIKey, c.cfg.OpenRouterBaseURL)
		})
		return c.openrouter, c.cfg.OpenRouterModel, nil

	default:
		return openai.Client{}, "", fmt.Errorf("unknown AI provider %q", provider)
	}
}

func newBackend(apiKey, baseURL string) openai.Client {
	return openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(requestTimeout),
		option.WithMaxRetries(maxRetries),
	)
}
