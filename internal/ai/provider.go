package ai

import "errors"

// Provider identifies which DeepSeek-backed chat-completion backend
// services a call: the vendor API directly, or the same model routed
// through OpenRouter.
type Provider string

const (
	ProviderDeepSeek   Provider = "deepseek"
	ProviderOpenRouter Provider = "openrouter"
)

func (p Provider) Valid() bool {
	return p == ProviderDeepSeek || p == ProviderOpenRouter
}

var ErrNoProviderConfigured = errors.New("no AI provider configured: set DEEPSEEK_API_KEY or OPENROUTER_API_KEY")

// PreferredProvider picks the backend for a call that did not force one.
// The direct API wins whenever its key is present; OpenRouter is the
// fallback. A forced provider is deliberately NOT validated here - a bad
// override surfaces as a dispatch failure, not a selection failure.
func (c *Client) PreferredProvider() (Provider, error) {
	if c.cfg.DeepSeekAPIKey != "" {
		return ProviderDeepSeek, nil
	}
	if c.cfg.OpenRouterAPIKey != "" {
		return ProviderOpenRouter, nil
	}
	return "", ErrNoProviderConfigured
}

// ConfiguredProviders reports key presence per provider, for the health
// endpoint. It says nothing about whether the keys actually work.
func (c *Client) ConfiguredProviders() map[Provider]bool {
	return map[Provider]bool{
		ProviderDeepSeek:   c.cfg.DeepSeekAPIKey != "",
		ProviderOpenRouter: c.cfg.OpenRouterAPIKey != "",
	}
}
