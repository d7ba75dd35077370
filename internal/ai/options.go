package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Options configures a provider client.
type Options struct {
	Model      string
	BaseURL    string
	Validation ValidationMode
	// Timeout bounds each call through its context, so it also applies to
	// a caller-supplied HTTPClient. Zero leaves the call bounded only by ctx.
	Timeout    time.Duration
	HTTPClient *http.Client
}

func (o Options) withDefaults(model, baseURL string) Options {
	if o.Model == "" {
		o.Model = model
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Validation == "" {
		o.Validation = ValidationAdvisory
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	return o
}

func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// New builds the Recommender named by provider.
func New(provider, apiKey string, opts Options) (Recommender, error) {
	switch strings.ToLower(provider) {
	case "", "gemini":
		return NewGeminiClient(apiKey, opts), nil
	case "claude", "anthropic":
		return NewClaudeClient(apiKey, opts), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want gemini or claude)", provider)
	}
}
