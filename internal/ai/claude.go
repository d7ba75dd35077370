package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultClaudeBaseURL = "https://api.anthropic.com"

// ClaudeClient uses the Messages API. Claude has no response schema
// parameter, so the schema travels in the system prompt and the reply is
// parsed leniently.
type ClaudeClient struct {
	apiKey     string
	model      string
	validation ValidationMode
	timeout    time.Duration
	client     anthropic.Client
}

func NewClaudeClient(apiKey string, opts Options) *ClaudeClient {
	opts = opts.withDefaults(DefaultClaudeModel, defaultClaudeBaseURL)
	apiKey = strings.TrimSpace(apiKey)
	return &ClaudeClient{
		apiKey:     apiKey,
		model:      opts.Model,
		validation: opts.Validation,
		timeout:    opts.Timeout,
		client: anthropic.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(opts.BaseURL),
			option.WithHTTPClient(opts.HTTPClient),
			option.WithMaxRetries(0),
		),
	}
}

func (c *ClaudeClient) Name() string { return "claude" }

func (c *ClaudeClient) FetchRecommendations(ctx context.Context, theme string) (*RecommendationResult, error) {
	if c.apiKey == "" {
		return nil, &Error{Kind: KindCredentialMissing, Provider: c.Name(), Message: "ANTHROPIC_API_KEY is not configured"}
	}
	ctx, cancel := callContext(ctx, c.timeout)
	defer cancel()

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: "You are a music expert curating commute playlists. " + schemaInstruction()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(theme))),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, providerFailure(c.Name(), apiErr.StatusCode, apiErr.Error())
		}
		return nil, &Error{Kind: KindUnknown, Provider: c.Name(), Err: err}
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return finish(c.Name(), text.String(), c.validation)
}
