package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient talks to the Generative Language generateContent endpoint
// using native structured output.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	validation ValidationMode
	timeout    time.Duration
	http       *http.Client
}

// NewGeminiClient returns a client bound to apiKey. An empty key is accepted
// here and reported as KindCredentialMissing on every fetch.
func NewGeminiClient(apiKey string, opts Options) *GeminiClient {
	opts = opts.withDefaults(DefaultGeminiModel, defaultGeminiBaseURL)
	return &GeminiClient{
		apiKey:     strings.TrimSpace(apiKey),
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		validation: opts.Validation,
		timeout:    opts.Timeout,
		http:       opts.HTTPClient,
	}
}

func (c *GeminiClient) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string  `json:"responseMimeType"`
		ResponseSchema   *Schema `json:"responseSchema"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *GeminiClient) FetchRecommendations(ctx context.Context, theme string) (*RecommendationResult, error) {
	if c.apiKey == "" {
		return nil, &Error{Kind: KindCredentialMissing, Provider: c.Name(), Message: "API_KEY is not configured"}
	}
	ctx, cancel := callContext(ctx, c.timeout)
	defer cancel()

	var payload geminiRequest
	payload.Contents = []geminiContent{{Parts: []geminiPart{{Text: BuildPrompt(theme)}}}}
	payload.GenerationConfig.ResponseMimeType = "application/json"
	payload.GenerationConfig.ResponseSchema = ResponseSchema()
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Provider: c.Name(), Err: redactKey(err, c.apiKey)}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Provider: c.Name(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb geminiErrorBody
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &eb) == nil && eb.Error.Message != "" {
			msg = eb.Error.Status + ": " + eb.Error.Message
		}
		return nil, providerFailure(c.Name(), resp.StatusCode, msg)
	}

	var data geminiResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Provider: c.Name(), Message: "unreadable generateContent envelope", Err: err}
	}
	var text strings.Builder
	if len(data.Candidates) > 0 {
		for _, p := range data.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}
	return finish(c.Name(), text.String(), c.validation)
}

// redactKey strips the api key from transport errors, which echo the request URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED")
	msg = strings.ReplaceAll(msg, key, "REDACTED")
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}
