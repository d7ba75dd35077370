package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func claudeReply(text string) string {
	buf, _ := json.Marshal(map[string]any{
		"id":            "msg_01",
		"type":          "message",
		"role":          "assistant",
		"model":         DefaultClaudeModel,
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"content":       []any{map[string]any{"type": "text", "text": text}},
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
	})
	return string(buf)
}

func TestClaude_SuccessWithFencedJSON(t *testing.T) {
	var seenBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "CK" {
			t.Errorf("x-api-key: %q", got)
		}
		b, _ := io.ReadAll(r.Body)
		seenBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(claudeReply("```json\n" + sevenSongs() + "\n```")))
	}))
	defer srv.Close()

	c := NewClaudeClient("CK", Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	res, err := c.FetchRecommendations(context.Background(), "몽환적인 팝")
	if err != nil {
		t.Fatalf("FetchRecommendations: %v", err)
	}
	if len(res.Songs) != 7 || res.DailyThemeTitle == "" {
		t.Fatalf("unexpected result: %#v", res)
	}
	if !strings.Contains(seenBody, "몽환적인 팝") || !strings.Contains(seenBody, "dailyThemeTitle") {
		t.Fatalf("prompt or schema missing from request: %s", seenBody)
	}
}

func TestClaude_RateLimitedIsSingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewClaudeClient("CK", Options{BaseURL: srv.URL, HTTPClient: srv.Client()})
	_, err := c.FetchRecommendations(context.Background(), "x")
	if status, ok := StatusOf(err); !ok || status != http.StatusTooManyRequests {
		t.Fatalf("expected 429 provider failure, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestClaude_CredentialMissing(t *testing.T) {
	c := NewClaudeClient("", Options{BaseURL: "http://127.0.0.1:1"})
	_, err := c.FetchRecommendations(context.Background(), "x")
	if KindOf(err) != KindCredentialMissing {
		t.Fatalf("expected credential missing, got %v", err)
	}
}

func TestNew(t *testing.T) {
	for provider, want := range map[string]string{"": "gemini", "Gemini": "gemini", "claude": "claude", "anthropic": "claude"} {
		r, err := New(provider, "k", Options{})
		if err != nil {
			t.Fatalf("New(%q): %v", provider, err)
		}
		if r.Name() != want {
			t.Fatalf("New(%q).Name() = %q, want %q", provider, r.Name(), want)
		}
	}
	if _, err := New("grok", "k", Options{}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestClaude_TimeoutAppliesToSuppliedClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClaudeClient("CK", Options{BaseURL: srv.URL, HTTPClient: srv.Client(), Timeout: 50 * time.Millisecond})
	start := time.Now()
	if _, err := c.FetchRecommendations(context.Background(), "x"); err == nil {
		t.Fatal("expected an error after the timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("call took %v, timeout was not applied", elapsed)
	}
}
