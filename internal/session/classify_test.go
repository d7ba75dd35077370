package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"commute-harmony/internal/ai"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"credential", &ai.Error{Kind: ai.KindCredentialMissing}, MessageCredentialMissing},
		{"not found", &ai.Error{Kind: ai.KindProviderFailure, Status: 404}, MessageModelUnavailable},
		{"forbidden", &ai.Error{Kind: ai.KindProviderFailure, Status: 403}, MessageUnauthorized},
		{"unauthorized", &ai.Error{Kind: ai.KindProviderFailure, Status: 401}, MessageUnauthorized},
		{"rate limited", &ai.Error{Kind: ai.KindProviderFailure, Status: 429}, MessageRateLimited},
		{"wrapped rate limited", fmt.Errorf("fetch: %w", &ai.Error{Kind: ai.KindProviderFailure, Status: 429}), MessageRateLimited},
		{"server error", &ai.Error{Kind: ai.KindProviderFailure, Status: 500}, MessageUnexpected},
		{"empty", &ai.Error{Kind: ai.KindEmptyResponse}, MessageEmptyResponse},
		{"malformed", &ai.Error{Kind: ai.KindMalformedResponse}, MessageMalformedResponse},
		{"foreign", errors.New("dial tcp: refused"), MessageUnexpected},
		{"canceled", context.Canceled, MessageUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitedFetchShowsRateLimitMessage(t *testing.T) {
	rec := &fakeRecommender{fn: func(string) (*ai.RecommendationResult, error) {
		return nil, &ai.Error{Kind: ai.KindProviderFailure, Provider: "fake", Status: 429, Message: "quota"}
	}}
	m := New(rec, "default")
	tk, _ := m.Start()
	m.Fetch(context.Background(), tk)
	if got := m.State().ErrorMessage; got != MessageRateLimited {
		t.Fatalf("message = %q", got)
	}
	if m.State().ErrorMessage == MessageUnexpected {
		t.Fatalf("fell back to generic message")
	}
}

func TestMessagesAreDistinct(t *testing.T) {
	msgs := [...]string{
		MessageCredentialMissing, MessageModelUnavailable, MessageUnauthorized, MessageRateLimited,
		MessageEmptyResponse, MessageMalformedResponse, MessageUnexpected,
	}
	seen := map[string]bool{}
	for _, m := range msgs {
		if m == "" || seen[m] {
			t.Fatalf("message %q is empty or shared by two error classes", m)
		}
		seen[m] = true
	}
}
