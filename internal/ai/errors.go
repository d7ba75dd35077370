package ai

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindCredentialMissing
	KindProviderFailure
	KindEmptyResponse
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindCredentialMissing:
		return "credential_missing"
	case KindProviderFailure:
		return "provider_failure"
	case KindEmptyResponse:
		return "empty_response"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is returned by every Recommender. Status is the provider HTTP status
// and is only set for KindProviderFailure.
type Error struct {
	Kind     Kind
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Kind == KindProviderFailure {
		return fmt.Sprintf("%s api error: %d - %s", e.Provider, e.Status, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind sentinels such as ErrEmptyResponse.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Provider == "" && t.Status == 0 && t.Kind == e.Kind
}

var (
	ErrCredentialMissing = &Error{Kind: KindCredentialMissing}
	ErrEmptyResponse     = &Error{Kind: KindEmptyResponse}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
)

// KindOf reports the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the provider HTTP status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindProviderFailure && e.Status != 0 {
		return e.Status, true
	}
	return 0, false
}

func providerFailure(provider string, status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Kind: KindProviderFailure, Provider: provider, Status: status, Message: message}
}
