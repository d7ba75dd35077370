package session

import "commute-harmony/internal/ai"

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// State is one immutable snapshot of a session. Result is non-nil iff
// Status is StatusSuccess; ErrorMessage is non-empty iff Status is StatusError.
type State struct {
	SubmittedThemeText string                   `json:"submittedThemeText"`
	ActiveTheme        string                   `json:"activeTheme"`
	Result             *ai.RecommendationResult `json:"result,omitempty"`
	Status             Status                   `json:"status"`
	ErrorMessage       string                   `json:"errorMessage,omitempty"`
}

// Ticket identifies one issued fetch. Only the ticket with the highest Seq
// may resolve a session.
type Ticket struct {
	Seq   uint64
	Theme string
}
