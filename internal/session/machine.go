// Package session implements the fetch and display cycle shared by every
// surface: Idle -> Loading -> Success | Error, with a sequence guard so that
// only the most recently issued fetch can decide what is shown.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/logging"
	"commute-harmony/internal/metrics"
)

var errNoResult = errors.New("provider returned no result")

// Machine owns one SessionState. It is safe for concurrent use; the state is
// only ever replaced wholesale.
type Machine struct {
	mu           sync.Mutex
	fetcher      ai.Recommender
	defaultTheme string
	state        State
	seq          uint64
	observers    []func(State)
}

// New returns an Idle machine. fetcher is owned by the caller and may be
// shared between machines.
func New(fetcher ai.Recommender, defaultTheme string) *Machine {
	return &Machine{
		fetcher:      fetcher,
		defaultTheme: defaultTheme,
		state:        State{ActiveTheme: defaultTheme, Status: StatusIdle},
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// OnChange registers fn to be called with every new state, outside the lock.
func (m *Machine) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// SetThemeText records the text box contents without triggering anything.
func (m *Machine) SetThemeText(text string) {
	m.mu.Lock()
	m.state.SubmittedThemeText = text
	snapshot, obs := m.state, m.observers
	m.mu.Unlock()
	notify(obs, snapshot)
}

// Start moves an Idle session to Loading on the default theme. It reports
// false if the session already started.
func (m *Machine) Start() (Ticket, bool) {
	m.mu.Lock()
	if m.state.Status != StatusIdle {
		m.mu.Unlock()
		return Ticket{}, false
	}
	t := m.beginLocked(m.defaultTheme)
	snapshot, obs := m.state, m.observers
	m.mu.Unlock()
	notify(obs, snapshot)
	return t, true
}

// Submit starts a fetch for text. Whitespace-only text is rejected and
// leaves the session, including the text box, untouched.
func (m *Machine) Submit(text string) (Ticket, bool) {
	if strings.TrimSpace(text) == "" {
		return Ticket{}, false
	}
	m.mu.Lock()
	m.state.SubmittedThemeText = text
	t := m.beginLocked(text)
	snapshot, obs := m.state, m.observers
	m.mu.Unlock()
	notify(obs, snapshot)
	return t, true
}

// Refresh re-runs the active theme.
func (m *Machine) Refresh() Ticket {
	m.mu.Lock()
	t := m.beginLocked(m.state.ActiveTheme)
	snapshot, obs := m.state, m.observers
	m.mu.Unlock()
	notify(obs, snapshot)
	return t
}

func (m *Machine) beginLocked(theme string) Ticket {
	m.seq++
	m.state = State{
		SubmittedThemeText: m.state.SubmittedThemeText,
		ActiveTheme:        theme,
		Status:             StatusLoading,
	}
	return Ticket{Seq: m.seq, Theme: theme}
}

// Resolve applies the outcome of the fetch identified by t. Outcomes of
// superseded tickets are discarded and Resolve reports false.
func (m *Machine) Resolve(t Ticket, res *ai.RecommendationResult, err error) bool {
	if err == nil && res == nil {
		err = errNoResult
	}

	m.mu.Lock()
	if t.Seq != m.seq || m.state.Status != StatusLoading {
		latest := m.seq
		m.mu.Unlock()
		metrics.StaleResolutions.Inc()
		logging.Debug().Uint64("seq", t.Seq).Uint64("latest", latest).Str("theme", t.Theme).Msg("Discarding stale fetch resolution")
		return false
	}
	next := State{
		SubmittedThemeText: m.state.SubmittedThemeText,
		ActiveTheme:        m.state.ActiveTheme,
	}
	if err != nil {
		next.Status = StatusError
		next.ErrorMessage = Classify(err)
	} else {
		next.Status = StatusSuccess
		next.Result = res
	}
	m.state = next
	obs := m.observers
	m.mu.Unlock()

	notify(obs, next)
	return true
}

// Fetch runs the provider call for t and resolves it. It blocks for the
// duration of the call and reports whether the outcome was applied.
func (m *Machine) Fetch(ctx context.Context, t Ticket) bool {
	res, err := m.Do(ctx, t)
	return m.Resolve(t, res, err)
}

// Do performs the provider call for t without touching state. Surfaces that
// deliver results asynchronously (the TUI) call Do and later Resolve.
func (m *Machine) Do(ctx context.Context, t Ticket) (*ai.RecommendationResult, error) {
	provider := m.fetcher.Name()
	fetchID := uuid.NewString()
	start := time.Now()

	logging.Debug().Str("fetch_id", fetchID).Str("provider", provider).Uint64("seq", t.Seq).Str("theme", t.Theme).Msg("Fetching recommendations")
	res, err := m.fetcher.FetchRecommendations(ctx, t.Theme)
	if err == nil && res == nil {
		err = errNoResult
	}
	elapsed := time.Since(start)
	metrics.FetchDuration.WithLabelValues(provider).Observe(elapsed.Seconds())

	if err != nil {
		kind := ai.KindOf(err)
		ev := logging.Error().Err(err).Str("fetch_id", fetchID).Str("provider", provider).Str("kind", kind.String()).Uint64("seq", t.Seq)
		if status, ok := ai.StatusOf(err); ok {
			ev = ev.Int("status", status)
		}
		ev.Dur("elapsed", elapsed).Msg("Recommendation fetch failed")
		metrics.FetchTotal.WithLabelValues(provider, kind.String()).Inc()
		return nil, err
	}
	logging.Info().Str("fetch_id", fetchID).Str("provider", provider).Int("songs", len(res.Songs)).Dur("elapsed", elapsed).Msg("Recommendations received")
	metrics.FetchTotal.WithLabelValues(provider, "success").Inc()
	return res, nil
}

func notify(observers []func(State), s State) {
	for _, fn := range observers {
		fn(s)
	}
}
