package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/logging"
	"commute-harmony/internal/metrics"
	"commute-harmony/internal/render"
	"commute-harmony/internal/session"
)

// visitor is one browser session. Nothing is persisted.
type visitor struct {
	machine  *session.Machine
	skin     render.Skin
	lastSeen time.Time
}

type store struct {
	mu           sync.Mutex
	visitors     map[string]*visitor
	fetcher      ai.Recommender
	defaultTheme string
	defaultSkin  render.Skin
	now          func() time.Time
}

func newStore(fetcher ai.Recommender, defaultTheme string, skin render.Skin) *store {
	return &store{
		visitors:     make(map[string]*visitor),
		fetcher:      fetcher,
		defaultTheme: defaultTheme,
		defaultSkin:  skin,
		now:          time.Now,
	}
}

// get returns the visitor for id, creating one under a fresh id when id is
// unknown.
func (s *store) get(id string) (string, *visitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.visitors[id]; ok && id != "" {
		v.lastSeen = s.now()
		return id, v
	}
	id = uuid.NewString()
	machine := session.New(s.fetcher, s.defaultTheme)
	machine.OnChange(transitionLogger(id))
	v := &visitor{
		machine:  machine,
		skin:     s.defaultSkin,
		lastSeen: s.now(),
	}
	s.visitors[id] = v
	metrics.ActiveSessions.Inc()
	return id, v
}

func (s *store) lookup(id string) (*visitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[id]
	return v, ok
}

func (s *store) setSkin(id string, skin render.Skin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.visitors[id]; ok {
		v.skin = skin
	}
}

func (s *store) skinOf(v *visitor) render.Skin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return v.skin
}

// transitionLogger logs status changes of one visitor at debug level.
// Text box edits do not change the status and are skipped.
func transitionLogger(id string) func(session.State) {
	var last session.Status
	var mu sync.Mutex
	return func(st session.State) {
		mu.Lock()
		changed := st.Status != last
		last = st.Status
		mu.Unlock()
		if !changed {
			return
		}
		logging.Debug().Str("session", id).Str("status", st.Status.String()).Str("theme", st.ActiveTheme).Msg("Session transition")
	}
}

// prune drops visitors idle for longer than maxIdle and reports how many
// were removed.
func (s *store) prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxIdle)
	n := 0
	for id, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, id)
			n++
		}
	}
	metrics.ActiveSessions.Sub(float64(n))
	return n
}

func (s *store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}
