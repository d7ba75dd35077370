// Package web serves the recommendation page over HTTP. Each browser gets
// its own session.Machine keyed by a cookie; fetches run in the background
// and the page polls while loading.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/logging"
	"commute-harmony/internal/render"
	"commute-harmony/internal/session"
)

const (
	cookieName      = "harmony_session"
	pollSeconds     = 2
	sessionMaxIdle  = 6 * time.Hour
	pruneInterval   = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("page.html").
	Funcs(template.FuncMap{"skinLabel": skinLabel}).
	ParseFS(templateFS, "templates/page.html"))

type Options struct {
	Fetcher      ai.Recommender
	DefaultTheme string
	Skin         render.Skin
	// RateLimit is the number of POSTs allowed per client IP per minute.
	RateLimit int
	// PageRateLimit bounds GET / per client IP per minute. A first visit
	// starts a fetch, so the page is limited too, more loosely than posts.
	// Zero means four times RateLimit, at least 60.
	PageRateLimit int
}

type Server struct {
	store     *store
	rateLimit int
	pageLimit int
	router    chi.Router

	// fetches outlive the request that issued them.
	baseCtx  context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

func New(opts Options) *Server {
	if opts.RateLimit < 1 {
		opts.RateLimit = 30
	}
	if opts.PageRateLimit < 1 {
		opts.PageRateLimit = max(4*opts.RateLimit, 60)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		store:     newStore(opts.Fetcher, opts.DefaultTheme, opts.Skin),
		rateLimit: opts.RateLimit,
		pageLimit: opts.PageRateLimit,
		baseCtx:   ctx,
		cancel:    cancel,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)

	r.With(rateLimitByIP(s.pageLimit)).Get("/", s.handleIndex)
	r.Get("/api/state", s.handleState)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(rateLimitByIP(s.rateLimit))
		r.Post("/recommend", s.handleRecommend)
		r.Post("/refresh", s.handleRefresh)
	})
	return r
}

// visitor resolves the caller's session, issuing a cookie for new ones.
func (s *Server) visitor(w http.ResponseWriter, r *http.Request) (string, *visitor) {
	var id string
	if c, err := r.Cookie(cookieName); err == nil {
		id = c.Value
	}
	newID, v := s.store.get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return newID, v
}

func (s *Server) fetchAsync(m *session.Machine, t session.Ticket) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		m.Fetch(s.baseCtx, t)
	}()
}

type pageData struct {
	render.Page
	Title          string
	Heading        string
	Tagline        string
	Placeholder    string
	ErrorHeading   string
	RetryLabel     string
	RefreshLabel   string
	SelectionLabel string
	SummaryHeading string
	SummaryNote    string
	ListenLabel    string
	Footer         string
	PollSeconds    int
	Skins          []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, v := s.visitor(w, r)
	if name := r.URL.Query().Get("skin"); name != "" {
		if skin, err := render.LookupSkin(name); err == nil {
			s.store.setSkin(id, skin)
		}
	}
	if t, ok := v.machine.Start(); ok {
		s.fetchAsync(v.machine, t)
	}

	data := pageData{
		Page:           render.Build(v.machine.State(), s.store.skinOf(v)),
		Title:          render.AppTitle,
		Heading:        render.Heading,
		Tagline:        render.Tagline,
		Placeholder:    render.Placeholder,
		ErrorHeading:   render.ErrorHeading,
		RetryLabel:     render.RetryLabel,
		RefreshLabel:   render.RefreshLabel,
		SelectionLabel: render.SelectionLabel,
		SummaryHeading: render.SummaryHeading,
		SummaryNote:    render.SummaryNote,
		ListenLabel:    render.ListenLabel,
		Footer:         render.Footer,
		PollSeconds:    pollSeconds,
		Skins:          render.SkinNames(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTmpl.Execute(w, data); err != nil {
		logging.Error().Err(err).Msg("Failed to render page")
	}
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	_, v := s.visitor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	theme := r.PostFormValue("theme")
	// Submitting is disabled while a fetch is outstanding.
	if v.machine.State().Status != session.StatusLoading {
		if t, ok := v.machine.Submit(theme); ok {
			s.fetchAsync(v.machine, t)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	_, v := s.visitor(w, r)
	s.fetchAsync(v.machine, v.machine.Refresh())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	_, v := s.visitor(w, r)
	writeJSON(w, http.StatusOK, v.machine.State())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.len()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Wait blocks until every background fetch has resolved.
func (s *Server) Wait() { s.inflight.Wait() }

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// and waits for outstanding fetches.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info().Str("addr", addr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := s.store.prune(sessionMaxIdle); n > 0 {
					logging.Debug().Int("removed", n).Msg("Pruned idle sessions")
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logging.Info().Msg("Shutting down")
		err := srv.Shutdown(shutdownCtx)
		s.cancel()
		s.Wait()
		return err
	})
	return g.Wait()
}

func skinLabel(name string) string {
	return strings.ToUpper(name[:1]) + name[1:]
}
