package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/render"
	"commute-harmony/internal/session"
)

type fakeRecommender struct {
	mu     sync.Mutex
	themes []string
	res    *ai.RecommendationResult
	err    error
}

func (f *fakeRecommender) Name() string { return "fake" }

func (f *fakeRecommender) FetchRecommendations(_ context.Context, theme string) (*ai.RecommendationResult, error) {
	f.mu.Lock()
	f.themes = append(f.themes, theme)
	f.mu.Unlock()
	return f.res, f.err
}

func result() *ai.RecommendationResult {
	songs := make([]ai.Song, 0, 7)
	for i := 0; i < 7; i++ {
		songs = append(songs, ai.Song{
			Title:                "곡" + string(rune('A'+i)),
			Artist:               "가수",
			Genre:                "K-Pop",
			IsKorean:             i < 5,
			RecommendationReason: "좋아요",
		})
	}
	return &ai.RecommendationResult{DailyThemeTitle: "상쾌한 아침", Songs: songs}
}

func newModel(t *testing.T, f *fakeRecommender) (Model, *session.Machine) {
	t.Helper()
	skin, err := render.LookupSkin("daylight")
	if err != nil {
		t.Fatalf("skin: %v", err)
	}
	machine := session.New(f, "기본 테마")
	return New(context.Background(), machine, skin), machine
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestInitStartsDefaultFetch(t *testing.T) {
	m, machine := newModel(t, &fakeRecommender{res: result()})
	if cmd := m.Init(); cmd == nil {
		t.Fatalf("expected init command")
	}
	st := machine.State()
	if st.Status != session.StatusLoading || st.ActiveTheme != "기본 테마" {
		t.Fatalf("state after init: %+v", st)
	}
	if !strings.Contains(m.View(), render.LoadingText) {
		t.Fatalf("loading view missing progress text")
	}
}

func TestFetchDoneRendersCards(t *testing.T) {
	f := &fakeRecommender{res: result()}
	m, machine := newModel(t, f)
	m.Init()

	msg := m.fetch(session.Ticket{Seq: 1, Theme: "기본 테마"})()
	m, _ = update(t, m, msg)

	if machine.State().Status != session.StatusSuccess {
		t.Fatalf("status = %v", machine.State().Status)
	}
	view := m.View()
	for _, want := range []string{"상쾌한 아침", "곡A", "곡G", render.SummaryHeading, render.ListenLabel} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	if len(f.themes) != 1 || f.themes[0] != "기본 테마" {
		t.Fatalf("themes fetched: %v", f.themes)
	}
}

func TestEnterIgnoredWhileLoading(t *testing.T) {
	m, machine := newModel(t, &fakeRecommender{res: result()})
	m.Init()
	m.input.SetValue("비 오는 날")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("enter while loading should not issue a fetch")
	}
	if machine.State().ActiveTheme != "기본 테마" {
		t.Fatalf("theme changed while loading: %+v", machine.State())
	}
}

func TestEnterSubmitsTheme(t *testing.T) {
	f := &fakeRecommender{res: result()}
	m, machine := newModel(t, f)
	m.Init()
	m, _ = update(t, m, m.fetch(session.Ticket{Seq: 1, Theme: "기본 테마"})())

	m.input.SetValue("비 오는 날")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected fetch command")
	}
	st := machine.State()
	if st.Status != session.StatusLoading || st.ActiveTheme != "비 오는 날" {
		t.Fatalf("state after submit: %+v", st)
	}
	m, _ = update(t, m, cmd())
	if machine.State().Status != session.StatusSuccess {
		t.Fatalf("status = %v", machine.State().Status)
	}
	if f.themes[len(f.themes)-1] != "비 오는 날" {
		t.Fatalf("themes fetched: %v", f.themes)
	}
}

func TestWhitespaceEnterIsNoop(t *testing.T) {
	m, machine := newModel(t, &fakeRecommender{res: result()})
	m.Init()
	m, _ = update(t, m, m.fetch(session.Ticket{Seq: 1, Theme: "기본 테마"})())
	before := machine.State()

	m.input.SetValue("   ")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("whitespace submit should not fetch")
	}
	after := machine.State()
	if after.Status != before.Status || after.ActiveTheme != before.ActiveTheme || after.SubmittedThemeText != before.SubmittedThemeText {
		t.Fatalf("state changed: %+v -> %+v", before, after)
	}
}

func TestErrorViewAndRetry(t *testing.T) {
	f := &fakeRecommender{err: &ai.Error{Kind: ai.KindEmptyResponse, Provider: "fake"}}
	m, machine := newModel(t, f)
	m.Init()
	m, _ = update(t, m, m.fetch(session.Ticket{Seq: 1, Theme: "기본 테마"})())

	if machine.State().Status != session.StatusError {
		t.Fatalf("status = %v", machine.State().Status)
	}
	view := m.View()
	if !strings.Contains(view, render.ErrorHeading) || !strings.Contains(view, session.MessageEmptyResponse) {
		t.Fatalf("error view: %s", view)
	}

	f.err, f.res = nil, result()
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatalf("retry should fetch")
	}
	update(t, m, cmd())
	if machine.State().Status != session.StatusSuccess || machine.State().ActiveTheme != "기본 테마" {
		t.Fatalf("retry state: %+v", machine.State())
	}
}

func TestStaleFetchIgnored(t *testing.T) {
	m, machine := newModel(t, &fakeRecommender{res: result()})
	m.Init()
	m, _ = update(t, m, fetchDoneMsg{ticket: session.Ticket{Seq: 99}, res: result()})
	if machine.State().Status != session.StatusLoading {
		t.Fatalf("stale resolution applied: %+v", machine.State())
	}
}

func TestTabCyclesSkinAndQuitKeys(t *testing.T) {
	m, _ := newModel(t, &fakeRecommender{res: result()})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.skin.Name != "midnight" {
		t.Fatalf("skin = %q", m.skin.Name)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.skin.Name != "daylight" {
		t.Fatalf("skin = %q", m.skin.Name)
	}

	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := update(t, m, tea.KeyMsg{Type: k})
		if cmd == nil {
			t.Fatalf("expected quit command for %v", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg for %v", k)
		}
	}
}

func TestTypingSyncsThemeText(t *testing.T) {
	m, machine := newModel(t, &fakeRecommender{res: result()})
	m.Init()

	for _, r := range "비 오는 날" {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if got := m.input.Value(); got != "비 오는 날" {
		t.Fatalf("input = %q", got)
	}
	if got := machine.State().SubmittedThemeText; got != "비 오는 날" {
		t.Fatalf("SubmittedThemeText = %q, want the text box value", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := machine.State().SubmittedThemeText; got != "비 오는 " {
		t.Fatalf("after backspace SubmittedThemeText = %q", got)
	}
	if machine.State().Status != session.StatusLoading {
		t.Fatalf("typing must not change status: %v", machine.State().Status)
	}
}
