// Package tui is the terminal surface: a bubbletea program driving a
// session.Machine and drawing render.Page with lipgloss.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/render"
	"commute-harmony/internal/session"
)

const maxCardWidth = 72

// fetchDoneMsg carries a provider outcome back to Update together with the
// ticket it was issued under.
type fetchDoneMsg struct {
	ticket session.Ticket
	res    *ai.RecommendationResult
	err    error
}

type Model struct {
	ctx     context.Context
	machine *session.Machine
	input   textinput.Model
	spinner spinner.Model
	skin    render.Skin
	styles  styles
	width   int
}

func New(ctx context.Context, machine *session.Machine, skin render.Skin) Model {
	ti := textinput.New()
	ti.Placeholder = render.Placeholder
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 50
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		machine: machine,
		input:   ti,
		spinner: sp,
		width:   maxCardWidth + 4,
	}
	m.setSkin(skin)
	return m
}

// NewProgram runs m full-screen.
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
}

func (m *Model) setSkin(s render.Skin) {
	m.skin = s
	m.styles = newStyles(s)
	m.spinner.Style = m.styles.accent
}

// Init starts the first fetch on the default theme.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if t, ok := m.machine.Start(); ok {
		cmds = append(cmds, m.fetch(t))
	}
	return tea.Batch(cmds...)
}

func (m Model) fetch(t session.Ticket) tea.Cmd {
	ctx, machine := m.ctx, m.machine
	return func() tea.Msg {
		res, err := machine.Do(ctx, t)
		return fetchDoneMsg{ticket: t, res: res, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case fetchDoneMsg:
		m.machine.Resolve(msg.ticket, msg.res, msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setSkin(m.skin.Next())
			return m, nil
		case "enter":
			if m.machine.State().Status == session.StatusLoading {
				return m, nil
			}
			t, ok := m.machine.Submit(m.input.Value())
			if !ok {
				return m, nil
			}
			return m, m.fetch(t)
		case "ctrl+r":
			switch m.machine.State().Status {
			case session.StatusSuccess, session.StatusError:
				return m, m.fetch(m.machine.Refresh())
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.machine.SetThemeText(v)
	}
	return m, cmd
}

func (m Model) View() string {
	page := render.Build(m.machine.State(), m.skin)
	st := m.styles
	var b strings.Builder

	b.WriteString(st.title.Render("♪ "+render.AppTitle) + "  " + st.muted.Render(m.skin.Name) + "\n\n")
	b.WriteString(st.heading.Render(render.Heading) + "\n")
	b.WriteString(st.muted.Render(render.Tagline) + "\n\n")

	button := st.button.Render(page.SubmitLabel)
	if page.SubmitDisabled {
		button = st.disabled.Render(page.SubmitLabel)
	}
	b.WriteString(m.input.View() + "  " + button + "\n\n")

	switch {
	case page.Loading:
		b.WriteString(m.spinner.View() + " " + st.accent.Render(page.LoadingText) + "\n")
	case page.Error:
		box := st.errorHdr.Render(render.ErrorHeading) + "\n" + page.ErrorMessage + "\n\n" + st.muted.Render("ctrl+r "+render.RetryLabel)
		b.WriteString(st.errorBox.Width(m.cardWidth()).Render(box) + "\n")
	case page.Success:
		b.WriteString(m.viewResult(page))
	}

	b.WriteString("\n" + st.muted.Render(render.Footer) + "\n")
	b.WriteString(st.muted.Render("enter "+render.SubmitLabel+" · ctrl+r "+render.RefreshLabel+" · tab skin · esc quit") + "\n")
	return b.String()
}

func (m Model) viewResult(p render.Page) string {
	st := m.styles
	var b strings.Builder
	b.WriteString(st.accent.Render(render.SelectionLabel) + "\n")
	b.WriteString(st.heading.Render(p.ThemeTitle) + "   " + st.muted.Render("ctrl+r "+render.RefreshLabel) + "\n\n")

	width := m.cardWidth()
	for _, c := range p.Cards {
		tag := st.tagINTL.Render(c.Tag)
		if c.Domestic {
			tag = st.tagKR.Render(c.Tag)
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			st.rank.Render(fmt.Sprintf("%02d", c.Rank))+" "+tag+" "+st.muted.Render(c.Genre),
			st.songName.Render(c.Title)+" "+st.muted.Render("· "+c.Artist),
			c.Reason,
			st.link.Render(render.ListenLabel+": "+c.ListenURL),
		)
		b.WriteString(st.card.Width(width).Render(body) + "\n")
	}

	parts := make([]string, 0, len(p.Summary))
	for _, s := range p.Summary {
		parts = append(parts, st.count.Render(fmt.Sprint(s.Count))+" "+st.muted.Render(s.Label))
	}
	summary := st.heading.Render(render.SummaryHeading) + "\n" + strings.Join(parts, "  |  ") + "\n" + st.muted.Italic(true).Render(render.SummaryNote)
	b.WriteString("\n" + st.summary.Render(summary) + "\n")
	return b.String()
}

func (m Model) cardWidth() int {
	w := m.width - 4
	if w > maxCardWidth {
		w = maxCardWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}
