package tui

import (
	"github.com/charmbracelet/lipgloss"

	"commute-harmony/internal/render"
)

type styles struct {
	title    lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	button   lipgloss.Style
	disabled lipgloss.Style
	errorBox lipgloss.Style
	errorHdr lipgloss.Style
	card     lipgloss.Style
	rank     lipgloss.Style
	tagKR    lipgloss.Style
	tagINTL  lipgloss.Style
	songName lipgloss.Style
	link     lipgloss.Style
	summary  lipgloss.Style
	count    lipgloss.Style
}

func newStyles(s render.Skin) styles {
	accent := lipgloss.Color(s.Accent)
	muted := lipgloss.Color(s.Muted)
	text := lipgloss.Color(s.Text)
	danger := lipgloss.Color(s.Danger)

	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.Background)).Background(accent).Padding(0, 1),
		heading: lipgloss.NewStyle().Bold(true).Foreground(text),
		muted:   lipgloss.NewStyle().Foreground(muted),
		accent:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		button: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(s.Background)).
			Background(accent).
			Padding(0, 1),
		disabled: lipgloss.NewStyle().Foreground(muted).Background(lipgloss.Color(s.Surface)).Padding(0, 1),
		errorBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(danger).
			Foreground(danger).
			Padding(1, 2),
		errorHdr: lipgloss.NewStyle().Bold(true).Foreground(danger),
		card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		rank:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		tagKR:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.Background)).Background(accent).Padding(0, 1),
		tagINTL:  lipgloss.NewStyle().Bold(true).Foreground(text).Background(lipgloss.Color(s.Surface)).Padding(0, 1),
		songName: lipgloss.NewStyle().Bold(true).Foreground(text),
		link:     lipgloss.NewStyle().Underline(true).Foreground(accent),
		summary: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(accent).
			Padding(0, 2),
		count: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}
