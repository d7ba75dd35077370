package render

import (
	"fmt"
	"sort"
	"strings"
)

// Skin is a named palette. The web page turns it into CSS variables and the
// TUI into lipgloss styles; layout and behaviour are shared.
type Skin struct {
	Name       string
	Background string
	Surface    string
	Text       string
	Muted      string
	Accent     string
	AccentSoft string
	Danger     string
	DangerSoft string
}

var skins = map[string]Skin{
	"daylight": {
		Name:       "daylight",
		Background: "#FFFFFF",
		Surface:    "#F9FAFB",
		Text:       "#111827",
		Muted:      "#6B7280",
		Accent:     "#4F46E5",
		AccentSoft: "#EEF2FF",
		Danger:     "#DC2626",
		DangerSoft: "#FEF2F2",
	},
	"midnight": {
		Name:       "midnight",
		Background: "#0F172A",
		Surface:    "#1E293B",
		Text:       "#F1F5F9",
		Muted:      "#94A3B8",
		Accent:     "#A78BFA",
		AccentSoft: "#312E81",
		Danger:     "#F87171",
		DangerSoft: "#450A0A",
	},
}

const DefaultSkin = "daylight"

// LookupSkin finds a skin by name, case-insensitively.
func LookupSkin(name string) (Skin, error) {
	if name == "" {
		name = DefaultSkin
	}
	s, ok := skins[strings.ToLower(name)]
	if !ok {
		return Skin{}, fmt.Errorf("unknown skin %q (want one of: %s)", name, strings.Join(SkinNames(), ", "))
	}
	return s, nil
}

func SkinNames() []string {
	names := make([]string, 0, len(skins))
	for n := range skins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Next returns the skin after s in name order, wrapping around.
func (s Skin) Next() Skin {
	names := SkinNames()
	for i, n := range names {
		if n == s.Name {
			return skins[names[(i+1)%len(names)]]
		}
	}
	return skins[DefaultSkin]
}
