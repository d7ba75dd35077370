package web

import (
	"bytes"
	"strings"
	"testing"

	"commute-harmony/internal/logging"
	"commute-harmony/internal/session"
)

func TestTransitionLoggerSkipsTextEdits(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{Level: "info", Format: "console"}) })

	log := transitionLogger("abc")
	log(session.State{Status: session.StatusLoading, ActiveTheme: "출근길"})
	log(session.State{Status: session.StatusLoading, ActiveTheme: "출근길", SubmittedThemeText: "비"})
	log(session.State{Status: session.StatusSuccess, ActiveTheme: "출근길"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"session":"abc"`) || !strings.Contains(lines[0], `"status":"loading"`) {
		t.Fatalf("first line = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"status":"success"`) {
		t.Fatalf("second line = %s", lines[1])
	}
}
