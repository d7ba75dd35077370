package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/render"
	"commute-harmony/internal/session"
)

func successPage() render.Page {
	songs := []ai.Song{
		{Title: "밤편지", Artist: "아이유", Genre: "Ballad", IsKorean: true, RecommendationReason: "잔잔하게"},
		{Title: "Yellow", Artist: "Coldplay", Genre: "Rock", RecommendationReason: "따뜻하게"},
	}
	st := session.State{Status: session.StatusSuccess, Result: &ai.RecommendationResult{DailyThemeTitle: "퇴근길", Songs: songs}}
	return render.Build(st, render.Skin{})
}

func TestPagePrintsCards(t *testing.T) {
	var stdout, stderr bytes.Buffer
	o := New(Options{NoColor: true, Stdout: &stdout, Stderr: &stderr})
	o.Page(successPage())

	out := stdout.String()
	for _, want := range []string{"퇴근길", "01 [KR] Ballad", "밤편지 - 아이유", "02 [INTL] Rock", "search_query=", "5 KOREAN / 2 INTL"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr: %s", stderr.String())
	}
}

func TestQuietPrintsOneLinePerSong(t *testing.T) {
	var stdout bytes.Buffer
	o := New(Options{NoColor: true, Quiet: true, Stdout: &stdout})
	o.Page(successPage())
	out := stdout.String()
	if !strings.Contains(out, "1. 밤편지 - 아이유\n2. Yellow - Coldplay\n") {
		t.Fatalf("quiet output:\n%s", out)
	}
	if strings.Contains(out, "search_query") {
		t.Fatalf("quiet output should omit links")
	}
}

func TestErrorPageGoesToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	o := New(Options{NoColor: true, Stdout: &stdout, Stderr: &stderr})
	o.Page(render.Build(session.State{Status: session.StatusError, ErrorMessage: "실패"}, render.Skin{}))
	if stdout.Len() != 0 || !strings.Contains(stderr.String(), "실패") {
		t.Fatalf("stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
}

func TestEmitJSON(t *testing.T) {
	var stdout bytes.Buffer
	o := New(Options{JSON: true, Stdout: &stdout})
	if err := o.EmitJSON(map[string]any{"status": "success"}); err != nil {
		t.Fatalf("EmitJSON: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil || got["status"] != "success" {
		t.Fatalf("decoded %v, err %v", got, err)
	}
	o.Page(successPage())
	if strings.Contains(stdout.String(), "퇴근길") {
		t.Fatalf("JSON mode should not print cards")
	}
}
