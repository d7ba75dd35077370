// Package render turns a session.State into a Page: the complete,
// surface-independent description of what the user sees. Build is pure.
package render

import (
	"net/url"
	"strings"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/session"
)

const youtubeSearchURL = "https://www.youtube.com/results?search_query="

const (
	AppTitle        = "Commute Harmony"
	Heading         = "오늘의 출퇴근 메이트"
	Tagline         = "지하철, 버스에서 듣기 좋은 음악을 매일 7개씩 추천해 드립니다."
	Placeholder     = "음악 테마나 장르를 입력하세요 (예: 비 오는 날, 몽환적인 팝)"
	SubmitLabel     = "추천받기"
	SubmittingLabel = "추천 중..."
	LoadingText     = "테마에 맞는 최고의 노래들을 찾고 있어요..."
	ErrorHeading    = "앗! 문제가 생겼어요."
	RetryLabel      = "다시 시도하기"
	RefreshLabel    = "재추천"
	SelectionLabel  = "TODAY'S SELECTION"
	SummaryHeading  = "추천 곡 구성"
	SummaryNote     = "70:30 황금비율로 큐레이팅 되었습니다."
	ListenLabel     = "유튜브에서 듣기"
	Footer          = "© 2024 Commute Harmony. All music metadata curated by AI."
)

type Card struct {
	Rank      int
	Tag       string
	Domestic  bool
	Genre     string
	Title     string
	Artist    string
	Reason    string
	ListenURL string
}

// SummaryItem is one fixed label of the composition summary. The counts are
// the requested split, not derived from the cards.
type SummaryItem struct {
	Count int
	Label string
}

type Page struct {
	Skin Skin

	ThemeText      string
	SubmitDisabled bool
	SubmitLabel    string

	Loading     bool
	LoadingText string

	Error        bool
	ErrorMessage string

	Success    bool
	ThemeTitle string
	Cards      []Card
	Summary    []SummaryItem
}

// Build derives the page for s using skin. It has no side effects.
func Build(s session.State, skin Skin) Page {
	p := Page{
		Skin:        skin,
		ThemeText:   s.SubmittedThemeText,
		SubmitLabel: SubmitLabel,
	}
	switch s.Status {
	case session.StatusIdle, session.StatusLoading:
		p.Loading = true
		p.LoadingText = LoadingText
		if s.Status == session.StatusLoading {
			p.SubmitDisabled = true
			p.SubmitLabel = SubmittingLabel
		}
	case session.StatusError:
		p.Error = true
		p.ErrorMessage = s.ErrorMessage
	case session.StatusSuccess:
		if s.Result == nil {
			break
		}
		p.Success = true
		p.ThemeTitle = s.Result.DailyThemeTitle
		p.Cards = Cards(s.Result.Songs)
		p.Summary = []SummaryItem{
			{Count: ai.KoreanSongCount, Label: "KOREAN"},
			{Count: ai.ForeignSongCount, Label: "INTL"},
		}
	}
	return p
}

// Cards ranks songs 1..n in input order.
func Cards(songs []ai.Song) []Card {
	cards := make([]Card, 0, len(songs))
	for i, s := range songs {
		tag := "INTL"
		if s.IsKorean {
			tag = "KR"
		}
		cards = append(cards, Card{
			Rank:      i + 1,
			Tag:       tag,
			Domestic:  s.IsKorean,
			Genre:     s.Genre,
			Title:     s.Title,
			Artist:    s.Artist,
			Reason:    s.RecommendationReason,
			ListenURL: ListenURL(s),
		})
	}
	return cards
}

// ListenURL links to a YouTube search for "artist title".
func ListenURL(s ai.Song) string {
	q := url.QueryEscape(s.Artist + " " + s.Title)
	return youtubeSearchURL + strings.ReplaceAll(q, "+", "%20")
}
