package ai

import "context"

// Song is a single recommended track as returned by the provider.
type Song struct {
	Title                string `json:"title" validate:"required"`
	Artist               string `json:"artist" validate:"required"`
	Genre                string `json:"genre" validate:"required"`
	IsKorean             bool   `json:"isKorean"`
	RecommendationReason string `json:"recommendationReason" validate:"required"`
}

// RecommendationResult is the parsed provider reply for one fetch.
type RecommendationResult struct {
	Songs           []Song `json:"songs" validate:"required,dive"`
	DailyThemeTitle string `json:"dailyThemeTitle" validate:"required"`
}

// Recommender fetches a recommendation list for a theme. Implementations make
// exactly one provider call per invocation and never retry.
type Recommender interface {
	FetchRecommendations(ctx context.Context, theme string) (*RecommendationResult, error)
	Name() string
}

const (
	SongCount          = 7
	KoreanSongCount    = 5
	ForeignSongCount   = SongCount - KoreanSongCount
	DefaultGeminiModel = "gemini-3-flash-preview"
	DefaultClaudeModel = "claude-sonnet-4-5"
)
