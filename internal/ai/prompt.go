package ai

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Schema is the subset of the OpenAPI schema object understood by the
// structured-output endpoints.
type Schema struct {
	Type             string             `json:"type"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Required         []string           `json:"required,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
}

var songFields = []string{"title", "artist", "genre", "isKorean", "recommendationReason"}

// ResponseSchema describes RecommendationResult: songs and dailyThemeTitle are
// required at the top level, all five song fields are required per item.
func ResponseSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"songs": {
				Type: "ARRAY",
				Items: &Schema{
					Type: "OBJECT",
					Properties: map[string]*Schema{
						"title":                {Type: "STRING"},
						"artist":               {Type: "STRING"},
						"genre":                {Type: "STRING"},
						"isKorean":             {Type: "BOOLEAN"},
						"recommendationReason": {Type: "STRING"},
					},
					Required:         songFields,
					PropertyOrdering: songFields,
				},
			},
			"dailyThemeTitle": {Type: "STRING"},
		},
		Required:         []string{"songs", "dailyThemeTitle"},
		PropertyOrdering: []string{"songs", "dailyThemeTitle"},
	}
}

// BuildPrompt embeds theme verbatim and states the composition constraints.
func BuildPrompt(theme string) string {
	return fmt.Sprintf(`당신은 전문 음악 큐레이터입니다. 다음 테마에 어울리는 출퇴근길 음악 %d곡을 추천해주세요: "%s".

제한 사항 (매우 중요):
1. 정확히 %d곡의 목록을 만드세요.
2. 한국 노래 %d곡 (isKorean: true), 해외 노래 %d곡 (isKorean: false)의 비율을 반드시 지키세요.
3. "recommendationReason"은 한국어로, 대중교통 이용객에게 힘이 되는 따뜻한 문장으로 작성하세요.
4. "dailyThemeTitle"에는 오늘의 추천 목록을 한 줄로 표현하는 제목을 넣으세요.
5. 반드시 지정된 JSON 스키마 형식으로만 응답하세요.`,
		SongCount, theme, SongCount, KoreanSongCount, ForeignSongCount)
}

// schemaInstruction renders the schema for providers without a native
// structured-output parameter.
func schemaInstruction() string {
	buf, _ := json.MarshalIndent(ResponseSchema(), "", "  ")
	return "Return ONLY a JSON object matching this schema, no markdown and no explanation:\n" + string(buf)
}
