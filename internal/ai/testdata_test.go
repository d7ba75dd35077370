package ai

import (
	"fmt"
	"strings"
)

// sevenSongs builds a conforming reply payload.
func sevenSongs() string {
	var b strings.Builder
	b.WriteString(`{"dailyThemeTitle":"햇살 가득한 출근길","songs":[`)
	for i := 0; i < SongCount; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"title":"Song %d","artist":"Artist %d","genre":"K-Pop","isKorean":%t,"recommendationReason":"이유 %d"}`,
			i+1, i+1, i < KoreanSongCount, i+1)
	}
	b.WriteString(`]}`)
	return b.String()
}
