package collect

import "strings"

// Keyword lexicon for headline sentiment. Scores are the net keyword
// balance squashed into [-1, 1].
var (
	positiveWords = []string{
		"상승", "호재", "급등", "성장", "최대", "신고가", "흑자", "개선",
		"돌파", "수주", "호실적", "배당 확대", "사상 최대",
	}
	negativeWords = []string{
		"하락", "악재", "급락", "감소", "적자", "부진", "신저가", "우려",
		"리스크", "소송", "하향", "감익", "구조조정",
	}
)

// ScoreSentiment rates one headline. Zero means neutral or no keywords.
func ScoreSentiment(text string) float64 {
	var pos, neg int
	for _, w := range positiveWords {
		pos += strings.Count(text, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(text, w)
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}
