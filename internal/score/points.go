package score

import (
	"unicode/utf8"

	"github.com/ppiankov/jimaku/internal/model"
)

// JLPTPoints returns the per-occurrence weight of a JLPT level
func JLPTPoints(level model.JLPTLevel) int {
	switch level {
	case model.JLPTN5:
		return 5
	case model.JLPTN4:
		return 10
	case model.JLPTN3:
		return 15
	case model.JLPTN2:
		return 20
	case model.JLPTN1:
		return 30
	default:
		return 0
	}
}

// RankPoints returns the per-occurrence weight of a BCCWJ frequency rank.
// Ranks 1-1000 score 5; each further step adds 5 and is 1000 ranks wider
// than the previous one (1001-2000, 2001-4000, 4001-7000, ...).
func RankPoints(rank int) int {
	points := 5
	currentMax := 1000
	increment := 1000

	for rank > currentMax {
		points += 5
		currentMax += increment
		increment += 1000
	}

	return points
}

// isSingleKanji reports a one-rune lemma in the CJK unified block 一..龠
func isSingleKanji(word string) bool {
	if utf8.RuneCountInString(word) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(word)
	return r >= 0x4E00 && r <= 0x9FA0
}
