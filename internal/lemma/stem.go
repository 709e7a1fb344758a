package lemma

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FromMasuStem rebuilds a dictionary form from a masu-stem (食べ -> 食べる,
// 書き -> 書く). It reports false when the final kana has no mapping.
func FromMasuStem(stem string) (Lemma, bool) {
	if stem == "" {
		return "", false
	}
	last, size := utf8.DecodeLastRuneInString(stem)
	head := stem[:len(stem)-size]
	if eRow.has(last) {
		return Lemma(stem + "る"), true
	}
	if u, ok := iRowToU[last]; ok {
		return Lemma(head + string(u)), true
	}
	return "", false
}

// ichidan restores a stem with る. Kana stems of する and 来る get no
// special treatment (しない -> しる, こない -> こる).
func ichidan(stem string) string {
	return stem + "る"
}

// shiftLast replaces the final rune of stem using table. It reports false
// when stem is empty or its final rune is not in the table.
func shiftLast(stem string, table map[rune]rune) (string, bool) {
	if stem == "" {
		return "", false
	}
	last, size := utf8.DecodeLastRuneInString(stem)
	u, ok := table[last]
	if !ok {
		return "", false
	}
	return stem[:len(stem)-size] + string(u), true
}

// isKanji matches the CJK unified ideograph block used by the suru split.
func isKanji(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FA0
}

// isKatakana matches ァ through ン.
func isKatakana(r rune) bool {
	return r >= 0x30A1 && r <= 0x30F3
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
