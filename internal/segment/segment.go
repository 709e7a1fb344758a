// Package segment splits cleaned subtitle text into word-like tokens for the
// lemma cascade.
package segment

import (
	"strings"
	"unicode"

	"github.com/ppiankov/jimaku/internal/lemma"
)

// Segmenter produces surface tokens from text.
type Segmenter interface {
	Segment(text string) []lemma.RawToken
}

// WhitespaceSegmenter treats text as already segmented on whitespace.
type WhitespaceSegmenter struct{}

// Segment splits text on whitespace. A field is word-like when it contains
// at least one letter or digit.
func (WhitespaceSegmenter) Segment(text string) []lemma.RawToken {
	fields := strings.Fields(text)
	out := make([]lemma.RawToken, 0, len(fields))
	for _, f := range fields {
		out = append(out, lemma.RawToken{Surface: f, WordLike: hasWordRune(f)})
	}
	return out
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// New returns the segmenter registered under name ("kagome" or
// "whitespace"). Unknown names fall back to kagome.
func New(name string) (Segmenter, error) {
	switch strings.ToLower(name) {
	case "whitespace", "space":
		return WhitespaceSegmenter{}, nil
	default:
		return NewKagome()
	}
}
