package segment

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/ppiankov/jimaku/internal/lemma"
)

// IPA part-of-speech labels used by the merge rules.
const (
	posVerb       = "動詞"
	posAdjective  = "形容詞"
	posAuxiliary  = "助動詞"
	posParticle   = "助詞"
	posNoun       = "名詞"
	posSymbol     = "記号"
	posDependent  = "非自立"
	posSuffix     = "接尾"
	posConnective = "接続助詞"
	posSahen      = "サ変接続"
)

// morph is one dictionary morpheme before merging.
type morph struct {
	surface string
	pos     []string
	base    string
}

func (m morph) is(labels ...string) bool {
	for i, l := range labels {
		if i >= len(m.pos) || m.pos[i] != l {
			return false
		}
	}
	return true
}

// Kagome segments text with the kagome morphological analyzer and merges
// inflection chains back into single word-like units.
type Kagome struct {
	t *tokenizer.Tokenizer
}

// NewKagome creates a segmenter backed by the IPA dictionary.
func NewKagome() (*Kagome, error) {
	return NewKagomeWithDict(ipa.Dict())
}

// NewKagomeWithDict creates a segmenter backed by d.
func NewKagomeWithDict(d *dict.Dict) (*Kagome, error) {
	t, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("create tokenizer: %w", err)
	}
	return &Kagome{t: t}, nil
}

// Segment tokenizes text and returns merged surface tokens.
func (k *Kagome) Segment(text string) []lemma.RawToken {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	toks := k.t.Tokenize(text)
	morphs := make([]morph, 0, len(toks))
	for _, tok := range toks {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		base, _ := tok.BaseForm()
		morphs = append(morphs, morph{surface: tok.Surface, pos: tok.POS(), base: base})
	}
	return toRawTokens(mergeInflections(morphs))
}

// mergeInflections joins a verb or adjective with the auxiliaries,
// dependent verbs and te/de/ba connectives that follow it, a sahen noun
// with a following する chain, and a noun with a plural suffix.
func mergeInflections(ms []morph) []morph {
	out := make([]morph, 0, len(ms))
	for i := 0; i < len(ms); {
		head := ms[i]
		j := i + 1
		switch {
		case head.is(posVerb) || head.is(posAdjective):
			for j < len(ms) && continuesInflection(ms[j]) {
				head.surface += ms[j].surface
				j++
			}
		case head.is(posNoun, posSahen) && j < len(ms) && ms[j].is(posVerb) && ms[j].base == "する":
			head.surface += ms[j].surface
			j++
			for j < len(ms) && continuesInflection(ms[j]) {
				head.surface += ms[j].surface
				j++
			}
		case head.is(posNoun) && j < len(ms) && ms[j].is(posNoun, posSuffix) && isPluralSuffix(ms[j].surface):
			head.surface += ms[j].surface
			j++
		}
		out = append(out, head)
		i = j
	}
	return out
}

func continuesInflection(m morph) bool {
	switch {
	case m.is(posAuxiliary):
		return true
	case m.is(posVerb, posDependent), m.is(posVerb, posSuffix):
		return true
	case m.is(posAdjective, posDependent):
		return true
	case m.is(posParticle, posConnective):
		return m.surface == "て" || m.surface == "で" || m.surface == "ば"
	}
	return false
}

func isPluralSuffix(s string) bool {
	return s == "たち" || s == "達" || s == "ら"
}

func toRawTokens(ms []morph) []lemma.RawToken {
	out := make([]lemma.RawToken, 0, len(ms))
	for _, m := range ms {
		wordLike := !m.is(posSymbol) && strings.TrimSpace(m.surface) != ""
		out = append(out, lemma.RawToken{Surface: m.surface, WordLike: wordLike})
	}
	return out
}
