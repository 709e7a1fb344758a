package lemma

import (
	"strings"
	"unicode/utf8"
)

// Stage names reported by Explain.
const (
	StageSkip        = "skip"
	StageParticle    = "particle"
	StageNumeral     = "numeral"
	StageFixedPhrase = "fixed-phrase"
	StageKeigo       = "keigo"
	StageSuru        = "suru"
	StageCompound    = "compound"
	StageAuxiliary   = "auxiliary"
	StageDeconjugate = "deconjugate"
)

type stage struct {
	name  string
	apply func(w string) (Lemmas, bool)
}

// tokenStages run on the surface as segmented.
var tokenStages = []stage{
	{StageParticle, particleStage},
	{StageNumeral, numeralStage},
	{StageFixedPhrase, fixedPhraseStage},
	{StageKeigo, keigoStage},
}

// stemStages run after the plural suffix has been trimmed.
var stemStages = []stage{
	{StageSuru, suruStage},
	{StageCompound, compoundStage},
	{StageAuxiliary, auxiliaryStage},
}

// Explanation describes how one token was resolved.
type Explanation struct {
	Surface string  `json:"surface"`
	Trimmed string  `json:"trimmed,omitempty"`
	Stage   string  `json:"stage"`
	Rule    string  `json:"rule,omitempty"`
	Lemmas  []Lemma `json:"lemmas"`
}

// NormalizeToken resolves one token to zero, one or two lemmas.
func NormalizeToken(tok RawToken) Lemmas {
	ls, _ := resolve(tok)
	return ls
}

// Explain resolves one token and reports the deciding stage.
func Explain(tok RawToken) Explanation {
	ls, ex := resolve(tok)
	ex.Lemmas = ls.Slice()
	return ex
}

func resolve(tok RawToken) (Lemmas, Explanation) {
	ex := Explanation{Surface: tok.Surface}
	w := strings.TrimSpace(tok.Surface)
	if !tok.WordLike || w == "" || isBlank(w) {
		ex.Stage = StageSkip
		return none(), ex
	}

	for _, s := range tokenStages {
		if ls, ok := s.apply(w); ok {
			ex.Stage = s.name
			return ls, ex
		}
	}

	if trimmed, ok := trimPlural(w); ok {
		w = trimmed
		ex.Trimmed = trimmed
	}

	for _, s := range stemStages {
		if ls, ok := s.apply(w); ok {
			ex.Stage = s.name
			return ls, ex
		}
	}

	l, rule := DeconjugateTrace(w)
	ex.Stage = StageDeconjugate
	ex.Rule = rule
	return one(l), ex
}

func particleStage(w string) (Lemmas, bool) {
	if particles.has(w) {
		return none(), true
	}
	return Lemmas{}, false
}

// numeralStage splits 3人 into [3, 人]. The numeral prefix is greedy but
// leaves at least one character for the counter.
func numeralStage(w string) (Lemmas, bool) {
	end := 0
	for i, r := range w {
		if !numeralRunes.has(r) {
			break
		}
		end = i + utf8.RuneLen(r)
	}
	if end == len(w) {
		_, size := utf8.DecodeLastRuneInString(w)
		end -= size
	}
	if end <= 0 {
		return Lemmas{}, false
	}
	num, rest := w[:end], w[end:]
	if counters.has(rest) || runeLen(rest) == 1 {
		return two(Lemma(num), Lemma(rest)), true
	}
	return Lemmas{}, false
}

func fixedPhraseStage(w string) (Lemmas, bool) {
	for _, p := range fixedPhrases {
		if strings.Contains(w, p) {
			return one(Lemma(w)), true
		}
	}
	return Lemmas{}, false
}

func keigoStage(w string) (Lemmas, bool) {
	if l, ok := keigo[w]; ok {
		return one(l), true
	}
	return Lemmas{}, false
}

// trimPlural removes the first matching collective suffix when a stem
// remains.
func trimPlural(w string) (string, bool) {
	for _, s := range pluralSuffixes {
		if strings.HasSuffix(w, s) {
			if len(w) > len(s) {
				return strings.TrimSuffix(w, s), true
			}
			return w, false
		}
	}
	return w, false
}

// suruStage splits a kanji or katakana noun followed by a form of する
// (勉強します -> [勉強, する]).
func suruStage(w string) (Lemmas, bool) {
	if !hasSuruVerb(w) {
		return Lemmas{}, false
	}
	cut := len(w)
	for _, f := range suruForms {
		if i := strings.Index(w, f); i >= 0 && i < cut {
			cut = i
		}
	}
	stem := w[:cut]
	if stem == "" || stem == w {
		return Lemmas{}, false
	}
	return two(Lemma(stem), "する"), true
}

func hasSuruVerb(w string) bool {
	for _, f := range suruForms {
		for off := 0; off < len(w); {
			i := strings.Index(w[off:], f)
			if i < 0 {
				break
			}
			at := off + i
			if at > 0 {
				prev, _ := utf8.DecodeLastRuneInString(w[:at])
				if isKanji(prev) || isKatakana(prev) {
					return true
				}
			}
			off = at + len(f)
		}
	}
	return false
}

// compoundStage splits a masu-stem plus compounding verb
// (書き始める -> [書く, 始める]).
func compoundStage(w string) (Lemmas, bool) {
	n := runeLen(w)
	for _, suffix := range compoundSuffixes {
		lead, _ := utf8.DecodeRuneInString(suffix)
		if n <= runeLen(suffix) || !strings.ContainsRune(w, lead) {
			continue
		}
		idx := strings.LastIndex(w, string(lead))
		if idx <= 0 {
			continue
		}
		head, ok := FromMasuStem(w[:idx])
		if !ok {
			continue
		}
		tail := Deconjugate(w[idx:])
		if tail == "" {
			continue
		}
		return two(head, tail), true
	}
	return Lemmas{}, false
}

// auxiliaryStage drops a helper verb chained on a te-form
// (食べている -> 食べて -> 食べる).
func auxiliaryStage(w string) (Lemmas, bool) {
	idx := strings.LastIndex(w, "て")
	if j := strings.LastIndex(w, "で"); j > idx {
		idx = j
	}
	if idx <= 0 {
		return Lemmas{}, false
	}
	marker := idx + len("て")
	rest := w[marker:]
	for _, aux := range auxContinuations {
		if strings.HasPrefix(rest, aux) {
			return one(Deconjugate(w[:marker])), true
		}
	}
	return Lemmas{}, false
}
