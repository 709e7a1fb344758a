package lemma

import (
	"strings"
	"unicode/utf8"
)

// ConjugationRule is one step of the deconjugator. Apply reports false when
// the rule does not recognise the word.
type ConjugationRule struct {
	Name  string
	Apply func(word string) (string, bool)
}

// FallbackRule names the outcome when no rule recognised the word.
const FallbackRule = "fallback"

// conjugationRules are tried in order; the first rule that accepts wins.
var conjugationRules = []ConjugationRule{
	{Name: "keigo", Apply: keigoRule},
	{Name: "adjective", Apply: adjectiveRule},
	{Name: "copula", Apply: copulaRule},
	{Name: "polite", Apply: politeRule},
	{Name: "desire", Apply: desireRule},
	{Name: "negative", Apply: negativeRule},
	{Name: "te-ta", Apply: teTaRule},
	{Name: "voice", Apply: voiceRule},
	{Name: "volitional", Apply: volitionalRule},
	{Name: "conditional", Apply: conditionalRule},
	{Name: "derived", Apply: derivedRule},
}

// Rules returns the deconjugation rules in evaluation order.
func Rules() []ConjugationRule {
	out := make([]ConjugationRule, len(conjugationRules))
	copy(out, conjugationRules)
	return out
}

// Deconjugate reduces a single conjugated word to its dictionary form. It
// always returns a value; unrecognised words come back unchanged apart from
// a trailing sentence particle.
func Deconjugate(word string) Lemma {
	l, _ := DeconjugateTrace(word)
	return l
}

// DeconjugateTrace is Deconjugate that also reports the name of the rule
// that produced the result, or FallbackRule.
func DeconjugateTrace(word string) (Lemma, string) {
	w := stripSentenceParticle(word)
	for _, rule := range conjugationRules {
		if out, ok := rule.Apply(w); ok && out != "" {
			return Lemma(out), rule.Name
		}
	}
	return Lemma(w), FallbackRule
}

// stripSentenceParticle removes one trailing sentence-final particle from
// words longer than two characters. Honorific entries are left intact.
func stripSentenceParticle(w string) string {
	if _, ok := keigo[w]; ok || runeLen(w) <= 2 {
		return w
	}
	last, size := utf8.DecodeLastRuneInString(w)
	if sentenceParticles.has(last) {
		return w[:len(w)-size]
	}
	return w
}

// trimAny returns the stem before the first listed suffix that w ends with
// and leaves a non-empty stem.
func trimAny(w string, suffixes []string) (stem, suffix string, ok bool) {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) && len(w) > len(s) {
			return strings.TrimSuffix(w, s), s, true
		}
	}
	return "", "", false
}

func hasAnySuffix(w string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}

func keigoRule(w string) (string, bool) {
	l, ok := keigo[w]
	return string(l), ok
}

func adjectiveRule(w string) (string, bool) {
	if hasAnySuffix(w, desireEndings) {
		return "", false
	}
	stem, _, ok := trimAny(w, adjectiveEndings)
	if !ok {
		return "", false
	}
	return stem + "い", true
}

func copulaRule(w string) (string, bool) {
	if bareCopula.has(w) {
		return w, true
	}
	if hasAnySuffix(w, politeEndings) {
		return "", false
	}
	stem, suffix, ok := trimAny(w, copulaSuffixes)
	if !ok {
		return "", false
	}
	if suffix == "だ" && endsTeTaCluster(stem) {
		return "", false
	}
	return stem, true
}

// endsTeTaCluster reports whether a stem before だ belongs to a past form
// (読ん|だ, 泳い|だ) rather than a noun or na-adjective.
func endsTeTaCluster(stem string) bool {
	last, size := utf8.DecodeLastRuneInString(stem)
	if last == 'ん' {
		return true
	}
	if last != 'い' {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(stem[:len(stem)-size])
	return isKanji(prev)
}

func politeRule(w string) (string, bool) {
	stem, _, ok := trimAny(w, politeEndings)
	if !ok {
		return "", false
	}
	if l, ok := FromMasuStem(stem); ok {
		return string(l), true
	}
	return w, true
}

func desireRule(w string) (string, bool) {
	stem, _, ok := trimAny(w, desireEndings)
	if !ok {
		return "", false
	}
	if l, ok := FromMasuStem(stem); ok {
		return string(l), true
	}
	return w, true
}

func negativeRule(w string) (string, bool) {
	stem, _, ok := trimAny(w, []string{"ない", "ず"})
	if !ok {
		return "", false
	}
	if out, ok := shiftLast(stem, aRowToU); ok {
		return out, true
	}
	return ichidan(stem), true
}

func teTaRule(w string) (string, bool) {
	// A bare cluster resolves to its tail alone (した -> す).
	for _, c := range teTaClusters {
		for _, e := range c.endings {
			if strings.HasSuffix(w, e) {
				return strings.TrimSuffix(w, e) + c.tail, true
			}
		}
	}
	if stem, _, ok := trimAny(w, []string{"て", "た"}); ok {
		return ichidan(stem), true
	}
	return "", false
}

func voiceRule(w string) (string, bool) {
	if w == "させる" {
		return "する", true
	}
	if stem, _, ok := trimAny(w, []string{"られる"}); ok {
		return ichidan(stem), true
	}
	if stem, _, ok := trimAny(w, []string{"される"}); ok {
		return stem + "する", true
	}
	if stem, _, ok := trimAny(w, []string{"させる"}); ok {
		return ichidan(stem), true
	}
	if strings.HasSuffix(w, "れる") && !strings.HasSuffix(w, "くれる") {
		stem := strings.TrimSuffix(w, "れる")
		if runeLen(stem) < 2 {
			return "", false
		}
		return shiftLast(stem, aRowToU)
	}
	if stem, _, ok := trimAny(w, []string{"せる"}); ok {
		if out, ok := shiftLast(stem, aRowToU); ok {
			return out, true
		}
		return ichidan(stem), true
	}
	return "", false
}

func volitionalRule(w string) (string, bool) {
	if stem, _, ok := trimAny(w, []string{"よう"}); ok {
		return ichidan(stem), true
	}
	if !strings.HasSuffix(w, "う") {
		return "", false
	}
	head := strings.TrimSuffix(w, "う")
	mora, size := utf8.DecodeLastRuneInString(head)
	if _, ok := oRowToU[mora]; !ok || len(head) == size {
		return "", false
	}
	return shiftLast(head, oRowToU)
}

func conditionalRule(w string) (string, bool) {
	if stem, _, ok := trimAny(w, []string{"れば"}); ok {
		return ichidan(stem), true
	}
	if !strings.HasSuffix(w, "ば") {
		return "", false
	}
	head := strings.TrimSuffix(w, "ば")
	mora, size := utf8.DecodeLastRuneInString(head)
	if _, ok := eRowToU[mora]; !ok || len(head) == size {
		return "", false
	}
	return shiftLast(head, eRowToU)
}

func derivedRule(w string) (string, bool) {
	stem, _, ok := trimAny(w, derivedSuffixes)
	return stem, ok
}
