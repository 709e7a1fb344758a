package lemma

// Normalize resolves a token sequence to its lemma sequence, preserving
// order and repeats.
func Normalize(tokens []RawToken) []Lemma {
	out := make([]Lemma, 0, len(tokens))
	for _, tok := range tokens {
		out = NormalizeToken(tok).AppendTo(out)
	}
	return out
}

// Count is the number of occurrences of one lemma.
type Count struct {
	Lemma Lemma `json:"lemma"`
	N     int   `json:"count"`
}

// Tally counts lemmas in order of first occurrence.
func Tally(lemmas []Lemma) []Count {
	index := make(map[Lemma]int, len(lemmas))
	var out []Count
	for _, l := range lemmas {
		if i, ok := index[l]; ok {
			out[i].N++
			continue
		}
		index[l] = len(out)
		out = append(out, Count{Lemma: l, N: 1})
	}
	return out
}

// Unique returns the distinct lemmas in order of first occurrence.
func Unique(lemmas []Lemma) []Lemma {
	counts := Tally(lemmas)
	out := make([]Lemma, len(counts))
	for i, c := range counts {
		out[i] = c.Lemma
	}
	return out
}
