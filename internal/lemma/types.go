package lemma

// RawToken is one segment produced by a word-boundary segmenter.
type RawToken struct {
	Surface  string
	WordLike bool
}

// Lemma is a canonical dictionary-form string used as a lookup key.
type Lemma string

// Lemmas holds the 0, 1 or 2 lemmas a single token resolves to.
type Lemmas struct {
	items [2]Lemma
	n     int
}

func none() Lemmas { return Lemmas{} }

func one(l Lemma) Lemmas { return Lemmas{items: [2]Lemma{l}, n: 1} }

func two(a, b Lemma) Lemmas { return Lemmas{items: [2]Lemma{a, b}, n: 2} }

// Len returns the number of lemmas held.
func (l Lemmas) Len() int { return l.n }

// At returns the i-th lemma. It panics when i is out of range.
func (l Lemmas) At(i int) Lemma {
	if i < 0 || i >= l.n {
		panic("lemma: index out of range")
	}
	return l.items[i]
}

// Slice returns the lemmas as a fresh slice.
func (l Lemmas) Slice() []Lemma {
	out := make([]Lemma, l.n)
	copy(out, l.items[:l.n])
	return out
}

// AppendTo appends the lemmas to dst.
func (l Lemmas) AppendTo(dst []Lemma) []Lemma {
	return append(dst, l.items[:l.n]...)
}

// Strings converts a lemma sequence to plain strings.
func Strings(ls []Lemma) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(l)
	}
	return out
}
