package model

// JLPTLevel is a JLPT level from 1 (N1, hardest) to 5 (N5). Zero means the
// word has no JLPT tag.
type JLPTLevel int

const (
	JLPTNone JLPTLevel = 0
	JLPTN1   JLPTLevel = 1
	JLPTN2   JLPTLevel = 2
	JLPTN3   JLPTLevel = 3
	JLPTN4   JLPTLevel = 4
	JLPTN5   JLPTLevel = 5
)

func (l JLPTLevel) String() string {
	if l < JLPTN1 || l > JLPTN5 {
		return "-"
	}
	return "N" + string(rune('0'+int(l)))
}

// Valid reports whether l is one of N1..N5
func (l JLPTLevel) Valid() bool {
	return l >= JLPTN1 && l <= JLPTN5
}

// ReferenceEntry is what the reference tables know about one lemma
type ReferenceEntry struct {
	Word    string    `json:"word"`
	Reading string    `json:"reading,omitempty"`
	Rank    int       `json:"rank"`           // BCCWJ frequency rank (1 = most frequent)
	JLPT    JLPTLevel `json:"jlpt,omitempty"` // JLPT level, if tagged
	Found   bool      `json:"found"`          // false for cached negative lookups
}

// WordEntry is one scored lemma in a report
type WordEntry struct {
	Word       string    `json:"word"`
	Reading    string    `json:"reading,omitempty"`
	Rank       int       `json:"rank"`
	JLPT       JLPTLevel `json:"jlpt,omitempty"`
	Count      int       `json:"count"`       // Occurrences in the analysed text
	JLPTPoints int       `json:"jlpt_points"` // Points from the JLPT level
	RankPoints int       `json:"rank_points"` // Points from the BCCWJ rank
	Points     int       `json:"points"`      // JLPTPoints + RankPoints (per occurrence)
}
