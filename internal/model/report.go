package model

import "time"

// Report is the complete vocabulary analysis of one or more subtitle files
type Report struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at"`

	Stats          Stats                 `json:"stats"`
	JLPT           JLPTDistribution      `json:"jlpt_distribution"`
	Frequency      FrequencyDistribution `json:"frequency_distribution"`
	DifficultWords []WordEntry           `json:"difficult_words"`
	Words          []WordEntry           `json:"words,omitempty"` // Every scored lemma, most difficult first

	Score      Score      `json:"score"`
	Principles Principles `json:"principles"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional study notes (separate, never affects score)
}

// Stats holds text-level counts
type Stats struct {
	Lines             int     `json:"lines"`
	Characters        int     `json:"characters"`
	Lemmas            int     `json:"lemmas"`        // Lemma occurrences after normalisation
	UniqueLemmas      int     `json:"unique_lemmas"` // Distinct lemmas sent to lookup
	KnownLemmas       int     `json:"known_lemmas"`  // Distinct lemmas found in BCCWJ and scored
	AvgSentenceLength float64 `json:"avg_sentence_length"`
}

// JLPTDistribution counts scored occurrences per JLPT level
type JLPTDistribution struct {
	N1   int `json:"n1"`
	N2   int `json:"n2"`
	N3   int `json:"n3"`
	N4   int `json:"n4"`
	N5   int `json:"n5"`
	None int `json:"none"`
}

// Add records count occurrences at level
func (d *JLPTDistribution) Add(level JLPTLevel, count int) {
	switch level {
	case JLPTN1:
		d.N1 += count
	case JLPTN2:
		d.N2 += count
	case JLPTN3:
		d.N3 += count
	case JLPTN4:
		d.N4 += count
	case JLPTN5:
		d.N5 += count
	default:
		d.None += count
	}
}

// Tagged returns the number of occurrences with a JLPT level
func (d JLPTDistribution) Tagged() int {
	return d.N1 + d.N2 + d.N3 + d.N4 + d.N5
}

// FrequencyDistribution counts scored occurrences per BCCWJ rank bucket
type FrequencyDistribution struct {
	Top1k  int `json:"top_1k"`
	Top5k  int `json:"top_5k"`
	Top10k int `json:"top_10k"`
	Top20k int `json:"top_20k"`
	Rare   int `json:"rare"`
}

// Add records count occurrences at rank
func (d *FrequencyDistribution) Add(rank, count int) {
	switch {
	case rank <= 1000:
		d.Top1k += count
	case rank <= 5000:
		d.Top5k += count
	case rank <= 10000:
		d.Top10k += count
	case rank <= 20000:
		d.Top20k += count
	default:
		d.Rare += count
	}
}

// Total returns the number of occurrences across all buckets
func (d FrequencyDistribution) Total() int {
	return d.Top1k + d.Top5k + d.Top10k + d.Top20k + d.Rare
}

// Score is the transparent difficulty breakdown
type Score struct {
	Difficulty  int      `json:"difficulty"`   // round(total points / 1000)
	TotalPoints int      `json:"total_points"` // Sum of points over every scored occurrence
	Level       string   `json:"level"`        // Estimated JLPT level of the text (N5..N1)
	Confidence  string   `json:"confidence"`   // "low", "medium", "high"
	Signals     []Signal `json:"signals"`
}

// Signal is a diagnostic observation with its inputs and formula
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalCoverage       SignalType = "coverage"        // Share of lemmas found in the reference tables
	SignalJLPTProfile    SignalType = "jlpt_profile"    // Weight of advanced JLPT vocabulary
	SignalRarity         SignalType = "rarity"          // Share of low-frequency vocabulary
	SignalLevelEstimate  SignalType = "level_estimate"  // Overall JLPT estimate
	SignalSentenceLength SignalType = "sentence_length" // Average characters per line
	SignalSmallSample    SignalType = "small_sample"    // Too little text for a stable estimate
	SignalLookupGaps     SignalType = "lookup_gaps"     // Reference batches skipped after retries
)

// SignalSeverity indicates how notable a signal is
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Principles documents how the report was produced
type Principles struct {
	RuleBased      bool `json:"rule_based"`      // Lemmas come from a deterministic rule cascade
	Transparent    bool `json:"transparent"`     // Every score carries its formula
	LLMIndependent bool `json:"llm_independent"` // Study notes never feed the score
}

// DefaultPrinciples returns the standard report principles
func DefaultPrinciples() Principles {
	return Principles{
		RuleBased:      true,
		Transparent:    true,
		LLMIndependent: true,
	}
}

// LLMSummary contains optional LLM-generated study notes
// This never affects scoring and is rendered separately
type LLMSummary struct {
	Enabled          bool     `json:"enabled"`
	Provider         string   `json:"provider,omitempty"`
	Model            string   `json:"model,omitempty"`
	StrictVocabulary bool     `json:"strict_vocabulary"` // Whether quoted-term enforcement was enabled
	SummaryMD        string   `json:"summary_md,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}
