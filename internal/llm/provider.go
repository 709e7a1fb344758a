package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/jimaku/internal/model"
)

const systemPrompt = "You are a Japanese tutor writing study notes for a subtitle vocabulary report. " +
	"You only discuss words the report lists."

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates study notes for the report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for study-note generation
type SummarizeRequest struct {
	// Report is the vocabulary report to explain
	Report model.Report

	// Vocabulary is the allowlist of words the notes may quote in 「」.
	// In strict mode any other quoted term rejects the response.
	Vocabulary []string

	// Prompt overrides the default prompt when set
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the generated notes
type SummarizeResponse struct {
	Summary     string
	QuotedTerms []string // 「」-quoted terms found in Summary
	Model       string
	TokensUsed  int
}

// Config holds LLM provider configuration
type Config struct {
	Provider         string // "openai", "anthropic", "ollama", or "" (disabled)
	Model            string
	APIKey           string
	BaseURL          string
	Timeout          time.Duration
	Temperature      float32
	MaxTokens        int
	StrictVocabulary bool
	Proxy            string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:          60 * time.Second,
		Temperature:      0.3,
		MaxTokens:        1200,
		StrictVocabulary: true,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 60 * time.Second
	}
	return c.Timeout
}

func (c Config) maxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1200
}

// BuildPrompt constructs the default study-notes prompt
func BuildPrompt(report model.Report, vocabulary []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Write short study notes in Markdown for a learner about to watch "%s".

RULES:
1. When you mention a Japanese word, write it in 「」 brackets.
2. You MUST ONLY quote words from this list:
%s

3. Do not invent vocabulary, readings or example sentences outside the list.
4. The difficulty numbers below are computed; explain them, do not change them.

Report:
- Difficulty score: %d (total points %d)
- Estimated level: %s (confidence: %s)
- Scored words: %d occurrences, %d distinct
- JLPT occurrences: N5 %d, N4 %d, N3 %d, N2 %d, N1 %d
- Average line length: %.1f characters

Key signals:
`,
		report.Title,
		joinWords(vocabulary),
		report.Score.Difficulty, report.Score.TotalPoints,
		report.Score.Level, report.Score.Confidence,
		report.Stats.Lemmas, report.Stats.KnownLemmas,
		report.JLPT.N5, report.JLPT.N4, report.JLPT.N3, report.JLPT.N2, report.JLPT.N1,
		report.Stats.AvgSentenceLength,
	)

	for i, signal := range report.Score.Signals {
		if i >= 4 {
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", signal.Type, signal.Description)
	}

	b.WriteString("\nGive a 3-4 sentence overview, then a bullet list of the 5-10 words most worth studying first, each with its reading and meaning.")
	return b.String()
}

const maxPromptWords = 40

func joinWords(words []string) string {
	if len(words) == 0 {
		return "(No vocabulary available)"
	}
	var b strings.Builder
	for i, w := range words {
		if i >= maxPromptWords {
			fmt.Fprintf(&b, "\n... and %d more words", len(words)-maxPromptWords)
			break
		}
		fmt.Fprintf(&b, "\n- %s", w)
	}
	return b.String()
}

var quotedTermRe = regexp.MustCompile(`「([^」]+)」`)

// extractQuotedTerms returns the distinct 「」-quoted terms in order
func extractQuotedTerms(text string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, m := range quotedTermRe.FindAllStringSubmatch(text, -1) {
		term := strings.TrimSpace(m[1])
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}

// checkVocabulary extracts quoted terms and, in strict mode, rejects any
// that the allowlist does not contain
func checkVocabulary(strict bool, summary string, allowed []string) ([]string, error) {
	terms := extractQuotedTerms(summary)
	if !strict {
		return terms, nil
	}

	allow := make(map[string]bool, len(allowed))
	for _, w := range allowed {
		allow[w] = true
	}
	for _, term := range terms {
		if !allow[term] {
			return nil, fmt.Errorf("VOCABULARY LEAK: LLM quoted a word outside the report: %s", term)
		}
	}
	return terms, nil
}
