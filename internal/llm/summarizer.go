// Package llm generates optional study notes for a report. Notes are
// produced after scoring, stored separately and never change the score.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/jimaku/internal/model"
)

// Summarizer wraps a Provider with the report-level policy
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer; an empty provider name disables it
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// NewSummarizerWithProvider uses an already-built provider
func NewSummarizerWithProvider(provider Provider, config Config) *Summarizer {
	return &Summarizer{provider: provider, config: config}
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider name, or ""
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Vocabulary lists the words notes may quote: every scored word, or the
// difficult words when the full list was not kept
func Vocabulary(report model.Report) []string {
	entries := report.Words
	if len(entries) == 0 {
		entries = report.DifficultWords
	}
	words := make([]string, 0, len(entries))
	for _, e := range entries {
		words = append(words, e.Word)
	}
	return words
}

// GenerateSummary produces study notes. Provider failures are reported as
// warnings on a disabled summary rather than as errors; a nil summary means
// no provider is configured.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if !s.IsEnabled() {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider:         s.provider.Name(),
		Model:            s.config.Model,
		StrictVocabulary: s.config.StrictVocabulary,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %s is not available; study notes skipped", s.provider.Name()))
		return summary, nil
	}

	vocabulary := Vocabulary(report)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:     report,
		Vocabulary: vocabulary,
		Model:      s.config.Model,
		MaxTokens:  s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Study notes generation failed: %v", err))
		return summary, nil
	}

	summary.Enabled = true
	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if s.config.StrictVocabulary {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Verified %d quoted terms against %d report words", len(resp.QuotedTerms), len(vocabulary)))
	}

	return summary, nil
}

// RenderSeparateMarkdown renders study notes as a standalone document
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Study Notes\n\n")
	b.WriteString("> **GENERATED CONTENT**: written by a language model from the report below. ")
	b.WriteString("The difficulty score and word lists were determined independently by rule-based analysis.\n\n")

	fmt.Fprintf(&b, "- **Provider**: %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model**: %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict Vocabulary Mode**: %t\n\n", summary.StrictVocabulary)

	b.WriteString("---\n\n")
	if strings.TrimSpace(summary.SummaryMD) == "" {
		b.WriteString("_No study notes generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
