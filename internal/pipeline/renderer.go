package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/jimaku/internal/model"
)

const (
	summaryTopWords = 5
	footerText      = "_Generated by jimaku. Difficulty is a rule-based estimate from BCCWJ frequency ranks and JLPT tags, not a certified level._"
)

// Renderer writes reports as JSON, Markdown and a short stdout summary
type Renderer struct {
	includeFooter bool
	includeWords  bool
	out           io.Writer
}

// NewRenderer creates a renderer that prints summaries to stdout
func NewRenderer(includeFooter, includeWords bool) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		includeWords:  includeWords,
		out:           os.Stdout,
	}
}

// SetOutput redirects the stdout summary
func (r *Renderer) SetOutput(w io.Writer) {
	r.out = w
}

// JSON encodes report; the full word list is kept only when enabled
func (r *Renderer) JSON(report *model.Report) ([]byte, error) {
	view := *report
	if !r.includeWords {
		view.Words = nil
	}
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// RenderJSON writes the JSON report to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := r.JSON(report)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return os.WriteFile(path, []byte(r.Markdown(report)), 0o644)
}

// RenderLLMMarkdown writes separately rendered study notes to path
func (r *Renderer) RenderLLMMarkdown(content string, path string) error {
	if content == "" {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Markdown renders report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Vocabulary Report: %s\n\n", report.Title)
	fmt.Fprintf(&b, "**Difficulty:** %d (%d points)  \n", report.Score.Difficulty, report.Score.TotalPoints)
	fmt.Fprintf(&b, "**Estimated level:** %s  \n", report.Score.Level)
	fmt.Fprintf(&b, "**Confidence:** %s  \n", report.Score.Confidence)
	if !report.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "**Analyzed:** %s  \n", report.CreatedAt.Format("2006-01-02 15:04 MST"))
	}
	if len(report.Files) > 0 {
		fmt.Fprintf(&b, "**Files:** %s\n", strings.Join(report.Files, ", "))
	}
	b.WriteString("\n")

	s := report.Stats
	b.WriteString("## Text\n\n")
	b.WriteString("| Lines | Characters | Avg line length | Lemmas | Unique | Known |\n")
	b.WriteString("|------:|-----------:|----------------:|-------:|-------:|------:|\n")
	fmt.Fprintf(&b, "| %d | %d | %.1f | %d | %d | %d |\n\n",
		s.Lines, s.Characters, s.AvgSentenceLength, s.Lemmas, s.UniqueLemmas, s.KnownLemmas)

	j := report.JLPT
	jlptTotal := j.Tagged() + j.None
	b.WriteString("## JLPT Distribution\n\n")
	b.WriteString("| Level | Occurrences | Share |\n")
	b.WriteString("|-------|------------:|------:|\n")
	for _, row := range []struct {
		label string
		n     int
	}{
		{"N5", j.N5}, {"N4", j.N4}, {"N3", j.N3}, {"N2", j.N2}, {"N1", j.N1}, {"untagged", j.None},
	} {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", row.label, row.n, percent(row.n, jlptTotal))
	}
	b.WriteString("\n")

	f := report.Frequency
	freqTotal := f.Total()
	b.WriteString("## Frequency Distribution (BCCWJ rank)\n\n")
	b.WriteString("| Rank | Occurrences | Share |\n")
	b.WriteString("|------|------------:|------:|\n")
	for _, row := range []struct {
		label string
		n     int
	}{
		{"1-1,000", f.Top1k}, {"1,001-5,000", f.Top5k}, {"5,001-10,000", f.Top10k},
		{"10,001-20,000", f.Top20k}, {"> 20,000", f.Rare},
	} {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", row.label, row.n, percent(row.n, freqTotal))
	}
	b.WriteString("\n")

	b.WriteString("## Most Difficult Words\n\n")
	if len(report.DifficultWords) == 0 {
		b.WriteString("_No words were found in the reference tables._\n\n")
	} else {
		b.WriteString("| # | Word | Reading | JLPT | Rank | Count | Points |\n")
		b.WriteString("|--:|------|---------|------|-----:|------:|-------:|\n")
		for i, w := range report.DifficultWords {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %d | %d |\n",
				i+1, w.Word, w.Reading, w.JLPT, w.Rank, w.Count, w.Points)
		}
		b.WriteString("\n")
	}

	if len(report.Score.Signals) > 0 {
		b.WriteString("## Signals\n\n")
		for _, sig := range report.Score.Signals {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", sig.Type, sig.Severity, sig.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Method\n\n")
	b.WriteString("- Each occurrence scores JLPT points (N5=5 ... N1=30) plus BCCWJ rank points.\n")
	b.WriteString("- Difficulty is the total divided by 1000, rounded.\n")
	if report.Principles.LLMIndependent {
		b.WriteString("- Study notes, when present, are written to a separate file and never affect the score.\n")
	}

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		b.WriteString(footerText)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderSummary prints a short overview of report
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Fprintf(r.out, "\n%s\n", report.Title)
	fmt.Fprintf(r.out, "  Difficulty: %d   Level: %s   Confidence: %s\n",
		report.Score.Difficulty, report.Score.Level, report.Score.Confidence)
	fmt.Fprintf(r.out, "  Lines: %d   Lemmas: %d (unique %d, known %d)\n",
		report.Stats.Lines, report.Stats.Lemmas, report.Stats.UniqueLemmas, report.Stats.KnownLemmas)

	j := report.JLPT
	fmt.Fprintf(r.out, "  JLPT: N5 %d  N4 %d  N3 %d  N2 %d  N1 %d  untagged %d\n",
		j.N5, j.N4, j.N3, j.N2, j.N1, j.None)

	if n := min(summaryTopWords, len(report.DifficultWords)); n > 0 {
		words := make([]string, n)
		for i, w := range report.DifficultWords[:n] {
			words[i] = w.Word
		}
		fmt.Fprintf(r.out, "  Hardest: %s\n", strings.Join(words, ", "))
	}

	for _, sig := range report.Score.Signals {
		if sig.Severity != model.SeverityInfo {
			fmt.Fprintf(r.out, "  ! %s\n", sig.Description)
		}
	}
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
