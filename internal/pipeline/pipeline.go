package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ppiankov/jimaku/internal/extract/adapters"
	"github.com/ppiankov/jimaku/internal/lemma"
	"github.com/ppiankov/jimaku/internal/llm"
	"github.com/ppiankov/jimaku/internal/logger"
	"github.com/ppiankov/jimaku/internal/lookup"
	"github.com/ppiankov/jimaku/internal/model"
	"github.com/ppiankov/jimaku/internal/score"
	"github.com/ppiankov/jimaku/internal/segment"
)

// Source resolves lemmas against the reference tables
type Source interface {
	Lookup(ctx context.Context, words []string) (*lookup.Result, error)
}

// Analyzer orchestrates the complete analysis of subtitle files
type Analyzer struct {
	registry   *adapters.Registry
	segmenter  segment.Segmenter
	source     Source
	scorer     *score.Scorer
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional study-note generator (nil if disabled)
	log        logger.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithSegmenter overrides the segmenter selected by configuration
func WithSegmenter(s segment.Segmenter) Option {
	return func(a *Analyzer) { a.segmenter = s }
}

// WithSummarizer overrides the summarizer built from configuration
func WithSummarizer(s *llm.Summarizer) Option {
	return func(a *Analyzer) { a.summarizer = s }
}

// WithLogger sets the analyzer logger
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

// WithRenderer overrides the renderer built from configuration
func WithRenderer(r *Renderer) Option {
	return func(a *Analyzer) { a.renderer = r }
}

// NewAnalyzer creates an analyzer that looks lemmas up through source
func NewAnalyzer(cfg *model.Config, source Source, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		registry: adapters.NewRegistry(),
		source:   source,
		scorer:   score.NewScorer(score.OptionsFromConfig(cfg.Scoring)),
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.segmenter == nil {
		seg, err := segment.New(cfg.Analysis.Segmenter)
		if err != nil {
			return nil, fmt.Errorf("create segmenter: %w", err)
		}
		a.segmenter = seg
	}
	if a.renderer == nil {
		a.renderer = NewRenderer(cfg.Output.IncludeFooter, cfg.Output.IncludeWords)
	}

	if a.summarizer == nil && cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			a.log.Warn("LLM provider unavailable, study notes disabled", "provider", cfg.LLM.Provider, "err", err)
		} else {
			a.summarizer = s
		}
	}

	return a, nil
}

// Renderer returns the renderer used by RenderReport
func (a *Analyzer) Renderer() *Renderer {
	return a.renderer
}

// Lemmatize segments every line of doc and returns its lemma sequence.
// Lines are segmented separately so tokens never span cues.
func (a *Analyzer) Lemmatize(doc *model.Document) []lemma.Lemma {
	var out []lemma.Lemma
	for _, line := range doc.Lines {
		if line.Text == "" {
			continue
		}
		out = append(out, lemma.Normalize(a.segmenter.Segment(line.Text))...)
	}
	return out
}

// AnalyzeFile analyzes a single subtitle file
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	return a.AnalyzeFiles(ctx, []string{path}, "")
}

// AnalyzeFiles pools every file into one report. An empty title is derived
// from the file names.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string, title string) (*model.Report, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	docs := make([]*model.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := a.registry.ParseFile(path)
		if err != nil {
			return nil, err
		}
		a.log.Debug("parsed subtitle file", "file", path, "format", doc.Format, "lines", doc.NonEmptyLines())
		docs = append(docs, doc)
	}

	if title == "" {
		title = defaultTitle(paths)
	}
	return a.AnalyzeDocuments(ctx, docs, title)
}

// AnalyzeText analyzes raw subtitle content already held in memory; name
// drives format detection
func (a *Analyzer) AnalyzeText(ctx context.Context, name string, content []byte, title string) (*model.Report, error) {
	doc, err := a.registry.ParseBytes(name, content)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = defaultTitle([]string{name})
	}
	return a.AnalyzeDocuments(ctx, []*model.Document{doc}, title)
}

// AnalyzeDocuments runs segmentation, the lemma cascade, reference lookup
// and scoring over parsed documents
func (a *Analyzer) AnalyzeDocuments(ctx context.Context, docs []*model.Document, title string) (*model.Report, error) {
	var (
		lemmas     []lemma.Lemma
		lines      int
		characters int
		files      []string
	)
	for _, doc := range docs {
		lemmas = append(lemmas, a.Lemmatize(doc)...)
		lines += doc.NonEmptyLines()
		characters += utf8.RuneCountInString(strings.ReplaceAll(doc.Text(), "\n", " "))
		files = append(files, doc.Path)
	}

	counts := lemma.Tally(lemmas)
	words := make([]string, len(counts))
	for i, c := range counts {
		words[i] = string(c.Lemma)
	}

	found := &lookup.Result{}
	if len(words) > 0 {
		res, err := a.source.Lookup(ctx, words)
		if err != nil {
			return nil, fmt.Errorf("lookup: %w", err)
		}
		found = res
	}
	a.log.Debug("reference lookup done",
		"unique", len(words), "found", len(found.Entries),
		"cache_hits", found.CacheHits, "failed_batches", found.FailedBatches)

	scored := a.scorer.Calculate(score.Input{
		Counts:     counts,
		Entries:    found.Entries,
		Lines:      lines,
		Characters: characters,
	})

	if found.FailedBatches > 0 {
		scored.Score.Signals = append(scored.Score.Signals, model.Signal{
			Type:        model.SignalLookupGaps,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d lookup batches failed after retries; their words are missing from the score", found.FailedBatches),
			Data: map[string]interface{}{
				"failed_batches": found.FailedBatches,
				"queried":        found.Queried,
			},
		})
	}

	report := &model.Report{
		ID:        uuid.NewString(),
		Title:     title,
		Files:     files,
		CreatedAt: time.Now().UTC(),
		Stats: model.Stats{
			Lines:             lines,
			Characters:        characters,
			Lemmas:            len(lemmas),
			UniqueLemmas:      len(counts),
			KnownLemmas:       len(scored.Words),
			AvgSentenceLength: scored.AvgSentenceLen,
		},
		JLPT:           scored.JLPT,
		Frequency:      scored.Frequency,
		DifficultWords: scored.DifficultWords,
		Words:          scored.Words,
		Score:          scored.Score,
		Principles:     model.DefaultPrinciples(),
	}

	// Study notes are generated after scoring and never feed back into it
	if a.summarizer != nil && a.summarizer.IsEnabled() {
		summary, err := a.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			a.log.Warn("study notes generation failed", "err", err)
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// RenderReport writes the requested outputs and prints the stdout summary
func (a *Analyzer) RenderReport(report *model.Report, jsonPath string, mdPath string) error {
	if jsonPath != "" {
		if err := a.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		a.log.Info("wrote JSON report", "path", jsonPath)
	}

	if mdPath != "" {
		if err := a.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		a.log.Info("wrote Markdown report", "path", mdPath)
	}

	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		notesPath := LLMNotesPath(mdPath)
		if err := a.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), notesPath); err != nil {
			a.log.Warn("failed to write study notes", "path", notesPath, "err", err)
		} else {
			a.log.Info("wrote study notes", "path", notesPath)
		}
	}

	a.renderer.RenderSummary(report)
	return nil
}

// LLMNotesPath returns the study-notes path next to a Markdown report
func LLMNotesPath(mdPath string) string {
	return strings.TrimSuffix(mdPath, ".md") + ".llm.md"
}

func defaultTitle(paths []string) string {
	first := filepath.Base(paths[0])
	first = strings.TrimSuffix(first, filepath.Ext(first))
	if len(paths) == 1 {
		return first
	}
	return fmt.Sprintf("%s (+%d more)", first, len(paths)-1)
}
