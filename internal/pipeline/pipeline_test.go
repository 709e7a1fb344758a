package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ppiankov/jimaku/internal/llm"
	"github.com/ppiankov/jimaku/internal/logger"
	"github.com/ppiankov/jimaku/internal/lookup"
	"github.com/ppiankov/jimaku/internal/model"
	"github.com/ppiankov/jimaku/internal/segment"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:02,000
猫 は 食べました

2
00:00:03,000 --> 00:00:04,000
猫 学校
`

type stubSource struct {
	entries map[string]model.ReferenceEntry
	failed  int
	err     error
	calls   int
	words   []string
}

func (s *stubSource) Lookup(ctx context.Context, words []string) (*lookup.Result, error) {
	s.calls++
	s.words = append([]string(nil), words...)
	if s.err != nil {
		return nil, s.err
	}
	res := &lookup.Result{Entries: make(map[string]model.ReferenceEntry), Queried: len(words), FailedBatches: s.failed}
	for _, w := range words {
		if e, ok := s.entries[w]; ok {
			res.Entries[w] = e
		}
	}
	return res, nil
}

func newSource() *stubSource {
	return &stubSource{entries: map[string]model.ReferenceEntry{
		"猫":   {Word: "猫", Reading: "ねこ", Rank: 500, JLPT: model.JLPTN5, Found: true},
		"食べる": {Word: "食べる", Reading: "たべる", Rank: 500, JLPT: model.JLPTN5, Found: true},
	}}
}

type stubProvider struct {
	summary string
	req     llm.SummarizeRequest
}

func (p *stubProvider) Name() string { return "stub" }
func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }
func (p *stubProvider) Summarize(ctx context.Context, req llm.SummarizeRequest) (*llm.SummarizeResponse, error) {
	p.req = req
	return &llm.SummarizeResponse{Summary: p.summary, TokensUsed: 10}, nil
}

func newTestAnalyzer(t *testing.T, source Source, opts ...Option) *Analyzer {
	t.Helper()
	cfg := model.DefaultConfig()
	opts = append([]Option{
		WithSegmenter(segment.WhitespaceSegmenter{}),
		WithLogger(logger.NewLogger(logger.TestConfig())),
	}, opts...)
	a, err := NewAnalyzer(cfg, source, opts...)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	a.Renderer().SetOutput(&bytes.Buffer{})
	return a
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAnalyzer_AnalyzeFile(t *testing.T) {
	source := newSource()
	a := newTestAnalyzer(t, source)
	path := writeFile(t, t.TempDir(), "episode01.srt", sampleSRT)

	report, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}

	if _, err := uuid.Parse(report.ID); err != nil {
		t.Errorf("expected UUID id, got %q", report.ID)
	}
	if report.Title != "episode01" {
		t.Errorf("expected title from file name, got %q", report.Title)
	}
	if strings.Join(source.words, ",") != "猫,食べる,学校" {
		t.Errorf("unexpected lookup words: %v", source.words)
	}

	want := model.Stats{
		Lines:             2,
		Characters:        14,
		Lemmas:            4,
		UniqueLemmas:      3,
		KnownLemmas:       2,
		AvgSentenceLength: 7,
	}
	if report.Stats != want {
		t.Errorf("stats = %+v, want %+v", report.Stats, want)
	}
	if report.JLPT.N5 != 3 {
		t.Errorf("expected 3 N5 occurrences, got %d", report.JLPT.N5)
	}
	if report.Score.TotalPoints != 30 {
		t.Errorf("expected 30 total points, got %d", report.Score.TotalPoints)
	}
	if report.Score.Level != "N5" {
		t.Errorf("expected level N5, got %q", report.Score.Level)
	}
	if len(report.DifficultWords) != 2 || report.DifficultWords[0].Word != "猫" {
		t.Errorf("unexpected difficult words: %+v", report.DifficultWords)
	}
	if !report.Principles.LLMIndependent {
		t.Error("expected default principles")
	}
	if report.LLM != nil {
		t.Error("no study notes without a provider")
	}
}

func TestAnalyzer_AnalyzeFilesPoolsInputs(t *testing.T) {
	source := newSource()
	a := newTestAnalyzer(t, source)
	dir := t.TempDir()
	first := writeFile(t, dir, "a.srt", sampleSRT)
	second := writeFile(t, dir, "b.txt", "猫 猫\n")

	report, err := a.AnalyzeFiles(context.Background(), []string{first, second}, "")
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}
	if report.Title != "a (+1 more)" {
		t.Errorf("unexpected title %q", report.Title)
	}
	if len(report.Files) != 2 {
		t.Errorf("expected 2 files, got %v", report.Files)
	}
	if report.Stats.Lines != 3 || report.Stats.Lemmas != 6 {
		t.Errorf("unexpected stats %+v", report.Stats)
	}
	if source.calls != 1 {
		t.Errorf("expected one pooled lookup, got %d", source.calls)
	}
}

func TestAnalyzer_AnalyzeText(t *testing.T) {
	a := newTestAnalyzer(t, newSource())

	report, err := a.AnalyzeText(context.Background(), "clip.txt", []byte("猫 を 食べました"), "Clip")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if report.Title != "Clip" || report.Stats.Lemmas != 2 {
		t.Errorf("unexpected report %+v", report.Stats)
	}
}

func TestAnalyzer_LookupGapsSignal(t *testing.T) {
	source := newSource()
	source.failed = 2
	a := newTestAnalyzer(t, source)

	report, err := a.AnalyzeText(context.Background(), "x.txt", []byte("猫"), "")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	var found bool
	for _, s := range report.Score.Signals {
		if s.Type == model.SignalLookupGaps {
			found = true
			if s.Data["failed_batches"] != 2 {
				t.Errorf("unexpected signal data %v", s.Data)
			}
		}
	}
	if !found {
		t.Error("expected a lookup_gaps signal")
	}
}

func TestAnalyzer_Errors(t *testing.T) {
	t.Run("lookup failure", func(t *testing.T) {
		source := newSource()
		source.err = context.Canceled
		a := newTestAnalyzer(t, source)
		_, err := a.AnalyzeText(context.Background(), "x.txt", []byte("猫"), "")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected wrapped context error, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		a := newTestAnalyzer(t, newSource())
		if _, err := a.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "nope.srt")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("no files", func(t *testing.T) {
		a := newTestAnalyzer(t, newSource())
		if _, err := a.AnalyzeFiles(context.Background(), nil, ""); err == nil {
			t.Error("expected error for empty input")
		}
	})
}

func TestAnalyzer_EmptyFileSkipsLookup(t *testing.T) {
	source := newSource()
	a := newTestAnalyzer(t, source)
	path := writeFile(t, t.TempDir(), "empty.srt", "")

	report, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if source.calls != 0 {
		t.Errorf("expected no lookup for empty text, got %d calls", source.calls)
	}
	if report.Score.Level != "-" {
		t.Errorf("expected untagged level, got %q", report.Score.Level)
	}
}

func TestAnalyzer_StudyNotesAfterScoring(t *testing.T) {
	provider := &stubProvider{summary: "「猫」 is a basic noun."}
	summarizer := llm.NewSummarizerWithProvider(provider, llm.Config{Model: "stub-1", StrictVocabulary: true})
	a := newTestAnalyzer(t, newSource(), WithSummarizer(summarizer))

	report, err := a.AnalyzeText(context.Background(), "x.txt", []byte("猫 を 食べました"), "")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if report.LLM == nil || !report.LLM.Enabled {
		t.Fatalf("expected study notes, got %+v", report.LLM)
	}
	if report.LLM.SummaryMD != provider.summary {
		t.Errorf("unexpected notes %q", report.LLM.SummaryMD)
	}
	if provider.req.Report.Score.TotalPoints != report.Score.TotalPoints {
		t.Error("expected the scored report to be passed to the provider")
	}
}

func TestAnalyzer_RenderReport(t *testing.T) {
	a := newTestAnalyzer(t, newSource())
	var stdout bytes.Buffer
	a.Renderer().SetOutput(&stdout)

	report, err := a.AnalyzeText(context.Background(), "x.txt", []byte("猫 を 食べました"), "Sample")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	report.LLM = &model.LLMSummary{Enabled: true, Provider: "stub", SummaryMD: "notes"}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out.json")
	mdPath := filepath.Join(dir, "out.md")
	if err := a.RenderReport(report, jsonPath, mdPath); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}

	for _, p := range []string{jsonPath, mdPath, filepath.Join(dir, "out.llm.md")} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", filepath.Base(p), err)
		}
	}
	if !strings.Contains(stdout.String(), "Sample") {
		t.Errorf("expected summary on stdout, got %q", stdout.String())
	}
}

func TestLLMNotesPath(t *testing.T) {
	if got := LLMNotesPath("out/report.md"); got != "out/report.llm.md" {
		t.Errorf("LLMNotesPath = %q", got)
	}
	if got := LLMNotesPath("report"); got != "report.llm.md" {
		t.Errorf("LLMNotesPath = %q", got)
	}
}
