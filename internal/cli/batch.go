package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/ppiankov/jimaku/internal/llm"
	"github.com/ppiankov/jimaku/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	noMarkdown   bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file|dir|@list>...",
	Short: "Analyze many subtitle files in parallel, one report each",
	Long: `Batch analyzes each subtitle file on its own:
- Inputs may be files, directories (searched recursively) or @list files
  with one path per line
- Files are processed concurrently by a worker pool
- Reference lookups share one cache and one rate limit
- A JSON and Markdown report is written per file

Example:
  jimaku batch season1/
  jimaku batch @episodes.txt --concurrency 8 --output-dir ./reports
  jimaku batch ep01.srt ep02.srt --no-md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: config concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./jimaku-reports", "output directory for reports")
	batchCmd.Flags().BoolVar(&noMarkdown, "no-md", false, "skip Markdown reports")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not save analyses to history")
	batchCmd.Flags().BoolVar(&includeWords, "words", false, "include every scored word in the JSON reports")

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	addAnalysisFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := analysisConfig(cmd)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	paths, err := worker.ExpandInputs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no subtitle files found in %s", strings.Join(args, ", "))
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  jimaku batch analysis\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Files:        %d\n", len(paths))
	fmt.Fprintf(errOut, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(errOut, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(errOut, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(errOut, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(errOut, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}
	renderer := analyzer.Renderer()

	processor := worker.NewBatchProcessor(analyzer, cfg.Concurrency.Workers)
	results := processor.ProcessFiles(ctx, paths)

	successCount := 0
	failureCount := 0
	names := newNameAllocator()

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(errOut, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		report := result.Report
		base := filepath.Join(outputDir, names.next(report.Title))

		if err := renderer.RenderJSON(report, base+".json"); err != nil {
			failureCount++
			fmt.Fprintf(errOut, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if !noMarkdown {
			if err := renderer.RenderMarkdown(report, base+".md"); err != nil {
				failureCount++
				fmt.Fprintf(errOut, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
				continue
			}
			if report.LLM != nil && report.LLM.Enabled {
				if err := renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), base+".llm.md"); err != nil {
					fmt.Fprintf(errOut, "! %s: failed to write study notes: %v\n", result.Path, err)
				}
			}
		}

		successCount++
		saveHistory(cfg, report)
		fmt.Fprintf(errOut, "✓ %s (difficulty %d, level %s)\n", result.Path, report.Score.Difficulty, report.Score.Level)
	}

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "  Batch complete\n")
	fmt.Fprintf(errOut, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Total:     %d files\n", len(results))
	fmt.Fprintf(errOut, "  Success:   %d\n", successCount)
	fmt.Fprintf(errOut, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(errOut, "  Output:    %s\n", outputDir)
	fmt.Fprintf(errOut, "\n")

	if successCount == 0 {
		return fmt.Errorf("all %d files failed", len(results))
	}
	return nil
}

// nameAllocator turns report titles into unique file-name stems
type nameAllocator struct {
	seen map[string]int
}

func newNameAllocator() *nameAllocator {
	return &nameAllocator{seen: make(map[string]int)}
}

func (n *nameAllocator) next(title string) string {
	name := reportName(title)
	n.seen[name]++
	if c := n.seen[name]; c > 1 {
		return fmt.Sprintf("%s-%d", name, c)
	}
	return name
}

// reportName slugifies title for use as a file name
func reportName(title string) string {
	name := slug.Make(title)
	if name == "" {
		name = "report"
	}
	if len(name) > 100 {
		name = strings.TrimRight(name[:100], "-")
	}
	return name
}
