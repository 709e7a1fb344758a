package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/jimaku/internal/model"
)

var (
	outJSON      string
	outMD        string
	title        string
	timeout      time.Duration
	segmenter    string
	noCache      bool
	noFooter     bool
	noHistory    bool
	includeWords bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze subtitle files and generate a vocabulary difficulty report",
	Long: `Analyze pools every given subtitle file into one report:
- Clean dialogue lines (tags, furigana, speaker names, sound effects)
- Segment and reduce words to dictionary forms
- Look lemmas up in the BCCWJ frequency and JLPT tables
- Score difficulty and explain every signal

Example:
  jimaku analyze episode01.srt
  jimaku analyze ep01.srt ep02.srt --title "Season 1" --md report.md
  jimaku analyze movie.ass --llm --llm-provider anthropic`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&title, "title", "", "report title (default: first file name)")
	analyzeCmd.Flags().BoolVar(&includeWords, "words", false, "include every scored word in the JSON report")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not save the analysis to history")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")

	addAnalysisFlags(analyzeCmd)
}

// addAnalysisFlags registers the flags shared by analyze and batch
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&segmenter, "segmenter", "", "segmenter (kagome, whitespace)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the lookup cache")

	// LLM flags
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM study notes")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default: config llm.model)")
}

// analysisConfig loads configuration and applies command flags
func analysisConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	if segmenter != "" {
		cfg.Analysis.Segmenter = segmenter
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if f := cmd.Flags().Lookup("no-footer"); f != nil && f.Changed {
		cfg.Output.IncludeFooter = !noFooter
	}
	if f := cmd.Flags().Lookup("words"); f != nil && f.Changed {
		cfg.Output.IncludeWords = includeWords
	}
	if noHistory {
		cfg.History.Enabled = false
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		cfg.LLM.StrictVocabulary = true // Always enforce from the CLI

		applyProviderEnv(cfg)

		switch cfg.LLM.Provider {
		case "openai":
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		}
	}

	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := analysisConfig(cmd)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d file(s) with the %s segmenter\n", len(args), cfg.Analysis.Segmenter)
	}

	report, err := analyzer.AnalyzeFiles(ctx, args, title)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d lemmas, %d unique, %d found in BCCWJ\n",
			report.Stats.Lemmas, report.Stats.UniqueLemmas, report.Stats.KnownLemmas)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated study notes using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
	}

	if err := analyzer.RenderReport(report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	saveHistory(cfg, report)
	return nil
}
