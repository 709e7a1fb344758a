package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/jimaku/internal/extract/adapters"
	"github.com/ppiankov/jimaku/internal/lemma"
	"github.com/ppiankov/jimaku/internal/segment"
)

var (
	lemmaFile    string
	lemmaExplain bool
	lemmaJSON    bool
	lemmaCounts  bool
)

// lemmasCmd represents the lemmas command
var lemmasCmd = &cobra.Command{
	Use:   "lemmas [text]",
	Short: "Print the lemma sequence of text or a subtitle file",
	Long: `Lemmas runs cleanup, segmentation and the lemma cascade without any
reference lookup. Use it to inspect how words are reduced to dictionary
forms.

Example:
  jimaku lemmas "昨日は本を読みました"
  jimaku lemmas --file episode01.srt --counts
  jimaku lemmas "勉強しています" --explain`,
	Args: cobra.ArbitraryArgs,
	RunE: runLemmas,
}

func init() {
	rootCmd.AddCommand(lemmasCmd)

	lemmasCmd.Flags().StringVarP(&lemmaFile, "file", "f", "", "subtitle file to read instead of arguments")
	lemmasCmd.Flags().BoolVar(&lemmaExplain, "explain", false, "show the stage and rule that resolved each token")
	lemmasCmd.Flags().BoolVar(&lemmaJSON, "json", false, "print JSON")
	lemmasCmd.Flags().BoolVar(&lemmaCounts, "counts", false, "print occurrence counts instead of the sequence")
	lemmasCmd.Flags().StringVar(&segmenter, "segmenter", "", "segmenter (kagome, whitespace)")
}

func runLemmas(cmd *cobra.Command, args []string) error {
	lines, err := lemmaInput(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if segmenter != "" {
		cfg.Analysis.Segmenter = segmenter
	}
	seg, err := segment.New(cfg.Analysis.Segmenter)
	if err != nil {
		return fmt.Errorf("create segmenter: %w", err)
	}

	out := cmd.OutOrStdout()
	var tokens []lemma.RawToken
	for _, line := range lines {
		tokens = append(tokens, seg.Segment(line)...)
	}

	switch {
	case lemmaExplain:
		explanations := make([]lemma.Explanation, 0, len(tokens))
		for _, tok := range tokens {
			if !tok.WordLike {
				continue
			}
			explanations = append(explanations, lemma.Explain(tok))
		}
		if lemmaJSON {
			return writeJSON(out, explanations)
		}
		for _, ex := range explanations {
			printExplanation(out, ex)
		}
	case lemmaCounts:
		counts := lemma.Tally(lemma.Normalize(tokens))
		if lemmaJSON {
			return writeJSON(out, counts)
		}
		for _, c := range counts {
			fmt.Fprintf(out, "%6d  %s\n", c.N, c.Lemma)
		}
	default:
		lemmas := lemma.Strings(lemma.Normalize(tokens))
		if lemmaJSON {
			return writeJSON(out, lemmas)
		}
		fmt.Fprintln(out, strings.Join(lemmas, " "))
	}
	return nil
}

// lemmaInput returns cleaned lines from --file, arguments or stdin
func lemmaInput(args []string) ([]string, error) {
	var (
		name string
		data []byte
		err  error
	)
	switch {
	case lemmaFile != "":
		name = lemmaFile
		data, err = os.ReadFile(lemmaFile)
	case len(args) > 0:
		name = "input.txt"
		data = []byte(strings.Join(args, "\n"))
	default:
		name = "stdin.txt"
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	doc, err := adapters.NewRegistry().ParseBytes(name, data)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		lines = append(lines, l.Text)
	}
	return lines, nil
}

func printExplanation(w io.Writer, ex lemma.Explanation) {
	surface := ex.Surface
	if ex.Trimmed != "" {
		surface += " (" + ex.Trimmed + ")"
	}
	stage := ex.Stage
	if ex.Rule != "" {
		stage += "/" + ex.Rule
	}
	result := "∅"
	if len(ex.Lemmas) > 0 {
		result = strings.Join(lemma.Strings(ex.Lemmas), " + ")
	}
	fmt.Fprintf(w, "%-16s %-24s → %s\n", surface, stage, result)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
