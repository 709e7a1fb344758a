// Demo program printing how the lemma cascade resolves sample subtitle lines.
// Pass lines as arguments to probe your own text.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/jimaku/internal/extract"
	"github.com/ppiankov/jimaku/internal/lemma"
	"github.com/ppiankov/jimaku/internal/segment"
)

func main() {
	fmt.Println("=== Lemma Cascade Probe ===")
	fmt.Println()

	lines := os.Args[1:]
	if len(lines) == 0 {
		lines = []string{
			"<i>昨日は本を三冊読みました</i>",
			"田中(たなか)：先生がいらっしゃいます",
			"一緒に勉強しませんか？",
			"雨が降り始めたから、帰ろう",
			"ありがとうございました♪",
			"子供たちは食べ過ぎていた",
		}
	}

	seg, err := segment.NewKagome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load the segmenter dictionary: %v\n", err)
		os.Exit(1)
	}
	cleaner := extract.NewCleaner()

	for _, raw := range lines {
		text := cleaner.Clean(raw)
		fmt.Printf("Line: %s\n", raw)
		fmt.Printf("Text: %s\n", text)
		fmt.Println(strings.Repeat("-", 60))

		var all []lemma.Lemma
		for _, tok := range seg.Segment(text) {
			if !tok.WordLike {
				continue
			}
			ex := lemma.Explain(tok)
			all = append(all, ex.Lemmas...)

			stage := ex.Stage
			if ex.Rule != "" {
				stage += "/" + ex.Rule
			}
			result := "(dropped)"
			if len(ex.Lemmas) > 0 {
				result = strings.Join(lemma.Strings(ex.Lemmas), " + ")
			}
			fmt.Printf("  %-14s %-22s → %s\n", tok.Surface, stage, result)
		}

		fmt.Printf("  Lemmas: %s\n\n", strings.Join(lemma.Strings(all), " "))
	}

	fmt.Println("=== Probe Complete ===")
	fmt.Println("\nNote: the cascade is heuristic; a plausible but wrong lemma is an")
	fmt.Println("expected failure mode, never a crash.")
}
