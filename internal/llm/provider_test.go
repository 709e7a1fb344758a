package llm

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/jimaku/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	report := sampleReport()
	report.Score.Signals = []model.Signal{{Type: model.SignalRarity, Description: "Low-frequency share: 4.0%"}}

	prompt := BuildPrompt(report, []string{"憂鬱", "猫"})

	for _, want := range []string{
		`"Episode 1"`,
		"「」",
		"- 憂鬱",
		"- 猫",
		"Difficulty score: 3",
		"Estimated level: N3",
		"rarity: Low-frequency share",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestJoinWords(t *testing.T) {
	if !strings.Contains(joinWords(nil), "No vocabulary available") {
		t.Error("expected placeholder for empty vocabulary")
	}

	words := make([]string, maxPromptWords+5)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	got := joinWords(words)
	if !strings.Contains(got, "and 5 more words") || strings.Contains(got, fmt.Sprintf("w%d", maxPromptWords)) {
		t.Errorf("expected truncation after %d words", maxPromptWords)
	}
}

func TestExtractQuotedTerms(t *testing.T) {
	got := extractQuotedTerms("「猫」 and 「 憂鬱 」, again 「猫」; empty 「」")
	if len(got) != 2 || got[0] != "猫" || got[1] != "憂鬱" {
		t.Errorf("extractQuotedTerms = %v", got)
	}
}

func TestCheckVocabulary(t *testing.T) {
	allowed := []string{"猫", "憂鬱"}

	terms, err := checkVocabulary(true, "「猫」は「憂鬱」", allowed)
	if err != nil || len(terms) != 2 {
		t.Errorf("expected allowed terms to pass: %v, %v", terms, err)
	}

	if _, err := checkVocabulary(true, "「犬」", allowed); err == nil || !strings.Contains(err.Error(), "VOCABULARY LEAK") {
		t.Errorf("expected vocabulary leak, got %v", err)
	}

	if terms, err := checkVocabulary(false, "「犬」", allowed); err != nil || len(terms) != 1 {
		t.Errorf("non-strict mode should only report terms: %v, %v", terms, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "" {
		t.Error("LLM must be disabled by default")
	}
	if !cfg.StrictVocabulary {
		t.Error("strict vocabulary must default to on")
	}
	if cfg.timeout() != 60*time.Second || (Config{}).timeout() != 60*time.Second {
		t.Error("unexpected timeout default")
	}
	if (Config{}).maxTokens(0) != 1200 || (Config{MaxTokens: 10}).maxTokens(0) != 10 || (Config{}).maxTokens(7) != 7 {
		t.Error("unexpected max token resolution")
	}
}

func TestConfigFromModel(t *testing.T) {
	mc := model.DefaultConfig().LLM
	mc.Provider = "ollama"
	mc.Proxy = "http://proxy.local:3128"

	cfg := ConfigFromModel(mc)
	if cfg.Provider != "ollama" || cfg.Model != mc.Model || cfg.Temperature != mc.Temperature || cfg.Proxy != mc.Proxy {
		t.Errorf("unexpected conversion: %+v", cfg)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		cfg     Config
		want    string
		wantErr bool
	}{
		{cfg: Config{}, want: ""},
		{cfg: Config{Provider: "openai", APIKey: "k"}, want: "openai"},
		{cfg: Config{Provider: "OpenAI"}, wantErr: true},
		{cfg: Config{Provider: "claude", APIKey: "k"}, want: "anthropic"},
		{cfg: Config{Provider: "ollama"}, want: "ollama"},
		{cfg: Config{Provider: "bogus"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Provider, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			name := ""
			if p != nil {
				name = p.Name()
			}
			if name != tt.want {
				t.Errorf("provider = %q, want %q", name, tt.want)
			}
		})
	}
}
