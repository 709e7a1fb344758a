package validate

import (
	"testing"

	"github.com/ppiankov/jimaku/internal/model"
)

func validConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Lookup.BaseURL = "https://ref.example.com"
	cfg.Lookup.APIKey = "anon"
	return cfg
}

func fields(problems []Problem) map[string]Severity {
	out := make(map[string]Severity, len(problems))
	for _, p := range problems {
		out[p.Field] = p.Severity
	}
	return out
}

func TestCheckConfig_Valid(t *testing.T) {
	if problems := CheckConfig(validConfig()); len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

func TestCheckConfig_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Config)
		field  string
		want   Severity
	}{
		{"missing base url", func(c *model.Config) { c.Lookup.BaseURL = "" }, "lookup.base_url", SeverityError},
		{"relative base url", func(c *model.Config) { c.Lookup.BaseURL = "ref.example.com" }, "lookup.base_url", SeverityError},
		{"missing api key", func(c *model.Config) { c.Lookup.APIKey = "" }, "lookup.api_key", SeverityWarning},
		{"zero batch", func(c *model.Config) { c.Lookup.BatchSize = 0 }, "lookup.batch_size", SeverityError},
		{"bad proxy", func(c *model.Config) { c.Lookup.Proxy = "ftp://proxy" }, "lookup.proxy", SeverityError},
		{"unknown segmenter", func(c *model.Config) { c.Analysis.Segmenter = "mecab" }, "analysis.segmenter", SeverityWarning},
		{"cache without dir", func(c *model.Config) { c.Cache.Dir = "" }, "cache.dir", SeverityError},
		{"unknown provider", func(c *model.Config) { c.LLM.Provider = "bard" }, "llm.provider", SeverityError},
		{"openai without key", func(c *model.Config) { c.LLM.Provider = "openai" }, "llm.api_key", SeverityError},
		{"hot temperature", func(c *model.Config) { c.LLM.Temperature = 3 }, "llm.temperature", SeverityWarning},
		{"unknown log level", func(c *model.Config) { c.Log.Level = "loud" }, "log.level", SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			got := fields(CheckConfig(cfg))
			if sev, ok := got[tt.field]; !ok || sev != tt.want {
				t.Errorf("expected %s %s, got %v", tt.want, tt.field, got)
			}
		})
	}
}

func TestCheckConfig_OllamaNeedsNoKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "ollama"
	if _, ok := fields(CheckConfig(cfg))["llm.api_key"]; ok {
		t.Error("ollama should not require an API key")
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors([]Problem{{Severity: SeverityWarning}}) {
		t.Error("warnings alone are not errors")
	}
	if !HasErrors([]Problem{{Severity: SeverityWarning}, {Severity: SeverityError}}) {
		t.Error("expected error detected")
	}
}
