// Package validate checks a jimaku configuration before analysis: static
// problems in the settings, and reachability of the remote endpoints.
package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/jimaku/internal/logger"
	"github.com/ppiankov/jimaku/internal/model"
)

// Severity classifies a configuration problem
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Problem is one finding about a configuration value
type Problem struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s %s: %s", p.Severity, p.Field, p.Message)
}

var (
	knownSegmenters = []string{"kagome", "whitespace", "space"}
	knownProviders  = []string{"", "openai", "anthropic", "claude", "ollama"}
)

// CheckConfig reports settings that would make analysis fail or misbehave
func CheckConfig(cfg *model.Config) []Problem {
	var problems []Problem
	add := func(field string, sev Severity, format string, args ...interface{}) {
		problems = append(problems, Problem{Field: field, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Lookup.BaseURL == "" {
		add("lookup.base_url", SeverityError, "not set; lookups cannot run")
	} else if err := checkURL(cfg.Lookup.BaseURL); err != nil {
		add("lookup.base_url", SeverityError, "%v", err)
	}
	if cfg.Lookup.APIKey == "" {
		add("lookup.api_key", SeverityWarning, "not set; most hosted APIs reject anonymous requests")
	}
	if cfg.Lookup.Proxy != "" {
		if err := checkURL(cfg.Lookup.Proxy); err != nil {
			add("lookup.proxy", SeverityError, "%v", err)
		}
	}
	if cfg.Lookup.BatchSize <= 0 {
		add("lookup.batch_size", SeverityError, "must be positive, got %d", cfg.Lookup.BatchSize)
	}
	if cfg.Lookup.MaxAttempts <= 0 {
		add("lookup.max_attempts", SeverityWarning, "%d means a single attempt", cfg.Lookup.MaxAttempts)
	}
	if cfg.Lookup.Timeout <= 0 {
		add("lookup.timeout", SeverityWarning, "no request timeout")
	}

	if !contains(knownSegmenters, strings.ToLower(cfg.Analysis.Segmenter)) {
		add("analysis.segmenter", SeverityWarning, "unknown segmenter %q, kagome will be used", cfg.Analysis.Segmenter)
	}

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		add("cache.dir", SeverityError, "cache is enabled but has no directory")
	}
	if cfg.Concurrency.Workers <= 0 {
		add("concurrency.workers", SeverityWarning, "%d workers, the CPU count will be used", cfg.Concurrency.Workers)
	}
	if cfg.RateLimiting.BatchDelay < 0 {
		add("rate_limiting.batch_delay", SeverityError, "must not be negative")
	}
	if cfg.Scoring.DifficultWords < 0 {
		add("scoring.difficult_words", SeverityError, "must not be negative")
	}
	if cfg.History.Enabled && cfg.History.Dir == "" {
		add("history.dir", SeverityError, "history is enabled but has no directory")
	}

	provider := strings.ToLower(cfg.LLM.Provider)
	switch {
	case !contains(knownProviders, provider):
		add("llm.provider", SeverityError, "unknown provider %q", cfg.LLM.Provider)
	case (provider == "openai" || provider == "anthropic" || provider == "claude") && cfg.LLM.APIKey == "":
		add("llm.api_key", SeverityError, "provider %s needs an API key", provider)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		add("llm.temperature", SeverityWarning, "%.2f is outside 0..2", cfg.LLM.Temperature)
	}

	if !logLevelKnown(cfg.Log.Level) {
		add("log.level", SeverityWarning, "unknown level %q, warn will be used", cfg.Log.Level)
	}

	return problems
}

// HasErrors reports whether any problem is an error
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

func logLevelKnown(level string) bool {
	if level == "" {
		return true
	}
	return string(logger.ParseLevel(level)) == strings.ToLower(level)
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
