package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds every tunable setting. Values are layered by the CLI:
// flags > JIMAKU_* environment > ~/.jimaku/config.yaml > DefaultConfig.
type Config struct {
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	Lookup       LookupConfig       `yaml:"lookup" mapstructure:"lookup"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Scoring      ScoringConfig      `yaml:"scoring" mapstructure:"scoring"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	History      HistoryConfig      `yaml:"history" mapstructure:"history"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig selects the text pipeline components
type AnalysisConfig struct {
	Segmenter string `yaml:"segmenter" mapstructure:"segmenter"` // kagome or whitespace
}

// LookupConfig configures the reference-table REST API
type LookupConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BCCWJTable  string        `yaml:"bccwj_table" mapstructure:"bccwj_table"`
	JLPTTable   string        `yaml:"jlpt_table" mapstructure:"jlpt_table"`
	BatchSize   int           `yaml:"batch_size" mapstructure:"batch_size"`
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffStep time.Duration `yaml:"backoff_step" mapstructure:"backoff_step"` // Attempt n waits n*BackoffStep
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent   string        `yaml:"user_agent" mapstructure:"user_agent"`
	Proxy       string        `yaml:"proxy,omitempty" mapstructure:"proxy"`
}

// CacheConfig configures the lookup cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
}

// ConcurrencyConfig configures the file worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig configures request pacing against the lookup API
type RateLimitingConfig struct {
	BatchDelay time.Duration `yaml:"batch_delay" mapstructure:"batch_delay"` // Minimum gap between batches
	Burst      int           `yaml:"burst" mapstructure:"burst"`
}

// ScoringConfig configures difficulty scoring
type ScoringConfig struct {
	DifficultWords     int  `yaml:"difficult_words" mapstructure:"difficult_words"`
	DropRareKanji      bool `yaml:"drop_rare_kanji" mapstructure:"drop_rare_kanji"`
	RareKanjiRankLimit int  `yaml:"rare_kanji_rank_limit" mapstructure:"rare_kanji_rank_limit"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	IncludeWords  bool   `yaml:"include_words" mapstructure:"include_words"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LLMConfig configures optional study-note generation
type LLMConfig struct {
	Provider         string        `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, or empty
	Model            string        `yaml:"model" mapstructure:"model"`
	APIKey           string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL          string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Temperature      float32       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens        int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout"`
	StrictVocabulary bool          `yaml:"strict_vocabulary" mapstructure:"strict_vocabulary"`
	Proxy            string        `yaml:"proxy,omitempty" mapstructure:"proxy"`
}

// HistoryConfig configures the local analysis history
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// HomeDir returns the jimaku state directory (~/.jimaku), or ".jimaku"
// when the home directory cannot be determined.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jimaku"
	}
	return filepath.Join(home, ".jimaku")
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	base := HomeDir()
	return &Config{
		Analysis: AnalysisConfig{
			Segmenter: "kagome",
		},
		Lookup: LookupConfig{
			BCCWJTable:  "bccwj",
			JLPTTable:   "jlpt",
			BatchSize:   35,
			MaxAttempts: 10,
			BackoffStep: time.Second,
			Timeout:     30 * time.Second,
			UserAgent:   "jimaku/0.3 (+https://github.com/ppiankov/jimaku)",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			TTL:       30 * 24 * time.Hour,
			MemoryTTL: time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			BatchDelay: 200 * time.Millisecond,
			Burst:      1,
		},
		Scoring: ScoringConfig{
			DifficultWords:     20,
			DropRareKanji:      true,
			RareKanjiRankLimit: 10000,
		},
		Output: OutputConfig{
			Dir:           ".",
			IncludeWords:  false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Model:            "gpt-4o-mini",
			Temperature:      0.3,
			MaxTokens:        1200,
			Timeout:          60 * time.Second,
			StrictVocabulary: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Dir:     filepath.Join(base, "history"),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
