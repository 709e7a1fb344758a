package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/jimaku/internal/model"
	"github.com/ppiankov/jimaku/internal/validate"
)

// secretKeys are omitted from the default YAML, so AutomaticEnv alone
// would never see them
var secretKeys = []string{
	"lookup.api_key",
	"lookup.proxy",
	"llm.api_key",
	"llm.base_url",
	"llm.proxy",
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jimaku configuration",
	Long: `Manage jimaku configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (JIMAKU_*)
3. Config file (~/.jimaku/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file and environment. API keys are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", used)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(maskSecrets(*cfg))
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.jimaku/config.yaml with every available option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := writeDefaultConfig(path); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", path)
		fmt.Fprintf(out, "\nSet the reference API before analyzing:\n")
		fmt.Fprintf(out, "  lookup.base_url in the file, or JIMAKU_LOOKUP_BASE_URL / JIMAKU_LOOKUP_API_KEY\n")
		return nil
	},
}

var checkOnline bool

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the configuration and probe remote endpoints",
	Long: `Check reports configuration values that would make analysis fail. With
--online it also probes the reference tables and the LLM provider.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		problems := validate.CheckConfig(cfg)
		if len(problems) == 0 {
			fmt.Fprintln(out, "✓ Configuration looks good")
		}
		for _, p := range problems {
			mark := "!"
			if p.Severity == validate.SeverityError {
				mark = "✗"
			}
			fmt.Fprintf(out, "%s %s: %s\n", mark, p.Field, p.Message)
		}

		unreachable := 0
		if checkOnline {
			v, err := validate.NewValidator(cfg.Lookup.Timeout, cfg.Concurrency.Workers, cfg.Lookup.Proxy)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			fmt.Fprintln(out)
			for _, r := range v.Validate(ctx, validate.EndpointsFromConfig(cfg)) {
				if r.Reachable {
					fmt.Fprintf(out, "✓ %-16s %d in %v\n", r.Name, r.StatusCode, r.Latency.Round(time.Millisecond))
					continue
				}
				unreachable++
				fmt.Fprintf(out, "✗ %-16s %s (after %d attempts)\n", r.Name, r.Error, r.Attempts)
			}
		}

		if validate.HasErrors(problems) || unreachable > 0 {
			return fmt.Errorf("configuration check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)

	configCheckCmd.Flags().BoolVar(&checkOnline, "online", false, "probe the configured endpoints")
}

// registerDefaults feeds every default value to viper so environment
// overrides are visible to Unmarshal
func registerDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}
	setDefaults(v, "", tree)

	for _, key := range secretKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]interface{}) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if sub, ok := value.(map[string]interface{}); ok {
			setDefaults(v, full, sub)
			continue
		}
		v.SetDefault(full, value)
	}
}

// loadConfig decodes the merged viper state and fills provider API keys
// from their conventional environment variables
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyProviderEnv(cfg)
	return cfg, nil
}

// applyProviderEnv fills an empty LLM key or Ollama URL from the
// provider's conventional environment variable
func applyProviderEnv(cfg *model.Config) {
	if cfg.LLM.APIKey == "" {
		switch strings.ToLower(cfg.LLM.Provider) {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.LLM.BaseURL == "" && strings.EqualFold(cfg.LLM.Provider, "ollama") {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
}

// maskSecrets hides all but the last four characters of API keys
func maskSecrets(cfg model.Config) model.Config {
	cfg.Lookup.APIKey = maskKey(cfg.Lookup.APIKey)
	cfg.LLM.APIKey = maskKey(cfg.LLM.APIKey)
	return cfg
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// writeDefaultConfig creates path with the commented default configuration.
// An existing file is never overwritten.
func writeDefaultConfig(path string) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'jimaku config show' to view it, or delete it first to recreate", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	// Helper for writing with error checking
	printf := func(format string, a ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# jimaku configuration file\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (JIMAKU_*, e.g. JIMAKU_LOOKUP_BASE_URL)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n\n")
	printf("%s", yamlData)
	printf("\n# API keys are best kept in the environment:\n")
	printf("#   export JIMAKU_LOOKUP_API_KEY=...\n")
	printf("#   export OPENAI_API_KEY=sk-...\n")
	printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
	printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")

	return err
}
