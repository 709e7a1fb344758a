package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/jimaku/internal/logger"
	"github.com/ppiankov/jimaku/internal/model"
)

// Version is the jimaku release, overridden at link time
var Version = "0.3.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
	logJSON  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jimaku",
	Short: "jimaku - vocabulary difficulty of Japanese subtitles",
	Long: `jimaku estimates how hard the vocabulary of Japanese subtitle files is.

Subtitle lines are cleaned, segmented and reduced to dictionary forms by a
rule-based lemma cascade. Each lemma is looked up in the BCCWJ frequency
table and the JLPT word lists; the report shows the difficulty score, the
level distribution and the hardest words.

Supported formats: SRT, WebVTT, ASS/SSA and plain text.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			level = viper.GetString("log.level")
			if verbose {
				level = string(logger.InfoLevel)
			}
		}
		logger.SetupLogger(level, logJSON || viper.GetBool("log.json"))
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of jimaku.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jimaku v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.jimaku/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setupViper(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
	}
}

// setupViper registers defaults, environment bindings and the config file.
// A missing default config file is not an error.
func setupViper(v *viper.Viper, file string) error {
	// Read in environment variables that match JIMAKU_* (lookup.base_url -> JIMAKU_LOOKUP_BASE_URL)
	v.SetEnvPrefix("JIMAKU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := registerDefaults(v, model.DefaultConfig()); err != nil {
		return err
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(model.HomeDir())
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// configPath returns the config file in use, or the default location
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(model.HomeDir(), "config.yaml")
}
