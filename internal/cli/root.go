// Package cli implements the reckon command tree.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/docintel/reckon/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reckon",
	Short: "Reckon - investigative document intelligence pipeline",
	Long: `Reckon processes publicly released investigation documents into a
structured intelligence record store.

Each document is fetched and normalized, passed through three analysis
stages (extraction, verification against prior records, decision), and
persisted with full dedup semantics and an append-only audit trail.

Names flagged as possible victims are never written as person records;
they are diverted to a human-review queue. This is non-negotiable.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("reckon v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.reckon/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.reckon")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match RECKON_*
	viper.SetEnvPrefix("RECKON")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the runtime configuration from defaults, the config
// file, and environment variables. Secrets come only from the environment.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	// The config file is plain YAML over the defaults; viper handles
	// discovery and the environment, yaml.v3 handles decoding.
	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if provider := viper.GetString("oracle_provider"); provider != "" {
		cfg.Oracle.Provider = provider
	}
	if endpoint := viper.GetString("telemetry_endpoint"); endpoint != "" {
		cfg.Telemetry.Endpoint = endpoint
	}

	switch cfg.Oracle.Provider {
	case "openai":
		cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Oracle.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.Oracle.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Oracle.BaseURL = baseURL
		}
	}

	cfg.Output.Verbose = verbose
	return cfg, nil
}

// resolveStoreURL pulls the postgres connection string from the environment.
// The memory driver needs none.
func resolveStoreURL(cfg *model.Config) error {
	if cfg.Store.Driver != "postgres" && cfg.Store.Driver != "" {
		return nil
	}

	cfg.Store.URL = os.Getenv("RECKON_DATABASE_URL")
	if cfg.Store.URL == "" {
		cfg.Store.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Store.URL == "" {
		return fmt.Errorf("RECKON_DATABASE_URL environment variable not set (or use --store memory)")
	}
	return nil
}

// newLogger builds the process logger; verbose enables debug output
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	return cfg.Build()
}

// batchStamp derives a batch id from the current time when none is given
func batchStamp() string {
	return "batch-" + time.Now().UTC().Format("20060102-150405")
}
