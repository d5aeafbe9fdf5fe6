// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-agent CLI. Run without a
// subcommand it starts the interactive research paper assistant.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/paper-agent/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is replaced in PersistentPreRunE.
	logger = zap.NewNop()

	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command for the paper-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-agent",
	Short: "Conversational search over a small research paper catalog",
	Long: `paper-agent answers natural-language questions about research papers.
A language model translates each request into a paper_search_tool call
(topic, year comparator, year, minimum citations); the call runs against
a fixed catalog and the matches are printed.

Type "evaluate" in the chat to have the model grade its previous answer.
Use "search" to query the catalog directly without a model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runChat,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./paper-agent.yaml or ~/.config/paper-agent/paper-agent.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("provider", "", "LLM provider: mistral, claude, or ollama")
	pf.String("model", "", "model identifier")
	pf.String("catalog-backend", "", "catalog backend: memory or sqlite")
	pf.String("catalog-file", "", "YAML file replacing the built-in paper catalog")
	pf.Bool("native-tools", false, "offer the search tool as a structured tool call")

	bindConfig()
}

// bindConfig registers defaults and binds persistent flags to their keys on
// the global viper instance.
func bindConfig() {
	setDefaults(viper.GetViper())
	pf := rootCmd.PersistentFlags()
	for key, flag := range flagKeys {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

// flagKeys maps configuration keys to the persistent flags that set them.
var flagKeys = map[string]string{
	"verbose":                 "verbose",
	"ai.provider":             "provider",
	"ai.model":                "model",
	"catalog.backend":         "catalog-backend",
	"catalog.file":            "catalog-file",
	"agent.native_tool_calls": "native-tools",
}

// loadDotEnv loads environment files (default .env) into the process
// environment. It runs before the logger exists, so problems other than a
// missing file are written to w.
func loadDotEnv(w io.Writer, filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(w, "warning: reading .env: %v\n", err)
	}
}

func initConfig() {
	loadDotEnv(os.Stderr)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-agent"))
		}
	}

	viper.SetEnvPrefix("PAPER_AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
