// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-agent/internal/agent"
	"github.com/pdiddy/paper-agent/internal/catalog"
	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/repl"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive research paper assistant",
	Long: `Chat reads requests line by line. Each request is sent to the model,
which answers with a paper_search_tool call; the call runs against the
catalog and the matching papers are printed.

Type "evaluate" to have the model grade its previous answer, and "exit"
or "quit" to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper(), loadedSecrets)

	backend, err := llm.New(cfg.AI, logger)
	if err != nil {
		return err
	}

	cat, err := catalog.Open(cfg.Catalog, catalog.Default())
	if err != nil {
		return err
	}
	defer cat.Close()

	logger.Debug("starting chat",
		zap.String("provider", string(cfg.AI.Provider)),
		zap.String("model", cfg.AI.Model),
		zap.String("catalog", string(cfg.Catalog.Backend)),
		zap.Bool("native_tools", cfg.Agent.NativeToolCalls))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	assistant := agent.New(backend, cat, cfg.Agent, logger)
	return repl.NewSession(assistant, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Run(ctx)
}
