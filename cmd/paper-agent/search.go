// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-agent/internal/catalog"
	"github.com/pdiddy/paper-agent/internal/toolcall"
	"github.com/pdiddy/paper-agent/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the paper catalog without a model",
	Long: `Search runs paper_search_tool directly. The topic is matched as a
case-insensitive substring, the comparator (before, after, in) relates
publication year to --year, and --citations is the inclusive minimum.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("topic", "", "topic substring (empty matches every topic)")
	searchCmd.Flags().String("comparator", string(types.ComparatorIn), "year relation: before, after, or in")
	searchCmd.Flags().Int("year", 0, "reference publication year")
	searchCmd.Flags().Int("citations", 0, "minimum citation count")
	addFormatFlags(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	comparator, _ := cmd.Flags().GetString("comparator")
	year, _ := cmd.Flags().GetInt("year")
	citations, _ := cmd.Flags().GetInt("citations")

	q := types.SearchQuery{
		Topic:      topic,
		Comparator: types.Comparator(comparator),
		Year:       year,
		Citations:  citations,
	}
	if err := toolcall.Validate(q); err != nil {
		return err
	}

	cfg := loadConfig(viper.GetViper(), loadedSecrets)
	cat, err := catalog.Open(cfg.Catalog, catalog.Default())
	if err != nil {
		return err
	}
	defer cat.Close()

	results, err := cat.Search(context.Background(), q)
	if err != nil {
		return err
	}
	logger.Debug("search", zap.String("call", toolcall.Format(q)), zap.Int("matches", len(results)))

	format := outputFormat(cmd)
	if format == "table" && len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No papers matched your query.")
		return nil
	}
	return catalog.Write(cmd.OutOrStdout(), format, results)
}

// addFormatFlags registers the mutually exclusive --json and --yaml flags.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "output results as JSON")
	cmd.Flags().Bool("yaml", false, "output results as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// outputFormat returns the format selected by --json or --yaml.
func outputFormat(cmd *cobra.Command) string {
	if v, _ := cmd.Flags().GetBool("json"); v {
		return "json"
	}
	if v, _ := cmd.Flags().GetBool("yaml"); v {
		return "yaml"
	}
	return "table"
}
