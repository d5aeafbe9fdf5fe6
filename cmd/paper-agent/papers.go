// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-agent/internal/catalog"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List every paper in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(viper.GetViper(), loadedSecrets)
		cat, err := catalog.Open(cfg.Catalog, catalog.Default())
		if err != nil {
			return err
		}
		defer cat.Close()

		return catalog.Write(cmd.OutOrStdout(), outputFormat(cmd), cat.Papers())
	},
}

func init() {
	addFormatFlags(papersCmd)
	rootCmd.AddCommand(papersCmd)
}
