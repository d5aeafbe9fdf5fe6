// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-agent/internal/llm"
	"github.com/pdiddy/paper-agent/internal/secrets"
	"github.com/pdiddy/paper-agent/pkg/types"
)

// setDefaults registers the default value of every configuration key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", string(types.ProviderMistral))
	// ai.model stays empty so each provider gets its own default model.
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.temperature", 0.0)
	v.SetDefault("ai.seed", 42)
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.rate_limit", 0.25)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("agent.native_tool_calls", false)
	v.SetDefault("catalog.backend", string(types.CatalogMemory))
	v.SetDefault("catalog.file", "")
}

// loadConfig reads the effective configuration from v and resolves the
// provider credential against loaded secrets.
func loadConfig(v *viper.Viper, loaded map[string]string) types.Config {
	provider := types.Provider(v.GetString("ai.provider"))

	if provider == "" {
		provider = types.ProviderMistral
	}
	model := v.GetString("ai.model")
	if model == "" {
		model = llm.DefaultModel(provider)
	}

	return types.Config{
		AI: types.AIConfig{
			Provider:    provider,
			Model:       model,
			APIKey:      secrets.APIKey(provider, v.GetString("ai.api_key"), loaded),
			BaseURL:     v.GetString("ai.base_url"),
			Temperature: v.GetFloat64("ai.temperature"),
			Seed:        v.GetInt("ai.seed"),
			MaxTokens:   v.GetInt("ai.max_tokens"),
			MaxRetries:  v.GetInt("ai.max_retries"),
			RateLimit:   v.GetFloat64("ai.rate_limit"),
			Timeout:     v.GetDuration("ai.timeout"),
		},
		Agent: types.AgentConfig{
			NativeToolCalls: v.GetBool("agent.native_tool_calls"),
		},
		Catalog: types.CatalogConfig{
			Backend: types.CatalogBackend(v.GetString("catalog.backend")),
			File:    v.GetString("catalog.file"),
		},
	}
}
