// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider credentials from a directory of plain-text
// files and resolves the credential for the selected provider. Each file in
// the directory is one secret: the filename is the key name and the trimmed
// contents are the value.
//
// Supported key files: mistral-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// DefaultDir is the secrets directory read at startup.
const DefaultDir = ".secrets/"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// credential names the environment variable and secret file that hold a
// provider's API key.
type credential struct {
	envVar string
	file   string
}

var credentials = map[types.Provider]credential{
	types.ProviderMistral: {envVar: "MISTRAL_API_KEY", file: "mistral-api-key"},
	types.ProviderClaude:  {envVar: "ANTHROPIC_API_KEY", file: "anthropic-api-key"},
}

// APIKey resolves the credential for provider. An explicitly configured key
// wins, then the provider's environment variable, then the loaded secret
// file. Providers without a credential (ollama) resolve to the configured
// value, which is usually empty.
func APIKey(provider types.Provider, configured string, loaded map[string]string) string {
	if configured != "" {
		return configured
	}
	if provider == "" {
		provider = types.ProviderMistral
	}
	c, ok := credentials[provider]
	if !ok {
		return ""
	}
	if v := strings.TrimSpace(os.Getenv(c.envVar)); v != "" {
		return v
	}
	return loaded[c.file]
}
