package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the bridge configuration.
// Search order: customPath -> ~/.arcade/configs/bridge.yaml -> ./configs/bridge.yaml -> embedded default
// Files are decoded over the defaults, so a partial file only overrides
// the keys it names. The result is validated.
func Load(customPath string) (BridgeConfig, error) {
	cfg := DefaultBridgeConfig()
	if err := yaml.Unmarshal(defaultBridgeYAML, &cfg); err != nil {
		cfg = DefaultBridgeConfig() // Fallback to hardcoded if embed fails
	}

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath("bridge.yaml"), filepath.Join("configs", "bridge.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		next := cfg
		if err := yaml.Unmarshal(data, &next); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return next, next.Validate()
	}

	return cfg, cfg.Validate()
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
