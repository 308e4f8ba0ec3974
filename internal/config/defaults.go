package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/bridge.yaml
var defaultBridgeYAML []byte

// DefaultBridgeConfig returns the hardcoded defaults, used when the
// embedded YAML cannot be parsed.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		InputModel:       "edge",
		StepMode:         "variable",
		TickRate:         60,
		FontFamily:       "AnekLatin",
		FontSize:         48,
		GestureThreshold: 0.2,
		KeyHoldMS:        500,
		Canvas: CanvasConfig{
			Width:  1600,
			Height: 900,
		},
		Cartridges: CartridgeConfig{
			Dir:      "~/.arcade/cartridges",
			CacheDir: "~/.arcade/cache",
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "~/.arcade/journal.db",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultBridgeYAML
}
