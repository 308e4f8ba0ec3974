// Package config provides YAML-based configuration loading for the host
// bridge and the arcade platform.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// BridgeConfig contains everything fixed when a bridge is constructed, plus
// the platform settings around it.
type BridgeConfig struct {
	InputModel       string  `yaml:"input_model"` // "polled" or "edge"
	StepMode         string  `yaml:"step_mode"`   // "variable" or "fixed"
	TickRate         int     `yaml:"tick_rate"`
	FontFamily       string  `yaml:"font_family"`
	FontSize         float64 `yaml:"font_size"`
	GestureThreshold float64 `yaml:"gesture_threshold"`
	KeyHoldMS        int     `yaml:"key_hold_ms"`

	Canvas     CanvasConfig    `yaml:"canvas"`
	Cartridges CartridgeConfig `yaml:"cartridges"`
	Journal    JournalConfig   `yaml:"journal"`
	SSH        SSHConfig       `yaml:"ssh"`
}

// CanvasConfig is the logical canvas size handed to init.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CartridgeConfig locates WebAssembly cartridges.
type CartridgeConfig struct {
	Dir      string `yaml:"dir"`       // scanned for *.wasm at startup
	CacheDir string `yaml:"cache_dir"` // compiled code cache; empty keeps it in memory
}

// JournalConfig controls the diagnostics journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SSHConfig configures remote play.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate rejects unknown enum spellings and non-positive sizes.
func (c BridgeConfig) Validate() error {
	var errs []error
	if _, err := core.ParseInputModel(c.InputModel); err != nil {
		errs = append(errs, err)
	}
	if _, err := core.ParseStepMode(c.StepMode); err != nil {
		errs = append(errs, err)
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("config: tick_rate must be positive, got %d", c.TickRate))
	}
	if c.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("config: font_size must be positive, got %g", c.FontSize))
	}
	if c.GestureThreshold <= 0 {
		errs = append(errs, fmt.Errorf("config: gesture_threshold must be positive, got %g", c.GestureThreshold))
	}
	if c.KeyHoldMS <= 0 {
		errs = append(errs, fmt.Errorf("config: key_hold_ms must be positive, got %d", c.KeyHoldMS))
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: canvas must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, errors.New("config: journal.path is required when the journal is enabled"))
	}
	return errors.Join(errs...)
}

// Runtime converts the file configuration into the bridge's RuntimeConfig.
// The terminal size and seed are filled in by the caller.
func (c BridgeConfig) Runtime() (core.RuntimeConfig, error) {
	if err := c.Validate(); err != nil {
		return core.RuntimeConfig{}, err
	}
	input, _ := core.ParseInputModel(c.InputModel)
	step, _ := core.ParseStepMode(c.StepMode)

	rc := core.DefaultConfig()
	rc.CanvasW = c.Canvas.Width
	rc.CanvasH = c.Canvas.Height
	rc.TickRate = c.TickRate
	rc.Input = input
	rc.Step = step
	rc.Font = c.FontFamily
	rc.FontSize = c.FontSize
	rc.GestureThreshold = c.GestureThreshold
	rc.KeyHoldMS = c.KeyHoldMS
	return rc, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
