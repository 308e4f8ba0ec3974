// arcade hosts frame-driven simulations: built-in Go cartridges and
// WebAssembly modules that speak the arcade host ABI.
//
// Usage:
//
//	arcade list                 - List available cartridges
//	arcade play <cartridge>     - Play a cartridge in the terminal
//	arcade window <cartridge>   - Play a cartridge in a desktop window
//	arcade run <cartridge>      - Run a cartridge headless for N frames
//	arcade menu                 - Pick cartridges interactively
//	arcade serve                - Start SSH server for remote play
//	arcade journal [cartridge]  - Show recorded sessions and diagnostics
//
// Global flags:
//
//	--config <path>       - Bridge config YAML (default: ~/.arcade/configs/bridge.yaml)
//	--fps <rate>          - Override the tick rate
//	--seed <value>        - RNG seed for built-in cartridges
//	--input <model>       - edge or polled
//	--step <mode>         - fixed or variable
//	--cartridges <dir>    - Directory scanned for *.wasm cartridges
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	// Register built-in cartridges
	_ "github.com/vovakirdan/wasm-arcade/internal/sims/snake"
)

var (
	// Global flags
	flagConfig     string
	flagFPS        int
	flagSeed       int64
	flagInput      string
	flagStep       string
	flagCartridges string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Arcade - host frame-driven simulations in a terminal or window",
	Long: `Arcade runs game simulations behind a small host bridge. Cartridges
are either built in or WebAssembly modules dropped into the cartridge
directory; both draw through the same primitives and receive the same
logical keys.

Available commands:
  list     - Show all available cartridges
  play     - Play a cartridge in the terminal
  window   - Play a cartridge in a desktop window
  run      - Run a cartridge headless
  menu     - Interactive cartridge picker
  serve    - Start SSH server for remote play
  journal  - Browse recorded sessions

Examples:
  arcade list
  arcade play snake
  arcade play snake --input polled --step fixed
  arcade run snake --frames 600 --press 30:up --dump
  arcade serve --ssh :2222
  arcade journal snake`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return app.setup(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		app.teardown()
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to bridge config YAML")
	pf.IntVar(&flagFPS, "fps", 0, "Tick rate override (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed for built-in cartridges (0 = random)")
	pf.StringVar(&flagInput, "input", "", "Input model override: edge or polled")
	pf.StringVar(&flagStep, "step", "", "Step mode override: fixed or variable")
	pf.StringVar(&flagCartridges, "cartridges", "", "Directory scanned for *.wasm cartridges")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Log file (terminal UIs default to ~/.arcade/arcade.log)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(journalCmd)
}
