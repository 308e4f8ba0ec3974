package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wasm-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available cartridges",
	Long: `Shows every cartridge registered in the arcade: the built-in ones and
the WebAssembly modules found in the cartridge directory.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	carts := registry.List()

	if len(carts) == 0 {
		fmt.Println("No cartridges available.")
		return
	}

	fmt.Println("Available cartridges:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, c := range carts {
		maxIDLen = max(maxIDLen, len(c.ID))
		maxTitleLen = max(maxTitleLen, len(c.Title))
	}

	fmt.Printf("  %-*s  %-*s  %-7s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Kind", "Source")
	fmt.Printf("  %-*s  %-*s  %-7s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "----", "------")

	for _, c := range carts {
		source := c.Source
		if source == "" {
			source = "-"
		}
		fmt.Printf("  %-*s  %-*s  %-7s  %s\n", maxIDLen, c.ID, maxTitleLen, c.Title, c.Kind, source)
	}

	fmt.Println()
	fmt.Println("Run 'arcade play <id>' to play a cartridge.")
}
