package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wasm-arcade/internal/config"
	"github.com/vovakirdan/wasm-arcade/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own menu, and every cartridge started in it
gets its own simulation instance. Sessions are recorded in the journal
under the SSH user name.

Host key handling:
  - If --host-key (or ssh.host_key_path in the config) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  arcade serve                           # Listen on the configured address
  arcade serve --ssh :2222               # Listen on port 2222
  arcade serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port), overrides ssh.address")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file, overrides ssh.host_key_path")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting, overrides ssh.idle_timeout")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := tui.SSHServerConfig{
		Address:     app.cfg.SSH.Address,
		HostKeyPath: app.cfg.SSH.HostKeyPath,
		IdleTimeout: app.cfg.SSH.IdleTimeout,
		Runtime:     app.runtime,
	}
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = flagIdleTimeout
	}
	if cfg.HostKeyPath != "" {
		path, err := config.ExpandPath(cfg.HostKeyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.HostKeyPath = path
	}

	journal := app.openJournal()

	server, err := tui.NewSSHServer(cfg, journal, app.logger.WithPrefix("ssh"))
	if err != nil {
		closeJournal(journal)
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting arcade SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe()
	closeJournal(journal)

	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}
