package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wasm-arcade/internal/storage"
)

var (
	flagJournalLimit   int
	flagJournalSession int64
	flagJournalClear   bool
)

var journalCmd = &cobra.Command{
	Use:   "journal [cartridge]",
	Short: "Show recorded sessions and their diagnostics",
	Long: `List the most recent sessions, optionally for one cartridge. With
--session, print every diagnostic that session reported instead.

Examples:
  arcade journal
  arcade journal snake --limit 5
  arcade journal --session 42
  arcade journal snake --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runJournal,
}

func init() {
	journalCmd.Flags().IntVar(&flagJournalLimit, "limit", 10, "Number of sessions to show")
	journalCmd.Flags().Int64Var(&flagJournalSession, "session", 0, "Show the diagnostics of one session")
	journalCmd.Flags().BoolVar(&flagJournalClear, "clear", false, "Delete the cartridge's sessions")
}

func runJournal(_ *cobra.Command, args []string) {
	cartridge := ""
	if len(args) == 1 {
		cartridge = args[0]
	}

	if !app.cfg.Journal.Enabled {
		fmt.Fprintln(os.Stderr, "Error: the journal is disabled (journal.enabled in the config)")
		os.Exit(1)
	}
	journal, err := storage.Open(app.cfg.Journal.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}

	switch {
	case flagJournalClear:
		err = clearJournal(journal, cartridge)
	case flagJournalSession != 0:
		err = printDiagnostics(journal, flagJournalSession)
	default:
		err = printSessions(journal, cartridge, flagJournalLimit)
	}
	closeJournal(journal)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func clearJournal(j *storage.Journal, cartridge string) error {
	if cartridge == "" {
		return fmt.Errorf("--clear needs a cartridge")
	}
	if err := j.ClearCartridge(cartridge); err != nil {
		return err
	}
	fmt.Printf("Cleared journal for %s\n", cartridge)
	return nil
}

func printSessions(j *storage.Journal, cartridge string, limit int) error {
	sessions, err := j.RecentSessions(cartridge, limit)
	if err != nil {
		return err
	}

	if cartridge != "" {
		fmt.Printf("Sessions - %s\n", cartridge)
	} else {
		fmt.Println("Sessions")
	}
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("  %-6s  %-12s  %-10s  %-8s  %-16s  %s\n", "ID", "Cartridge", "User", "Frames", "Started", "Result")
	fmt.Printf("  %-6s  %-12s  %-10s  %-8s  %-16s  %s\n", "--", "---------", "----", "------", "-------", "------")
	for _, s := range sessions {
		fmt.Printf("  %-6d  %-12s  %-10s  %-8d  %-16s  %s\n",
			s.ID, s.Cartridge, s.User, s.Frames, s.StartedAt.Local().Format("2006-01-02 15:04"), sessionResult(s))
	}

	fmt.Println()
	fmt.Println("Run 'arcade journal --session <id>' to see a session's diagnostics.")
	return nil
}

func printDiagnostics(j *storage.Journal, id int64) error {
	entries, err := j.Diagnostics(id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No diagnostics recorded for session %d.\n", id)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s [%s] %s\n", e.CreatedAt.Local().Format("15:04:05.000"), e.Level, e.Message)
	}
	return nil
}

// sessionResult summarizes how a session ended.
func sessionResult(s storage.Session) string {
	switch {
	case s.EndedAt.IsZero():
		return "running"
	case s.Halted && s.Error != "":
		return "halted: " + s.Error
	case s.Halted:
		return "halted"
	default:
		return "ok"
	}
}
