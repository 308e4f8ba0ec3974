package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/platform/tui"
	"github.com/vovakirdan/wasm-arcade/internal/session"
)

var (
	flagFrames  int
	flagPresses []string
	flagDump    bool
	flagCols    int
	flagRows    int
)

var runCmd = &cobra.Command{
	Use:   "run <cartridge>",
	Short: "Run a cartridge headless",
	Long: `Run the specified cartridge without a display for a number of frames,
then print its diagnostics. Frames are timed as if the host ran at the
configured tick rate. Key presses can be scripted with --press
FRAME:KEY, where KEY is left, right, up, down or accept; the key is held
for that one frame.

Exits with status 1 if the cartridge halted.

Examples:
  arcade run snake --frames 600
  arcade run snake --frames 120 --press 10:up --press 40:left --dump
  arcade run ./build/tetris.wasm --step fixed --seed 7`,
	Args: cobra.ExactArgs(1),
	Run:  runHeadless,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 300, "Number of frames to run")
	runCmd.Flags().StringArrayVar(&flagPresses, "press", nil, "Scripted key press FRAME:KEY (repeatable)")
	runCmd.Flags().BoolVar(&flagDump, "dump", false, "Print the last frame as text")
	runCmd.Flags().IntVar(&flagCols, "cols", 80, "Text dump width in characters")
	runCmd.Flags().IntVar(&flagRows, "rows", 24, "Text dump height in characters")
}

func runHeadless(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	id := resolveCartridge(ctx, args[0])

	presses, err := parsePresses(flagPresses)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := app.runtime
	surface := tui.NewScreenSurface(flagCols, flagRows, cfg.CanvasW, cfg.CanvasH)
	journal := app.openJournal()

	sess, err := session.Launch(ctx, session.Options{
		Cartridge: id,
		Config:    cfg,
		Surface:   surface,
		Logger:    app.logger,
		Journal:   journal,
		User:      currentUser(),
		Recent:    1024,
	})
	if err != nil {
		closeJournal(journal)
		fmt.Fprintf(os.Stderr, "Error starting cartridge: %v\n", err)
		os.Exit(1)
	}
	w, h := sess.Bridge.CanvasSize()
	surface.SetCanvas(int(w), int(h))

	driveFrames(ctx, sess.Bridge, flagFrames, cfg.TickRate, presses)

	for _, e := range sess.Recent.Entries() {
		fmt.Printf("%s [%s] %s\n", e.Time.Format("15:04:05.000"), e.Level, e.Message)
	}
	fmt.Printf("frames: %d\n", sess.Bridge.Frames())
	if flagDump {
		fmt.Println(surface.Screen().String())
	}

	runErr := sess.Bridge.Err()
	if err := sess.Close(ctx); err != nil {
		app.logger.Warn("closing session", "err", err)
	}
	closeJournal(journal)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "halted: %v\n", runErr)
		os.Exit(1)
	}
}

// driveFrames ticks b as a host would at tickRate, until frames have run or
// the scheduler stops asking. presses maps a frame number (1-based) to the
// keys held during that frame.
func driveFrames(ctx context.Context, b *bridge.Bridge, frames, tickRate int, presses map[uint64][]core.KeyCode) {
	if tickRate <= 0 {
		tickRate = 60
	}
	step := 1000 / float64(tickRate)

	pending := false
	b.Start(bridge.FrameRequesterFunc(func() { pending = true }))

	input := b.Input()
	var held []core.KeyCode
	var heldAt uint64
	ts := 0.0
	for pending && b.Frames() < uint64(frames) {
		if ctx.Err() != nil {
			return
		}
		pending = false

		// The priming tick runs no frame, so the first two ticks share next.
		if next := b.Frames() + 1; next != heldAt {
			for _, k := range held {
				input.KeyUp(k)
			}
			held, heldAt = presses[next], next
			for _, k := range held {
				input.KeyDown(k)
			}
		}

		b.Tick(ctx, ts)
		ts += step
	}
}

// parsePresses reads FRAME:KEY pairs into a frame-indexed table.
func parsePresses(pairs []string) (map[uint64][]core.KeyCode, error) {
	out := make(map[uint64][]core.KeyCode)
	for _, s := range pairs {
		frameStr, keyStr, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --press %q (want FRAME:KEY)", s)
		}
		frame, err := strconv.ParseUint(strings.TrimSpace(frameStr), 10, 64)
		if err != nil || frame == 0 {
			return nil, fmt.Errorf("invalid frame in --press %q", s)
		}
		code, err := parseKey(keyStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --press %q: %w", s, err)
		}
		out[frame] = append(out[frame], code)
	}
	for f := range out {
		sort.Slice(out[f], func(i, j int) bool { return out[f][i] < out[f][j] })
	}
	return out, nil
}

func parseKey(name string) (core.KeyCode, error) {
	name = strings.TrimSpace(name)
	for _, code := range core.AllKeyCodes {
		if strings.EqualFold(code.String(), name) {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}
