package core

// RuntimeConfig contains configuration fixed when a bridge is constructed.
// Nothing here changes per tick.
type RuntimeConfig struct {
	CanvasW  int // Logical canvas width the simulation draws into
	CanvasH  int // Logical canvas height
	ScreenW  int // Terminal width in characters (terminal host only)
	ScreenH  int // Terminal height in characters
	TickRate int // Host frame callbacks per second (default 60)
	Seed     int64

	Input    InputModel
	Step     StepMode
	Font     string  // Font family, process-wide
	FontSize float64 // Default size for host-drawn text

	// GestureThreshold is the minimum swipe intensity (pixels per millisecond).
	GestureThreshold float64
	// KeyHoldMS is how long a terminal key stays held without a repeat.
	KeyHoldMS int
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		CanvasW:          1600,
		CanvasH:          900,
		ScreenW:          80,
		ScreenH:          24,
		TickRate:         60,
		Input:            InputEdge,
		Step:             StepVariable,
		Font:             "AnekLatin",
		FontSize:         48,
		GestureThreshold: 0.2,
		KeyHoldMS:        500,
	}
}
