package core

import "fmt"

// KeyCode is a logical input action as the simulation sees it.
// Values are part of the boundary contract and are spelled out explicitly.
type KeyCode uint32

const (
	KeyLeft   KeyCode = 0
	KeyRight  KeyCode = 1
	KeyUp     KeyCode = 2
	KeyDown   KeyCode = 3
	KeyAccept KeyCode = 4 // restart / confirm
)

// AllKeyCodes lists every valid KeyCode.
var AllKeyCodes = []KeyCode{KeyLeft, KeyRight, KeyUp, KeyDown, KeyAccept}

// Valid reports whether k is a member of the enumeration.
func (k KeyCode) Valid() bool {
	switch k {
	case KeyLeft, KeyRight, KeyUp, KeyDown, KeyAccept:
		return true
	}
	return false
}

// String returns a human-readable name for the key code.
func (k KeyCode) String() string {
	switch k {
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyAccept:
		return "Accept"
	default:
		return fmt.Sprintf("KeyCode(%d)", uint32(k))
	}
}

// TextAlign selects the anchor point used when placing text.
type TextAlign uint32

const (
	AlignLeft   TextAlign = 0
	AlignRight  TextAlign = 1
	AlignCenter TextAlign = 2
)

// ParseTextAlign converts a raw boundary value into a TextAlign.
func ParseTextAlign(v uint32) (TextAlign, error) {
	switch a := TextAlign(v); a {
	case AlignLeft, AlignRight, AlignCenter:
		return a, nil
	}
	return AlignLeft, fmt.Errorf("core: unknown text alignment %d", v)
}

// String returns the alignment name.
func (a TextAlign) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return fmt.Sprintf("TextAlign(%d)", uint32(a))
	}
}

// Anchor returns the x coordinate of the left edge of a run of the given
// width when anchored at x.
func (a TextAlign) Anchor(x, width float64) float64 {
	switch a {
	case AlignRight:
		return x - width
	case AlignCenter:
		return x - width/2
	default:
		return x
	}
}

// InputModel selects how key input reaches the simulation.
type InputModel int

const (
	// InputPolled keeps a set of held keys the simulation queries.
	InputPolled InputModel = iota
	// InputEdge calls the simulation once per key-down.
	InputEdge
)

// ParseInputModel parses "polled" or "edge".
func ParseInputModel(s string) (InputModel, error) {
	switch s {
	case "polled":
		return InputPolled, nil
	case "edge":
		return InputEdge, nil
	}
	return InputPolled, fmt.Errorf("core: unknown input model %q (want polled or edge)", s)
}

// String returns the configuration spelling of the model.
func (m InputModel) String() string {
	if m == InputEdge {
		return "edge"
	}
	return "polled"
}

// StepMode selects how the frame delta handed to update is computed.
type StepMode int

const (
	// StepVariable passes the measured time since the previous frame.
	StepVariable StepMode = iota
	// StepFixed always passes 1/60 s.
	StepFixed
)

// ParseStepMode parses "variable" or "fixed".
func ParseStepMode(s string) (StepMode, error) {
	switch s {
	case "variable":
		return StepVariable, nil
	case "fixed":
		return StepFixed, nil
	}
	return StepVariable, fmt.Errorf("core: unknown step mode %q (want variable or fixed)", s)
}

// String returns the configuration spelling of the mode.
func (m StepMode) String() string {
	if m == StepFixed {
		return "fixed"
	}
	return "variable"
}
