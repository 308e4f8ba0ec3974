package bridge

import (
	"errors"
	"fmt"
)

// ErrStopped is returned when work is requested from a halted scheduler.
var ErrStopped = errors.New("bridge: scheduler stopped")

// errNoSimulation is reported when a tick arrives before Attach.
var errNoSimulation = errors.New("bridge: no simulation attached")

// BoundsError reports a string that runs past the end of the linear region.
type BoundsError struct {
	Offset uint32 // where decoding started
	Size   int    // size of the region at the time of the call
	Want   int    // fixed-width reads only; 0 for strings
}

func (e *BoundsError) Error() string {
	if e.Want > 0 {
		return fmt.Sprintf("bridge: reading %d bytes at offset %d overruns the %d-byte region", e.Want, e.Offset, e.Size)
	}
	if int64(e.Offset) >= int64(e.Size) {
		return fmt.Sprintf("bridge: offset %d is outside the %d-byte region", e.Offset, e.Size)
	}
	return fmt.Sprintf("bridge: string at offset %d has no terminator before the end of the %d-byte region", e.Offset, e.Size)
}

// EncodingError reports a string whose bytes are not valid UTF-8.
type EncodingError struct {
	Offset uint32 // where the string starts
	At     int    // index of the first invalid byte, relative to Offset
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("bridge: string at offset %d is not valid UTF-8 (byte %d)", e.Offset, e.At)
}

// CallError attaches the boundary call name and offending offset to a
// decoding failure.
type CallError struct {
	Call   string
	Offset uint32
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s(offset=%d): %v", e.Call, e.Offset, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// FatalSimulationError is a condition the simulation reported about itself.
type FatalSimulationError struct {
	File    string
	Line    uint32
	Message string
}

func (e *FatalSimulationError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

// TrapError is an export call that failed inside the simulation (a wasm
// trap, an exit, or a Go-native simulation returning an error).
type TrapError struct {
	Export string
	Err    error
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("simulation trapped in %s: %v", e.Export, e.Err)
}

func (e *TrapError) Unwrap() error { return e.Err }
