package bridge

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Level classifies a diagnostic message.
type Level int

const (
	LevelInfo Level = iota
	LevelError
	LevelFatal
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Sink receives formatted diagnostic messages. Report must not block.
type Sink interface {
	Report(level Level, message string)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(level Level, message string)

// Report calls f.
func (f SinkFunc) Report(level Level, message string) { f(level, message) }

// Diagnostics forwards simulation-reported conditions and bridge failures to
// a sink. A fatal condition fires the registered halt hooks.
type Diagnostics struct {
	sink    Sink
	onFatal []func(error)
	fatal   error
}

// NewDiagnostics creates a diagnostics bridge writing to sink.
func NewDiagnostics(sink Sink) *Diagnostics {
	if sink == nil {
		sink = SinkFunc(func(Level, string) {})
	}
	return &Diagnostics{sink: sink}
}

// OnFatal registers fn to run when the first fatal condition is reported.
func (d *Diagnostics) OnFatal(fn func(error)) {
	d.onFatal = append(d.onFatal, fn)
}

// Err returns the first fatal condition reported, or nil.
func (d *Diagnostics) Err() error {
	return d.fatal
}

// Report forwards a message as-is.
func (d *Diagnostics) Report(level Level, message string) {
	d.sink.Report(level, message)
}

// Panic handles the simulation's panic import: both strings are decoded and
// reported as "{file}:{line}: {message}", then the halt hooks fire. A string
// that cannot be decoded is diagnosed on its own and replaced by a
// placeholder, so the fatal condition itself is never lost.
func (d *Diagnostics) Panic(mem Memory, fileRef, line, msgRef uint32) *FatalSimulationError {
	region := mem.View()
	file, err := ReadCString(region, fileRef)
	if err != nil {
		d.CallFailed("panic", fileRef, err)
		file = "<unreadable>"
	}
	msg, err := ReadCString(region, msgRef)
	if err != nil {
		d.CallFailed("panic", msgRef, err)
		msg = "<unreadable>"
	}
	fatal := &FatalSimulationError{File: file, Line: line, Message: msg}
	d.Fatal(fatal)
	return fatal
}

// Log handles the simulation's log import.
func (d *Diagnostics) Log(mem Memory, msgRef uint32) error {
	msg, err := ReadCString(mem.View(), msgRef)
	if err != nil {
		return d.CallFailed("log", msgRef, err)
	}
	d.sink.Report(LevelInfo, msg)
	return nil
}

// Fatal reports err as fatal and fires the halt hooks. Only the first
// fatal condition is reported.
func (d *Diagnostics) Fatal(err error) {
	if d.fatal != nil {
		return
	}
	d.fatal = err
	d.sink.Report(LevelFatal, err.Error())
	for _, fn := range d.onFatal {
		fn(err)
	}
}

// CallFailed reports a decoding failure of a boundary call and returns it
// wrapped in a *CallError.
func (d *Diagnostics) CallFailed(call string, offset uint32, err error) error {
	cerr := &CallError{Call: call, Offset: offset, Err: err}
	d.sink.Report(LevelError, cerr.Error())
	return cerr
}

// LogSink writes diagnostics to a charmbracelet logger.
type LogSink struct {
	Logger *log.Logger
}

// Report implements Sink.
func (s LogSink) Report(level Level, message string) {
	switch level {
	case LevelInfo:
		s.Logger.Info(message, "source", "simulation")
	case LevelError:
		s.Logger.Error(message)
	default:
		s.Logger.Error(message, "halted", true)
	}
}

// MultiSink fans a message out to several sinks in order.
type MultiSink []Sink

// Report implements Sink.
func (m MultiSink) Report(level Level, message string) {
	for _, s := range m {
		if s != nil {
			s.Report(level, message)
		}
	}
}

// Entry is one recorded diagnostic.
type Entry struct {
	Level   Level
	Message string
	Time    time.Time
}

// RecentSink keeps the last few diagnostics for on-screen display.
type RecentSink struct {
	entries []Entry
	limit   int
	now     func() time.Time
}

// NewRecentSink keeps up to limit entries.
func NewRecentSink(limit int) *RecentSink {
	if limit <= 0 {
		limit = 1
	}
	return &RecentSink{limit: limit, now: time.Now}
}

// Report implements Sink.
func (s *RecentSink) Report(level Level, message string) {
	s.entries = append(s.entries, Entry{Level: level, Message: message, Time: s.now()})
	if over := len(s.entries) - s.limit; over > 0 {
		s.entries = append(s.entries[:0], s.entries[over:]...)
	}
}

// Entries returns the retained entries, oldest first.
func (s *RecentSink) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Last returns the newest entry at or above floor, if any.
func (s *RecentSink) Last(floor Level) (Entry, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Level >= floor {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}
