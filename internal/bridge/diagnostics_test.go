package bridge

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicFormatsAndFiresHooks(t *testing.T) {
	recent := NewRecentSink(4)
	d := NewDiagnostics(recent)
	var halted error
	d.OnFatal(func(err error) { halted = err })

	mem := &testMemory{}
	file := mem.cstr("game.c")
	msg := mem.cstr("assertion failed")

	fatal := d.Panic(mem, file, 42, msg)
	assert.Equal(t, "game.c:42: assertion failed", fatal.Error())
	assert.Equal(t, fatal, halted)
	assert.Equal(t, fatal, d.Err())

	entry, ok := recent.Last(LevelFatal)
	require.True(t, ok)
	assert.Equal(t, "game.c:42: assertion failed", entry.Message)
}

func TestPanicWithUnreadableStringStillHalts(t *testing.T) {
	recent := NewRecentSink(4)
	d := NewDiagnostics(recent)
	mem := &testMemory{}
	msg := mem.cstr("boom")

	fatal := d.Panic(mem, 9999, 7, msg)
	assert.Equal(t, "<unreadable>:7: boom", fatal.Error())

	entries := recent.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, LevelError, entries[0].Level)
	assert.Contains(t, entries[0].Message, "panic(offset=9999)")
	assert.Equal(t, LevelFatal, entries[1].Level)
}

func TestFatalKeepsFirstError(t *testing.T) {
	recent := NewRecentSink(4)
	d := NewDiagnostics(recent)
	calls := 0
	d.OnFatal(func(error) { calls++ })
	first := errors.New("first")
	d.Fatal(first)
	d.Fatal(errors.New("second"))
	assert.Equal(t, first, d.Err())
	assert.Len(t, recent.Entries(), 1)
	assert.Equal(t, 1, calls)
}

func TestLogForwardsInfo(t *testing.T) {
	recent := NewRecentSink(4)
	d := NewDiagnostics(recent)
	mem := &testMemory{}
	require.NoError(t, d.Log(mem, mem.cstr("egg spawned")))

	entries := recent.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Equal(t, "egg spawned", entries[0].Message)

	assert.Error(t, d.Log(mem, 1<<20))
}

func TestLogSinkWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Formatter: log.LogfmtFormatter})
	sink := LogSink{Logger: logger}

	sink.Report(LevelInfo, "hello")
	sink.Report(LevelFatal, "game.c:1: dead")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "source=simulation")
	assert.Contains(t, out, "halted=true")
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := NewRecentSink(2), NewRecentSink(2)
	MultiSink{a, nil, b}.Report(LevelError, "x")
	assert.Len(t, a.Entries(), 1)
	assert.Len(t, b.Entries(), 1)
}

func TestRecentSinkKeepsNewest(t *testing.T) {
	s := NewRecentSink(2)
	clock := time.Unix(0, 0)
	s.now = func() time.Time { return clock }

	s.Report(LevelInfo, "a")
	s.Report(LevelError, "b")
	s.Report(LevelInfo, "c")

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Message)
	assert.Equal(t, "c", entries[1].Message)

	last, ok := s.Last(LevelError)
	require.True(t, ok)
	assert.Equal(t, "b", last.Message)
	_, ok = s.Last(LevelFatal)
	assert.False(t, ok)
}
