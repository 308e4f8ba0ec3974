package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/core"
	"github.com/vovakirdan/wasm-arcade/internal/wasmhost"
)

// emptyCartridge is the smallest module with init, update(f32) and render.
var emptyCartridge = []byte("\x00asm\x01\x00\x00\x00" +
	"\x01\x08\x02\x60\x00\x00\x60\x01\x7d\x00" +
	"\x03\x04\x03\x00\x01\x00" +
	"\x07\x29\x03" +
	"\x09game_init\x00\x00" +
	"\x0bgame_update\x00\x01" +
	"\x0bgame_render\x00\x02" +
	"\x0a\x0a\x03\x02\x00\x0b\x02\x00\x0b\x02\x00\x0b")

type stubSim struct{ imports bridge.Imports }

func (stubSim) Init(context.Context, uint32, uint32) error   { return nil }
func (stubSim) Update(context.Context, float64) error        { return nil }
func (stubSim) Render(context.Context) error                 { return nil }
func (stubSim) KeyEvent(context.Context, core.KeyCode) error { return nil }
func (stubSim) Info(context.Context) (uint32, uint32, bool, error) {
	return 0, 0, false, nil
}
func (stubSim) Close(context.Context) error { return nil }

func TestRegisterAndCreate(t *testing.T) {
	Register("test-stub", "Test Stub", func(imports bridge.Imports, _ int64) bridge.Simulation {
		return stubSim{imports: imports}
	})

	if !Exists("test-stub") {
		t.Fatal("Exists() = false after Register")
	}
	info, ok := Lookup("test-stub")
	if !ok || info.Title != "Test Stub" || info.Kind != KindBuiltin {
		t.Errorf("Lookup() = %+v, %v", info, ok)
	}

	sim, err := Create(context.Background(), "test-stub", nil, 1)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, ok := sim.(stubSim); !ok {
		t.Errorf("Create() returned %T", sim)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", "Dup", func(bridge.Imports, int64) bridge.Simulation { return stubSim{} })
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test-dup", "Dup", func(bridge.Imports, int64) bridge.Simulation { return stubSim{} })
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create(context.Background(), "no-such-cartridge", nil, 0); err == nil {
		t.Error("Create() of unknown ID should fail")
	}
}

func TestListIsSorted(t *testing.T) {
	Register("test-zz", "ZZ", func(bridge.Imports, int64) bridge.Simulation { return stubSim{} })
	Register("test-aa", "AA", func(bridge.Imports, int64) bridge.Simulation { return stubSim{} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted at %d: %q >= %q", i, list[i-1].ID, list[i].ID)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("tiny_demo.wasm", emptyCartridge)
	write("broken.wasm", []byte("nope"))
	write("readme.txt", []byte("not a cartridge"))

	ctx := context.Background()
	ids, err := Discover(ctx, dir, wasmhost.Options{})
	if err == nil {
		t.Error("Discover() should report the broken cartridge")
	}
	if len(ids) != 1 || ids[0] != "tiny_demo" {
		t.Fatalf("Discover() ids = %v, expected [tiny_demo]", ids)
	}

	info, ok := Lookup("tiny_demo")
	if !ok || info.Kind != KindWasm || info.Title != "Tiny Demo" {
		t.Errorf("Lookup() = %+v, %v", info, ok)
	}

	sim, err := Create(ctx, "tiny_demo", nil, 0)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	defer sim.Close(ctx)
	if err := sim.Update(ctx, 0.5); err != nil {
		t.Errorf("Update() failed: %v", err)
	}

	// Same file again collides with the registered ID.
	if _, err := Discover(ctx, dir, wasmhost.Options{}); err == nil {
		t.Error("second Discover() should report the duplicate")
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	ids, err := Discover(context.Background(), filepath.Join(t.TempDir(), "absent"), wasmhost.Options{})
	if err != nil || len(ids) != 0 {
		t.Errorf("Discover() = %v, %v; expected nothing", ids, err)
	}
}

func TestTitleFromID(t *testing.T) {
	tests := map[string]string{
		"snake":         "Snake",
		"space-snake_2": "Space Snake 2",
	}
	for id, want := range tests {
		if got := titleFromID(id); got != want {
			t.Errorf("titleFromID(%q) = %q, expected %q", id, got, want)
		}
	}
}
