// Package registry provides a global registry of cartridges: simulations
// the arcade can run. Go-native simulations register themselves in init()
// functions; WebAssembly cartridges are discovered from a directory at
// startup. The platform creates simulations by ID without knowing which
// kind it gets.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/wasmhost"
)

// Kind tells where a cartridge comes from.
type Kind string

const (
	KindBuiltin Kind = "builtin"
	KindWasm    Kind = "wasm"
)

// CartridgeInfo contains metadata about a registered cartridge.
type CartridgeInfo struct {
	ID     string
	Title  string
	Kind   Kind
	Source string // file path for wasm cartridges
}

// Factory creates a Go-native simulation wired to imports. A zero seed
// asks the simulation to pick its own.
type Factory func(imports bridge.Imports, seed int64) bridge.Simulation

type entry struct {
	info    CartridgeInfo
	factory Factory
	engine  *wasmhost.Engine
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a Go-native cartridge. Typically called from init().
// Panics if the ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: cartridge %q already registered", id))
	}
	entries[id] = entry{
		info:    CartridgeInfo{ID: id, Title: title, Kind: KindBuiltin},
		factory: f,
	}
}

// RegisterEngine adds a loaded WebAssembly cartridge under the engine's name.
func RegisterEngine(e *wasmhost.Engine, source string) error {
	mu.Lock()
	defer mu.Unlock()

	id := e.Name()
	if _, exists := entries[id]; exists {
		return fmt.Errorf("registry: cartridge %q already registered", id)
	}
	entries[id] = entry{
		info:   CartridgeInfo{ID: id, Title: titleFromID(id), Kind: KindWasm, Source: source},
		engine: e,
	}
	return nil
}

// Discover loads every *.wasm file in dir and registers it. Files that
// fail to load are skipped; their errors are joined into the result.
// A missing directory is not an error.
func Discover(ctx context.Context, dir string, opts wasmhost.Options) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.wasm"))
	if err != nil {
		return nil, fmt.Errorf("registry: scanning %s: %w", dir, err)
	}
	if len(paths) == 0 {
		if _, statErr := os.Stat(dir); statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("registry: scanning %s: %w", dir, statErr)
		}
		return nil, nil
	}
	sort.Strings(paths)

	var ids []string
	var errs []error
	for _, path := range paths {
		e, err := wasmhost.LoadFile(ctx, path, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := RegisterEngine(e, path); err != nil {
			_ = e.Close(ctx)
			errs = append(errs, err)
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, errors.Join(errs...)
}

// List returns information about all registered cartridges, sorted by ID.
func List() []CartridgeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]CartridgeInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the metadata of a cartridge.
func Lookup(id string) (CartridgeInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a new simulation by cartridge ID, wired to imports.
// WebAssembly cartridges ignore seed. Returns an error if the ID is not
// registered.
func Create(ctx context.Context, id string, imports bridge.Imports, seed int64) (bridge.Simulation, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown cartridge %q", id)
	}
	if e.engine != nil {
		inst, err := e.engine.Instantiate(ctx, imports)
		if err != nil {
			return nil, err
		}
		return inst, nil
	}
	return e.factory(imports, seed), nil
}

// Exists checks if a cartridge with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}

// titleFromID turns "space-snake_2" into "Space Snake 2".
func titleFromID(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' || r == '.' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
