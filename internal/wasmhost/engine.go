// Package wasmhost loads WebAssembly simulations with wazero and exposes
// them as bridge.Simulation values. Each Instance lives in its own wazero
// runtime so sessions never share linear memory; compiled code is shared
// through the Engine's compilation cache.
package wasmhost

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Export names the host calls on a simulation.
const (
	ExportInit    = "game_init"
	ExportUpdate  = "game_update"
	ExportRender  = "game_render"
	ExportKeydown = "game_keydown"
	ExportInfo    = "game_info"
	ExportWidth   = "game_width"
	ExportHeight  = "game_height"
	ExportMemory  = "memory"
)

var requiredExports = []string{ExportInit, ExportUpdate, ExportRender}

var optionalExports = []string{ExportKeydown, ExportInfo, ExportWidth, ExportHeight}

// Options configures an Engine.
type Options struct {
	// CacheDir persists compiled code between runs. Empty keeps the cache
	// in memory.
	CacheDir string
	Logger   *log.Logger
}

// Engine holds a validated simulation binary and the compilation cache its
// instances share.
type Engine struct {
	name    string
	wasm    []byte
	cache   wazero.CompilationCache
	logger  *log.Logger
	exports map[string]api.FunctionDefinition
	memory  bool
}

// LoadFile reads and validates a .wasm file. The engine is named after the
// file without its extension.
func LoadFile(ctx context.Context, path string, opts Options) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: reading %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Load(ctx, name, data, opts)
}

// Load validates wasm by compiling it once and checking its exports.
func Load(ctx context.Context, name string, wasm []byte, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cache := wazero.NewCompilationCache()
	if opts.CacheDir != "" {
		var err error
		cache, err = wazero.NewCompilationCacheWithDir(opts.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("wasmhost: compilation cache %s: %w", opts.CacheDir, err)
		}
	}

	scratch := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCompilationCache(cache))
	defer scratch.Close(ctx)

	compiled, err := scratch.CompileModule(ctx, wasm)
	if err != nil {
		_ = cache.Close(ctx)
		return nil, fmt.Errorf("wasmhost: compiling %s: %w", name, err)
	}

	e := &Engine{
		name:    name,
		wasm:    wasm,
		cache:   cache,
		logger:  logger.WithPrefix(name),
		exports: compiled.ExportedFunctions(),
	}
	_, e.memory = compiled.ExportedMemories()[ExportMemory]

	var missing []string
	for _, export := range requiredExports {
		if _, ok := e.exports[export]; !ok {
			missing = append(missing, export)
		}
	}
	if len(missing) > 0 {
		_ = cache.Close(ctx)
		return nil, fmt.Errorf("wasmhost: %s does not export %s", name, strings.Join(missing, ", "))
	}
	if err := e.checkSignatures(); err != nil {
		_ = cache.Close(ctx)
		return nil, err
	}

	for _, export := range e.Missing() {
		e.logger.Warn("optional export missing", "export", export)
	}
	if !e.memory {
		e.logger.Warn("no exported memory; string arguments cannot be read")
	}
	return e, nil
}

func (e *Engine) checkSignatures() error {
	want := map[string]int{ExportUpdate: 1, ExportRender: 0, ExportKeydown: 1, ExportInfo: 0}
	for export, params := range want {
		def, ok := e.exports[export]
		if !ok {
			continue
		}
		if got := len(def.ParamTypes()); got != params {
			return fmt.Errorf("wasmhost: %s.%s takes %d parameters, expected %d", e.name, export, got, params)
		}
	}
	if def := e.exports[ExportInit]; len(def.ParamTypes()) != 0 && len(def.ParamTypes()) != 2 {
		return fmt.Errorf("wasmhost: %s.%s takes %d parameters, expected 0 or 2", e.name, ExportInit, len(def.ParamTypes()))
	}
	return nil
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return e.name
}

// Exports returns the exported function names, sorted.
func (e *Engine) Exports() []string {
	names := make([]string, 0, len(e.exports))
	for name := range e.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Missing returns the optional exports the binary lacks.
func (e *Engine) Missing() []string {
	var missing []string
	for _, export := range optionalExports {
		if _, ok := e.exports[export]; !ok {
			missing = append(missing, export)
		}
	}
	return missing
}

// Close releases the compilation cache. Instances already created keep
// working until closed.
func (e *Engine) Close(ctx context.Context) error {
	return e.cache.Close(ctx)
}
