package wasmhost

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
	"github.com/vovakirdan/wasm-arcade/internal/core"
)

// HostModule is the import module name simulations link against.
const HostModule = "env"

var instanceSeq atomic.Uint64

// Instance is one running copy of a simulation. It is not safe for
// concurrent use.
type Instance struct {
	runtime wazero.Runtime
	mod     api.Module

	init    api.Function
	update  api.Function
	render  api.Function
	keydown api.Function
	info    api.Function
	width   api.Function
	height  api.Function
}

// Instantiate creates a fresh runtime, links the host imports and
// instantiates the simulation without running any start function.
func (e *Engine) Instantiate(ctx context.Context, imports bridge.Imports) (*Instance, error) {
	cfg := wazero.NewRuntimeConfig().
		WithCompilationCache(e.cache).
		WithCloseOnContextDone(true)
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	if err := linkHost(ctx, rt, imports); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("wasmhost: linking %s: %w", HostModule, err)
	}

	name := fmt.Sprintf("%s-%d", e.name, instanceSeq.Add(1))
	mod, err := rt.InstantiateWithConfig(ctx, e.wasm,
		wazero.NewModuleConfig().WithName(name).WithStartFunctions())
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("wasmhost: instantiating %s: %w", e.name, err)
	}
	e.logger.Debug("instantiated", "module", name)

	return &Instance{
		runtime: rt,
		mod:     mod,
		init:    mod.ExportedFunction(ExportInit),
		update:  mod.ExportedFunction(ExportUpdate),
		render:  mod.ExportedFunction(ExportRender),
		keydown: mod.ExportedFunction(ExportKeydown),
		info:    mod.ExportedFunction(ExportInfo),
		width:   mod.ExportedFunction(ExportWidth),
		height:  mod.ExportedFunction(ExportHeight),
	}, nil
}

// Init implements bridge.Simulation. The canvas size is passed only when
// the export declares two parameters.
func (i *Instance) Init(ctx context.Context, width, height uint32) error {
	var args []uint64
	if len(i.init.Definition().ParamTypes()) == 2 {
		args = []uint64{api.EncodeU32(width), api.EncodeU32(height)}
	}
	_, err := i.init.Call(ctx, args...)
	return err
}

// Update implements bridge.Simulation.
func (i *Instance) Update(ctx context.Context, delta float64) error {
	var arg uint64
	switch i.update.Definition().ParamTypes()[0] {
	case api.ValueTypeF64:
		arg = api.EncodeF64(delta)
	case api.ValueTypeF32:
		arg = api.EncodeF32(float32(delta))
	default:
		return fmt.Errorf("%s takes a non-float delta", ExportUpdate)
	}
	_, err := i.update.Call(ctx, arg)
	return err
}

// Render implements bridge.Simulation.
func (i *Instance) Render(ctx context.Context) error {
	_, err := i.render.Call(ctx)
	return err
}

// KeyEvent implements bridge.Simulation. Simulations without the export
// ignore key events.
func (i *Instance) KeyEvent(ctx context.Context, code core.KeyCode) error {
	if i.keydown == nil {
		return nil
	}
	_, err := i.keydown.Call(ctx, api.EncodeU32(uint32(code)))
	return err
}

// Info implements bridge.Simulation. The combined export returns an offset
// to a packed {width, height} pair of little-endian u32.
func (i *Instance) Info(ctx context.Context) (uint32, uint32, bool, error) {
	if i.info != nil {
		res, err := i.info.Call(ctx)
		if err != nil {
			return 0, 0, false, err
		}
		if len(res) != 1 {
			return 0, 0, false, fmt.Errorf("%s returned %d values", ExportInfo, len(res))
		}
		region := i.View()
		off := api.DecodeU32(res[0])
		w, err := bridge.ReadU32(region, off)
		if err != nil {
			return 0, 0, false, err
		}
		h, err := bridge.ReadU32(region, off+4)
		if err != nil {
			return 0, 0, false, err
		}
		return w, h, true, nil
	}
	if i.width != nil && i.height != nil {
		w, err := i.callU32(ctx, i.width)
		if err != nil {
			return 0, 0, false, err
		}
		h, err := i.callU32(ctx, i.height)
		if err != nil {
			return 0, 0, false, err
		}
		return w, h, true, nil
	}
	return 0, 0, false, nil
}

func (i *Instance) callU32(ctx context.Context, fn api.Function) (uint32, error) {
	res, err := fn.Call(ctx)
	if err != nil {
		return 0, err
	}
	if len(res) != 1 {
		return 0, fmt.Errorf("%s returned %d values", fn.Definition().Name(), len(res))
	}
	return api.DecodeU32(res[0]), nil
}

// View implements bridge.Memory over the instance's exported memory.
func (i *Instance) View() bridge.LinearRegion {
	return memoryOf(i.mod).View()
}

// Close implements bridge.Simulation and tears down the runtime.
func (i *Instance) Close(ctx context.Context) error {
	return i.runtime.Close(ctx)
}

// memoryOf returns a Memory that reads the module's current memory on
// every View. The slice aliases wasm memory and is invalidated by growth.
// A module without an exported memory has an empty region, so every
// offset is out of bounds.
func memoryOf(m api.Module) bridge.Memory {
	return bridge.MemoryFunc(func() bridge.LinearRegion {
		mem := m.ExportedMemory(ExportMemory)
		if mem == nil {
			return nil
		}
		buf, ok := mem.Read(0, mem.Size())
		if !ok {
			return nil
		}
		return buf
	})
}

// linkHost instantiates the env module with the bridge imports.
func linkHost(ctx context.Context, rt wazero.Runtime, imports bridge.Imports) error {
	_, err := rt.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithFunc(func(x, y, w, h int32, color uint32) {
			imports.FillRect(float64(x), float64(y), float64(w), float64(h), color)
		}).
		Export("platform_fill_rect").
		NewFunctionBuilder().
		WithFunc(func(x, y, w, h int32, color uint32) {
			imports.StrokeRect(float64(x), float64(y), float64(w), float64(h), color)
		}).
		Export("platform_stroke_rect").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, x, y int32, text, size, color uint32) {
			imports.FillText(memoryOf(m), float64(x), float64(y), text, float64(size), color)
		}).
		Export("platform_fill_text").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, x, y int32, text, size, color, align uint32) {
			imports.DrawText(memoryOf(m), float64(x), float64(y), text, float64(size), color, align)
		}).
		Export("platform_draw_text").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, text, size uint32) uint32 {
			return uint32(imports.MeasureText(memoryOf(m), text, float64(size)) + 0.5)
		}).
		Export("platform_text_width").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, file, line, msg uint32) {
			_ = imports.Panic(memoryOf(m), file, line, msg)
			// Nothing may run after a panic: close the module and unwind.
			_ = m.CloseWithExitCode(ctx, 1)
			panic(sys.NewExitError(1))
		}).
		Export("platform_panic").
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, msg uint32) {
			imports.Log(memoryOf(m), msg)
		}).
		Export("platform_log").
		NewFunctionBuilder().
		WithFunc(func(code uint32) uint32 {
			if imports.IsKeyDown(code) {
				return 1
			}
			return 0
		}).
		Export("platform_keydown").
		Instantiate(ctx)
	return err
}

var (
	_ bridge.Simulation = (*Instance)(nil)
	_ bridge.Memory     = (*Instance)(nil)
)
