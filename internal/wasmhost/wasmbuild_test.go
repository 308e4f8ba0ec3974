package wasmhost

import "encoding/binary"

// A tiny module assembler so tests can build guests without a toolchain.

const (
	i32 byte = 0x7f
	f32 byte = 0x7d
	f64 byte = 0x7c
)

type funcType struct {
	params, results []byte
}

type wasmImport struct {
	name string
	typ  int
}

type wasmFunc struct {
	export string
	typ    int
	body   []byte // instructions without the final end
}

type wasmData struct {
	offset int32
	bytes  []byte
}

type moduleBuilder struct {
	types   []funcType
	imports []wasmImport
	funcs   []wasmFunc
	memory  bool
	data    []wasmData
}

func (b *moduleBuilder) typ(params, results []byte) int {
	b.types = append(b.types, funcType{params, results})
	return len(b.types) - 1
}

// importFunc adds an env import and returns its function index. All
// imports must be added before any function.
func (b *moduleBuilder) importFunc(name string, params, results []byte) uint32 {
	b.imports = append(b.imports, wasmImport{name: name, typ: b.typ(params, results)})
	return uint32(len(b.imports) - 1)
}

func (b *moduleBuilder) function(export string, params, results []byte, body ...[]byte) {
	var code []byte
	for _, part := range body {
		code = append(code, part...)
	}
	b.funcs = append(b.funcs, wasmFunc{export: export, typ: b.typ(params, results), body: code})
}

func (b *moduleBuilder) bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	var types []byte
	types = uleb(types, uint64(len(b.types)))
	for _, t := range b.types {
		types = append(types, 0x60)
		types = vec(types, t.params)
		types = vec(types, t.results)
	}
	out = section(out, 1, types)

	if len(b.imports) > 0 {
		var imps []byte
		imps = uleb(imps, uint64(len(b.imports)))
		for _, imp := range b.imports {
			imps = name(imps, "env")
			imps = name(imps, imp.name)
			imps = append(imps, 0x00)
			imps = uleb(imps, uint64(imp.typ))
		}
		out = section(out, 2, imps)
	}

	var fns []byte
	fns = uleb(fns, uint64(len(b.funcs)))
	for _, f := range b.funcs {
		fns = uleb(fns, uint64(f.typ))
	}
	out = section(out, 3, fns)

	if b.memory {
		out = section(out, 5, []byte{0x01, 0x00, 0x01})
	}

	var exps []byte
	count := 0
	for i, f := range b.funcs {
		if f.export == "" {
			continue
		}
		count++
		exps = name(exps, f.export)
		exps = append(exps, 0x00)
		exps = uleb(exps, uint64(len(b.imports)+i))
	}
	if b.memory {
		count++
		exps = name(exps, "memory")
		exps = append(exps, 0x02, 0x00)
	}
	out = section(out, 7, append(uleb(nil, uint64(count)), exps...))

	var code []byte
	code = uleb(code, uint64(len(b.funcs)))
	for _, f := range b.funcs {
		entry := append([]byte{0x00}, f.body...) // no locals
		entry = append(entry, 0x0b)
		code = uleb(code, uint64(len(entry)))
		code = append(code, entry...)
	}
	out = section(out, 10, code)

	if len(b.data) > 0 {
		var data []byte
		data = uleb(data, uint64(len(b.data)))
		for _, d := range b.data {
			data = append(data, 0x00)
			data = append(data, i32Const(d.offset)...)
			data = append(data, 0x0b)
			data = uleb(data, uint64(len(d.bytes)))
			data = append(data, d.bytes...)
		}
		out = section(out, 11, data)
	}
	return out
}

func section(out []byte, id byte, content []byte) []byte {
	out = append(out, id)
	out = uleb(out, uint64(len(content)))
	return append(out, content...)
}

func vec(out []byte, items []byte) []byte {
	out = uleb(out, uint64(len(items)))
	return append(out, items...)
}

func name(out []byte, s string) []byte {
	out = uleb(out, uint64(len(s)))
	return append(out, s...)
}

func uleb(out []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(out []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if done {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

// Instructions.

func i32Const(v int32) []byte { return sleb([]byte{0x41}, int64(v)) }

func u32Const(v uint32) []byte { return i32Const(int32(v)) }

func localGet(i uint32) []byte { return uleb([]byte{0x20}, uint64(i)) }

func call(fn uint32) []byte { return uleb([]byte{0x10}, uint64(fn)) }

func ifThen(body ...[]byte) []byte {
	out := []byte{0x04, 0x40}
	for _, part := range body {
		out = append(out, part...)
	}
	return append(out, 0x0b)
}

func unreachable() []byte { return []byte{0x00} }

func drop() []byte { return []byte{0x1a} }

func u32le(vs ...uint32) []byte {
	out := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out
}

func cstr(s string) []byte { return append([]byte(s), 0) }
