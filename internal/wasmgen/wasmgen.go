// Package wasmgen assembles small core wasm modules for tests. It covers
// the subset needed to fake game guests: function imports, functions with
// straight-line bodies, one memory, data segments and mutable i32 globals.
package wasmgen

import (
	"math"

	"github.com/tetratelabs/wazero/api"
)

// Section ids.
const (
	sectionType     = 0x01
	sectionImport   = 0x02
	sectionFunction = 0x03
	sectionMemory   = 0x05
	sectionGlobal   = 0x06
	sectionExport   = 0x07
	sectionCode     = 0x0a
	sectionData     = 0x0b
)

const (
	kindFunc   = 0x00
	kindMemory = 0x02
)

type funcType struct {
	params  []api.ValueType
	results []api.ValueType
}

type importFunc struct {
	module string
	name   string
	typ    funcType
}

type function struct {
	export string
	typ    funcType
	body   []byte
}

type dataSegment struct {
	data   []byte
	offset int32
}

// Module is a module under construction.
type Module struct {
	memExport string
	imports   []importFunc
	funcs     []function
	data      []dataSegment
	globals   []int32
	memPages  uint32
}

func New() *Module {
	return &Module{}
}

// Import declares a function import and returns its function index. All
// imports must be declared before the first Func.
func (m *Module) Import(module, name string, params, results []api.ValueType) uint32 {
	if len(m.funcs) > 0 {
		panic("wasmgen: imports must precede functions")
	}
	m.imports = append(m.imports, importFunc{module: module, name: name, typ: funcType{params, results}})
	return uint32(len(m.imports) - 1)
}

// Func defines a function from instruction sequences and returns its index.
// An empty export name keeps it private.
func (m *Module) Func(export string, params, results []api.ValueType, body ...[]byte) uint32 {
	var code []byte
	for _, b := range body {
		code = append(code, b...)
	}
	m.funcs = append(m.funcs, function{export: export, typ: funcType{params, results}, body: code})
	return uint32(len(m.imports) + len(m.funcs) - 1)
}

// Memory defines the module memory with a minimum of pages and exports it
// when export is not empty.
func (m *Module) Memory(pages uint32, export string) {
	m.memPages = pages
	m.memExport = export
}

// Data places data at offset in memory.
func (m *Module) Data(offset int32, data []byte) {
	m.data = append(m.data, dataSegment{data: data, offset: offset})
}

// Global defines a mutable i32 global and returns its index.
func (m *Module) Global(init int32) uint32 {
	m.globals = append(m.globals, init)
	return uint32(len(m.globals) - 1)
}

// Build encodes the module.
func (m *Module) Build() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	var types []byte
	types = append(types, ULEB128(uint32(len(m.imports)+len(m.funcs)))...)
	for _, imp := range m.imports {
		types = append(types, encodeFuncType(imp.typ)...)
	}
	for _, f := range m.funcs {
		types = append(types, encodeFuncType(f.typ)...)
	}
	out = appendSection(out, sectionType, types)

	if len(m.imports) > 0 {
		imports := ULEB128(uint32(len(m.imports)))
		for i, imp := range m.imports {
			imports = append(imports, encodeName(imp.module)...)
			imports = append(imports, encodeName(imp.name)...)
			imports = append(imports, kindFunc)
			imports = append(imports, ULEB128(uint32(i))...)
		}
		out = appendSection(out, sectionImport, imports)
	}

	if len(m.funcs) > 0 {
		funcs := ULEB128(uint32(len(m.funcs)))
		for i := range m.funcs {
			funcs = append(funcs, ULEB128(uint32(len(m.imports)+i))...)
		}
		out = appendSection(out, sectionFunction, funcs)
	}

	if m.memPages > 0 {
		mem := []byte{0x01, 0x00}
		mem = append(mem, ULEB128(m.memPages)...)
		out = appendSection(out, sectionMemory, mem)
	}

	if len(m.globals) > 0 {
		globals := ULEB128(uint32(len(m.globals)))
		for _, init := range m.globals {
			globals = append(globals, ValType(api.ValueTypeI32), 0x01)
			globals = append(globals, I32Const(init)...)
			globals = append(globals, opEnd)
		}
		out = appendSection(out, sectionGlobal, globals)
	}

	var exports []byte
	count := 0
	if m.memExport != "" {
		exports = append(exports, encodeName(m.memExport)...)
		exports = append(exports, kindMemory, 0x00)
		count++
	}
	for i, f := range m.funcs {
		if f.export == "" {
			continue
		}
		exports = append(exports, encodeName(f.export)...)
		exports = append(exports, kindFunc)
		exports = append(exports, ULEB128(uint32(len(m.imports)+i))...)
		count++
	}
	if count > 0 {
		out = appendSection(out, sectionExport, append(ULEB128(uint32(count)), exports...))
	}

	if len(m.funcs) > 0 {
		code := ULEB128(uint32(len(m.funcs)))
		for _, f := range m.funcs {
			body := append([]byte{0x00}, f.body...)
			body = append(body, opEnd)
			code = append(code, ULEB128(uint32(len(body)))...)
			code = append(code, body...)
		}
		out = appendSection(out, sectionCode, code)
	}

	if len(m.data) > 0 {
		data := ULEB128(uint32(len(m.data)))
		for _, d := range m.data {
			data = append(data, 0x00)
			data = append(data, I32Const(d.offset)...)
			data = append(data, opEnd)
			data = append(data, ULEB128(uint32(len(d.data)))...)
			data = append(data, d.data...)
		}
		out = appendSection(out, sectionData, data)
	}

	return out
}

func appendSection(out []byte, id byte, payload []byte) []byte {
	out = append(out, id)
	out = append(out, ULEB128(uint32(len(payload)))...)
	return append(out, payload...)
}

func encodeFuncType(t funcType) []byte {
	b := []byte{0x60}
	b = append(b, ULEB128(uint32(len(t.params)))...)
	for _, p := range t.params {
		b = append(b, ValType(p))
	}
	b = append(b, ULEB128(uint32(len(t.results)))...)
	for _, r := range t.results {
		b = append(b, ValType(r))
	}
	return b
}

func encodeName(s string) []byte {
	return append(ULEB128(uint32(len(s))), s...)
}

// ValType converts a wazero value type to its binary encoding.
func ValType(t api.ValueType) byte {
	switch t {
	case api.ValueTypeI64:
		return 0x7e
	case api.ValueTypeF32:
		return 0x7d
	case api.ValueTypeF64:
		return 0x7c
	default:
		return 0x7f
	}
}

// ULEB128 encodes v as unsigned LEB128.
func ULEB128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// SLEB128 encodes v as signed LEB128.
func SLEB128(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

const opEnd = 0x0b

// Instructions.

func Unreachable() []byte { return []byte{0x00} }
func Drop() []byte { return []byte{0x1a} }
func I32Eqz() []byte { return []byte{0x45} }
func I32Add() []byte { return []byte{0x6a} }

func Call(fn uint32) []byte { return append([]byte{0x10}, ULEB128(fn)...) }
func LocalGet(i uint32) []byte { return append([]byte{0x20}, ULEB128(i)...) }
func GlobalGet(i uint32) []byte { return append([]byte{0x23}, ULEB128(i)...) }
func GlobalSet(i uint32) []byte { return append([]byte{0x24}, ULEB128(i)...) }
func I32Const(v int32) []byte { return append([]byte{0x41}, SLEB128(v)...) }

func F32Const(v float32) []byte {
	bits := math.Float32bits(v)
	return []byte{0x43, byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
}

// Types is shorthand for a value type list.
func Types(t ...api.ValueType) []api.ValueType {
	return t
}
