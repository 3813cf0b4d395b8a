// Package wasmtest assembles small WebAssembly guests for tests.
//
// Every value is an i32. A typical guest imports host functions and exports
// a trampoline per import that forwards its parameters unchanged, so a test
// can drive the host ABI through wazero without a compiler toolchain:
//
//	m := wasmtest.New()
//	m.Memory(1)
//	w := m.Import("i2c", "write", 4, 1)
//	m.Func("i2c.write", 4, 1, wasmtest.Forward(w, 4))
//	bin := m.Bytes()
package wasmtest

const (
	magic   = "\x00asm"
	version = "\x01\x00\x00\x00"

	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionMemory   byte = 5
	sectionExport   byte = 7
	sectionCode     byte = 10

	kindFunc   byte = 0
	kindMemory byte = 2

	valI32   byte = 0x7F
	funcType byte = 0x60

	opCall     byte = 0x10
	opDrop     byte = 0x1A
	opLocalGet byte = 0x20
	opI32Const byte = 0x41
	opEnd      byte = 0x0B
)

type signature struct {
	params, results int
}

type imported struct {
	module, name string
	typ          uint32
}

type function struct {
	name string
	body []byte
	typ  uint32
}

// Module is an in-progress guest. Imports must be added before functions
// so that import indices stay stable.
type Module struct {
	types    []signature
	imports  []imported
	funcs    []function
	memPages uint32
	memory   bool
}

// New returns an empty module.
func New() *Module {
	return &Module{}
}

func (m *Module) typeIndex(params, results int) uint32 {
	sig := signature{params: params, results: results}
	for i, t := range m.types {
		if t == sig {
			return uint32(i)
		}
	}
	m.types = append(m.types, sig)
	return uint32(len(m.types) - 1)
}

// Import adds a function import and returns its function index.
func (m *Module) Import(module, name string, params, results int) uint32 {
	if len(m.funcs) > 0 {
		panic("wasmtest: Import after Func")
	}
	m.imports = append(m.imports, imported{module: module, name: name, typ: m.typeIndex(params, results)})
	return uint32(len(m.imports) - 1)
}

// Memory defines and exports a linear memory named "memory".
func (m *Module) Memory(pages uint32) {
	m.memory = true
	m.memPages = pages
}

// Func defines an exported function. body holds instructions without the
// trailing end.
func (m *Module) Func(name string, params, results int, body []byte) uint32 {
	m.funcs = append(m.funcs, function{name: name, body: body, typ: m.typeIndex(params, results)})
	return uint32(len(m.imports) + len(m.funcs) - 1)
}

// Bytes encodes the module.
func (m *Module) Bytes() []byte {
	var out writer
	out.raw([]byte(magic))
	out.raw([]byte(version))

	var types writer
	types.u32(uint32(len(m.types)))
	for _, t := range m.types {
		types.byte(funcType)
		types.u32(uint32(t.params))
		for i := 0; i < t.params; i++ {
			types.byte(valI32)
		}
		types.u32(uint32(t.results))
		for i := 0; i < t.results; i++ {
			types.byte(valI32)
		}
	}
	out.section(sectionType, types.bytes())

	if len(m.imports) > 0 {
		var imports writer
		imports.u32(uint32(len(m.imports)))
		for _, imp := range m.imports {
			imports.name(imp.module)
			imports.name(imp.name)
			imports.byte(kindFunc)
			imports.u32(imp.typ)
		}
		out.section(sectionImport, imports.bytes())
	}

	var funcs writer
	funcs.u32(uint32(len(m.funcs)))
	for _, f := range m.funcs {
		funcs.u32(f.typ)
	}
	out.section(sectionFunction, funcs.bytes())

	if m.memory {
		var mem writer
		mem.u32(1)
		mem.byte(0x00) // min only
		mem.u32(m.memPages)
		out.section(sectionMemory, mem.bytes())
	}

	var exports writer
	count := len(m.funcs)
	if m.memory {
		count++
	}
	exports.u32(uint32(count))
	if m.memory {
		exports.name("memory")
		exports.byte(kindMemory)
		exports.u32(0)
	}
	for i, f := range m.funcs {
		exports.name(f.name)
		exports.byte(kindFunc)
		exports.u32(uint32(len(m.imports) + i))
	}
	out.section(sectionExport, exports.bytes())

	var code writer
	code.u32(uint32(len(m.funcs)))
	for _, f := range m.funcs {
		var body writer
		body.u32(0) // no locals
		body.raw(f.body)
		body.byte(opEnd)
		code.u32(uint32(len(body.bytes())))
		code.raw(body.bytes())
	}
	out.section(sectionCode, code.bytes())

	return out.bytes()
}

// Forward returns a body that passes params locals to function fn and
// returns its result.
func Forward(fn uint32, params int) []byte {
	var w writer
	for i := 0; i < params; i++ {
		w.byte(opLocalGet)
		w.u32(uint32(i))
	}
	w.byte(opCall)
	w.u32(fn)
	return w.bytes()
}

// Const returns a body that yields v.
func Const(v int32) []byte {
	var w writer
	w.byte(opI32Const)
	w.s32(v)
	return w.bytes()
}

// CallDrop returns a body that calls fn with constant args and discards
// its single result.
func CallDrop(fn uint32, args ...int32) []byte {
	var w writer
	for _, a := range args {
		w.byte(opI32Const)
		w.s32(a)
	}
	w.byte(opCall)
	w.u32(fn)
	w.byte(opDrop)
	return w.bytes()
}

// Trampolines builds a guest with one page of memory that imports each
// (module, name, params) triple and exports a forwarding function named
// "module.name". Every import returns one i32.
func Trampolines(imports ...Import) []byte {
	m := New()
	m.Memory(1)
	idx := make([]uint32, len(imports))
	for i, imp := range imports {
		idx[i] = m.Import(imp.Module, imp.Name, imp.Params, 1)
	}
	for i, imp := range imports {
		m.Func(imp.Module+"."+imp.Name, imp.Params, 1, Forward(idx[i], imp.Params))
	}
	return m.Bytes()
}

// Import describes one host function imported by Trampolines.
type Import struct {
	Module string
	Name   string
	Params int
}
