package wasmemit

// Module is the in-memory form of a WASM module being assembled: the
// function index space is imports first, then own functions, in the
// order each was registered (mirrors generate.py's WabbitWasmModule).
type Module struct {
	Imports []*importedFunc
	Funcs   []*wasmFunc
	Globals []*global
}

func newModule() *Module {
	return &Module{}
}

type importedFunc struct {
	EnvName     string
	Name        string
	ParamTypes  []byte
	ResultTypes []byte
	idx         uint32
}

// wasmFunc is one function's signature plus its generated body. Locals
// lists the types of locals beyond the parameters, in declaration order;
// ParamTypes together with Locals gives the full local index space.
type wasmFunc struct {
	Name        string
	ParamTypes  []byte
	ResultTypes []byte
	Locals      []byte
	Code        []byte
	idx         uint32
}

type global struct {
	Name    string
	Type    byte
	IsFloat bool
	InitI   int64
	InitF   float64
	idx     uint32
}

// addImport registers an imported function and returns it. Imports are
// always added before own functions, so their indices (0..n-1) never
// need renumbering once own functions start being appended.
func (m *Module) addImport(envName, name string, params, results []byte) *importedFunc {
	f := &importedFunc{
		EnvName:     envName,
		Name:        name,
		ParamTypes:  params,
		ResultTypes: results,
		idx:         uint32(len(m.Imports)),
	}
	m.Imports = append(m.Imports, f)
	return f
}

// addFunc reserves a function index for fn, ahead of generating its body,
// so forward references and recursive calls can resolve it (spec.md §4.7
// function extension: every signature is registered before any body is
// lowered).
func (m *Module) addFunc(name string, params, results []byte) *wasmFunc {
	f := &wasmFunc{
		Name:        name,
		ParamTypes:  params,
		ResultTypes: results,
		idx:         uint32(len(m.Imports) + len(m.Funcs)),
	}
	m.Funcs = append(m.Funcs, f)
	return f
}

func (m *Module) addGlobal(name string, t byte) *global {
	g := &global{Name: name, Type: t, idx: uint32(len(m.Globals))}
	m.Globals = append(m.Globals, g)
	return g
}

// Encode assembles m into a complete binary WASM module (spec.md §4.7).
func Encode(m *Module) []byte {
	out := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

	out = append(out, section(1, encodeTypeSection(m))...)
	out = append(out, section(2, encodeImportSection(m))...)
	out = append(out, section(3, encodeFunctionSection(m))...)
	if len(m.Globals) > 0 {
		out = append(out, section(6, encodeGlobalSection(m))...)
	}
	out = append(out, section(7, encodeExportSection(m))...)
	out = append(out, section(10, encodeCodeSection(m))...)
	return out
}

// encodeTypeSection emits one function type per function in the module's
// index space (imports then own functions), a 1:1 signature-per-function
// table rather than a deduplicated one, matching generate.py's approach
// of never sharing a type index between two functions even when their
// signatures coincide.
func encodeTypeSection(m *Module) []byte {
	var types [][]byte
	for _, f := range m.Imports {
		types = append(types, signature(f.ParamTypes, f.ResultTypes))
	}
	for _, f := range m.Funcs {
		types = append(types, signature(f.ParamTypes, f.ResultTypes))
	}
	return vector(types)
}

func signature(params, results []byte) []byte {
	out := []byte{0x60}
	out = append(out, vector(byteSlice(params))...)
	out = append(out, vector(byteSlice(results))...)
	return out
}

func byteSlice(bs []byte) [][]byte {
	out := make([][]byte, len(bs))
	for i, b := range bs {
		out[i] = []byte{b}
	}
	return out
}

func encodeImportSection(m *Module) []byte {
	var entries [][]byte
	for _, f := range m.Imports {
		var e []byte
		e = append(e, encodeString(f.EnvName)...)
		e = append(e, encodeString(f.Name)...)
		e = append(e, 0x00) // import kind: function
		e = append(e, encodeUnsigned(uint64(f.idx))...)
		entries = append(entries, e)
	}
	return vector(entries)
}

// encodeFunctionSection lists, for each own function, the index of its
// type in the type section. Since every function's signature occupies
// its own type-section slot at exactly its module index, the type index
// and the function index coincide.
func encodeFunctionSection(m *Module) []byte {
	var entries [][]byte
	for _, f := range m.Funcs {
		entries = append(entries, encodeUnsigned(uint64(f.idx)))
	}
	return vector(entries)
}

func encodeGlobalSection(m *Module) []byte {
	var entries [][]byte
	for _, g := range m.Globals {
		var e []byte
		e = append(e, g.Type, 0x01) // mutable
		if g.IsFloat {
			e = append(e, 0x44)
			e = append(e, encodeF64(g.InitF)...)
		} else {
			e = append(e, 0x41)
			e = append(e, encodeSigned(g.InitI)...)
		}
		e = append(e, 0x0b) // end
		entries = append(entries, e)
	}
	return vector(entries)
}

// encodeExportSection exports only "main" (spec.md §4.7's external
// interface); every other function still has a module-index a `call`
// instruction can reach internally without being exported.
func encodeExportSection(m *Module) []byte {
	var entries [][]byte
	for _, f := range m.Funcs {
		if f.Name != "main" {
			continue
		}
		var e []byte
		e = append(e, encodeString(f.Name)...)
		e = append(e, 0x00) // export kind: function
		e = append(e, encodeUnsigned(uint64(f.idx))...)
		entries = append(entries, e)
	}
	return vector(entries)
}

func encodeCodeSection(m *Module) []byte {
	var entries [][]byte
	for _, f := range m.Funcs {
		entries = append(entries, functionCode(f))
	}
	return vector(entries)
}

// functionCode encodes one function body: its locals declaration vector
// (one entry per local, count always 1 — not run-length-encoded, matching
// generate.py's simplification) followed by its instructions and the
// function's closing `end`, which the emitter never writes into Code.
func functionCode(f *wasmFunc) []byte {
	var localEntries [][]byte
	for _, t := range f.Locals {
		localEntries = append(localEntries, append(encodeUnsigned(1), t))
	}
	body := vector(localEntries)
	body = append(body, f.Code...)
	body = append(body, 0x0b)
	return append(encodeUnsigned(uint64(len(body))), body...)
}
