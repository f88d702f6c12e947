package wasmemit

// Instruction opcodes used by the emitter, named after the WASM MVP
// textual mnemonics (spec.md §4.7).
const (
	opUnreachable byte = 0x00
	opBlock       byte = 0x02
	opLoop        byte = 0x03
	opIf          byte = 0x04
	opElse        byte = 0x05
	opEnd         byte = 0x0b
	opBr          byte = 0x0c
	opBrIf        byte = 0x0d
	opReturn      byte = 0x0f
	opCall        byte = 0x10
	opDrop        byte = 0x1a

	opLocalGet  byte = 0x20
	opLocalSet  byte = 0x21
	opGlobalGet byte = 0x23
	opGlobalSet byte = 0x24

	opI32Const byte = 0x41
	opF64Const byte = 0x44

	opI32Eqz  byte = 0x45
	opI32Eq   byte = 0x46
	opI32Ne   byte = 0x47
	opI32LtS  byte = 0x48
	opI32GtS  byte = 0x4a
	opI32LeS  byte = 0x4c
	opI32GeS  byte = 0x4e

	opF64Eq byte = 0x61
	opF64Ne byte = 0x62
	opF64Lt byte = 0x63
	opF64Gt byte = 0x64
	opF64Le byte = 0x65
	opF64Ge byte = 0x66

	opI32Add byte = 0x6a
	opI32Sub byte = 0x6b
	opI32Mul byte = 0x6c
	opI32DivS byte = 0x6d
	opI32And byte = 0x71
	opI32Or  byte = 0x72

	opF64Add byte = 0xa0
	opF64Sub byte = 0xa1
	opF64Mul byte = 0xa2
	opF64Div byte = 0xa3

	blockTypeEmpty byte = 0x40
)
