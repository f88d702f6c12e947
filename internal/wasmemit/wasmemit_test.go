package wasmemit

import (
	"math"
	"testing"

	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/transform"
	"github.com/wabbit-lang/wabbit/internal/types"
)

func compileToWasm(t *testing.T, src string) []byte {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if p.Errors().HasErrors() {
		t.Fatalf("parse errors: %s", p.Errors().Error())
	}
	if _, ok := types.Check(prog); !ok {
		t.Fatalf("program did not type-check")
	}
	return Program(transform.Program(prog))
}

// decodeUnsigned is the reverse of encodeUnsigned, used only by tests to
// assert round-trip fidelity.
func decodeUnsigned(b []byte) (uint64, int) {
	var result uint64
	var shift uint
	for i, by := range b {
		result |= uint64(by&0x7f) << shift
		if by&0x80 == 0 {
			return result, i + 1
		}
		shift += 7
	}
	return result, len(b)
}

func decodeSigned(b []byte) (int64, int) {
	var result int64
	var shift uint
	var by byte
	i := 0
	for {
		by = b[i]
		result |= int64(by&0x7f) << shift
		shift += 7
		i++
		if by&0x80 == 0 {
			break
		}
	}
	if shift < 64 && by&0x40 != 0 {
		result |= -1 << shift
	}
	return result, i
}

func TestLEB128_UnsignedRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 63, 64, 127, 128, 300, math.MaxInt32, math.MaxUint32}
	for _, v := range values {
		enc := encodeUnsigned(v)
		got, n := decodeUnsigned(enc)
		if got != v || n != len(enc) {
			t.Fatalf("unsigned round trip failed for %d: got %d (consumed %d of %d)", v, got, n, len(enc))
		}
	}
}

func TestLEB128_SignedRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -64, 64, -65, 300, -300, math.MinInt32, math.MaxInt32}
	for _, v := range values {
		enc := encodeSigned(v)
		got, n := decodeSigned(enc)
		if got != v || n != len(enc) {
			t.Fatalf("signed round trip failed for %d: got %d (consumed %d of %d)", v, got, n, len(enc))
		}
	}
}

func TestEncodeF64_LittleEndianIEEE754(t *testing.T) {
	enc := encodeF64(1.5)
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf8, 0x3f}
	if len(enc) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(enc))
	}
	for i := range want {
		if enc[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, enc[i], want[i])
		}
	}
}

func TestModule_MagicAndVersion(t *testing.T) {
	out := compileToWasm(t, `func main() { print 3 + 4 * -5; }`)
	want := []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}
	if len(out) < 8 {
		t.Fatalf("module too short: %d bytes", len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, out[i], want[i])
		}
	}
}

func TestModule_ContainsExpectedSections(t *testing.T) {
	out := compileToWasm(t, `
		func factorial(n int) int {
			if n <= 1 {
				return 1;
			}
			return n * factorial(n - 1);
		}
		func main() int {
			return factorial(5);
		}
	`)

	// Walk section headers and collect the ids present; every module
	// must carry type(1), import(2), function(3), export(7), code(10).
	seen := map[byte]bool{}
	i := 8 // past magic+version
	for i < len(out) {
		id := out[i]
		i++
		size, n := decodeUnsigned(out[i:])
		i += n
		seen[id] = true
		i += int(size)
	}
	for _, want := range []byte{1, 2, 3, 7, 10} {
		if !seen[want] {
			t.Fatalf("missing section id %d; sections present: %v", want, seen)
		}
	}
}

func TestGlobalDeclarations_ProduceGlobalSection(t *testing.T) {
	out := compileToWasm(t, `
		var counter int = 0;
		func main() {
			counter = counter + 1;
			print counter;
		}
	`)
	seen := false
	i := 8
	for i < len(out) {
		id := out[i]
		i++
		size, n := decodeUnsigned(out[i:])
		i += n
		if id == 6 {
			seen = true
		}
		i += int(size)
	}
	if !seen {
		t.Fatalf("expected a global section for a top-level var declaration")
	}
}

func TestWasmType_FloatIsF64_OthersAreI32(t *testing.T) {
	if wasmType(types.Float) != ValF64 {
		t.Fatalf("float should map to f64")
	}
	for _, ty := range []types.Type{types.Int, types.Char, types.Bool, types.Unit} {
		if wasmType(ty) != ValI32 {
			t.Fatalf("%v should map to i32", ty)
		}
	}
}
