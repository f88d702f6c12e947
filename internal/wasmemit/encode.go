// Package wasmemit hand-assembles a WebAssembly MVP binary module from a
// transformed, type-checked Wabbit AST (spec.md §4.7), grounded on the
// original course's generate.py: an in-memory module builder followed by
// a binary section encoder, LEB128 integers, and structured
// block/loop/if control flow with short-circuit operator lowering.
package wasmemit

import (
	"encoding/binary"
	"math"
)

// Value types, per the WASM MVP encoding (spec.md §4.7).
const (
	ValI32 byte = 0x7f
	ValI64 byte = 0x7e
	ValF32 byte = 0x7d
	ValF64 byte = 0x7c
)

// encodeUnsigned produces an LEB128-encoded unsigned integer.
func encodeUnsigned(value uint64) []byte {
	var out []byte
	for {
		b := byte(value & 0x7f)
		value >>= 7
		if value != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

// encodeSigned produces an LEB128-encoded signed integer.
func encodeSigned(value int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(value & 0x7f)
		value >>= 7
		signBitSet := b&0x40 != 0
		if (value == 0 && !signBitSet) || (value == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

// encodeF64 encodes value as little-endian IEEE-754 64-bit.
func encodeF64(value float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(value))
	return buf
}

// vector length-prefixes items: the LEB128 count followed by their
// concatenation.
func vector(items [][]byte) []byte {
	out := encodeUnsigned(uint64(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

// encodeString length-prefixes s's bytes with their LEB128-encoded count,
// the WASM encoding of a name.
func encodeString(s string) []byte {
	return append(encodeUnsigned(uint64(len(s))), []byte(s)...)
}

// section wraps contents with its section id and LEB128-encoded length.
func section(id byte, contents []byte) []byte {
	out := []byte{id}
	out = append(out, encodeUnsigned(uint64(len(contents)))...)
	out = append(out, contents...)
	return out
}
