// Copyright 2026 The AsterixCodec Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"math"

	"github.com/skytrace/asterixcodec/dsl"
	"github.com/skytrace/asterixcodec/internal/bitio"
	"github.com/skytrace/asterixcodec/protocol"
	"github.com/skytrace/asterixcodec/value"
)

// signExtend interprets the low `bits` bits of u as a two's-complement
// signed integer.
func signExtend(u uint64, bits int) int64 {
	if bits >= 64 {
		return int64(u)
	}
	shift := 64 - bits
	return int64(u<<shift) >> shift
}

func truncateToBits(v int64, bits int) uint64 {
	if bits >= 64 {
		return uint64(v)
	}
	mask := uint64(1)<<uint(bits) - 1
	return uint64(v) & mask
}

// decodeBase reads a fixed-width Base(BaseType) value. Base fields are
// always byte aligned (spec.md §3 "Fixed-width value").
func decodeBase(r *bitio.Reader, endian bitio.Endianness, base dsl.BaseType) (value.Value, error) {
	switch base {
	case dsl.Bool:
		u, err := r.ReadUint(endian, 1)
		if err != nil {
			return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
		}
		return value.Bool(u != 0), nil
	case dsl.F32:
		u, err := r.ReadUint(endian, 4)
		if err != nil {
			return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
		}
		return value.Float(float64(math.Float32frombits(uint32(u)))), nil
	case dsl.F64:
		u, err := r.ReadUint(endian, 8)
		if err != nil {
			return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
		}
		return value.Float(math.Float64frombits(u)), nil
	default:
		width := base.ByteWidth()
		u, err := r.ReadUint(endian, width)
		if err != nil {
			return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
		}
		if base.Signed() {
			return value.Int(signExtend(u, width*8)), nil
		}
		return value.Uint(u), nil
	}
}

func encodeBase(w *bitio.Writer, endian bitio.Endianness, base dsl.BaseType, v value.Value) error {
	switch base {
	case dsl.Bool:
		u := uint64(0)
		if v.B {
			u = 1
		}
		return w.WriteUint(endian, 1, u)
	case dsl.F32:
		return w.WriteUint(endian, 4, uint64(math.Float32bits(float32(v.F))))
	case dsl.F64:
		return w.WriteUint(endian, 8, math.Float64bits(v.F))
	default:
		width := base.ByteWidth()
		var u uint64
		if base.Signed() {
			u = truncateToBits(v.I, width*8)
		} else {
			u = v.U
		}
		return w.WriteUint(endian, width, u)
	}
}

// decodeSizedInt reads a bit-packed n-bit integer. When the field happens to
// be byte aligned and a whole number of bytes wide, it is read through the
// endianness adapter like a Base field instead of bit by bit (spec.md §4.5
// "Encoding endianness ... applies to ... SizedInt whose bit-width is a
// multiple of 8 and byte-aligned").
func decodeSizedInt(r *bitio.Reader, endian bitio.Endianness, base dsl.BaseType, bits int) (value.Value, error) {
	var u uint64
	var err error
	if bits%8 == 0 && r.Aligned() {
		u, err = r.ReadUint(endian, bits/8)
	} else {
		u, err = r.ReadBits(bits)
	}
	if err != nil {
		return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
	}
	if base.Signed() {
		return value.Int(signExtend(u, bits)), nil
	}
	return value.Uint(u), nil
}

func encodeSizedInt(w *bitio.Writer, endian bitio.Endianness, base dsl.BaseType, bits int, v value.Value) error {
	var u uint64
	if base.Signed() {
		u = truncateToBits(v.I, bits)
	} else {
		u = v.U
	}
	if bits%8 == 0 && w.BitPos()%8 == 0 {
		return w.WriteUint(endian, bits/8, u)
	}
	return w.WriteBits(bits, u)
}

func decodeBitfield(r *bitio.Reader, bits int) (value.Value, error) {
	u, err := r.ReadBits(bits)
	if err != nil {
		return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
	}
	return value.Uint(u), nil
}

func encodeBitfield(w *bitio.Writer, bits int, v value.Value) error {
	return w.WriteBits(bits, v.U)
}

func paddingBits(ft *protocol.FieldType) int {
	if ft.PaddingUnit == protocol.PaddingBits {
		return ft.Bits
	}
	return ft.Bits * 8
}

func decodePadding(r *bitio.Reader, ft *protocol.FieldType, mode Mode) error {
	n := paddingBits(ft)
	if mode == Zero {
		if err := r.ZeroBits(n); err != nil {
			return &DecodeError{Kind: DecodeIo, Cause: err}
		}
		return nil
	}
	if err := r.SkipBits(n); err != nil {
		return &DecodeError{Kind: DecodeIo, Cause: err}
	}
	return nil
}

func encodePadding(w *bitio.Writer, ft *protocol.FieldType) error {
	return w.WriteBits(paddingBits(ft), 0)
}

// decodeOctetsFx consumes bytes until one with a clear MSB, inclusive
// (spec.md §3 "OctetsFx"). At least one byte is always required: an
// immediately-clear terminator byte is a valid one-byte encoding.
func decodeOctetsFx(r *bitio.Reader) (value.Value, error) {
	var out []byte
	for {
		b, err := r.ReadBits(8)
		if err != nil {
			return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
		}
		out = append(out, byte(b))
		if b&0x80 == 0 {
			break
		}
	}
	return value.Bytes(out), nil
}

func extentOctetsFx(r *bitio.Reader) error {
	for {
		b, err := r.ReadBits(8)
		if err != nil {
			return &DecodeError{Kind: DecodeIo, Cause: err}
		}
		if b&0x80 == 0 {
			return nil
		}
	}
}

// encodeOctetsFx emits the caller-supplied byte sequence verbatim, after
// checking every byte but the last has its MSB set and the last does not.
func encodeOctetsFx(w *bitio.Writer, b []byte) error {
	if len(b) == 0 {
		return &EncodeError{Kind: EncodeBadFxExtension}
	}
	for i, c := range b {
		last := i == len(b)-1
		if last && c&0x80 != 0 {
			return &EncodeError{Kind: EncodeBadFxExtension}
		}
		if !last && c&0x80 == 0 {
			return &EncodeError{Kind: EncodeBadFxExtension}
		}
	}
	for _, c := range b {
		if err := w.WriteBits(8, uint64(c)); err != nil {
			return err
		}
	}
	return nil
}
