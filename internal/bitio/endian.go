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

package bitio

import (
	"fmt"
)

// Endianness selects the byte order for multi-byte, byte-aligned integers
// (spec.md §4.2, §4.5 "Encoding endianness").
type Endianness int

const (
	BigEndian Endianness = iota
	LittleEndian
)

// ReadUint reads a byte-aligned unsigned integer of the given width, 1 to 8
// bytes, in e's byte order. Widths that are not a power of two (a
// byte-aligned SizedInt such as u32(24)) are handled the same way as 2/4/8:
// the byte order only decides which end of the run is most significant.
func (r *Reader) ReadUint(e Endianness, width int) (uint64, error) {
	if width < 1 || width > 8 {
		return 0, fmt.Errorf("bitio: unsupported integer width %d", width)
	}
	b, err := r.ReadBytes(width)
	if err != nil {
		return 0, err
	}
	var v uint64
	if e == LittleEndian {
		for i := width - 1; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
	} else {
		for i := 0; i < width; i++ {
			v = v<<8 | uint64(b[i])
		}
	}
	return v, nil
}

// WriteUint writes a byte-aligned unsigned integer of the given width, 1 to
// 8 bytes, in e's byte order.
func (w *Writer) WriteUint(e Endianness, width int, v uint64) error {
	if width < 1 || width > 8 {
		return fmt.Errorf("bitio: unsupported integer width %d", width)
	}
	buf := make([]byte, width)
	if e == LittleEndian {
		for i := 0; i < width; i++ {
			buf[i] = byte(v)
			v >>= 8
		}
	} else {
		for i := width - 1; i >= 0; i-- {
			buf[i] = byte(v)
			v >>= 8
		}
	}
	return w.WriteBytes(buf)
}

// PatchUintAt overwrites a byte-aligned unsigned integer already written at
// bitPos, in e's byte order, without disturbing the writer's current
// position. Used for the two-pass length_of/count_of back-patch.
func (w *Writer) PatchUintAt(e Endianness, bitPos, width int, v uint64) error {
	if bitPos%8 != 0 {
		return ErrNotByteAligned
	}
	if width < 1 || width > 8 {
		return fmt.Errorf("bitio: unsupported integer width %d", width)
	}
	start := bitPos / 8
	if start+width > len(w.buf) {
		return ErrShortBuffer
	}
	buf := w.buf[start : start+width]
	if e == LittleEndian {
		for i := 0; i < width; i++ {
			buf[i] = byte(v)
			v >>= 8
		}
	} else {
		for i := width - 1; i >= 0; i-- {
			buf[i] = byte(v)
			v >>= 8
		}
	}
	return nil
}
