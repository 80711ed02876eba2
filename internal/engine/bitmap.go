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
	"github.com/skytrace/asterixcodec/internal/bitio"
	"github.com/skytrace/asterixcodec/internal/walkctx"
	"github.com/skytrace/asterixcodec/protocol"
	"github.com/skytrace/asterixcodec/value"
)

// decodeBitmapField reads a container's declared presence-bitmap field and
// replaces the top of the presence stack with the resulting Frame. No value
// is emitted for the bitmap field itself (spec.md §4.4, §4.5).
func decodeBitmapField(ctx *walkctx.Context, r *bitio.Reader, cont *protocol.Container) error {
	spec := cont.Bitmap
	switch spec.Kind {
	case protocol.BitmapFixed:
		n := spec.NBytes
		bits := walkctx.NewBits(n * 8)
		for byteIdx := 0; byteIdx < n; byteIdx++ {
			b, err := r.ReadBits(8)
			if err != nil {
				return &DecodeError{Kind: DecodeIo, Cause: err}
			}
			for k := 0; k < 8; k++ {
				bits.Set(byteIdx*8+k, (b>>uint(k))&1 != 0)
			}
		}
		ctx.Presence.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceFixed, Bits: bits, FieldToBit: cont.FieldToBit})
		return nil

	case protocol.BitmapSingleBit:
		prevIdx := r.BytePos() - 1
		b, _ := r.ByteAt(prevIdx)
		bits := walkctx.NewBits(1)
		bits.Set(0, b&1 != 0)
		ctx.Presence.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceSingleBit, Bits: bits, FieldToBit: cont.FieldToBit})
		return nil

	case protocol.BitmapVariable:
		var bitVals []bool
		if spec.PerByte == 8 {
			nBytes := (spec.MaxBits + 7) / 8
			for i := 0; i < nBytes; i++ {
				b, err := r.ReadBits(8)
				if err != nil {
					return &DecodeError{Kind: DecodeIo, Cause: err}
				}
				for slot := 0; slot < 8; slot++ {
					bitVals = append(bitVals, (b>>uint(7-slot))&1 != 0)
				}
			}
		} else {
			for {
				b, err := r.ReadBits(8)
				if err != nil {
					return &DecodeError{Kind: DecodeIo, Cause: err}
				}
				for slot := 0; slot < 7; slot++ {
					bitVals = append(bitVals, (b>>uint(7-slot))&1 != 0)
				}
				if b&1 == 0 {
					break
				}
			}
		}
		bits := walkctx.NewBits(len(bitVals))
		for i, v := range bitVals {
			bits.Set(i, v)
		}
		ctx.Presence.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceFspec, Bits: bits, FieldToBit: cont.FieldToBit})
		return nil
	}
	return nil
}

// extentBitmapField advances the cursor over a presence-bitmap field
// identically to decodeBitmapField. Extent needs the resulting Frame too,
// since later fields' presence in the same pass depends on it, so it simply
// delegates.
func extentBitmapField(ctx *walkctx.Context, r *bitio.Reader, cont *protocol.Container) error {
	return decodeBitmapField(ctx, r, cont)
}

// isPresentInValues reports whether fieldName names a non-absent entry in
// byName, the AsMap view of the struct/message Value being encoded.
func isPresentInValues(byName map[string]value.Value, fieldName string) bool {
	v, ok := byName[fieldName]
	return ok && !v.IsAbsent()
}

// encodeBitmapField derives presence for every field cont.BitToField
// assigns a bit to from the caller-supplied value tree, writes the bitmap
// bytes, and replaces the top of the presence stack so the Optional fields
// encoded right after can read their bit back out without rederiving it.
func encodeBitmapField(ctx *walkctx.Context, w *bitio.Writer, cont *protocol.Container, byName map[string]value.Value) error {
	spec := cont.Bitmap
	maxBit := -1
	present := map[int]bool{}
	for bit, name := range cont.BitToField {
		p := isPresentInValues(byName, name)
		present[bit] = p
		if p && bit > maxBit {
			maxBit = bit
		}
	}

	switch spec.Kind {
	case protocol.BitmapFixed:
		n := spec.NBytes
		buf := make([]byte, n)
		for bit, p := range present {
			if p {
				buf[bit/8] |= 1 << uint(bit%8)
			}
		}
		for _, b := range buf {
			if err := w.WriteBits(8, uint64(b)); err != nil {
				return err
			}
		}
		bits := walkctx.NewBits(n * 8)
		for bit, p := range present {
			bits.Set(bit, p)
		}
		ctx.Presence.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceFixed, Bits: bits, FieldToBit: cont.FieldToBit})
		return nil

	case protocol.BitmapSingleBit:
		p := present[0]
		if p {
			if err := w.PatchBitsAt(w.BitPos()-8+7, 1, 1); err != nil {
				return err
			}
		}
		bits := walkctx.NewBits(1)
		bits.Set(0, p)
		ctx.Presence.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceSingleBit, Bits: bits, FieldToBit: cont.FieldToBit})
		return nil

	case protocol.BitmapVariable:
		perByte := spec.PerByte
		nBits := maxBit + 1
		var nBytes int
		if perByte == 8 {
			nBytes = (spec.MaxBits + 7) / 8
		} else {
			nBytes = (nBits + perByte - 1) / perByte
			if nBytes == 0 {
				nBytes = 1
			}
		}
		for byteIdx := 0; byteIdx < nBytes; byteIdx++ {
			var b byte
			for slot := 0; slot < perByte; slot++ {
				bitIndex := byteIdx*perByte + slot
				if present[bitIndex] {
					b |= 1 << uint(7-slot)
				}
			}
			if perByte == 7 && byteIdx+1 < nBytes {
				b |= 1
			}
			if err := w.WriteBits(8, uint64(b)); err != nil {
				return err
			}
		}
		total := nBytes * perByte
		bits := walkctx.NewBits(total)
		for bit, p := range present {
			bits.Set(bit, p)
		}
		ctx.Presence.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceFspec, Bits: bits, FieldToBit: cont.FieldToBit})
		return nil
	}
	return nil
}
