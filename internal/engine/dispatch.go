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

// recordInt stashes a just-produced integer value under name so a later
// condition, array length, or length_of/count_of reference in the same
// container can find it (spec.md §4.3 "values").
func recordInt(ctx *walkctx.Context, name string, v value.Value) {
	if iv, ok := intOf(v); ok {
		ctx.SetInt(name, iv)
	}
}

// wrapField attaches outer to the field chain of a *DecodeError or
// *EncodeError, leaving any other error untouched. This is the one place
// that builds the "outer.inner.leaf" chain of spec.md §7, applied once per
// container level as an error propagates out of [DecodeContainer] or
// [EncodeContainer].
func wrapField(err error, outer string) error {
	switch e := err.(type) {
	case *DecodeError:
		return e.withField(outer)
	case *EncodeError:
		return e.withField(outer)
	default:
		return err
	}
}

// runField is the single recursive dispatch over protocol.FieldType shared
// by Decode, Extent, Validate, and Zero (spec.md §4.5). Leaf scalar kinds are
// handled directly; Array/List/RepList/StructRef/Optional delegate to
// [decodeComposite]. PresenceBits/Bitmap kinds are never reached here: the
// container loop recognizes and consumes its own declared bitmap field
// before it would otherwise call runField on it.
func runField(ctx *walkctx.Context, r *bitio.Reader, endian bitio.Endianness, f *protocol.Field, mode Mode) (value.Value, error) {
	ft := &f.Type
	switch ft.Kind {
	case protocol.KindBase:
		v, err := decodeBase(r, endian, ft.Base)
		if err != nil {
			return value.Value{}, err
		}
		if mode.checksConstraints() {
			if err := checkConstraint(f, v); err != nil {
				return value.Value{}, err
			}
		}
		recordInt(ctx, f.Name, v)
		return v, nil

	case protocol.KindSizedInt:
		v, err := decodeSizedInt(r, endian, ft.Base, ft.Bits)
		if err != nil {
			return value.Value{}, err
		}
		if mode.checksConstraints() {
			if err := checkConstraint(f, v); err != nil {
				return value.Value{}, err
			}
		}
		recordInt(ctx, f.Name, v)
		return v, nil

	case protocol.KindBitfield:
		v, err := decodeBitfield(r, ft.Bits)
		if err != nil {
			return value.Value{}, err
		}
		if mode.checksConstraints() {
			if err := checkConstraint(f, v); err != nil {
				return value.Value{}, err
			}
		}
		recordInt(ctx, f.Name, v)
		return v, nil

	case protocol.KindPadding:
		if err := decodePadding(r, ft, mode); err != nil {
			return value.Value{}, err
		}
		return value.Value{}, nil

	case protocol.KindOctetsFx:
		if mode.producesValues() {
			return decodeOctetsFx(r)
		}
		if err := extentOctetsFx(r); err != nil {
			return value.Value{}, err
		}
		return value.Value{}, nil

	case protocol.KindLengthOf, protocol.KindCountOf:
		// Decode never enforces length_of/count_of equality against the
		// referent (spec.md §4.5): the value is simply read and recorded
		// for later fields to consult.
		v, err := decodeSizedInt(r, endian, ft.Base, ft.Bits)
		if err != nil {
			return value.Value{}, err
		}
		recordInt(ctx, f.Name, v)
		return v, nil

	default:
		return decodeComposite(ctx, r, endian, f, mode)
	}
}

// DecodeContainer runs every field of cont in declaration order: the
// container's own bitmap field (if any) is consumed directly, Condition
// guards are evaluated against ctx before a field participates at all, and
// every other field goes through runField. Errors are wrapped with this
// field's name on the way out, building the dotted field chain as the call
// stack unwinds (spec.md §7).
func DecodeContainer(ctx *walkctx.Context, r *bitio.Reader, endian bitio.Endianness, cont *protocol.Container, mode Mode) (value.Value, error) {
	var fields []value.Field
	if mode.producesValues() {
		fields = make([]value.Field, 0, len(cont.Fields))
	}

	for i := range cont.Fields {
		f := &cont.Fields[i]

		if cont.Bitmap != nil && f.Name == cont.Bitmap.FieldName {
			if err := decodeBitmapField(ctx, r, cont); err != nil {
				return value.Value{}, wrapField(err, f.Name)
			}
			continue
		}

		if f.Condition != nil {
			ok, err := evalCondition(ctx, f.Condition)
			if err != nil {
				return value.Value{}, wrapField(err, f.Name)
			}
			if !ok {
				continue
			}
		}

		v, err := runField(ctx, r, endian, f, mode)
		if err != nil {
			return value.Value{}, wrapField(err, f.Name)
		}
		if mode.producesValues() {
			fields = append(fields, value.Field{Name: f.Name, Value: v})
		}
	}

	if mode.producesValues() {
		return value.Struct(fields), nil
	}
	return value.Value{}, nil
}

// evalCondition resolves an `if field == value` guard against ctx. The
// referenced field must already have been decoded or encoded earlier in the
// same container (spec.md §4.1 invariant); its absence is fatal, not a
// silent skip.
func evalCondition(ctx *walkctx.Context, cond *protocol.Condition) (bool, error) {
	v, ok := ctx.GetInt(cond.Field)
	if !ok {
		return false, &DecodeError{Kind: DecodeMissingReference, Field: cond.Field}
	}
	return v == cond.Value, nil
}

// encodeField is the Writer-based counterpart of runField.
func encodeField(ctx *walkctx.Context, w *bitio.Writer, endian bitio.Endianness, f *protocol.Field, v value.Value) error {
	ft := &f.Type
	switch ft.Kind {
	case protocol.KindBase:
		if err := checkRangeEncode(f, v); err != nil {
			return err
		}
		if err := encodeBase(w, endian, ft.Base, v); err != nil {
			return err
		}
		recordInt(ctx, f.Name, v)
		return nil

	case protocol.KindSizedInt:
		if err := checkRangeEncode(f, v); err != nil {
			return err
		}
		if err := encodeSizedInt(w, endian, ft.Base, ft.Bits, v); err != nil {
			return err
		}
		recordInt(ctx, f.Name, v)
		return nil

	case protocol.KindBitfield:
		if err := checkRangeEncode(f, v); err != nil {
			return err
		}
		if err := encodeBitfield(w, ft.Bits, v); err != nil {
			return err
		}
		recordInt(ctx, f.Name, v)
		return nil

	case protocol.KindPadding:
		return encodePadding(w, ft)

	case protocol.KindOctetsFx:
		return encodeOctetsFx(w, v.Octets)

	case protocol.KindLengthOf, protocol.KindCountOf:
		return encodeLengthOrCount(ctx, w, endian, f)

	default:
		_, err := encodeComposite(ctx, w, endian, f, v)
		return err
	}
}

// encodeLengthOrCount implements the two-pass length_of/count_of encode of
// spec.md §4.5 and §9: if the referent has already finished encoding (a
// backward reference), the value is known immediately; otherwise a zero
// placeholder is written and a [walkctx.PendingPatch] is recorded for
// [EncodeContainer] to resolve once the referent is encoded.
func encodeLengthOrCount(ctx *walkctx.Context, w *bitio.Writer, endian bitio.Endianness, f *protocol.Field) error {
	ft := &f.Type
	isCount := ft.Kind == protocol.KindCountOf

	if ext, ok := ctx.GetExtent(ft.RefField); ok {
		val := uint64(ext.Bits / 8)
		if isCount {
			val = uint64(ext.Count)
		}
		return writeLenCountValue(w, endian, ft, val)
	}

	pos := w.BitPos()
	if err := writeLenCountValue(w, endian, ft, 0); err != nil {
		return err
	}
	ctx.PendingPatches = append(ctx.PendingPatches, walkctx.PendingPatch{
		Field:    f.Name,
		BitPos:   pos,
		Bits:     ft.Bits,
		RefField: ft.RefField,
		IsCount:  isCount,
	})
	return nil
}

func writeLenCountValue(w *bitio.Writer, endian bitio.Endianness, ft *protocol.FieldType, v uint64) error {
	if ft.Bits%8 == 0 && w.BitPos()%8 == 0 {
		return w.WriteUint(endian, ft.Bits/8, v)
	}
	return w.WriteBits(ft.Bits, v)
}

// elementCount reports the element count a count_of field should record for
// v: list/array length or octet-string byte length.
func elementCount(v value.Value) int {
	switch v.Kind {
	case value.KindList:
		return len(v.Items)
	case value.KindBytes:
		return len(v.Octets)
	default:
		return 0
	}
}

// requiresEncodedValue reports whether kind expects the caller to supply a
// concrete value in the map passed to EncodeContainer. Padding is always
// zero-filled by the engine itself, and LengthOf/CountOf are computed from
// their referent, so neither can be "missing" the way a Base/Array/StructRef/
// etc. field can (spec.md §6 EncodeError.MissingField). Optional fields are
// exempt too: an absent value there just means "not present," not an error.
func requiresEncodedValue(k protocol.TypeKind) bool {
	switch k {
	case protocol.KindOptional, protocol.KindPadding, protocol.KindLengthOf, protocol.KindCountOf:
		return false
	default:
		return true
	}
}

// EncodeContainer is the Writer-based counterpart of DecodeContainer. v must
// be a KindStruct value whose member names match cont's fields; members the
// container doesn't recognize are ignored. A field v omits encodes as absent
// when that's meaningful (Optional, Padding, LengthOf/CountOf); any other
// omitted field fails with an EncodeError of kind EncodeMissingField.
func EncodeContainer(ctx *walkctx.Context, w *bitio.Writer, endian bitio.Endianness, cont *protocol.Container, v value.Value) error {
	byName := v.AsMap()

	for i := range cont.Fields {
		f := &cont.Fields[i]

		if cont.Bitmap != nil && f.Name == cont.Bitmap.FieldName {
			if err := encodeBitmapField(ctx, w, cont, byName); err != nil {
				return wrapField(err, f.Name)
			}
			continue
		}

		if f.Condition != nil {
			ok, err := evalCondition(ctx, f.Condition)
			if err != nil {
				return wrapField(err, f.Name)
			}
			if !ok {
				continue
			}
		}

		fv := byName[f.Name]
		if fv.IsAbsent() && requiresEncodedValue(f.Type.Kind) {
			return wrapField(&EncodeError{Kind: EncodeMissingField}, f.Name)
		}
		startBit := w.BitPos()
		if err := encodeField(ctx, w, endian, f, fv); err != nil {
			return wrapField(err, f.Name)
		}
		endBit := w.BitPos()
		ctx.RecordExtent(f.Name, endBit-startBit, elementCount(fv))

		if err := resolvePendingPatches(ctx, w, endian, f.Name); err != nil {
			return wrapField(err, f.Name)
		}
	}
	return nil
}

// resolvePendingPatches back-patches every PendingPatch waiting on refName,
// now that refName has finished encoding, and removes them from the queue.
func resolvePendingPatches(ctx *walkctx.Context, w *bitio.Writer, endian bitio.Endianness, refName string) error {
	if len(ctx.PendingPatches) == 0 {
		return nil
	}
	ext, ok := ctx.GetExtent(refName)
	if !ok {
		return nil
	}

	kept := ctx.PendingPatches[:0]
	for _, p := range ctx.PendingPatches {
		if p.RefField != refName {
			kept = append(kept, p)
			continue
		}
		val := uint64(ext.Bits / 8)
		if p.IsCount {
			val = uint64(ext.Count)
		}
		if err := patchLenCountValue(w, endian, p, val); err != nil {
			return err
		}
	}
	ctx.PendingPatches = kept
	return nil
}

func patchLenCountValue(w *bitio.Writer, endian bitio.Endianness, p walkctx.PendingPatch, v uint64) error {
	if p.Bits%8 == 0 && p.BitPos%8 == 0 {
		return w.PatchUintAt(endian, p.BitPos, p.Bits/8, v)
	}
	return w.PatchBitsAt(p.BitPos, p.Bits, v)
}
