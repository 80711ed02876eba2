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

// arrayCount resolves an Array field's element count, either a literal or a
// sibling field already recorded in ctx (spec.md §4.5 "Array").
func arrayCount(ctx *walkctx.Context, ft *protocol.FieldType) (int, error) {
	if !ft.ArrayLen.ByField() {
		return ft.ArrayLen.Literal, nil
	}
	n, ok := ctx.GetInt(ft.ArrayLen.FromName)
	if !ok {
		return 0, &DecodeError{Kind: DecodeMissingReference, Field: ft.ArrayLen.FromName}
	}
	return int(n), nil
}

// capCount clamps a decoded List/RepList count against the bytes actually
// remaining, so a corrupt length can never drive a runaway read (spec.md
// §4.5 "List"/"RepList").
func capCount(n, remaining, elementMin int) (int, bool) {
	if elementMin <= 0 {
		elementMin = 1
	}
	maxPossible := remaining / elementMin
	if n > maxPossible {
		return maxPossible, true
	}
	return n, false
}

// decodeComposite handles the decode-direction (Reader-based) Array, List,
// RepList, StructRef, and Optional kinds shared by Decode/Extent/Validate/
// Zero. Scalar and leaf kinds are handled directly in runField.
func decodeComposite(ctx *walkctx.Context, r *bitio.Reader, endian bitio.Endianness, f *protocol.Field, mode Mode) (value.Value, error) {
	ft := &f.Type
	switch ft.Kind {
	case protocol.KindArray:
		n, err := arrayCount(ctx, ft)
		if err != nil {
			return value.Value{}, err
		}
		return runRepeated(ctx, r, endian, f, ft.Inner, n, mode)

	case protocol.KindList:
		count, err := r.ReadUint(endian, 4)
		if err != nil {
			return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
		}
		n, capped := capCount(int(count), r.RemainingBytes(), ft.ElementMinSize)
		if capped {
			return value.Value{}, &DecodeError{Kind: DecodeCorruptLength}
		}
		return runRepeated(ctx, r, endian, f, ft.Inner, n, mode)

	case protocol.KindRepList:
		count, err := r.ReadUint(endian, 1)
		if err != nil {
			return value.Value{}, &DecodeError{Kind: DecodeIo, Cause: err}
		}
		n, capped := capCount(int(count), r.RemainingBytes(), ft.ElementMinSize)
		if capped {
			return value.Value{}, &DecodeError{Kind: DecodeCorruptLength}
		}
		return runRepeated(ctx, r, endian, f, ft.Inner, n, mode)

	case protocol.KindStructRef:
		ctx.Presence.Push()
		defer ctx.Presence.Pop()
		return DecodeContainer(ctx, r, endian, &ft.Struct.Container, mode)

	case protocol.KindOptional:
		return decodeOptional(ctx, r, endian, f, mode)
	}
	return value.Value{}, &DecodeError{Field: f.Name, Cause: errUnhandledKind(ft.Kind)}
}

// runRepeated decodes n repetitions of inner, building a KindList Value
// only when mode produces values; in Extent/Validate/Zero it still recurses
// n times (every repetition must still be walked to advance the cursor and
// check constraints) but never allocates the element slice.
func runRepeated(ctx *walkctx.Context, r *bitio.Reader, endian bitio.Endianness, outer *protocol.Field, inner *protocol.FieldType, n int, mode Mode) (value.Value, error) {
	var items []value.Value
	if mode.producesValues() {
		items = make([]value.Value, 0, n)
	}
	elemField := protocol.Field{Name: outer.Name, Type: *inner}
	for i := 0; i < n; i++ {
		v, err := runField(ctx, r, endian, &elemField, mode)
		if err != nil {
			return value.Value{}, err
		}
		if mode.producesValues() {
			items = append(items, v)
		}
	}
	if mode.producesValues() {
		return value.List(items), nil
	}
	return value.Value{}, nil
}

// decodeOptional determines presence either from the active presence-stack
// frame (Consecutive) or from a dedicated presence byte, then recurses into
// the inner type carrying the Optional field's own Constraint/Saturating
// (spec.md §4.5 "Optional").
func decodeOptional(ctx *walkctx.Context, r *bitio.Reader, endian bitio.Endianness, f *protocol.Field, mode Mode) (value.Value, error) {
	present, err := readOptionalPresence(ctx, r, f)
	if err != nil {
		return value.Value{}, err
	}
	if !present {
		return value.Absent(), nil
	}
	inner := protocol.Field{Name: f.Name, Type: *f.Type.Inner, Constraint: f.Constraint, Saturating: f.Saturating}
	return runField(ctx, r, endian, &inner, mode)
}

func readOptionalPresence(ctx *walkctx.Context, r *bitio.Reader, f *protocol.Field) (bool, error) {
	if f.Consecutive != nil {
		if top, ok := ctx.Presence.Top(); ok {
			if p, governed := top.Present(f.Name); governed {
				return p, nil
			}
		}
	}
	b, err := r.ReadBits(8)
	if err != nil {
		return false, &DecodeError{Kind: DecodeIo, Cause: err}
	}
	return b != 0, nil
}

// encodeComposite is the Writer-based counterpart of decodeComposite.
func encodeComposite(ctx *walkctx.Context, w *bitio.Writer, endian bitio.Endianness, f *protocol.Field, v value.Value) (int, error) {
	ft := &f.Type
	switch ft.Kind {
	case protocol.KindArray:
		n, err := encodeRepeated(ctx, w, endian, f, ft.Inner, v)
		return n, err

	case protocol.KindList:
		items := v.Items
		if err := w.WriteUint(endian, 4, uint64(len(items))); err != nil {
			return -1, err
		}
		return encodeRepeated(ctx, w, endian, f, ft.Inner, v)

	case protocol.KindRepList:
		items := v.Items
		if err := w.WriteUint(endian, 1, uint64(len(items))); err != nil {
			return -1, err
		}
		return encodeRepeated(ctx, w, endian, f, ft.Inner, v)

	case protocol.KindStructRef:
		ctx.Presence.Push()
		defer ctx.Presence.Pop()
		return -1, EncodeContainer(ctx, w, endian, &ft.Struct.Container, v)

	case protocol.KindOptional:
		return -1, encodeOptional(ctx, w, endian, f, v)
	}
	return -1, &EncodeError{Field: f.Name, Kind: EncodeTypeMismatch, Expected: "known type kind", Got: ft.Kind.String()}
}

func encodeRepeated(ctx *walkctx.Context, w *bitio.Writer, endian bitio.Endianness, outer *protocol.Field, inner *protocol.FieldType, v value.Value) (int, error) {
	elemField := protocol.Field{Name: outer.Name, Type: *inner}
	for _, item := range v.Items {
		if err := encodeField(ctx, w, endian, &elemField, item); err != nil {
			return -1, err
		}
	}
	return len(v.Items), nil
}

// encodeOptional writes a dedicated presence byte when the field is not
// governed by an active bitmap frame; when it is, the bitmap field already
// emitted its presence bit, so only the inner value (if present) is
// written.
func encodeOptional(ctx *walkctx.Context, w *bitio.Writer, endian bitio.Endianness, f *protocol.Field, v value.Value) error {
	present := !v.IsAbsent()
	governed := false
	if f.Consecutive != nil {
		if top, ok := ctx.Presence.Top(); ok {
			_, governed = top.Present(f.Name)
		}
	}
	if !governed {
		u := uint64(0)
		if present {
			u = 1
		}
		if err := w.WriteBits(8, u); err != nil {
			return err
		}
	}
	if !present {
		return nil
	}
	inner := protocol.Field{Name: f.Name, Type: *f.Type.Inner, Constraint: f.Constraint, Saturating: f.Saturating}
	return encodeField(ctx, w, endian, &inner, v)
}
