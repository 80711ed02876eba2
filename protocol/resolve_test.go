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

package protocol_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skytrace/asterixcodec/dsl"
	"github.com/skytrace/asterixcodec/protocol"
)

func u8(name string) dsl.Field {
	return dsl.Field{Name: name, Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}
}

func TestResolveSimpleMessage(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name: "R",
			Fields: []dsl.Field{
				u8("category"),
				{Name: "len", Type: dsl.TypeSpec{Kind: dsl.KindLengthOf, RefField: "payload", Base: dsl.U16, Bits: 16}},
				{Name: "payload", Type: dsl.TypeSpec{
					Kind: dsl.KindArray,
					Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8},
					ArrayLen: dsl.FieldLen("len"),
				}},
			},
		}},
	}

	p, err := protocol.Resolve(schema)
	require.NoError(t, err)
	require.Contains(t, p.Messages, "R")
	msg := p.Messages["R"]
	require.Len(t, msg.Fields, 3)
	require.True(t, msg.Fields[2].Type.ArrayLen.ByField())
}

func TestResolveUnknownLengthOfRef(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name: "R",
			Fields: []dsl.Field{
				{Name: "len", Type: dsl.TypeSpec{Kind: dsl.KindLengthOf, RefField: "missing"}},
			},
		}},
	}

	_, err := protocol.Resolve(schema)
	require.Error(t, err)
	rerr, ok := err.(*protocol.ResolveError)
	require.True(t, ok)
	require.Equal(t, protocol.BadReference, rerr.Kind)
}

func TestResolveStructCycle(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Structs: []dsl.Struct{
			{Name: "A", Fields: []dsl.Field{
				{Name: "b", Type: dsl.TypeSpec{Kind: dsl.KindStructRef, StructName: "B"}},
			}},
			{Name: "B", Fields: []dsl.Field{
				{Name: "a", Type: dsl.TypeSpec{Kind: dsl.KindStructRef, StructName: "A"}},
			}},
		},
	}

	_, err := protocol.Resolve(schema)
	require.Error(t, err)
	rerr, ok := err.(*protocol.ResolveError)
	require.True(t, ok)
	require.Equal(t, protocol.Cycle, rerr.Kind)
}

func TestResolveImplicitBitmap(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name: "R",
			Fields: []dsl.Field{
				{Name: "fspec", Type: dsl.TypeSpec{Kind: dsl.KindBitmap, MaxBits: 3, PerByte: 7}},
				{Name: "x", Type: dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}},
				{Name: "y", Type: dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}},
				{Name: "z", Type: dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}},
			},
		}},
	}

	p, err := protocol.Resolve(schema)
	require.NoError(t, err)
	msg := p.Messages["R"]
	require.NotNil(t, msg.Bitmap)
	require.Equal(t, protocol.BitmapVariable, msg.Bitmap.Kind)
	require.Equal(t, 0, msg.FieldToBit["x"])
	require.Equal(t, 1, msg.FieldToBit["y"])
	require.Equal(t, 2, msg.FieldToBit["z"])
	require.NotNil(t, msg.Fields[1].Consecutive)
	require.Equal(t, "fspec", msg.Fields[1].Consecutive.BitmapField)
}

// TestResolveFixedBitmapPartialCoverage covers spec.md §3 scenario 2: a
// presence_bits(1) field declares 8 addressable bit slots but only two
// consecutive optionals follow it. That is not a mismatch — a Fixed
// bitmap's unused high bits are simply never assigned a field — unlike a
// bounded variable bitmap or a single-bit frame, which both require an
// exact match.
func TestResolveFixedBitmapPartialCoverage(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name: "P",
			Fields: []dsl.Field{
				{Name: "flags", Type: dsl.TypeSpec{Kind: dsl.KindPresenceBits, NBytes: 1}},
				{Name: "a", Type: dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}},
				{Name: "b", Type: dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U16}}},
			},
		}},
	}

	p, err := protocol.Resolve(schema)
	require.NoError(t, err)
	msg := p.Messages["P"]
	require.Equal(t, 0, msg.FieldToBit["a"])
	require.Equal(t, 1, msg.FieldToBit["b"])
}

func TestResolveBitmapMismatchErrors(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name: "R",
			Fields: append(
				[]dsl.Field{{Name: "presence", Type: dsl.TypeSpec{Kind: dsl.KindPresenceBits, NBytes: 1}}},
				nOptionalU8Fields(9)...,
			),
		}},
	}

	_, err := protocol.Resolve(schema)
	require.Error(t, err)
	rerr, ok := err.(*protocol.ResolveError)
	require.True(t, ok)
	require.Equal(t, protocol.BitmapBitsMismatch, rerr.Kind)
	require.Equal(t, 8, rerr.Expected)
	require.Equal(t, 9, rerr.Got)
}

// nOptionalU8Fields returns n distinct optional<u8> fields, used to build a
// consecutive-optional run longer than a Fixed bitmap can address.
func nOptionalU8Fields(n int) []dsl.Field {
	out := make([]dsl.Field, n)
	for i := range out {
		out[i] = dsl.Field{
			Name: fmt.Sprintf("f%d", i),
			Type: dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}},
		}
	}
	return out
}

func TestResolveExplicitBitMap(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name: "R",
			Fields: []dsl.Field{
				{Name: "fspec", Type: dsl.TypeSpec{
					Kind: dsl.KindBitmap, MaxBits: -1, PerByte: 7,
					BitMap: map[int]string{0: "x", 7: "z"},
				}},
				{Name: "x", Type: dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}},
				{Name: "z", Type: dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}},
			},
		}},
	}

	p, err := protocol.Resolve(schema)
	require.NoError(t, err)
	msg := p.Messages["R"]
	require.Equal(t, 0, msg.FieldToBit["x"])
	require.Equal(t, 7, msg.FieldToBit["z"])
}

func TestResolveDuplicateFieldName(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name:   "R",
			Fields: []dsl.Field{u8("x"), u8("x")},
		}},
	}

	_, err := protocol.Resolve(schema)
	require.Error(t, err)
	rerr, ok := err.(*protocol.ResolveError)
	require.True(t, ok)
	require.Equal(t, protocol.DuplicateName, rerr.Kind)
}

func TestResolveSaturatingConstraint(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name: "R",
			Fields: []dsl.Field{
				{
					Name:       "x",
					Type:       dsl.TypeSpec{Kind: dsl.KindSizedInt, Base: dsl.U8, Bits: 3},
					Constraint: &dsl.Constraint{Ranges: []dsl.Interval{{Lo: 0, Hi: 7}}},
				},
			},
		}},
	}

	p, err := protocol.Resolve(schema)
	require.NoError(t, err)
	require.True(t, p.Messages["R"].Fields[0].Saturating)
}

func TestResolveListElementMinSize(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Structs: []dsl.Struct{{
			Name:   "Pair",
			Fields: []dsl.Field{u8("a"), u8("b")},
		}},
		Messages: []dsl.Message{{
			Name: "R",
			Fields: []dsl.Field{
				{Name: "items", Type: dsl.TypeSpec{
					Kind:  dsl.KindList,
					Inner: &dsl.TypeSpec{Kind: dsl.KindStructRef, StructName: "Pair"},
				}},
			},
		}},
	}

	p, err := protocol.Resolve(schema)
	require.NoError(t, err)
	require.Equal(t, 2, p.Messages["R"].Fields[0].Type.ElementMinSize)
}

func TestResolvePayloadDispatch(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Transport: []dsl.Field{u8("cat")},
		Messages: []dsl.Message{
			{Name: "A", Fields: []dsl.Field{u8("x")}},
			{Name: "B", Fields: []dsl.Field{u8("y")}},
		},
		Payload: &dsl.Payload{
			Messages: []string{"A", "B"},
			Selector: &dsl.PayloadSelector{Field: "cat", Cases: map[int64]string{1: "A", 2: "B"}},
		},
	}

	p, err := protocol.Resolve(schema)
	require.NoError(t, err)
	require.NotNil(t, p.Payload)
	require.Equal(t, "A", p.Payload.Selector.Cases[1])
}

func TestResolveUnknownStructRef(t *testing.T) {
	t.Parallel()

	schema := &dsl.Schema{
		Messages: []dsl.Message{{
			Name: "R",
			Fields: []dsl.Field{
				{Name: "s", Type: dsl.TypeSpec{Kind: dsl.KindStructRef, StructName: "Missing"}},
			},
		}},
	}

	_, err := protocol.Resolve(schema)
	require.Error(t, err)
	rerr, ok := err.(*protocol.ResolveError)
	require.True(t, ok)
	require.Equal(t, protocol.UnknownType, rerr.Kind)
}
