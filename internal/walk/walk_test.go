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

package walk_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skytrace/asterixcodec/dsl"
	"github.com/skytrace/asterixcodec/internal/bitio"
	"github.com/skytrace/asterixcodec/internal/engine"
	"github.com/skytrace/asterixcodec/internal/walk"
	"github.com/skytrace/asterixcodec/internal/walkctx"
	"github.com/skytrace/asterixcodec/protocol"
)

func resolve(t *testing.T, msg dsl.Message) *protocol.Protocol {
	t.Helper()
	p, err := protocol.Resolve(&dsl.Schema{Messages: []dsl.Message{msg}})
	require.NoError(t, err)
	return p
}

func simpleMessage() dsl.Message {
	return dsl.Message{
		Name: "Simple",
		Fields: []dsl.Field{
			{Name: "id", Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}},
			{Name: "len", Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U16}},
			{Name: "data", Type: dsl.TypeSpec{Kind: dsl.KindList, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}},
		},
	}
}

// Extent parity (spec.md §8 property 3): the byte length Extent reports must
// equal what Decode actually consumes.
func TestExtentMatchesDecodeLength(t *testing.T) {
	t.Parallel()

	p := resolve(t, simpleMessage())
	buf := []byte{0x2A, 0x03, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x02, 0x03, 0xFF}

	n, err := walk.Extent(p, bitio.LittleEndian, buf, 0, "Simple")
	require.NoError(t, err)
	require.Equal(t, 10, n)

	r := bitio.NewReader(buf)
	ctx := walkctx.New()
	_, derr := engine.DecodeContainer(ctx, r, bitio.LittleEndian, &p.Messages["Simple"].Container, engine.Decode)
	require.NoError(t, derr)
	require.Equal(t, 10, r.BytePos())
}

func TestExtentUnknownMessage(t *testing.T) {
	t.Parallel()

	p := resolve(t, simpleMessage())
	_, err := walk.Extent(p, bitio.LittleEndian, []byte{0}, 0, "NoSuchMessage")
	require.Error(t, err)
}

// Validate fails with the same cause Decode would (spec.md §8 property 4).
func TestValidateFailsOnConstraintViolation(t *testing.T) {
	t.Parallel()

	c := dsl.Constraint{Enum: []int64{1, 2, 3}}
	msg := dsl.Message{
		Name: "E",
		Fields: []dsl.Field{
			{Name: "code", Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}, Constraint: &c},
		},
	}
	p := resolve(t, msg)

	_, err := walk.Validate(p, bitio.BigEndian, []byte{9}, 0, "E")
	require.Error(t, err)
	var decErr *engine.DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, engine.DecodeValidation, decErr.Kind)
}

// ZeroPadding blanks a Padding field's bytes in place while reporting the
// same byte length a plain Extent pass would (spec.md §4.6).
func TestZeroPaddingBlanksPaddingBytes(t *testing.T) {
	t.Parallel()

	msg := dsl.Message{
		Name: "Pad",
		Fields: []dsl.Field{
			{Name: "id", Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}},
			{Name: "fill", Type: dsl.TypeSpec{Kind: dsl.KindPadding, Bits: 2, PaddingUnit: dsl.PaddingBytes}},
		},
	}
	p := resolve(t, msg)

	buf := []byte{0x01, 0xFF, 0xFF}
	n, err := walk.ZeroPadding(p, bitio.BigEndian, buf, 0, "Pad")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{0x01, 0x00, 0x00}, buf)
}
