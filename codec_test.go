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

package asterixcodec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	asterixcodec "github.com/skytrace/asterixcodec"
	"github.com/skytrace/asterixcodec/dsl"
	"github.com/skytrace/asterixcodec/protocol"
	"github.com/skytrace/asterixcodec/value"
)

func resolveOne(t *testing.T, msg dsl.Message) *protocol.Protocol {
	t.Helper()
	p, err := protocol.Resolve(&dsl.Schema{Messages: []dsl.Message{msg}})
	require.NoError(t, err)
	return p
}

// Spec scenario 1: "Simple message round-trip", exercised through the
// public Codec rather than the internal engine directly.
func TestCodecSimpleMessageRoundTrip(t *testing.T) {
	t.Parallel()

	p := resolveOne(t, dsl.Message{
		Name: "Simple",
		Fields: []dsl.Field{
			{Name: "id", Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}},
			{Name: "len", Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U16}},
			{Name: "data", Type: dsl.TypeSpec{Kind: dsl.KindList, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}}},
		},
	})
	c := asterixcodec.NewCodec(p, asterixcodec.LittleEndian)

	encoded, err := c.EncodeMessage("Simple", map[string]value.Value{
		"id":   value.Uint(42),
		"len":  value.Uint(3),
		"data": value.List([]value.Value{value.Uint(1), value.Uint(2), value.Uint(3)}),
	})
	require.NoError(t, err)
	require.Equal(t, []byte{0x2A, 0x03, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x02, 0x03}, encoded)

	n, err := c.MessageExtent(encoded, 0, "Simple")
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)

	decoded, err := c.DecodeMessage("Simple", encoded)
	require.NoError(t, err)
	m := decoded.AsMap()
	require.Equal(t, uint64(42), m["id"].U)
	require.Equal(t, uint64(3), m["len"].U)
	require.Len(t, m["data"].Items, 3)
}

func TestCodecEncodeUnknownMessage(t *testing.T) {
	t.Parallel()

	p := resolveOne(t, dsl.Message{Name: "R", Fields: []dsl.Field{
		{Name: "x", Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}},
	}})
	c := asterixcodec.NewCodec(p, asterixcodec.BigEndian)

	_, err := c.EncodeMessage("NoSuchMessage", nil)
	require.Error(t, err)
}

// Spec scenario 5: "Removed record due to out-of-range enum" — at the
// single-message level, this is a DecodeError of kind DecodeValidation, not
// a frame-level Removed classification (that part is exercised in
// frame_test.go).
func TestCodecDecodeOutOfRangeEnumFails(t *testing.T) {
	t.Parallel()

	p := resolveOne(t, dsl.Message{
		Name: "I002",
		Fields: []dsl.Field{
			{
				Name:       "i002_000",
				Type:       dsl.TypeSpec{Kind: dsl.KindOptional, Inner: &dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}},
				Constraint: &dsl.Constraint{Enum: []int64{1, 2, 3, 8, 9}},
			},
		},
	})
	c := asterixcodec.NewCodec(p, asterixcodec.BigEndian)

	// No bitmap governs i002_000, so it carries a dedicated presence byte:
	// 0x01 (present) followed by the value 7, which is outside the enum.
	_, err := c.DecodeMessage("I002", []byte{0x01, 0x07})
	require.Error(t, err)
	var decErr *asterixcodec.DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, asterixcodec.DecodeValidation, decErr.Kind)
}

func TestCodecValidateAndZeroPadding(t *testing.T) {
	t.Parallel()

	p := resolveOne(t, dsl.Message{
		Name: "Pad",
		Fields: []dsl.Field{
			{Name: "id", Type: dsl.TypeSpec{Kind: dsl.KindBase, Base: dsl.U8}},
			{Name: "fill", Type: dsl.TypeSpec{Kind: dsl.KindPadding, Bits: 2, PaddingUnit: dsl.PaddingBytes}},
		},
	})
	c := asterixcodec.NewCodec(p, asterixcodec.BigEndian)

	buf := []byte{0x01, 0xFF, 0xFF}
	n, err := c.ValidateMessageInPlace(buf, 0, "Pad")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = c.ZeroPaddingInPlace(buf, 0, "Pad")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{0x01, 0x00, 0x00}, buf)
}
