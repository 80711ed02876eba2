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

package bitio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skytrace/asterixcodec/internal/bitio"
)

func TestReadBitsMSBFirst(t *testing.T) {
	t.Parallel()

	r := bitio.NewReader([]byte{0b1011_0010})
	v, err := r.ReadBits(3)
	require.NoError(t, err)
	require.Equal(t, uint64(0b101), v)

	v, err = r.ReadBits(5)
	require.NoError(t, err)
	require.Equal(t, uint64(0b10010), v)
}

func TestReadBitsShortBuffer(t *testing.T) {
	t.Parallel()

	r := bitio.NewReader([]byte{0xFF})
	_, err := r.ReadBits(9)
	require.ErrorIs(t, err, bitio.ErrShortBuffer)
}

func TestWriteBitsRoundTrip(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	require.NoError(t, w.WriteBits(3, 0b101))
	require.NoError(t, w.WriteBits(5, 0b10010))

	r := bitio.NewReader(w.Bytes())
	v, err := r.ReadBits(8)
	require.NoError(t, err)
	require.Equal(t, uint64(0b1011_0010), v)
}

func TestReadBytesRequiresAlignment(t *testing.T) {
	t.Parallel()

	r := bitio.NewReader([]byte{0x01, 0x02})
	_, err := r.ReadBits(1)
	require.NoError(t, err)
	_, err = r.ReadBytes(1)
	require.ErrorIs(t, err, bitio.ErrNotByteAligned)
}

func TestZeroBitsMutatesInPlace(t *testing.T) {
	t.Parallel()

	buf := []byte{0xFF, 0xFF}
	r := bitio.NewReader(buf)
	require.NoError(t, r.SkipBits(4))
	require.NoError(t, r.ZeroBits(8))
	require.Equal(t, []byte{0xF0, 0x0F}, buf)
}

func TestPatchBitsAt(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	require.NoError(t, w.WriteBits(8, 0)) // placeholder
	require.NoError(t, w.WriteBits(8, 0x42))
	require.NoError(t, w.PatchBitsAt(0, 8, 0x07))

	r := bitio.NewReader(w.Bytes())
	v, err := r.ReadBits(16)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0742), v)
}

func TestEndianRoundTrip(t *testing.T) {
	t.Parallel()

	w := bitio.NewWriter()
	require.NoError(t, w.WriteUint(bitio.LittleEndian, 2, 0x1234))

	r := bitio.NewReader(w.Bytes())
	v, err := r.ReadUint(bitio.LittleEndian, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(0x1234), v)
	require.Equal(t, []byte{0x34, 0x12}, w.Bytes())
}

func TestPresenceBitsExampleFromSpec(t *testing.T) {
	t.Parallel()

	// message P { flags: presence_bits(1); a: optional<u8>; b: optional<u16>; }
	// a=absent, b=present => flags byte 0x02 (bit 1 set, LSB-first within byte).
	w := bitio.NewWriter()
	require.NoError(t, w.WriteBits(8, 0x02))
	require.NoError(t, w.WriteUint(bitio.LittleEndian, 2, 0x1234))

	require.Equal(t, []byte{0x02, 0x34, 0x12}, w.Bytes())
}
