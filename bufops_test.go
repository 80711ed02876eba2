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
)

func TestRemoveInPlace(t *testing.T) {
	t.Parallel()

	buf := []byte{1, 2, 3, 4, 5, 6}
	n := asterixcodec.RemoveInPlace(buf, 2, 2)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{1, 2, 5, 6, 5, 6}, buf) // trailing bytes beyond n are leftover, not zeroed
	require.Equal(t, []byte{1, 2, 5, 6}, buf[:n])
}

func TestRemoveInPlaceNoOpOnBadRange(t *testing.T) {
	t.Parallel()

	buf := []byte{1, 2, 3}
	require.Equal(t, 3, asterixcodec.RemoveInPlace(buf, -1, 1))
	require.Equal(t, 3, asterixcodec.RemoveInPlace(buf, 1, 0))
	require.Equal(t, 3, asterixcodec.RemoveInPlace(buf, 2, 5))
}

func TestWriteUint32InPlace(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 6)
	require.NoError(t, asterixcodec.WriteUint32InPlace(buf, 1, 0x01020304, asterixcodec.BigEndian))
	require.Equal(t, []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x00}, buf)

	require.NoError(t, asterixcodec.WriteUint32InPlace(buf, 1, 0x01020304, asterixcodec.LittleEndian))
	require.Equal(t, []byte{0x00, 0x04, 0x03, 0x02, 0x01, 0x00}, buf)
}

func TestWriteUint32InPlaceOutOfRange(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 3)
	require.Error(t, asterixcodec.WriteUint32InPlace(buf, 0, 1, asterixcodec.BigEndian))
	require.Error(t, asterixcodec.WriteUint32InPlace(buf, -1, 1, asterixcodec.BigEndian))
}
