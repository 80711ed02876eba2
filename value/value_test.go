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

package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skytrace/asterixcodec/value"
)

func TestStructFieldLookup(t *testing.T) {
	t.Parallel()

	v := value.Struct([]value.Field{
		{Name: "x", Value: value.Int(3)},
		{Name: "y", Value: value.Absent()},
	})

	got, ok := v.Field("x")
	require.True(t, ok)
	require.Equal(t, int64(3), got.I)

	got, ok = v.Field("y")
	require.True(t, ok)
	require.True(t, got.IsAbsent())

	_, ok = v.Field("z")
	require.False(t, ok)
}

func TestAsMap(t *testing.T) {
	t.Parallel()

	v := value.Struct([]value.Field{
		{Name: "a", Value: value.Uint(7)},
		{Name: "b", Value: value.Bool(true)},
	})

	m := v.AsMap()
	require.Len(t, m, 2)
	require.Equal(t, uint64(7), m["a"].U)
	require.True(t, m["b"].B)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := value.Struct([]value.Field{
		{Name: "data", Value: value.Bytes([]byte{1, 2, 3})},
		{Name: "items", Value: value.List([]value.Value{value.Int(1), value.Int(2)})},
	})

	clone, err := original.Clone()
	require.NoError(t, err)

	clone.Fields[0].Value.Octets[0] = 0xFF
	clone.Fields[1].Value.Items[0] = value.Int(99)

	orig, ok := original.Field("data")
	require.True(t, ok)
	require.Equal(t, byte(1), orig.Octets[0])

	origItems, ok := original.Field("items")
	require.True(t, ok)
	require.Equal(t, int64(1), origItems.Items[0].I)
}

func TestKindString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "bytes", value.KindBytes.String())
	require.Equal(t, "absent", value.KindAbsent.String())
}
