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

package walkctx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skytrace/asterixcodec/internal/walkctx"
)

func TestFramePresent(t *testing.T) {
	t.Parallel()

	bits := walkctx.NewBits(3)
	bits.Set(0, true)
	bits.Set(2, true)
	f := walkctx.Frame{Kind: walkctx.PresenceFixed, Bits: bits, FieldToBit: map[string]int{"a": 0, "b": 1, "c": 2}}

	present, governed := f.Present("a")
	require.True(t, governed)
	require.True(t, present)

	present, governed = f.Present("b")
	require.True(t, governed)
	require.False(t, present)

	_, governed = f.Present("unknown")
	require.False(t, governed)
}

func TestStackInheritsParentFrameByDefault(t *testing.T) {
	t.Parallel()

	var s walkctx.Stack
	bits := walkctx.NewBits(1)
	bits.Set(0, true)
	s.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceFixed, Bits: bits, FieldToBit: map[string]int{"x": 0}})

	s.Push() // descend into a struct with no bitmap of its own
	top, ok := s.Top()
	require.True(t, ok)
	present, governed := top.Present("x")
	require.True(t, governed)
	require.True(t, present)

	s.Pop()
	top, ok = s.Top()
	require.True(t, ok)
	_, governed = top.Present("x")
	require.True(t, governed)
}

func TestStackChildBitmapDoesNotLeakToParent(t *testing.T) {
	t.Parallel()

	var s walkctx.Stack
	parentBits := walkctx.NewBits(1)
	parentBits.Set(0, true)
	s.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceFixed, Bits: parentBits, FieldToBit: map[string]int{"x": 0}})

	s.Push()
	childBits := walkctx.NewBits(1)
	childBits.Set(0, false)
	s.ReplaceTop(walkctx.Frame{Kind: walkctx.PresenceFixed, Bits: childBits, FieldToBit: map[string]int{"y": 0}})

	top, _ := s.Top()
	_, governedX := top.Present("x")
	require.False(t, governedX, "child frame must not see parent's field mapping")
	presentY, governedY := top.Present("y")
	require.True(t, governedY)
	require.False(t, presentY)

	s.Pop()
	top, _ = s.Top()
	presentX, governedX := top.Present("x")
	require.True(t, governedX)
	require.True(t, presentX, "parent frame must be restored exactly on struct exit")
}

func TestContextValuesVisibleToNestedReferences(t *testing.T) {
	t.Parallel()

	ctx := walkctx.New()
	ctx.SetInt("len", 3)

	v, ok := ctx.GetInt("len")
	require.True(t, ok)
	require.Equal(t, int64(3), v)

	_, ok = ctx.GetInt("missing")
	require.False(t, ok)
}
