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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	asterixcodec "github.com/skytrace/asterixcodec"
)

const registrySrc = `
message Simple {
  id: u8;
  len: u16;
  data: list<u8>;
}
`

func TestRegistryCompileCachesBySourceDigest(t *testing.T) {
	t.Parallel()

	reg := asterixcodec.NewRegistry()

	p1, err := reg.Compile(registrySrc)
	require.NoError(t, err)
	p2, err := reg.Compile(registrySrc)
	require.NoError(t, err)
	require.Same(t, p1, p2)

	p3, err := reg.Compile(registrySrc + "\n")
	require.NoError(t, err)
	require.NotSame(t, p1, p3)
}

func TestRegistryCompileParseError(t *testing.T) {
	t.Parallel()

	reg := asterixcodec.NewRegistry()
	_, err := reg.Compile("message {")
	require.Error(t, err)
	var perr *asterixcodec.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestRegistryCompileResolveError(t *testing.T) {
	t.Parallel()

	reg := asterixcodec.NewRegistry()
	_, err := reg.Compile(`message R { s: Missing; }`)
	require.Error(t, err)
	var rerr *asterixcodec.ResolveError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, asterixcodec.UnknownType, rerr.Kind)
}

// A zero Registry is ready to use without NewRegistry.
func TestRegistryZeroValue(t *testing.T) {
	t.Parallel()

	var reg asterixcodec.Registry
	p, err := reg.Compile(registrySrc)
	require.NoError(t, err)
	require.Contains(t, p.Messages, "Simple")
}

func TestRegistryCompileConcurrentSafe(t *testing.T) {
	t.Parallel()

	reg := asterixcodec.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Compile(registrySrc)
			require.NoError(t, err)
		}()
	}
	wg.Wait()
}
