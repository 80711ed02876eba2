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

package bitio

import "errors"

// ErrShortBuffer is returned when a read, skip, or zero operation would run
// past the end of the underlying byte slice.
var ErrShortBuffer = errors.New("bitio: short buffer")

// ErrNotByteAligned is returned by the whole-byte primitives when the
// current bit position is not a multiple of 8.
var ErrNotByteAligned = errors.New("bitio: not byte aligned")
