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

package asterixcodec

import "github.com/skytrace/asterixcodec/internal/bitio"

// Endianness selects the byte order of multi-byte, byte-aligned integers
// for a [Codec] (spec.md §4.2, §4.5). It is chosen once, at [NewCodec] time,
// and applies to every Base integer and every byte-aligned SizedInt the
// codec encodes or decodes.
type Endianness = bitio.Endianness

const (
	BigEndian    = bitio.BigEndian
	LittleEndian = bitio.LittleEndian
)

// CodecOption configures [NewCodec]. Mirrors the teacher's
// CompileOption/UnmarshalOption closure-wrapped-in-struct shape
// (yaninyzwitty-hyperpb-go's options.go), generalized from compile-time and
// unmarshal-time protobuf knobs to this codec's own resource limits.
type CodecOption struct{ apply func(*codecOptions) }

type codecOptions struct {
	maxRecordBytes int
}

// WithMaxRecordBytes caps the byte extent [Codec.DecodeFrame] will accept
// for a single record before treating it as a fatal extent failure rather
// than continuing to decode it. A value of 0 (the default) leaves records
// bounded only by the buffer itself.
//
// This is the one resource limit this package offers: unlike
// the teacher's WithMaxDepth (recursion) or WithMaxDecodeMisses (quadratic
// fallback), nothing in this engine recurses on attacker-controlled depth
// or falls back to a slow path, so those teacher knobs have no analog here
// — but an attacker-controlled length/count field chaining into an
// enormous declared record is the one place a malformed frame can still
// make the frame handler do unbounded work, and this option lets a caller
// bound that.
func WithMaxRecordBytes(n int) CodecOption {
	return CodecOption{apply: func(o *codecOptions) { o.maxRecordBytes = n }}
}
