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

// Package asterixcodec is a binary-protocol codec generator and runtime
// driven by a small textual DSL (spec.md §1). A schema compiled with
// [Registry.Compile] (or [dsl.Parse] plus [protocol.Resolve] directly)
// produces a [protocol.Protocol]: a cross-referenced, acyclic, immutable
// model of a surveillance-style binary frame format, including fixed and
// bit-packed fields, presence bitmaps with extension bits, conditional
// fields, and repeated records.
//
// A [Codec] built from a compiled Protocol with [NewCodec] provides four
// services over that one resolved model:
//
//   - Encode/decode a schema-typed [value.Value] tree to and from raw bytes
//     ([Codec.EncodeMessage], [Codec.DecodeMessage]).
//   - Compute a record's byte extent, validate it in place, or zero its
//     padding without ever constructing a value tree ([Codec.MessageExtent],
//     [Codec.ValidateMessageInPlace], [Codec.ZeroPaddingInPlace]).
//   - Split a byte stream into records of potentially different categories,
//     reporting decoded and non-compliant records separately
//     ([Codec.DecodeFrame]).
//   - Re-emit a frame keeping only compliant records, fixing up a declared
//     length field in place ([Codec.EncodeFrameWithCompliantOnly]).
//
// The decode path and the three value-less walker modes (extent, validate,
// zero) share one traversal in [internal/engine], so a record's decoded
// length and its walked extent can never disagree (spec.md §8 properties
// 3-4). This package itself only wires that shared engine to byte slices;
// the DSL's textual grammar lives in [github.com/skytrace/asterixcodec/dsl],
// and the resolved schema model lives in
// [github.com/skytrace/asterixcodec/protocol].
package asterixcodec
