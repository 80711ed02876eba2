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

import (
	"fmt"

	"github.com/skytrace/asterixcodec/dsl"
	"github.com/skytrace/asterixcodec/internal/engine"
	"github.com/skytrace/asterixcodec/protocol"
)

// Parse, resolve, encode, and decode each keep their own error taxonomy in
// the package that raises them (spec.md §7); this block re-exports those
// types under the module's public import path, since [dsl], [protocol], and
// [internal/engine] otherwise live one level apart and an external caller
// type-asserting on an error from a [Codec] method would have to name an
// internal package it cannot import. Frame is the one error kind with no
// lower-level owner, so it is defined directly below instead of aliased.
type (
	ParseError      = dsl.ParseError
	ResolveError     = protocol.ResolveError
	ResolveErrorKind = protocol.ResolveErrorKind
	EncodeError      = engine.EncodeError
	EncodeErrorKind  = engine.EncodeErrorKind
	DecodeError      = engine.DecodeError
	DecodeErrorKind  = engine.DecodeErrorKind
)

const (
	UnknownType        = protocol.UnknownType
	Cycle              = protocol.Cycle
	BitmapBitsMismatch = protocol.BitmapBitsMismatch
	BadReference       = protocol.BadReference
	TypeMismatch       = protocol.TypeMismatch
	DuplicateName      = protocol.DuplicateName
)

const (
	DecodeIo               = engine.DecodeIo
	DecodeCorruptLength    = engine.DecodeCorruptLength
	DecodeValidation       = engine.DecodeValidation
	DecodeMissingReference = engine.DecodeMissingReference
)

const (
	EncodeOutOfRange     = engine.EncodeOutOfRange
	EncodeMissingField   = engine.EncodeMissingField
	EncodeBadFxExtension = engine.EncodeBadFxExtension
	EncodeTypeMismatch   = engine.EncodeTypeMismatch
)

// FrameErrorKind enumerates spec.md §7's Frame error taxonomy.
type FrameErrorKind int

const (
	// FrameFatalExtent means a record's byte extent itself could not be
	// computed: the byte stream is unparsable from that point on, so the
	// frame handler stops instead of trying to classify the record as
	// Decoded or Removed (spec.md §4.7).
	FrameFatalExtent FrameErrorKind = iota
)

// FrameError is returned by [Codec.DecodeFrame] when it must abort a frame
// before reaching the end of buf.
type FrameError struct {
	Kind  FrameErrorKind
	At    int
	Cause error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("asterixcodec: fatal extent failure at byte %d: %v", e.At, e.Cause)
}

func (e *FrameError) Unwrap() error { return e.Cause }
