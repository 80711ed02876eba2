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

// Package protocol holds the resolved schema model: the output of linking
// and validating a [github.com/skytrace/asterixcodec/dsl].Schema into a
// cross-referenced, acyclic, immutable [Protocol] ready to drive the codec
// engine.
//
// Grounded on the teacher's descriptor-to-compiled-Type split
// (yaninyzwitty-hyperpb-go's compiler.go / internal/tdp): a raw, textual
// description is linked once into a form with resolved pointers and
// precomputed per-field attributes, and that resolved form is what every
// downstream operation (encode, decode, extent, validate, zero, frame
// handling) actually runs against.
package protocol

import "github.com/skytrace/asterixcodec/dsl"

// Re-exported AST vocabulary that needs no resolution of its own.
type (
	BaseType    = dsl.BaseType
	PaddingUnit = dsl.PaddingUnit
	TypeKind    = dsl.TypeKind
	ArrayLen    = dsl.ArrayLen
	Constraint  = dsl.Constraint
	Interval    = dsl.Interval
	Condition   = dsl.Condition
)

const (
	KindBase         = dsl.KindBase
	KindSizedInt     = dsl.KindSizedInt
	KindBitfield     = dsl.KindBitfield
	KindPadding      = dsl.KindPadding
	KindArray        = dsl.KindArray
	KindList         = dsl.KindList
	KindRepList      = dsl.KindRepList
	KindOctetsFx     = dsl.KindOctetsFx
	KindLengthOf     = dsl.KindLengthOf
	KindCountOf      = dsl.KindCountOf
	KindOptional     = dsl.KindOptional
	KindStructRef    = dsl.KindStructRef
	KindPresenceBits = dsl.KindPresenceBits
	KindBitmap       = dsl.KindBitmap

	PaddingBytes = dsl.PaddingBytes
	PaddingBits  = dsl.PaddingBits
)

// FieldType is the resolved form of [dsl.TypeSpec]: StructRef now points
// directly at the resolved [Struct], and ElementMinSize has been
// precomputed for the List/RepList runaway-count guard (spec.md §4.5).
type FieldType struct {
	Kind TypeKind

	Base        BaseType
	Bits        int
	PaddingUnit PaddingUnit

	Inner *FieldType

	ArrayLen ArrayLen
	RefField string

	Struct *Struct

	NBytes  int
	MaxBits int // -1 means "unbounded, governed only by the FX chain" (fspec shorthand)
	PerByte int

	BitMap map[int]string // explicit bit index -> field name, nil if implicit/consecutive

	// ElementMinSize is the minimum possible encoded byte length of one
	// repetition of Inner, used to cap List/RepList counts against the
	// remaining buffer so a corrupt count can never cause a runaway read.
	ElementMinSize int
}

// ConsecutivePresence records that an Optional field's presence bit is read
// from the container's active presence-stack frame rather than from a
// dedicated presence byte (spec.md §4.3-§4.4).
type ConsecutivePresence struct {
	BitmapField string
	BitIndex    int
}

// Field is the resolved form of [dsl.Field].
type Field struct {
	Name       string
	Type       FieldType
	Constraint *Constraint
	Condition  *Condition
	Doc        string
	Quantum    string

	// Saturating is true iff Constraint is a Range equal to Type's full
	// integer range: validation of this field is then a provable no-op
	// (spec.md §8 property 8).
	Saturating bool

	// Consecutive is non-nil when this Optional field's presence bit comes
	// from an active bitmap frame rather than a dedicated presence byte.
	Consecutive *ConsecutivePresence
}

// BitmapKind distinguishes the three presence-bitmap flavors of spec.md §4.4.
type BitmapKind int

const (
	BitmapFixed BitmapKind = iota
	BitmapVariable
	BitmapSingleBit
)

// BitmapSpec describes a message's declared presence bitmap field.
type BitmapSpec struct {
	Kind      BitmapKind
	FieldName string

	NBytes  int // Fixed
	MaxBits int // Variable; -1 = unbounded (fspec shorthand)
	PerByte int // Variable: 0, 7, or 8
}

// Container is the shared shape of a Struct and a Message: an ordered field
// list that may declare at most one presence bitmap governing a run of its
// own optional fields (spec.md §4.3-§4.4 apply identically to both).
type Container struct {
	Name   string
	ID     int
	Fields []Field

	Bitmap     *BitmapSpec
	BitToField map[int]string // FX-chain bits are absent from this map
	FieldToBit map[string]int
}

// Struct is a named, reusable field container (spec.md §3).
type Struct struct{ Container }

// Message is a named field container dispatched to by a [Payload].
type Message struct{ Container }

// PayloadSelector is the resolved transport-field → message-name dispatch
// table.
type PayloadSelector struct {
	Field string
	Cases map[int64]string
}

// Payload is the resolved record-dispatch declaration.
type Payload struct {
	Messages []string
	Selector *PayloadSelector
	Repeated bool
}

// Protocol is the fully resolved, immutable schema (spec.md §4.1).
//
// Protocol is safe to share read-only across goroutines once Resolve
// returns (spec.md §5): nothing in the codec mutates it.
type Protocol struct {
	Transport []Field
	Payload   *Payload
	Structs   map[string]*Struct
	Messages  map[string]*Message
	Enums     map[string]map[string]int64
}
