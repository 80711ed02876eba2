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

// Package dsl holds the abstract syntax tree produced by parsing the binary
// framing DSL (see grammar in the package doc of [Parse]), plus the
// recursive-descent parser that produces it.
//
// The DSL's textual surface is an external collaborator of the codec core:
// only the shape of the AST below is load-bearing for [github.com/skytrace/asterixcodec/protocol].Resolve.
package dsl

// BaseType is one of the fixed-width scalar types the DSL supports.
type BaseType int

const (
	BaseInvalid BaseType = iota
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	Bool
	F32
	F64
)

// ByteWidth returns the natural byte width of a base type. Bool reports 1.
func (b BaseType) ByteWidth() int {
	switch b {
	case U8, I8, Bool:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		return 0
	}
}

// Signed reports whether the base type is a signed integer.
func (b BaseType) Signed() bool {
	switch b {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// Integer reports whether the base type is an integer (signed or unsigned).
func (b BaseType) Integer() bool {
	switch b {
	case U8, U16, U32, U64, I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

func (b BaseType) String() string {
	switch b {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case Bool:
		return "bool"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "<invalid base type>"
	}
}

// PaddingUnit distinguishes padding(n) (bytes) from padding_bits(n) / padding(n, bits).
type PaddingUnit int

const (
	PaddingBytes PaddingUnit = iota
	PaddingBits
)

// TypeKind enumerates the TypeSpec variants from spec.md §3.
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindBase
	KindSizedInt
	KindBitfield
	KindPadding
	KindArray
	KindList
	KindRepList
	KindOctetsFx
	KindLengthOf
	KindCountOf
	KindOptional
	KindStructRef
	KindPresenceBits
	KindBitmap
)

func (k TypeKind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindSizedInt:
		return "sized_int"
	case KindBitfield:
		return "bitfield"
	case KindPadding:
		return "padding"
	case KindArray:
		return "array"
	case KindList:
		return "list"
	case KindRepList:
		return "rep_list"
	case KindOctetsFx:
		return "octets_fx"
	case KindLengthOf:
		return "length_of"
	case KindCountOf:
		return "count_of"
	case KindOptional:
		return "optional"
	case KindStructRef:
		return "struct_ref"
	case KindPresenceBits:
		return "presence_bits"
	case KindBitmap:
		return "bitmap"
	default:
		return "<invalid type kind>"
	}
}

// ArrayLen is either a literal element count or a reference to an
// earlier-declared integer field that holds the count.
type ArrayLen struct {
	Literal  int
	FromName string // non-empty means "use field FromName's decoded value"
}

func LiteralLen(n int) ArrayLen  { return ArrayLen{Literal: n} }
func FieldLen(name string) ArrayLen { return ArrayLen{FromName: name} }

// ByField reports whether the count comes from a sibling field.
func (a ArrayLen) ByField() bool { return a.FromName != "" }

// TypeSpec is a single AST node of the field type algebra (spec.md §3).
//
// Not every field is populated for every Kind; see the per-Kind comments.
type TypeSpec struct {
	Kind TypeKind

	Base BaseType // Base, SizedInt, Bitfield(ignored sign), Padding(ignored)

	Bits int // SizedInt: bit width. Bitfield: bit width. Padding: n.

	PaddingUnit PaddingUnit // Padding only

	Inner *TypeSpec // Array, List, RepList, Optional

	ArrayLen ArrayLen // Array only

	RefField string // LengthOf, CountOf: referenced field name

	StructName string // StructRef

	// PresenceBits(n): NBytes = n (n in {1,2,4}).
	NBytes int

	// Bitmap(max_bits, n_per_byte).
	MaxBits int
	PerByte int // 0, 7, or 8

	// BitMap is the explicit `-> (idx: field, ...)` bit-to-field map that may
	// follow a presence_bits/bitmap/fspec declaration. When nil, the bitmap
	// governs the run of consecutive optional fields that follows it
	// (spec.md §3 "Consecutive-presence classification").
	BitMap map[int]string
}

// Constraint is either a Range or an EnumIn, per spec.md §3.
type Constraint struct {
	Ranges []Interval // non-nil => Range constraint
	Enum   []int64    // non-nil => EnumIn constraint
}

type Interval struct{ Lo, Hi int64 }

func (c *Constraint) IsRange() bool { return c != nil && c.Ranges != nil }
func (c *Constraint) IsEnum() bool  { return c != nil && c.Enum != nil }

// Condition is an `if field == value` guard attached to a field.
type Condition struct {
	Field string
	Value int64
}

// Field is a single named member of a Struct or Message.
type Field struct {
	Name       string
	Type       TypeSpec
	Constraint *Constraint
	Condition  *Condition
	Doc        string
	Quantum    string // documentation only, never enforced (spec.md GLOSSARY)
}

// Struct is a named, reusable field container with no bitmap of its own
// layout concept beyond what spec.md §4.3 describes (it may still declare a
// presence_bits/bitmap/fspec field among its own fields).
type Struct struct {
	Name   string
	Fields []Field
}

// Message is a named field container that may additionally carry one bitmap
// spec governing a run of consecutive optional fields.
type Message struct {
	Name   string
	Fields []Field
}

// Enum is a named set of integer variants. Carried through resolve
// unchanged; the codec never interprets enum semantics beyond EnumIn
// constraints.
type Enum struct {
	Name     string
	Variants map[string]int64
}

// PayloadSelector maps a transport field's value to the message name that
// should be decoded for a record.
type PayloadSelector struct {
	Field string
	Cases map[int64]string
}

// Payload is the record-dispatch declaration (spec.md §3, §4.7).
type Payload struct {
	Messages []string
	Selector *PayloadSelector // nil => single starting message, no dispatch
	Repeated bool
}

// Schema is the root AST node: everything parsed from one DSL source file.
type Schema struct {
	Transport []Field
	Payload   *Payload
	Messages  []Message
	Structs   []Struct
	Enums     []Enum
}
