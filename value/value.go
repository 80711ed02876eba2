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

// Package value holds the dynamic value model used at the codec boundary: a
// tagged union wide enough to represent any decoded field (spec.md
// "Value Model").
//
// Struct values keep their fields in declaration order rather than in a
// string-keyed map, so a decode that only walks a field list never pays for
// map allocation or hashing; [Value.AsMap] builds the map view on demand for
// callers that want name-based lookup instead.
package value

import "github.com/tiendc/go-deepcopy"

// Kind discriminates the Value union.
type Kind int

const (
	KindAbsent Kind = iota
	KindInt
	KindUint
	KindBool
	KindFloat
	KindBytes
	KindList
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	default:
		return "<invalid value kind>"
	}
}

// Field is one named member of a KindStruct Value.
type Field struct {
	Name  string
	Value Value
}

// Value is a single decoded field, array element, or struct member.
//
// Exactly one of I/U/F/B/Octets/Items/Fields is meaningful for a given Kind;
// the rest are left at their zero value. Fields are exported, rather than
// reached through accessor methods only, so that [Clone] can hand the whole
// tree to a generic deep-copier instead of hand-walking it.
type Value struct {
	Kind Kind

	I int64
	U uint64
	F float64
	B bool

	Octets []byte
	Items  []Value
	Fields []Field
}

func Absent() Value                { return Value{Kind: KindAbsent} }
func Int(i int64) Value            { return Value{Kind: KindInt, I: i} }
func Uint(u uint64) Value          { return Value{Kind: KindUint, U: u} }
func Bool(b bool) Value            { return Value{Kind: KindBool, B: b} }
func Float(f float64) Value        { return Value{Kind: KindFloat, F: f} }
func Bytes(b []byte) Value         { return Value{Kind: KindBytes, Octets: b} }
func List(items []Value) Value     { return Value{Kind: KindList, Items: items} }
func Struct(fields []Field) Value  { return Value{Kind: KindStruct, Fields: fields} }

// IsAbsent reports whether v represents an optional field whose presence bit
// was clear.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// Field looks up a struct member by name, in declaration order. It is O(n)
// in the field count; callers on a decode hot path should index Fields
// directly using the position the [github.com/skytrace/asterixcodec/protocol] schema already knows.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// AsMap builds a string-keyed view of a KindStruct Value's fields, for
// callers that want map ergonomics over the wire format's compiled field
// order (spec.md "external API may still accept a string keyed map").
func (v Value) AsMap() map[string]Value {
	m := make(map[string]Value, len(v.Fields))
	for _, f := range v.Fields {
		m[f.Name] = f.Value
	}
	return m
}

// Clone returns a deep copy of v: Octets, Items, and nested Fields all get
// independent backing arrays, so mutating the clone never aliases v.
func (v Value) Clone() (Value, error) {
	var out Value
	if err := deepcopy.Copy(&out, &v); err != nil {
		return Value{}, err
	}
	return out, nil
}
