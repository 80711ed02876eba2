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

package protocol

import (
	"math"

	"github.com/skytrace/asterixcodec/dsl"
)

// baseTypeRange returns the representable [min, max] of a scalar base type.
// Bool and floats report ok=false: the codec never range-checks them
// (spec.md §3: "non-numeric values bypass constraint checking" — floats are
// numeric but unbounded for our purposes, and bool has no usable interval).
func baseTypeRange(b BaseType) (lo, hi int64, ok bool) {
	switch b {
	case dsl.U8:
		return 0, math.MaxUint8, true
	case dsl.U16:
		return 0, math.MaxUint16, true
	case dsl.U32:
		return 0, math.MaxUint32, true
	case dsl.U64:
		return 0, math.MaxInt64, true // int64-representable subset
	case dsl.I8:
		return math.MinInt8, math.MaxInt8, true
	case dsl.I16:
		return math.MinInt16, math.MaxInt16, true
	case dsl.I32:
		return math.MinInt32, math.MaxInt32, true
	case dsl.I64:
		return math.MinInt64, math.MaxInt64, true
	default:
		return 0, 0, false
	}
}

// sizedIntRange returns the range of an n-bit integer whose sign follows
// base.
func sizedIntRange(base BaseType, bits int) (lo, hi int64, ok bool) {
	if bits <= 0 || bits > 64 {
		return 0, 0, false
	}
	if base.Signed() {
		if bits == 64 {
			return math.MinInt64, math.MaxInt64, true
		}
		hi = int64(1)<<(bits-1) - 1
		lo = -(int64(1) << (bits - 1))
		return lo, hi, true
	}
	if bits >= 63 {
		return 0, math.MaxInt64, true
	}
	return 0, int64(1)<<bits - 1, true
}

// bitfieldRange returns the range of an n-bit unsigned flag/mask field.
func bitfieldRange(bits int) (lo, hi int64, ok bool) {
	return sizedIntRange(dsl.U64, bits)
}

// IntegerRange returns the full representable range of ft, if ft is a kind
// that carries a numeric range at all. The [internal/engine] package uses
// this directly to range-check a value being encoded (spec.md §4.5: encode
// range-checks against the type, not against the schema Constraint).
func IntegerRange(ft *FieldType) (lo, hi int64, ok bool) {
	switch ft.Kind {
	case KindBase:
		return baseTypeRange(ft.Base)
	case KindSizedInt:
		return sizedIntRange(ft.Base, ft.Bits)
	case KindBitfield:
		return bitfieldRange(ft.Bits)
	default:
		return 0, 0, false
	}
}

// IsIntegerType reports whether ft's decoded value is usable as an integer
// for condition/length/count/array-length references.
func IsIntegerType(ft *FieldType) bool {
	switch ft.Kind {
	case KindBase:
		return ft.Base.Integer()
	case KindSizedInt:
		return true
	case KindBitfield:
		return true
	default:
		return false
	}
}

// saturating reports whether c is a Range constraint exactly equal to ft's
// full type range, making validation of this field a provable no-op
// (spec.md §8 property 8, GLOSSARY "Saturating constraint").
func saturating(ft *FieldType, c *Constraint) bool {
	if c == nil || !c.IsRange() || len(c.Ranges) != 1 {
		return false
	}
	lo, hi, ok := IntegerRange(ft)
	if !ok {
		return false
	}
	return c.Ranges[0].Lo == lo && c.Ranges[0].Hi == hi
}
