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

package engine

import (
	"fmt"

	"github.com/skytrace/asterixcodec/protocol"
	"github.com/skytrace/asterixcodec/value"
)

// intOf extracts the integer representation of v, if it has one.
// Non-numeric values bypass constraint checking entirely (spec.md §3).
func intOf(v value.Value) (int64, bool) {
	switch v.Kind {
	case value.KindInt:
		return v.I, true
	case value.KindUint:
		return int64(v.U), true
	default:
		return 0, false
	}
}

// checkConstraint runs f's Range/EnumIn constraint against a just-decoded
// value, skipped entirely when f.Saturating (spec.md §8 property 8) or when
// f carries no constraint at all.
func checkConstraint(f *protocol.Field, v value.Value) error {
	if f.Saturating || f.Constraint == nil {
		return nil
	}
	iv, ok := intOf(v)
	if !ok {
		return nil
	}
	c := f.Constraint
	if c.IsRange() {
		for _, r := range c.Ranges {
			if iv >= r.Lo && iv <= r.Hi {
				return nil
			}
		}
		return &DecodeError{Kind: DecodeValidation, Cause: fmt.Errorf("value %d not in allowed range", iv)}
	}
	if c.IsEnum() {
		for _, e := range c.Enum {
			if iv == e {
				return nil
			}
		}
		return &DecodeError{Kind: DecodeValidation, Cause: fmt.Errorf("value %d not in enum set", iv)}
	}
	return nil
}

// checkRangeEncode range-checks a value about to be encoded against f's full
// type range, not against its schema Constraint (spec.md §4.5: "Encode
// range-checks against the full type range").
func checkRangeEncode(f *protocol.Field, v value.Value) error {
	lo, hi, ok := protocol.IntegerRange(&f.Type)
	if !ok {
		return nil
	}
	iv, ok := intOf(v)
	if !ok {
		return nil
	}
	if iv < lo || iv > hi {
		return &EncodeError{Kind: EncodeOutOfRange, Value: iv, Lo: lo, Hi: hi}
	}
	return nil
}
