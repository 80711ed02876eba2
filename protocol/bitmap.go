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

// newBitmapSpec derives a container's [BitmapSpec] from the resolved
// [FieldType] of its declared presence_bits/bitmap field (spec.md §4.4).
func newBitmapSpec(fieldName string, ft *FieldType) *BitmapSpec {
	if ft.Kind == KindPresenceBits {
		return &BitmapSpec{
			Kind:      BitmapFixed,
			FieldName: fieldName,
			NBytes:    ft.NBytes,
		}
	}
	if ft.PerByte == 0 {
		// Single-bit presence read from the LSB of the previously decoded
		// byte (an extension struct's own chain flag) — always exactly one
		// bit, never a run of several (spec.md §4.4).
		return &BitmapSpec{
			Kind:      BitmapSingleBit,
			FieldName: fieldName,
			MaxBits:   1,
			PerByte:   0,
		}
	}
	return &BitmapSpec{
		Kind:      BitmapVariable,
		FieldName: fieldName,
		MaxBits:   ft.MaxBits,
		PerByte:   ft.PerByte,
	}
}

// linkBitToField assigns each bit index of a container's declared bitmap to
// one of its fields, either from an explicit `-> (idx: name, ...)` map or
// implicitly to the run of Optional fields that immediately follow the
// bitmap field (spec.md §3, §4.4).
//
// fields must already contain every field of the container, including the
// bitmap field itself at bitmapIdx; linkBitToField mutates the Consecutive
// field of whichever fields it assigns a bit to.
func linkBitToField(container string, fields []Field, bitmapIdx int, explicit map[int]string, spec *BitmapSpec) (map[int]string, map[string]int, error) {
	bitToField := map[int]string{}
	fieldToBit := map[string]int{}

	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		byName[f.Name] = i
	}

	if explicit != nil {
		for bit, name := range explicit {
			i, ok := byName[name]
			if !ok {
				return nil, nil, &ResolveError{Kind: BadReference, Container: container, Name: name}
			}
			if fields[i].Type.Kind != KindOptional {
				return nil, nil, &ResolveError{Kind: TypeMismatch, Container: container, Name: name}
			}
			fields[i].Consecutive = &ConsecutivePresence{BitmapField: spec.FieldName, BitIndex: bit}
			bitToField[bit] = name
			fieldToBit[name] = bit
		}
		return bitToField, fieldToBit, nil
	}

	count := 0
	for i := bitmapIdx + 1; i < len(fields); i++ {
		if fields[i].Type.Kind != KindOptional {
			break
		}
		fields[i].Consecutive = &ConsecutivePresence{BitmapField: spec.FieldName, BitIndex: count}
		bitToField[count] = fields[i].Name
		fieldToBit[fields[i].Name] = count
		count++
	}

	// A Fixed presence_bits(n) declares n*8 addressable bit slots but, unlike
	// a variable bitmap, does not require every slot to be spent on a
	// consecutive optional: unused high bit indices are simply never
	// assigned a field (spec.md §3 scenario 2 uses presence_bits(1) to
	// cover only two optionals, not eight). Only an overflow — more
	// consecutive optionals than the declared bytes can address — is an
	// error. BitmapSingleBit and bounded BitmapVariable declarations, by
	// contrast, name an exact bit count that the consecutive-optional run
	// must match exactly (spec.md §3 "Invariants").
	switch spec.Kind {
	case BitmapFixed:
		if want := spec.NBytes * 8; count > want {
			return nil, nil, &ResolveError{Kind: BitmapBitsMismatch, Container: container, Expected: want, Got: count}
		}
	case BitmapSingleBit:
		if count != 1 {
			return nil, nil, &ResolveError{Kind: BitmapBitsMismatch, Container: container, Expected: 1, Got: count}
		}
	case BitmapVariable:
		if spec.MaxBits >= 0 && count != spec.MaxBits {
			return nil, nil, &ResolveError{Kind: BitmapBitsMismatch, Container: container, Expected: spec.MaxBits, Got: count}
		}
	}
	return bitToField, fieldToBit, nil
}
