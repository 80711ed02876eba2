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

// Package engine is the traversal of spec.md §4.5: one recursive dispatch
// over protocol.FieldType (runField), parameterized by a [Mode], implements
// decode, extent, validate, and zero-pad; encode runs through a separate,
// parallel dispatch (encodeField, driven by [EncodeContainer]). Running every
// byte-reading mode through the same dispatch is what guarantees
// extent/validate parity with decode (spec.md §8 properties 3-4): there is
// exactly one place that knows how many bytes a TypeSpec occupies when read.
package engine

// Mode names the five traversal behaviors. [DecodeContainer] runs one of
// Decode, Extent, Validate, or Zero; [EncodeContainer] always encodes.
type Mode int

const (
	// Decode reads a value tree from bytes.
	Decode Mode = iota
	// Encode writes a value tree to bytes.
	Encode
	// Extent advances the cursor without producing values or checking
	// constraints; used to compute a record's byte length.
	Extent
	// Validate runs constraint checks but does not build a value tree.
	Validate
	// Zero overwrites padding bytes/bits in place while otherwise behaving
	// like Validate (spec.md §4.6 "Validate+Zero single pass").
	Zero
)

func (m Mode) String() string {
	switch m {
	case Decode:
		return "decode"
	case Encode:
		return "encode"
	case Extent:
		return "extent"
	case Validate:
		return "validate"
	case Zero:
		return "zero"
	default:
		return "<invalid mode>"
	}
}

// producesValues reports whether this mode builds a value.Value tree.
func (m Mode) producesValues() bool { return m == Decode }

// consumesValues reports whether this mode reads values.Value input rather
// than reading from or merely skipping over bytes.
func (m Mode) consumesValues() bool { return m == Encode }

// checksConstraints reports whether this mode runs Constraint checks at all.
// Condition guards are evaluated in every mode.
func (m Mode) checksConstraints() bool { return m == Decode || m == Validate || m == Zero }
