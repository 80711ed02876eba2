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

import "fmt"

// ResolveErrorKind enumerates the resolver's error taxonomy (spec.md §4.1).
type ResolveErrorKind int

const (
	UnknownType ResolveErrorKind = iota
	Cycle
	BitmapBitsMismatch
	BadReference
	TypeMismatch
	DuplicateName
)

func (k ResolveErrorKind) String() string {
	switch k {
	case UnknownType:
		return "unknown_type"
	case Cycle:
		return "cycle"
	case BitmapBitsMismatch:
		return "bitmap_bits_mismatch"
	case BadReference:
		return "bad_reference"
	case TypeMismatch:
		return "type_mismatch"
	case DuplicateName:
		return "duplicate_name"
	default:
		return "<unknown resolve error kind>"
	}
}

// ResolveError is returned by [Resolve] when the AST fails to link or
// validate.
type ResolveError struct {
	Kind      ResolveErrorKind
	Container string // struct/message name the error was found in, if any
	Name      string // the offending type/field/referent name

	// Extra context for BitmapBitsMismatch.
	Expected, Got int
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case BitmapBitsMismatch:
		return fmt.Sprintf("protocol: %s: bitmap declares %d bits but %d consecutive optionals follow",
			e.Container, e.Expected, e.Got)
	case Cycle:
		return fmt.Sprintf("protocol: cycle detected through struct %q", e.Name)
	case UnknownType:
		return fmt.Sprintf("protocol: %s: unknown type %q", e.Container, e.Name)
	case BadReference:
		return fmt.Sprintf("protocol: %s: bad reference to %q", e.Container, e.Name)
	case TypeMismatch:
		return fmt.Sprintf("protocol: %s: %q has the wrong type for this use", e.Container, e.Name)
	case DuplicateName:
		return fmt.Sprintf("protocol: duplicate name %q", e.Name)
	default:
		return fmt.Sprintf("protocol: resolve error in %s: %s", e.Container, e.Name)
	}
}
