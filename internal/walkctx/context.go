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

package walkctx

// Context is the per-call state threaded through one encode, decode, or
// walk of a single message (spec.md §4.3). It is never shared across
// concurrent operations: callers construct a fresh Context per call.
type Context struct {
	// Values holds every integer field decoded (or, on Encode, computed)
	// so far, keyed by field name. A nested struct sees its parent's
	// already-populated entries (spec.md §5 "child sees parent's already
	// decoded fields"); resolver-time validation only ever requires a
	// same-container earlier reference, so the flat namespace is strictly
	// more permissive than what schemas can actually rely on.
	Values map[string]int64

	Presence Stack

	// PendingPatches records the two-pass length_of/count_of back-patches
	// still owed on Encode: the bit position of the placeholder and the
	// width to overwrite once the referent has been produced.
	PendingPatches []PendingPatch

	// Extents records, as each field finishes encoding, how many bits it
	// occupied and (for repeated/octet fields) how many elements it held, so
	// a length_of/count_of field that names an already-encoded sibling can
	// compute its value immediately instead of deferring to a PendingPatch.
	Extents map[string]Extent
}

// Extent is what [Context.Extents] records about one just-encoded field.
type Extent struct {
	Bits  int
	Count int
}

// PendingPatch is one recorded placeholder awaiting its real value once the
// referenced field has finished encoding (spec.md §4.5, §9).
type PendingPatch struct {
	Field    string
	BitPos   int
	Bits     int
	RefField string

	// IsCount distinguishes a count_of placeholder (patched with the
	// referent's element count) from a length_of placeholder (patched with
	// the referent's encoded byte length).
	IsCount bool
}

// New returns an empty Context ready for one encode/decode/walk call.
func New() *Context {
	return &Context{Values: make(map[string]int64), Extents: make(map[string]Extent)}
}

func (c *Context) SetInt(name string, v int64) { c.Values[name] = v }

func (c *Context) GetInt(name string) (int64, bool) {
	v, ok := c.Values[name]
	return v, ok
}

// RecordExtent stores a just-encoded field's bit length and element count.
func (c *Context) RecordExtent(name string, bits, count int) {
	c.Extents[name] = Extent{Bits: bits, Count: count}
}

// GetExtent looks up a previously recorded field extent.
func (c *Context) GetExtent(name string) (Extent, bool) {
	e, ok := c.Extents[name]
	return e, ok
}
