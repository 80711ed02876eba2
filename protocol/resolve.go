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
	"fmt"

	"github.com/skytrace/asterixcodec/dsl"
	"github.com/skytrace/asterixcodec/internal/debug"
)

// ResolveOption configures [Resolve].
type ResolveOption struct{ apply func(*resolveOptions) }

type resolveOptions struct {
	warn func(string)
}

// WithWarnings directs non-fatal resolver diagnostics (e.g. a bitmap field
// that governs no optional fields) to fn instead of the default, which logs
// them through [github.com/skytrace/asterixcodec/internal/debug] the same
// low-noise, debug-build-gated way the rest of this module's ambient
// logging works.
func WithWarnings(fn func(string)) ResolveOption {
	return ResolveOption{apply: func(o *resolveOptions) { o.warn = fn }}
}

// Resolve links and validates schema into a [Protocol]: every StructRef is
// checked to exist and to be acyclic, every presence bitmap is matched
// against the run of optional fields it governs, every condition and
// array-length reference is checked to name an earlier integer field, every
// length_of/count_of reference is checked to name a sibling field (earlier
// or later), and every List/RepList element gets a precomputed minimum encoded size
// (spec.md §4.1, §4.4-§4.5).
func Resolve(schema *dsl.Schema, opts ...ResolveOption) (*Protocol, error) {
	o := resolveOptions{warn: func(msg string) { debug.Log(nil, "resolve", "%s", msg) }}
	for _, opt := range opts {
		opt.apply(&o)
	}

	r := &resolver{
		schema:   schema,
		structs:  map[string]*Struct{},
		messages: map[string]*Message{},
		warn:     o.warn,
	}
	return r.resolve()
}

type resolver struct {
	schema   *dsl.Schema
	structs  map[string]*Struct
	messages map[string]*Message
	warn     func(string)
}

func (r *resolver) resolve() (*Protocol, error) {
	for i, s := range r.schema.Structs {
		if _, dup := r.structs[s.Name]; dup {
			return nil, &ResolveError{Kind: DuplicateName, Name: s.Name}
		}
		r.structs[s.Name] = &Struct{Container{Name: s.Name, ID: i}}
	}
	for i, m := range r.schema.Messages {
		if _, dup := r.messages[m.Name]; dup {
			return nil, &ResolveError{Kind: DuplicateName, Name: m.Name}
		}
		r.messages[m.Name] = &Message{Container{Name: m.Name, ID: i}}
	}

	// Structs are linked before messages so struct-to-struct cycles are
	// caught without first requiring every message to resolve.
	for _, s := range r.schema.Structs {
		fields, bitmap, bitToField, fieldToBit, err := r.resolveContainer(s.Name, s.Fields)
		if err != nil {
			return nil, err
		}
		rs := r.structs[s.Name]
		rs.Fields, rs.Bitmap, rs.BitToField, rs.FieldToBit = fields, bitmap, bitToField, fieldToBit
	}
	if err := r.checkAcyclic(); err != nil {
		return nil, err
	}

	for _, m := range r.schema.Messages {
		fields, bitmap, bitToField, fieldToBit, err := r.resolveContainer(m.Name, m.Fields)
		if err != nil {
			return nil, err
		}
		rm := r.messages[m.Name]
		rm.Fields, rm.Bitmap, rm.BitToField, rm.FieldToBit = fields, bitmap, bitToField, fieldToBit
	}

	transport, _, _, _, err := r.resolveContainer("transport", r.schema.Transport)
	if err != nil {
		return nil, err
	}

	var payload *Payload
	if r.schema.Payload != nil {
		payload, err = r.resolvePayload(r.schema.Payload)
		if err != nil {
			return nil, err
		}
	}

	enums := make(map[string]map[string]int64, len(r.schema.Enums))
	for _, e := range r.schema.Enums {
		enums[e.Name] = e.Variants
	}

	return &Protocol{
		Transport: transport,
		Payload:   payload,
		Structs:   r.structs,
		Messages:  r.messages,
		Enums:     enums,
	}, nil
}

// resolveContainer resolves one struct's or message's field list, including
// the bit-to-field map of its declared bitmap field, if any.
func (r *resolver) resolveContainer(name string, astFields []dsl.Field) ([]Field, *BitmapSpec, map[int]string, map[string]int, error) {
	// fields is preallocated to its final length up front and never grows
	// past it: resolveType's "seen" map below holds pointers into this
	// slice, which a later append could invalidate by reallocating.
	fields := make([]Field, 0, len(astFields))
	seen := map[string]*Field{}
	bitmapIdx := -1
	var bitmapFT FieldType

	// allNames is known up front so a length_of/count_of field can name a
	// sibling declared later in wire order (the common TLV shape: the length
	// prefix precedes the data it describes). Every other kind of reference
	// (array length by field, condition) still resolves against seen only,
	// since those values must already be decoded by the time they're used
	// (spec.md §4.1).
	allNames := make(map[string]struct{}, len(astFields))
	for _, af := range astFields {
		allNames[af.Name] = struct{}{}
	}

	for _, af := range astFields {
		if _, dup := seen[af.Name]; dup {
			return nil, nil, nil, nil, &ResolveError{Kind: DuplicateName, Container: name, Name: af.Name}
		}

		ft, err := r.resolveType(name, seen, allNames, af.Type)
		if err != nil {
			return nil, nil, nil, nil, err
		}

		if af.Condition != nil {
			rf, ok := seen[af.Condition.Field]
			if !ok {
				return nil, nil, nil, nil, &ResolveError{Kind: BadReference, Container: name, Name: af.Condition.Field}
			}
			if !IsIntegerType(&rf.Type) {
				return nil, nil, nil, nil, &ResolveError{Kind: TypeMismatch, Container: name, Name: af.Condition.Field}
			}
		}

		f := Field{
			Name:       af.Name,
			Type:       ft,
			Constraint: af.Constraint,
			Condition:  af.Condition,
			Doc:        af.Doc,
			Quantum:    af.Quantum,
		}
		f.Saturating = saturating(&f.Type, f.Constraint)

		if ft.Kind == KindPresenceBits || ft.Kind == KindBitmap {
			if bitmapIdx != -1 {
				return nil, nil, nil, nil, &ResolveError{Kind: TypeMismatch, Container: name, Name: af.Name}
			}
			bitmapIdx = len(fields)
			bitmapFT = ft
		}

		fields = append(fields, f)
		seen[af.Name] = &fields[len(fields)-1]
	}

	if bitmapIdx == -1 {
		return fields, nil, nil, nil, nil
	}
	spec := newBitmapSpec(fields[bitmapIdx].Name, &bitmapFT)
	bitToField, fieldToBit, err := linkBitToField(name, fields, bitmapIdx, bitmapFT.BitMap, spec)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if len(bitToField) == 0 {
		r.warn(fmt.Sprintf("%s: bitmap field %q governs no optional fields", name, fields[bitmapIdx].Name))
	}
	return fields, spec, bitToField, fieldToBit, nil
}

// resolveType links one AST type node, recursively resolving any inner type
// and validating the references and parameters specific to its kind.
func (r *resolver) resolveType(container string, seen map[string]*Field, allNames map[string]struct{}, t dsl.TypeSpec) (FieldType, error) {
	ft := FieldType{
		Kind:        t.Kind,
		Base:        t.Base,
		Bits:        t.Bits,
		PaddingUnit: t.PaddingUnit,
		ArrayLen:    t.ArrayLen,
		RefField:    t.RefField,
		NBytes:      t.NBytes,
		MaxBits:     t.MaxBits,
		PerByte:     t.PerByte,
		BitMap:      t.BitMap,
	}

	switch t.Kind {
	case KindBase, KindPadding, KindOctetsFx:
		// No further resolution needed.

	case KindSizedInt, KindBitfield:
		if t.Bits < 1 || t.Bits > 64 {
			return FieldType{}, &ResolveError{Kind: TypeMismatch, Container: container, Name: "<bit width>"}
		}

	case KindArray:
		if t.Inner == nil {
			return FieldType{}, &ResolveError{Kind: TypeMismatch, Container: container, Name: "array"}
		}
		inner, err := r.resolveType(container, seen, allNames, *t.Inner)
		if err != nil {
			return FieldType{}, err
		}
		ft.Inner = &inner
		if t.ArrayLen.ByField() {
			rf, ok := seen[t.ArrayLen.FromName]
			if !ok {
				return FieldType{}, &ResolveError{Kind: BadReference, Container: container, Name: t.ArrayLen.FromName}
			}
			if !IsIntegerType(&rf.Type) {
				return FieldType{}, &ResolveError{Kind: TypeMismatch, Container: container, Name: t.ArrayLen.FromName}
			}
		}

	case KindList, KindRepList:
		if t.Inner == nil {
			return FieldType{}, &ResolveError{Kind: TypeMismatch, Container: container, Name: t.Kind.String()}
		}
		inner, err := r.resolveType(container, seen, allNames, *t.Inner)
		if err != nil {
			return FieldType{}, err
		}
		ft.Inner = &inner
		ft.ElementMinSize = elementMinBytes(&inner)
		if ft.ElementMinSize < 1 {
			ft.ElementMinSize = 1 // must never be a zero divisor in the runaway-count guard
		}

	case KindLengthOf, KindCountOf:
		// Unlike array-length-by-field and condition references, the
		// referent is usually declared later in the container (a length
		// prefix precedes the data it describes), so this checks the full
		// sibling name set rather than seen (spec.md §4.5 "two-pass
		// encoding").
		if _, ok := allNames[t.RefField]; !ok {
			return FieldType{}, &ResolveError{Kind: BadReference, Container: container, Name: t.RefField}
		}
		// The grammar's length_of(field)/count_of(field) production carries
		// no width of its own; default to the same u32 width as list<T>'s
		// count prefix unless the caller set one explicitly (tests and
		// programmatic schema construction may).
		if ft.Bits == 0 {
			ft.Base = dsl.U32
			ft.Bits = 32
		}

	case KindOptional:
		if t.Inner == nil {
			return FieldType{}, &ResolveError{Kind: TypeMismatch, Container: container, Name: "optional"}
		}
		inner, err := r.resolveType(container, seen, allNames, *t.Inner)
		if err != nil {
			return FieldType{}, err
		}
		ft.Inner = &inner

	case KindStructRef:
		s, ok := r.structs[t.StructName]
		if !ok {
			return FieldType{}, &ResolveError{Kind: UnknownType, Container: container, Name: t.StructName}
		}
		ft.Struct = s

	case KindPresenceBits:
		if t.NBytes != 1 && t.NBytes != 2 && t.NBytes != 4 {
			return FieldType{}, &ResolveError{Kind: TypeMismatch, Container: container, Name: "presence_bits"}
		}

	case KindBitmap:
		if t.PerByte != 0 && t.PerByte != 7 && t.PerByte != 8 {
			return FieldType{}, &ResolveError{Kind: TypeMismatch, Container: container, Name: "bitmap"}
		}

	default:
		return FieldType{}, &ResolveError{Kind: UnknownType, Container: container, Name: t.Kind.String()}
	}

	return ft, nil
}

// elementMinBytes returns the smallest possible encoded byte length of one
// value of type ft. It underestimates rather than overestimates wherever the
// true minimum depends on runtime data (an Array sized by a sibling field, a
// StructRef holding such an Array): callers that divide by this value must
// clamp it away from zero themselves.
func elementMinBytes(ft *FieldType) int {
	switch ft.Kind {
	case KindBase:
		if n := ft.Base.ByteWidth(); n > 0 {
			return n
		}
		return 1
	case KindSizedInt, KindBitfield:
		return maxInt(1, (ft.Bits+7)/8)
	case KindPadding:
		if ft.PaddingUnit == PaddingBits {
			return maxInt(1, (ft.Bits+7)/8)
		}
		return maxInt(1, ft.Bits)
	case KindArray:
		if ft.ArrayLen.ByField() {
			return elementMinBytes(ft.Inner)
		}
		return maxInt(1, ft.ArrayLen.Literal*elementMinBytes(ft.Inner))
	case KindList, KindRepList:
		return elementMinBytes(ft.Inner)
	case KindOctetsFx:
		return 1
	case KindLengthOf, KindCountOf:
		return maxInt(1, ft.Bits/8)
	case KindOptional:
		return 0
	case KindStructRef:
		if ft.Struct == nil {
			return 1
		}
		total := 0
		for i := range ft.Struct.Fields {
			total += elementMinBytes(&ft.Struct.Fields[i].Type)
		}
		return total
	case KindPresenceBits:
		return ft.NBytes
	case KindBitmap:
		if ft.PerByte == 0 {
			return 0
		}
		bits := ft.MaxBits
		if bits < 0 {
			bits = ft.PerByte
		}
		return (bits + ft.PerByte - 1) / ft.PerByte
	default:
		return 1
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// structRefs returns the names of every struct ft directly or transitively
// (through Array/List/RepList/Optional) refers to, for cycle detection.
func structRefs(ft *FieldType) []string {
	switch ft.Kind {
	case KindStructRef:
		if ft.Struct != nil {
			return []string{ft.Struct.Name}
		}
	case KindArray, KindList, KindRepList, KindOptional:
		if ft.Inner != nil {
			return structRefs(ft.Inner)
		}
	}
	return nil
}

// checkAcyclic walks the struct reference graph with three-color DFS so a
// StructRef cycle is reported once, by name, instead of recursing forever
// (spec.md §4.1 "acyclic").
func (r *resolver) checkAcyclic() error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(r.structs))

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return &ResolveError{Kind: Cycle, Name: name}
		}
		color[name] = gray
		s := r.structs[name]
		for i := range s.Fields {
			for _, ref := range structRefs(&s.Fields[i].Type) {
				if err := visit(ref); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}

	for name := range r.structs {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) resolvePayload(p *dsl.Payload) (*Payload, error) {
	for _, m := range p.Messages {
		if _, ok := r.messages[m]; !ok {
			return nil, &ResolveError{Kind: UnknownType, Name: m}
		}
	}

	var sel *PayloadSelector
	if p.Selector != nil {
		sel = &PayloadSelector{Field: p.Selector.Field, Cases: make(map[int64]string, len(p.Selector.Cases))}
		for v, name := range p.Selector.Cases {
			if _, ok := r.messages[name]; !ok {
				return nil, &ResolveError{Kind: UnknownType, Name: name}
			}
			sel.Cases[v] = name
		}
	}

	return &Payload{Messages: p.Messages, Selector: sel, Repeated: p.Repeated}, nil
}
