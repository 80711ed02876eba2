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

package dsl

import "fmt"

// Parse compiles DSL source text into an AST. Parse performs no
// cross-referencing or validation beyond syntax; see
// [github.com/skytrace/asterixcodec/protocol].Resolve for that.
//
// Grammar (spec.md §6):
//
//	transport { <field>; ... }
//	payload { messages: A, B, ...; selector: F -> v1: A, v2: B, ...; repeated; }
//	message Name { fspec_decl; <field>; ... }
//	struct Name { <field>; ... }
//	enum Name { Variant = Int; ... }
func Parse(src string) (*Schema, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	schema := &Schema{}
	for p.tok.kind != tokEOF {
		kw, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		switch kw {
		case "transport":
			fields, err := p.parseFieldBlock()
			if err != nil {
				return nil, err
			}
			schema.Transport = fields
		case "payload":
			pl, err := p.parsePayload()
			if err != nil {
				return nil, err
			}
			schema.Payload = pl
		case "message":
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			fields, err := p.parseFieldBlock()
			if err != nil {
				return nil, err
			}
			schema.Messages = append(schema.Messages, Message{Name: name, Fields: fields})
		case "struct":
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			fields, err := p.parseFieldBlock()
			if err != nil {
				return nil, err
			}
			schema.Structs = append(schema.Structs, Struct{Name: name, Fields: fields})
		case "enum":
			e, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			schema.Enums = append(schema.Enums, e)
		default:
			return nil, p.errorf("transport, payload, message, struct, or enum", kw)
		}
	}
	return schema, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errorf(expected, got string) error {
	return &ParseError{Line: p.tok.line, Col: p.tok.col, Expected: expected, Got: got}
}

func (p *parser) expectIdent() (string, error) {
	if p.tok.kind != tokIdent {
		return "", p.errorf("identifier", p.tok.String())
	}
	s := p.tok.text
	return s, p.advance()
}

func (p *parser) expectInt() (int64, error) {
	if p.tok.kind != tokInt {
		return 0, p.errorf("integer", p.tok.String())
	}
	n := p.tok.intVal
	return n, p.advance()
}

func (p *parser) expectSymbol(s string) error {
	if p.tok.kind != tokSymbol || p.tok.text != s {
		return p.errorf(fmt.Sprintf("%q", s), p.tok.String())
	}
	return p.advance()
}

func (p *parser) atSymbol(s string) bool {
	return p.tok.kind == tokSymbol && p.tok.text == s
}

func (p *parser) atIdent(s string) bool {
	return p.tok.kind == tokIdent && p.tok.text == s
}

// parseFieldBlock parses "{" field* "}".
func (p *parser) parseFieldBlock() ([]Field, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	var fields []Field
	for !p.atSymbol("}") {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, p.expectSymbol("}")
}

// parseField parses `name ":" type_spec [constraint] [condition] [quantum] [doc] ";"`.
func (p *parser) parseField() (Field, error) {
	name, err := p.expectIdent()
	if err != nil {
		return Field{}, err
	}
	if err := p.expectSymbol(":"); err != nil {
		return Field{}, err
	}
	ts, err := p.parseTypeSpec()
	if err != nil {
		return Field{}, err
	}

	f := Field{Name: name, Type: ts}

	if (ts.Kind == KindBitmap || ts.Kind == KindPresenceBits) && p.atSymbol("->") {
		bm, err := p.parseBitMap()
		if err != nil {
			return Field{}, err
		}
		f.Type.BitMap = bm
	}

	if p.atSymbol("[") {
		c, err := p.parseConstraint()
		if err != nil {
			return Field{}, err
		}
		f.Constraint = c
	}

	if p.atIdent("if") {
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		condField, err := p.expectIdent()
		if err != nil {
			return Field{}, err
		}
		if err := p.expectSymbol("="); err != nil {
			return Field{}, err
		}
		if err := p.expectSymbol("="); err != nil {
			return Field{}, err
		}
		val, err := p.expectInt()
		if err != nil {
			return Field{}, err
		}
		f.Condition = &Condition{Field: condField, Value: val}
	}

	if p.atIdent("quantum") {
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		if p.tok.kind != tokString {
			return Field{}, p.errorf("string", p.tok.String())
		}
		f.Quantum = p.tok.text
		if err := p.advance(); err != nil {
			return Field{}, err
		}
	}

	if p.atSymbol("@") {
		if err := p.advance(); err != nil {
			return Field{}, err
		}
		if _, err := p.expectIdent(); err != nil { // "doc"
			return Field{}, err
		}
		if p.tok.kind != tokString {
			return Field{}, p.errorf("string", p.tok.String())
		}
		f.Doc = p.tok.text
		if err := p.advance(); err != nil {
			return Field{}, err
		}
	}

	return f, p.expectSymbol(";")
}

// parseConstraint parses "[" ( "in" "(" int ("," int)* ")" | "range" "(" interval ("," interval)* ")" ) "]".
func (p *parser) parseConstraint() (*Constraint, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	kw, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	c := &Constraint{}
	switch kw {
	case "in":
		for {
			n, err := p.expectInt()
			if err != nil {
				return nil, err
			}
			c.Enum = append(c.Enum, n)
			if p.atSymbol(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	case "range":
		for {
			lo, err := p.expectInt()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(".."); err != nil {
				return nil, err
			}
			hi, err := p.expectInt()
			if err != nil {
				return nil, err
			}
			c.Ranges = append(c.Ranges, Interval{Lo: lo, Hi: hi})
			if p.atSymbol(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	default:
		return nil, p.errorf("in or range", kw)
	}

	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return c, p.expectSymbol("]")
}

// parseTypeSpec implements the type_spec grammar of spec.md §6.
func (p *parser) parseTypeSpec() (TypeSpec, error) {
	name, err := p.expectIdent()
	if err != nil {
		return TypeSpec{}, err
	}

	switch name {
	case "optional":
		inner, err := p.parseAngledInner()
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindOptional, Inner: inner}, nil
	case "list":
		inner, err := p.parseAngledInner()
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindList, Inner: inner}, nil
	case "rep_list":
		inner, err := p.parseAngledInner()
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindRepList, Inner: inner}, nil
	case "padding":
		if err := p.expectSymbol("("); err != nil {
			return TypeSpec{}, err
		}
		n, err := p.expectInt()
		if err != nil {
			return TypeSpec{}, err
		}
		unit := PaddingBytes
		if p.atSymbol(",") {
			if err := p.advance(); err != nil {
				return TypeSpec{}, err
			}
			kw, err := p.expectIdent()
			if err != nil {
				return TypeSpec{}, err
			}
			if kw != "bits" {
				return TypeSpec{}, p.errorf("bits", kw)
			}
			unit = PaddingBits
		}
		if err := p.expectSymbol(")"); err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindPadding, Bits: int(n), PaddingUnit: unit}, nil
	case "padding_bits":
		if err := p.expectSymbol("("); err != nil {
			return TypeSpec{}, err
		}
		n, err := p.expectInt()
		if err != nil {
			return TypeSpec{}, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindPadding, Bits: int(n), PaddingUnit: PaddingBits}, nil
	case "bitfield":
		if err := p.expectSymbol("("); err != nil {
			return TypeSpec{}, err
		}
		n, err := p.expectInt()
		if err != nil {
			return TypeSpec{}, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindBitfield, Bits: int(n)}, nil
	case "bitmap":
		if err := p.expectSymbol("("); err != nil {
			return TypeSpec{}, err
		}
		maxBits, err := p.expectInt()
		if err != nil {
			return TypeSpec{}, err
		}
		if err := p.expectSymbol(","); err != nil {
			return TypeSpec{}, err
		}
		perByte, err := p.expectInt()
		if err != nil {
			return TypeSpec{}, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindBitmap, MaxBits: int(maxBits), PerByte: int(perByte)}, nil
	case "presence_bits":
		if err := p.expectSymbol("("); err != nil {
			return TypeSpec{}, err
		}
		n, err := p.expectInt()
		if err != nil {
			return TypeSpec{}, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindPresenceBits, NBytes: int(n)}, nil
	case "fspec":
		// Shorthand for a variable bitmap with 7 presence bits per byte and
		// an FX extension bit, unbounded except by the FX chain itself.
		return TypeSpec{Kind: KindBitmap, MaxBits: -1, PerByte: 7}, nil
	case "octets_fx":
		return TypeSpec{Kind: KindOctetsFx}, nil
	case "length_of":
		field, err := p.parseParenField()
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindLengthOf, RefField: field}, nil
	case "count_of":
		field, err := p.parseParenField()
		if err != nil {
			return TypeSpec{}, err
		}
		return TypeSpec{Kind: KindCountOf, RefField: field}, nil
	}

	var ts TypeSpec
	if base := parseBaseTypeName(name); base != BaseInvalid {
		if p.atSymbol("(") {
			if err := p.advance(); err != nil {
				return TypeSpec{}, err
			}
			n, err := p.expectInt()
			if err != nil {
				return TypeSpec{}, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return TypeSpec{}, err
			}
			ts = TypeSpec{Kind: KindSizedInt, Base: base, Bits: int(n)}
		} else {
			ts = TypeSpec{Kind: KindBase, Base: base}
		}
	} else {
		// Not a base type or built-in keyword: a reference to a struct.
		ts = TypeSpec{Kind: KindStructRef, StructName: name}
	}

	if p.atSymbol("[") {
		if err := p.advance(); err != nil {
			return TypeSpec{}, err
		}
		var length ArrayLen
		if p.tok.kind == tokInt {
			length = LiteralLen(int(p.tok.intVal))
			if err := p.advance(); err != nil {
				return TypeSpec{}, err
			}
		} else {
			field, err := p.expectIdent()
			if err != nil {
				return TypeSpec{}, err
			}
			length = FieldLen(field)
		}
		if err := p.expectSymbol("]"); err != nil {
			return TypeSpec{}, err
		}
		inner := ts
		ts = TypeSpec{Kind: KindArray, Inner: &inner, ArrayLen: length}
	}

	return ts, nil
}

func (p *parser) parseAngledInner() (*TypeSpec, error) {
	if err := p.expectSymbol("<"); err != nil {
		return nil, err
	}
	inner, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(">"); err != nil {
		return nil, err
	}
	return &inner, nil
}

// parseBitMap parses `"->" "(" int ":" ident ("," int ":" ident)* ")"`.
func (p *parser) parseBitMap() (map[int]string, error) {
	if err := p.expectSymbol("->"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	bm := map[int]string{}
	for {
		idx, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		bm[int(idx)] = name
		if p.atSymbol(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return bm, p.expectSymbol(")")
}

func (p *parser) parseParenField() (string, error) {
	if err := p.expectSymbol("("); err != nil {
		return "", err
	}
	field, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	return field, p.expectSymbol(")")
}

func parseBaseTypeName(s string) BaseType {
	switch s {
	case "u8":
		return U8
	case "u16":
		return U16
	case "u32":
		return U32
	case "u64":
		return U64
	case "i8":
		return I8
	case "i16":
		return I16
	case "i32":
		return I32
	case "i64":
		return I64
	case "bool":
		return Bool
	case "f32":
		return F32
	case "f64":
		return F64
	default:
		return BaseInvalid
	}
}

// parsePayload parses `"{" ("messages" ":" name ("," name)* ";")?
// ("selector" ":" field "->" (int ":" name ",")* ";")? ("repeated" ";")? "}"`.
func (p *parser) parsePayload() (*Payload, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	pl := &Payload{}
	for !p.atSymbol("}") {
		kw, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		switch kw {
		case "messages":
			if err := p.expectSymbol(":"); err != nil {
				return nil, err
			}
			for {
				name, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				pl.Messages = append(pl.Messages, name)
				if p.atSymbol(",") {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			if err := p.expectSymbol(";"); err != nil {
				return nil, err
			}
		case "selector":
			if err := p.expectSymbol(":"); err != nil {
				return nil, err
			}
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol("->"); err != nil {
				return nil, err
			}
			sel := &PayloadSelector{Field: field, Cases: map[int64]string{}}
			for {
				val, err := p.expectInt()
				if err != nil {
					return nil, err
				}
				if err := p.expectSymbol(":"); err != nil {
					return nil, err
				}
				name, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				sel.Cases[val] = name
				if p.atSymbol(",") {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			pl.Selector = sel
			if err := p.expectSymbol(";"); err != nil {
				return nil, err
			}
		case "repeated":
			pl.Repeated = true
			if err := p.expectSymbol(";"); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf("messages, selector, or repeated", kw)
		}
	}
	return pl, p.expectSymbol("}")
}

func (p *parser) parseEnum() (Enum, error) {
	name, err := p.expectIdent()
	if err != nil {
		return Enum{}, err
	}
	if err := p.expectSymbol("{"); err != nil {
		return Enum{}, err
	}
	e := Enum{Name: name, Variants: map[string]int64{}}
	for !p.atSymbol("}") {
		variant, err := p.expectIdent()
		if err != nil {
			return Enum{}, err
		}
		if err := p.expectSymbol("="); err != nil {
			return Enum{}, err
		}
		val, err := p.expectInt()
		if err != nil {
			return Enum{}, err
		}
		e.Variants[variant] = val
		if err := p.expectSymbol(";"); err != nil {
			return Enum{}, err
		}
	}
	return e, p.expectSymbol("}")
}
