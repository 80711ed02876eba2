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

package asterixcodec

import (
	"fmt"

	"github.com/skytrace/asterixcodec/internal/bitio"
	"github.com/skytrace/asterixcodec/internal/engine"
	"github.com/skytrace/asterixcodec/internal/walk"
	"github.com/skytrace/asterixcodec/internal/walkctx"
	"github.com/skytrace/asterixcodec/protocol"
	"github.com/skytrace/asterixcodec/value"
)

// Codec is an immutable handle bundling a resolved [protocol.Protocol] with
// the byte order to encode and decode it in (spec.md §4.5 "Encoding
// endianness"). A Codec has no mutable state of its own — every encode,
// decode, or walk call builds a fresh [walkctx.Context] — so it is
// trivially safe to share across goroutines as read-only state (spec.md
// §5).
type Codec struct {
	protocol *protocol.Protocol
	endian   Endianness
	opts     codecOptions
}

// NewCodec returns a Codec that encodes and decodes p in byte order endian.
func NewCodec(p *protocol.Protocol, endian Endianness, opts ...CodecOption) *Codec {
	o := codecOptions{}
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &Codec{protocol: p, endian: endian, opts: o}
}

// Protocol returns the resolved schema this Codec was built from.
func (c *Codec) Protocol() *protocol.Protocol { return c.protocol }

// Endianness returns the byte order this Codec encodes and decodes in.
func (c *Codec) Endianness() Endianness { return c.endian }

func (c *Codec) lookupMessage(name string) (*protocol.Message, error) {
	m, ok := c.protocol.Messages[name]
	if !ok {
		return nil, fmt.Errorf("asterixcodec: unknown message %q", name)
	}
	return m, nil
}

// fieldsFromMap adapts the ergonomic string-keyed map the external API
// accepts into the ordered []value.Field that [value.Struct] carries
// (spec.md "Dynamic value model": "the external API may still accept a
// string keyed map for ergonomics"). Order doesn't matter here:
// [engine.EncodeContainer] looks members up by name via [value.Value.AsMap]
// rather than walking Fields positionally.
func fieldsFromMap(m map[string]value.Value) []value.Field {
	out := make([]value.Field, 0, len(m))
	for name, v := range m {
		out = append(out, value.Field{Name: name, Value: v})
	}
	return out
}

// EncodeMessage encodes values, a field name -> value map, as one instance
// of message name, and returns the resulting bytes (spec.md §6
// "encode_message"). A field the message declares but values omits encodes
// as absent, which is only meaningful for Optional fields; every other
// missing field fails with an [EncodeError] of kind [EncodeMissingField]
// raised from the leaf that needed it.
func (c *Codec) EncodeMessage(name string, values map[string]value.Value) ([]byte, error) {
	m, err := c.lookupMessage(name)
	if err != nil {
		return nil, err
	}
	ctx := walkctx.New()
	w := bitio.NewWriter()
	v := value.Struct(fieldsFromMap(values))
	if err := engine.EncodeContainer(ctx, w, c.endian, &m.Container, v); err != nil {
		return nil, err
	}
	w.AlignToByte()
	out := make([]byte, len(w.Bytes()))
	copy(out, w.Bytes())
	return out, nil
}

// DecodeMessage decodes one instance of message name from the start of buf
// and returns its fields as a [value.Value] of kind [value.KindStruct].
// Callers wanting map ergonomics can call [value.Value.AsMap] on the result
// (spec.md §6 "decode_message").
func (c *Codec) DecodeMessage(name string, buf []byte) (value.Value, error) {
	m, err := c.lookupMessage(name)
	if err != nil {
		return value.Value{}, err
	}
	ctx := walkctx.New()
	r := bitio.NewReader(buf)
	return engine.DecodeContainer(ctx, r, c.endian, &m.Container, engine.Decode)
}

// MessageExtent reports how many bytes, starting at start, one instance of
// message name occupies in buf, without constructing a value tree or
// checking any constraint (spec.md §6 "message_extent"). It is a free
// function, not a [Codec] method, because the contract it implements takes
// a resolved protocol and endianness directly; [Codec.MessageExtent] is a
// thin convenience wrapper around it.
func MessageExtent(p *protocol.Protocol, endian Endianness, buf []byte, start int, name string) (int, error) {
	return walk.Extent(p, endian, buf, start, name)
}

// ValidateMessageInPlace walks one instance of message name starting at
// start, running every field's constraint check without building a value
// tree, and reports the number of bytes consumed (spec.md §6
// "validate_message_in_place").
func ValidateMessageInPlace(p *protocol.Protocol, endian Endianness, buf []byte, start int, name string) (int, error) {
	return walk.Validate(p, endian, buf, start, name)
}

// ZeroPaddingInPlace walks one instance of message name starting at start in
// a combined validate+zero pass, overwriting every byte/bit range the
// schema classifies as Padding with zeros in buf, and reports the number of
// bytes consumed (spec.md §6 "zero_padding_in_place").
func ZeroPaddingInPlace(p *protocol.Protocol, endian Endianness, buf []byte, start int, name string) (int, error) {
	return walk.ZeroPadding(p, endian, buf, start, name)
}

// MessageExtent is the [Codec]-bound convenience form of the free
// [MessageExtent] function, using c's own protocol and endianness.
func (c *Codec) MessageExtent(buf []byte, start int, name string) (int, error) {
	return MessageExtent(c.protocol, c.endian, buf, start, name)
}

// ValidateMessageInPlace is the [Codec]-bound convenience form of the free
// [ValidateMessageInPlace] function.
func (c *Codec) ValidateMessageInPlace(buf []byte, start int, name string) (int, error) {
	return ValidateMessageInPlace(c.protocol, c.endian, buf, start, name)
}

// ZeroPaddingInPlace is the [Codec]-bound convenience form of the free
// [ZeroPaddingInPlace] function.
func (c *Codec) ZeroPaddingInPlace(buf []byte, start int, name string) (int, error) {
	return ZeroPaddingInPlace(c.protocol, c.endian, buf, start, name)
}
