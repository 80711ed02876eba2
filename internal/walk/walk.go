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

// Package walk is the thin, value-less specialization of the codec engine
// (spec.md §4.6): Extent, Validate, and the combined Validate+Zero pass all
// run the exact same [engine.DecodeContainer] dispatch that Decode does,
// just in a mode that skips value construction. Sharing the dispatch instead
// of hand-writing a second traversal is what guarantees the extent/validate
// parity properties decode relies on (spec.md §8 properties 3-4).
//
// Grounded on the teacher's internal/zc zero-copy walker, which advances the
// same compiled-type traversal hyperpb's decoder uses without ever
// allocating a message value.
package walk

import (
	"fmt"

	"github.com/skytrace/asterixcodec/internal/bitio"
	"github.com/skytrace/asterixcodec/internal/engine"
	"github.com/skytrace/asterixcodec/internal/walkctx"
	"github.com/skytrace/asterixcodec/protocol"
)

// lookupMessage resolves name against p's registered messages, the one
// piece of bookkeeping every walk entry point needs before it can run.
func lookupMessage(p *protocol.Protocol, name string) (*protocol.Message, error) {
	m, ok := p.Messages[name]
	if !ok {
		return nil, fmt.Errorf("walk: unknown message %q", name)
	}
	return m, nil
}

// run shares the byte-accounting boilerplate common to every walk entry
// point: position a Reader at start, run cont through the engine in mode,
// and report the number of bytes consumed.
func run(r *bitio.Reader, endian bitio.Endianness, cont *protocol.Container, mode engine.Mode, start int) (int, error) {
	ctx := walkctx.New()
	if _, err := engine.DecodeContainer(ctx, r, endian, cont, mode); err != nil {
		return 0, err
	}
	return r.BytePos() - start, nil
}

// Extent reports how many bytes, starting at start, one instance of message
// name occupies in buf, without constructing a value tree or checking any
// constraint. This is what the frame handler uses to find a record's
// boundary before attempting to decode it.
func Extent(p *protocol.Protocol, endian bitio.Endianness, buf []byte, start int, name string) (int, error) {
	m, err := lookupMessage(p, name)
	if err != nil {
		return 0, err
	}
	r := bitio.NewReaderAt(buf, start*8)
	return run(r, endian, &m.Container, engine.Extent, start)
}

// Validate walks one instance of message name starting at start, running
// every field's constraint check, and reports the number of bytes consumed.
// It fails with the same *engine.DecodeError{Kind: DecodeValidation} a
// Decode of the identical bytes would fail with (spec.md §8 property 4).
func Validate(p *protocol.Protocol, endian bitio.Endianness, buf []byte, start int, name string) (int, error) {
	m, err := lookupMessage(p, name)
	if err != nil {
		return 0, err
	}
	r := bitio.NewReaderAt(buf, start*8)
	return run(r, endian, &m.Container, engine.Validate, start)
}

// ZeroPadding walks one instance of message name starting at start in a
// single combined validate+zero pass (spec.md §4.6 "Validate+Zero single
// pass"): every constraint is still checked, and every byte/bit range
// classified as Padding is overwritten with zeros in buf as it is crossed.
// It reports the number of bytes consumed.
func ZeroPadding(p *protocol.Protocol, endian bitio.Endianness, buf []byte, start int, name string) (int, error) {
	m, err := lookupMessage(p, name)
	if err != nil {
		return 0, err
	}
	r := bitio.NewReaderAt(buf, start*8)
	return run(r, endian, &m.Container, engine.Zero, start)
}
