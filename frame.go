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
	"errors"
	"fmt"
	"sort"

	"github.com/skytrace/asterixcodec/internal/bitio"
	"github.com/skytrace/asterixcodec/internal/debug"
	"github.com/skytrace/asterixcodec/internal/engine"
	"github.com/skytrace/asterixcodec/internal/walkctx"
	"github.com/skytrace/asterixcodec/protocol"
	"github.com/skytrace/asterixcodec/value"
)

// DecodedRecord is one record [Codec.DecodeFrame] successfully extented and
// decoded.
type DecodedRecord struct {
	Message string
	Start   int
	Length  int
	Value   value.Value
}

// RemovedRecord is one record whose extent was computable but which failed
// decode validation (spec.md §4.7 "Removed"). Its byte range is still
// accounted for in the frame: [Codec.EncodeFrameWithCompliantOnly] uses it
// to shift-delete exactly these bytes.
type RemovedRecord struct {
	Message string
	Start   int
	Length  int
	Cause   error
}

// FrameResult is the outcome of one [Codec.DecodeFrame] call (spec.md §4.7,
// §6 "decode_frame"). Decoded and Removed together account for every byte
// of the record area without overlap (spec.md §8 property 9).
type FrameResult struct {
	Decoded []DecodedRecord
	Removed []RemovedRecord
}

// TotalBytes reports the combined byte length of every decoded and removed
// record, i.e. the size of the record area DecodeFrame actually walked.
func (r FrameResult) TotalBytes() int {
	n := 0
	for _, d := range r.Decoded {
		n += d.Length
	}
	for _, rm := range r.Removed {
		n += rm.Length
	}
	return n
}

// transportContainer wraps a resolved protocol's flat transport field list
// as a bitmap-free [protocol.Container] so it can run through the same
// [engine.DecodeContainer] dispatch as any struct or message (spec.md §4.7
// "its fields are fixed layout with no recursion into the record").
func transportContainer(p *protocol.Protocol) *protocol.Container {
	return &protocol.Container{Name: "transport", Fields: p.Transport}
}

// decodeTransport decodes the transport header at the front of buf, if the
// protocol declares one, and reports how many bytes it occupied.
func (c *Codec) decodeTransport(buf []byte) (value.Value, int, error) {
	if len(c.protocol.Transport) == 0 {
		return value.Value{}, 0, nil
	}
	ctx := walkctx.New()
	r := bitio.NewReader(buf)
	v, err := engine.DecodeContainer(ctx, r, c.endian, transportContainer(c.protocol), engine.Decode)
	if err != nil {
		return value.Value{}, 0, err
	}
	return v, r.BytePos(), nil
}

// dispatchMessage resolves the message name for the record starting at the
// current position, either from an explicit starting message name or from
// c's protocol Payload selector applied against the already-decoded
// transport fields.
func (c *Codec) dispatchMessage(startingMessage string, transport value.Value) (name string, repeated bool, err error) {
	if startingMessage != "" {
		return startingMessage, true, nil
	}
	p := c.protocol.Payload
	if p == nil {
		return "", false, errors.New("asterixcodec: no starting message given and protocol declares no payload dispatcher")
	}
	if p.Selector == nil {
		if len(p.Messages) == 0 {
			return "", false, errors.New("asterixcodec: payload declares no messages")
		}
		return p.Messages[0], p.Repeated, nil
	}
	fv, ok := transport.Field(p.Selector.Field)
	if !ok {
		return "", false, fmt.Errorf("asterixcodec: payload selector field %q not found in transport", p.Selector.Field)
	}
	key, ok := intOf(fv)
	if !ok {
		return "", false, fmt.Errorf("asterixcodec: payload selector field %q is not an integer", p.Selector.Field)
	}
	name, ok = p.Selector.Cases[key]
	if !ok {
		return "", false, fmt.Errorf("asterixcodec: payload selector value %d has no mapped message", key)
	}
	return name, p.Repeated, nil
}

// intOf extracts an int64 from an Int/Uint/Bool value.Value, the kinds a
// transport selector field can plausibly be.
func intOf(v value.Value) (int64, bool) {
	switch v.Kind {
	case value.KindInt:
		return v.I, true
	case value.KindUint:
		return int64(v.U), true
	case value.KindBool:
		if v.B {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// DecodeFrame splits one block of buf into its constituent records (spec.md
// §4.7, §6 "decode_frame").
//
// If a transport header is declared, it is decoded first from the front of
// buf. The record area is everything after it; DecodeFrame decodes it to
// the end of buf (records are decoded from a contiguous byte slice per
// spec.md §1 Non-goals, so a caller streaming a longer transport must slice
// out one block's bytes before calling DecodeFrame).
//
// startingMessage, if non-empty, names the message type of every record,
// and the loop continues until buf is exhausted. If empty, c's protocol
// must declare a Payload: its selector (if any) picks each record's message
// type from the decoded transport fields, and its Repeated flag decides
// whether more than one record is expected.
//
// Each record is first extented with [walk.Extent], then decoded from
// exactly those bytes. A record whose extent itself cannot be computed is
// fatal: DecodeFrame returns everything classified so far alongside a
// *FrameError (spec.md §4.7 "Fatal"). A record whose extent succeeds but
// whose decode fails is Removed instead, and the loop continues past it.
func (c *Codec) DecodeFrame(buf []byte, startingMessage string) (FrameResult, error) {
	var result FrameResult

	transport, headerLen, err := c.decodeTransport(buf)
	if err != nil {
		return result, err
	}

	name, repeated, err := c.dispatchMessage(startingMessage, transport)
	if err != nil {
		return result, err
	}

	pos := headerLen
	for pos < len(buf) {
		length, err := c.MessageExtent(buf, pos, name)
		if err != nil {
			return result, &FrameError{Kind: FrameFatalExtent, At: pos, Cause: err}
		}
		if c.opts.maxRecordBytes > 0 && length > c.opts.maxRecordBytes {
			return result, &FrameError{
				Kind:  FrameFatalExtent,
				At:    pos,
				Cause: fmt.Errorf("asterixcodec: record of %d bytes exceeds configured limit of %d", length, c.opts.maxRecordBytes),
			}
		}

		v, err := c.DecodeMessage(name, buf[pos:pos+length])
		if err != nil {
			var de *DecodeError
			if !errors.As(err, &de) {
				debug.Log(nil, "frame", "record at %d (%s): non-decode error treated as removed: %v", pos, name, err)
			}
			result.Removed = append(result.Removed, RemovedRecord{Message: name, Start: pos, Length: length, Cause: err})
			pos += length
			if !repeated {
				break
			}
			continue
		}

		result.Decoded = append(result.Decoded, DecodedRecord{Message: name, Start: pos, Length: length, Value: v})
		pos += length

		if !repeated {
			break
		}
	}

	debug.Log(nil, "frame", "decoded %d, removed %d, %d bytes walked", len(result.Decoded), len(result.Removed), pos-headerLen)
	return result, nil
}

// EncodeFrameWithCompliantOnly rewrites frameBytes in place, shift-deleting
// every byte range named by removed (as produced by a prior DecodeFrame
// call on the same bytes), and returns the new total length (spec.md §4.7
// "encode_frame_with_compliant_only", §6).
//
// If lengthFieldOffset is non-negative, the 4 bytes at that offset in
// frameBytes are rewritten to the new length in c's endianness — the
// transport or outer frame's length/count field fixup. Pass a negative
// offset if the frame has no such field to fix up.
//
// Decoding the result with DecodeFrame yields exactly the original Decoded
// list and an empty Removed list (spec.md §8 property 10).
func (c *Codec) EncodeFrameWithCompliantOnly(frameBytes []byte, removed []RemovedRecord, lengthFieldOffset int) (int, error) {
	ordered := append([]RemovedRecord(nil), removed...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	newLen := len(frameBytes)
	for _, rm := range ordered {
		newLen = RemoveInPlace(frameBytes[:newLen], rm.Start, rm.Length)
	}

	if lengthFieldOffset >= 0 {
		if err := WriteUint32InPlace(frameBytes[:newLen], lengthFieldOffset, uint32(newLen), c.endian); err != nil {
			return 0, err
		}
	}
	return newLen, nil
}
