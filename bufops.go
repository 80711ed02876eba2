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

import "github.com/skytrace/asterixcodec/internal/bitio"

// RemoveInPlace shift-deletes the length bytes starting at start from buf,
// copying buf[start+length:] down to buf[start:], and returns the new
// logical length (spec.md §4.8). It does not resize or truncate buf itself
// — the caller truncates with buf = buf[:newLen] once it is done removing
// ranges, which is also why [Codec.EncodeFrameWithCompliantOnly] applies
// multiple removals highest-offset-first: earlier offsets stay valid
// exactly because nothing before them has shifted yet.
func RemoveInPlace(buf []byte, start, length int) int {
	if length <= 0 || start < 0 || start+length > len(buf) {
		return len(buf)
	}
	copy(buf[start:], buf[start+length:])
	return len(buf) - length
}

// WriteUint32InPlace overwrites the 4 bytes at offset with value in e's
// byte order (spec.md §4.8). Used to fix up a transport or frame length
// field after [Codec.EncodeFrameWithCompliantOnly] has shrunk the buffer.
func WriteUint32InPlace(buf []byte, offset int, value uint32, e Endianness) error {
	if offset < 0 || offset+4 > len(buf) {
		return bitio.ErrShortBuffer
	}
	b := buf[offset : offset+4]
	if e == LittleEndian {
		b[0] = byte(value)
		b[1] = byte(value >> 8)
		b[2] = byte(value >> 16)
		b[3] = byte(value >> 24)
		return nil
	}
	b[0] = byte(value >> 24)
	b[1] = byte(value >> 16)
	b[2] = byte(value >> 8)
	b[3] = byte(value)
	return nil
}
