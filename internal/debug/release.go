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

//go:build !debug

// Package debug includes debugging helpers compiled only when the "debug"
// build tag is set. This file supplies the no-op release build so callers
// never need their own build tags.
package debug

// Enabled is true when the binary was built with the debug tag.
const Enabled = false

// Log is a no-op in release builds.
func Log(context []any, operation string, format string, args ...any) {}

// Assert is a no-op in release builds.
func Assert(cond bool, format string, args ...any) {}

// Value is the zero-size release-build counterpart to the debug [Value].
type Value[T any] struct{}

// Get panics: debug-only values don't exist in release builds. Call sites
// must guard access with Enabled.
func (v *Value[T]) Get() *T {
	panic("asterixcodec: debug.Value accessed in a release build")
}
