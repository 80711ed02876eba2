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

// ParseError is a positional syntax error raised while lexing or parsing
// DSL source text (spec.md §6).
type ParseError struct {
	Line, Col int
	Expected  string
	Got       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dsl: %d:%d: expected %s, got %q", e.Line, e.Col, e.Expected, e.Got)
}
