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

//go:build debug

// Package debug includes debugging helpers compiled only when the "debug"
// build tag is set. None of this package's behavior is part of the codec's
// contract; it exists purely to make development builds easier to trace.
package debug

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync/atomic"
)

// Enabled is true when the binary was built with the debug tag.
const Enabled = true

// Logger receives captured debug log lines; satisfied by *testing.T/B.
type Logger interface {
	Log(args ...any)
}

var activeLogger atomic.Pointer[Logger]

// Capture redirects debug log output to l (typically a *testing.T) until the
// returned func is called to restore stderr output.
func Capture(l Logger) (release func()) {
	activeLogger.Store(&l)
	return func() { activeLogger.Store(nil) }
}

var (
	debugPattern *regexp.Regexp
	nocapture    = flag.Bool("asterixcodec.nocapture", false, "print debug logs to stderr instead of the test log")
)

func init() {
	flag.Func("asterixcodec.filter", "regexp to filter debug logs by", func(s string) (err error) {
		debugPattern, err = regexp.Compile(s)
		return err
	})
}

// Log prints debugging information to stderr (or the active test's log, if
// one has been registered with [Capture]).
//
// context is optional args for a leading fmt.Printf applied before operation,
// used to tag a family of related log lines.
func Log(context []any, operation string, format string, args ...any) {
	skip := 1
again:
	pc, file, line, _ := runtime.Caller(skip)
	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	if strings.HasPrefix(name, "log") || strings.Contains(name, "Log") {
		skip++
		goto again
	}

	pkg := fn.Name()
	pkg = strings.TrimPrefix(pkg, "github.com/skytrace/asterixcodec/")
	if idx := strings.Index(pkg, "."); idx >= 0 {
		pkg = pkg[:idx]
	}
	file = filepath.Base(file)

	buf := new(strings.Builder)
	fmt.Fprintf(buf, "%s/%s:%d", pkg, file, line)
	if len(context) >= 1 {
		fmt.Fprintf(buf, ", "+context[0].(string), context[1:]...)
	}
	fmt.Fprintf(buf, "] %s: ", operation)
	fmt.Fprintf(buf, format, args...)

	if debugPattern != nil && !debugPattern.MatchString(buf.String()) {
		return
	}

	if t := activeLogger.Load(); t != nil && !*nocapture {
		(*t).Log(buf.String())
		return
	}

	buf.WriteByte('\n')
	os.Stderr.WriteString(buf.String())
}

// Assert panics if cond is false. Only compiled in debug builds; release
// builds never pay for the check.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("asterixcodec: internal assertion failed: "+format, args...))
	}
}

// Value is a value of any type that only exists when the debug tag is
// enabled. When disabled, this struct is replaced with an empty struct (see
// release.go) so it costs nothing in release builds.
type Value[T any] struct {
	x T
}

// Get returns a pointer to this value.
func (v *Value[T]) Get() *T { return &v.x }
