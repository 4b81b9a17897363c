// Copyright 2020-2024 Buf Technologies, Inc.
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

// Package reporter contains the types used for reporting errors encountered
// while lexing, parsing, type-checking, or optimizing a module. It contains
// error types as well as interfaces for reporting and handling errors.
package reporter

import (
	"errors"
	"fmt"

	"github.com/langc/langc/token"
)

// ErrInvalidSource is a sentinel error returned by a compilation phase when
// syntax or semantic errors were encountered but the configured reporter
// always returned nil (i.e. asked to keep going).
var ErrInvalidSource = errors.New("compile failed: invalid source")

// ErrorWithPos is an error anchored to a position in source (spec.md §7: "All
// diagnostics are line-anchored").
//
// The value of Error() contains both the Position and the underlying error.
// Unwrap() returns only the underlying error.
type ErrorWithPos interface {
	error
	GetPosition() token.Position
	Unwrap() error
}

// Error creates an ErrorWithPos wrapping err at pos.
func Error(pos token.Position, err error) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: err}
}

// Errorf creates an ErrorWithPos from a formatted message.
func Errorf(pos token.Position, format string, args ...interface{}) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	underlying error
	pos        token.Position
}

func (e errorWithPos) Error() string {
	return fmt.Sprintf("%s: %v", e.GetPosition(), e.underlying)
}

func (e errorWithPos) GetPosition() token.Position {
	return e.pos
}

func (e errorWithPos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithPos{}
