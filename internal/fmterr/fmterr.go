// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fmterr formats errors given a position in a file set.
package fmterr

import (
	"fmt"
	"go/ast"
	"go/token"
	"runtime/debug"

	"github.com/pkg/errors"
)

type (
	// ErrorWithPos is an error attached to a position in a source expression.
	ErrorWithPos interface {
		error
		Pos() token.Position
		Err() error
	}

	errorWithPos struct {
		pos token.Position
		err error
	}
)

// Position adds position information to an error.
func Position(fset *token.FileSet, src ast.Node, err error) ErrorWithPos {
	var pos token.Position
	if fset != nil && src != nil {
		// Resolve the position now so that the error does not keep the source alive.
		pos = fset.Position(src.Pos())
	}
	return errorWithPos{pos: pos, err: err}
}

// Errorf returns a formatted error at a position.
func Errorf(fset *token.FileSet, src ast.Node, format string, a ...any) error {
	return Position(fset, src, errors.Errorf(format, a...))
}

// Internal marks an error as internal, that is an error not caused by the input.
func Internal(err error) error {
	return fmt.Errorf("tegraph internal error. This is a bug in tegraph. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error.
func Internalf(format string, a ...any) error {
	return Internal(errors.Errorf(format, a...))
}

// Error returns a string description of the error.
func (err errorWithPos) Error() (s string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s = fmt.Sprintf("recovered from panic when building error message: %T:\n%v", err.err, string(debug.Stack()))
	}()
	if !err.pos.IsValid() {
		return err.err.Error()
	}
	return err.pos.String() + ": " + err.err.Error()
}

// Unwrap the error.
func (err errorWithPos) Unwrap() error {
	return err.err
}

// Pos returns the position of the error.
func (err errorWithPos) Pos() token.Position {
	return err.pos
}

// Err returns the error without position.
func (err errorWithPos) Err() error {
	return err.err
}

// FileSet builds errors for a given file set.
type FileSet struct {
	FSet *token.FileSet
}

// Errorf returns a formatted error at the position of node.
func (f FileSet) Errorf(node ast.Node, format string, a ...any) error {
	return Errorf(f.FSet, node, format, a...)
}

// Position positions an existing error.
func (f FileSet) Position(node ast.Node, err error) error {
	return Position(f.FSet, node, err)
}
