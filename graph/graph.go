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

// Package graph extracts structural facts from tensor expression graphs.
//
// The queries of this package are used to drive scheduling decisions:
// which axes of an operation behave like a batch dimension, which
// axes can be fused with the dimensions of weights, how many operations
// of each category a body computes, and in which order the operations
// of a graph need to be computed.
//
// All queries are read-only: they never modify the graph and only keep
// state local to a single call. Queries on disjoint or shared immutable
// graphs can be run concurrently.
package graph

import (
	"github.com/gx-org/tegraph/te"
	"github.com/pkg/errors"
)

var (
	// ErrNotCompute is returned when a query requires a compute operation.
	ErrNotCompute = errors.New("not a compute operation")
	// ErrBodySize is returned when the body of an operation has an unexpected number of expressions.
	ErrBodySize = errors.New("unexpected number of body expressions")
	// ErrIntrinsicNotImplemented is returned when an intrinsic cannot be classified.
	ErrIntrinsicNotImplemented = errors.New("derivative of this intrinsic is not implemented")
	// ErrNotConst is returned when an expression cannot be folded into an integer.
	ErrNotConst = errors.New("not a constant integer")
	// ErrCycle is returned when the operation graph has a cycle.
	ErrCycle = errors.New("cycle in the operation graph")
)

func opName(op te.Operation) string {
	if op == nil {
		return "<nil operation>"
	}
	return op.Name()
}

func computeOp(op te.Operation) (*te.ComputeOp, error) {
	cop, ok := op.(*te.ComputeOp)
	if !ok || cop == nil {
		return nil, errors.Wrapf(ErrNotCompute, "operation %s", opName(op))
	}
	return cop, nil
}

// axisIndex maps the variables of a list of axes to their position in the list.
type axisIndex struct {
	pos map[te.ID][]int
	n   int
}

func newAxisIndex(vars []*te.Var) axisIndex {
	ax := axisIndex{pos: make(map[te.ID][]int), n: len(vars)}
	for i, v := range vars {
		ax.pos[v.ID()] = append(ax.pos[v.ID()], i)
	}
	return ax
}

// scan calls f for every argument of a call that is one of the axes,
// with the position of the axis and the position of the argument.
// Arguments are matched by variable identity: expressions using a variable
// (such as i+1) do not match.
func (ax axisIndex) scan(call *te.CallExpr, f func(axis, argPos int)) {
	for argPos, arg := range call.Args {
		v, ok := arg.(*te.Var)
		if !ok {
			continue
		}
		for _, axis := range ax.pos[v.ID()] {
			f(axis, argPos)
		}
	}
}

// tensorRead returns the call if expr reads a tensor.
func tensorRead(expr te.Expr) (*te.CallExpr, bool) {
	call, ok := expr.(*te.CallExpr)
	if !ok || call.CallType != te.TensorRead {
		return nil, false
	}
	return call, true
}
