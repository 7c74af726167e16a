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

package graph

import (
	"fmt"

	"github.com/gx-org/tegraph/te"
	"github.com/pkg/errors"
)

// DimPair pairs an axis of an output with a dimension of a weight.
type DimPair struct {
	// Axis is the position of the axis in the output.
	Axis int
	// WeightPos is the argument position of the axis when the weight is read.
	WeightPos int
}

// String representation.
func (p DimPair) String() string {
	return fmt.Sprintf("(%d, %d)", p.Axis, p.WeightPos)
}

type weightPos struct {
	found bool
	pos   int
}

// fusibleDimFinder records where the axes of an output are used to read
// weights and whether they are used to read other tensors.
type fusibleDimFinder struct {
	axes     axisIndex
	weights  []te.Tensor
	inWeight []weightPos
	inInput  []bool
}

func newFusibleDimFinder(axes axisIndex, weights []te.Tensor) *fusibleDimFinder {
	return &fusibleDimFinder{
		axes:     axes,
		weights:  weights,
		inWeight: make([]weightPos, axes.n),
		inInput:  make([]bool, axes.n),
	}
}

func (f *fusibleDimFinder) isWeight(call *te.CallExpr) bool {
	for _, w := range f.weights {
		if call.Reads(w.Op) {
			return true
		}
	}
	return false
}

func (f *fusibleDimFinder) visit(expr te.Expr) error {
	call, ok := tensorRead(expr)
	if !ok {
		return nil
	}
	isWeight := f.isWeight(call)
	f.axes.scan(call, func(axis, argPos int) {
		if isWeight {
			// The last read visited wins.
			f.inWeight[axis] = weightPos{found: true, pos: argPos}
		} else {
			f.inInput[axis] = true
		}
	})
	return nil
}

// FusibleDims returns the axes of a compute output that can be fused with
// a dimension of one of the weights. An axis is fusible if it is used alone
// to index a weight and never used alone to index a tensor that is not a weight.
// If an axis indexes weights at different positions, the position of the last
// read in post-order is returned.
//
// The body of the operation must have exactly one expression.
func FusibleDims(out te.Tensor, weights []te.Tensor) ([]DimPair, error) {
	op, err := computeOp(out.Op)
	if err != nil {
		return nil, err
	}
	if len(op.Body) != 1 {
		return nil, errors.Wrapf(ErrBodySize, "operation %s has %d body expressions but want 1", op.Name(), len(op.Body))
	}
	finder := newFusibleDimFinder(newAxisIndex(te.Vars(op.Axis)), weights)
	if err := te.PostOrder(op.Body[0], finder.visit); err != nil {
		return nil, err
	}
	var pairs []DimPair
	for axis, w := range finder.inWeight {
		if w.found && !finder.inInput[axis] {
			pairs = append(pairs, DimPair{Axis: axis, WeightPos: w.pos})
		}
	}
	return pairs, nil
}
