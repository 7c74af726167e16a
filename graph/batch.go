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

import "github.com/gx-org/tegraph/te"

// batchLikeDimFinder records, for each axis, the argument positions
// at which the axis variable is used alone to read a tensor.
type batchLikeDimFinder struct {
	axes axisIndex
	// records is nil until the first tensor read is visited.
	records [][]int
}

func (f *batchLikeDimFinder) visit(expr te.Expr) error {
	call, ok := tensorRead(expr)
	if !ok {
		return nil
	}
	if f.records == nil {
		f.records = make([][]int, f.axes.n)
	}
	f.axes.scan(call, func(axis, argPos int) {
		f.records[axis] = append(f.records[axis], argPos)
	})
	return nil
}

// BatchLikeDims returns the axes of a compute operation output that behave
// like a batch dimension. An axis is batch-like if the body reads no tensor
// or if the axis is used alone as an index of at least one tensor read.
// An axis only used inside index expressions (e.g. i+k) is not batch-like.
// Axes are returned in increasing order.
func BatchLikeDims(out te.Tensor) ([]int, error) {
	op, err := computeOp(out.Op)
	if err != nil {
		return nil, err
	}
	isBatch := make([]bool, len(op.Axis))
	for i := range isBatch {
		isBatch[i] = true
	}
	axes := newAxisIndex(te.Vars(op.Axis))
	for _, body := range op.Body {
		finder := &batchLikeDimFinder{axes: axes}
		if err := te.PostOrder(body, finder.visit); err != nil {
			return nil, err
		}
		for axis, positions := range finder.records {
			if len(positions) == 0 {
				isBatch[axis] = false
			}
		}
	}
	var dims []int
	for axis, batch := range isBatch {
		if batch {
			dims = append(dims, axis)
		}
	}
	return dims, nil
}
