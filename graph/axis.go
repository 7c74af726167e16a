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
	"github.com/gx-org/tegraph/base/ordered"
	"github.com/gx-org/tegraph/te"
)

// axisPositionFinder records the argument positions of axes in the reads of a tensor.
type axisPositionFinder struct {
	axes   axisIndex
	tensor te.Tensor
	// positions in the order in which they are first seen.
	positions *ordered.Set[int]
}

func (f *axisPositionFinder) visit(expr te.Expr) error {
	call, ok := tensorRead(expr)
	if !ok || !call.Reads(f.tensor.Op) {
		return nil
	}
	f.axes.scan(call, func(_, argPos int) {
		f.positions.Add(argPos)
	})
	return nil
}

// FindAxisIn returns the distinct argument positions at which any of the axes
// is used to read tensor in the body of out. Positions are returned in the order
// in which they are first seen in a post-order walk of the body.
func FindAxisIn(axes []*te.IterVar, tensor, out te.Tensor) ([]int, error) {
	op, err := computeOp(out.Op)
	if err != nil {
		return nil, err
	}
	finder := &axisPositionFinder{
		axes:      newAxisIndex(te.Vars(axes)),
		tensor:    tensor,
		positions: ordered.NewSet[int](),
	}
	if err := te.PostOrderAll(op.Body, finder.visit); err != nil {
		return nil, err
	}
	if finder.positions.Size() == 0 {
		return nil, nil
	}
	return finder.positions.Slice(), nil
}
