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
	"github.com/gx-org/tegraph/te"
	"github.com/pkg/errors"
)

// OpFeatures are the structural features of a compute operation used to schedule it.
type OpFeatures struct {
	// Name of the operation.
	Name string
	// Shape of the output, as returned by ShapeString.
	Shape string
	// BatchLikeDims are the positions of the batch-like axes.
	BatchLikeDims []int
	// FusibleDims are the axes fusible with the weights.
	// Only computed for operations with a single body expression.
	FusibleDims []DimPair
	// Counts of the operations computed by the body.
	Counts OpCounts
	// Inputs are the tensors read by the operation.
	Inputs []te.Tensor
	// InputOccur is the number of reads of each input.
	InputOccur []int
}

// Features returns the structural features of the operation computing out.
func Features(out te.Tensor, weights []te.Tensor) (*OpFeatures, error) {
	cop, err := computeOp(out.Op)
	if err != nil {
		return nil, err
	}
	shape, err := ShapeString(out.Shape())
	if err != nil {
		return nil, err
	}
	feats := &OpFeatures{
		Name:   cop.Name(),
		Shape:  shape,
		Inputs: cop.InputTensors(),
	}
	if feats.BatchLikeDims, err = BatchLikeDims(out); err != nil {
		return nil, err
	}
	if len(cop.Body) == 1 {
		if feats.FusibleDims, err = FusibleDims(out, weights); err != nil {
			return nil, err
		}
	}
	if feats.Counts, err = CountOperation(cop); err != nil {
		return nil, err
	}
	if feats.InputOccur, err = CountInputOccur(feats.Inputs, cop); err != nil {
		return nil, errors.WithMessagef(err, "operation %s", cop.Name())
	}
	return feats, nil
}
