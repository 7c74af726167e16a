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
	"math"
	"strconv"

	"github.com/gx-org/backend/shape"
	"github.com/gx-org/tegraph/base/stringseq"
	"github.com/gx-org/tegraph/te"
	"github.com/gx-org/tegraph/te/fold"
	"github.com/pkg/errors"
)

// ConstInt returns the value of an integer expression.
// The expression is simplified once if it is not already a literal.
func ConstInt(expr te.Expr) (int64, error) {
	if v, ok := intLiteral(expr); ok {
		return v, nil
	}
	if v, ok := intLiteral(fold.Simplify(expr)); ok {
		return v, nil
	}
	return 0, errors.Wrapf(ErrNotConst, "cannot get const int from %s", exprString(expr))
}

func intLiteral(expr te.Expr) (int64, bool) {
	imm, ok := expr.(*te.IntImm)
	if !ok || imm == nil {
		return 0, false
	}
	return imm.Value, true
}

func exprString(expr te.Expr) string {
	if expr == nil {
		return "<nil>"
	}
	return expr.String()
}

func joinShape(dims []int64) string {
	return "(" + stringseq.Join(stringseq.Map(dims, func(dim int64) string {
		return strconv.FormatInt(dim, 10)
	}), ", ") + ")"
}

func constDims(shape []te.Expr) ([]int64, error) {
	dims := make([]int64, len(shape))
	for i, extent := range shape {
		var err error
		if dims[i], err = ConstInt(extent); err != nil {
			return nil, errors.WithMessagef(err, "dimension %d", i)
		}
	}
	return dims, nil
}

// ShapeString returns the string representation of a static shape, for example "(2, 3, 4)".
func ShapeString(shape []te.Expr) (string, error) {
	dims, err := constDims(shape)
	if err != nil {
		return "", err
	}
	return joinShape(dims), nil
}

// AxisShapeString returns the string representation of the extents of a list of axes.
func AxisShapeString(axes []*te.IterVar) (string, error) {
	extents := make([]te.Expr, len(axes))
	for i, iv := range axes {
		extents[i] = iv.Dom.Extent
	}
	return ShapeString(extents)
}

// ConstShape returns the static shape of a tensor.
func ConstShape(t te.Tensor) (*shape.Shape, error) {
	if t.Op == nil {
		return nil, errors.Errorf("cannot get the shape of a nil tensor")
	}
	dims, err := constDims(t.Shape())
	if err != nil {
		return nil, errors.WithMessagef(err, "tensor %s", t)
	}
	lengths := make([]int, len(dims))
	for i, dim := range dims {
		if dim < 0 || dim > math.MaxInt {
			return nil, errors.Wrapf(ErrNotConst, "tensor %s: dimension %d is not a valid axis length: %d", t, i, dim)
		}
		lengths[i] = int(dim)
	}
	return &shape.Shape{DType: t.DType(), AxisLengths: lengths}, nil
}
