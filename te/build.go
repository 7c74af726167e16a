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

package te

import (
	"fmt"

	"github.com/gx-org/backend/dtype"
)

// Int returns a 64-bit integer literal.
func Int(v int64) *IntImm {
	return &IntImm{Value: v, DType: dtype.Int64}
}

// Ints returns integer literals.
func Ints(vals ...int) []Expr {
	exprs := make([]Expr, len(vals))
	for i, val := range vals {
		exprs[i] = Int(int64(val))
	}
	return exprs
}

// Bool returns a boolean literal.
func Bool(b bool) *IntImm {
	var v int64
	if b {
		v = 1
	}
	return &IntImm{Value: v, DType: dtype.Bool}
}

// Float returns a 32-bit floating point literal.
func Float(v float64) *FloatImm {
	return &FloatImm{Value: v, DType: dtype.Float32}
}

// Str returns a string literal.
func Str(s string) *StringImm {
	return &StringImm{Value: s}
}

// Binary returns a binary expression.
func Binary(op Kind, x, y Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, X: x, Y: y}
}

// Add returns x+y.
func Add(x, y Expr) *BinaryExpr { return Binary(AddKind, x, y) }

// Sub returns x-y.
func Sub(x, y Expr) *BinaryExpr { return Binary(SubKind, x, y) }

// Mul returns x*y.
func Mul(x, y Expr) *BinaryExpr { return Binary(MulKind, x, y) }

// Div returns x/y.
func Div(x, y Expr) *BinaryExpr { return Binary(DivKind, x, y) }

// FloorDiv returns floor(x/y).
func FloorDiv(x, y Expr) *BinaryExpr { return Binary(FloorDivKind, x, y) }

// Mod returns x%y.
func Mod(x, y Expr) *BinaryExpr { return Binary(ModKind, x, y) }

// FloorMod returns x-floor(x/y)*y.
func FloorMod(x, y Expr) *BinaryExpr { return Binary(FloorModKind, x, y) }

// Min returns the minimum of x and y.
func Min(x, y Expr) *BinaryExpr { return Binary(MinKind, x, y) }

// Max returns the maximum of x and y.
func Max(x, y Expr) *BinaryExpr { return Binary(MaxKind, x, y) }

// EQ returns x==y.
func EQ(x, y Expr) *BinaryExpr { return Binary(EQKind, x, y) }

// NE returns x!=y.
func NE(x, y Expr) *BinaryExpr { return Binary(NEKind, x, y) }

// LT returns x<y.
func LT(x, y Expr) *BinaryExpr { return Binary(LTKind, x, y) }

// LE returns x<=y.
func LE(x, y Expr) *BinaryExpr { return Binary(LEKind, x, y) }

// GT returns x>y.
func GT(x, y Expr) *BinaryExpr { return Binary(GTKind, x, y) }

// GE returns x>=y.
func GE(x, y Expr) *BinaryExpr { return Binary(GEKind, x, y) }

// And returns x&&y.
func And(x, y Expr) *BinaryExpr { return Binary(AndKind, x, y) }

// Or returns x||y.
func Or(x, y Expr) *BinaryExpr { return Binary(OrKind, x, y) }

// Not returns !x.
func Not(x Expr) *NotExpr { return &NotExpr{X: x} }

// Select returns a select expression.
func Select(cond, t, f Expr) *SelectExpr {
	return &SelectExpr{Cond: cond, True: t, False: f}
}

// Cast returns x converted to dt.
func Cast(dt dtype.DataType, x Expr) *CastExpr {
	return &CastExpr{DType: dt, X: x}
}

// Intrinsic returns a call to a pure intrinsic.
func Intrinsic(name string, args ...Expr) *CallExpr {
	return &CallExpr{CallType: PureIntrinsic, Name: name, Args: args}
}

// NewIterVar returns an iteration variable ranging over [0, extent).
func NewIterVar(name string, extent Expr, typ IterType) *IterVar {
	return &IterVar{
		Var:  NewVar(name),
		Dom:  Range{Min: Int(0), Extent: extent},
		Type: typ,
	}
}

// ReduceAxis returns a new reduction axis ranging over [0, extent).
func ReduceAxis(name string, extent int) *IterVar {
	return NewIterVar(name, Int(int64(extent)), CommReduce)
}

// Reduce returns a reduction of src over axes.
// cond can be nil to reduce over the whole domain.
func Reduce(comb Combiner, src, cond Expr, axes ...*IterVar) *ReduceExpr {
	return &ReduceExpr{
		Combiner:  comb,
		Source:    []Expr{src},
		Axis:      axes,
		Condition: cond,
	}
}

// Sum returns the sum of src over axes.
func Sum(src Expr, axes ...*IterVar) *ReduceExpr {
	return Reduce(SumCombiner, src, nil, axes...)
}

// Placeholder returns the output of a new input operation.
func Placeholder(name string, dt dtype.DataType, shape ...int) Tensor {
	return NewPlaceholderOp(name, dt, Ints(shape...)).Output(0)
}

var defaultAxisNames = []string{"i", "j", "k", "l", "m", "n"}

func axisName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	if i < len(defaultAxisNames) {
		return defaultAxisNames[i]
	}
	return fmt.Sprintf("ax%d", i)
}

// ComputeN returns a compute operation with one data parallel axis per dimension of shape.
// The reduction axes of the operation are the axes reduced in the body.
func ComputeN(name string, dt dtype.DataType, shape []Expr, axisNames []string, body func(...*Var) []Expr) *ComputeOp {
	axes := make([]*IterVar, len(shape))
	for i, extent := range shape {
		axes[i] = NewIterVar(axisName(axisNames, i), extent, DataPar)
	}
	exprs := body(Vars(axes)...)
	return NewComputeOp(name, dt, axes, reduceAxes(exprs), exprs)
}

// Compute returns the output of a compute operation with a single expression body.
func Compute(name string, dt dtype.DataType, shape []Expr, axisNames []string, body func(...*Var) Expr) Tensor {
	return ComputeN(name, dt, shape, axisNames, func(vars ...*Var) []Expr {
		return []Expr{body(vars...)}
	}).Output(0)
}

func reduceAxes(body []Expr) []*IterVar {
	var axes []*IterVar
	seen := make(map[*IterVar]bool)
	// The callback never fails.
	_ = PostOrderAll(body, func(expr Expr) error {
		red, ok := expr.(*ReduceExpr)
		if !ok {
			return nil
		}
		for _, iv := range red.Axis {
			if !seen[iv] {
				seen[iv] = true
				axes = append(axes, iv)
			}
		}
		return nil
	})
	return axes
}
