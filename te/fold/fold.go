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

// Package fold folds constant sub-expressions of tensor expressions.
package fold

import (
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tegraph/te"
	"golang.org/x/exp/constraints"
)

// Simplify returns an expression where integer literal sub-expressions have been folded.
// Sub-trees that cannot be simplified are returned unchanged, so that the identity
// of their nodes is preserved.
func Simplify(expr te.Expr) te.Expr {
	switch exprT := expr.(type) {
	case *te.BinaryExpr:
		return simplifyBinary(exprT)
	case *te.NotExpr:
		x := Simplify(exprT.X)
		if lit, ok := x.(*te.IntImm); ok {
			return te.Bool(lit.Value == 0)
		}
		if x == exprT.X {
			return exprT
		}
		return te.Not(x)
	case *te.SelectExpr:
		cond := Simplify(exprT.Cond)
		if lit, ok := cond.(*te.IntImm); ok {
			if lit.Value != 0 {
				return Simplify(exprT.True)
			}
			return Simplify(exprT.False)
		}
		t, f := Simplify(exprT.True), Simplify(exprT.False)
		if cond == exprT.Cond && t == exprT.True && f == exprT.False {
			return exprT
		}
		return te.Select(cond, t, f)
	case *te.CastExpr:
		return simplifyCast(exprT)
	case *te.CallExpr:
		args, changed := simplifyAll(exprT.Args)
		if !changed {
			return exprT
		}
		call := *exprT
		call.Args = args
		return &call
	case *te.ReduceExpr:
		src, changed := simplifyAll(exprT.Source)
		cond := exprT.Condition
		if cond != nil {
			cond = Simplify(cond)
		}
		if !changed && cond == exprT.Condition {
			return exprT
		}
		red := *exprT
		red.Source = src
		red.Condition = cond
		return &red
	default:
		return expr
	}
}

func simplifyAll(exprs []te.Expr) ([]te.Expr, bool) {
	changed := false
	out := make([]te.Expr, len(exprs))
	for i, expr := range exprs {
		out[i] = Simplify(expr)
		changed = changed || out[i] != expr
	}
	return out, changed
}

func isLiteral(expr te.Expr, val int64) bool {
	lit, ok := expr.(*te.IntImm)
	return ok && lit.Value == val && lit.DType != dtype.Bool
}

func simplifyBinary(expr *te.BinaryExpr) te.Expr {
	x, y := Simplify(expr.X), Simplify(expr.Y)
	litX, okX := x.(*te.IntImm)
	litY, okY := y.(*te.IntImm)
	if okX && okY {
		if folded, ok := foldBinary(expr.Op, litX, litY); ok {
			return folded
		}
	}
	switch expr.Op {
	case te.AddKind:
		if isLiteral(y, 0) {
			return x
		}
		if isLiteral(x, 0) {
			return y
		}
	case te.SubKind:
		if isLiteral(y, 0) {
			return x
		}
	case te.MulKind:
		if isLiteral(y, 1) {
			return x
		}
		if isLiteral(x, 1) {
			return y
		}
		if isLiteral(x, 0) {
			return x
		}
		if isLiteral(y, 0) {
			return y
		}
	}
	if x == expr.X && y == expr.Y {
		return expr
	}
	return te.Binary(expr.Op, x, y)
}

func foldBinary(op te.Kind, x, y *te.IntImm) (*te.IntImm, bool) {
	dt := x.DType
	if op.IsComparison() {
		var val, ok bool
		switch dt {
		case dtype.Uint32:
			val, ok = compare(op, uint32(x.Value), uint32(y.Value))
		case dtype.Uint64:
			val, ok = compare(op, uint64(x.Value), uint64(y.Value))
		default:
			val, ok = compare(op, x.Value, y.Value)
		}
		if !ok {
			return nil, false
		}
		return te.Bool(val), true
	}
	var val int64
	var ok bool
	switch dt {
	case dtype.Bool:
		val, ok = logic(op, x.Value != 0, y.Value != 0)
		if !ok {
			return nil, false
		}
		return te.Bool(val != 0), true
	case dtype.Int32:
		var v int32
		v, ok = arith(op, int32(x.Value), int32(y.Value))
		val = int64(v)
	case dtype.Uint32:
		var v uint32
		v, ok = arith(op, uint32(x.Value), uint32(y.Value))
		val = int64(v)
	case dtype.Uint64:
		var v uint64
		v, ok = arith(op, uint64(x.Value), uint64(y.Value))
		val = int64(v)
	default:
		val, ok = arith(op, x.Value, y.Value)
	}
	if !ok {
		return nil, false
	}
	return &te.IntImm{Value: val, DType: dt}, true
}

func arith[T constraints.Integer](op te.Kind, x, y T) (T, bool) {
	switch op {
	case te.AddKind:
		return x + y, true
	case te.SubKind:
		return x - y, true
	case te.MulKind:
		return x * y, true
	case te.DivKind:
		if y == 0 {
			return 0, false
		}
		return x / y, true
	case te.ModKind:
		if y == 0 {
			return 0, false
		}
		return x % y, true
	case te.FloorDivKind:
		if y == 0 {
			return 0, false
		}
		return floorDiv(x, y), true
	case te.FloorModKind:
		if y == 0 {
			return 0, false
		}
		return x - floorDiv(x, y)*y, true
	case te.MinKind:
		return min(x, y), true
	case te.MaxKind:
		return max(x, y), true
	}
	return 0, false
}

func floorDiv[T constraints.Integer](x, y T) T {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return q
}

func compare[T constraints.Integer](op te.Kind, x, y T) (bool, bool) {
	switch op {
	case te.EQKind:
		return x == y, true
	case te.NEKind:
		return x != y, true
	case te.LTKind:
		return x < y, true
	case te.LEKind:
		return x <= y, true
	case te.GTKind:
		return x > y, true
	case te.GEKind:
		return x >= y, true
	}
	return false, false
}

func logic(op te.Kind, x, y bool) (int64, bool) {
	var val bool
	switch op {
	case te.AndKind:
		val = x && y
	case te.OrKind:
		val = x || y
	default:
		return 0, false
	}
	if val {
		return 1, true
	}
	return 0, true
}

func simplifyCast(expr *te.CastExpr) te.Expr {
	x := Simplify(expr.X)
	var val int64
	switch xT := x.(type) {
	case *te.IntImm:
		val = xT.Value
	case *te.FloatImm:
		val = int64(xT.Value)
		if !te.IsIntegerDType(expr.DType) && expr.DType != dtype.Bool {
			return &te.FloatImm{Value: xT.Value, DType: expr.DType}
		}
	default:
		if x == expr.X {
			return expr
		}
		return te.Cast(expr.DType, x)
	}
	switch expr.DType {
	case dtype.Bool:
		return te.Bool(val != 0)
	case dtype.Int32:
		val = int64(int32(val))
	case dtype.Uint32:
		val = int64(uint32(val))
	case dtype.Int64, dtype.Uint64:
	default:
		return &te.FloatImm{Value: float64(val), DType: expr.DType}
	}
	return &te.IntImm{Value: val, DType: expr.DType}
}
