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

import "github.com/pkg/errors"

// Children calls f on each direct child of an expression.
// Reductions yield the domain of their axes first, then their sources
// and finally their condition.
func Children(expr Expr, f func(Expr) error) error {
	switch exprT := expr.(type) {
	case *IntImm, *FloatImm, *StringImm, *Var:
		return nil
	case *BinaryExpr:
		if err := f(exprT.X); err != nil {
			return err
		}
		return f(exprT.Y)
	case *NotExpr:
		return f(exprT.X)
	case *SelectExpr:
		for _, child := range []Expr{exprT.Cond, exprT.True, exprT.False} {
			if err := f(child); err != nil {
				return err
			}
		}
		return nil
	case *CastExpr:
		return f(exprT.X)
	case *CallExpr:
		for _, arg := range exprT.Args {
			if err := f(arg); err != nil {
				return err
			}
		}
		return nil
	case *ReduceExpr:
		for _, iv := range exprT.Axis {
			if err := f(iv.Dom.Min); err != nil {
				return err
			}
			if err := f(iv.Dom.Extent); err != nil {
				return err
			}
		}
		for _, src := range exprT.Source {
			if err := f(src); err != nil {
				return err
			}
		}
		if exprT.Condition == nil {
			return nil
		}
		return f(exprT.Condition)
	default:
		return errors.Errorf("cannot walk expression %T: not supported", expr)
	}
}

// PostOrder calls f on every node of the expression tree,
// children before their parent. A shared sub-expression is visited
// once per reference. The walk stops at the first error returned by f.
func PostOrder(expr Expr, f func(Expr) error) error {
	if expr == nil {
		return nil
	}
	if err := Children(expr, func(child Expr) error {
		return PostOrder(child, f)
	}); err != nil {
		return err
	}
	return f(expr)
}

// PostOrderAll walks a list of expressions in order.
func PostOrderAll(exprs []Expr, f func(Expr) error) error {
	for _, expr := range exprs {
		if err := PostOrder(expr, f); err != nil {
			return err
		}
	}
	return nil
}
