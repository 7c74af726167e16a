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


package tefile

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/gx-org/tegraph/internal/base/scope"
	"github.com/gx-org/tegraph/internal/fmterr"
	"github.com/gx-org/tegraph/te"
	"github.com/pkg/errors"
)

var binaryOps = map[token.Token]te.Kind{
	token.ADD:  te.AddKind,
	token.SUB:  te.SubKind,
	token.MUL:  te.MulKind,
	token.QUO:  te.DivKind,
	token.REM:  te.ModKind,
	token.EQL:  te.EQKind,
	token.NEQ:  te.NEKind,
	token.LSS:  te.LTKind,
	token.LEQ:  te.LEKind,
	token.GTR:  te.GTKind,
	token.GEQ:  te.GEKind,
	token.LAND: te.AndKind,
	token.LOR:  te.OrKind,
}

var binaryFuncs = map[string]te.Kind{
	"floordiv": te.FloorDivKind,
	"floormod": te.FloorModKind,
	"min":      te.MinKind,
	"max":      te.MaxKind,
}

var combiners = map[string]te.Combiner{
	"sum":  te.SumCombiner,
	"prod": te.ProdCombiner,
	"min":  te.MinCombiner,
	"max":  te.MaxCombiner,
}

// exprScope resolves the identifiers of an expression.
type exprScope struct {
	ops     *scope.Scope[te.Operation]
	axes    *scope.Scope[*te.IterVar]
	reduced map[*te.IterVar]bool
}

func newExprScope(ops *scope.Scope[te.Operation]) *exprScope {
	return &exprScope{
		ops:     ops,
		axes:    scope.New[*te.IterVar](nil),
		reduced: make(map[*te.IterVar]bool),
	}
}

// converter converts Go expressions into tensor expressions.
type converter struct {
	fmterr.FileSet
	scope *exprScope
}

// parseExpr parses the source of an expression. name is used as the file name in errors.
func (c *converter) parseExpr(name, src string) (te.Expr, error) {
	node, err := parser.ParseExprFrom(c.FSet, name, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return c.expr(node)
}

func (c *converter) exprs(nodes []ast.Expr) ([]te.Expr, error) {
	exprs := make([]te.Expr, len(nodes))
	for i, node := range nodes {
		var err error
		if exprs[i], err = c.expr(node); err != nil {
			return nil, err
		}
	}
	return exprs, nil
}

func (c *converter) expr(node ast.Expr) (te.Expr, error) {
	switch nodeT := node.(type) {
	case *ast.ParenExpr:
		return c.expr(nodeT.X)
	case *ast.BasicLit:
		return c.basicLit(nodeT)
	case *ast.Ident:
		return c.ident(nodeT)
	case *ast.UnaryExpr:
		return c.unary(nodeT)
	case *ast.BinaryExpr:
		return c.binary(nodeT)
	case *ast.IndexExpr:
		return c.tensorRead(nodeT, nodeT.X, []ast.Expr{nodeT.Index})
	case *ast.IndexListExpr:
		return c.tensorRead(nodeT, nodeT.X, nodeT.Indices)
	case *ast.CallExpr:
		return c.call(nodeT)
	default:
		return nil, c.Errorf(node, "expression %T not supported", node)
	}
}

func (c *converter) basicLit(lit *ast.BasicLit) (te.Expr, error) {
	switch lit.Kind {
	case token.INT:
		val, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return nil, c.Position(lit, errors.WithStack(err))
		}
		return te.Int(val), nil
	case token.FLOAT:
		val, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return nil, c.Position(lit, errors.WithStack(err))
		}
		return te.Float(val), nil
	case token.STRING:
		val, err := strconv.Unquote(lit.Value)
		if err != nil {
			return nil, c.Position(lit, errors.WithStack(err))
		}
		return te.Str(val), nil
	}
	return nil, c.Errorf(lit, "literal %s not supported", lit.Value)
}

func (c *converter) ident(id *ast.Ident) (te.Expr, error) {
	switch id.Name {
	case "true":
		return te.Bool(true), nil
	case "false":
		return te.Bool(false), nil
	}
	if iv, ok := c.scope.axes.Find(id.Name); ok {
		return iv.Var, nil
	}
	if _, ok := c.scope.ops.Find(id.Name); ok {
		return nil, c.Errorf(id, "tensor %s used without indices", id.Name)
	}
	return nil, c.Errorf(id, "undefined: %s", id.Name)
}

func (c *converter) unary(expr *ast.UnaryExpr) (te.Expr, error) {
	x, err := c.expr(expr.X)
	if err != nil {
		return nil, err
	}
	switch expr.Op {
	case token.NOT:
		return te.Not(x), nil
	case token.ADD:
		return x, nil
	case token.SUB:
		switch xT := x.(type) {
		case *te.IntImm:
			return &te.IntImm{Value: -xT.Value, DType: xT.DType}, nil
		case *te.FloatImm:
			return &te.FloatImm{Value: -xT.Value, DType: xT.DType}, nil
		}
		return te.Sub(te.Int(0), x), nil
	}
	return nil, c.Errorf(expr, "unary operator %s not supported", expr.Op)
}

func (c *converter) binary(expr *ast.BinaryExpr) (te.Expr, error) {
	op, ok := binaryOps[expr.Op]
	if !ok {
		return nil, c.Errorf(expr, "binary operator %s not supported", expr.Op)
	}
	x, err := c.expr(expr.X)
	if err != nil {
		return nil, err
	}
	y, err := c.expr(expr.Y)
	if err != nil {
		return nil, err
	}
	return te.Binary(op, x, y), nil
}

// tensor returns the tensor referenced by an expression: T for the first output of T,
// T.vN for the Nth output.
func (c *converter) tensor(node ast.Expr) (te.Tensor, error) {
	switch nodeT := node.(type) {
	case *ast.Ident:
		op, ok := c.scope.ops.Find(nodeT.Name)
		if !ok {
			return te.Tensor{}, c.Errorf(nodeT, "tensor %s undefined", nodeT.Name)
		}
		return op.Output(0), nil
	case *ast.SelectorExpr:
		id, ok := nodeT.X.(*ast.Ident)
		if !ok {
			return te.Tensor{}, c.Errorf(nodeT, "invalid tensor reference")
		}
		op, ok := c.scope.ops.Find(id.Name)
		if !ok {
			return te.Tensor{}, c.Errorf(id, "tensor %s undefined", id.Name)
		}
		index, ok := valueIndex(nodeT.Sel.Name)
		if !ok || index >= op.NumOutputs() {
			return te.Tensor{}, c.Errorf(nodeT.Sel, "operation %s has no output %s", id.Name, nodeT.Sel.Name)
		}
		return op.Output(index), nil
	}
	return te.Tensor{}, c.Errorf(node, "invalid tensor reference")
}

func valueIndex(sel string) (int, bool) {
	digits, ok := strings.CutPrefix(sel, "v")
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(digits)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func (c *converter) tensorRead(node, x ast.Expr, indices []ast.Expr) (te.Expr, error) {
	t, err := c.tensor(x)
	if err != nil {
		return nil, err
	}
	if rank := len(t.Shape()); rank != len(indices) {
		return nil, c.Errorf(node, "tensor %s has rank %d but is read with %d indices", t, rank, len(indices))
	}
	args, err := c.exprs(indices)
	if err != nil {
		return nil, err
	}
	return t.At(args...), nil
}

func (c *converter) checkArgs(call *ast.CallExpr, name string, want int) error {
	if len(call.Args) != want {
		return c.Errorf(call, "%s expects %d arguments but got %d", name, want, len(call.Args))
	}
	return nil
}

func (c *converter) call(call *ast.CallExpr) (te.Expr, error) {
	id, ok := call.Fun.(*ast.Ident)
	if !ok {
		return nil, c.Errorf(call.Fun, "function %T not supported", call.Fun)
	}
	if comb, ok := combiners[id.Name]; ok && c.isReduction(id.Name, call) {
		return c.reduce(comb, call)
	}
	if dt, ok := te.ParseDType(id.Name); ok {
		if err := c.checkArgs(call, id.Name, 1); err != nil {
			return nil, err
		}
		x, err := c.expr(call.Args[0])
		if err != nil {
			return nil, err
		}
		return te.Cast(dt, x), nil
	}
	args, err := c.exprs(call.Args)
	if err != nil {
		return nil, err
	}
	if op, ok := binaryFuncs[id.Name]; ok {
		if err := c.checkArgs(call, id.Name, 2); err != nil {
			return nil, err
		}
		return te.Binary(op, args[0], args[1]), nil
	}
	if id.Name == "select" {
		if err := c.checkArgs(call, id.Name, 3); err != nil {
			return nil, err
		}
		return te.Select(args[0], args[1], args[2]), nil
	}
	return te.Intrinsic(id.Name, args...), nil
}

// reduceAxis returns the reduction axis named by an expression.
func (c *converter) reduceAxis(node ast.Expr) (*te.IterVar, bool) {
	id, ok := node.(*ast.Ident)
	if !ok {
		return nil, false
	}
	iv, ok := c.scope.axes.Find(id.Name)
	if !ok || iv.Type != te.CommReduce {
		return nil, false
	}
	return iv, true
}

// isReduction returns true if a call to a combiner is a reduction.
// min and max are binary functions unless their second argument is a reduction axis.
func (c *converter) isReduction(name string, call *ast.CallExpr) bool {
	if name != "min" && name != "max" {
		return true
	}
	if len(call.Args) < 2 {
		return false
	}
	_, ok := c.reduceAxis(call.Args[1])
	return ok
}

// reduce converts comb(source, axis..., [condition]).
func (c *converter) reduce(comb te.Combiner, call *ast.CallExpr) (te.Expr, error) {
	if len(call.Args) < 2 {
		return nil, c.Errorf(call, "%s expects a source and at least one reduction axis", comb)
	}
	src, err := c.expr(call.Args[0])
	if err != nil {
		return nil, err
	}
	var axes []*te.IterVar
	rest := call.Args[1:]
	for len(rest) > 0 {
		iv, ok := c.reduceAxis(rest[0])
		if !ok {
			break
		}
		axes = append(axes, iv)
		rest = rest[1:]
	}
	if len(axes) == 0 {
		return nil, c.Errorf(call.Args[1], "%s: %s is not a reduction axis", comb, exprSource(call.Args[1]))
	}
	var cond te.Expr
	switch len(rest) {
	case 0:
	case 1:
		if cond, err = c.expr(rest[0]); err != nil {
			return nil, err
		}
	default:
		return nil, c.Errorf(rest[1], "%s: unexpected argument after the condition", comb)
	}
	for _, iv := range axes {
		c.scope.reduced[iv] = true
	}
	return te.Reduce(comb, src, cond, axes...), nil
}

func exprSource(node ast.Expr) string {
	if id, ok := node.(*ast.Ident); ok {
		return id.Name
	}
	return "argument"
}
