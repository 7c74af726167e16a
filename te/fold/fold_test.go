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

package fold_test

import (
	"testing"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tegraph/te"
	"github.com/gx-org/tegraph/te/fold"
)

func TestSimplify(t *testing.T) {
	x := te.NewVar("x")
	tests := []struct {
		expr te.Expr
		want string
	}{
		{expr: te.Add(te.Int(2), te.Int(3)), want: "5"},
		{expr: te.Mul(te.Add(te.Int(2), te.Int(3)), te.Int(4)), want: "20"},
		{expr: te.Div(te.Int(-7), te.Int(2)), want: "-3"},
		{expr: te.FloorDiv(te.Int(-7), te.Int(2)), want: "-4"},
		{expr: te.Mod(te.Int(-7), te.Int(2)), want: "-1"},
		{expr: te.FloorMod(te.Int(-7), te.Int(2)), want: "1"},
		{expr: te.Min(te.Int(3), te.Max(te.Int(1), te.Int(2))), want: "2"},
		{expr: te.Div(te.Int(1), te.Int(0)), want: "1 / 0"},
		{expr: te.LT(te.Int(1), te.Int(2)), want: "true"},
		{expr: te.And(te.Bool(true), te.Not(te.Bool(true))), want: "false"},
		{expr: te.Select(te.GE(te.Int(1), te.Int(2)), te.Int(10), te.Int(20)), want: "20"},
		{expr: te.Add(x, te.Mul(te.Int(0), te.Int(3))), want: "x"},
		{expr: te.Mul(te.Int(1), x), want: "x"},
		{expr: te.Mul(x, te.Int(0)), want: "0"},
		{expr: te.Sub(x, te.Sub(te.Int(2), te.Int(1))), want: "x - 1"},
		{expr: te.Cast(dtype.Int32, te.Int(1<<32+5)), want: "5"},
		{expr: te.Cast(dtype.Int64, te.Float(3.7)), want: "3"},
		{expr: te.Add(&te.IntImm{Value: 1<<31 - 1, DType: dtype.Int32}, &te.IntImm{Value: 1, DType: dtype.Int32}), want: "-2147483648"},
	}
	for i, test := range tests {
		got := fold.Simplify(test.expr).String()
		if got != test.want {
			t.Errorf("test %d: simplify %s: got %s but want %s", i, test.expr, got, test.want)
		}
	}
}

func TestSimplifyPreservesIdentity(t *testing.T) {
	x := te.NewVar("x")
	a := te.Placeholder("A", dtype.Float32, 4)
	read := a.At(x)
	expr := te.Add(read, te.Float(1))
	if got := fold.Simplify(expr); got != expr {
		t.Errorf("expression %s has been rebuilt without any change", expr)
	}
	folded := fold.Simplify(a.At(te.Add(x, te.Int(0)))).(*te.CallExpr)
	if folded.Args[0] != x {
		t.Errorf("got argument %s but want the variable x", folded.Args[0])
	}
}
