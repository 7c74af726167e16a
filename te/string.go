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
	"strconv"
	"strings"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tegraph/base/uname"
)

// Printer prints expressions.
// Distinct variables sharing the same name are printed with different names.
// A printer used for several expressions keeps the names of the variables consistent
// across all of them.
type Printer struct {
	names *uname.Names[ID]
}

// NewPrinter returns a new printer.
func NewPrinter() *Printer {
	return &Printer{names: uname.NewNames[ID]()}
}

// VarName returns the name of a variable for this printer.
func (p *Printer) VarName(v *Var) string {
	return p.names.Name(v.ID(), v.Name)
}

// String returns the string representation of an expression.
func (p *Printer) String(expr Expr) string {
	var s strings.Builder
	p.print(&s, expr)
	return s.String()
}

func exprString(expr Expr) string {
	return NewPrinter().String(expr)
}

func (p *Printer) operand(s *strings.Builder, expr Expr) {
	if bin, ok := expr.(*BinaryExpr); ok && bin.Op.IsInfix() {
		s.WriteString("(")
		p.print(s, expr)
		s.WriteString(")")
		return
	}
	p.print(s, expr)
}

func (p *Printer) list(s *strings.Builder, exprs []Expr) {
	for i, expr := range exprs {
		if i > 0 {
			s.WriteString(", ")
		}
		p.print(s, expr)
	}
}

func (p *Printer) print(s *strings.Builder, expr Expr) {
	switch exprT := expr.(type) {
	case nil:
		s.WriteString("<nil>")
	case *IntImm:
		if exprT.DType == dtype.Bool {
			s.WriteString(strconv.FormatBool(exprT.Value != 0))
			return
		}
		s.WriteString(strconv.FormatInt(exprT.Value, 10))
	case *FloatImm:
		f := strconv.FormatFloat(exprT.Value, 'g', -1, 64)
		if !strings.ContainsAny(f, ".eIN") {
			f += ".0"
		}
		s.WriteString(f)
	case *StringImm:
		s.WriteString(strconv.Quote(exprT.Value))
	case *Var:
		s.WriteString(p.VarName(exprT))
	case *BinaryExpr:
		if !exprT.Op.IsInfix() {
			s.WriteString(exprT.Op.String())
			s.WriteString("(")
			p.list(s, []Expr{exprT.X, exprT.Y})
			s.WriteString(")")
			return
		}
		p.operand(s, exprT.X)
		s.WriteString(" " + exprT.Op.String() + " ")
		p.operand(s, exprT.Y)
	case *NotExpr:
		s.WriteString("!")
		p.operand(s, exprT.X)
	case *SelectExpr:
		s.WriteString("select(")
		p.list(s, []Expr{exprT.Cond, exprT.True, exprT.False})
		s.WriteString(")")
	case *CastExpr:
		s.WriteString(DTypeName(exprT.DType))
		s.WriteString("(")
		p.print(s, exprT.X)
		s.WriteString(")")
	case *CallExpr:
		s.WriteString(exprT.Name)
		if exprT.CallType == TensorRead {
			if exprT.Func != nil && exprT.Func.NumOutputs() > 1 {
				s.WriteString(".v" + strconv.Itoa(exprT.ValueIndex))
			}
			s.WriteString("[")
			p.list(s, exprT.Args)
			s.WriteString("]")
			return
		}
		s.WriteString("(")
		p.list(s, exprT.Args)
		s.WriteString(")")
	case *ReduceExpr:
		s.WriteString(string(exprT.Combiner))
		s.WriteString("(")
		if len(exprT.Source) == 1 {
			p.print(s, exprT.Source[0])
		} else {
			s.WriteString("(")
			p.list(s, exprT.Source)
			s.WriteString(")")
		}
		for _, iv := range exprT.Axis {
			s.WriteString(", ")
			s.WriteString(p.VarName(iv.Var))
		}
		if exprT.HasCondition() {
			s.WriteString(", ")
			p.print(s, exprT.Condition)
		}
		s.WriteString(")")
	default:
		s.WriteString("<" + expr.Kind().String() + ">")
	}
}
