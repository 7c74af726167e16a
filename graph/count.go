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
	"fmt"

	"github.com/gx-org/tegraph/te"
	"github.com/pkg/errors"
)

// Keys of the operation count map.
const (
	NumAdd     = "num_add"
	NumDiv     = "num_div"
	NumMul     = "num_mul"
	NumBranch  = "num_branch"
	NumSpecial = "num_special"
	NumLogic   = "num_logic"
)

// OpCountKeys lists the keys of an operation count map.
var OpCountKeys = []string{NumAdd, NumDiv, NumMul, NumBranch, NumSpecial, NumLogic}

// OpCounts counts the operations computed by a body.
type OpCounts struct {
	// Add counts additions and subtractions.
	Add int
	// Mul counts multiplications.
	Mul int
	// Div counts divisions, including floor divisions.
	Div int
	// Branch counts min, max, select, conditional select and conditional reductions.
	Branch int
	// Special counts transcendental and rounding functions, modulos and casts.
	Special int
	// Logic counts and, or and not.
	Logic int
}

// Map returns the counts keyed by OpCountKeys.
func (c OpCounts) Map() map[string]int {
	return map[string]int{
		NumAdd:     c.Add,
		NumDiv:     c.Div,
		NumMul:     c.Mul,
		NumBranch:  c.Branch,
		NumSpecial: c.Special,
		NumLogic:   c.Logic,
	}
}

// String representation.
func (c OpCounts) String() string {
	return fmt.Sprintf("{%s: %d, %s: %d, %s: %d, %s: %d, %s: %d, %s: %d}",
		NumAdd, c.Add,
		NumDiv, c.Div,
		NumMul, c.Mul,
		NumBranch, c.Branch,
		NumSpecial, c.Special,
		NumLogic, c.Logic,
	)
}

// IntrinsicError is returned when an intrinsic is not known by the operation counter.
type IntrinsicError struct {
	Name string
}

// Error returns the error message.
func (err *IntrinsicError) Error() string {
	return ErrIntrinsicNotImplemented.Error() + ": " + err.Name
}

// Is returns true if target is ErrIntrinsicNotImplemented.
func (err *IntrinsicError) Is(target error) bool {
	return target == ErrIntrinsicNotImplemented
}

// specialIntrinsics are the pure intrinsics counted as special operations.
var specialIntrinsics = map[string]bool{
	"exp":     true,
	"log":     true,
	"sigmoid": true,
	"sqrt":    true,
	"tanh":    true,
	"pow":     true,
	"fabs":    true,
	// Piecewise constant.
	"floor": true,
	"ceil":  true,
	"trunc": true,
	"round": true,
}

// IsKnownIntrinsic returns true if the operation counter can classify the intrinsic.
func IsKnownIntrinsic(name string) bool {
	return name == te.IfThenElse || specialIntrinsics[name]
}

type opCounter struct {
	counts OpCounts
}

func (c *opCounter) visitCall(call *te.CallExpr) error {
	if call.CallType != te.PureIntrinsic {
		return nil
	}
	switch {
	case call.Name == te.IfThenElse:
		c.counts.Branch++
	case specialIntrinsics[call.Name]:
		c.counts.Special++
	default:
		return errors.WithStack(&IntrinsicError{Name: call.Name})
	}
	return nil
}

func (c *opCounter) visit(expr te.Expr) error {
	switch exprT := expr.(type) {
	case *te.CallExpr:
		return c.visitCall(exprT)
	case *te.BinaryExpr:
		switch exprT.Op {
		case te.AddKind, te.SubKind:
			c.counts.Add++
		case te.MulKind:
			c.counts.Mul++
		case te.DivKind, te.FloorDivKind:
			c.counts.Div++
		case te.ModKind, te.FloorModKind:
			c.counts.Special++
		case te.MinKind, te.MaxKind:
			c.counts.Branch++
		case te.AndKind, te.OrKind:
			c.counts.Logic++
		}
	case *te.NotExpr:
		c.counts.Logic++
	case *te.SelectExpr:
		c.counts.Branch++
	case *te.CastExpr:
		c.counts.Special++
	case *te.ReduceExpr:
		if exprT.HasCondition() {
			c.counts.Branch++
		}
	}
	return nil
}

// CountOperation counts the operations computed by the body of a compute operation.
// An error is returned if the body calls an intrinsic that cannot be classified:
// unknown intrinsics are never ignored.
func CountOperation(op te.Operation) (OpCounts, error) {
	cop, err := computeOp(op)
	if err != nil {
		return OpCounts{}, err
	}
	var counter opCounter
	if err := te.PostOrderAll(cop.Body, counter.visit); err != nil {
		return OpCounts{}, errors.WithMessagef(err, "cannot count operations of %s", cop.Name())
	}
	return counter.counts, nil
}
