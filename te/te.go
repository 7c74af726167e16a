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

// Package te is the tensor expression intermediate representation.
//
// A tensor computation is a directed acyclic graph of operations.
// Placeholder operations are inputs of the graph. Compute operations
// define each element of their outputs with a body expression over
// a set of iteration variables (axes).
//
// Expressions form a closed set of nodes: the set of kinds is defined
// by the Kind enum and external packages cannot implement Node.
// Analyses never modify nodes. Variables and operations carry an
// identity token: two distinct variables with the same name are different
// variables.
package te

import (
	"sync/atomic"

	"github.com/gx-org/backend/dtype"
)

// ID is an identity token assigned when a variable or an operation is created.
// IDs are unique within a process.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

type (
	// Node in the tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()
	}

	// Expr is an expression computing a scalar value.
	Expr interface {
		Node
		Kind() Kind
		String() string
	}
)

type (
	// IntImm is an integer literal.
	IntImm struct {
		Value int64
		DType dtype.DataType
	}

	// FloatImm is a floating point literal.
	FloatImm struct {
		Value float64
		DType dtype.DataType
	}

	// StringImm is a string literal.
	StringImm struct {
		Value string
	}

	// Var is a symbolic scalar variable.
	Var struct {
		id   ID
		Name string
	}

	// BinaryExpr applies a binary operator to two expressions.
	BinaryExpr struct {
		Op   Kind
		X, Y Expr
	}

	// NotExpr is the logical negation of an expression.
	NotExpr struct {
		X Expr
	}

	// SelectExpr returns True if Cond is true, False otherwise.
	// Both branches are evaluated.
	SelectExpr struct {
		Cond, True, False Expr
	}

	// CastExpr converts an expression to another data type.
	CastExpr struct {
		DType dtype.DataType
		X     Expr
	}

	// CallExpr is a call to an intrinsic or a read of a tensor element.
	CallExpr struct {
		CallType CallType
		// Name of the intrinsic, or name of the operation being read.
		Name string
		Args []Expr
		// Func is the operation being read if CallType is TensorRead.
		Func Operation
		// ValueIndex is the output of Func being read.
		ValueIndex int
	}

	// ReduceExpr reduces Source over the reduction axes.
	ReduceExpr struct {
		Combiner Combiner
		Source   []Expr
		Axis     []*IterVar
		// Condition selects the elements being reduced.
		// A nil condition selects all elements.
		Condition  Expr
		ValueIndex int
	}
)

// CallType specifies what a call expression does.
type CallType int

const (
	// TensorRead reads an element of an operation output.
	TensorRead CallType = iota
	// PureIntrinsic is a side-effect free builtin function.
	PureIntrinsic
	// Extern calls a function outside of the IR.
	Extern
)

func (c CallType) String() string {
	switch c {
	case TensorRead:
		return "read"
	case PureIntrinsic:
		return "intrinsic"
	case Extern:
		return "extern"
	}
	return "unknown"
}

// Combiner is the commutative operator used by a reduction.
type Combiner string

// Combiners supported by reductions.
const (
	SumCombiner  Combiner = "sum"
	ProdCombiner Combiner = "prod"
	MinCombiner  Combiner = "min"
	MaxCombiner  Combiner = "max"
)

// IfThenElse is the name of the conditional select intrinsic.
const IfThenElse = "if_then_else"

func (*IntImm) node() {}

// Kind of the expression.
func (*IntImm) Kind() Kind { return IntImmKind }

// String representation.
func (e *IntImm) String() string { return exprString(e) }

func (*FloatImm) node() {}

// Kind of the expression.
func (*FloatImm) Kind() Kind { return FloatImmKind }

// String representation.
func (e *FloatImm) String() string { return exprString(e) }

func (*StringImm) node() {}

// Kind of the expression.
func (*StringImm) Kind() Kind { return StringImmKind }

// String representation.
func (e *StringImm) String() string { return exprString(e) }

// NewVar returns a new variable with its own identity.
func NewVar(name string) *Var {
	return &Var{id: nextID(), Name: name}
}

func (*Var) node() {}

// ID returns the identity token of the variable.
func (v *Var) ID() ID { return v.id }

// Kind of the expression.
func (*Var) Kind() Kind { return VarKind }

// String representation.
func (v *Var) String() string { return v.Name }

func (*BinaryExpr) node() {}

// Kind of the expression, that is the operator.
func (e *BinaryExpr) Kind() Kind { return e.Op }

// String representation.
func (e *BinaryExpr) String() string { return exprString(e) }

func (*NotExpr) node() {}

// Kind of the expression.
func (*NotExpr) Kind() Kind { return NotKind }

// String representation.
func (e *NotExpr) String() string { return exprString(e) }

func (*SelectExpr) node() {}

// Kind of the expression.
func (*SelectExpr) Kind() Kind { return SelectKind }

// String representation.
func (e *SelectExpr) String() string { return exprString(e) }

func (*CastExpr) node() {}

// Kind of the expression.
func (*CastExpr) Kind() Kind { return CastKind }

// String representation.
func (e *CastExpr) String() string { return exprString(e) }

func (*CallExpr) node() {}

// Kind of the expression.
func (*CallExpr) Kind() Kind { return CallKind }

// String representation.
func (e *CallExpr) String() string { return exprString(e) }

// Tensor returns the tensor read by the call.
// The second value is false if the call is not a tensor read.
func (e *CallExpr) Tensor() (Tensor, bool) {
	if e.CallType != TensorRead || e.Func == nil {
		return Tensor{}, false
	}
	return Tensor{Op: e.Func, ValueIndex: e.ValueIndex}, true
}

// Reads returns true if the call reads an output of op.
func (e *CallExpr) Reads(op Operation) bool {
	if e.CallType != TensorRead || e.Func == nil || op == nil {
		return false
	}
	return e.Func.ID() == op.ID()
}

func (*ReduceExpr) node() {}

// Kind of the expression.
func (*ReduceExpr) Kind() Kind { return ReduceKind }

// String representation.
func (e *ReduceExpr) String() string { return exprString(e) }

// HasCondition returns true if the reduction only reduces a subset of its domain.
// A literal true condition selects the whole domain.
func (e *ReduceExpr) HasCondition() bool {
	if e.Condition == nil {
		return false
	}
	lit, ok := e.Condition.(*IntImm)
	if !ok {
		return true
	}
	return lit.Value == 0
}
