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

// Range is the domain of an iteration variable: [Min, Min+Extent).
type Range struct {
	Min, Extent Expr
}

// IterType is the type of iteration of an axis.
type IterType int

const (
	// DataPar is a data parallel axis: one output element per value.
	DataPar IterType = iota
	// CommReduce is an axis reduced by a commutative reduction.
	CommReduce
)

// IterVar is an iteration variable ranging over a domain.
type IterVar struct {
	Var  *Var
	Dom  Range
	Type IterType
}

func (*IterVar) node() {}

// String representation.
func (iv *IterVar) String() string {
	return fmt.Sprintf("%s(min=%s, extent=%s)", iv.Var.Name, iv.Dom.Min, iv.Dom.Extent)
}

// Vars returns the variables of a list of iteration variables.
func Vars(ivs []*IterVar) []*Var {
	vars := make([]*Var, len(ivs))
	for i, iv := range ivs {
		vars[i] = iv.Var
	}
	return vars
}

type (
	// Operation produces one or more tensors.
	Operation interface {
		Node
		// ID returns the identity token of the operation.
		ID() ID
		// Name of the operation.
		Name() string
		// NumOutputs returns the number of tensors computed by the operation.
		NumOutputs() int
		// Output returns the ith output tensor.
		Output(i int) Tensor
		// InputTensors returns the distinct tensors read by the operation,
		// in the order in which they are first read.
		InputTensors() []Tensor
		// OutputShape returns the shape of the ith output.
		OutputShape(i int) []Expr
		// OutputDType returns the element type of the ith output.
		OutputDType(i int) dtype.DataType
	}

	// PlaceholderOp is an input of the graph.
	PlaceholderOp struct {
		id    ID
		name  string
		Shape []Expr
		DType dtype.DataType
	}

	// ComputeOp computes each element of its outputs with a body expression.
	// The body has one expression per output.
	ComputeOp struct {
		id   ID
		name string
		// Axis are the data parallel axes, one per dimension of the outputs.
		Axis []*IterVar
		// ReduceAxis are the axes reduced by the body.
		ReduceAxis []*IterVar
		Body       []Expr
		DType      dtype.DataType
	}
)

var (
	_ Operation = (*PlaceholderOp)(nil)
	_ Operation = (*ComputeOp)(nil)
)

// NewPlaceholderOp returns a new input operation.
func NewPlaceholderOp(name string, dt dtype.DataType, shape []Expr) *PlaceholderOp {
	return &PlaceholderOp{id: nextID(), name: name, Shape: shape, DType: dt}
}

func (*PlaceholderOp) node() {}

// ID returns the identity token of the operation.
func (op *PlaceholderOp) ID() ID { return op.id }

// Name of the operation.
func (op *PlaceholderOp) Name() string { return op.name }

// NumOutputs returns 1.
func (op *PlaceholderOp) NumOutputs() int { return 1 }

// Output returns the tensor defined by the placeholder.
func (op *PlaceholderOp) Output(i int) Tensor { return Tensor{Op: op, ValueIndex: i} }

// InputTensors returns nil: a placeholder has no input.
func (op *PlaceholderOp) InputTensors() []Tensor { return nil }

// OutputShape returns the shape of the placeholder.
func (op *PlaceholderOp) OutputShape(int) []Expr { return op.Shape }

// OutputDType returns the element type of the placeholder.
func (op *PlaceholderOp) OutputDType(int) dtype.DataType { return op.DType }

// String representation.
func (op *PlaceholderOp) String() string { return "placeholder " + op.name }

// NewComputeOp returns a new compute operation.
func NewComputeOp(name string, dt dtype.DataType, axis, reduceAxis []*IterVar, body []Expr) *ComputeOp {
	return &ComputeOp{
		id:         nextID(),
		name:       name,
		Axis:       axis,
		ReduceAxis: reduceAxis,
		Body:       body,
		DType:      dt,
	}
}

func (*ComputeOp) node() {}

// ID returns the identity token of the operation.
func (op *ComputeOp) ID() ID { return op.id }

// Name of the operation.
func (op *ComputeOp) Name() string { return op.name }

// NumOutputs returns the number of expressions in the body.
func (op *ComputeOp) NumOutputs() int { return len(op.Body) }

// Output returns the ith output of the operation.
func (op *ComputeOp) Output(i int) Tensor { return Tensor{Op: op, ValueIndex: i} }

// InputTensors returns the distinct tensors read by the body.
func (op *ComputeOp) InputTensors() []Tensor {
	var tensors []Tensor
	seen := make(map[tensorKey]bool)
	for _, body := range op.Body {
		// The callback never fails.
		_ = PostOrder(body, func(expr Expr) error {
			call, ok := expr.(*CallExpr)
			if !ok {
				return nil
			}
			t, ok := call.Tensor()
			if !ok {
				return nil
			}
			if key := t.key(); !seen[key] {
				seen[key] = true
				tensors = append(tensors, t)
			}
			return nil
		})
	}
	return tensors
}

// OutputShape returns the extents of the data parallel axes.
func (op *ComputeOp) OutputShape(int) []Expr {
	shape := make([]Expr, len(op.Axis))
	for i, iv := range op.Axis {
		shape[i] = iv.Dom.Extent
	}
	return shape
}

// OutputDType returns the element type of the outputs.
func (op *ComputeOp) OutputDType(int) dtype.DataType { return op.DType }

// String representation.
func (op *ComputeOp) String() string { return "compute " + op.name }

// Tensor is an output of an operation.
type Tensor struct {
	Op         Operation
	ValueIndex int
}

type tensorKey struct {
	op    ID
	index int
}

func (t Tensor) key() tensorKey {
	return tensorKey{op: t.Op.ID(), index: t.ValueIndex}
}

// Same returns true if both tensors are the same output of the same operation.
func (t Tensor) Same(other Tensor) bool {
	if t.Op == nil || other.Op == nil {
		return t.Op == other.Op && t.ValueIndex == other.ValueIndex
	}
	return t.key() == other.key()
}

// Compute returns the compute operation producing the tensor.
// The second value is false if the tensor is not computed by a compute operation.
func (t Tensor) Compute() (*ComputeOp, bool) {
	op, ok := t.Op.(*ComputeOp)
	return op, ok
}

// Shape of the tensor.
func (t Tensor) Shape() []Expr {
	return t.Op.OutputShape(t.ValueIndex)
}

// DType returns the element type of the tensor.
func (t Tensor) DType() dtype.DataType {
	return t.Op.OutputDType(t.ValueIndex)
}

// At returns an expression reading the tensor at the given indices.
func (t Tensor) At(indices ...Expr) *CallExpr {
	return &CallExpr{
		CallType:   TensorRead,
		Name:       t.Op.Name(),
		Args:       indices,
		Func:       t.Op,
		ValueIndex: t.ValueIndex,
	}
}

// String representation.
func (t Tensor) String() string {
	if t.Op == nil {
		return "<nil tensor>"
	}
	if t.Op.NumOutputs() == 1 {
		return t.Op.Name()
	}
	return fmt.Sprintf("%s.v%d", t.Op.Name(), t.ValueIndex)
}
