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


// Package tefile loads tensor expression graphs from YAML descriptions.
//
// A graph file declares placeholders, compute operations in definition order,
// the outputs of the graph and, optionally, the tensors to consider as weights:
//
//	version: v1.0.0
//	tensors:
//	  - {name: A, dtype: float32, shape: [512, 64]}
//	  - {name: B, dtype: float32, shape: [64, 128]}
//	ops:
//	  - name: C
//	    dtype: float32
//	    axes: [{name: i, extent: "512"}, {name: j, extent: "128"}]
//	    reduce_axes: [{name: k, extent: "64"}]
//	    body: ["sum(A[i, k] * B[k, j], k)"]
//	outputs: [C]
//	weights: [B]
//
// Body expressions use the Go expression syntax. T[i, j] reads the tensor T
// (T.v1[i, j] reads the second output of T). Reductions are written
// sum(source, axes..., condition) where the condition is optional.
// min, max, floordiv, floormod and select are functions and a data type name
// converts its argument. Any other function is an intrinsic.
package tefile

import (
	"fmt"
	"go/token"
	"os"
	"strings"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tegraph/base/iter"
	"github.com/gx-org/tegraph/internal/base/scope"
	"github.com/gx-org/tegraph/internal/exprdeps"
	"github.com/gx-org/tegraph/internal/fmterr"
	"github.com/gx-org/tegraph/te"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the major version of the graph files this package can load.
const SupportedMajor = "v1"

type (
	// File is the content of a graph file.
	File struct {
		Version string       `yaml:"version"`
		Tensors []TensorDecl `yaml:"tensors"`
		Ops     []OpDecl     `yaml:"ops"`
		Outputs []string     `yaml:"outputs"`
		Weights []string     `yaml:"weights,omitempty"`
	}

	// TensorDecl declares a placeholder.
	TensorDecl struct {
		Name  string `yaml:"name"`
		DType string `yaml:"dtype"`
		Shape []int  `yaml:"shape"`
	}

	// AxisDecl declares an axis of a compute operation.
	AxisDecl struct {
		Name   string `yaml:"name"`
		Extent string `yaml:"extent"`
	}

	// OpDecl declares a compute operation.
	OpDecl struct {
		Name       string     `yaml:"name"`
		DType      string     `yaml:"dtype"`
		Axes       []AxisDecl `yaml:"axes"`
		ReduceAxes []AxisDecl `yaml:"reduce_axes,omitempty"`
		Body       []string   `yaml:"body"`
	}
)

// Graph is a tensor expression graph loaded from a file.
type Graph struct {
	// Source is the name of the file the graph has been loaded from.
	Source string
	// Ops are the compute operations in definition order.
	Ops []*te.ComputeOp
	// Outputs are the outputs of the graph.
	Outputs []te.Tensor
	// Weights are the tensors considered as weights.
	Weights []te.Tensor

	ops *scope.Scope[te.Operation]
}

// Operation returns an operation given its name.
func (g *Graph) Operation(name string) (te.Operation, error) {
	op, ok := g.ops.Find(name)
	if !ok {
		return nil, errors.Errorf("operation %s undefined", name)
	}
	return op, nil
}

// Tensor returns a tensor given its name: T for the first output of T, T.vN for its Nth output.
func (g *Graph) Tensor(name string) (te.Tensor, error) {
	opName, sel, hasSel := strings.Cut(name, ".")
	op, err := g.Operation(opName)
	if err != nil {
		return te.Tensor{}, err
	}
	if !hasSel {
		return op.Output(0), nil
	}
	index, ok := valueIndex(sel)
	if !ok || index >= op.NumOutputs() {
		return te.Tensor{}, errors.Errorf("operation %s has no output %s", opName, sel)
	}
	return op.Output(index), nil
}

// Roots returns the operations computing the outputs of the graph.
func (g *Graph) Roots() []te.Operation {
	roots := make([]te.Operation, len(g.Outputs))
	for i, out := range g.Outputs {
		roots[i] = out.Op
	}
	return roots
}

// Load reads and builds the graph stored in a file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Parse(path, data)
}

// Parse builds a graph from the content of a graph file.
// All the errors found in the file are returned.
func Parse(source string, data []byte) (*Graph, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", source)
	}
	return Build(source, &file)
}

func checkVersion(version string) error {
	if version == "" {
		return errors.Errorf("missing version")
	}
	if !semver.IsValid(version) {
		return errors.Errorf("invalid version %q", version)
	}
	if major := semver.Major(version); major != SupportedMajor {
		return errors.Errorf("version %s not supported: want %s.x.x", version, SupportedMajor)
	}
	return nil
}

type builder struct {
	conv  converter
	errs  error
	graph *Graph
	ops   *scope.Scope[te.Operation]
}

func (b *builder) append(err error) {
	b.errs = multierr.Append(b.errs, err)
}

func (b *builder) dtype(where, name string) (dtype.DataType, bool) {
	dt, ok := te.ParseDType(name)
	if !ok {
		b.append(errors.Errorf("%s: unknown data type %q", where, name))
	}
	return dt, ok
}

func (b *builder) define(where string, op te.Operation) bool {
	if op.Name() == "" {
		b.append(errors.Errorf("%s: missing name", where))
		return false
	}
	if err := b.ops.Define(op.Name(), op); err != nil {
		b.append(errors.WithMessage(err, where))
		return false
	}
	return true
}

func (b *builder) placeholder(i int, decl *TensorDecl) {
	where := fmt.Sprintf("tensors[%d]", i)
	dt, ok := b.dtype(where, decl.DType)
	if !ok {
		return
	}
	for _, dim := range decl.Shape {
		if dim <= 0 {
			b.append(errors.Errorf("%s: invalid dimension %d in the shape of %s", where, dim, decl.Name))
			return
		}
	}
	b.define(where, te.NewPlaceholderOp(decl.Name, dt, te.Ints(decl.Shape...)))
}

func (b *builder) axes(opName, field string, decls []AxisDecl, typ te.IterType) ([]*te.IterVar, bool) {
	axes := make([]*te.IterVar, len(decls))
	ok := true
	for i, decl := range decls {
		where := fmt.Sprintf("%s.%s[%d]", opName, field, i)
		if decl.Name == "" {
			b.append(errors.Errorf("%s: missing axis name", where))
			ok = false
			continue
		}
		if _, isOp := b.ops.Find(decl.Name); isOp {
			b.append(errors.Errorf("%s: axis %s shadows a tensor", where, decl.Name))
			ok = false
			continue
		}
		extent, err := b.conv.parseExpr(where+".extent", decl.Extent)
		if err != nil {
			b.append(err)
			ok = false
			continue
		}
		axes[i] = te.NewIterVar(decl.Name, extent, typ)
	}
	return axes, ok
}

func (b *builder) compute(i int, decl *OpDecl) {
	where := fmt.Sprintf("ops[%d]", i)
	dt, ok := b.dtype(where, decl.DType)
	if !ok {
		return
	}
	if len(decl.Body) == 0 {
		b.append(errors.Errorf("%s: operation %s has no body", where, decl.Name))
		return
	}
	// Extents only refer to constants.
	b.conv.scope = newExprScope(b.ops)
	axes, okAxes := b.axes(decl.Name, "axes", decl.Axes, te.DataPar)
	reduceAxes, okReduce := b.axes(decl.Name, "reduce_axes", decl.ReduceAxes, te.CommReduce)
	if !okAxes || !okReduce {
		return
	}
	bodyScope := newExprScope(b.ops)
	for iv := range iter.Concat(axes, reduceAxes) {
		if err := bodyScope.axes.Define(iv.Var.Name, iv); err != nil {
			b.append(errors.Errorf("%s: axis %s redefined", where, iv.Var.Name))
			return
		}
	}
	b.conv.scope = bodyScope
	body := make([]te.Expr, len(decl.Body))
	for j, src := range decl.Body {
		expr, err := b.conv.parseExpr(fmt.Sprintf("%s.body[%d]", decl.Name, j), src)
		if err != nil {
			b.append(err)
			return
		}
		body[j] = expr
	}
	used := exprdeps.Vars(body...)
	for _, iv := range reduceAxes {
		if !bodyScope.reduced[iv] {
			b.append(errors.Errorf("%s: reduce axis %s of %s is never reduced", where, iv.Var.Name, decl.Name))
			return
		}
	}
	if free := exprdeps.Free(body, append(te.Vars(axes), te.Vars(reduceAxes)...)); len(free) > 0 {
		b.append(fmterr.Internalf("%s: %d unbound variables in %s", where, len(free), decl.Name))
		return
	}
	op := te.NewComputeOp(decl.Name, dt, axes, reduceAxes, body)
	if !b.define(where, op) {
		return
	}
	b.graph.Ops = append(b.graph.Ops, op)
	log.Debugf("%s: compute %s with %d axes, %d reduce axes and %d variables used", b.graph.Source, op.Name(), len(axes), len(reduceAxes), len(used))
}

func (b *builder) tensors(field string, names []string) []te.Tensor {
	var tensors []te.Tensor
	for i, name := range names {
		t, err := b.graph.Tensor(name)
		if err != nil {
			b.append(errors.WithMessagef(err, "%s[%d]", field, i))
			continue
		}
		tensors = append(tensors, t)
	}
	return tensors
}

// Build builds the graph declared by a file.
func Build(source string, file *File) (*Graph, error) {
	if err := checkVersion(file.Version); err != nil {
		return nil, errors.WithMessagef(err, "%s", source)
	}
	ops := scope.New[te.Operation](nil)
	b := &builder{
		conv:  converter{FileSet: fmterr.FileSet{FSet: token.NewFileSet()}},
		graph: &Graph{Source: source, ops: ops},
		ops:   ops,
	}
	for i := range file.Tensors {
		b.placeholder(i, &file.Tensors[i])
	}
	for i := range file.Ops {
		b.compute(i, &file.Ops[i])
	}
	if len(file.Outputs) == 0 {
		b.append(errors.Errorf("no output"))
	}
	b.graph.Outputs = b.tensors("outputs", file.Outputs)
	b.graph.Weights = b.tensors("weights", file.Weights)
	if b.errs != nil {
		return nil, errors.WithMessagef(b.errs, "%s", source)
	}
	log.Debugf("%s: loaded %d compute operations and %d outputs", source, len(b.graph.Ops), len(b.graph.Outputs))
	return b.graph, nil
}
