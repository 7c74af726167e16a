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


package graph_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tegraph/graph"
	"github.com/gx-org/tegraph/te"
	"github.com/pkg/errors"
)

type diamond struct {
	P          te.Tensor
	A, B, C, R *te.ComputeOp
}

// newDiamond returns a graph where R reads A and B, both reading C.
func newDiamond() diamond {
	shape := te.Ints(4)
	unary := func(name string, x te.Tensor) *te.ComputeOp {
		out := te.Compute(name, dtype.Float32, shape, nil, func(ax ...*te.Var) te.Expr {
			return te.Intrinsic("exp", x.At(ax[0]))
		})
		op, _ := out.Compute()
		return op
	}
	var d diamond
	d.P = te.Placeholder("P", dtype.Float32, 4)
	d.C = unary("C", d.P)
	d.A = unary("A", d.C.Output(0))
	d.B = unary("B", d.C.Output(0))
	d.R = te.ComputeN("R", dtype.Float32, shape, nil, func(ax ...*te.Var) []te.Expr {
		return []te.Expr{te.Add(d.A.Output(0).At(ax[0]), d.B.Output(0).At(ax[0]))}
	})
	return d
}

func checkTopological(t *testing.T, dag *graph.DAG, outputFirst bool) {
	t.Helper()
	pos := make(map[te.ID]int)
	for i, op := range dag.Ops {
		pos[op.ID()] = i
	}
	for _, op := range dag.Ops {
		for _, cons := range dag.Consumers(op) {
			before := pos[op.ID()] < pos[cons.ID()]
			if before == outputFirst {
				t.Errorf("producer %s at %d and consumer %s at %d in %v", op.Name(), pos[op.ID()], cons.Name(), pos[cons.ID()], opNames(dag.Ops))
			}
		}
	}
}

func TestSerializeComputeDAGDiamond(t *testing.T) {
	d := newDiamond()
	tests := []struct {
		outputFirst bool
		want        []string
	}{
		{
			outputFirst: false,
			want:        []string{"C", "A", "B", "R"},
		},
		{
			outputFirst: true,
			want:        []string{"R", "B", "A", "C"},
		},
	}
	for i, test := range tests {
		dag, err := graph.SerializeComputeDAG([]te.Operation{d.R}, test.outputFirst)
		if err != nil {
			t.Errorf("test %d: %+v", i, err)
			continue
		}
		if diff := cmp.Diff(test.want, opNames(dag.Ops)); diff != "" {
			t.Errorf("test %d: unexpected order:\n%s", i, diff)
		}
		checkTopological(t, dag, test.outputFirst)
		consumers := map[string][]string{}
		for id, cons := range dag.ConsumerMap().Iter() {
			for _, op := range dag.Ops {
				if op.ID() == id {
					consumers[op.Name()] = opNames(cons)
				}
			}
		}
		wantConsumers := map[string][]string{
			"C": {"A", "B"},
			"A": {"R"},
			"B": {"R"},
			"R": nil,
		}
		if diff := cmp.Diff(wantConsumers, consumers); diff != "" {
			t.Errorf("test %d: unexpected consumer map:\n%s", i, diff)
		}
		if got := dag.ConsumerMap().Size(); got != 4 {
			t.Errorf("test %d: consumer map has %d keys but want 4", i, got)
		}
		if got := dag.Consumers(d.P.Op); got != nil {
			t.Errorf("test %d: placeholder has consumers %v", i, opNames(got))
		}
	}
}

func TestSerializeComputeDAGRoots(t *testing.T) {
	d := newDiamond()
	// D reads B twice and C once.
	D := te.ComputeN("D", dtype.Float32, te.Ints(4), nil, func(ax ...*te.Var) []te.Expr {
		b := d.B.Output(0)
		return []te.Expr{te.Mul(te.Add(b.At(ax[0]), b.At(ax[0])), d.C.Output(0).At(ax[0]))}
	})
	// M has two outputs, both read by X.
	M := te.ComputeN("M", dtype.Float32, te.Ints(4), nil, func(ax ...*te.Var) []te.Expr {
		p := d.P.At(ax[0])
		return []te.Expr{te.Intrinsic("exp", p), te.Intrinsic("log", p)}
	})
	X := te.ComputeN("X", dtype.Float32, te.Ints(4), nil, func(ax ...*te.Var) []te.Expr {
		return []te.Expr{te.Add(M.Output(0).At(ax[0]), M.Output(1).At(ax[0]))}
	})
	tests := []struct {
		roots     []te.Operation
		want      []string
		consumers map[*te.ComputeOp][]string
	}{
		{
			roots: []te.Operation{d.A, d.B},
			want:  []string{"C", "A", "B"},
			consumers: map[*te.ComputeOp][]string{
				d.C: {"A", "B"},
				d.A: nil,
			},
		},
		{
			roots: []te.Operation{d.R, d.A, d.P.Op, nil},
			want:  []string{"C", "A", "B", "R"},
		},
		{
			roots: []te.Operation{D, d.R},
			want:  []string{"C", "B", "D", "A", "R"},
			consumers: map[*te.ComputeOp][]string{
				d.C: {"B", "D", "A"},
				d.B: {"D", "R"},
			},
		},
		{
			roots: []te.Operation{X},
			want:  []string{"M", "X"},
			consumers: map[*te.ComputeOp][]string{
				M: {"X"},
				X: nil,
			},
		},
		{
			roots: []te.Operation{d.P.Op},
			want:  nil,
		},
	}
	for i, test := range tests {
		dag, err := graph.SerializeComputeDAG(test.roots, false)
		if err != nil {
			t.Errorf("test %d: %+v", i, err)
			continue
		}
		if diff := cmp.Diff(test.want, opNames(dag.Ops)); diff != "" {
			t.Errorf("test %d: unexpected order:\n%s", i, diff)
		}
		checkTopological(t, dag, false)
		for op, want := range test.consumers {
			if diff := cmp.Diff(want, opNames(dag.Consumers(op))); diff != "" {
				t.Errorf("test %d: unexpected consumers of %s:\n%s", i, op.Name(), diff)
			}
		}
	}
}

func TestSerializeComputeDAGCycle(t *testing.T) {
	op := te.ComputeN("loop", dtype.Float32, te.Ints(4), nil, func(ax ...*te.Var) []te.Expr {
		return []te.Expr{ax[0]}
	})
	op.Body[0] = op.Output(0).At(op.Axis[0].Var)
	_, err := graph.SerializeComputeDAG([]te.Operation{op}, false)
	if !errors.Is(err, graph.ErrCycle) {
		t.Errorf("got error %v but want %v", err, graph.ErrCycle)
	}
}

func TestSerializeComputeDAGDeep(t *testing.T) {
	const depth = 10000
	x := te.Placeholder("x", dtype.Float32, 4)
	for i := 0; i < depth; i++ {
		prev := x
		x = te.Compute("chain", dtype.Float32, te.Ints(4), nil, func(ax ...*te.Var) te.Expr {
			return te.Add(prev.At(ax[0]), te.Float(1))
		})
	}
	dag, err := graph.SerializeComputeDAG([]te.Operation{x.Op}, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(dag.Ops); got != depth {
		t.Fatalf("got %d operations but want %d", got, depth)
	}
	if dag.Ops[0] != x.Op {
		t.Errorf("got %s first but want the root", dag.Ops[0].Name())
	}
	checkTopological(t, dag, true)
}
