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

func TestBatchLikeDims(t *testing.T) {
	A := te.Placeholder("A", dtype.Float32, 4, 8)
	B := te.Placeholder("B", dtype.Float32, 8, 4)
	shape := te.Ints(4, 8)
	tests := []struct {
		out  te.Tensor
		want []int
	}{
		{
			out:  newMatmul().C,
			want: []int{0, 1},
		},
		{
			// No tensor read: every axis is batch-like.
			out: te.Compute("iota", dtype.Int64, shape, nil, func(ax ...*te.Var) te.Expr {
				return te.Add(te.Mul(ax[0], te.Int(8)), ax[1])
			}),
			want: []int{0, 1},
		},
		{
			// j is only used in an index expression.
			out: te.Compute("shift", dtype.Float32, shape, nil, func(ax ...*te.Var) te.Expr {
				return A.At(ax[0], te.Add(ax[1], te.Int(1)))
			}),
			want: []int{0},
		},
		{
			// A single read using the axis alone is enough.
			out: te.Compute("mixed", dtype.Float32, shape, nil, func(ax ...*te.Var) te.Expr {
				return te.Add(A.At(te.Add(ax[0], te.Int(1)), ax[1]), A.At(ax[0], te.Int(0)))
			}),
			want: []int{0, 1},
		},
		{
			out: te.Compute("transpose", dtype.Float32, shape, nil, func(ax ...*te.Var) te.Expr {
				return B.At(ax[1], ax[0])
			}),
			want: []int{0, 1},
		},
		{
			out: te.Compute("window", dtype.Float32, shape, nil, func(ax ...*te.Var) te.Expr {
				return A.At(te.Add(ax[0], ax[1]), te.Int(0))
			}),
			want: nil,
		},
	}
	for i, test := range tests {
		got, err := graph.BatchLikeDims(test.out)
		if err != nil {
			t.Errorf("test %d: %+v", i, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("test %d: unexpected batch-like dims for %s:\n%s", i, test.out.Op.Name(), diff)
		}
	}
}

func TestBatchLikeDimsMultipleBodies(t *testing.T) {
	A := te.Placeholder("A", dtype.Float32, 4, 8)
	op := te.ComputeN("split", dtype.Float32, te.Ints(4, 8), nil, func(ax ...*te.Var) []te.Expr {
		return []te.Expr{
			A.At(ax[0], ax[1]),
			A.At(ax[0], te.Sub(ax[1], te.Int(1))),
		}
	})
	got, err := graph.BatchLikeDims(op.Output(0))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0}, got); diff != "" {
		t.Errorf("unexpected batch-like dims:\n%s", diff)
	}
}

func TestBatchLikeDimsNotCompute(t *testing.T) {
	A := te.Placeholder("A", dtype.Float32, 4)
	_, err := graph.BatchLikeDims(A)
	if !errors.Is(err, graph.ErrNotCompute) {
		t.Errorf("got error %v but want %v", err, graph.ErrNotCompute)
	}
}
