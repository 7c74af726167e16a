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
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tegraph/te"
)

type matmul struct {
	A, B, C te.Tensor
	k       *te.IterVar
}

// newMatmul returns C[i, j] = sum(A[i, k] * B[k, j], k).
func newMatmul() matmul {
	m := matmul{
		A: te.Placeholder("A", dtype.Float32, 4, 8),
		B: te.Placeholder("B", dtype.Float32, 8, 16),
		k: te.ReduceAxis("k", 8),
	}
	m.C = te.Compute("C", dtype.Float32, te.Ints(4, 16), nil, func(ax ...*te.Var) te.Expr {
		return te.Sum(te.Mul(m.A.At(ax[0], m.k.Var), m.B.At(m.k.Var, ax[1])), m.k)
	})
	return m
}

func opNames(ops []*te.ComputeOp) []string {
	if len(ops) == 0 {
		return nil
	}
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name()
	}
	return names
}

func tensorNames(ts []te.Tensor) []string {
	if len(ts) == 0 {
		return nil
	}
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return names
}
