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

// Package exprdeps extracts variable dependencies from tensor expressions.
package exprdeps

import (
	"slices"

	"github.com/gx-org/tegraph/base/ordered"
	"github.com/gx-org/tegraph/te"
)

func vars(done *ordered.Map[te.ID, *te.Var], exprs []te.Expr) {
	// The callback never fails.
	_ = te.PostOrderAll(exprs, func(expr te.Expr) error {
		if v, ok := expr.(*te.Var); ok {
			done.Store(v.ID(), v)
		}
		return nil
	})
}

// Vars returns the distinct variables used in expressions,
// in the order in which they are first visited.
func Vars(exprs ...te.Expr) []*te.Var {
	done := ordered.NewMap[te.ID, *te.Var]()
	vars(done, exprs)
	return slices.Collect(done.Values())
}

// Free returns the variables used in expressions that are not in bound.
func Free(exprs []te.Expr, bound []*te.Var) []*te.Var {
	isBound := ordered.NewSet[te.ID]()
	for _, v := range bound {
		isBound.Add(v.ID())
	}
	var free []*te.Var
	for _, v := range Vars(exprs...) {
		if !isBound.Has(v.ID()) {
			free = append(free, v)
		}
	}
	return free
}
