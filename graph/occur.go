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

import "github.com/gx-org/tegraph/te"

// inputOccurrenceCounter counts the reads of each input.
type inputOccurrenceCounter struct {
	inputs []te.Tensor
	counts []int
}

func (c *inputOccurrenceCounter) visit(expr te.Expr) error {
	call, ok := tensorRead(expr)
	if !ok {
		return nil
	}
	for i, input := range c.inputs {
		if call.Reads(input.Op) {
			c.counts[i]++
		}
	}
	return nil
}

// CountInputOccur returns, for each input, the number of times the body of op reads it.
// The result has the same length and order as inputs.
func CountInputOccur(inputs []te.Tensor, op te.Operation) ([]int, error) {
	cop, err := computeOp(op)
	if err != nil {
		return nil, err
	}
	counter := &inputOccurrenceCounter{
		inputs: inputs,
		counts: make([]int, len(inputs)),
	}
	if err := te.PostOrderAll(cop.Body, counter.visit); err != nil {
		return nil, err
	}
	return counter.counts, nil
}
