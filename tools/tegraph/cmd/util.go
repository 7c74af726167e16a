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


package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/gx-org/tegraph/base/stringseq"
	"github.com/gx-org/tegraph/te"
	"github.com/gx-org/tegraph/te/tefile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// computeOps returns the compute operations given their names.
// All the compute operations of the graph are returned if no name is given.
func computeOps(g *tefile.Graph, names []string) ([]*te.ComputeOp, error) {
	if len(names) == 0 {
		return g.Ops, nil
	}
	ops := make([]*te.ComputeOp, len(names))
	for i, name := range names {
		op, err := g.Operation(name)
		if err != nil {
			return nil, err
		}
		cop, ok := op.(*te.ComputeOp)
		if !ok {
			return nil, errors.Errorf("%s is not a compute operation", name)
		}
		ops[i] = cop
	}
	return ops, nil
}

// weights returns the tensors passed with --weights or the weights declared by the graph.
func weights(cmd *cobra.Command, g *tefile.Graph) ([]te.Tensor, error) {
	names, err := cmd.Flags().GetStringSlice(flagWeights)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(names) == 0 {
		return g.Weights, nil
	}
	ws := make([]te.Tensor, len(names))
	for i, name := range names {
		if ws[i], err = g.Tensor(name); err != nil {
			return nil, errors.WithMessage(err, "--weights")
		}
	}
	return ws, nil
}

func joinNames[T interface{ Name() string }](elems []T) string {
	return stringseq.Join(stringseq.Map(elems, func(el T) string { return el.Name() }), ", ")
}

func printf(w io.Writer, format string, a ...any) {
	// Errors are ignored as with fmt.Printf.
	_, _ = fmt.Fprintf(w, format, a...)
}

// occurString formats the number of reads of each input, for example [A:2 B:1].
func occurString(inputs []te.Tensor, occur []int) string {
	items := make([]string, len(inputs))
	for i, input := range inputs {
		items[i] = fmt.Sprintf("%s:%d", input, occur[i])
	}
	return "[" + strings.Join(items, " ") + "]"
}
