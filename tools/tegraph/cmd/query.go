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

	"github.com/gx-org/tegraph/base/iter"
	"github.com/gx-org/tegraph/graph"
	"github.com/gx-org/tegraph/te"
	"github.com/gx-org/tegraph/te/tefile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// perOpCmd returns a command printing one line per compute operation.
func perOpCmd(use, short string, line func(cmd *cobra.Command, g *tefile.Graph, op *te.ComputeOp) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE [OP...]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := tefile.Load(args[0])
			if err != nil {
				return err
			}
			ops, err := computeOps(g, args[1:])
			if err != nil {
				return err
			}
			for _, op := range ops {
				s, err := line(cmd, g, op)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s: %s\n", op.Name(), s)
			}
			return nil
		},
	}
}

func newCountCmd() *cobra.Command {
	return perOpCmd("count", "Count the operations computed by compute operations.",
		func(_ *cobra.Command, _ *tefile.Graph, op *te.ComputeOp) (string, error) {
			counts, err := graph.CountOperation(op)
			if err != nil {
				return "", err
			}
			return counts.String(), nil
		})
}

func newBatchCmd() *cobra.Command {
	return perOpCmd("batch", "Print the batch-like axes of compute operations.",
		func(_ *cobra.Command, _ *tefile.Graph, op *te.ComputeOp) (string, error) {
			dims, err := graph.BatchLikeDims(op.Output(0))
			if err != nil {
				return "", err
			}
			return fmt.Sprint(dims), nil
		})
}

func newFusibleCmd() *cobra.Command {
	return perOpCmd("fusible", "Print the axes of compute operations fusible with the weights.",
		func(cmd *cobra.Command, g *tefile.Graph, op *te.ComputeOp) (string, error) {
			ws, err := weights(cmd, g)
			if err != nil {
				return "", err
			}
			pairs, err := graph.FusibleDims(op.Output(0), ws)
			if err != nil {
				return "", err
			}
			return fmt.Sprint(pairs), nil
		})
}

func newOccurCmd() *cobra.Command {
	return perOpCmd("occur", "Count how many times compute operations read their inputs.",
		func(_ *cobra.Command, _ *tefile.Graph, op *te.ComputeOp) (string, error) {
			inputs := op.InputTensors()
			occur, err := graph.CountInputOccur(inputs, op)
			if err != nil {
				return "", err
			}
			return occurString(inputs, occur), nil
		})
}

func findAxis(op *te.ComputeOp, name string) (*te.IterVar, error) {
	iv, ok := iter.First(iter.Filter(iter.Concat(op.Axis, op.ReduceAxis), func(iv *te.IterVar) bool {
		return iv.Var.Name == name
	}))
	if !ok {
		return nil, errors.Errorf("operation %s has no axis %s", op.Name(), name)
	}
	return iv, nil
}

func newAxisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "axis FILE OP TENSOR AXIS...",
		Short: "Print the positions at which axes of an operation index a tensor.",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := tefile.Load(args[0])
			if err != nil {
				return err
			}
			ops, err := computeOps(g, args[1:2])
			if err != nil {
				return err
			}
			op := ops[0]
			tensor, err := g.Tensor(args[2])
			if err != nil {
				return err
			}
			axes := make([]*te.IterVar, len(args)-3)
			for i, name := range args[3:] {
				if axes[i], err = findAxis(op, name); err != nil {
					return err
				}
			}
			positions, err := graph.FindAxisIn(axes, tensor, op.Output(0))
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%v\n", positions)
			return nil
		},
	}
}

func newShapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shape FILE TENSOR...",
		Short: "Print the static shapes of tensors.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := tefile.Load(args[0])
			if err != nil {
				return err
			}
			for _, name := range args[1:] {
				t, err := g.Tensor(name)
				if err != nil {
					return err
				}
				shape, err := graph.ConstShape(t)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s: %s%v\n", name, te.DTypeName(shape.DType), shape.AxisLengths)
			}
			return nil
		},
	}
}
