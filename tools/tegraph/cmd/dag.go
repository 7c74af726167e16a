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
	"github.com/gx-org/tegraph/graph"
	"github.com/gx-org/tegraph/te/tefile"
	"github.com/spf13/cobra"
)

func newDAGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag FILE",
		Short: "Print the compute operations in topological order with their consumers.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := tefile.Load(args[0])
			if err != nil {
				return err
			}
			dag, err := graph.SerializeComputeDAG(g.Roots(), getFlag(cmd, flagOutputFirst))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, op := range dag.Ops {
				consumers := dag.Consumers(op)
				if len(consumers) == 0 {
					printf(w, "%s\n", op.Name())
					continue
				}
				printf(w, "%s -> %s\n", op.Name(), joinNames(consumers))
			}
			return nil
		},
	}
	cmd.Flags().Bool(flagOutputFirst, false, "list consumers before their producers")
	return cmd
}
