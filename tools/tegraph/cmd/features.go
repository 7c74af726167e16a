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
	"context"
	"fmt"

	"github.com/gx-org/tegraph/base/tmpl"
	"github.com/gx-org/tegraph/graph"
	"github.com/gx-org/tegraph/te"
	"github.com/gx-org/tegraph/te/tefile"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// computeFeatures extracts the features of every operation using at most workers goroutines.
// Features are returned in the order of ops.
func computeFeatures(ctx context.Context, ops []*te.ComputeOp, weights []te.Tensor, workers int) ([]*graph.OpFeatures, error) {
	if workers < 1 {
		return nil, errors.Errorf("invalid number of workers %d: must be at least 1", workers)
	}
	feats := make([]*graph.OpFeatures, len(ops))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, op := range ops {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := graph.Features(op.Output(0), weights)
			if err != nil {
				return err
			}
			feats[i] = f
			log.Debugf("features of %s extracted", op.Name())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return feats, nil
}

func featuresString(f *graph.OpFeatures) string {
	return fmt.Sprintf("%s shape=%s batch=%v fusible=%v counts=%s inputs=%s",
		f.Name, f.Shape, f.BatchLikeDims, f.FusibleDims, f.Counts, occurString(f.Inputs, f.InputOccur))
}

func newFeaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features FILE",
		Short: "Print the features of every compute operation in topological order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := tefile.Load(args[0])
			if err != nil {
				return err
			}
			ws, err := weights(cmd, g)
			if err != nil {
				return err
			}
			workers, err := cmd.Flags().GetInt(flagWorkers)
			if err != nil {
				return errors.WithStack(err)
			}
			dag, err := graph.SerializeComputeDAG(g.Roots(), false)
			if err != nil {
				return err
			}
			feats, err := computeFeatures(cmd.Context(), dag.Ops, ws, workers)
			if err != nil {
				return err
			}
			format, err := cmd.Flags().GetString(flagFormat)
			if err != nil {
				return errors.WithStack(err)
			}
			if format == "" {
				for _, f := range feats {
					printf(cmd.OutOrStdout(), "%s\n", featuresString(f))
				}
				return nil
			}
			t, err := tmpl.Parse("format", format)
			if err != nil {
				return err
			}
			return tmpl.Iterate(cmd.OutOrStdout(), feats, t)
		},
	}
	cmd.Flags().Int(flagWorkers, defaultWorkers(), "maximum number of operations processed concurrently")
	cmd.Flags().String(flagFormat, "", "Go template printing the features of an operation, for example '{{.Name}} {{.Counts.Mul}}'")
	return cmd
}
