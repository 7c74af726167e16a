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


// Package cmd implements the commands of the tegraph tool.
package cmd

import (
	"os"
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	flagVerbose     = "verbose"
	flagWeights     = "weights"
	flagOutputFirst = "output-first"
	flagWorkers     = "workers"
	flagFormat      = "format"
)

// New returns the root command of the tool.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:   "tegraph",
		Short: "Structural analysis of tensor expression graphs.",
		Long: `tegraph loads a tensor expression graph from a YAML file and prints
the facts used to schedule its operations: batch-like and fusible axes,
operation counts, input occurrences and the linearized operation DAG.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.BoolP(flagVerbose, "v", false, "increase logging verbosity")
	flags.StringSlice(flagWeights, nil, "tensors to consider as weights (default: weights of the graph file)")
	root.AddCommand(
		newDAGCmd(),
		newCountCmd(),
		newBatchCmd(),
		newFusibleCmd(),
		newAxisCmd(),
		newOccurCmd(),
		newShapeCmd(),
		newFeaturesCmd(),
	)
	return root
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command) {
	log.SetOutput(cmd.ErrOrStderr())
	isTerm := term.IsTerminal(int(os.Stderr.Fd()))
	log.SetFormatter(&log.TextFormatter{
		ForceColors:      isTerm,
		DisableColors:    !isTerm,
		DisableTimestamp: true,
	})
	if getFlag(cmd, flagVerbose) {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		log.Errorf("cannot read flag %s: %v", flag, err)
		return false
	}
	return r
}

func defaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}
