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


package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gx-org/tegraph/tools/tegraph/cmd"
	"github.com/stretchr/testify/require"
)

const diamondSrc = `
version: v1.0.0
tensors:
  - {name: P, dtype: float32, shape: [4, 8]}
  - {name: W, dtype: float32, shape: [8, 16]}
ops:
  - name: C
    dtype: float32
    axes: [{name: i, extent: "4"}, {name: j, extent: "8"}]
    body: ["exp(P[i, j])"]
  - name: A
    dtype: float32
    axes: [{name: i, extent: "4"}, {name: j, extent: "16"}]
    reduce_axes: [{name: k, extent: "8"}]
    body: ["sum(C[i, k] * W[k, j], k)"]
  - name: B
    dtype: float32
    axes: [{name: i, extent: "4"}, {name: j, extent: "8"}]
    body: ["C[i, j] + C[i, j]"]
  - name: R
    dtype: float32
    axes: [{name: i, extent: "4"}]
    reduce_axes: [{name: k, extent: "8"}]
    body: ["sum(A[i, k] + B[i, k], k)"]
outputs: [R]
weights: [W]
`

func writeGraph(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := cmd.New()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	path := writeGraph(t, diamondSrc)
	tests := []struct {
		args []string
		want string
	}{
		{
			args: []string{"dag", path},
			want: "C -> A, B\nA -> R\nB -> R\nR\n",
		},
		{
			args: []string{"dag", path, "--output-first"},
			want: "R\nB -> R\nA -> R\nC -> A, B\n",
		},
		{
			args: []string{"count", path, "C", "A"},
			want: "C: {num_add: 0, num_div: 0, num_mul: 0, num_branch: 0, num_special: 1, num_logic: 0}\n" +
				"A: {num_add: 0, num_div: 0, num_mul: 1, num_branch: 0, num_special: 0, num_logic: 0}\n",
		},
		{
			args: []string{"batch", path, "A", "R"},
			want: "A: [0 1]\nR: [0]\n",
		},
		{
			args: []string{"fusible", path, "A"},
			want: "A: [(1, 1)]\n",
		},
		{
			args: []string{"fusible", path, "A", "--weights", "C"},
			want: "A: [(0, 0)]\n",
		},
		{
			args: []string{"occur", path, "B", "A"},
			want: "B: [C:2]\nA: [C:1 W:1]\n",
		},
		{
			args: []string{"axis", path, "A", "W", "k", "j"},
			want: "[0 1]\n",
		},
		{
			args: []string{"shape", path, "A", "P"},
			want: "A: float32[4 16]\nP: float32[4 8]\n",
		},
	}
	for _, test := range tests {
		t.Run(strings.Join(test.args[:1], " "), func(t *testing.T) {
			got, err := run(test.args...)
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestFeatures(t *testing.T) {
	path := writeGraph(t, diamondSrc)
	for _, workers := range []string{"1", "3"} {
		got, err := run("features", path, "--workers", workers)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(got), "\n")
		require.Len(t, lines, 4)
		require.True(t, strings.HasPrefix(lines[0], "C shape=(4, 8) batch=[0 1] fusible=[]"), lines[0])
		require.True(t, strings.HasPrefix(lines[1], "A shape=(4, 16) batch=[0 1] fusible=[(1, 1)]"), lines[1])
		require.Contains(t, lines[1], "inputs=[C:1 W:1]")
		require.True(t, strings.HasPrefix(lines[2], "B "), lines[2])
		require.Contains(t, lines[2], "num_add: 1")
		require.True(t, strings.HasPrefix(lines[3], "R shape=(4) batch=[0]"), lines[3])
	}
}

func TestFeaturesFormat(t *testing.T) {
	path := writeGraph(t, diamondSrc)
	got, err := run("features", path, "--format", "{{.Name}} {{.Counts.Mul}} {{.Shape}}")
	require.NoError(t, err)
	require.Equal(t, "C 0 (4, 8)\nA 1 (4, 16)\nB 0 (4, 8)\nR 0 (4)\n", got)
}

func TestErrors(t *testing.T) {
	path := writeGraph(t, diamondSrc)
	unknown := writeGraph(t, strings.Replace(diamondSrc, "exp(P[i, j])", "erfinv(P[i, j])", 1))
	tests := []struct {
		args []string
		want string
	}{
		{
			args: []string{"count", path, "Z"},
			want: "operation Z undefined",
		},
		{
			args: []string{"batch", path, "P"},
			want: "P is not a compute operation",
		},
		{
			args: []string{"count", unknown, "C"},
			want: "derivative of this intrinsic is not implemented: erfinv",
		},
		{
			args: []string{"features", path, "--workers", "0"},
			want: "invalid number of workers 0",
		},
		{
			args: []string{"axis", path, "A", "W", "z"},
			want: "operation A has no axis z",
		},
		{
			args: []string{"dag", filepath.Join(t.TempDir(), "missing.yaml")},
			want: "missing.yaml",
		},
	}
	for _, test := range tests {
		_, err := run(test.args...)
		require.Error(t, err, "args: %v", test.args)
		require.Contains(t, err.Error(), test.want)
	}
}
