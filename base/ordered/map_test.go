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

package ordered_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/tegraph/base/ordered"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{{"a", 1}, {"b", 2}, {"c", 3}},
			want:    []entry{{"a", 1}, {"b", 2}, {"c", 3}},
		},
		{
			entries: []entry{{"a", 1}, {"b", 2}, {"a", 3}},
			want:    []entry{{"a", 3}, {"b", 2}},
		},
		{
			entries: []entry{{"c", 1}, {"a", 2}, {"c", 3}, {"b", 4}},
			want:    []entry{{"c", 3}, {"a", 2}, {"b", 4}},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, e := range test.entries {
			m.Store(e.k, e.v)
		}
		m = m.Clone()
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}
		var got []entry
		for k, v := range m.Iter() {
			got = append(got, entry{k, v})
		}
		if diff := cmp.Diff(got, test.want, cmp.AllowUnexported(entry{})); diff != "" {
			t.Errorf("test %d: unexpected entries: (-got +want)\n%s", ti, diff)
		}
		wantKeys := make([]string, len(test.want))
		wantValues := make([]int, len(test.want))
		for i, e := range test.want {
			wantKeys[i], wantValues[i] = e.k, e.v
		}
		if gotKeys := slices.Collect(m.Keys()); !cmp.Equal(gotKeys, wantKeys) {
			t.Errorf("test %d: got keys %v but want %v", ti, gotKeys, wantKeys)
		}
		if gotValues := slices.Collect(m.Values()); !cmp.Equal(gotValues, wantValues) {
			t.Errorf("test %d: got values %v but want %v", ti, gotValues, wantValues)
		}
	}
}

func TestMapUpdate(t *testing.T) {
	m := ordered.NewMap[string, []int]()
	appendTo := func(k string, v int) {
		m.Update(k, func(vals []int) []int { return append(vals, v) })
	}
	appendTo("b", 1)
	appendTo("a", 2)
	appendTo("b", 3)
	if !m.Has("a") || m.Has("c") {
		t.Errorf("incorrect key membership")
	}
	got, _ := m.Load("b")
	if !cmp.Equal(got, []int{1, 3}) {
		t.Errorf("got %v but want [1 3]", got)
	}
	if keys := slices.Collect(m.Keys()); !cmp.Equal(keys, []string{"b", "a"}) {
		t.Errorf("got keys %v but want [b a]", keys)
	}
}
