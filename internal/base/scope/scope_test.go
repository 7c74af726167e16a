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


package scope_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/tegraph/internal/base/scope"
	"github.com/pkg/errors"
)

func TestDefine(t *testing.T) {
	s := scope.New[int](nil)
	if err := s.Define("x", 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Define("y", 2); err != nil {
		t.Fatal(err)
	}
	if value, ok := s.Find("x"); value != 1 || !ok {
		t.Errorf("Find('x') = %v, %v, want 1, true", value, ok)
	}
	if value, ok := s.Find("z"); value != 0 || ok {
		t.Errorf("Find('z') = %v, %v, want 0, false", value, ok)
	}
	if err := s.Define("x", 3); !errors.Is(err, scope.ErrRedefined) {
		t.Errorf("got error %v but want %v", err, scope.ErrRedefined)
	}
	if diff := cmp.Diff([]string{"x", "y"}, slices.Collect(s.LocalKeys())); diff != "" {
		t.Errorf("unexpected keys:\n%s", diff)
	}
}

func TestNestedScope(t *testing.T) {
	parent := scope.New[int](nil)
	_ = parent.Define("x", 1)
	_ = parent.Define("z", 20)
	child := parent.NewChild()
	if err := child.Define("z", 30); err != nil {
		t.Errorf("cannot shadow z: %v", err)
	}
	tests := []struct {
		name  string
		want  int
		found bool
		local bool
	}{
		{name: "x", want: 1, found: true},
		{name: "z", want: 30, found: true, local: true},
		{name: "y"},
	}
	for i, test := range tests {
		got, found := child.Find(test.name)
		if got != test.want || found != test.found {
			t.Errorf("test %d: Find(%q) = %d, %t, want %d, %t", i, test.name, got, found, test.want, test.found)
		}
		if local := child.IsLocal(test.name); local != test.local {
			t.Errorf("test %d: IsLocal(%q) = %t, want %t", i, test.name, local, test.local)
		}
	}
	if got, _ := parent.Find("z"); got != 20 {
		t.Errorf("parent z = %d, want 20", got)
	}
	if diff := cmp.Diff([]int{30}, slices.Collect(child.LocalValues())); diff != "" {
		t.Errorf("unexpected values:\n%s", diff)
	}
}
