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

package uname_test

import (
	"testing"

	"github.com/gx-org/tegraph/base/uname"
)

func TestName(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{name: "a", want: "a"},
		{name: "a", want: "a1"},
		{name: "a", want: "a3"},
		{name: "b", want: "b"},
		{name: "b", want: "b1"},
		{name: "a2", want: "a21"},
		{name: "c", want: "c"},
	}
	unames := uname.New()
	unames.Register("a2")
	for i, test := range tests {
		got := unames.Name(test.name)
		if got != test.want {
			t.Errorf("test %d: for name %s, got %s but want %s", i, test.name, got, test.want)
		}
	}
}

func TestNames(t *testing.T) {
	type key struct{ id int }
	k1, k2, k3 := &key{1}, &key{2}, &key{3}
	tests := []struct {
		key  *key
		root string
		want string
	}{
		{key: k1, root: "i", want: "i"},
		{key: k2, root: "i", want: "i1"},
		{key: k1, root: "i", want: "i"},
		{key: k3, root: "j", want: "j"},
		{key: k2, root: "other", want: "i1"},
	}
	names := uname.NewNames[*key]()
	for i, test := range tests {
		got := names.Name(test.key, test.root)
		if got != test.want {
			t.Errorf("test %d: got %s but want %s", i, got, test.want)
		}
	}
}
