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

// Package uname provides unique names.
package uname

import "fmt"

// Unique generates unique names.
type Unique struct {
	taken map[string]bool
	next  map[string]int
}

// New name generator.
func New() *Unique {
	return &Unique{
		taken: make(map[string]bool),
		next:  make(map[string]int),
	}
}

// Register reserves a name so that it is never returned by Name.
func (n *Unique) Register(name string) {
	n.taken[name] = true
}

// Name returns a unique name given a desired base name.
// If the base name is available, it is returned directly. Else, a unique suffix is appended.
func (n *Unique) Name(root string) string {
	if !n.taken[root] {
		n.taken[root] = true
		return root
	}
	for {
		next := max(n.next[root], 1)
		n.next[root] = next + 1
		name := fmt.Sprintf("%s%d", root, next)
		if !n.taken[name] {
			n.taken[name] = true
			return name
		}
	}
}

// Names assigns a unique name to each key.
// The same key is always assigned the same name.
type Names[K comparable] struct {
	unique   *Unique
	assigned map[K]string
}

// NewNames returns a new name assignment.
func NewNames[K comparable]() *Names[K] {
	return &Names[K]{
		unique:   New(),
		assigned: make(map[K]string),
	}
}

// Name returns the name assigned to key, using root if the key has not been named yet.
func (n *Names[K]) Name(key K, root string) string {
	if name, ok := n.assigned[key]; ok {
		return name
	}
	name := n.unique.Name(root)
	n.assigned[key] = name
	return name
}
