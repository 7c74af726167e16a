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

package ordered

import "iter"

// Set is a set of elements iterated in the order in which they have been first added.
type Set[K comparable] struct {
	keys []K
	in   map[K]bool
}

// NewSet returns a new set containing the given elements.
func NewSet[K comparable](elems ...K) *Set[K] {
	s := &Set[K]{in: make(map[K]bool)}
	for _, elem := range elems {
		s.Add(elem)
	}
	return s
}

// Add an element to the set. Returns false if the element was already in the set.
func (s *Set[K]) Add(k K) bool {
	if s.in[k] {
		return false
	}
	s.in[k] = true
	s.keys = append(s.keys, k)
	return true
}

// Has returns true if the set contains k.
func (s *Set[K]) Has(k K) bool {
	return s.in[k]
}

// All returns an iterator over the elements of the set.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range s.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Slice returns the elements of the set in insertion order.
func (s *Set[K]) Slice() []K {
	return append([]K(nil), s.keys...)
}

// Size returns the number of elements in the set.
func (s *Set[K]) Size() int {
	return len(s.keys)
}
