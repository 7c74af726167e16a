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


// Package scope provides nested namespaces.
package scope

import (
	"iter"

	"github.com/gx-org/tegraph/base/ordered"
	"github.com/pkg/errors"
)

// ErrRedefined is returned when a name is defined twice in the same scope.
var ErrRedefined = errors.New("redefined")

// Scope maps names to values.
// A name not found in a scope is looked up in its parent recursively.
type Scope[V any] struct {
	parent *Scope[V]
	local  *ordered.Map[string, V]
}

// New returns a new scope given a parent, which can be nil.
func New[V any](parent *Scope[V]) *Scope[V] {
	return &Scope[V]{
		parent: parent,
		local:  ordered.NewMap[string, V](),
	}
}

// NewChild returns a new scope with s as its parent.
func (s *Scope[V]) NewChild() *Scope[V] {
	return New(s)
}

// Define maps a name to a value in the local scope.
// A name can shadow a name of a parent scope but cannot be defined twice locally.
func (s *Scope[V]) Define(name string, v V) error {
	if s.local.Has(name) {
		return errors.Wrapf(ErrRedefined, "%s", name)
	}
	s.local.Store(name, v)
	return nil
}

// Find returns the value of a name, looking up the parents if the name is not local.
func (s *Scope[V]) Find(name string) (v V, ok bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok = cur.local.Load(name); ok {
			return v, true
		}
	}
	return v, false
}

// IsLocal returns true if the name is defined in the local scope.
func (s *Scope[V]) IsLocal(name string) bool {
	return s.local.Has(name)
}

// LocalKeys returns the names of the local scope in definition order.
func (s *Scope[V]) LocalKeys() iter.Seq[string] {
	return s.local.Keys()
}

// LocalValues returns the values of the local scope in definition order.
func (s *Scope[V]) LocalValues() iter.Seq[V] {
	return s.local.Values()
}
