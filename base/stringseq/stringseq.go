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


// Package stringseq joins sequences into strings.
package stringseq

import (
	"fmt"
	"iter"
	"strings"
)

// Map returns the strings computed by f for every element of a slice.
func Map[T any](elems []T, f func(T) string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, el := range elems {
			if !yield(f(el)) {
				return
			}
		}
	}
}

// Join concatenates the strings of a sequence, separated by sep.
func Join(seq iter.Seq[string], sep string) string {
	var b strings.Builder
	n := 0
	for s := range seq {
		if n > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s)
		n++
	}
	return b.String()
}

// JoinStringer concatenates the string representations of the elements of a slice.
func JoinStringer[T fmt.Stringer](elems []T, sep string) string {
	return Join(Map(elems, func(el T) string { return el.String() }), sep)
}
