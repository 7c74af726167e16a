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

package te

import "fmt"

// Kind of an expression node.
type Kind uint

// Kinds of expression supported by the tensor expression IR.
const (
	InvalidKind Kind = iota

	IntImmKind
	FloatImmKind
	StringImmKind
	VarKind

	// Binary arithmetic.
	AddKind
	SubKind
	MulKind
	DivKind
	FloorDivKind
	ModKind
	FloorModKind
	MinKind
	MaxKind

	// Binary comparisons.
	EQKind
	NEKind
	LTKind
	LEKind
	GTKind
	GEKind

	// Logic.
	AndKind
	OrKind
	NotKind

	SelectKind
	CastKind
	CallKind
	ReduceKind

	numKinds
)

var kindNames = [numKinds]string{
	InvalidKind:   "invalid",
	IntImmKind:    "int",
	FloatImmKind:  "float",
	StringImmKind: "string",
	VarKind:       "var",
	AddKind:       "+",
	SubKind:       "-",
	MulKind:       "*",
	DivKind:       "/",
	FloorDivKind:  "floordiv",
	ModKind:       "%",
	FloorModKind:  "floormod",
	MinKind:       "min",
	MaxKind:       "max",
	EQKind:        "==",
	NEKind:        "!=",
	LTKind:        "<",
	LEKind:        "<=",
	GTKind:        ">",
	GEKind:        ">=",
	AndKind:       "&&",
	OrKind:        "||",
	NotKind:       "!",
	SelectKind:    "select",
	CastKind:      "cast",
	CallKind:      "call",
	ReduceKind:    "reduce",
}

// String returns a string representation of a kind.
func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", uint(k))
	}
	return kindNames[k]
}

// IsBinary returns true if the kind is a binary operator.
func (k Kind) IsBinary() bool {
	return k >= AddKind && k <= OrKind
}

// IsComparison returns true if the kind compares two values.
func (k Kind) IsComparison() bool {
	return k >= EQKind && k <= GEKind
}

// IsInfix returns true if the operator is printed between its operands.
// Other binary operators are printed as function calls.
func (k Kind) IsInfix() bool {
	switch k {
	case FloorDivKind, FloorModKind, MinKind, MaxKind:
		return false
	}
	return k.IsBinary()
}
