// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"fmt"
	"math"
)

// VarType is the domain kind of a decision variable.
type VarType int

const (
	// Continuous variable takes any real value within its bounds.
	Continuous VarType = iota
	// Binary variable takes value 0 or 1.
	Binary
	// Integer variable takes integral value within its bounds.
	Integer
)

func (t VarType) String() string {
	switch t {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	}
	return fmt.Sprintf("VarType(%d)", int(t))
}

// ParseVarType is the inverse of VarType.String.
func ParseVarType(s string) (VarType, bool) {
	for _, t := range []VarType{Continuous, Binary, Integer} {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// Sense is the optimization direction of an objective.
type Sense int

const (
	Minimize Sense = 1
	Maximize Sense = -1
)

func (s Sense) String() string {
	if s == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Comparison is the relation between the left and the right hand side of a constraint.
type Comparison int

const (
	LE Comparison = iota // 𝒇(𝐱) ≤ b
	EQ                   // 𝒇(𝐱) = b
	GE                   // 𝒇(𝐱) ≥ b
)

func (c Comparison) String() string {
	switch c {
	case LE:
		return "<="
	case EQ:
		return "=="
	case GE:
		return ">="
	}
	return fmt.Sprintf("Comparison(%d)", int(c))
}

// ParseComparison accepts the operator forms printed by Comparison.String
// together with their common aliases.
func ParseComparison(s string) (Comparison, bool) {
	switch s {
	case "<=", "le", "LE":
		return LE, true
	case "==", "=", "eq", "EQ":
		return EQ, true
	case ">=", "ge", "GE":
		return GE, true
	}
	return 0, false
}

// Pair is an unordered pair of variable indices with I ≤ J.
type Pair struct {
	I, J int
}

// NewPair canonicalizes the pair so that I ≤ J.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{i, j}
}

// Bound represents the bounds for a decision variable.
type Bound struct {
	Lower, Upper float64
}

var unbounded = Bound{0, math.Inf(1)}
