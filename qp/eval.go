// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"math"
	"slices"
)

// Evaluate returns c + ∑ lᵢxᵢ + ∑ qᵢⱼxᵢxⱼ.
func (o Objective) Evaluate(x []float64) float64 {
	return o.Constant + dotLinear(o.Linear, x) + dotQuadratic(o.Quadratic, x)
}

// Evaluate returns the left hand side 𝐚ᵀ𝐱.
func (c LinearConstraint) Evaluate(x []float64) float64 {
	return dotLinear(c.Linear, x)
}

// Satisfied reports whether 𝐚ᵀ𝐱 (sense) b holds within tol.
func (c LinearConstraint) Satisfied(x []float64, tol float64) bool {
	return compare(c.Evaluate(x), c.Sense, c.RHS, tol)
}

// Evaluate returns the left hand side 𝐚ᵀ𝐱 + 𝐱ᵀ𝐇𝐱.
func (c QuadraticConstraint) Evaluate(x []float64) float64 {
	return dotLinear(c.Linear, x) + dotQuadratic(c.Quadratic, x)
}

// Satisfied reports whether 𝐚ᵀ𝐱 + 𝐱ᵀ𝐇𝐱 (sense) b holds within tol.
func (c QuadraticConstraint) Satisfied(x []float64, tol float64) bool {
	return compare(c.Evaluate(x), c.Sense, c.RHS, tol)
}

// Feasible reports whether x lies in every variable domain and satisfies every constraint within tol.
// It panics if len(x) differs from NumVars.
func (p *Problem) Feasible(x []float64, tol float64) bool {
	if len(x) != len(p.vars) {
		panic("solution dimension not match problem")
	}
	for i, v := range p.vars {
		if x[i] < v.Lower-tol || x[i] > v.Upper+tol {
			return false
		}
		if v.Type != Continuous && math.Abs(x[i]-math.Round(x[i])) > tol {
			return false
		}
	}
	for _, c := range p.lin {
		if !c.Satisfied(x, tol) {
			return false
		}
	}
	for _, c := range p.quad {
		if !c.Satisfied(x, tol) {
			return false
		}
	}
	return true
}

// SortedIndices returns the keys of a linear coefficient map in ascending order.
func SortedIndices(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SortedPairs returns the keys of a quadratic coefficient map in ascending (I, J) order.
func SortedPairs(m map[Pair]float64) []Pair {
	keys := make([]Pair, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Pair) int {
		if a.I != b.I {
			return a.I - b.I
		}
		return a.J - b.J
	})
	return keys
}

func dotLinear(m map[int]float64, x []float64) (s float64) {
	for _, i := range SortedIndices(m) {
		s += m[i] * x[i]
	}
	return
}

func dotQuadratic(m map[Pair]float64, x []float64) (s float64) {
	for _, k := range SortedPairs(m) {
		s += m[k] * x[k.I] * x[k.J]
	}
	return
}

func compare(lhs float64, sense Comparison, rhs, tol float64) bool {
	switch sense {
	case LE:
		return lhs <= rhs+tol
	case GE:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}
