// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/qubo/qp"
)

// DefaultPenalty is used when the automatic bound cannot be trusted.
const DefaultPenalty = 1e5

// EstimatePenalty returns a multiplier λ large enough that violating an
// absorbed constraint by one unit outweighs any variation of the objective:
//
//	λ = 1 + ∑ |lᵢ| + ∑ |qᵢⱼ|
//
// The bound assumes integer spaced constraint margins. When any linear
// constraint coefficient or right hand side is not integral, DefaultPenalty is
// returned and imprecise is set.
func EstimatePenalty(p *qp.Problem) (penalty float64, imprecise bool) {

	for _, c := range p.LinearConstraints() {
		if !integral(c.RHS) {
			return DefaultPenalty, true
		}
		for _, a := range c.Linear {
			if !integral(a) {
				return DefaultPenalty, true
			}
		}
	}

	obj := p.Objective()
	terms := make([]float64, 0, 1+len(obj.Linear)+len(obj.Quadratic))
	terms = append(terms, 1)
	for _, i := range qp.SortedIndices(obj.Linear) {
		terms = append(terms, math.Abs(obj.Linear[i]))
	}
	for _, k := range qp.SortedPairs(obj.Quadratic) {
		terms = append(terms, math.Abs(obj.Quadratic[k]))
	}
	return floats.Sum(terms), false
}

func integral(v float64) bool {
	return !math.IsInf(v, 0) && v == math.Trunc(v)
}
