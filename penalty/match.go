// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"github.com/curioloop/qubo/qp"
)

// Binding is a template penalty decomposition projected onto concrete variables.
type Binding struct {
	// Vars maps reference position k to the bound variable index, -1 when vₖ is outside the support.
	Vars      []int
	Offset    float64
	Linear    map[int]float64
	Quadratic map[qp.Pair]float64
}

// Match reports whether c has the template shape: the same number of non-zero
// coefficients, equal to the reference coefficients under some assignment of
// variables to reference positions, with identical sense and right hand side.
// Coefficients are compared at the template scale, so 2x + 2y ≤ 2 does not match x + y ≤ 1.
// Among valid assignments the first one in ascending variable order is bound.
func (t *Template) Match(c qp.LinearConstraint) (Binding, bool) {

	if c.Sense != t.sense || c.RHS != t.rhs {
		return Binding{}, false
	}

	idx := make([]int, 0, len(c.Linear))
	for _, i := range qp.SortedIndices(c.Linear) {
		if c.Linear[i] != 0 {
			idx = append(idx, i)
		}
	}
	if len(idx) != len(t.support) {
		return Binding{}, false
	}

	vars := make([]int, t.Size())
	for k := range vars {
		vars[k] = -1
	}
	used := make([]bool, len(idx))

	var assign func(s int) bool
	assign = func(s int) bool {
		if s == len(t.support) {
			return true
		}
		k := t.support[s]
		for u, i := range idx {
			if used[u] || c.Linear[i] != t.coef.AtVec(k) {
				continue
			}
			used[u], vars[k] = true, i
			if assign(s + 1) {
				return true
			}
			used[u], vars[k] = false, -1
		}
		return false
	}
	if !assign(0) {
		return Binding{}, false
	}

	return t.bind(vars), true
}

func (t *Template) bind(vars []int) Binding {
	b := Binding{
		Vars:      vars,
		Offset:    t.offset,
		Linear:    map[int]float64{},
		Quadratic: map[qp.Pair]float64{},
	}
	for _, k := range t.support {
		if l := t.linear.AtVec(k); l != 0 {
			b.Linear[vars[k]] += l
		}
	}
	for s, k := range t.support {
		for _, m := range t.support[s:] {
			if q := t.quad.At(k, m); q != 0 {
				b.Quadratic[qp.NewPair(vars[k], vars[m])] += q
			}
		}
	}
	return b
}

// Match tries the templates in order and binds the first one matching c.
// It returns -1 when c is not special.
func Match(templates []*Template, c qp.LinearConstraint) (int, Binding, bool) {
	for k, t := range templates {
		if b, ok := t.Match(c); ok {
			return k, b, true
		}
	}
	return -1, Binding{}, false
}
