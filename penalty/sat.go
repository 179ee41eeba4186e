// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"math"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/curioloop/qubo/qp"
)

const satisfiable = 1

// CheckSatisfiable decides whether the constraints absorbed by a conversion
// can hold simultaneously, that is whether every penalty term can be at its
// feasible level at once. When they can, witness is an assignment of the
// converted problem satisfying all of them; variables not bound by any
// absorbed constraint take the value of their domain closest to 0.
//
// Every absorbed constraint must bind binary variables only and its template
// must carry a clause form.
func CheckSatisfiable(res *Result) (witness []float64, ok bool, err error) {

	p := res.Problem
	g := gini.New()
	seen := map[int]struct{}{}

	lit := func(ref int, vars []int) z.Lit {
		k := ref
		if k < 0 {
			k = -k
		}
		v := z.Var(vars[k-1] + 1)
		if ref < 0 {
			return v.Neg()
		}
		return v.Pos()
	}

	for _, a := range res.Absorbed {
		clauses := a.Template.Clauses()
		if clauses == nil {
			return nil, false, errors.Wrapf(ErrNoClauseForm, "constraint %q template %q", a.Constraint, a.Template.Name())
		}
		for _, i := range a.Vars {
			if i < 0 {
				continue
			}
			if v := p.Var(i); v.Type != qp.Binary {
				return nil, false, errors.Wrapf(ErrNotBinary, "constraint %q variable %q is %s", a.Constraint, v.Name, v.Type)
			}
			seen[i] = struct{}{}
		}
		for _, clause := range clauses {
			for _, ref := range clause {
				g.Add(lit(ref, a.Vars))
			}
			g.Add(z.LitNull)
		}
	}

	if g.Solve() != satisfiable {
		return nil, false, nil
	}

	witness = make([]float64, p.NumVars())
	for i, v := range p.Variables() {
		if _, ok := seen[i]; ok {
			if g.Value(z.Var(i + 1).Pos()) {
				witness[i] = 1
			}
			continue
		}
		witness[i] = math.Max(v.Lower, math.Min(v.Upper, 0))
	}
	return witness, true, nil
}
