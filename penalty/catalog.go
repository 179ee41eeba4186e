// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/qubo/qp"
)

// TemplateSpec describes a special constraint over n reference variables v₀…vₙ₋₁
//
//	∑ aₖvₖ (sense) b
//
// together with its penalty decomposition
//
//	P(𝐯) = c + ∑ lₖvₖ + ∑ₖ≤ₘ Qₖₘvₖvₘ
//
// which must be minimal on the feasible assignments and strictly larger elsewhere.
type TemplateSpec struct {
	Name  string
	Coef  []float64     // aₖ, length n
	Sense qp.Comparison // comparison of the constraint
	RHS   float64       // b

	Offset    float64   // c
	Linear    []float64 // lₖ, length n
	Quadratic []float64 // Q in row-major n×n, only the upper triangle is read

	// Clauses is the CNF form of the constraint over binary reference variables.
	// Literal +k / -k denotes vₖ₋₁ / ¬vₖ₋₁. Optional.
	Clauses [][]int
}

// Template is an immutable special constraint pattern with its penalty decomposition.
type Template struct {
	name    string
	coef    *mat.VecDense
	sense   qp.Comparison
	rhs     float64
	offset  float64
	linear  *mat.VecDense
	quad    *mat.SymDense
	clauses [][]int
	support []int // reference positions with aₖ ≠ 0
}

// NewTemplate validates the spec and builds a Template.
// Penalty terms and clauses may only reference positions where aₖ ≠ 0,
// since the other reference variables are not bound at match time.
func NewTemplate(s TemplateSpec) (t *Template, err error) {

	n := len(s.Coef)

	switch {
	case n == 0:
		err = errors.New("template has no reference variable")
	case len(s.Linear) != n:
		err = errors.New("penalty linear size must equal to reference size")
	case len(s.Quadratic) != n*n:
		err = errors.New("penalty quadratic size must equal to reference size squared")
	case s.Sense != qp.LE && s.Sense != qp.EQ && s.Sense != qp.GE:
		err = errors.New("unknown template sense")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "template %q", s.Name)
	}

	t = &Template{
		name:   s.Name,
		coef:   mat.NewVecDense(n, append([]float64(nil), s.Coef...)),
		sense:  s.Sense,
		rhs:    s.RHS,
		offset: s.Offset,
		linear: mat.NewVecDense(n, append([]float64(nil), s.Linear...)),
		quad:   mat.NewSymDense(n, append([]float64(nil), s.Quadratic...)),
	}

	inSupport := make([]bool, n)
	for k, a := range s.Coef {
		if a != 0 {
			inSupport[k] = true
			t.support = append(t.support, k)
		}
	}
	if len(t.support) == 0 {
		return nil, errors.Errorf("template %q has empty support", s.Name)
	}

	for k := 0; k < n; k++ {
		if t.linear.AtVec(k) != 0 && !inSupport[k] {
			return nil, errors.Errorf("template %q penalty linear term v%d outside support", s.Name, k)
		}
		for m := k; m < n; m++ {
			if t.quad.At(k, m) != 0 && (!inSupport[k] || !inSupport[m]) {
				return nil, errors.Errorf("template %q penalty quadratic term v%d·v%d outside support", s.Name, k, m)
			}
		}
	}

	for _, clause := range s.Clauses {
		for _, lit := range clause {
			k := lit
			if k < 0 {
				k = -k
			}
			if k == 0 || k > n || !inSupport[k-1] {
				return nil, errors.Errorf("template %q clause literal %d outside support", s.Name, lit)
			}
		}
		t.clauses = append(t.clauses, append([]int(nil), clause...))
	}
	return t, nil
}

func mustTemplate(s TemplateSpec) *Template {
	t, err := NewTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Size returns the number of reference variables.
func (t *Template) Size() int { return t.coef.Len() }

// Sense returns the comparison of the constraint pattern.
func (t *Template) Sense() qp.Comparison { return t.sense }

// RHS returns the right hand side of the constraint pattern.
func (t *Template) RHS() float64 { return t.rhs }

// Offset returns the constant term of the penalty decomposition.
func (t *Template) Offset() float64 { return t.offset }

// Clauses returns a copy of the CNF form, or nil if the template has none.
func (t *Template) Clauses() [][]int {
	if t.clauses == nil {
		return nil
	}
	out := make([][]int, len(t.clauses))
	for i, c := range t.clauses {
		out[i] = append([]int(nil), c...)
	}
	return out
}

// Penalty evaluates P(𝐯) at a reference assignment.
func (t *Template) Penalty(v []float64) float64 {
	if len(v) != t.Size() {
		panic("reference assignment dimension not match template")
	}
	x := mat.NewVecDense(len(v), append([]float64(nil), v...))
	p := t.offset + mat.Dot(t.linear, x)
	for k := 0; k < len(v); k++ {
		for m := k; m < len(v); m++ {
			p += t.quad.At(k, m) * v[k] * v[m]
		}
	}
	return p
}

// Feasible reports whether a reference assignment satisfies the constraint pattern.
func (t *Template) Feasible(v []float64) bool {
	c := qp.LinearConstraint{Linear: map[int]float64{}, Sense: t.sense, RHS: t.rhs}
	for _, k := range t.support {
		c.Linear[k] = t.coef.AtVec(k)
	}
	return c.Satisfied(v, 0)
}

func (t *Template) String() string {
	s := ""
	for _, k := range t.support {
		a := t.coef.AtVec(k)
		switch {
		case s == "" && a == 1:
			s = fmt.Sprintf("v%d", k)
		case s == "":
			s = fmt.Sprintf("%g·v%d", a, k)
		case a == 1:
			s += fmt.Sprintf(" + v%d", k)
		default:
			s += fmt.Sprintf(" + %g·v%d", a, k)
		}
	}
	return fmt.Sprintf("%s: %s %s %g", t.name, s, t.sense, t.rhs)
}

// The shipped catalog. Both patterns are exact over binary variables:
//
//	v₀ + v₁ ≤ 1  →  1 + v₀v₁                (1 when feasible, 2 when v₀ = v₁ = 1)
//	v₀ + v₁ ≥ 1  →  1 − v₀ − v₁ + v₀v₁      ((1−v₀)(1−v₁), 0 when feasible)
var catalog = []*Template{
	mustTemplate(TemplateSpec{
		Name:   "at-most-one",
		Coef:   []float64{1, 1, 0},
		Sense:  qp.LE,
		RHS:    1,
		Offset: 1,
		Linear: []float64{0, 0, 0},
		Quadratic: []float64{
			0, 1, 0,
			0, 0, 0,
			0, 0, 0,
		},
		Clauses: [][]int{{-1, -2}},
	}),
	mustTemplate(TemplateSpec{
		Name:   "at-least-one",
		Coef:   []float64{1, 1, 0},
		Sense:  qp.GE,
		RHS:    1,
		Offset: 1,
		Linear: []float64{-1, -1, 0},
		Quadratic: []float64{
			0, 1, 0,
			0, 0, 0,
			0, 0, 0,
		},
		Clauses: [][]int{{1, 2}},
	}),
}

// Catalog returns the shipped templates in matching order.
func Catalog() []*Template {
	return append([]*Template(nil), catalog...)
}
