// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qp provides an in-memory model of quadratic programs:
//
//	minimize / maximize  c + ∑ lᵢxᵢ + ∑ qᵢⱼxᵢxⱼ
//	subject to           ∑ aᵢxᵢ (≤, =, ≥) b
//	                     ∑ aᵢxᵢ + ∑ hᵢⱼxᵢxⱼ (≤, =, ≥) b
//	                     xᵢ ∈ {continuous, binary, integer}, lᵢ ≤ xᵢ ≤ uᵢ
//
// Coefficient maps only ever hold non-zero entries and quadratic terms are
// keyed by unordered Pair, so xᵢxⱼ and xⱼxᵢ share one entry.
package qp

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownVariable is returned when a coefficient references an index outside the problem.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrDuplicateName is returned when a variable or constraint name is already taken.
	ErrDuplicateName = errors.New("duplicate name")
)

// Variable is a decision variable of a Problem.
type Variable struct {
	Name  string
	Index int
	Type  VarType
	Bound
}

// Objective is the function to be optimized.
type Objective struct {
	Sense     Sense
	Constant  float64
	Linear    map[int]float64
	Quadratic map[Pair]float64
}

// LinearConstraint is 𝐚ᵀ𝐱 (≤, =, ≥) b.
type LinearConstraint struct {
	Name   string
	Linear map[int]float64
	Sense  Comparison
	RHS    float64
}

// QuadraticConstraint is 𝐚ᵀ𝐱 + 𝐱ᵀ𝐇𝐱 (≤, =, ≥) b.
type QuadraticConstraint struct {
	Name      string
	Linear    map[int]float64
	Quadratic map[Pair]float64
	Sense     Comparison
	RHS       float64
}

// Problem is a quadratic program.
// Variables keep their creation order; Index of a variable is its position.
type Problem struct {
	Name string

	vars  []Variable
	names map[string]int
	obj   Objective
	lin   []LinearConstraint
	quad  []QuadraticConstraint
	cons  map[string]struct{}
}

// New creates an empty minimization problem.
func New(name string) *Problem {
	return &Problem{
		Name:  name,
		names: map[string]int{},
		cons:  map[string]struct{}{},
		obj:   Objective{Sense: Minimize, Linear: map[int]float64{}, Quadratic: map[Pair]float64{}},
	}
}

// NumVars returns the number of variables.
func (p *Problem) NumVars() int { return len(p.vars) }

// Variables returns the variables in creation order.
func (p *Problem) Variables() []Variable {
	return append([]Variable(nil), p.vars...)
}

// Var returns the variable at index i.
func (p *Problem) Var(i int) Variable { return p.vars[i] }

// VarIndex looks up a variable by name.
func (p *Problem) VarIndex(name string) (int, bool) {
	i, ok := p.names[name]
	return i, ok
}

// Objective returns a copy of the objective.
func (p *Problem) Objective() Objective {
	return Objective{
		Sense:     p.obj.Sense,
		Constant:  p.obj.Constant,
		Linear:    copyLinear(p.obj.Linear),
		Quadratic: copyQuadratic(p.obj.Quadratic),
	}
}

// LinearConstraints returns copies of the linear constraints in insertion order.
func (p *Problem) LinearConstraints() []LinearConstraint {
	out := make([]LinearConstraint, len(p.lin))
	for k, c := range p.lin {
		c.Linear = copyLinear(c.Linear)
		out[k] = c
	}
	return out
}

// QuadraticConstraints returns copies of the quadratic constraints in insertion order.
func (p *Problem) QuadraticConstraints() []QuadraticConstraint {
	out := make([]QuadraticConstraint, len(p.quad))
	for k, c := range p.quad {
		c.Linear = copyLinear(c.Linear)
		c.Quadratic = copyQuadratic(c.Quadratic)
		out[k] = c
	}
	return out
}

// Clone returns a deep copy sharing no mutable state with p.
func (p *Problem) Clone() *Problem {
	q := New(p.Name)
	q.vars = append([]Variable(nil), p.vars...)
	for n, i := range p.names {
		q.names[n] = i
	}
	for n := range p.cons {
		q.cons[n] = struct{}{}
	}
	q.obj = p.Objective()
	if p.lin != nil {
		q.lin = p.LinearConstraints()
	}
	if p.quad != nil {
		q.quad = p.QuadraticConstraints()
	}
	return q
}

// BinaryVar adds a {0,1} variable. An empty name is replaced by x<index>.
func (p *Problem) BinaryVar(name string) (int, error) {
	return p.AddVar(Variable{Name: name, Type: Binary, Bound: Bound{0, 1}})
}

// IntegerVar adds an integer variable in [lower, upper].
func (p *Problem) IntegerVar(name string, lower, upper float64) (int, error) {
	return p.AddVar(Variable{Name: name, Type: Integer, Bound: Bound{lower, upper}})
}

// ContinuousVar adds a real variable in [lower, upper].
func (p *Problem) ContinuousVar(name string, lower, upper float64) (int, error) {
	return p.AddVar(Variable{Name: name, Type: Continuous, Bound: Bound{lower, upper}})
}

// AddVar appends v and returns its index. The Index field of v is ignored.
// The type is stored as given; consumers decide which kinds they support.
func (p *Problem) AddVar(v Variable) (idx int, err error) {
	idx = len(p.vars)
	if v.Name == "" {
		v.Name = fmt.Sprintf("x%d", idx)
	}
	if v.Type == Binary {
		v.Bound = Bound{0, 1}
	}
	if math.IsNaN(v.Lower) {
		v.Lower = unbounded.Lower
	}
	if math.IsNaN(v.Upper) {
		v.Upper = unbounded.Upper
	}

	_, dup := p.names[v.Name]
	switch {
	case dup:
		err = errors.Wrapf(ErrDuplicateName, "variable %q", v.Name)
	case v.Lower > v.Upper:
		err = errors.Errorf("variable %q bound range [%g, %g] has no feasible value", v.Name, v.Lower, v.Upper)
	}
	if err != nil {
		return -1, err
	}

	v.Index = idx
	p.vars = append(p.vars, v)
	p.names[v.Name] = idx
	return idx, nil
}

// LinearConstraint appends 𝐚ᵀ𝐱 (sense) rhs. An empty name is replaced by c<n>.
func (p *Problem) LinearConstraint(name string, linear map[int]float64, sense Comparison, rhs float64) error {
	if name == "" {
		name = fmt.Sprintf("c%d", len(p.lin))
	}
	if err := p.checkConstraint(name, sense, rhs); err != nil {
		return err
	}
	a, err := p.normLinear(linear)
	if err != nil {
		return errors.Wrapf(err, "constraint %q", name)
	}
	p.lin = append(p.lin, LinearConstraint{Name: name, Linear: a, Sense: sense, RHS: rhs})
	p.cons[name] = struct{}{}
	return nil
}

// QuadraticConstraint appends 𝐚ᵀ𝐱 + 𝐱ᵀ𝐇𝐱 (sense) rhs. An empty name is replaced by q<n>.
func (p *Problem) QuadraticConstraint(name string, linear map[int]float64, quadratic map[Pair]float64, sense Comparison, rhs float64) error {
	if name == "" {
		name = fmt.Sprintf("q%d", len(p.quad))
	}
	if err := p.checkConstraint(name, sense, rhs); err != nil {
		return err
	}
	a, err := p.normLinear(linear)
	if err != nil {
		return errors.Wrapf(err, "constraint %q", name)
	}
	h, err := p.normQuadratic(quadratic)
	if err != nil {
		return errors.Wrapf(err, "constraint %q", name)
	}
	p.quad = append(p.quad, QuadraticConstraint{Name: name, Linear: a, Quadratic: h, Sense: sense, RHS: rhs})
	p.cons[name] = struct{}{}
	return nil
}

// Minimize sets the objective to minimize c + 𝐥ᵀ𝐱 + 𝐱ᵀ𝐐𝐱.
func (p *Problem) Minimize(constant float64, linear map[int]float64, quadratic map[Pair]float64) error {
	return p.SetObjective(Objective{Sense: Minimize, Constant: constant, Linear: linear, Quadratic: quadratic})
}

// Maximize sets the objective to maximize c + 𝐥ᵀ𝐱 + 𝐱ᵀ𝐐𝐱.
func (p *Problem) Maximize(constant float64, linear map[int]float64, quadratic map[Pair]float64) error {
	return p.SetObjective(Objective{Sense: Maximize, Constant: constant, Linear: linear, Quadratic: quadratic})
}

// SetObjective replaces the objective. Input maps are copied.
func (p *Problem) SetObjective(obj Objective) error {
	if obj.Sense != Minimize && obj.Sense != Maximize {
		return errors.Errorf("unknown objective sense %d", int(obj.Sense))
	}
	l, err := p.normLinear(obj.Linear)
	if err != nil {
		return errors.Wrap(err, "objective")
	}
	q, err := p.normQuadratic(obj.Quadratic)
	if err != nil {
		return errors.Wrap(err, "objective")
	}
	p.obj = Objective{Sense: obj.Sense, Constant: obj.Constant, Linear: l, Quadratic: q}
	return nil
}

func (p *Problem) checkConstraint(name string, sense Comparison, rhs float64) (err error) {
	_, dup := p.cons[name]
	switch {
	case dup:
		err = errors.Wrapf(ErrDuplicateName, "constraint %q", name)
	case sense != LE && sense != EQ && sense != GE:
		err = errors.Errorf("constraint %q has unknown sense %d", name, int(sense))
	case math.IsNaN(rhs):
		err = errors.Errorf("constraint %q has NaN right hand side", name)
	}
	return
}

func (p *Problem) normLinear(linear map[int]float64) (map[int]float64, error) {
	out := make(map[int]float64, len(linear))
	for i, v := range linear {
		if i < 0 || i >= len(p.vars) {
			return nil, errors.Wrapf(ErrUnknownVariable, "index %d", i)
		}
		if v != 0 {
			out[i] = v
		}
	}
	return out, nil
}

func (p *Problem) normQuadratic(quadratic map[Pair]float64) (map[Pair]float64, error) {
	out := make(map[Pair]float64, len(quadratic))
	for k, v := range quadratic {
		if k.I < 0 || k.I >= len(p.vars) || k.J < 0 || k.J >= len(p.vars) {
			return nil, errors.Wrapf(ErrUnknownVariable, "pair (%d, %d)", k.I, k.J)
		}
		out[NewPair(k.I, k.J)] += v
	}
	for k, v := range out {
		if v == 0 {
			delete(out, k)
		}
	}
	return out, nil
}

func copyLinear(m map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyQuadratic(m map[Pair]float64) map[Pair]float64 {
	out := make(map[Pair]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
