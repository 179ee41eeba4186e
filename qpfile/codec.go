// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qpfile

import (
	"io"
	"math"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/curioloop/qubo/qp"
)

// Read decodes a YAML or JSON document into a problem.
func Read(r io.Reader) (*qp.Problem, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read problem")
	}
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "decode problem")
	}
	return doc.Problem()
}

// Write encodes p as YAML.
func Write(w io.Writer, p *qp.Problem) error {
	b, err := yaml.Marshal(FromProblem(p))
	if err != nil {
		return errors.Wrap(err, "encode problem")
	}
	_, err = w.Write(b)
	return errors.Wrap(err, "write problem")
}

// Load reads a problem from a file.
func Load(path string) (*qp.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open problem")
	}
	defer f.Close()
	p, err := Read(f)
	return p, errors.Wrapf(err, "load %s", path)
}

// Save writes a problem to a file.
func Save(path string, p *qp.Problem) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create problem")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "close problem")
		}
	}()
	return Write(f, p)
}

// FromProblem builds the document of p.
func FromProblem(p *qp.Problem) Document {
	vars := p.Variables()
	name := func(i int) string { return vars[i].Name }

	doc := Document{Name: p.Name, Variables: make([]VariableDoc, len(vars))}
	for i, v := range vars {
		vd := VariableDoc{Name: v.Name, Type: v.Type.String()}
		if v.Type != qp.Binary {
			lo, up := Limit(v.Lower), Limit(v.Upper)
			vd.Lower, vd.Upper = &lo, &up
		}
		doc.Variables[i] = vd
	}

	obj := p.Objective()
	doc.Objective = ObjectiveDoc{
		Sense:     obj.Sense.String(),
		Constant:  obj.Constant,
		Linear:    linearDoc(obj.Linear, name),
		Quadratic: quadraticDoc(obj.Quadratic, name),
	}

	for _, c := range p.LinearConstraints() {
		doc.LinearConstraints = append(doc.LinearConstraints, LinearConstraintDoc{
			Name:   c.Name,
			Linear: linearDoc(c.Linear, name),
			Sense:  c.Sense.String(),
			RHS:    c.RHS,
		})
	}
	for _, c := range p.QuadraticConstraints() {
		doc.QuadraticConstraints = append(doc.QuadraticConstraints, QuadraticConstraintDoc{
			Name:      c.Name,
			Linear:    linearDoc(c.Linear, name),
			Quadratic: quadraticDoc(c.Quadratic, name),
			Sense:     c.Sense.String(),
			RHS:       c.RHS,
		})
	}
	return doc
}

// Problem builds the problem described by the document.
func (d Document) Problem() (*qp.Problem, error) {

	p := qp.New(d.Name)
	for _, vd := range d.Variables {
		typ, ok := qp.ParseVarType(vd.Type)
		if !ok {
			return nil, errors.Errorf("variable %q has unknown type %q", vd.Name, vd.Type)
		}
		v := qp.Variable{Name: vd.Name, Type: typ, Bound: qp.Bound{Lower: math.NaN(), Upper: math.NaN()}}
		if vd.Lower != nil {
			v.Lower = float64(*vd.Lower)
		}
		if vd.Upper != nil {
			v.Upper = float64(*vd.Upper)
		}
		if _, err := p.AddVar(v); err != nil {
			return nil, err
		}
	}

	sense := qp.Minimize
	switch d.Objective.Sense {
	case "", "minimize", "min":
	case "maximize", "max":
		sense = qp.Maximize
	default:
		return nil, errors.Errorf("unknown objective sense %q", d.Objective.Sense)
	}
	lin, err := linearOf(p, d.Objective.Linear)
	if err != nil {
		return nil, errors.Wrap(err, "objective")
	}
	quad, err := quadraticOf(p, d.Objective.Quadratic)
	if err != nil {
		return nil, errors.Wrap(err, "objective")
	}
	if err := p.SetObjective(qp.Objective{Sense: sense, Constant: d.Objective.Constant, Linear: lin, Quadratic: quad}); err != nil {
		return nil, err
	}

	for _, cd := range d.LinearConstraints {
		cmp, ok := qp.ParseComparison(cd.Sense)
		if !ok {
			return nil, errors.Errorf("constraint %q has unknown sense %q", cd.Name, cd.Sense)
		}
		lin, err := linearOf(p, cd.Linear)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %q", cd.Name)
		}
		if err := p.LinearConstraint(cd.Name, lin, cmp, cd.RHS); err != nil {
			return nil, err
		}
	}

	for _, cd := range d.QuadraticConstraints {
		cmp, ok := qp.ParseComparison(cd.Sense)
		if !ok {
			return nil, errors.Errorf("constraint %q has unknown sense %q", cd.Name, cd.Sense)
		}
		lin, err := linearOf(p, cd.Linear)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %q", cd.Name)
		}
		quad, err := quadraticOf(p, cd.Quadratic)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %q", cd.Name)
		}
		if err := p.QuadraticConstraint(cd.Name, lin, quad, cmp, cd.RHS); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func linearDoc(m map[int]float64, name func(int) string) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for i, v := range m {
		out[name(i)] = v
	}
	return out
}

func quadraticDoc(m map[qp.Pair]float64, name func(int) string) []TermDoc {
	var out []TermDoc
	for _, k := range qp.SortedPairs(m) {
		out = append(out, TermDoc{I: name(k.I), J: name(k.J), Coef: m[k]})
	}
	return out
}

func lookup(p *qp.Problem, name string) (int, error) {
	i, ok := p.VarIndex(name)
	if !ok {
		return -1, errors.Wrapf(qp.ErrUnknownVariable, "%q", name)
	}
	return i, nil
}

func linearOf(p *qp.Problem, m map[string]float64) (map[int]float64, error) {
	out := make(map[int]float64, len(m))
	for n, v := range m {
		i, err := lookup(p, n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func quadraticOf(p *qp.Problem, terms []TermDoc) (map[qp.Pair]float64, error) {
	out := make(map[qp.Pair]float64, len(terms))
	for _, t := range terms {
		i, err := lookup(p, t.I)
		if err != nil {
			return nil, err
		}
		j, err := lookup(p, t.J)
		if err != nil {
			return nil, err
		}
		out[qp.NewPair(i, j)] += t.Coef
	}
	return out, nil
}
