// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package penalty absorbs special linear constraints of a quadratic program
// into its objective as exact penalty terms.
//
// A linear constraint matching a catalog Template is replaced by λ·P(𝐱),
// where P is the template penalty decomposition bound to the constraint
// variables and λ is the penalty multiplier, signed so that infeasible points
// are always worse:
//
//	minimize 𝒇(𝐱)  →  minimize 𝒇(𝐱) + λP(𝐱)
//	maximize 𝒇(𝐱)  →  maximize 𝒇(𝐱) − λP(𝐱)
//
// Linear constraints matching no template and all quadratic constraints are
// copied unchanged, so the converted problem may still be constrained.
package penalty

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/curioloop/qubo/qp"
)

// Converter rewrites problems by absorbing special constraints.
// A Converter is safe for concurrent use.
type Converter struct {
	mu      sync.RWMutex
	penalty Penalty

	catalog []*Template
	logger  logrus.FieldLogger
	metrics *Metrics
}

// Absorption records a linear constraint folded into the objective.
type Absorption struct {
	Constraint string // constraint name
	Index      int    // position among the source linear constraints
	Template   *Template
	Binding
}

// Result is the outcome of one conversion.
type Result struct {
	Problem   *qp.Problem  // the converted problem
	Penalty   float64      // multiplier λ actually applied
	Imprecise bool         // λ fell back to DefaultPenalty
	Absorbed  []Absorption // constraints folded into the objective
	Kept      []string     // linear constraints copied unchanged

	source *qp.Problem
}

// Constrained reports whether the converted problem still carries constraints.
func (r *Result) Constrained() bool {
	return len(r.Problem.LinearConstraints()) > 0 || len(r.Problem.QuadraticConstraints()) > 0
}

// Interpret maps a solution of the converted problem back to the source problem.
func (r *Result) Interpret(x []float64) ([]float64, error) {
	return Interpret(x, r.source)
}

// New creates a Converter.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{catalog: catalog}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}
	if err := c.penalty.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Penalty returns the configured penalty mode.
func (c *Converter) Penalty() Penalty {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.penalty
}

// SetPenalty changes the penalty mode for subsequent conversions.
func (c *Converter) SetPenalty(p Penalty) error {
	if err := p.validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.penalty = p
	c.mu.Unlock()
	return nil
}

// Convert returns a new problem where every special linear constraint of src
// is replaced by a penalty term. src is never modified.
func (c *Converter) Convert(src *qp.Problem) (*Result, error) {

	mode := c.Penalty()
	orig := src.Clone()
	log := c.logger.WithField("problem", orig.Name)

	dst := qp.New(orig.Name)
	for _, v := range orig.Variables() {
		switch v.Type {
		case qp.Continuous, qp.Binary, qp.Integer:
		default:
			return nil, errors.Wrapf(ErrUnsupportedVariableType, "variable %q has type %s", v.Name, v.Type)
		}
		if _, err := dst.AddVar(v); err != nil {
			return nil, errors.Wrap(err, "copy variable")
		}
	}

	lambda, fixed := mode.Value()
	imprecise := false
	if !fixed {
		lambda, imprecise = EstimatePenalty(orig)
		if imprecise {
			log.WithField("penalty", lambda).Warn("using default penalty because constraints have non-integral coefficients; " +
				"the value could be too small, set the penalty manually if so")
			c.metrics.fallback()
		}
	}

	obj := orig.Objective()
	offset, linear, quadratic := obj.Constant, obj.Linear, obj.Quadratic
	scale := senseMultiplier(obj.Sense) * lambda

	res := &Result{Penalty: lambda, Imprecise: imprecise, source: orig}

	for n, con := range orig.LinearConstraints() {
		k, b, ok := Match(c.catalog, con)
		if !ok {
			log.WithFields(logrus.Fields{"constraint": con.Name, "outcome": "kept"}).Debug("linear constraint is not special")
			if err := dst.LinearConstraint(con.Name, con.Linear, con.Sense, con.RHS); err != nil {
				return nil, errors.Wrapf(err, "copy linear constraint")
			}
			res.Kept = append(res.Kept, con.Name)
			c.metrics.kept("linear")
			continue
		}

		t := c.catalog[k]
		log.WithFields(logrus.Fields{"constraint": con.Name, "template": t.Name(), "outcome": "absorbed"}).Debug("linear constraint is special")

		offset += scale * b.Offset
		for i, l := range b.Linear {
			linear[i] += scale * l
		}
		for p, q := range b.Quadratic {
			quadratic[p] += scale * q
		}
		res.Absorbed = append(res.Absorbed, Absorption{Constraint: con.Name, Index: n, Template: t, Binding: b})
		c.metrics.absorbed(t.Name())
	}

	// quadratic constraints are not absorbed
	for _, con := range orig.QuadraticConstraints() {
		if err := dst.QuadraticConstraint(con.Name, con.Linear, con.Quadratic, con.Sense, con.RHS); err != nil {
			return nil, errors.Wrapf(err, "copy quadratic constraint")
		}
		c.metrics.kept("quadratic")
	}

	err := dst.SetObjective(qp.Objective{Sense: obj.Sense, Constant: offset, Linear: linear, Quadratic: quadratic})
	if err != nil {
		return nil, errors.Wrap(err, "set objective")
	}

	res.Problem = dst
	c.metrics.converted(lambda)
	log.WithFields(logrus.Fields{
		"penalty":  lambda,
		"absorbed": len(res.Absorbed),
		"kept":     len(res.Kept),
	}).Debug("conversion done")
	return res, nil
}

// senseMultiplier is +1 for minimization and -1 for maximization.
func senseMultiplier(s qp.Sense) float64 {
	if s == qp.Maximize {
		return -1
	}
	return 1
}

// Interpret maps a solution of a converted problem back to src.
// The conversion keeps every variable in place, so this only validates the dimension.
func Interpret(x []float64, src *qp.Problem) ([]float64, error) {
	if len(x) != src.NumVars() {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %d values, problem has %d variables", len(x), src.NumVars())
	}
	return append([]float64(nil), x...), nil
}
