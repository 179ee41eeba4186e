// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnsupportedVariableType is returned by Convert for variables outside {continuous, binary, integer}.
	ErrUnsupportedVariableType = errors.New("unsupported variable type")
	// ErrDimensionMismatch is returned by Interpret when the solution length differs from the original problem.
	ErrDimensionMismatch = errors.New("solution dimension mismatch")
	// ErrInvalidPenalty is returned for a fixed penalty that is not a finite positive number.
	ErrInvalidPenalty = errors.New("invalid penalty")
	// ErrNotBinary is returned by CheckSatisfiable when an absorbed constraint binds a non-binary variable.
	ErrNotBinary = errors.New("absorbed constraint over non-binary variable")
	// ErrNoClauseForm is returned by CheckSatisfiable for templates without a CNF form.
	ErrNoClauseForm = errors.New("template has no clause form")
)

// Penalty selects how the multiplier λ is obtained: estimated on every
// conversion (Auto) or a fixed value (Fixed).
type Penalty struct {
	value float64
	fixed bool
}

// Auto estimates the penalty from the source problem on every conversion.
func Auto() Penalty { return Penalty{} }

// Fixed uses λ = v on every conversion.
func Fixed(v float64) Penalty { return Penalty{value: v, fixed: true} }

// Value returns the fixed multiplier. ok is false in Auto mode.
func (p Penalty) Value() (v float64, ok bool) { return p.value, p.fixed }

// IsAuto reports whether the penalty is estimated per conversion.
func (p Penalty) IsAuto() bool { return !p.fixed }

func (p Penalty) String() string {
	if !p.fixed {
		return "auto"
	}
	return strconv.FormatFloat(p.value, 'g', -1, 64)
}

func (p Penalty) validate() error {
	if p.fixed && (math.IsNaN(p.value) || math.IsInf(p.value, 0) || p.value <= 0) {
		return errors.Wrapf(ErrInvalidPenalty, "%g must be finite and positive", p.value)
	}
	return nil
}

// Option configures a Converter.
type Option func(*Converter)

// WithPenalty sets the penalty mode, Auto by default.
func WithPenalty(p Penalty) Option {
	return func(c *Converter) { c.penalty = p }
}

// WithLogger sets the logger receiving trace events, logrus.StandardLogger by default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithMetrics reports conversion counters to m.
func WithMetrics(m *Metrics) Option {
	return func(c *Converter) { c.metrics = m }
}

// WithCatalog replaces the shipped catalog. Templates are tried in the given order.
func WithCatalog(templates ...*Template) Option {
	return func(c *Converter) { c.catalog = append([]*Template(nil), templates...) }
}
