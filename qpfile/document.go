// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qpfile reads and writes quadratic programs as YAML (or JSON) documents:
//
//	name: assign
//	variables:
//	  - {name: a, type: binary}
//	  - {name: k, type: integer, lower: 0, upper: inf}
//	objective:
//	  sense: maximize
//	  linear: {a: 2, k: -1}
//	  quadratic: [{i: a, j: k, coef: 3}]
//	linear_constraints:
//	  - {name: pick, linear: {a: 1, k: 1}, sense: "<=", rhs: 1}
//
// Missing lower bounds default to 0 and missing upper bounds to +∞.
package qpfile

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Document is the serialized form of a problem.
type Document struct {
	Name                 string                   `json:"name,omitempty"`
	Variables            []VariableDoc            `json:"variables"`
	Objective            ObjectiveDoc             `json:"objective"`
	LinearConstraints    []LinearConstraintDoc    `json:"linear_constraints,omitempty"`
	QuadraticConstraints []QuadraticConstraintDoc `json:"quadratic_constraints,omitempty"`
}

type VariableDoc struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Lower *Limit `json:"lower,omitempty"`
	Upper *Limit `json:"upper,omitempty"`
}

type TermDoc struct {
	I    string  `json:"i"`
	J    string  `json:"j"`
	Coef float64 `json:"coef"`
}

type ObjectiveDoc struct {
	Sense     string             `json:"sense,omitempty"`
	Constant  float64            `json:"constant,omitempty"`
	Linear    map[string]float64 `json:"linear,omitempty"`
	Quadratic []TermDoc          `json:"quadratic,omitempty"`
}

type LinearConstraintDoc struct {
	Name   string             `json:"name,omitempty"`
	Linear map[string]float64 `json:"linear"`
	Sense  string             `json:"sense"`
	RHS    float64            `json:"rhs"`
}

type QuadraticConstraintDoc struct {
	Name      string             `json:"name,omitempty"`
	Linear    map[string]float64 `json:"linear,omitempty"`
	Quadratic []TermDoc          `json:"quadratic,omitempty"`
	Sense     string             `json:"sense"`
	RHS       float64            `json:"rhs"`
}

// Limit is a bound value; infinities are spelled inf, +inf and -inf.
type Limit float64

func (l Limit) MarshalJSON() ([]byte, error) {
	v := float64(l)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(v):
		return nil, errors.New("bound is NaN")
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (l *Limit) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch strings.ToLower(s) {
		case "inf", "+inf", "infinity":
			*l = Limit(math.Inf(1))
		case "-inf", "-infinity":
			*l = Limit(math.Inf(-1))
		default:
			return errors.Errorf("invalid bound %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.Wrap(err, "invalid bound")
	}
	*l = Limit(v)
	return nil
}
