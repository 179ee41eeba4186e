// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qpfile

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/qubo/qp"
)

const assign = `
name: assign
variables:
  - {name: a, type: binary}
  - {name: b, type: binary}
  - {name: k, type: integer, lower: -2, upper: inf}
  - {name: r, type: continuous, lower: -inf, upper: 1.5}
  - {name: s, type: continuous}
objective:
  sense: maximize
  constant: 1
  linear: {a: 2, k: -1}
  quadratic:
    - {i: b, j: a, coef: 3}
    - {i: a, j: b, coef: 1}
linear_constraints:
  - {name: pick, linear: {a: 1, b: 1}, sense: "<=", rhs: 1}
  - {linear: {k: 1, r: 2}, sense: ">=", rhs: 0.5}
quadratic_constraints:
  - {name: ball, quadratic: [{i: r, j: r, coef: 1}], sense: "<=", rhs: 4}
`

func TestRead(t *testing.T) {
	p, err := Read(strings.NewReader(assign))
	require.NoError(t, err)

	assert.Equal(t, "assign", p.Name)
	require.Equal(t, 5, p.NumVars())
	assert.Equal(t, qp.Bound{Lower: -2, Upper: math.Inf(1)}, p.Var(2).Bound)
	assert.Equal(t, qp.Bound{Lower: math.Inf(-1), Upper: 1.5}, p.Var(3).Bound)
	assert.Equal(t, qp.Bound{Lower: 0, Upper: math.Inf(1)}, p.Var(4).Bound)

	obj := p.Objective()
	assert.Equal(t, qp.Maximize, obj.Sense)
	assert.Equal(t, map[int]float64{0: 2, 2: -1}, obj.Linear)
	assert.Equal(t, map[qp.Pair]float64{{I: 0, J: 1}: 4}, obj.Quadratic)

	lc := p.LinearConstraints()
	require.Len(t, lc, 2)
	assert.Equal(t, qp.LinearConstraint{Name: "pick", Linear: map[int]float64{0: 1, 1: 1}, Sense: qp.LE, RHS: 1}, lc[0])
	assert.Equal(t, "c1", lc[1].Name)

	qc := p.QuadraticConstraints()
	require.Len(t, qc, 1)
	assert.Equal(t, map[qp.Pair]float64{{I: 3, J: 3}: 1}, qc[0].Quadratic)
}

func TestRoundTrip(t *testing.T) {
	p, err := Read(strings.NewReader(assign))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))
	q, err := Read(&buf)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(p, q, cmp.AllowUnexported(qp.Problem{})))
}

func TestSaveLoad(t *testing.T) {
	p, err := Read(strings.NewReader(assign))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, Save(path, p))
	q, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.Variables(), q.Variables())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReadErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"syntax":         "variables: [",
		"type":           "variables: [{name: a, type: complex}]",
		"bound":          "variables: [{name: a, type: integer, lower: lots}]",
		"objective":      "variables: [{name: a, type: binary}]\nobjective: {sense: best}",
		"objective var":  "variables: [{name: a, type: binary}]\nobjective: {linear: {b: 1}}",
		"sense":          "variables: [{name: a, type: binary}]\nlinear_constraints: [{linear: {a: 1}, sense: '<', rhs: 1}]",
		"constraint var": "variables: [{name: a, type: binary}]\nlinear_constraints: [{linear: {z: 1}, sense: '<=', rhs: 1}]",
		"quad var":       "variables: [{name: a, type: binary}]\nquadratic_constraints: [{quadratic: [{i: a, j: z, coef: 1}], sense: '<=', rhs: 1}]",
		"duplicate":      "variables: [{name: a, type: binary}, {name: a, type: binary}]",
	} {
		_, err := Read(strings.NewReader(doc))
		assert.Error(t, err, name)
	}

	_, err := Read(strings.NewReader("variables: [{name: a, type: binary}]\nobjective: {linear: {b: 1}}"))
	assert.True(t, errors.Is(err, qp.ErrUnknownVariable))
}
