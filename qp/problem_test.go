// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qp

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Problem {
	t.Helper()
	p := New("sample")
	x, err := p.BinaryVar("x")
	require.NoError(t, err)
	y, err := p.IntegerVar("y", -2, 5)
	require.NoError(t, err)
	z, err := p.ContinuousVar("", 0, 1.5)
	require.NoError(t, err)
	require.NoError(t, p.Maximize(1, map[int]float64{x: 2, y: -1, z: 0}, map[Pair]float64{{y, x}: 3, {x, y}: 1, {z, z}: -1}))
	require.NoError(t, p.LinearConstraint("cap", map[int]float64{x: 1, y: 1}, LE, 4))
	require.NoError(t, p.QuadraticConstraint("", map[int]float64{z: 1}, map[Pair]float64{{x, z}: 2}, GE, 0))
	return p
}

func TestBuilders(t *testing.T) {
	p := sample(t)

	require.Equal(t, 3, p.NumVars())
	assert.Equal(t, "x2", p.Var(2).Name)
	assert.Equal(t, Bound{0, 1}, p.Var(0).Bound)
	for i, v := range p.Variables() {
		assert.Equal(t, i, v.Index)
	}

	obj := p.Objective()
	assert.Equal(t, Maximize, obj.Sense)
	assert.Equal(t, map[int]float64{0: 2, 1: -1}, obj.Linear, "zero entries are dropped")
	assert.Equal(t, map[Pair]float64{{0, 1}: 4, {2, 2}: -1}, obj.Quadratic, "symmetric entries are merged")

	qc := p.QuadraticConstraints()
	require.Len(t, qc, 1)
	assert.Equal(t, "q0", qc[0].Name)
}

func TestBuilderErrors(t *testing.T) {
	p := New("bad")
	_, err := p.BinaryVar("x")
	require.NoError(t, err)

	_, err = p.BinaryVar("x")
	assert.True(t, errors.Is(err, ErrDuplicateName))

	_, err = p.IntegerVar("y", 3, 1)
	assert.Error(t, err)

	err = p.LinearConstraint("c", map[int]float64{7: 1}, LE, 1)
	assert.True(t, errors.Is(err, ErrUnknownVariable))

	err = p.Minimize(0, nil, map[Pair]float64{{0, 4}: 1})
	assert.True(t, errors.Is(err, ErrUnknownVariable))

	require.NoError(t, p.LinearConstraint("c", map[int]float64{0: 1}, LE, 1))
	err = p.LinearConstraint("c", map[int]float64{0: 1}, GE, 0)
	assert.True(t, errors.Is(err, ErrDuplicateName))

	err = p.LinearConstraint("d", map[int]float64{0: 1}, Comparison(9), 0)
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	p := sample(t)
	want := p.Clone()
	q := p.Clone()

	_, err := q.BinaryVar("extra")
	require.NoError(t, err)
	require.NoError(t, q.Minimize(0, map[int]float64{0: 9}, nil))
	require.NoError(t, q.LinearConstraint("more", map[int]float64{1: 1}, EQ, 2))

	opt := cmp.AllowUnexported(Problem{})
	assert.Empty(t, cmp.Diff(want, p, opt))
	assert.NotEmpty(t, cmp.Diff(want, q, opt))
}

func TestCloneWithoutConstraints(t *testing.T) {
	p := New("plain")
	_, err := p.BinaryVar("a")
	require.NoError(t, err)
	require.NoError(t, p.Minimize(1, map[int]float64{0: 2}, nil))

	assert.Empty(t, cmp.Diff(p, p.Clone(), cmp.AllowUnexported(Problem{})))
	assert.Empty(t, cmp.Diff(New("empty"), New("empty").Clone(), cmp.AllowUnexported(Problem{})))
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := sample(t)
	p.Objective().Linear[0] = 100
	p.LinearConstraints()[0].Linear[0] = 100
	assert.Equal(t, 2.0, p.Objective().Linear[0])
	assert.Equal(t, 1.0, p.LinearConstraints()[0].Linear[0])
}

func TestEvaluate(t *testing.T) {
	p := sample(t)
	x := []float64{1, 2, 0.5}

	// 1 + 2·1 − 1·2 + 4·1·2 − 0.5²
	assert.InDelta(t, 8.75, p.Objective().Evaluate(x), 1e-12)
	assert.True(t, p.Feasible(x, 1e-9))

	assert.False(t, p.Feasible([]float64{1, 3.5, 0.5}, 1e-9), "integrality")
	assert.False(t, p.Feasible([]float64{1, 4, 0.5}, 1e-9), "cap")
	assert.False(t, p.Feasible([]float64{1, 2, 2}, 1e-9), "bound")
	assert.Panics(t, func() { p.Feasible([]float64{1}, 0) })
}

func TestSatisfied(t *testing.T) {
	for _, tt := range []struct {
		sense Comparison
		lhs   float64
		want  bool
	}{
		{LE, 1, true}, {LE, 2, false},
		{GE, 1, true}, {GE, 0, false},
		{EQ, 1, true}, {EQ, 1 + 1e-12, true}, {EQ, 0, false},
	} {
		c := LinearConstraint{Linear: map[int]float64{0: 1}, Sense: tt.sense, RHS: 1}
		assert.Equal(t, tt.want, c.Satisfied([]float64{tt.lhs}, 1e-9), "%v %v", tt.sense, tt.lhs)
	}
}

func TestParse(t *testing.T) {
	for _, vt := range []VarType{Continuous, Binary, Integer} {
		got, ok := ParseVarType(vt.String())
		assert.True(t, ok)
		assert.Equal(t, vt, got)
	}
	_, ok := ParseVarType("complex")
	assert.False(t, ok)

	for _, c := range []Comparison{LE, EQ, GE} {
		got, ok := ParseComparison(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
	assert.Equal(t, "VarType(7)", VarType(7).String())
}

func TestUnboundedDefaults(t *testing.T) {
	p := New("")
	i, err := p.ContinuousVar("v", math.NaN(), math.NaN())
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Var(i).Lower)
	assert.True(t, math.IsInf(p.Var(i).Upper, 1))
}
