// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/qubo/qp"
)

func TestMatchCatalog(t *testing.T) {
	type tc struct {
		Name      string
		Linear    map[int]float64
		Sense     qp.Comparison
		RHS       float64
		Template  int
		Vars      []int
		Linear1   map[int]float64
		Quadratic map[qp.Pair]float64
	}

	for _, tt := range []tc{
		{
			Name:      "at most one",
			Linear:    map[int]float64{0: 1, 1: 1},
			Sense:     qp.LE,
			RHS:       1,
			Template:  0,
			Vars:      []int{0, 1, -1},
			Linear1:   map[int]float64{},
			Quadratic: map[qp.Pair]float64{{I: 0, J: 1}: 1},
		},
		{
			Name:      "at least one on distant variables",
			Linear:    map[int]float64{5: 1, 2: 1},
			Sense:     qp.GE,
			RHS:       1,
			Template:  1,
			Vars:      []int{2, 5, -1},
			Linear1:   map[int]float64{2: -1, 5: -1},
			Quadratic: map[qp.Pair]float64{{I: 2, J: 5}: 1},
		},
		{
			Name:      "explicit zero coefficient is ignored",
			Linear:    map[int]float64{0: 1, 1: 1, 2: 0},
			Sense:     qp.LE,
			RHS:       1,
			Template:  0,
			Vars:      []int{0, 1, -1},
			Linear1:   map[int]float64{},
			Quadratic: map[qp.Pair]float64{{I: 0, J: 1}: 1},
		},
		{Name: "three variables", Linear: map[int]float64{0: 1, 1: 1, 2: 1}, Sense: qp.LE, RHS: 1, Template: -1},
		{Name: "one variable", Linear: map[int]float64{0: 1}, Sense: qp.LE, RHS: 1, Template: -1},
		{Name: "scaled", Linear: map[int]float64{0: 2, 1: 2}, Sense: qp.LE, RHS: 2, Template: -1},
		{Name: "negative coefficient", Linear: map[int]float64{0: 1, 1: -1}, Sense: qp.LE, RHS: 1, Template: -1},
		{Name: "equality", Linear: map[int]float64{0: 1, 1: 1}, Sense: qp.EQ, RHS: 1, Template: -1},
		{Name: "other rhs", Linear: map[int]float64{0: 1, 1: 1}, Sense: qp.LE, RHS: 2, Template: -1},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			c := qp.LinearConstraint{Name: tt.Name, Linear: tt.Linear, Sense: tt.Sense, RHS: tt.RHS}
			k, b, ok := Match(Catalog(), c)
			assert.Equal(t, tt.Template, k)
			assert.Equal(t, tt.Template >= 0, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.Vars, b.Vars)
			assert.Equal(t, 1.0, b.Offset)
			assert.Equal(t, tt.Linear1, b.Linear)
			assert.Equal(t, tt.Quadratic, b.Quadratic)
		})
	}
}

func TestMatchAssignsByCoefficient(t *testing.T) {
	// 2v₀ + v₁ ≤ 2 over binaries only excludes v₀ = v₁ = 1
	tpl, err := NewTemplate(TemplateSpec{
		Name:      "weighted",
		Coef:      []float64{2, 1},
		Sense:     qp.LE,
		RHS:       2,
		Linear:    []float64{0.5, 0},
		Quadratic: []float64{0, 1, 0, 0},
	})
	require.NoError(t, err)

	b, ok := tpl.Match(qp.LinearConstraint{Linear: map[int]float64{3: 1, 7: 2}, Sense: qp.LE, RHS: 2})
	require.True(t, ok)
	assert.Equal(t, []int{7, 3}, b.Vars)
	assert.Equal(t, map[int]float64{7: 0.5}, b.Linear)
	assert.Equal(t, map[qp.Pair]float64{{I: 3, J: 7}: 1}, b.Quadratic)

	_, ok = tpl.Match(qp.LinearConstraint{Linear: map[int]float64{3: 1, 7: 1}, Sense: qp.LE, RHS: 2})
	assert.False(t, ok)
}

func TestMatchStopsAtFirstTemplate(t *testing.T) {
	dup := Catalog()
	dup = append(dup, dup[0])
	k, _, ok := Match(dup, qp.LinearConstraint{Linear: map[int]float64{0: 1, 1: 1}, Sense: qp.LE, RHS: 1})
	assert.True(t, ok)
	assert.Equal(t, 0, k)
}
