// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TemplateLabel = "template"
	KindLabel     = "kind"
)

// Metrics exposes conversion counters. A nil *Metrics records nothing.
type Metrics struct {
	conversions prometheus.Counter
	absorbs     *prometheus.CounterVec
	keeps       *prometheus.CounterVec
	fallbacks   prometheus.Counter
	lastPenalty prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		conversions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qubo_conversions_total",
			Help: "Number of problems converted",
		}),
		absorbs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qubo_constraints_absorbed_total",
			Help: "Number of linear constraints folded into the objective, per template",
		}, []string{TemplateLabel}),
		keeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qubo_constraints_kept_total",
			Help: "Number of constraints copied unchanged, per kind",
		}, []string{KindLabel}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qubo_penalty_fallback_total",
			Help: "Number of conversions using the default penalty because of non-integral coefficients",
		}),
		lastPenalty: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qubo_penalty",
			Help: "Penalty multiplier applied by the last conversion",
		}),
	}
	for _, c := range []prometheus.Collector{m.conversions, m.absorbs, m.keeps, m.fallbacks, m.lastPenalty} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register penalty metrics")
		}
	}
	return m, nil
}

func (m *Metrics) converted(penalty float64) {
	if m == nil {
		return
	}
	m.conversions.Inc()
	m.lastPenalty.Set(penalty)
}

func (m *Metrics) absorbed(template string) {
	if m == nil {
		return
	}
	m.absorbs.WithLabelValues(template).Inc()
}

func (m *Metrics) kept(kind string) {
	if m == nil {
		return
	}
	m.keeps.WithLabelValues(kind).Inc()
}

func (m *Metrics) fallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}
