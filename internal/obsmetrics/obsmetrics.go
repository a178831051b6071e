// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package obsmetrics exposes gate pass/fail counts and stage latency via
// github.com/prometheus/client_golang, the same library and
// registerer-injection pattern the teacher's poll.NewSet(factory, log,
// registerer) uses. Metrics are never required by the pipeline itself —
// no network I/O happens at runtime (spec §1) — they exist only for an
// embedding CLI that chooses to serve /metrics.
package obsmetrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every counter/histogram the pipeline updates.
type Metrics struct {
	GatePass     prometheus.Counter
	GateFail     prometheus.Counter
	StageLatency *prometheus.HistogramVec
	TieDraws     prometheus.Counter
}

// Register creates and registers every metric against registerer,
// mirroring the teacher's NewSet(factory, log, registerer) constructor
// shape: metrics are built once per run and handed to the caller rather
// than kept behind a package-level singleton.
func Register(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		GatePass: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "gates",
			Name:      "pass_total",
			Help:      "Units that passed the gate engine.",
		}),
		GateFail: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "gates",
			Name:      "fail_total",
			Help:      "Units that failed the gate engine.",
		}),
		StageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tally",
			Name:      "stage_latency_seconds",
			Help:      "Wall-clock time spent in each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		TieDraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tally",
			Subsystem: "tiebreak",
			Name:      "rng_draws_total",
			Help:      "Total RNG draws consumed resolving ties.",
		}),
	}

	for _, c := range []prometheus.Collector{m.GatePass, m.GateFail, m.StageLatency, m.TieDraws} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
