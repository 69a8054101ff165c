// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/confidential"
)

const (
	kindInternal = "internal"
	kindCanceled = "canceled"
)

type metrics struct {
	committed prometheus.Counter
	views     prometheus.Counter
	aborted   *prometheus.CounterVec
	writes    prometheus.Histogram
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	m := metrics{
		committed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "confidential_calls_committed",
				Help: "Number of calls whose writes were committed",
			},
		),
		views: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "confidential_views",
				Help: "Number of read-only calls completed",
			},
		),
		aborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "confidential_calls_aborted",
				Help: "Number of calls rolled back, by error kind",
			},
			[]string{"kind"},
		),
		writes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "confidential_call_writes",
				Help:    "Number of state writes committed per call",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}
	registerer.MustRegister(m.committed)
	registerer.MustRegister(m.views)
	registerer.MustRegister(m.aborted)
	registerer.MustRegister(m.writes)

	return &m
}

func errorKind(err error) string {
	if kind := confidential.KindOf(err); kind != nil {
		return kind.Error()
	}
	return kindInternal
}
