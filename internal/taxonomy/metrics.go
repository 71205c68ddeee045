// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// fetchDuration records how long each per-kind content fetch took.
	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devmastery_content_fetch_duration_seconds",
		Help:    "Duration of per-kind content fetches during page aggregation",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// fetchFailures counts fetches that degraded to an empty list.
	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devmastery_content_fetch_failures_total",
		Help: "Per-kind content fetches that failed or timed out and were served empty",
	}, []string{"kind"})
)
