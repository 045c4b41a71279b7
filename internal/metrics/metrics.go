// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package metrics defines the Prometheus instrumentation for one alpmgo
// session. Unlike a package-global metrics singleton, Metrics is
// constructed per session so that two sessions in the same process (as
// in a test binary) never collide on metric registration.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every counter and histogram alpmgo's core emits during
// one load-and-plan session.
type Metrics struct {
	LocalPackagesLoaded   prometheus.Counter
	SyncPackagesLoaded    *prometheus.CounterVec
	DescriptorParseErrors prometheus.Counter
	UpdatesPlanned        prometheus.Counter
	DowngradesDetected    prometheus.Counter
	LockContentions       prometheus.Counter

	LocalLoadDuration prometheus.Histogram
	SyncLoadDuration  *prometheus.HistogramVec
	PlanDuration      prometheus.Histogram
}

// New constructs a fresh Metrics with every collector created but not yet
// registered with any registry.
func New() *Metrics {
	return &Metrics{
		LocalPackagesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alpmgo_local_packages_loaded_total",
			Help: "Packages successfully parsed from the local database.",
		}),
		SyncPackagesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alpmgo_sync_packages_loaded_total",
			Help: "Packages successfully parsed from a sync database, by repo.",
		}, []string{"repo"}),
		DescriptorParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alpmgo_descriptor_parse_errors_total",
			Help: "Descriptor records that failed typed conversion.",
		}),
		UpdatesPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alpmgo_updates_planned_total",
			Help: "Upgrade triples emitted by the planner.",
		}),
		DowngradesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alpmgo_downgrades_detected_total",
			Help: "Same-name candidates skipped because their version was lower than installed.",
		}),
		LockContentions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alpmgo_lock_contentions_total",
			Help: "Lock acquisitions that failed because another writer held the lock.",
		}),
		LocalLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "alpmgo_local_load_duration_seconds",
			Help: "Time spent loading the local database.",
		}),
		SyncLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "alpmgo_sync_load_duration_seconds",
			Help: "Time spent loading a sync database, by repo.",
		}, []string{"repo"}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "alpmgo_plan_duration_seconds",
			Help: "Time spent planning updates across all repos.",
		}),
	}
}

// Registry returns a fresh *prometheus.Registry with every collector in m
// registered, suitable for a one-off /metrics handler or for a test that
// wants to scrape counters in isolation.
func (m *Metrics) Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		m.LocalPackagesLoaded,
		m.SyncPackagesLoaded,
		m.DescriptorParseErrors,
		m.UpdatesPlanned,
		m.DowngradesDetected,
		m.LockContentions,
		m.LocalLoadDuration,
		m.SyncLoadDuration,
		m.PlanDuration,
	)
	return reg
}
