// Package metrics exposes prometheus instrumentation for the reminder engine
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal counts reminder list generations by source (ai, fallback)
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "janani_reminder_generations_total",
		Help: "Reminder list generations by source.",
	}, []string{"source"})

	// ReadsTotal counts orchestrator passes by outcome (generated, existing)
	ReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "janani_reminder_checks_total",
		Help: "Check-and-generate passes by outcome.",
	}, []string{"outcome"})

	// CompletionsTotal counts completion marks written
	CompletionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "janani_reminder_completions_total",
		Help: "Completion marks written.",
	})

	// SweepRunsTotal counts scheduled sweep executions
	SweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "janani_sweep_runs_total",
		Help: "Scheduled reminder sweep executions.",
	})

	// SweepErrorsTotal counts sweep failures, per-user and discovery-level
	SweepErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "janani_sweep_errors_total",
		Help: "Errors during scheduled sweeps.",
	})

	// GuidanceDuration observes guidance service call latency
	GuidanceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "janani_guidance_request_duration_seconds",
		Help:    "Latency of guidance service generation calls.",
		Buckets: prometheus.DefBuckets,
	})
)
