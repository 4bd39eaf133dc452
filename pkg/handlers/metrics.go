package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rostering_generation_runs_total",
		Help: "Generation runs by outcome (complete, partial, time_bound, rejected, error).",
	}, []string{"outcome"})

	assignmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rostering_assignments_created_total",
		Help: "Draft assignments created by generation runs.",
	})

	unfilledSlots = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rostering_unfilled_slots_total",
		Help: "Shift slots left unfilled by generation runs.",
	})
)
