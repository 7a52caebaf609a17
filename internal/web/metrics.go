package web

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
	"github.com/JonMunkholm/CollegeExplorer/internal/render"
)

var (
	passesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "college_explorer_passes_total",
		Help: "The total number of pipeline passes by mode and scope",
	}, []string{"mode", "scope"})
	passDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "college_explorer_pass_duration_seconds",
		Help:    "Time spent running one pipeline pass",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"mode"})
	passRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "college_explorer_filtered_rows",
		Help:    "Rows left after filtering",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
	noticesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "college_explorer_notices_total",
		Help: "The total number of notices by kind and code",
	}, []string{"kind", "code"})
	plotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "college_explorer_plots_total",
		Help: "The total number of rendered plots by kind and outcome",
	}, []string{"plot", "outcome"})
	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "college_explorer_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"limiter"})
)

func observePass(res *core.Result, seconds float64) {
	mode := res.View.Mode.String()
	passesTotal.WithLabelValues(mode, res.Scope.String()).Inc()
	passDuration.WithLabelValues(mode).Observe(seconds)
	passRows.Observe(float64(res.FilteredRows))
	for _, n := range res.Notices {
		noticesTotal.WithLabelValues(string(n.Kind), n.Code).Inc()
	}
}

func observePlot(plot string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, render.ErrNoRows):
		outcome = "empty"
	case errors.Is(err, render.ErrBusy):
		outcome = "busy"
	case err != nil:
		outcome = "error"
	}
	plotsTotal.WithLabelValues(plot, outcome).Inc()
}
