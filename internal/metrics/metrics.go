// Package metrics provides Prometheus metrics for scans and solver passes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/morozRed/codegraph/internal/graph"
)

var (
	// Scan metrics
	scanFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codegraph_scan_files_total",
			Help: "Source files visited by the scanner",
		},
		[]string{"status"},
	)

	scanIncludesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codegraph_scan_includes_total",
			Help: "Include directives seen by the scanner",
		},
		[]string{"result"},
	)

	scanRootsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codegraph_scan_roots_skipped_total",
			Help: "Configured source roots that did not exist",
		},
	)

	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codegraph_scan_duration_seconds",
			Help:    "Wall time of a full scan across all roots",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Graph size
	graphNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "codegraph_graph_nodes",
			Help: "Nodes in the scanned graph",
		},
		[]string{"kind"},
	)

	graphLinks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "codegraph_graph_links",
			Help: "Links in the scanned graph",
		},
		[]string{"category"},
	)

	// Solver metrics
	solverPassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codegraph_solver_pass_duration_seconds",
			Help:    "Duration of solver passes",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"pass"},
	)

	solverStepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codegraph_solver_steps_total",
			Help: "Completed solver steps",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFile counts a visited file; status is "scanned" or "unreadable".
func RecordFile(status string) {
	scanFilesTotal.WithLabelValues(status).Inc()
}

// RecordInclude counts an include directive; result is "resolved" or "unresolved".
func RecordInclude(result string) {
	scanIncludesTotal.WithLabelValues(result).Inc()
}

// RecordSkippedRoot counts a missing source root.
func RecordSkippedRoot() {
	scanRootsSkipped.Inc()
}

// RecordScan observes a completed scan and publishes the graph size.
func RecordScan(duration time.Duration, stats graph.Stats) {
	scanDuration.Observe(duration.Seconds())
	graphNodes.WithLabelValues(graph.KindDirectory.String()).Set(float64(stats.Directories))
	graphNodes.WithLabelValues(graph.KindFile.String()).Set(float64(stats.Files))
	graphLinks.WithLabelValues(graph.CategoryDirectory.String()).Set(float64(stats.DirLinks))
	graphLinks.WithLabelValues(graph.CategoryInclude.String()).Set(float64(stats.IncludeLinks))
}

// RecordPass observes the duration of one solver pass.
func RecordPass(pass string, duration time.Duration) {
	solverPassDuration.WithLabelValues(pass).Observe(duration.Seconds())
	if pass == "step" {
		solverStepsTotal.Inc()
	}
}
