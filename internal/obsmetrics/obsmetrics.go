// Package obsmetrics defines the Prometheus instrumentation for the search
// drivers: node counts for branch-and-bound, iteration counts for MCTS, and
// a search-duration histogram for each.
package obsmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chansched"

var (
	// BnBNodesExpanded counts every Bounding Node popped from the priority
	// queue and examined by the branch-and-bound driver.
	BnBNodesExpanded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bnb_nodes_expanded_total",
		Help:      "Total number of bounding nodes popped and examined by the branch-and-bound driver.",
	})

	// BnBNodesPruned counts nodes discarded without being branched, either
	// by the lower-bound prune or the incumbent-dominance check.
	BnBNodesPruned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bnb_nodes_pruned_total",
		Help:      "Total number of bounding nodes pruned by the branch-and-bound driver.",
	})

	// BnBSearchDuration observes the wall-clock duration of a complete
	// branch-and-bound run.
	BnBSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bnb_search_duration_seconds",
		Help:      "Wall-clock duration of a branch-and-bound search run.",
		Buckets:   prometheus.DefBuckets,
	})

	// MCTSIterations counts selection/expansion/rollout/back-propagation
	// cycles performed, labeled by variant ("random" or "ucb").
	MCTSIterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mcts_iterations_total",
		Help:      "Total number of MCTS iterations performed, by variant.",
	}, []string{"variant"})

	// MCTSSearchDuration observes the wall-clock duration of a complete MCTS
	// run, labeled by variant.
	MCTSSearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mcts_search_duration_seconds",
		Help:      "Wall-clock duration of an MCTS search run, by variant.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"variant"})
)
