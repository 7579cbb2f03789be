// Package mcts implements the two Monte-Carlo tree search variants: a
// fixed-budget random-playout search and a tree-building UCB1 search.
package mcts

import "github.com/chansched/chansched/internal/schedule"

// Result is a feasible full schedule produced by either search variant.
// Neither guarantees optimality.
type Result struct {
	TEx  []float64
	ChEx []int
	Loss float64
}

func resultOf(n *schedule.Node) Result {
	return Result{TEx: n.AllTEx(), ChEx: n.AllChEx(), Loss: n.Loss()}
}
