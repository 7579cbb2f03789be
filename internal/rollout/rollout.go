// Package rollout implements the one-pass scheduling heuristics: a uniformly
// random sequencer, and earliest-release-first with optional adjacent-swap
// local search.
package rollout

import (
	"fmt"
	"sort"

	"github.com/chansched/chansched/internal/rngx"
	"github.com/chansched/chansched/internal/schederr"
	"github.com/chansched/chansched/internal/schedule"
	"github.com/chansched/chansched/internal/task"
)

// Result is a feasible full schedule produced by a heuristic.
type Result struct {
	TEx  []float64
	ChEx []int
	Loss float64
}

func resultOf(n *schedule.Node) Result {
	return Result{TEx: n.AllTEx(), ChEx: n.AllChEx(), Loss: n.Loss()}
}

// RandomSequencer applies a uniformly random permutation of task indices to
// a root node.
func RandomSequencer(tasks []task.Task, chAvail []float64, rng *rngx.Handle) (Result, error) {
	root, err := schedule.New(tasks, chAvail)
	if err != nil {
		return Result{}, err
	}
	perm := rng.Perm(len(tasks))
	if err := root.ExtendMany(perm); err != nil {
		return Result{}, err
	}
	return resultOf(root), nil
}

// EROptions configures EarliestRelease.
type EROptions struct {
	// DoSwap enables adjacent-pair local search after the initial
	// earliest-release ordering. MaxPasses bounds the number of full passes
	// performed; zero (DoSwap without an explicit MaxPasses) defaults to 1
	// pass, and a negative value performs no pass.
	DoSwap    bool
	MaxPasses int
}

// earliestReleaseOrder returns task indices sorted ascending by release
// time, ties broken by smaller index (stable sort over the identity order
// already achieves this).
func earliestReleaseOrder(tasks []task.Task) []int {
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tasks[order[a]].TRelease() < tasks[order[b]].TRelease()
	})
	return order
}

func lossOfOrder(tasks []task.Task, chAvail []float64, order []int) (float64, error) {
	n, err := schedule.New(tasks, chAvail)
	if err != nil {
		return 0, err
	}
	if err := n.ExtendMany(order); err != nil {
		return 0, err
	}
	return n.Loss(), nil
}

// EarliestRelease sorts tasks ascending by release time (ties to smaller
// index) and, if opts.DoSwap is set, follows with adjacent-pair local
// search: for each k, compare the current order's loss to the order with
// positions k, k+1 swapped (each evaluated on a fresh root clone), keeping
// whichever is smaller and leaving the order unchanged on a tie. Repeats
// until a full pass makes no improving swap or opts.MaxPasses is reached.
func EarliestRelease(tasks []task.Task, chAvail []float64, opts EROptions) (Result, error) {
	if len(tasks) == 0 {
		n, err := schedule.New(tasks, chAvail)
		if err != nil {
			return Result{}, err
		}
		return resultOf(n), nil
	}

	order := earliestReleaseOrder(tasks)
	if opts.DoSwap {
		maxPasses := opts.MaxPasses
		if maxPasses == 0 {
			maxPasses = 1
		}
		curLoss, err := lossOfOrder(tasks, chAvail, order)
		if err != nil {
			return Result{}, err
		}
		for pass := 0; pass < maxPasses; pass++ {
			improved := false
			for k := 0; k < len(order)-1; k++ {
				swapped := append([]int(nil), order...)
				swapped[k], swapped[k+1] = swapped[k+1], swapped[k]
				swappedLoss, err := lossOfOrder(tasks, chAvail, swapped)
				if err != nil {
					return Result{}, err
				}
				if swappedLoss < curLoss {
					order, curLoss = swapped, swappedLoss
					improved = true
				}
			}
			if !improved {
				break
			}
		}
	}

	n, err := schedule.New(tasks, chAvail)
	if err != nil {
		return Result{}, err
	}
	if err := n.ExtendMany(order); err != nil {
		return Result{}, fmt.Errorf("%w: earliest-release order was not a valid permutation", schederr.ErrBadSequence)
	}
	return resultOf(n), nil
}
