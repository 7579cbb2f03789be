// Package bnb implements the branch-and-bound driver: a best-first search
// over Bounding Nodes using an admissible lower bound for pruning and an
// admissible upper bound for incumbent tightening.
package bnb

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/chansched/chansched/internal/bound"
	"github.com/chansched/chansched/internal/diagnostics"
	"github.com/chansched/chansched/internal/obsmetrics"
	"github.com/chansched/chansched/internal/queue"
	"github.com/chansched/chansched/internal/rngx"
	"github.com/chansched/chansched/internal/schedule"
	"github.com/chansched/chansched/internal/task"
)

// Result is the outcome of a branch-and-bound search.
type Result struct {
	TEx     []float64
	ChEx    []int
	Loss    float64
	Optimal bool
}

// PriorityFunc scores a bounding node at a given search depth for the
// priority queue; smaller sorts first. The default is smallest LossLower.
type PriorityFunc func(n *bound.Node, depth int) float64

func defaultPriority(n *bound.Node, _ int) float64 { return n.LossLower() }

// Options configures a single Run invocation.
type Options struct {
	Verbose bool
	// PriorityFn overrides the default priority ordering. A nil PriorityFn
	// (the only case the driver can enforce deterministically) falls back
	// to defaultPriority, per spec §4.3's "reject or replace with the
	// default."
	PriorityFn PriorityFunc
	RNG        *rngx.Handle
	// Budget bounds wall-clock search time; zero means unbounded.
	Budget time.Duration
	// Now is the injectable clock; defaults to time.Now.
	Now func() time.Time
	// Diagnostics, if set, receives a RecordRun call at the end of the search.
	Diagnostics *diagnostics.DB
}

// Run performs a branch-and-bound search over all complete schedules of
// tasks on the channels described by chAvail, per spec §4.3. Result.Optimal
// is false only when opts.Budget expired before the search could converge.
func Run(tasks []task.Task, chAvail []float64, opts Options) (Result, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	runID := uuid.New().String()

	priorityFn := opts.PriorityFn
	if priorityFn == nil {
		priorityFn = defaultPriority
	}

	root, err := schedule.New(tasks, chAvail)
	if err != nil {
		return Result{}, err
	}
	rootBound, err := bound.New(root)
	if err != nil {
		return Result{}, err
	}

	q := queue.New()
	q.Push(rootBound, priorityFn(rootBound, 0), 0)

	incumbentLoss := math.Inf(1)
	var incumbent *schedule.Node
	optimal := true

	for q.Len() > 0 {
		if opts.Budget > 0 && now().Sub(start) > opts.Budget {
			optimal = false
			break
		}

		n, depth, ok := q.Pop()
		if !ok {
			break
		}
		obsmetrics.BnBNodesExpanded.Inc()

		if n.LossLower() >= incumbentLoss {
			obsmetrics.BnBNodesPruned.Inc()
			continue
		}

		sn, ok := n.ScheduleLike.(*schedule.Node)
		if !ok {
			return Result{}, fmt.Errorf("bnb: bounding node did not wrap a *schedule.Node")
		}

		if sn.Terminal() {
			if n.Loss() < incumbentLoss {
				incumbentLoss = n.Loss()
				incumbent = sn
				if opts.Verbose {
					log.Printf("bnb[%s]: incumbent improved to %v", runID, incumbentLoss)
				}
			}
			continue
		}

		if n.LossUpper() < incumbentLoss {
			// A rollout gives a concrete, immediately-executable schedule
			// to tighten against; its actual loss is always a valid upper
			// bound on the optimum (possibly looser than the formula, which
			// names no schedule on its own). See DESIGN.md.
			candidate := sn.RollOut(opts.RNG)
			if candidate.Loss() < incumbentLoss {
				incumbentLoss = candidate.Loss()
				incumbent = candidate
				if opts.Verbose {
					log.Printf("bnb[%s]: incumbent improved to %v", runID, incumbentLoss)
				}
			}
		}

		for _, child := range sn.Branch(opts.RNG) {
			childDepth := depth + 1
			cb, err := bound.New(child)
			if err != nil {
				return Result{}, err
			}
			if cb.LossLower() < incumbentLoss {
				q.Push(cb, priorityFn(cb, childDepth), childDepth)
			} else {
				obsmetrics.BnBNodesPruned.Inc()
			}
		}
	}

	if incumbent == nil {
		// Budget expired before any candidate was ever produced; fall back
		// to a single rollout so the driver still returns a feasible
		// schedule, per spec §5's "partial-failure result, not an error."
		incumbent = root.RollOut(opts.RNG)
		incumbentLoss = incumbent.Loss()
		optimal = false
	}

	duration := now().Sub(start)
	obsmetrics.BnBSearchDuration.Observe(duration.Seconds())
	if opts.Verbose {
		log.Printf("bnb[%s]: search complete loss=%v optimal=%v duration=%v", runID, incumbentLoss, optimal, duration)
	}
	if opts.Diagnostics != nil {
		_ = opts.Diagnostics.RecordRun(context.Background(), diagnostics.Run{
			RunID:           runID,
			Algorithm:       "bnb",
			NTasks:          len(tasks),
			NChannels:       len(chAvail),
			Loss:            incumbentLoss,
			Optimal:         optimal,
			DurationSeconds: duration.Seconds(),
			RecordedAt:      now(),
		})
	}

	return Result{
		TEx:     incumbent.AllTEx(),
		ChEx:    incumbent.AllChEx(),
		Loss:    incumbentLoss,
		Optimal: optimal,
	}, nil
}
