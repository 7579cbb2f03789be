package mcts

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/chansched/chansched/internal/diagnostics"
	"github.com/chansched/chansched/internal/obsmetrics"
	"github.com/chansched/chansched/internal/rngx"
	"github.com/chansched/chansched/internal/schederr"
	"github.com/chansched/chansched/internal/schedule"
	"github.com/chansched/chansched/internal/task"
)

// RandomOptions configures Random.
type RandomOptions struct {
	// NMC is the total playout budget, split across remaining candidates
	// at each step. Must be positive for a non-empty task set.
	NMC         int
	RNG         *rngx.Handle
	Verbose     bool
	Now         func() time.Time
	Diagnostics *diagnostics.DB
}

// Random performs fixed-budget random-playout MCTS: at every step, it
// evaluates every candidate next task by averaging the loss of
// ⌊NMC/|remaining|⌋ random completions launched from it, commits to the
// candidate with the smallest mean, and repeats until terminal.
func Random(tasks []task.Task, chAvail []float64, opts RandomOptions) (Result, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	runID := uuid.New().String()

	node, err := schedule.New(tasks, chAvail)
	if err != nil {
		return Result{}, err
	}

	if !node.Terminal() && opts.NMC <= 0 {
		return Result{}, fmt.Errorf("%w: n_mc must be positive for a non-empty task set", schederr.ErrBadShape)
	}

	for !node.Terminal() {
		remaining := node.Remaining()
		playouts := opts.NMC / len(remaining)
		if playouts < 1 {
			playouts = 1
		}

		bestI := -1
		bestMean := math.Inf(1)
		for _, i := range remaining {
			var total float64
			for p := 0; p < playouts; p++ {
				clone := node.Clone()
				if err := clone.Extend(i); err != nil {
					return Result{}, err
				}
				term := clone.RollOut(opts.RNG)
				total += term.Loss()
			}
			obsmetrics.MCTSIterations.WithLabelValues("random").Add(float64(playouts))
			mean := total / float64(playouts)
			if mean < bestMean {
				bestMean = mean
				bestI = i
			}
		}

		if err := node.Extend(bestI); err != nil {
			return Result{}, err
		}
	}

	duration := now().Sub(start)
	obsmetrics.MCTSSearchDuration.WithLabelValues("random").Observe(duration.Seconds())
	if opts.Verbose {
		log.Printf("mcts_random[%s]: search complete loss=%v duration=%v", runID, node.Loss(), duration)
	}
	if opts.Diagnostics != nil {
		_ = opts.Diagnostics.RecordRun(context.Background(), diagnostics.Run{
			RunID:           runID,
			Algorithm:       "mcts_random",
			NTasks:          len(tasks),
			NChannels:       len(chAvail),
			Loss:            node.Loss(),
			Optimal:         false,
			DurationSeconds: duration.Seconds(),
			RecordedAt:      now(),
		})
	}

	return resultOf(node), nil
}
