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

// ucbArm is one candidate next-task choice at a ucbNode: a direct, in-domain
// adaptation of the bandit arm statistics from the teacher's UCB1
// scheduler — visit count and total loss instead of total reward, scored to
// minimize rather than maximize.
type ucbArm struct {
	index     int
	visits    int
	totalLoss float64
	child     *ucbNode
}

// ucbNode is one partial schedule in the search tree. Arms are kept in
// schedule.Node.Remaining()'s ascending order so selection ties break
// toward the smallest task index without an extra sort. There are no
// parent back-pointers: the ancestor chain is carried through the
// recursive selection call instead, per spec §9.
type ucbNode struct {
	sched *schedule.Node
	arms  []*ucbArm
}

func newUCBNode(sched *schedule.Node) *ucbNode {
	rem := sched.Remaining()
	arms := make([]*ucbArm, len(rem))
	for k, i := range rem {
		arms[k] = &ucbArm{index: i}
	}
	return &ucbNode{sched: sched, arms: arms}
}

func (n *ucbNode) totalVisits() int {
	t := 0
	for _, a := range n.arms {
		t += a.visits
	}
	return t
}

// selectArm returns the arm with the smallest UCB1 score Q_c = mean_loss -
// c_uct*sqrt(ln(N)/n_c); unvisited arms score -inf, guaranteeing one-shot
// expansion. Ties (including all-unvisited) keep the first, smallest-index
// arm, since arms are visited in ascending order and only a strictly
// smaller score replaces the current best.
func selectArm(n *ucbNode, cUct float64) *ucbArm {
	N := n.totalVisits()
	var best *ucbArm
	bestScore := math.Inf(1)
	for _, a := range n.arms {
		var score float64
		if a.visits == 0 {
			score = math.Inf(-1)
		} else {
			score = a.totalLoss/float64(a.visits) - cUct*math.Sqrt(math.Log(float64(N))/float64(a.visits))
		}
		if score < bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

// simulate runs one selection/expansion/rollout/back-propagation cycle
// starting at n, returning the terminal loss reached so the caller can fold
// it into its own arm statistics.
func simulate(n *ucbNode, rng *rngx.Handle, cUct float64) float64 {
	a := selectArm(n, cUct)

	if a.child == nil {
		child := n.sched.Clone()
		_ = child.Extend(a.index) // a.index is a member of n.sched.Remaining()
		a.child = newUCBNode(child)

		var loss float64
		if child.Terminal() {
			loss = child.Loss()
		} else {
			loss = child.RollOut(rng).Loss()
		}
		a.visits++
		a.totalLoss += loss
		return loss
	}

	var loss float64
	if len(a.child.arms) == 0 {
		loss = a.child.sched.Loss()
	} else {
		loss = simulate(a.child, rng, cUct)
	}
	a.visits++
	a.totalLoss += loss
	return loss
}

// UCBOptions configures UCB.
type UCBOptions struct {
	NMC         int
	CUct        float64
	RNG         *rngx.Handle
	Verbose     bool
	Now         func() time.Time
	Diagnostics *diagnostics.DB
}

// UCB performs tree-building UCB1 Monte-Carlo tree search over schedule
// sequences per spec §4.5.
func UCB(tasks []task.Task, chAvail []float64, opts UCBOptions) (Result, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	runID := uuid.New().String()

	root, err := schedule.New(tasks, chAvail)
	if err != nil {
		return Result{}, err
	}

	rootNode := newUCBNode(root)

	if len(rootNode.arms) > 0 && opts.NMC <= 0 {
		return Result{}, fmt.Errorf("%w: n_mc must be positive for a non-empty task set", schederr.ErrBadShape)
	}

	for iter := 0; iter < opts.NMC && len(rootNode.arms) > 0; iter++ {
		simulate(rootNode, opts.RNG, opts.CUct)
		obsmetrics.MCTSIterations.WithLabelValues("ucb").Inc()
	}

	cur := rootNode
	for len(cur.arms) > 0 {
		var best *ucbArm
		bestMean := math.Inf(1)
		for _, a := range cur.arms {
			if a.visits == 0 {
				continue
			}
			mean := a.totalLoss / float64(a.visits)
			if mean < bestMean {
				bestMean = mean
				best = a
			}
		}
		if best == nil {
			break
		}
		cur = best.child
	}

	final := cur.sched
	if !final.Terminal() {
		final = final.RollOut(opts.RNG)
	}

	duration := now().Sub(start)
	obsmetrics.MCTSSearchDuration.WithLabelValues("ucb").Observe(duration.Seconds())
	if opts.Verbose {
		log.Printf("mcts_ucb[%s]: search complete loss=%v duration=%v", runID, final.Loss(), duration)
	}
	if opts.Diagnostics != nil {
		_ = opts.Diagnostics.RecordRun(context.Background(), diagnostics.Run{
			RunID:           runID,
			Algorithm:       "mcts_ucb",
			NTasks:          len(tasks),
			NChannels:       len(chAvail),
			Loss:            final.Loss(),
			Optimal:         false,
			DurationSeconds: duration.Seconds(),
			RecordedAt:      now(),
		})
	}

	return resultOf(final), nil
}
