// Package bound adds admissible lower/upper loss bounds to a schedule node,
// the values branch-and-bound prunes on.
package bound

import (
	"fmt"

	"github.com/chansched/chansched/internal/schederr"
	"github.com/chansched/chansched/internal/task"
)

// eps absorbs floating-point rounding when checking loss_lower <= loss_upper.
const eps = 1e-9

// ScheduleLike is the minimal read-only surface a BoundingNode needs from
// either schedule-node variant (plain or shift). Both schedule.Node and
// schedule.ShiftNode already satisfy it.
type ScheduleLike interface {
	Tasks() []task.Task
	ChAvail() []float64
	Remaining() []int
	Loss() float64
	Terminal() bool
}

// Node pairs a schedule-like value with its cached admissible bounds. The
// caller must not mutate the wrapped schedule node out from under it;
// Recompute must be called again after any extension.
type Node struct {
	ScheduleLike

	lossLower float64
	lossUpper float64
}

// New wraps a schedule-like value and computes its initial bounds.
func New(sched ScheduleLike) (*Node, error) {
	n := &Node{ScheduleLike: sched}
	if err := n.Recompute(); err != nil {
		return nil, err
	}
	return n, nil
}

// LossLower returns the cached admissible lower bound.
func (n *Node) LossLower() float64 { return n.lossLower }

// LossUpper returns the cached admissible upper bound.
func (n *Node) LossUpper() float64 { return n.lossUpper }

// Recompute refreshes LossLower/LossUpper from the current wrapped state.
// It must be called once at construction and again after every extension of
// the wrapped node. Returns schederr.ErrBoundInvariant if loss_lower ends up
// greater than loss_upper — a hard fault indicating a bounding bug, never
// expected during normal operation.
func (n *Node) Recompute() error {
	loss := n.Loss()
	remaining := n.Remaining()
	tasks := n.Tasks()
	chAvail := n.ChAvail()

	if n.Terminal() {
		n.lossLower, n.lossUpper = loss, loss
		return nil
	}

	minAvail, maxAvail := chAvail[0], chAvail[0]
	for _, c := range chAvail[1:] {
		if c < minAvail {
			minAvail = c
		}
		if c > maxAvail {
			maxAvail = c
		}
	}

	lower := loss
	upper := loss
	extra := float64(len(remaining) - 1)
	for _, i := range remaining {
		ti := tasks[i]

		lowStart := minAvail
		if r := ti.TRelease(); r > lowStart {
			lowStart = r
		}
		lv, ok := ti.Eval(lowStart)
		if !ok {
			return fmt.Errorf("%w: lower-bound price evaluated before release time", schederr.ErrBoundInvariant)
		}
		lower += lv

		highStart := maxAvail
		if r := ti.TRelease(); r > highStart {
			highStart = r
		}
		highStart += extra * ti.Duration()
		uv, ok := ti.Eval(highStart)
		if !ok {
			return fmt.Errorf("%w: upper-bound price evaluated before release time", schederr.ErrBoundInvariant)
		}
		upper += uv
	}

	if lower > upper+eps {
		return fmt.Errorf("%w: lower=%v upper=%v", schederr.ErrBoundInvariant, lower, upper)
	}

	n.lossLower, n.lossUpper = lower, upper
	return nil
}
