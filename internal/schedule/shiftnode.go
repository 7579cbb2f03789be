package schedule

import (
	"fmt"

	"github.com/chansched/chansched/internal/rngx"
	"github.com/chansched/chansched/internal/schederr"
	"github.com/chansched/chansched/internal/task"
)

// ShiftNode is the shift variant of Node: after each extension it advances
// the time origin to the earliest channel-available time, folding any
// incurred loss into the accumulator. This keeps the numerical range of
// task parameters small and enables tighter bounding.
//
// Embedding *Node gives ShiftNode all the read-only accessors for free
// (NTasks, Tasks, ChAvail, Seq, ...); the mutating operations (Extend,
// ExtendMany, RollOut, Branch, Clone) are reimplemented here because Go's
// embedding does not give virtual dispatch — Node.Branch would otherwise
// call Node.Clone/Node.Extend directly and silently lose the shift behavior.
type ShiftNode struct {
	*Node
}

// NewShift constructs a root shift-variant node. Requiring []task.Shiftable
// (rather than []task.Task) makes constructing a ShiftNode over a
// non-shiftable task variant a compile-time impossibility — the earliest
// possible point to surface the "type error at construction" from spec §9.
func NewShift(tasks []task.Shiftable, chAvail []float64) (*ShiftNode, error) {
	plain := make([]task.Task, len(tasks))
	for i, t := range tasks {
		plain[i] = t
	}
	base, err := New(plain, chAvail)
	if err != nil {
		return nil, err
	}
	sn := &ShiftNode{Node: base}
	if err := sn.reOrigin(); err != nil {
		return nil, err
	}
	return sn, nil
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// reOrigin shifts every remaining task's origin forward by min(ch_avail),
// folding any incurred loss into the accumulator, and subtracts that minimum
// from every channel's availability.
func (sn *ShiftNode) reOrigin() error {
	delta := minOf(sn.chAvail)
	if delta <= 0 {
		return nil
	}
	for _, i := range sn.remaining {
		s, ok := sn.tasks[i].(task.Shiftable)
		if !ok {
			return fmt.Errorf("%w: shift-variant node requires Shiftable tasks", schederr.ErrBadTaskParameters)
		}
		inc, err := s.ShiftOrigin(delta)
		if err != nil {
			return err
		}
		sn.loss += inc
	}
	for c := range sn.chAvail {
		sn.chAvail[c] -= delta
	}
	return nil
}

// Extend schedules task i exactly as Node.Extend, then re-origins the
// remaining tasks and channel availabilities.
func (sn *ShiftNode) Extend(i int) error {
	if err := sn.Node.Extend(i); err != nil {
		return err
	}
	return sn.reOrigin()
}

// ExtendMany applies Extend in order, atomically (see Node.ExtendMany).
func (sn *ShiftNode) ExtendMany(indices []int) error {
	scratch := sn.Clone()
	for _, i := range indices {
		if err := scratch.Extend(i); err != nil {
			return err
		}
	}
	*sn.Node = *scratch.Node
	return nil
}

// RollOut clones this node, randomly orders the remaining tasks, extends
// them all (re-origining after each), and returns the terminal clone.
func (sn *ShiftNode) RollOut(rng *rngx.Handle) *ShiftNode {
	clone := sn.Clone()
	perm := rng.Perm(len(clone.remaining))
	order := make([]int, len(perm))
	for k, p := range perm {
		order[k] = clone.remaining[p]
	}
	for _, i := range order {
		_ = clone.Extend(i)
	}
	return clone
}

// Branch produces one child ShiftNode per remaining task.
func (sn *ShiftNode) Branch(rng *rngx.Handle) []*ShiftNode {
	order := append([]int(nil), sn.remaining...)
	if rng != nil {
		perm := rng.Perm(len(order))
		shuffled := make([]int, len(order))
		for k, p := range perm {
			shuffled[k] = order[p]
		}
		order = shuffled
	}

	children := make([]*ShiftNode, 0, len(order))
	for _, i := range order {
		child := sn.Clone()
		_ = child.Extend(i)
		children = append(children, child)
	}
	return children
}

// Clone returns an independent deep-enough copy of sn.
func (sn *ShiftNode) Clone() *ShiftNode {
	return &ShiftNode{Node: sn.Node.Clone()}
}
