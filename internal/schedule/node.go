// Package schedule implements the schedule-tree node abstraction: a partial
// sequence of scheduled tasks plus the per-channel availability, execution
// times, channel assignments, and accumulated loss it induces. Extending the
// sequence by one task at a time is the single mutating primitive every
// search strategy (branch-and-bound, rollouts, MCTS) builds on.
package schedule

import (
	"fmt"
	"sort"

	"github.com/chansched/chansched/internal/rngx"
	"github.com/chansched/chansched/internal/schederr"
	"github.com/chansched/chansched/internal/task"
)

// unscheduledTEx is the sentinel execution time for a task not yet scheduled.
const unscheduledTEx = -1

// unscheduledCh is the sentinel channel assignment for a task not yet scheduled.
const unscheduledCh = -1

// Node is the central data structure of the scheduler core: the remaining
// task set, per-channel availability, the current partial sequence, per-task
// execution/channel assignments, and the accumulated loss of scheduled tasks.
type Node struct {
	nTasks    int
	nChannels int

	tasks   []task.Task
	chAvail []float64

	seq       []int  // ordered list of scheduled task indices
	scheduled []bool // scheduled[i] == true iff i has been extended
	remaining []int  // unscheduled indices, kept in ascending order

	tEx  []float64 // execution start times; unscheduledTEx if not yet scheduled
	chEx []int     // channel assignments; unscheduledCh if not yet scheduled

	loss float64
}

// New constructs a root node over tasks with the given initial channel
// availabilities.
func New(tasks []task.Task, chAvail []float64) (*Node, error) {
	if len(chAvail) == 0 {
		return nil, fmt.Errorf("%w: ch_avail must have at least one channel", schederr.ErrBadShape)
	}

	n := &Node{
		nTasks:    len(tasks),
		nChannels: len(chAvail),
		tasks:     append([]task.Task(nil), tasks...),
		chAvail:   append([]float64(nil), chAvail...),
		seq:       make([]int, 0, len(tasks)),
		scheduled: make([]bool, len(tasks)),
		remaining: make([]int, len(tasks)),
		tEx:       make([]float64, len(tasks)),
		chEx:      make([]int, len(tasks)),
	}
	for i := range tasks {
		n.remaining[i] = i
		n.tEx[i] = unscheduledTEx
		n.chEx[i] = unscheduledCh
	}
	return n, nil
}

// NTasks returns the fixed total number of tasks.
func (n *Node) NTasks() int { return n.nTasks }

// NChannels returns the fixed number of channels.
func (n *Node) NChannels() int { return n.nChannels }

// Tasks returns the current task parameterizations (may be shifted copies of
// the originals in the shift variant). The returned slice must not be mutated.
func (n *Node) Tasks() []task.Task { return n.tasks }

// ChAvail returns the current per-channel availability times. The returned
// slice must not be mutated.
func (n *Node) ChAvail() []float64 { return n.chAvail }

// Seq returns the ordered sequence of scheduled task indices. The returned
// slice must not be mutated.
func (n *Node) Seq() []int { return n.seq }

// Remaining returns the unscheduled task indices in ascending order. The
// returned slice must not be mutated.
func (n *Node) Remaining() []int { return n.remaining }

// IsScheduled reports whether task i has already been extended.
func (n *Node) IsScheduled(i int) bool { return n.scheduled[i] }

// TEx returns task i's execution start time, and ok=false if unscheduled.
func (n *Node) TEx(i int) (float64, bool) {
	if !n.scheduled[i] {
		return 0, false
	}
	return n.tEx[i], true
}

// ChEx returns task i's channel assignment, and ok=false if unscheduled.
func (n *Node) ChEx(i int) (int, bool) {
	if !n.scheduled[i] {
		return 0, false
	}
	return n.chEx[i], true
}

// AllTEx returns a copy of the full execution-time vector (sentinel -1 for
// unscheduled tasks).
func (n *Node) AllTEx() []float64 { return append([]float64(nil), n.tEx...) }

// AllChEx returns a copy of the full channel-assignment vector (sentinel -1
// for unscheduled tasks).
func (n *Node) AllChEx() []int { return append([]int(nil), n.chEx...) }

// Loss returns the accumulated loss over scheduled tasks.
func (n *Node) Loss() float64 { return n.loss }

// Terminal reports whether every task has been scheduled.
func (n *Node) Terminal() bool { return len(n.remaining) == 0 }

// argminChannel returns the index of the channel with the smallest
// availability time, ties broken by smallest channel index.
func argminChannel(chAvail []float64) int {
	best := 0
	for c := 1; c < len(chAvail); c++ {
		if chAvail[c] < chAvail[best] {
			best = c
		}
	}
	return best
}

// removeRemaining removes i from the ascending remaining-index slice.
func (n *Node) removeRemaining(i int) {
	idx := sort.SearchInts(n.remaining, i)
	n.remaining = append(n.remaining[:idx], n.remaining[idx+1:]...)
}

// Extend schedules task i: it is assigned to the currently-earliest-available
// channel (ties broken by smallest channel index), started at the later of
// that channel's availability and the task's release time, and i moves from
// the remaining set to the end of the sequence.
func (n *Node) Extend(i int) error {
	if i < 0 || i >= n.nTasks || n.scheduled[i] {
		return fmt.Errorf("%w: task %d is not in seq_rem", schederr.ErrBadSequence, i)
	}

	c := argminChannel(n.chAvail)
	start := n.chAvail[c]
	if r := n.tasks[i].TRelease(); r > start {
		start = r
	}

	loss, ok := n.tasks[i].Eval(start)
	if !ok {
		return fmt.Errorf("%w: task %d evaluated before its release time", schederr.ErrBadSequence, i)
	}

	n.loss += loss
	n.chAvail[c] = start + n.tasks[i].Duration()
	n.tEx[i] = start
	n.chEx[i] = c
	n.scheduled[i] = true
	n.removeRemaining(i)
	n.seq = append(n.seq, i)

	return nil
}

// ExtendMany applies Extend in order. The whole call is atomic: if any index
// is not in seq_rem at the time it would be visited, the receiver is left
// completely unmutated and an error is returned.
func (n *Node) ExtendMany(indices []int) error {
	scratch := n.Clone()
	for _, i := range indices {
		if err := scratch.Extend(i); err != nil {
			return err
		}
	}
	*n = *scratch
	return nil
}

// RollOut clones this node, randomly orders the remaining tasks using rng,
// extends them all, and returns the now-terminal clone.
func (n *Node) RollOut(rng *rngx.Handle) *Node {
	clone := n.Clone()
	perm := rng.Perm(len(clone.remaining))
	order := make([]int, len(perm))
	for k, p := range perm {
		order[k] = clone.remaining[p]
	}
	for _, i := range order {
		// Extend cannot fail here: order is a permutation of the current
		// remaining set taken before any mutation.
		_ = clone.Extend(i)
	}
	return clone
}

// Branch produces one child node per task in the remaining set, each a clone
// of this node followed by Extend(i). If rng is supplied, children are
// produced in a random permutation of the remaining set; otherwise in
// ascending task-index order.
func (n *Node) Branch(rng *rngx.Handle) []*Node {
	order := append([]int(nil), n.remaining...)
	if rng != nil {
		perm := rng.Perm(len(order))
		shuffled := make([]int, len(order))
		for k, p := range perm {
			shuffled[k] = order[p]
		}
		order = shuffled
	}

	children := make([]*Node, 0, len(order))
	for _, i := range order {
		child := n.Clone()
		_ = child.Extend(i) // i is a member of n.remaining, always valid
		children = append(children, child)
	}
	return children
}

// cloneTasks returns an independent copy of tasks: value-typed tasks are
// duplicated by the interface-value copy itself; pointer-identity tasks
// (e.g. the shift variant's *ReluDrop) implement task.Cloner so the
// underlying value is duplicated too, keeping parent and child nodes from
// ever aliasing mutable state.
func cloneTasks(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		if c, ok := t.(task.Cloner); ok {
			out[i] = c.CloneTask()
		} else {
			out[i] = t
		}
	}
	return out
}

// Clone returns a deep-enough independent copy of n: cost is proportional to
// the number of tasks and channels, and no mutable state is shared with n.
func (n *Node) Clone() *Node {
	return &Node{
		nTasks:    n.nTasks,
		nChannels: n.nChannels,
		tasks:     cloneTasks(n.tasks),
		chAvail:   append([]float64(nil), n.chAvail...),
		seq:       append([]int(nil), n.seq...),
		scheduled: append([]bool(nil), n.scheduled...),
		remaining: append([]int(nil), n.remaining...),
		tEx:       append([]float64(nil), n.tEx...),
		chEx:      append([]int(nil), n.chEx...),
		loss:      n.loss,
	}
}
