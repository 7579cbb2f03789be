// Package queue implements the priority queue branch-and-bound pops nodes
// from: a binary min-heap ordered by admissible lower bound, with
// depth-then-insertion-order tie-breaking for determinism.
package queue

import "github.com/chansched/chansched/internal/bound"

// item is one entry in the heap: the bounding node plus the priority and
// tie-break keys captured at push time.
type item struct {
	node     *bound.Node
	priority float64
	depth    int
	sequence int64
}

// PriorityQueue is a binary min-heap over bound.Node values, ordered by an
// explicit priority key supplied at Push time (the default driver priority
// is LossLower ascending, but callers may substitute any function over
// bounding nodes, per spec §4.3). Ties are broken by greater depth (deeper
// nodes are closer to a complete schedule and are explored first) and then
// by insertion order, so two runs over the same input pop nodes in the same
// order. It is not safe for concurrent use; the branch-and-bound driver is
// single-threaded by design.
type PriorityQueue struct {
	items []item
	next  int64
}

// New returns an empty priority queue.
func New() *PriorityQueue {
	return &PriorityQueue{}
}

// Len returns the number of queued nodes.
func (q *PriorityQueue) Len() int { return len(q.items) }

// less reports whether item at index i sorts before item at index j.
func (q *PriorityQueue) less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.depth != b.depth {
		return a.depth > b.depth
	}
	return a.sequence < b.sequence
}

func (q *PriorityQueue) swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *PriorityQueue) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(i, parent) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *PriorityQueue) down(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		smallest := left
		if right := left + 1; right < n && q.less(right, left) {
			smallest = right
		}
		if !q.less(smallest, i) {
			break
		}
		q.swap(i, smallest)
		i = smallest
	}
}

// Push inserts a bounding node at the given priority and search depth.
func (q *PriorityQueue) Push(node *bound.Node, priority float64, depth int) {
	q.items = append(q.items, item{node: node, priority: priority, depth: depth, sequence: q.next})
	q.next++
	q.up(len(q.items) - 1)
}

// Pop removes and returns the node with smallest priority (ties broken by
// depth then insertion order), and the depth it was pushed at. ok is false
// if the queue is empty.
func (q *PriorityQueue) Pop() (node *bound.Node, depth int, ok bool) {
	if len(q.items) == 0 {
		return nil, 0, false
	}
	top := q.items[0]
	last := len(q.items) - 1
	q.swap(0, last)
	q.items = q.items[:last]
	if len(q.items) > 0 {
		q.down(0)
	}
	return top.node, top.depth, true
}

// Peek returns the node that would be returned by Pop, without removing it.
func (q *PriorityQueue) Peek() (node *bound.Node, depth int, ok bool) {
	if len(q.items) == 0 {
		return nil, 0, false
	}
	return q.items[0].node, q.items[0].depth, true
}
