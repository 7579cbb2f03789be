package queue

import (
	"testing"

	"github.com/chansched/chansched/internal/bound"
	"github.com/chansched/chansched/internal/schedule"
	"github.com/chansched/chansched/internal/task"
)

func mustNode(t *testing.T, lDrop float64) *bound.Node {
	t.Helper()
	r, err := task.NewReluDrop(1, 0, 1, 0, lDrop)
	if err != nil {
		t.Fatal(err)
	}
	n, err := schedule.New([]task.Task{r}, []float64{0})
	if err != nil {
		t.Fatal(err)
	}
	bn, err := bound.New(n)
	if err != nil {
		t.Fatal(err)
	}
	return bn
}

func TestPriorityQueue_PopsAscendingPriority(t *testing.T) {
	q := New()
	q.Push(mustNode(t, 9), 9, 0)
	q.Push(mustNode(t, 3), 3, 0)
	q.Push(mustNode(t, 7), 7, 0)
	q.Push(mustNode(t, 1), 1, 0)

	var got []float64
	for q.Len() > 0 {
		n, _, ok := q.Pop()
		if !ok {
			t.Fatal("Pop returned ok=false with non-empty queue")
		}
		got = append(got, n.LossLower())
	}
	want := []float64{1, 3, 7, 9}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("pop order[%d] = %v, want %v (full: %v)", i, got[i], w, got)
		}
	}
}

func TestPriorityQueue_TieBreaksByDeeperFirst(t *testing.T) {
	q := New()
	q.Push(mustNode(t, 5), 5, 1)
	q.Push(mustNode(t, 5), 5, 3)
	q.Push(mustNode(t, 5), 5, 2)

	_, d1, _ := q.Pop()
	_, d2, _ := q.Pop()
	_, d3, _ := q.Pop()
	if d1 != 3 || d2 != 2 || d3 != 1 {
		t.Errorf("depth pop order = [%d, %d, %d], want [3, 2, 1]", d1, d2, d3)
	}
}

func TestPriorityQueue_TieBreaksByInsertionOrder(t *testing.T) {
	q := New()
	first := mustNode(t, 5)
	second := mustNode(t, 5)
	q.Push(first, 5, 0)
	q.Push(second, 5, 0)

	got1, _, _ := q.Pop()
	got2, _, _ := q.Pop()
	if got1 != first || got2 != second {
		t.Error("equal-priority, equal-depth items must pop in insertion order")
	}
}

func TestPriorityQueue_EmptyPopReturnsFalse(t *testing.T) {
	q := New()
	if _, _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue returned ok=true")
	}
	if _, _, ok := q.Peek(); ok {
		t.Error("Peek on empty queue returned ok=true")
	}
}

func TestPriorityQueue_PeekDoesNotRemove(t *testing.T) {
	q := New()
	q.Push(mustNode(t, 4), 4, 0)
	peeked, _, _ := q.Peek()
	if q.Len() != 1 {
		t.Errorf("Len after Peek = %d, want 1", q.Len())
	}
	popped, _, _ := q.Pop()
	if peeked != popped {
		t.Error("Peek and subsequent Pop returned different nodes")
	}
}

func TestPriorityQueue_LenTracksPushPop(t *testing.T) {
	q := New()
	if q.Len() != 0 {
		t.Fatalf("Len of new queue = %d, want 0", q.Len())
	}
	for i := 0; i < 10; i++ {
		q.Push(mustNode(t, float64(i)), float64(i), 0)
	}
	if q.Len() != 10 {
		t.Fatalf("Len after 10 pushes = %d, want 10", q.Len())
	}
	for i := 10; i > 0; i-- {
		if _, _, ok := q.Pop(); !ok {
			t.Fatal("unexpected empty pop")
		}
		if q.Len() != i-1 {
			t.Errorf("Len after pop = %d, want %d", q.Len(), i-1)
		}
	}
}
