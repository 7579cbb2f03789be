package bound

import (
	"testing"

	"github.com/chansched/chansched/internal/schedule"
	"github.com/chansched/chansched/internal/task"
)

func mustReluDrop(t *testing.T, duration, tRelease, slope, tDrop, lDrop float64) task.ReluDrop {
	t.Helper()
	r, err := task.NewReluDrop(duration, tRelease, slope, tDrop, lDrop)
	if err != nil {
		t.Fatalf("NewReluDrop: %v", err)
	}
	return r
}

func TestNew_BoundsCollapseAtTerminal(t *testing.T) {
	tasks := []task.Task{
		mustReluDrop(t, 1, 0, 1, 5, 5),
		mustReluDrop(t, 1, 0, 1, 5, 5),
	}
	n, err := schedule.New(tasks, []float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Extend(0); err != nil {
		t.Fatal(err)
	}
	if err := n.Extend(1); err != nil {
		t.Fatal(err)
	}

	bn, err := New(n)
	if err != nil {
		t.Fatal(err)
	}
	if bn.LossLower() != bn.LossUpper() || bn.LossLower() != n.Loss() {
		t.Errorf("terminal bounds = [%v, %v], want collapsed to loss %v", bn.LossLower(), bn.LossUpper(), n.Loss())
	}
}

func TestNew_LowerLessOrEqualUpper(t *testing.T) {
	tasks := []task.Task{
		mustReluDrop(t, 2, 0, 1, 5, 5),
		mustReluDrop(t, 3, 1, 2, 8, 16),
		mustReluDrop(t, 1, 2, 1, 5, 5),
	}
	n, err := schedule.New(tasks, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	bn, err := New(n)
	if err != nil {
		t.Fatal(err)
	}
	if bn.LossLower() > bn.LossUpper() {
		t.Errorf("loss_lower (%v) > loss_upper (%v)", bn.LossLower(), bn.LossUpper())
	}
}

func TestRecompute_LowerLessOrEqualUpperAcrossExtensions(t *testing.T) {
	tasks := []task.Task{
		mustReluDrop(t, 2, 0, 1, 5, 5),
		mustReluDrop(t, 3, 1, 2, 8, 16),
		mustReluDrop(t, 1, 2, 1, 5, 5),
	}
	n, err := schedule.New(tasks, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	bn, err := New(n)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{0, 1, 2} {
		if err := n.Extend(i); err != nil {
			t.Fatal(err)
		}
		if err := bn.Recompute(); err != nil {
			t.Fatalf("Recompute: %v", err)
		}
		if bn.LossLower() > bn.LossUpper() {
			t.Errorf("after extending %d: loss_lower (%v) > loss_upper (%v)", i, bn.LossLower(), bn.LossUpper())
		}
		if bn.LossLower() < n.Loss() {
			t.Errorf("after extending %d: loss_lower (%v) < accumulated loss (%v)", i, bn.LossLower(), n.Loss())
		}
	}
	if !n.Terminal() {
		t.Fatal("expected terminal after extending all tasks")
	}
	if bn.LossLower() != bn.LossUpper() || bn.LossLower() != n.Loss() {
		t.Errorf("terminal bounds = [%v, %v], want collapsed to loss %v", bn.LossLower(), bn.LossUpper(), n.Loss())
	}
}

func TestNew_EmptyTaskSetIsTerminal(t *testing.T) {
	n, err := schedule.New(nil, []float64{0})
	if err != nil {
		t.Fatal(err)
	}
	bn, err := New(n)
	if err != nil {
		t.Fatal(err)
	}
	if bn.LossLower() != 0 || bn.LossUpper() != 0 {
		t.Errorf("bounds on empty task set = [%v, %v], want [0, 0]", bn.LossLower(), bn.LossUpper())
	}
}
