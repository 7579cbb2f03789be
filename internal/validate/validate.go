// Package validate checks a proposed schedule for structural correctness
// and independently re-derives its loss. The search drivers do not call it
// themselves; it is a "verify before accepting" check a caller applies to
// any search strategy's result.
package validate

import (
	"fmt"
	"sort"

	"github.com/chansched/chansched/internal/schederr"
	"github.com/chansched/chansched/internal/task"
)

// CheckValid reports whether tEx/chEx form a structurally valid complete
// schedule over tasks: every task assigned, channel indices in range, no
// channel ever running two tasks at overlapping times, and every task
// started at or after its release time.
func CheckValid(tasks []task.Task, tEx []float64, chEx []int, nChannels int) error {
	n := len(tasks)
	if len(tEx) != n || len(chEx) != n {
		return fmt.Errorf("%w: t_ex/ch_ex length must match len(tasks)", schederr.ErrBadShape)
	}

	byChannel := make(map[int][]int, nChannels)
	for i := 0; i < n; i++ {
		c := chEx[i]
		if c < 0 || c >= nChannels {
			return fmt.Errorf("%w: task %d assigned out-of-range channel %d", schederr.ErrBadSequence, i, c)
		}
		if tEx[i] < tasks[i].TRelease()-1e-9 {
			return fmt.Errorf("%w: task %d starts at %v before its release time %v", schederr.ErrBadSequence, i, tEx[i], tasks[i].TRelease())
		}
		byChannel[c] = append(byChannel[c], i)
	}

	for _, indices := range byChannel {
		sort.Slice(indices, func(a, b int) bool { return tEx[indices[a]] < tEx[indices[b]] })
		for k := 1; k < len(indices); k++ {
			prev, cur := indices[k-1], indices[k]
			prevEnd := tEx[prev] + tasks[prev].Duration()
			if tEx[cur] < prevEnd-1e-9 {
				return fmt.Errorf("%w: tasks %d and %d overlap on the same channel", schederr.ErrBadSequence, prev, cur)
			}
		}
	}
	return nil
}

// EvalLoss independently re-derives the total loss of a complete schedule by
// evaluating each task's loss function at its assigned execution time,
// ignoring any loss accumulator a search strategy may have tracked.
func EvalLoss(tasks []task.Task, tEx []float64) (float64, error) {
	if len(tEx) != len(tasks) {
		return 0, fmt.Errorf("%w: t_ex length must match len(tasks)", schederr.ErrBadShape)
	}
	var total float64
	for i, ti := range tasks {
		loss, ok := ti.Eval(tEx[i])
		if !ok {
			return 0, fmt.Errorf("%w: task %d evaluated before its release time", schederr.ErrBadSequence, i)
		}
		total += loss
	}
	return total, nil
}
