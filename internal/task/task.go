// Package task contains pure task types with ZERO infrastructure imports.
// A task exposes a loss function over its execution start time, a duration,
// and a release time; some variants also support a time-origin shift that
// re-parameterizes the task relative to a new zero.
package task

import (
	"fmt"

	"github.com/chansched/chansched/internal/schederr"
)

// Task is the minimal capability set the scheduler core is polymorphic over.
type Task interface {
	// Eval returns the loss of starting this task at time t, and ok=false if
	// t is before the task's release time (a hard precondition violation,
	// not a value to be silently propagated).
	Eval(t float64) (loss float64, ok bool)

	// Duration returns the task's fixed execution duration.
	Duration() float64

	// TRelease returns the earliest time the task may be scheduled.
	TRelease() float64
}

// Shiftable is the optional capability for tasks that support re-parameterizing
// their time origin. Implementations mutate the receiver in place.
type Shiftable interface {
	Task

	// ShiftOrigin moves the time axis forward by delta (delta > 0), returning
	// any loss already "crossed" by the shift.
	ShiftOrigin(delta float64) (incurred float64, err error)
}

// ReluDrop is the canonical task variant: a rectified-linear loss that rises
// at a constant slope from the release time, then saturates at a constant
// drop penalty.
type ReluDrop struct {
	duration float64
	tRelease float64
	slope    float64
	tDrop    float64
	lDrop    float64
}

// NewReluDrop constructs a ReluDrop task, validating all numeric-range
// invariants up front.
func NewReluDrop(duration, tRelease, slope, tDrop, lDrop float64) (ReluDrop, error) {
	if duration < 0 || tRelease < 0 || slope < 0 || tDrop < 0 || lDrop < 0 {
		return ReluDrop{}, fmt.Errorf("%w: all of duration/t_release/slope/t_drop/l_drop must be >= 0", schederr.ErrBadTaskParameters)
	}
	if lDrop < slope*tDrop {
		return ReluDrop{}, fmt.Errorf("%w: l_drop (%v) must be >= slope*t_drop (%v)", schederr.ErrBadTaskParameters, lDrop, slope*tDrop)
	}
	return ReluDrop{duration: duration, tRelease: tRelease, slope: slope, tDrop: tDrop, lDrop: lDrop}, nil
}

// Duration implements Task.
func (r ReluDrop) Duration() float64 { return r.duration }

// TRelease implements Task.
func (r ReluDrop) TRelease() float64 { return r.tRelease }

// Slope returns the loss growth rate between release and drop time.
func (r ReluDrop) Slope() float64 { return r.slope }

// TDrop returns the drop time relative to the release time.
func (r ReluDrop) TDrop() float64 { return r.tDrop }

// LDrop returns the constant loss incurred once the drop time has passed.
func (r ReluDrop) LDrop() float64 { return r.lDrop }

// Eval implements Task.
func (r ReluDrop) Eval(t float64) (float64, bool) {
	rel := t - r.tRelease
	if rel < -1e-9 {
		return 0, false
	}
	if rel >= r.tDrop {
		return r.lDrop, true
	}
	return r.slope * rel, true
}

// ShiftOrigin implements Shiftable, moving the time origin forward by delta
// (delta > 0) and re-parameterizing the task in place exactly as the source
// material's shift_origin: the new release time is max(0, t_release-delta);
// if that lands on zero, the loss already crossed is folded out of l_drop
// and t_drop is clipped accordingly.
func (r *ReluDrop) ShiftOrigin(delta float64) (float64, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("%w: shift delta must be > 0, got %v", schederr.ErrBadTaskParameters, delta)
	}
	tExcess := delta - r.tRelease
	newRelease := -tExcess
	if newRelease < 0 {
		newRelease = 0
	}
	r.tRelease = newRelease
	if r.tRelease != 0 {
		return 0, nil
	}
	lossInc, ok := r.Eval(tExcess)
	if !ok {
		lossInc = 0
	}
	newTDrop := r.tDrop - tExcess
	if newTDrop < 0 {
		newTDrop = 0
	}
	r.tDrop = newTDrop
	r.lDrop = r.lDrop - lossInc
	return lossInc, nil
}

// Generic wraps an arbitrary loss function, the open-ended member of the
// closed task-variant union (ReluDrop is the other). It does not implement
// Shiftable.
type Generic struct {
	duration float64
	tRelease float64
	lossFunc func(t float64) (float64, bool)
}

// NewGeneric constructs a Generic task from an explicit loss function.
func NewGeneric(duration, tRelease float64, lossFunc func(t float64) (float64, bool)) (Generic, error) {
	if duration < 0 || tRelease < 0 {
		return Generic{}, fmt.Errorf("%w: duration and t_release must be >= 0", schederr.ErrBadTaskParameters)
	}
	if lossFunc == nil {
		return Generic{}, fmt.Errorf("%w: loss_func must not be nil", schederr.ErrBadTaskParameters)
	}
	return Generic{duration: duration, tRelease: tRelease, lossFunc: lossFunc}, nil
}

// Duration implements Task.
func (g Generic) Duration() float64 { return g.duration }

// TRelease implements Task.
func (g Generic) TRelease() float64 { return g.tRelease }

// Eval implements Task.
func (g Generic) Eval(t float64) (float64, bool) {
	if t < g.tRelease-1e-9 {
		return 0, false
	}
	return g.lossFunc(t)
}

// Cloner is an optional capability for tasks whose identity is a pointer
// that must not be aliased across schedule-node clones (spec §5: "aliasing
// between parent and child nodes is forbidden"). Value-typed tasks (plain
// ReluDrop, Generic) need no such method: copying the interface value
// already yields an independent copy.
type Cloner interface {
	CloneTask() Task
}

// CloneTask implements Cloner for *ReluDrop, the shift-capable variant.
func (r *ReluDrop) CloneTask() Task {
	c := *r
	return &c
}

var (
	_ Task      = ReluDrop{}
	_ Shiftable = (*ReluDrop)(nil)
	_ Task      = Generic{}
	_ Cloner    = (*ReluDrop)(nil)
)
