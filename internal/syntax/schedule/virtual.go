package schedule

import (
	"sync"
	"time"
)

// Virtual is a manually driven Scheduler. Timers only fire from Advance or
// RunPending, on the calling goroutine, in deadline order.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	step   time.Duration
	seq    uint64
	timers []*virtualTimer
}

type virtualTimer struct {
	v        *Virtual
	deadline time.Time
	seq      uint64
	f        func()
	state    int
}

// NewVirtual returns a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// SetStep makes every Now call advance the clock by d after reading it. A
// non-zero step lets time-sliced work exhaust its budget without real time
// passing.
func (v *Virtual) SetStep(d time.Duration) {
	v.mu.Lock()
	v.step = d
	v.mu.Unlock()
}

// Now implements Scheduler.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.now
	v.now = v.now.Add(v.step)
	return now
}

// AfterFunc implements Scheduler.
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	t := &virtualTimer{v: v, deadline: v.now.Add(d), seq: v.seq, f: f}
	v.timers = append(v.timers, t)
	return t
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

// Advance moves the clock forward by d, firing every timer that falls due,
// including timers scheduled by callbacks within the window. It returns the
// number of callbacks run.
func (v *Virtual) Advance(d time.Duration) int {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	fired := 0
	for {
		t := v.popDue(target, false)
		if t == nil {
			break
		}
		t.f()
		fired++
	}

	v.mu.Lock()
	if v.now.Before(target) {
		v.now = target
	}
	v.mu.Unlock()
	return fired
}

// RunPending fires timers in deadline order, moving the clock to each
// deadline, until none remain or limit callbacks have run. It returns the
// number of callbacks run.
func (v *Virtual) RunPending(limit int) int {
	fired := 0
	for fired < limit {
		t := v.popDue(time.Time{}, true)
		if t == nil {
			break
		}
		t.f()
		fired++
	}
	return fired
}

// popDue removes and returns the earliest live timer due by target, or any
// earliest timer when all is set.
func (v *Virtual) popDue(target time.Time, all bool) *virtualTimer {
	v.mu.Lock()
	defer v.mu.Unlock()

	best := -1
	for i, t := range v.timers {
		if best < 0 || t.deadline.Before(v.timers[best].deadline) ||
			(t.deadline.Equal(v.timers[best].deadline) && t.seq < v.timers[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := v.timers[best]
	if !all && t.deadline.After(target) {
		return nil
	}
	v.timers = append(v.timers[:best], v.timers[best+1:]...)
	t.state = timerFired
	if v.now.Before(t.deadline) {
		v.now = t.deadline
	}
	return t
}

// Stop implements Timer.
func (t *virtualTimer) Stop() bool {
	v := t.v
	v.mu.Lock()
	defer v.mu.Unlock()
	if t.state != timerPending {
		return false
	}
	t.state = timerStopped
	for i, other := range v.timers {
		if other == t {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			break
		}
	}
	return true
}
