package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrLoopStopped is returned by Post after Run has returned.
var ErrLoopStopped = errors.New("schedule: loop stopped")

// Loop is a single-goroutine task queue. Tasks posted with Post, and the
// callbacks of timers created with AfterFunc, run one at a time on the
// goroutine that called Run.
type Loop struct {
	logger *slog.Logger

	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used to report task panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		logger: slog.New(slog.DiscardHandler),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time { return time.Now() }

// Post enqueues f to run on the loop goroutine.
func (l *Loop) Post(f func()) error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// AfterFunc posts f to the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		_ = l.Post(t.run(f))
	})
	return t
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Run executes queued tasks until ctx is done. Tasks still queued when Run
// returns are dropped, and later Posts fail with ErrLoopStopped.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			task := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()

			if err := ctx.Err(); err != nil {
				return err
			}
			l.runTask(task)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", "panic", r)
		}
	}()
	task()
}

// loopTimer guards a callback so that Stop and delivery agree on whether
// it ran.
type loopTimer struct {
	mu    sync.Mutex
	state int
	timer *time.Timer
}

func (t *loopTimer) run(f func()) func() {
	return func() {
		t.mu.Lock()
		if t.state != timerPending {
			t.mu.Unlock()
			return
		}
		t.state = timerFired
		t.mu.Unlock()
		f()
	}
}

// Stop implements Timer.
func (t *loopTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != timerPending {
		return false
	}
	t.state = timerStopped
	t.timer.Stop()
	return true
}
