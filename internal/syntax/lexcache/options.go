package lexcache

import (
	"log/slog"
	"time"

	"github.com/dshills/textcore/internal/syntax/schedule"
)

// Default configuration values.
const (
	DefaultCheckpointStride = 64
	DefaultMaxScanDistance  = 20000
	DefaultWorkSlice        = 100 * time.Millisecond
	DefaultWorkPause        = 200 * time.Millisecond
	DefaultTabSize          = 4
)

type options struct {
	stride    int
	maxScan   int
	workSlice time.Duration
	workPause time.Duration
	tabSize   int
	sched     schedule.Scheduler
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		stride:    DefaultCheckpointStride,
		maxScan:   DefaultMaxScanDistance,
		workSlice: DefaultWorkSlice,
		workPause: DefaultWorkPause,
		tabSize:   DefaultTabSize,
	}
}

// Option configures a Cache during creation.
type Option func(*options)

// WithCheckpointStride sets how many lines apart state checkpoints are taken.
func WithCheckpointStride(lines int) Option {
	return func(o *options) {
		if lines > 0 {
			o.stride = lines
		}
	}
}

// WithMaxScanDistance sets the largest gap, in bytes, a synchronous query
// will rescan from a checkpoint before falling back to an approximate state.
func WithMaxScanDistance(bytes int) Option {
	return func(o *options) {
		if bytes > 0 {
			o.maxScan = bytes
		}
	}
}

// WithWorkSlice sets the time budget of one background work turn.
func WithWorkSlice(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.workSlice = d
		}
	}
}

// WithWorkPause sets the delay between background work turns.
func WithWorkPause(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.workPause = d
		}
	}
}

// WithTabSize sets the initial tab size passed to streams.
func WithTabSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.tabSize = size
		}
	}
}

// WithScheduler sets the scheduler background work runs on. Without one the
// cache creates a Loop and runs it on its own goroutine until Close.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) {
		o.sched = s
	}
}

// WithLogger sets the logger for debug events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
