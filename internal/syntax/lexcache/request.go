package lexcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Request is a pending "tokenize up to target" job returned by
// AdvanceFrontier. Done is closed once the frontier reaches the target, or
// when the cache fails, in which case Err reports why. A request that has been
// abandoned is never completed.
type Request struct {
	id     uuid.UUID
	target atomic.Int64
	done   chan struct{}

	mu        sync.Mutex // guards abandoned, completed and err
	abandoned bool
	completed bool
	err       error
}

func newRequest(target int) *Request {
	r := &Request{id: uuid.New(), done: make(chan struct{})}
	r.target.Store(int64(target))
	return r
}

func completedRequest(target int, err error) *Request {
	r := newRequest(target)
	r.complete(err)
	return r
}

// ID returns the unique request identifier.
func (r *Request) ID() uuid.UUID { return r.id }

// Target returns the document position the request waits for. Edits applied
// to the cache move it along with the text.
func (r *Request) Target() int { return int(r.target.Load()) }

// Done returns a channel closed when the request completes.
func (r *Request) Done() <-chan struct{} { return r.done }

// Err returns the failure that completed the request, if any. It is only
// meaningful after Done is closed.
func (r *Request) Err() error {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.err
	default:
		return nil
	}
}

// Abandon marks the request as no longer wanted. Once Abandon returns the
// request never completes, even if a running slice reaches its target.
// Abandoning a completed request has no effect on Done.
func (r *Request) Abandon() {
	r.mu.Lock()
	r.abandoned = true
	r.mu.Unlock()
}

// Abandoned reports whether Abandon was called.
func (r *Request) Abandoned() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.abandoned
}

// Wait blocks until the request completes or ctx is done.
func (r *Request) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// complete closes Done with err. It reports false, leaving the request
// untouched, when the request was abandoned or already completed.
func (r *Request) complete(err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.abandoned || r.completed {
		return false
	}
	r.err = err
	r.completed = true
	close(r.done)
	return true
}
