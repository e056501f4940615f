package lexcache

import (
	"slices"
	"time"
)

// AdvanceFrontier returns a request that completes once the document has
// been tokenized up to target. Work happens in background slices; requests
// for the same target share one Request, and all pending requests are served
// by a single loop running toward the farthest target.
func (c *Cache[S]) AdvanceFrontier(target int) *Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	target = max(0, min(target, c.doc.Len()))
	if err := c.usable(); err != nil {
		return completedRequest(target, err)
	}
	if c.frontierPos >= target {
		return completedRequest(target, nil)
	}
	for _, req := range c.requests {
		if req.Target() == target && !req.Abandoned() {
			return req
		}
	}
	req := newRequest(target)
	c.requests = append(c.requests, req)
	if c.timer == nil {
		c.schedule(0)
	}
	return req
}

// schedule replaces the work timer with one firing after delay.
func (c *Cache[S]) schedule(delay time.Duration) {
	c.stopTimer()
	gen := c.gen
	c.timer = c.sched.AfterFunc(delay, func() { c.work(gen) })
}

// work runs one background slice.
func (c *Cache[S]) work(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.closed || c.err != nil {
		return
	}
	c.timer = nil

	c.purgeAbandoned()
	if len(c.requests) == 0 {
		return
	}
	goal := 0
	for _, req := range c.requests {
		goal = max(goal, req.Target())
	}

	c.stats.Slices++
	deadline := c.sched.Now().Add(c.opts.workSlice)
	if c.frontierLine <= c.doc.Lines() {
		r, err := c.resume(c.frontierLine, false)
		if err != nil {
			c.fail(err)
			return
		}
		// Catching up from a checkpoint to the frontier is bounded by the
		// stride and is not cut short, so every slice makes progress.
		if err := c.advance(r, c.frontierLine, time.Time{}, nil); err != nil {
			return
		}
		if err := c.advance(r, c.stopLineFor(goal), deadline, nil); err != nil {
			return
		}
	}

	c.resolve()
	if len(c.requests) > 0 {
		c.logger.Debug("yielding", "frontier", c.frontierPos, "goal", goal, "pending", len(c.requests))
		c.schedule(c.opts.workPause)
	}
}

// stopLineFor returns the first line whose start is at or after pos.
func (c *Cache[S]) stopLineFor(pos int) int {
	line, err := c.doc.LineAt(pos)
	if err != nil {
		return c.doc.Lines() + 1
	}
	if pos == line.Start {
		return line.Number
	}
	return line.Number + 1
}

// resolve completes every request the frontier has reached. Requests
// abandoned while the slice ran are dropped without completing.
func (c *Cache[S]) resolve() {
	purged := 0
	c.requests = slices.DeleteFunc(c.requests, func(req *Request) bool {
		if req.Abandoned() {
			purged++
			return true
		}
		if req.Target() <= c.frontierPos {
			if !req.complete(nil) {
				purged++
			}
			return true
		}
		return false
	})
	if purged > 0 {
		c.stats.Purged += purged
		c.logger.Debug("purged abandoned requests", "count", purged)
	}
}

// purgeAbandoned drops abandoned requests without completing them.
func (c *Cache[S]) purgeAbandoned() {
	before := len(c.requests)
	c.requests = slices.DeleteFunc(c.requests, (*Request).Abandoned)
	if n := before - len(c.requests); n > 0 {
		c.stats.Purged += n
		c.logger.Debug("purged abandoned requests", "count", n)
	}
}
