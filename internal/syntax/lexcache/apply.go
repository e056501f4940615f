package lexcache

import (
	"fmt"
	"slices"
	"sort"

	"github.com/dshills/textcore/internal/engine/change"
	"github.com/dshills/textcore/internal/engine/text"
)

// Transaction describes an edit to the cached document.
type Transaction struct {
	// Doc is the document after the edit.
	Doc text.Text
	// Changes maps the previous document onto Doc.
	Changes change.Set
	// TabSize is the new tab size, or 0 to keep the current one.
	TabSize int
}

// Apply moves the cache onto a new document. Everything computed from the
// start of the first changed line onward is discarded; a tab size change
// discards everything. State before the changed line is kept.
func (c *Cache[S]) Apply(tr Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	old := c.doc
	c.doc = tr.Doc

	tabChanged := tr.TabSize > 0 && tr.TabSize != c.tabSize
	if tabChanged {
		c.tabSize = tr.TabSize
	}
	if tr.Changes.Empty() && !tabChanged {
		if old.Len() != tr.Doc.Len() {
			c.invalidate(0, 1, tr.Changes)
			return fmt.Errorf("%w: length %d -> %d with no changes", ErrLengthMismatch, old.Len(), tr.Doc.Len())
		}
		return nil
	}

	var mismatch error
	if old.Len()+tr.Changes.LengthDelta() != tr.Doc.Len() {
		mismatch = fmt.Errorf("%w: length %d%+d != %d", ErrLengthMismatch, old.Len(), tr.Changes.LengthDelta(), tr.Doc.Len())
	}

	boundary, boundaryLine := 0, 1
	if !tabChanged && mismatch == nil {
		if line, err := old.LineAt(tr.Changes.MinFrom()); err == nil {
			boundary, boundaryLine = line.Start, line.Number
		}
	}
	c.invalidate(boundary, boundaryLine, tr.Changes)
	return mismatch
}

// invalidate drops everything computed at or after boundary, which is the
// start of line boundaryLine in both the old and the new document, and maps
// the rest through changes.
func (c *Cache[S]) invalidate(boundary, boundaryLine int, changes change.Set) {
	c.stats.Invalidations++
	newLen := c.doc.Len()

	if boundary <= c.frontierPos {
		i := sort.Search(len(c.checkpoints), func(i int) bool { return c.checkpoints[i].pos >= boundary })
		c.checkpoints = slices.Clip(c.checkpoints[:i])
		c.frontierPos, c.frontierLine = boundary, boundaryLine
		var zero S
		c.frontierState, c.hasLive = zero, false
		j := sort.Search(len(c.tokens), func(j int) bool { return c.tokens[j].To > boundary })
		c.tokens = slices.Clip(c.tokens[:j])
		c.logger.Debug("frontier reset", "pos", boundary, "line", boundaryLine)
	} else {
		kept := c.checkpoints[:0:0]
		for _, cp := range c.checkpoints {
			pos, ok := changes.MapPos(cp.pos, change.AssocBefore)
			if !ok || pos < 0 || pos > newLen {
				continue
			}
			cp.pos = pos
			kept = append(kept, cp)
		}
		c.checkpoints = kept
		if pos, ok := changes.MapPos(c.frontierPos, change.AssocBefore); ok {
			c.frontierPos = pos
		}
	}

	if w := c.window; w != nil {
		switch {
		case boundary <= w.from:
			c.window = nil
		case boundary < w.to:
			i := sort.Search(len(w.decos), func(i int) bool { return w.decos[i].To > boundary })
			c.window = &window{from: w.from, to: boundary, decos: slices.Clone(w.decos[:i]), approx: w.approx}
		}
	}

	for _, req := range c.requests {
		pos, _ := changes.MapPos(req.Target(), change.AssocAfter)
		req.target.Store(int64(max(0, min(pos, newLen))))
	}
	if len(c.requests) > 0 && c.err == nil {
		c.schedule(c.opts.workPause)
	} else {
		c.stopTimer()
	}
}
