package text

import "strings"

// RangeCursor walks the fragments of a sub-range of a document.
type RangeCursor struct {
	cursor *Cursor
	skip   int
	limit  int
	value  string
}

// IterRange returns a cursor over [from, to). When from > to the range is
// walked backward from from down to to. Bounds are clamped to the document.
func (t Text) IterRange(from, to int) *RangeCursor {
	n := t.Len()
	from = max(0, min(from, n))
	to = max(0, min(to, n))
	if from > to {
		return &RangeCursor{cursor: t.Iter(Backward), skip: n - from, limit: from - to}
	}
	return &RangeCursor{cursor: t.Iter(Forward), skip: from, limit: to - from}
}

// Next advances to the next fragment in the range.
func (c *RangeCursor) Next() bool {
	if c.limit <= 0 {
		c.limit = -1
		c.value = ""
		return false
	}
	if !c.cursor.next(c.skip) {
		c.limit = -1
		c.value = ""
		return false
	}
	c.skip = 0
	value := c.cursor.value
	n := len(value)
	if n > c.limit {
		if c.cursor.dir == Forward {
			value = value[:c.limit]
		} else {
			value = value[n-c.limit:]
		}
	}
	c.value = value
	c.limit -= len(value)
	return true
}

// Value returns the current fragment.
func (c *RangeCursor) Value() string { return c.value }

// LineBreak reports whether the current fragment is a line break.
func (c *RangeCursor) LineBreak() bool { return c.limit >= 0 && c.cursor.lineBreak }

// Done reports whether the range is exhausted.
func (c *RangeCursor) Done() bool { return c.limit < 0 }

// LineCursor yields whole lines, starting at a position.
type LineCursor struct {
	cursor *Cursor
	skip   int
	value  string
	done   bool
}

// IterLines returns a cursor over the lines of the document starting at from.
// When from is not a line start, the first value is the rest of that line.
func (t Text) IterLines(from int) *LineCursor {
	return &LineCursor{cursor: t.Iter(Forward), skip: max(0, min(from, t.Len()))}
}

// Next advances to the next line.
func (c *LineCursor) Next() bool {
	if c.done || c.cursor.done {
		c.done = true
		c.value = ""
		return false
	}
	var sb strings.Builder
	for {
		c.cursor.next(c.skip)
		c.skip = 0
		if c.cursor.done || c.cursor.lineBreak {
			c.value = sb.String()
			return true
		}
		sb.WriteString(c.cursor.value)
	}
}

// Value returns the current line.
func (c *LineCursor) Value() string { return c.value }

// LineBreak always reports false; line breaks are consumed between lines.
func (c *LineCursor) LineBreak() bool { return false }

// Done reports whether all lines have been returned.
func (c *LineCursor) Done() bool { return c.done }
