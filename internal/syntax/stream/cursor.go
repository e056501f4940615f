package stream

import "github.com/dshills/textcore/internal/engine/text"

// LineCursor yields a Stream for each line of a document, starting at a line
// start.
type LineCursor struct {
	lines   *text.LineCursor
	tabSize int
	offset  int
	next    int
}

// NewLineCursor returns a cursor over doc starting at pos, which should be
// the start of a line.
func NewLineCursor(doc text.Text, pos, tabSize int) *LineCursor {
	return &LineCursor{
		lines:   doc.IterLines(pos),
		tabSize: tabSize,
		offset:  pos,
		next:    pos,
	}
}

// Next returns a stream over the next line, or false when the document is
// exhausted.
func (c *LineCursor) Next() (*Stream, bool) {
	if !c.lines.Next() {
		return nil, false
	}
	line := c.lines.Value()
	c.offset = c.next
	c.next += len(line) + 1
	return New(line, c.tabSize), true
}

// Offset returns the document offset of the line last returned by Next.
func (c *LineCursor) Offset() int { return c.offset }
