package text

import (
	"strings"
	"sync"
)

// Line describes one line of a document. Start and End are byte offsets of the
// line's content, excluding the line break; Number is 1-based.
//
// A Line whose content spans several leaves resolves its text lazily by
// walking a cursor over the document it was taken from. That document is only
// read, never written.
type Line struct {
	Start  int
	End    int
	Number int

	content  string
	resolved bool
	lazy     *lazyContent
}

// Len returns the byte length of the line's content.
func (l Line) Len() int {
	return l.End - l.Start
}

// Text returns the full content of the line.
func (l Line) Text() string {
	return l.Slice(0, l.Len())
}

// Slice returns the content in [from, to), relative to the line start.
// Bounds are clamped to the line.
func (l Line) Slice(from, to int) string {
	from = max(0, min(from, l.Len()))
	to = max(from, min(to, l.Len()))
	if from == to {
		return ""
	}
	if l.resolved {
		return l.content[from:to]
	}
	if l.lazy == nil {
		return ""
	}
	return l.lazy.slice(from, to)
}

// String returns the line content.
func (l Line) String() string {
	return l.Text()
}

func (l *Line) unresolve() {
	l.content = ""
	l.resolved = false
}

// finish attaches lazy content resolution to a line that spans leaves.
func (l *Line) finish(doc Text) {
	if !l.resolved && l.lazy == nil {
		l.lazy = &lazyContent{doc: doc, start: l.Start, length: l.End - l.Start}
	}
}

// lazyContent reads a line's text through a cursor over its document,
// keeping the fragments seen so far.
type lazyContent struct {
	mu      sync.Mutex
	doc     Text
	start   int
	length  int
	cursor  *Cursor
	strings []string
	full    string
	hasFull bool
}

func (c *lazyContent) slice(from, to int) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasFull {
		return c.full[from:to]
	}
	if c.cursor == nil {
		c.cursor = c.doc.Iter(Forward)
		c.cursor.Skip(c.start)
		c.strings = []string{c.cursor.Value()}
	}

	var sb strings.Builder
	pos := 0
	for i := 0; ; i++ {
		if i == len(c.strings) {
			if !c.cursor.Next() || c.cursor.LineBreak() {
				break
			}
			c.strings = append(c.strings, c.cursor.Value())
		}
		s := c.strings[i]
		end := pos + len(s)
		if end > from {
			sb.WriteString(s[max(0, from-pos):min(len(s), to-pos)])
			if end >= to {
				break
			}
		}
		pos = end
	}

	result := sb.String()
	if from == 0 && to == c.length {
		c.full = result
		c.hasFull = true
		c.cursor = nil
		c.strings = nil
	}
	return result
}
