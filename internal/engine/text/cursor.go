package text

// Direction selects the traversal order of a Cursor.
type Direction int

const (
	// Forward walks from the document start to its end.
	Forward Direction = 1
	// Backward walks from the document end to its start.
	Backward Direction = -1
)

// Iterator is implemented by all document cursors.
type Iterator interface {
	// Next advances to the next fragment and reports whether there is one.
	Next() bool
	// Value returns the current fragment. A line break has the value "\n".
	Value() string
	// LineBreak reports whether the current fragment is a line break.
	LineBreak() bool
}

// Cursor walks the raw fragments of a document: content strings from the
// leaves and discrete line-break markers between them. Empty fragments are
// never produced.
type Cursor struct {
	dir     Direction
	nodes   []node
	offsets []int

	value     string
	lineBreak bool
	done      bool
}

// Iter returns a cursor over the whole document in the given direction.
func (t Text) Iter(dir Direction) *Cursor {
	if dir != Backward {
		dir = Forward
	}
	root := t.node()
	return &Cursor{
		dir:     dir,
		nodes:   append(make([]node, 0, 8), root),
		offsets: append(make([]int, 0, 8), startOffset(root, dir)),
	}
}

// startOffset returns the index a cursor starts at inside n.
func startOffset(n node, dir Direction) int {
	if dir == Forward {
		return 0
	}
	switch n := n.(type) {
	case *leaf:
		return len(n.text)
	case *branch:
		return len(n.children)
	}
	return 0
}

// Next advances to the next fragment.
func (c *Cursor) Next() bool {
	return c.next(0)
}

// Skip advances past n positions and then to the fragment at the resulting
// position, which may start mid-string. A line break counts as one position.
func (c *Cursor) Skip(n int) bool {
	return c.next(n)
}

// Value returns the current fragment.
func (c *Cursor) Value() string { return c.value }

// LineBreak reports whether the current fragment is a line break.
func (c *Cursor) LineBreak() bool { return c.lineBreak }

// Done reports whether the cursor has moved past the last fragment.
func (c *Cursor) Done() bool { return c.done }

func (c *Cursor) pop() {
	c.nodes = c.nodes[:len(c.nodes)-1]
	c.offsets = c.offsets[:len(c.offsets)-1]
}

func (c *Cursor) next(skip int) bool {
	for {
		last := len(c.nodes) - 1
		if last < 0 {
			c.done = true
			c.value = ""
			c.lineBreak = false
			return false
		}
		offset := c.offsets[last]

		switch top := c.nodes[last].(type) {
		case *leaf:
			near, far := 0, len(top.text)
			if c.dir == Backward {
				near, far = far, near
			}
			// Inside a leaf, moving past a string boundary without having
			// reported the break means the break comes first.
			if offset != near && !c.lineBreak {
				c.lineBreak = true
				if skip == 0 {
					c.value = "\n"
					return true
				}
				skip--
				continue
			}
			idx := offset
			if c.dir == Backward {
				idx--
			}
			s := top.text[idx]
			offset += int(c.dir)
			c.offsets[last] = offset
			if offset == far {
				c.pop()
			}
			c.lineBreak = false
			if len(s) > skip {
				switch {
				case skip == 0:
					c.value = s
				case c.dir == Forward:
					c.value = s[skip:]
				default:
					c.value = s[:len(s)-skip]
				}
				return true
			}
			skip -= len(s)

		case *branch:
			far := len(top.children)
			if c.dir == Backward {
				far = 0
			}
			if offset == far {
				c.pop()
				continue
			}
			idx := offset
			if c.dir == Backward {
				idx--
			}
			child := top.children[idx]
			c.offsets[last] = offset + int(c.dir)
			if skip > child.length() {
				skip -= child.length()
			} else {
				c.nodes = append(c.nodes, child)
				c.offsets = append(c.offsets, startOffset(child, c.dir))
			}
		}
	}
}
