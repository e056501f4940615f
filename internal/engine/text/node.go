package text

import "slices"

// node is a subtree of a Text. It has exactly two implementations: *leaf and
// *branch.
type node interface {
	length() int
	lineCount() int

	// replaceInner returns a new subtree with [from, to) replaced by lines,
	// whose joined length is length.
	replaceInner(from, to int, lines []string, length int) node

	// sliceTo appends the [from, to) range to target.
	sliceTo(from, to int, target []string) []string

	// lineInner resolves a line by number (isLine) or by position, given the
	// line number and offset at the start of this subtree.
	lineInner(target int, isLine bool, line, offset int) Line

	// decomposeStart appends nodes covering [0, to) to target.
	decomposeStart(to int, target []node) []node

	// decomposeEnd appends nodes covering [from, length) to target.
	decomposeEnd(from int, target []node) []node

	lastLineLength() int
	firstLineLength() int
}

// branch holds child subtrees. Adjacent children join without a line break:
// the last line of one child continues as the first line of the next.
type branch struct {
	children []node
	len      int
	lines    int
}

func newBranch(children []node, length int) *branch {
	lines := 1
	for _, child := range children {
		lines += child.lineCount() - 1
	}
	return &branch{children: children, len: length, lines: lines}
}

func (b *branch) length() int    { return b.len }
func (b *branch) lineCount() int { return b.lines }

func (b *branch) replaceInner(from, to int, text []string, length int) node {
	lengthDiff := length - (to - from)
	newLength := b.len + lengthDiff
	if newLength <= baseLeaf {
		head := appendText(text, b.sliceTo(0, from, []string{""}), 0, noLimit)
		tail := b.sliceTo(to, b.len, []string{""})
		return &leaf{text: appendText(tail, head, 0, noLimit), len: newLength}
	}

	var children []node
	rebuilt, inserted := false, false
	pos := 0
	for i, child := range b.children {
		end := pos + child.length()
		if from >= pos && to <= end && fitsInPlace(child.length(), lengthDiff, newLength) {
			// Only one child is affected and it stays within the size
			// band, so replace it alone.
			children = slices.Clone(b.children)
			children[i] = child.replaceInner(from-pos, to-pos, text, length)
			return newBranch(children, newLength)
		} else if end >= from {
			if !rebuilt {
				children = slices.Clone(b.children[:i])
				rebuilt = true
			}
			if pos < from {
				if end == from {
					children = append(children, child)
				} else {
					children = child.decomposeStart(from-pos, children)
				}
			}
			if !inserted && pos <= from && end >= from {
				children = splitLeaves(text, children)
				inserted = true
			}
			if pos >= to {
				children = append(children, child)
			} else if end > to {
				children = child.decomposeEnd(to-pos, children)
			}
		}
		pos = end
	}
	if !rebuilt {
		return b
	}
	return fromChildren(children, newLength)
}

// fitsInPlace reports whether a child of childLen can absorb a change of diff
// bytes while staying within the size band for a parent of newLength.
func fitsInPlace(childLen, diff, newLength int) bool {
	if diff > 0 {
		return childLen+diff < max(newLength>>(targetBranchShift-1), maxLeaf)
	}
	return childLen+diff > newLength>>(targetBranchShift+1)
}

func (b *branch) sliceTo(from, to int, target []string) []string {
	pos := 0
	for _, child := range b.children {
		end := pos + child.length()
		if to > pos && from < end {
			target = child.sliceTo(max(0, from-pos), min(child.length(), to-pos), target)
		}
		pos = end
	}
	return target
}

func (b *branch) lineInner(target int, isLine bool, line, offset int) Line {
	for i := 0; ; i++ {
		child := b.children[i]
		end := offset + child.length()
		endLine := line + child.lineCount() - 1
		if (isLine && endLine >= target) || (!isLine && end >= target) {
			inner := child.lineInner(target, isLine, line, offset)
			if inner.Start == offset {
				if add := b.lineLengthTo(i); add > 0 {
					inner.Start -= add
					inner.unresolve()
				}
			}
			if inner.End == end {
				if add := b.lineLengthFrom(i + 1); add > 0 {
					inner.End += add
					inner.unresolve()
				}
			}
			return inner
		}
		offset = end
		line = endLine
	}
}

func (b *branch) decomposeStart(to int, target []node) []node {
	pos := 0
	for _, child := range b.children {
		end := pos + child.length()
		if end <= to {
			target = append(target, child)
		} else {
			if pos < to {
				target = child.decomposeStart(to-pos, target)
			}
			break
		}
		pos = end
	}
	return target
}

func (b *branch) decomposeEnd(from int, target []node) []node {
	pos := 0
	for _, child := range b.children {
		end := pos + child.length()
		if pos >= from {
			target = append(target, child)
		} else if end > from {
			target = child.decomposeEnd(from-pos, target)
		}
		pos = end
	}
	return target
}

// lineLengthTo returns how many bytes of the line that ends at the start of
// child to lie in the children before it.
func (b *branch) lineLengthTo(to int) int {
	length := 0
	for i := to - 1; i >= 0; i-- {
		child := b.children[i]
		if child.lineCount() > 1 {
			return length + child.lastLineLength()
		}
		length += child.length()
	}
	return length
}

// lineLengthFrom returns how many bytes of the line that starts at the end of
// child from-1 lie in child from and after.
func (b *branch) lineLengthFrom(from int) int {
	length := 0
	for i := from; i < len(b.children); i++ {
		child := b.children[i]
		if child.lineCount() > 1 {
			return length + child.firstLineLength()
		}
		length += child.length()
	}
	return length
}

func (b *branch) lastLineLength() int  { return b.lineLengthTo(len(b.children)) }
func (b *branch) firstLineLength() int { return b.lineLengthFrom(0) }

// fromChildren rebalances a flat run of nodes with a total length into a
// tree. Oversized branches are flattened, small adjacent leaves merged, and
// the rest grouped into chunks sized against the total length.
func fromChildren(children []node, length int) node {
	if length < maxLeaf {
		text := []string{""}
		for _, child := range children {
			text = child.sliceTo(0, child.length(), text)
		}
		return &leaf{text: text, len: length}
	}

	chunkLength := max(baseLeaf, length>>targetBranchShift)
	maxLength, minLength := chunkLength<<1, chunkLength>>1
	var chunked, current []node
	currentLength := 0

	flush := func() {
		if currentLength == 0 {
			return
		}
		if len(current) == 1 {
			chunked = append(chunked, current[0])
		} else {
			chunked = append(chunked, fromChildren(current, currentLength))
		}
		currentLength = 0
		current = nil
	}

	var add func(child node)
	add = func(child node) {
		childLength := child.length()
		if childLength == 0 {
			// An empty node is a single empty line fragment and joins
			// its neighbors without contributing anything.
			return
		}
		if br, ok := child.(*branch); ok && childLength > maxLength {
			for _, c := range br.children {
				add(c)
			}
			return
		}
		if childLength > minLength && (currentLength > minLength || currentLength == 0) {
			flush()
			chunked = append(chunked, child)
			return
		}
		if lf, ok := child.(*leaf); ok && currentLength > 0 {
			if last, ok := current[len(current)-1].(*leaf); ok && lf.len+last.len <= baseLeaf {
				currentLength += childLength
				current[len(current)-1] = mergeLeaves(last, lf)
				return
			}
		}
		if currentLength+childLength > chunkLength {
			flush()
		}
		currentLength += childLength
		current = append(current, child)
	}

	for _, child := range children {
		add(child)
	}
	flush()
	if len(chunked) == 1 {
		return chunked[0]
	}
	return newBranch(chunked, length)
}
