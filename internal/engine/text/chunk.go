package text

import (
	"math"
	"slices"
	"unicode/utf8"
)

// Leaf size constants control the granularity of line storage.
const (
	// baseLeaf is the preferred byte size of a leaf when splitting input.
	baseLeaf = 512

	// maxLeaf is the size at which a document stops being a single leaf.
	maxLeaf = baseLeaf << 1

	// targetBranchShift is the desired branching factor as a power of two.
	targetBranchShift = 3
)

// noLimit is used as an open upper bound for appendText.
const noLimit = math.MaxInt

// leaf holds an ordered run of line strings. The first and last strings may be
// fragments of lines that continue in neighboring leaves.
type leaf struct {
	text []string
	len  int
}

func (l *leaf) length() int    { return l.len }
func (l *leaf) lineCount() int { return len(l.text) }

func (l *leaf) replaceInner(from, to int, lines []string, _ int) node {
	head := appendText(lines, sliceText(l.text, 0, from), 0, noLimit)
	return build(appendText(l.text, head, to, noLimit))
}

func (l *leaf) sliceTo(from, to int, target []string) []string {
	return appendText(l.text, target, from, to)
}

func (l *leaf) lineInner(target int, isLine bool, line, offset int) Line {
	for i := 0; ; i++ {
		s := l.text[i]
		end := offset + len(s)
		if (isLine && line >= target) || (!isLine && end >= target) {
			return Line{Start: offset, End: end, Number: line, content: s, resolved: true}
		}
		offset = end + 1
		line++
	}
}

func (l *leaf) decomposeStart(to int, target []node) []node {
	return append(target, &leaf{text: sliceText(l.text, 0, to), len: to})
}

func (l *leaf) decomposeEnd(from int, target []node) []node {
	return append(target, &leaf{text: sliceText(l.text, from, noLimit), len: l.len - from})
}

func (l *leaf) lastLineLength() int  { return len(l.text[len(l.text)-1]) }
func (l *leaf) firstLineLength() int { return len(l.text[0]) }

// build creates a node for a complete line array, chunking it into leaves
// when it is too large for one.
func build(lines []string) node {
	length := textLength(lines)
	if length < maxLeaf {
		return &leaf{text: lines, len: length}
	}
	return fromChildren(splitLeaves(lines, nil), length)
}

// splitLeaves chunks lines into leaves of roughly baseLeaf bytes and appends
// them to target. Long lines are cut at UTF-8 rune boundaries.
func splitLeaves(text []string, target []node) []node {
	var part []string
	length := -1
	for _, line := range text {
		for {
			newLength := length + len(line) + 1
			if newLength < baseLeaf {
				length = newLength
				part = append(part, line)
				break
			}
			cut := baseLeaf - length - 1
			for cut < len(line) && !utf8.RuneStart(line[cut]) {
				cut++
			}
			part = append(part, line[:cut])
			target = append(target, &leaf{text: part, len: length + 1 + cut})
			line = line[cut:]
			length = -1
			part = nil
		}
	}
	if length != -1 {
		target = append(target, &leaf{text: part, len: length})
	}
	return target
}

// textLength returns the byte length of lines joined by single line breaks.
func textLength(lines []string) int {
	length := -1
	for _, line := range lines {
		length += len(line) + 1
	}
	return length
}

// appendText copies the [from, to) range of text onto target. The first copied
// fragment is joined to the last element of target; target must not share its
// backing array with any node.
func appendText(text, target []string, from, to int) []string {
	first := true
	for pos, i := 0, 0; i < len(text) && pos <= to; i++ {
		line := text[i]
		end := pos + len(line)
		if end >= from {
			if end > to {
				line = line[:to-pos]
			}
			if pos < from {
				line = line[from-pos:]
			}
			if first {
				target[len(target)-1] += line
				first = false
			} else {
				target = append(target, line)
			}
		}
		pos = end + 1
	}
	return target
}

// sliceText returns a fresh line array holding the [from, to) range of text.
func sliceText(text []string, from, to int) []string {
	return appendText(text, []string{""}, from, to)
}

// mergeLeaves joins two adjacent leaves into one.
func mergeLeaves(last, next *leaf) *leaf {
	return &leaf{
		text: appendText(next.text, slices.Clone(last.text), 0, noLimit),
		len:  last.len + next.len,
	}
}
