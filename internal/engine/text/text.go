package text

import (
	"slices"
	"strings"
)

// Text is an immutable document. Operations return new Text values; the
// original is never modified, so values can be shared freely.
//
// The zero Text is an empty document with a single empty line.
type Text struct {
	root  node
	cache *lineCache
}

// Empty is the document containing one empty line.
var Empty = Of("")

var emptyLeaf = &leaf{text: []string{""}}

func wrap(n node) Text {
	return Text{root: n, cache: newLineCache()}
}

// Of creates a document from a string, splitting it on "\r\n", "\r" or "\n".
func Of(s string) Text {
	return wrap(build(SplitLines(s)))
}

// OfSep creates a document from a string split on an explicit separator.
// An empty separator behaves like Of.
func OfSep(s, sep string) Text {
	if sep == "" {
		return Of(s)
	}
	return wrap(build(strings.Split(s, sep)))
}

// OfLines creates a document from a non-empty sequence of lines.
func OfLines(lines []string) (Text, error) {
	if len(lines) == 0 {
		return Text{}, ErrEmptyText
	}
	return wrap(build(slices.Clone(lines))), nil
}

// SplitLines splits s on "\r\n", "\r" and "\n". The result always has at
// least one element.
func SplitLines(s string) []string {
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func (t Text) node() node {
	if t.root == nil {
		return emptyLeaf
	}
	return t.root
}

// Len returns the byte length of the document, counting one byte per line
// break.
func (t Text) Len() int {
	return t.node().length()
}

// Lines returns the number of lines. A document always has at least one.
func (t Text) Lines() int {
	return t.node().lineCount()
}

// String returns the whole document joined with "\n".
func (t Text) String() string {
	return t.Slice(0, t.Len())
}

// Replace returns a new document with [from, to) replaced by lines. The
// replacement must contain at least one line; an empty string line deletes.
func (t Text) Replace(from, to int, lines []string) (Text, error) {
	if len(lines) == 0 {
		return Text{}, ErrEmptyText
	}
	if from < 0 || from > t.Len() {
		return Text{}, &RangeError{Op: "Replace", Kind: "position", Value: from, Min: 0, Max: t.Len()}
	}
	if to < from || to > t.Len() {
		return Text{}, &RangeError{Op: "Replace", Kind: "position", Value: to, Min: from, Max: t.Len()}
	}
	return wrap(t.node().replaceInner(from, to, lines, textLength(lines))), nil
}

// SliceLines returns the [from, to) range as lines. Bounds are clamped to the
// document.
func (t Text) SliceLines(from, to int) []string {
	from, to = t.clamp(from, to)
	return t.node().sliceTo(from, to, []string{""})
}

// Slice returns the [from, to) range joined with "\n". Bounds are clamped to
// the document.
func (t Text) Slice(from, to int) string {
	return strings.Join(t.SliceLines(from, to), "\n")
}

// SliceSep returns the [from, to) range joined with sep.
func (t Text) SliceSep(from, to int, sep string) string {
	return strings.Join(t.SliceLines(from, to), sep)
}

func (t Text) clamp(from, to int) (int, int) {
	n := t.Len()
	from = max(0, min(from, n))
	to = max(from, min(to, n))
	return from, to
}

// LineAt returns the line containing pos. A position at a line's end belongs
// to that line.
func (t Text) LineAt(pos int) (Line, error) {
	if pos < 0 || pos > t.Len() {
		return Line{}, &RangeError{Op: "LineAt", Kind: "position", Value: pos, Min: 0, Max: t.Len()}
	}
	if l, ok := t.cache.byPos(pos); ok {
		return l, nil
	}
	l := t.node().lineInner(pos, false, 1, 0)
	l.finish(t)
	t.cache.add(l)
	return l, nil
}

// Line returns line n, counting from 1.
func (t Text) Line(n int) (Line, error) {
	if n < 1 || n > t.Lines() {
		return Line{}, &RangeError{Op: "Line", Kind: "line", Value: n, Min: 1, Max: t.Lines()}
	}
	if l, ok := t.cache.byNumber(n); ok {
		return l, nil
	}
	l := t.node().lineInner(n, true, 1, 0)
	l.finish(t)
	t.cache.add(l)
	return l, nil
}

// Eq reports whether two documents have the same content, regardless of how
// they are chunked.
func (t Text) Eq(other Text) bool {
	if t.root != nil && t.root == other.root {
		return true
	}
	return eqContent(t, other)
}

// IsLeaf reports whether the document is stored as a single leaf.
func (t Text) IsLeaf() bool {
	_, ok := t.node().(*leaf)
	return ok
}

// Children returns the child documents of a branch, or nil for a leaf. It is
// meant for inspection and debugging.
func (t Text) Children() []Text {
	b, ok := t.node().(*branch)
	if !ok {
		return nil
	}
	children := make([]Text, len(b.children))
	for i, child := range b.children {
		children[i] = Text{root: child}
	}
	return children
}

// LeafLines returns the line fragments stored in a leaf, or nil for a branch.
func (t Text) LeafLines() []string {
	l, ok := t.node().(*leaf)
	if !ok {
		return nil
	}
	return slices.Clone(l.text)
}

// Depth returns the height of the tree; a leaf has depth 1.
func (t Text) Depth() int {
	return depth(t.node())
}

func depth(n node) int {
	b, ok := n.(*branch)
	if !ok {
		return 1
	}
	d := 0
	for _, child := range b.children {
		d = max(d, depth(child))
	}
	return d + 1
}

// eqContent walks two cursors in lockstep, comparing fragments of possibly
// different sizes.
func eqContent(a, b Text) bool {
	if a.Len() != b.Len() || a.Lines() != b.Lines() {
		return false
	}
	iterA, iterB := a.Iter(Forward), b.Iter(Forward)
	iterA.Next()
	iterB.Next()
	offA, offB := 0, 0
	for {
		switch {
		case iterA.LineBreak() != iterB.LineBreak() || iterA.Done() != iterB.Done():
			return false
		case iterA.Done():
			return true
		case iterA.LineBreak():
			iterA.Next()
			iterB.Next()
			offA, offB = 0, 0
		default:
			strA, strB := iterA.Value()[offA:], iterB.Value()[offB:]
			switch {
			case len(strA) == len(strB):
				if strA != strB {
					return false
				}
				iterA.Next()
				iterB.Next()
				offA, offB = 0, 0
			case len(strA) > len(strB):
				if strA[:len(strB)] != strB {
					return false
				}
				offA += len(strB)
				iterB.Next()
				offB = 0
			default:
				if strB[:len(strA)] != strA {
					return false
				}
				offB += len(strA)
				iterA.Next()
				offA = 0
			}
		}
	}
}
