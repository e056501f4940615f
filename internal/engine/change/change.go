// Package change describes edits to a text.Text and maps positions across
// them.
//
// A [Set] is an ordered, non-overlapping list of [Change] values expressed in
// the coordinates of the document before the edit. Sets are applied to a
// document with [Set.Apply], and positions held by consumers (checkpoints,
// pending work targets, cursors) are carried into the new document with
// [Set.MapPos].
//
// [Diff] computes a single-hunk set that turns one document into another.
package change

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/text"
)

// ErrUnordered is returned when changes overlap or are not sorted by position.
var ErrUnordered = errors.New("changes overlap or are out of order")

// Assoc selects which side of an insertion a mapped position sticks to.
type Assoc int

const (
	// AssocBefore keeps a position at an insertion point before the inserted
	// text.
	AssocBefore Assoc = -1

	// AssocAfter moves a position at an insertion point past the inserted
	// text.
	AssocAfter Assoc = 1
)

// Change replaces the old-document range [From, To) with Insert. A nil or
// empty Insert deletes the range.
type Change struct {
	From   int
	To     int
	Insert []string
}

// lines returns the replacement lines, never empty.
func (c Change) lines() []string {
	if len(c.Insert) == 0 {
		return []string{""}
	}
	return c.Insert
}

// InsertLen returns the byte length of the inserted text.
func (c Change) InsertLen() int {
	if len(c.Insert) == 0 {
		return 0
	}
	return len(c.Insert) - 1 + lineBytes(c.Insert)
}

// Delta returns how much the change grows (or shrinks) the document.
func (c Change) Delta() int {
	return c.InsertLen() - (c.To - c.From)
}

// String returns a short human-readable description.
func (c Change) String() string {
	ins := strings.Join(c.Insert, "\\n")
	if len(ins) > 20 {
		ins = ins[:17] + "..."
	}
	switch {
	case c.From == c.To:
		return fmt.Sprintf("insert %q at %d", ins, c.From)
	case c.InsertLen() == 0:
		return fmt.Sprintf("delete [%d:%d)", c.From, c.To)
	default:
		return fmt.Sprintf("replace [%d:%d) with %q", c.From, c.To, ins)
	}
}

func lineBytes(lines []string) int {
	n := 0
	for _, l := range lines {
		n += len(l)
	}
	return n
}

// Set is an ordered list of non-overlapping changes. The zero Set is empty.
type Set struct {
	changes []Change
}

// NewSet validates and returns a set. Changes must be sorted by position and
// must not overlap; several insertions at the same point are applied in the
// order given.
func NewSet(changes ...Change) (Set, error) {
	prev := 0
	for i, c := range changes {
		if c.From < prev || c.To < c.From {
			return Set{}, fmt.Errorf("change %d [%d:%d): %w", i, c.From, c.To, ErrUnordered)
		}
		prev = c.To
	}
	return Set{changes: slices.Clone(changes)}, nil
}

// Single returns a set holding one change.
func Single(from, to int, insert ...string) Set {
	if to < from {
		from, to = to, from
	}
	return Set{changes: []Change{{From: from, To: to, Insert: insert}}}
}

// Changes returns a copy of the changes in the set.
func (s Set) Changes() []Change {
	return slices.Clone(s.changes)
}

// Len returns the number of changes.
func (s Set) Len() int {
	return len(s.changes)
}

// Empty reports whether the set has no changes.
func (s Set) Empty() bool {
	return len(s.changes) == 0
}

// MinFrom returns the lowest old-document position touched by the set, or -1
// for an empty set.
func (s Set) MinFrom() int {
	if len(s.changes) == 0 {
		return -1
	}
	return s.changes[0].From
}

// LengthDelta returns the total change in document length.
func (s Set) LengthDelta() int {
	delta := 0
	for _, c := range s.changes {
		delta += c.Delta()
	}
	return delta
}

// Apply returns doc with every change applied. Changes are applied from the
// last to the first so earlier positions stay valid.
func (s Set) Apply(doc text.Text) (text.Text, error) {
	for i := len(s.changes) - 1; i >= 0; i-- {
		c := s.changes[i]
		next, err := doc.Replace(c.From, c.To, c.lines())
		if err != nil {
			return doc, fmt.Errorf("apply change %d: %w", i, err)
		}
		doc = next
	}
	return doc, nil
}

// MapPos maps an old-document position into the new document. The returned
// flag is false when pos fell strictly inside a replaced range; such a
// position collapses to the start (AssocBefore) or end (AssocAfter) of the
// replacement.
func (s Set) MapPos(pos int, assoc Assoc) (int, bool) {
	valid := true
	delta := 0
	for _, c := range s.changes {
		if pos < c.From || (pos == c.From && assoc == AssocBefore) {
			break
		}
		if pos < c.To {
			if pos > c.From {
				valid = false
				if assoc == AssocBefore {
					return c.From + delta, false
				}
			}
			pos = c.To
		}
		delta += c.Delta()
	}
	return pos + delta, valid
}

// Diff returns a set with at most one change that turns a into b. The change
// covers everything between the longest common prefix and the longest common
// suffix, cut at rune boundaries. Both documents are compared through
// cursors, so only the differing middle of b is copied.
func Diff(a, b text.Text) Set {
	if a.Eq(b) {
		return Set{}
	}
	la, lb := a.Len(), b.Len()
	limit := min(la, lb)

	// Common prefix, backed up to the last rune start when the first
	// differing byte of a continues a rune.
	fa, fb := newByteCursor(a, text.Forward), newByteCursor(b, text.Forward)
	prefix, runeAt := 0, 0
	for prefix < limit {
		ca, _ := fa.next()
		cb, _ := fb.next()
		if ca != cb {
			if !utf8.RuneStart(ca) {
				prefix = runeAt
			}
			break
		}
		if utf8.RuneStart(ca) {
			runeAt = prefix
		}
		prefix++
	}

	// Common suffix, not overlapping the prefix, keeping only lengths that
	// start on a rune boundary.
	ba, bb := newByteCursor(a, text.Backward), newByteCursor(b, text.Backward)
	suffix, n := 0, 0
	for n < limit-prefix {
		ca, _ := ba.next()
		cb, _ := bb.next()
		if ca != cb {
			break
		}
		n++
		if utf8.RuneStart(ca) {
			suffix = n
		}
	}

	insert := b.SliceLines(prefix, lb-suffix)
	return Set{changes: []Change{{From: prefix, To: la - suffix, Insert: insert}}}
}

// byteCursor yields the bytes of a document one at a time, line breaks as
// '\n', in the direction of the underlying cursor.
type byteCursor struct {
	cur  *text.Cursor
	dir  text.Direction
	frag string
	i    int
}

func newByteCursor(t text.Text, dir text.Direction) *byteCursor {
	return &byteCursor{cur: t.Iter(dir), dir: dir}
}

func (c *byteCursor) next() (byte, bool) {
	for c.i >= len(c.frag) {
		if !c.cur.Next() {
			return 0, false
		}
		c.frag, c.i = c.cur.Value(), 0
	}
	var b byte
	if c.dir == text.Forward {
		b = c.frag[c.i]
	} else {
		b = c.frag[len(c.frag)-1-c.i]
	}
	c.i++
	return b, true
}
