// Package text provides an immutable rope of lines for document storage.
//
// A Text is a tree whose leaves hold arrays of line strings and whose branches
// hold child texts. Lines may span several leaves; the tree only tracks lengths
// and line counts, so a line break is never stored explicitly. Every edit returns
// a new Text that shares unchanged subtrees with the original.
//
// Key features:
//   - O(log n) replace, line lookup and slicing
//   - Rebalancing keeps leaves bounded and depth logarithmic after any edit
//   - Forward, backward, range and per-line cursors with skip-ahead
//   - Content equality independent of tree shape
//   - Safe for concurrent read access
//
// Basic usage:
//
//	doc := text.Of("abc\ndef\nghi")
//	line, _ := doc.Line(2)             // {Start: 4, End: 7, Number: 2}
//	doc, _ = doc.Replace(4, 7, []string{"xyz"})
//	s := doc.String()                  // "abc\nxyz\nghi"
//
// Positions are byte offsets. A line break counts as one position regardless of
// the separator the input was split on.
package text
