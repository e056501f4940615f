package lexcache

import (
	"strings"
	"time"

	"github.com/dshills/textcore/internal/engine/text"
)

// maxIndentContext bounds the text after the cursor passed to indenters.
const maxIndentContext = 100

// GetState returns a copy of the tokenizer state at the start of the line
// containing pos. approx is true when the state was synthesized because the
// nearest checkpoint was too far back.
func (c *Cache[S]) GetState(pos int) (state S, approx bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return state, false, err
	}
	line, err := c.doc.LineAt(pos)
	if err != nil {
		return state, false, err
	}
	return c.stateAtLine(line.Number)
}

func (c *Cache[S]) stateAtLine(n int) (state S, approx bool, err error) {
	r, err := c.resume(n, true)
	if err != nil {
		return state, false, err
	}
	if err := c.advance(r, n, time.Time{}, nil); err != nil {
		return state, false, err
	}
	return c.parser.CopyState(r.state), !r.exact, nil
}

// LinesTokens returns the tokens of lines [fromLine, toLine), 1-based. toLine
// is clamped to the end of the document.
func (c *Cache[S]) LinesTokens(fromLine, toLine int) ([]Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return nil, err
	}
	if _, err := c.doc.Line(fromLine); err != nil {
		return nil, err
	}
	toks, _, err := c.tokensForLines(fromLine, min(toLine, c.doc.Lines()+1))
	return toks, err
}

// LineTokens returns a 1-based line together with its tokens, both taken
// from the same document version.
func (c *Cache[S]) LineTokens(n int) (text.Line, []Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return text.Line{}, nil, err
	}
	line, err := c.doc.Line(n)
	if err != nil {
		return text.Line{}, nil, err
	}
	toks, _, err := c.tokensForLines(n, n+1)
	return line, toks, err
}

// TypeAt returns the tag of the token covering the character at pos, or ""
// when pos is not inside a tagged token.
func (c *Cache[S]) TypeAt(pos int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return "", err
	}
	line, err := c.doc.LineAt(pos)
	if err != nil {
		return "", err
	}
	toks, _, err := c.tokensForLines(line.Number, line.Number+1)
	if err != nil {
		return "", err
	}
	for _, tok := range toks {
		if tok.From <= pos && pos < tok.To {
			return tok.Tag, nil
		}
	}
	return "", nil
}

// Indent returns the indentation column a mode suggests for the line
// containing pos. ok is false when the mode cannot tell or the state at the
// line is only approximate.
func (c *Cache[S]) Indent(pos int) (col int, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return 0, false, err
	}
	line, err := c.doc.LineAt(pos)
	if err != nil {
		return 0, false, err
	}
	if !c.parser.HasIndenter() {
		return 0, false, nil
	}
	state, approx, err := c.stateAtLine(line.Number)
	if err != nil || approx {
		return 0, false, err
	}
	off := pos - line.Start
	after := strings.TrimLeft(line.Slice(off, off+maxIndentContext), " \t")
	col, ok = c.parser.Indent(state, strings.ToValidUTF8(after, ""))
	return col, ok, nil
}

// Decorations returns the tokens overlapping [from, to), clamped to the
// document. Consecutive calls reuse the overlapping part of the previous
// result and only tokenize the lines that were not covered.
func (c *Cache[S]) Decorations(from, to int) ([]Decoration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return nil, err
	}
	n := c.doc.Len()
	from = max(0, min(from, n))
	to = max(from, min(to, n))

	lo := lineStart(c.doc, from)
	hi := lineEnd(c.doc, to)

	if w := c.window; w != nil && w.approx && c.frontierPos > w.from {
		c.window = nil
	}

	var decos []Decoration
	approx := false
	compute := func(a, b int) error {
		toks, ap, err := c.computeRange(a, b)
		decos = append(decos, toks...)
		approx = approx || ap
		return err
	}

	w := c.window
	if w != nil && lo <= w.to && hi >= w.from {
		if lo < w.from {
			if err := compute(lo, w.from); err != nil {
				return nil, err
			}
		}
		mid, midTo := max(lo, w.from), min(hi, w.to)
		for _, d := range w.decos {
			if d.From >= mid && d.From < midTo {
				decos = append(decos, d)
			}
		}
		approx = approx || w.approx
		if hi > w.to {
			if err := compute(w.to, hi); err != nil {
				return nil, err
			}
		}
	} else if err := compute(lo, hi); err != nil {
		return nil, err
	}
	c.window = &window{from: lo, to: hi, decos: decos, approx: approx}

	out := make([]Decoration, 0, len(decos))
	for _, d := range decos {
		if d.To > from && d.From < to {
			out = append(out, d)
		}
	}
	return out, nil
}

// computeRange tokenizes the lines covering [from, to), where from is a line
// start and to is a line end boundary.
func (c *Cache[S]) computeRange(from, to int) ([]Token, bool, error) {
	if to <= from {
		return nil, false, nil
	}
	first, err := c.doc.LineAt(from)
	if err != nil {
		return nil, false, err
	}
	last, err := c.doc.LineAt(to - 1)
	if err != nil {
		return nil, false, err
	}
	return c.tokensForLines(first.Number, last.Number+1)
}

// lineStart returns the start of the line containing pos.
func lineStart(doc text.Text, pos int) int {
	line, err := doc.LineAt(pos)
	if err != nil {
		return 0
	}
	return line.Start
}

// lineEnd returns the position just past the line containing pos, including
// its line break, capped at the document length.
func lineEnd(doc text.Text, pos int) int {
	line, err := doc.LineAt(pos)
	if err != nil {
		return doc.Len()
	}
	return min(line.End+1, doc.Len())
}
