package lexcache

import "github.com/dshills/textcore/internal/engine/text"

// Any is the part of a Cache that does not depend on the tokenizer state
// type. It lets callers hold caches for different languages side by side.
type Any interface {
	Doc() text.Text
	LinesTokens(fromLine, toLine int) ([]Token, error)
	LineTokens(n int) (text.Line, []Token, error)
	TypeAt(pos int) (string, error)
	Indent(pos int) (col int, ok bool, err error)
	Decorations(from, to int) ([]Decoration, error)
	AdvanceFrontier(target int) *Request
	Apply(tr Transaction) error
	Frontier() (pos, line int)
	Checkpoints() []int
	Stats() Stats
	Pending() int
	Err() error
	Close()
}
