package modes

import (
	"strings"

	"github.com/dshills/textcore/internal/syntax/stream"
)

const (
	openBrackets  = "([{"
	closeBrackets = ")]}"
)

// BracketState tracks bracket nesting.
type BracketState struct {
	Depth int
}

// Clone implements stream.State.
func (s *BracketState) Clone() *BracketState {
	c := *s
	return &c
}

type bracketMode struct {
	unit int
}

// Brackets returns a mode that tags brackets and ";" line comments and
// indents each line by unit columns per open bracket. A line starting with a
// closing bracket is indented one level less.
func Brackets(unit int) stream.Mode[*BracketState] {
	if unit <= 0 {
		unit = 2
	}
	return bracketMode{unit: unit}
}

func (bracketMode) Name() string { return "brackets" }

func (bracketMode) StartState() *BracketState { return &BracketState{} }

func (bracketMode) Token(s *stream.Stream, state *BracketState) string {
	r := s.Next()
	switch {
	case strings.ContainsRune(openBrackets, r):
		state.Depth++
		return "bracket.open"
	case strings.ContainsRune(closeBrackets, r):
		state.Depth = max(0, state.Depth-1)
		return "bracket.close"
	case r == ';':
		s.SkipToEnd()
		return "comment.line"
	case r == '"':
		for !s.EOL() {
			switch s.Next() {
			case '\\':
				s.Next()
			case '"':
				return "string"
			}
		}
		return "string"
	}
	s.EatWhile(func(r rune) bool {
		return !strings.ContainsRune(openBrackets+closeBrackets+`;"`, r)
	})
	return ""
}

func (m bracketMode) Indent(state *BracketState, textAfter string) (int, bool) {
	depth := state.Depth
	if textAfter != "" && strings.ContainsRune(closeBrackets, rune(textAfter[0])) {
		depth--
	}
	return max(0, depth) * m.unit, true
}
