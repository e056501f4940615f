package modes

import (
	"regexp"

	"github.com/dshills/textcore/internal/syntax/stream"
)

var (
	tomlStringChunk = regexp.MustCompile(`^.[^\\"']*`)
	tomlDate        = regexp.MustCompile(`^\d\d\d\d[\d\-:.T]*Z`)
	tomlNumber      = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)
)

// TOMLState is the tokenizer state of the TOML mode.
type TOMLState struct {
	inString   bool
	quote      rune
	lhs        bool
	arrayDepth int
}

// Clone implements stream.State.
func (s *TOMLState) Clone() *TOMLState {
	c := *s
	return &c
}

// ArrayDepth returns how many arrays are open.
func (s *TOMLState) ArrayDepth() int { return s.arrayDepth }

// InString reports whether a string is open at this point.
func (s *TOMLState) InString() bool { return s.inString }

type tomlMode struct{}

// TOML returns a mode for TOML documents. It recognizes keys, tables,
// strings, arrays, comments, dates, booleans and numbers, and indents array
// continuation lines by two columns per open array.
func TOML() stream.Mode[*TOMLState] { return tomlMode{} }

func (tomlMode) Name() string { return "toml" }

func (tomlMode) StartState() *TOMLState { return &TOMLState{} }

func (tomlMode) Token(s *stream.Stream, state *TOMLState) string {
	if s.SOL() && state.arrayDepth == 0 && !state.inString {
		state.lhs = true
	}
	if !state.inString && (s.Peek() == '"' || s.Peek() == '\'') {
		state.quote = s.Next()
		state.inString = true
	}

	if state.inString {
		for state.inString && !s.EOL() {
			switch s.Peek() {
			case state.quote:
				s.Next()
				state.inString = false
			case '\\':
				s.Next()
				s.Next()
			default:
				s.MatchRegexp(tomlStringChunk, true)
			}
		}
		if state.lhs {
			return "property.string"
		}
		return "string"
	}

	switch {
	case state.arrayDepth > 0 && s.Peek() == ']':
		s.Next()
		state.arrayDepth--
		return "bracket.square.close"
	case state.lhs && s.Peek() == '[' && s.SkipTo(']'):
		s.Next()
		// [[array.of.tables]]
		if s.Peek() == ']' {
			s.Next()
		}
		return "keyword.expression"
	case s.Peek() == '#':
		s.SkipToEnd()
		return "comment.line"
	case s.EatSpace():
		return ""
	case state.lhs && s.EatWhile(func(r rune) bool { return r != '=' && r != ' ' }):
		return "name.property"
	case state.lhs && s.Peek() == '=':
		s.Next()
		state.lhs = false
		return "operator"
	case !state.lhs && s.MatchRegexp(tomlDate, true) != nil:
		return "keyword.expression"
	case !state.lhs && (s.Match("true", true) || s.Match("false", true)):
		return "keyword.expression"
	case !state.lhs && s.Peek() == '[':
		state.arrayDepth++
		s.Next()
		return "bracket.square.open"
	case !state.lhs && s.MatchRegexp(tomlNumber, true) != nil:
		return "literal.number"
	}
	s.Next()
	return ""
}

func (tomlMode) Indent(state *TOMLState, _ string) (int, bool) {
	return state.arrayDepth * 2, true
}
