package stream

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// EOF is returned by Peek and Next at the end of the line.
const EOF rune = -1

// DefaultTabSize is used when a stream is created with a non-positive tab
// size.
const DefaultTabSize = 4

// Stream is a single line of text being tokenized. Positions are byte offsets
// into the line. The token currently being read spans [Start, Pos).
type Stream struct {
	str     string
	pos     int
	start   int
	tabSize int

	lastColumnPos   int
	lastColumnValue int
}

// New returns a stream over one line.
func New(line string, tabSize int) *Stream {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	return &Stream{str: line, tabSize: tabSize}
}

// Pos returns the current read position.
func (s *Stream) Pos() int { return s.pos }

// Start returns the start of the current token.
func (s *Stream) Start() int { return s.start }

// String returns the whole line.
func (s *Stream) String() string { return s.str }

// TabSize returns the tab size used for column computations.
func (s *Stream) TabSize() int { return s.tabSize }

// EOL reports whether the stream is at the end of the line.
func (s *Stream) EOL() bool { return s.pos >= len(s.str) }

// SOL reports whether the stream is at the start of the line.
func (s *Stream) SOL() bool { return s.pos == 0 }

// Peek returns the next rune without consuming it, or EOF.
func (s *Stream) Peek() rune {
	if s.EOL() {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(s.str[s.pos:])
	return r
}

// Next consumes and returns the next rune, or EOF.
func (s *Stream) Next() rune {
	if s.EOL() {
		return EOF
	}
	r, size := utf8.DecodeRuneInString(s.str[s.pos:])
	s.pos += size
	return r
}

// Eat consumes the next rune if it is one of chars.
func (s *Stream) Eat(chars string) bool {
	r := s.Peek()
	if r == EOF || !strings.ContainsRune(chars, r) {
		return false
	}
	s.pos += utf8.RuneLen(r)
	return true
}

// EatFunc consumes the next rune if f accepts it.
func (s *Stream) EatFunc(f func(rune) bool) bool {
	r := s.Peek()
	if r == EOF || !f(r) {
		return false
	}
	s.pos += utf8.RuneLen(r)
	return true
}

// EatWhile consumes runes as long as f accepts them and reports whether
// anything was consumed.
func (s *Stream) EatWhile(f func(rune) bool) bool {
	start := s.pos
	for s.EatFunc(f) {
	}
	return s.pos > start
}

// EatChars consumes runes as long as they are in chars.
func (s *Stream) EatChars(chars string) bool {
	return s.EatWhile(func(r rune) bool { return strings.ContainsRune(chars, r) })
}

// EatSpace consumes whitespace and reports whether any was found.
func (s *Stream) EatSpace() bool {
	return s.EatWhile(unicode.IsSpace)
}

// SkipToEnd moves to the end of the line.
func (s *Stream) SkipToEnd() { s.pos = len(s.str) }

// SkipTo moves to the next occurrence of ch after the current position and
// reports whether one was found. The stream does not move otherwise.
func (s *Stream) SkipTo(ch rune) bool {
	if s.EOL() {
		return false
	}
	idx := strings.IndexRune(s.str[s.pos+1:], ch)
	if idx < 0 {
		return false
	}
	s.pos += idx + 1
	return true
}

// Match reports whether the text at the current position starts with str,
// consuming it when consume is set.
func (s *Stream) Match(str string, consume bool) bool {
	if !strings.HasPrefix(s.str[s.pos:], str) {
		return false
	}
	if consume {
		s.pos += len(str)
	}
	return true
}

// MatchFold is Match with Unicode case folding.
func (s *Stream) MatchFold(str string, consume bool) bool {
	rest := s.str[s.pos:]
	n := 0
	for _, want := range str {
		if n >= len(rest) {
			return false
		}
		got, size := utf8.DecodeRuneInString(rest[n:])
		if got != want && !strings.EqualFold(string(got), string(want)) {
			return false
		}
		n += size
	}
	if consume {
		s.pos += n
	}
	return true
}

// MatchRegexp matches re at the current position. It returns the match and
// its submatches, or nil when re does not match starting exactly here. A
// zero-length match is returned but never consumes.
func (s *Stream) MatchRegexp(re *regexp.Regexp, consume bool) []string {
	loc := re.FindStringSubmatchIndex(s.str[s.pos:])
	if loc == nil || loc[0] != 0 {
		return nil
	}
	rest := s.str[s.pos:]
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = rest[loc[2*i]:loc[2*i+1]]
		}
	}
	if consume {
		s.pos += loc[1]
	}
	return groups
}

// BackUp moves the position back by n bytes, never past the token start.
func (s *Stream) BackUp(n int) {
	s.pos = max(s.start, s.pos-n)
}

// Current returns the text of the token read so far.
func (s *Stream) Current() string {
	return s.str[s.start:s.pos]
}

// Column returns the display column of the token start, expanding tabs.
func (s *Stream) Column() int {
	if s.lastColumnPos > s.start {
		s.lastColumnPos, s.lastColumnValue = 0, 0
	}
	s.lastColumnValue = countColumnFrom(s.str[s.lastColumnPos:s.start], s.lastColumnValue, s.tabSize)
	s.lastColumnPos = s.start
	return s.lastColumnValue
}

// Indentation returns the display width of the line's leading whitespace.
func (s *Stream) Indentation() int {
	return CountColumn(s.str[:len(s.str)-len(strings.TrimLeft(s.str, " \t"))], s.tabSize)
}

// CountColumn returns the display width of str starting at column 0. Tabs
// advance to the next multiple of tabSize; other grapheme clusters count by
// their display width.
func CountColumn(str string, tabSize int) int {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	return countColumnFrom(str, 0, tabSize)
}

func countColumnFrom(str string, col, tabSize int) int {
	state := -1
	for len(str) > 0 {
		if str[0] == '\t' {
			col += tabSize - col%tabSize
			str = str[1:]
			state = -1
			continue
		}
		var width int
		_, str, width, state = uniseg.FirstGraphemeClusterInString(str, state)
		col += width
	}
	return col
}
