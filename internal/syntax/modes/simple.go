package modes

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dshills/textcore/internal/syntax/stream"
)

// rule is a pattern anchored at the current stream position.
type rule struct {
	pattern *regexp.Regexp
	tag     string
}

// block is a construct that may span lines, such as a block comment.
type block struct {
	start, end string
	tag        string
}

// SimpleState records which block construct, if any, is open at the end of a
// line.
type SimpleState struct {
	block int // index+1 into Simple.blocks, 0 when none is open
}

// Clone implements stream.State.
func (s *SimpleState) Clone() *SimpleState {
	c := *s
	return &c
}

// InBlock reports whether a multi-line construct is open.
func (s *SimpleState) InBlock() bool { return s.block > 0 }

// Simple is a rule-driven mode. At each position it tries, in order: the end
// of an open block, the start of a block, every rule in the order added, and
// finally an identifier, which is looked up in the keyword table.
type Simple struct {
	name     string
	blocks   []block
	rules    []rule
	keywords map[string]string
	identTag string
}

// NewSimple creates an empty rule grammar.
func NewSimple(name string) *Simple {
	return &Simple{
		name:     name,
		keywords: make(map[string]string),
		identTag: "identifier",
	}
}

// AddRule adds a pattern. The pattern is anchored at the current position.
func (m *Simple) AddRule(pattern, tag string) *Simple {
	m.rules = append(m.rules, rule{
		pattern: regexp.MustCompile(`^(?:` + pattern + `)`),
		tag:     tag,
	})
	return m
}

// AddKeywords tags the given identifiers with tag.
func (m *Simple) AddKeywords(tag string, keywords ...string) *Simple {
	for _, kw := range keywords {
		m.keywords[kw] = tag
	}
	return m
}

// AddBlock adds a construct delimited by start and end that may span lines.
func (m *Simple) AddBlock(start, end, tag string) *Simple {
	m.blocks = append(m.blocks, block{start: start, end: end, tag: tag})
	return m
}

// SetIdentifierTag sets the tag of identifiers that are not keywords. An
// empty tag leaves them untagged.
func (m *Simple) SetIdentifierTag(tag string) *Simple {
	m.identTag = tag
	return m
}

// Name implements stream.Mode.
func (m *Simple) Name() string { return m.name }

// StartState implements stream.Mode.
func (m *Simple) StartState() *SimpleState { return &SimpleState{} }

// Token implements stream.Mode.
func (m *Simple) Token(s *stream.Stream, state *SimpleState) string {
	if state.block > 0 {
		b := m.blocks[state.block-1]
		m.skipBlock(s, state, b)
		return b.tag
	}
	if s.EatSpace() {
		return ""
	}
	for i, b := range m.blocks {
		if s.Match(b.start, true) {
			state.block = i + 1
			m.skipBlock(s, state, b)
			return b.tag
		}
	}
	for _, r := range m.rules {
		if match := s.MatchRegexp(r.pattern, true); match != nil && match[0] != "" {
			return r.tag
		}
	}
	if s.EatFunc(isIdentStart) {
		s.EatWhile(isIdentPart)
		if tag, ok := m.keywords[s.Current()]; ok {
			return tag
		}
		return m.identTag
	}
	s.Next()
	return ""
}

// skipBlock consumes up to and including the end delimiter of b, or the
// rest of the line when it does not close here.
func (m *Simple) skipBlock(s *stream.Stream, state *SimpleState, b block) {
	idx := strings.Index(s.String()[s.Pos():], b.end)
	if idx < 0 {
		s.SkipToEnd()
		return
	}
	target := s.Pos() + idx + len(b.end)
	for s.Pos() < target {
		s.Next()
	}
	state.block = 0
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }

func isIdentPart(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }

// GoMode returns a rule grammar for Go.
func GoMode() *Simple {
	m := NewSimple("go")

	m.AddBlock("/*", "*/", "comment.block")
	m.AddBlock("`", "`", "string")

	m.AddRule(`//.*$`, "comment.line")
	m.AddRule(`"(?:[^"\\]|\\.)*"`, "string")
	m.AddRule(`'(?:[^'\\]|\\.)'`, "string")
	m.AddRule(`0[xX][0-9a-fA-F_]+\b`, "number.hex")
	m.AddRule(`0[oO][0-7_]+\b`, "number.octal")
	m.AddRule(`0[bB][01_]+\b`, "number.binary")
	m.AddRule(`\d[\d_]*\.?\d*(?:[eE][+-]?\d+)?\b`, "number")

	m.AddKeywords("keyword.control",
		"if", "else", "for", "range", "switch", "case", "default",
		"break", "continue", "return", "goto", "fallthrough", "select")
	m.AddKeywords("keyword.declaration",
		"func", "var", "const", "type", "struct", "interface", "map", "chan")
	m.AddKeywords("keyword.other",
		"package", "import", "defer", "go")
	m.AddKeywords("constant.language",
		"true", "false", "nil", "iota")
	m.AddKeywords("type.builtin",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"bool", "byte", "rune", "string", "error", "any")
	m.AddKeywords("function.builtin",
		"make", "new", "len", "cap", "append", "copy", "delete",
		"close", "panic", "recover", "print", "println",
		"real", "imag", "complex", "min", "max", "clear")

	return m
}

// PythonMode returns a rule grammar for Python.
func PythonMode() *Simple {
	m := NewSimple("python")

	m.AddBlock(`"""`, `"""`, "string")
	m.AddBlock(`'''`, `'''`, "string")

	m.AddRule(`#.*$`, "comment.line")
	m.AddRule(`"(?:[^"\\]|\\.)*"`, "string")
	m.AddRule(`'(?:[^'\\]|\\.)*'`, "string")
	m.AddRule(`0[xX][0-9a-fA-F]+\b`, "number.hex")
	m.AddRule(`0[oO][0-7]+\b`, "number.octal")
	m.AddRule(`0[bB][01]+\b`, "number.binary")
	m.AddRule(`\d+\.?\d*(?:[eE][+-]?\d+)?j?\b`, "number")
	m.AddRule(`@\w+`, "meta")

	m.AddKeywords("keyword.control",
		"if", "elif", "else", "for", "while", "break", "continue",
		"return", "try", "except", "finally", "raise", "with", "as",
		"match", "case")
	m.AddKeywords("keyword.declaration",
		"def", "class", "lambda", "async", "await")
	m.AddKeywords("keyword.other",
		"import", "from", "global", "nonlocal", "pass", "yield",
		"assert", "del", "in", "is", "not", "and", "or")
	m.AddKeywords("constant.language",
		"True", "False", "None")
	m.AddKeywords("function.builtin",
		"print", "len", "range", "enumerate", "zip", "map", "filter",
		"open", "isinstance", "sorted", "sum", "min", "max", "abs",
		"int", "float", "str", "bool", "list", "dict", "set", "tuple")

	return m
}

// JavaScriptMode returns a rule grammar for JavaScript and TypeScript.
func JavaScriptMode() *Simple {
	m := NewSimple("javascript")

	m.AddBlock("/*", "*/", "comment.block")
	m.AddBlock("`", "`", "string.interpolated")

	m.AddRule(`//.*$`, "comment.line")
	m.AddRule(`"(?:[^"\\]|\\.)*"`, "string")
	m.AddRule(`'(?:[^'\\]|\\.)*'`, "string")
	m.AddRule(`0[xX][0-9a-fA-F]+\b`, "number.hex")
	m.AddRule(`0[oO][0-7]+\b`, "number.octal")
	m.AddRule(`0[bB][01]+\b`, "number.binary")
	m.AddRule(`\d+\.?\d*(?:[eE][+-]?\d+)?\b`, "number")
	m.AddRule(`@\w+`, "meta")

	m.AddKeywords("keyword.control",
		"if", "else", "for", "while", "do", "switch", "case", "default",
		"break", "continue", "return", "throw", "try", "catch", "finally")
	m.AddKeywords("keyword.declaration",
		"function", "var", "let", "const", "class", "extends", "async", "await",
		"type", "interface", "enum", "namespace", "module", "declare")
	m.AddKeywords("keyword.other",
		"import", "export", "from", "as", "new", "delete",
		"typeof", "instanceof", "in", "of", "this", "super", "static",
		"yield", "debugger", "with")
	m.AddKeywords("constant.language",
		"true", "false", "null", "undefined", "NaN", "Infinity")
	m.AddKeywords("storage.modifier",
		"public", "private", "protected", "readonly", "abstract", "override")

	return m
}

// RustMode returns a rule grammar for Rust.
func RustMode() *Simple {
	m := NewSimple("rust")

	m.AddBlock("/*", "*/", "comment.block")

	m.AddRule(`//.*$`, "comment.line")
	m.AddRule(`#!?\[.*?\]`, "meta")
	m.AddRule(`b?"(?:[^"\\]|\\.)*"`, "string")
	m.AddRule(`r#*"[^"]*"#*`, "string")
	m.AddRule(`'(?:[^'\\]|\\.)'`, "string")
	m.AddRule(`0[xX][0-9a-fA-F_]+\b`, "number.hex")
	m.AddRule(`0[oO][0-7_]+\b`, "number.octal")
	m.AddRule(`0[bB][01_]+\b`, "number.binary")
	m.AddRule(`\d[\d_]*\.?[\d_]*(?:[eE][+-]?[\d_]+)?(?:f32|f64|i\d+|u\d+|isize|usize)?\b`, "number")

	m.AddKeywords("keyword.control",
		"if", "else", "match", "for", "while", "loop", "break", "continue",
		"return", "yield")
	m.AddKeywords("keyword.declaration",
		"fn", "let", "mut", "const", "static", "struct", "enum", "trait",
		"impl", "type", "mod", "macro_rules")
	m.AddKeywords("keyword.other",
		"use", "crate", "super", "self", "Self", "pub", "where", "as",
		"async", "await", "dyn", "move", "ref", "unsafe", "extern")
	m.AddKeywords("constant.language",
		"true", "false", "None", "Some", "Ok", "Err")
	m.AddKeywords("type.builtin",
		"i8", "i16", "i32", "i64", "i128", "isize",
		"u8", "u16", "u32", "u64", "u128", "usize",
		"f32", "f64", "bool", "char", "str", "String",
		"Vec", "Box", "Option", "Result")

	return m
}
