// Package highlight maps the tags produced by tokenizer modes to terminal
// styles and serves styled spans from a lexical cache.
package highlight

import "strings"

// TokenType represents the semantic type of a token.
type TokenType uint16

// Token types for syntax highlighting.
// These follow TextMate/VS Code scope naming conventions at a high level.
const (
	TokenNone TokenType = iota

	// Comments
	TokenComment
	TokenCommentLine
	TokenCommentBlock

	// Strings
	TokenString
	TokenStringInterpolated
	TokenStringEscape

	// Numbers
	TokenNumber
	TokenNumberHex
	TokenNumberOctal
	TokenNumberBinary

	// Keywords
	TokenKeyword
	TokenKeywordControl     // if, else, for, while, switch, case, return
	TokenKeywordOther       // package, import, export, from
	TokenKeywordDeclaration // var, let, const, func, type, struct

	// Operators and punctuation
	TokenOperator
	TokenPunctuation
	TokenPunctuationBracket

	// Identifiers
	TokenIdentifier
	TokenVariable
	TokenVariableOther // property names, table keys
	TokenConstant
	TokenConstantLanguage // true, false, nil, null

	// Functions
	TokenFunction
	TokenFunctionBuiltin

	// Types
	TokenTypeName
	TokenTypeBuiltin

	// Storage
	TokenStorage
	TokenStorageModifier // public, private, static

	// Special
	TokenMeta // attributes, decorators
	TokenInvalid

	// Sentinel for iteration
	tokenTypeCount
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// IsComment returns true if this is a comment token.
func (t TokenType) IsComment() bool {
	return t >= TokenComment && t <= TokenCommentBlock
}

// IsString returns true if this is a string token.
func (t TokenType) IsString() bool {
	return t >= TokenString && t <= TokenStringEscape
}

// IsNumber returns true if this is a number token.
func (t TokenType) IsNumber() bool {
	return t >= TokenNumber && t <= TokenNumberBinary
}

// IsKeyword returns true if this is a keyword token.
func (t TokenType) IsKeyword() bool {
	return t >= TokenKeyword && t <= TokenKeywordDeclaration
}

// Parent returns the more general type this one refines, or TokenNone.
func (t TokenType) Parent() TokenType {
	name := t.String()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return scopeToToken[name[:i]]
	}
	return TokenNone
}

// TokenTypeFromTag converts a mode tag to a TokenType. Tags are dotted and
// hierarchical, e.g. "comment.line" or "bracket.square.open"; the longest
// prefix that names a type or an alias wins.
func TokenTypeFromTag(tag string) TokenType {
	for scope := tag; scope != ""; scope = parentScope(scope) {
		if t, ok := scopeToToken[scope]; ok {
			return t
		}
		if t, ok := tagAliases[scope]; ok {
			return t
		}
	}
	return TokenNone
}

// parentScope drops the last dotted segment of scope.
func parentScope(scope string) string {
	if i := strings.LastIndexByte(scope, '.'); i >= 0 {
		return scope[:i]
	}
	return ""
}

// tokenTypeNames maps token types to their string names.
var tokenTypeNames = []string{
	TokenNone: "none",

	TokenComment:      "comment",
	TokenCommentLine:  "comment.line",
	TokenCommentBlock: "comment.block",

	TokenString:             "string",
	TokenStringInterpolated: "string.interpolated",
	TokenStringEscape:       "string.escape",

	TokenNumber:       "number",
	TokenNumberHex:    "number.hex",
	TokenNumberOctal:  "number.octal",
	TokenNumberBinary: "number.binary",

	TokenKeyword:            "keyword",
	TokenKeywordControl:     "keyword.control",
	TokenKeywordOther:       "keyword.other",
	TokenKeywordDeclaration: "keyword.declaration",

	TokenOperator:           "operator",
	TokenPunctuation:        "punctuation",
	TokenPunctuationBracket: "punctuation.bracket",

	TokenIdentifier:       "identifier",
	TokenVariable:         "variable",
	TokenVariableOther:    "variable.other",
	TokenConstant:         "constant",
	TokenConstantLanguage: "constant.language",

	TokenFunction:        "function",
	TokenFunctionBuiltin: "function.builtin",

	TokenTypeName:    "type",
	TokenTypeBuiltin: "type.builtin",

	TokenStorage:         "storage",
	TokenStorageModifier: "storage.modifier",

	TokenMeta:    "meta",
	TokenInvalid: "invalid",
}

// tagAliases maps tag scopes used by modes that are not type names.
var tagAliases = map[string]TokenType{
	"bracket":         TokenPunctuationBracket,
	"name.property":   TokenVariableOther,
	"property.string": TokenString,
	"property":        TokenVariableOther,
	"literal.number":  TokenNumber,
	"literal.string":  TokenString,
	"literal":         TokenConstant,
}

// scopeToToken maps scope names to token types.
var scopeToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		if name != "" {
			m[name] = TokenType(i)
		}
	}
	return m
}()
