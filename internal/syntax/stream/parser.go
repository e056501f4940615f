package stream

import (
	"fmt"
)

// maxTokenAttempts bounds how often Token may return without consuming
// input before the parser gives up.
const maxTokenAttempts = 10

// State is the constraint on tokenizer state types. Token mutates the state
// in place, so S is normally a pointer type; Clone returns an independent
// copy for checkpointing.
type State[S any] interface {
	Clone() S
}

// Mode is a line tokenizer.
type Mode[S State[S]] interface {
	// Name identifies the mode, e.g. "toml".
	Name() string

	// StartState returns the state at the start of a document.
	StartState() S

	// Token consumes one token from s and returns its tag, or "" when the
	// consumed text has no tag.
	Token(s *Stream, state S) string
}

// BlankLiner is implemented by modes that need to observe empty lines.
type BlankLiner[S any] interface {
	BlankLine(state S)
}

// Indenter is implemented by modes that can compute indentation. textAfter
// is the text following the position being indented. The boolean is false
// when the mode cannot decide.
type Indenter[S any] interface {
	Indent(state S, textAfter string) (int, bool)
}

// Copier is implemented by modes that copy state differently from
// State.Clone.
type Copier[S any] interface {
	CopyState(state S) S
}

// DocTagger is implemented by modes with a custom document tag.
type DocTagger interface {
	DocTag() string
}

// Token is a tagged span within a line, in byte offsets relative to the line
// start.
type Token struct {
	From int
	To   int
	Tag  string
}

// Parser wraps a Mode and fills in defaults for its optional parts.
type Parser[S State[S]] struct {
	mode     Mode[S]
	blank    BlankLiner[S]
	indenter Indenter[S]
	copier   Copier[S]
	docTag   string
}

// NewParser returns a parser for mode.
func NewParser[S State[S]](mode Mode[S]) *Parser[S] {
	p := &Parser[S]{mode: mode}
	p.blank, _ = mode.(BlankLiner[S])
	p.indenter, _ = mode.(Indenter[S])
	p.copier, _ = mode.(Copier[S])
	if t, ok := mode.(DocTagger); ok && t.DocTag() != "" {
		p.docTag = t.DocTag()
	} else {
		p.docTag = "document.lang=" + mode.Name()
	}
	return p
}

// Name returns the mode name.
func (p *Parser[S]) Name() string { return p.mode.Name() }

// DocTag returns the tag describing the whole document.
func (p *Parser[S]) DocTag() string { return p.docTag }

// StartState returns a fresh start state.
func (p *Parser[S]) StartState() S { return p.mode.StartState() }

// CopyState returns an independent copy of state.
func (p *Parser[S]) CopyState(state S) S {
	if p.copier != nil {
		return p.copier.CopyState(state)
	}
	return state.Clone()
}

// HasIndenter reports whether the mode computes indentation.
func (p *Parser[S]) HasIndenter() bool { return p.indenter != nil }

// Indent returns the indentation for a line following state. The boolean is
// false when the mode has no indenter or cannot decide.
func (p *Parser[S]) Indent(state S, textAfter string) (int, bool) {
	if p.indenter == nil {
		return 0, false
	}
	return p.indenter.Indent(state, textAfter)
}

// BlankLine lets the mode observe an empty line.
func (p *Parser[S]) BlankLine(state S) {
	if p.blank != nil {
		p.blank.BlankLine(state)
	}
}

// ReadToken reads one token starting at the current position. It fails with
// ErrNoProgress when the mode returns maxTokenAttempts times without
// consuming anything.
func (p *Parser[S]) ReadToken(s *Stream, state S) (tag string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s at column %d: %w: %v", p.mode.Name(), s.pos, ErrTokenizerPanic, r)
		}
	}()

	s.start = s.pos
	for i := 0; i < maxTokenAttempts; i++ {
		tag = p.mode.Token(s, state)
		if s.pos > s.start {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%s at column %d: %w", p.mode.Name(), s.pos, ErrNoProgress)
}

// ReadLine tokenizes a whole line, calling emit for every tagged token. An
// empty line is reported to the mode as a blank line.
func (p *Parser[S]) ReadLine(s *Stream, state S, emit func(Token)) error {
	if s.EOL() {
		p.BlankLine(state)
		return nil
	}
	for !s.EOL() {
		tag, err := p.ReadToken(s, state)
		if err != nil {
			return err
		}
		if tag != "" && emit != nil {
			emit(Token{From: s.start, To: s.pos, Tag: tag})
		}
	}
	return nil
}

// Skim advances state past a line without collecting tokens.
func (p *Parser[S]) Skim(line string, tabSize int, state S) error {
	return p.ReadLine(New(line, tabSize), state, nil)
}
