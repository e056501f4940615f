// Package modes provides reference tokenizer modes and a registry that finds
// a mode by name or file extension.
package modes

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/textcore/internal/engine/text"
	"github.com/dshills/textcore/internal/syntax/lexcache"
	"github.com/dshills/textcore/internal/syntax/stream"
)

// Language is a registered mode together with the file extensions it
// handles. It hides the mode's state type so languages can be stored
// together.
type Language struct {
	name       string
	extensions []string
	docTag     string
	indents    bool
	open       func(doc text.Text, opts ...lexcache.Option) lexcache.Any
}

// Define wraps mode as a Language.
func Define[S stream.State[S]](mode stream.Mode[S], extensions ...string) *Language {
	p := stream.NewParser(mode)
	return &Language{
		name:       p.Name(),
		extensions: extensions,
		docTag:     p.DocTag(),
		indents:    p.HasIndenter(),
		open: func(doc text.Text, opts ...lexcache.Option) lexcache.Any {
			return lexcache.New(doc, p, opts...)
		},
	}
}

// Name returns the mode name.
func (l *Language) Name() string { return l.name }

// Extensions returns the file extensions the language handles.
func (l *Language) Extensions() []string { return l.extensions }

// DocTag returns the tag describing a whole document in this language.
func (l *Language) DocTag() string { return l.docTag }

// Indents reports whether the mode computes indentation.
func (l *Language) Indents() bool { return l.indents }

// Open creates a lexical cache for doc.
func (l *Language) Open(doc text.Text, opts ...lexcache.Option) lexcache.Any {
	return l.open(doc, opts...)
}

// Registry manages available languages.
type Registry struct {
	mu sync.RWMutex

	// byName maps mode names to languages
	byName map[string]*Language

	// byExtension maps file extensions to languages
	byExtension map[string]*Language
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:      make(map[string]*Language),
		byExtension: make(map[string]*Language),
	}
}

// Register adds a language, replacing any language with the same name or
// extension.
func (r *Registry) Register(l *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[l.name] = l
	for _, ext := range l.extensions {
		r.byExtension[normalizeExt(ext)] = l
	}
}

// Get returns the language with the given name.
func (r *Registry) Get(name string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byName[name]
	return l, ok
}

// GetByExtension returns the language for a file extension, with or without
// the leading dot.
func (r *Registry) GetByExtension(ext string) (*Language, bool) {
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byExtension[normalizeExt(ext)]
	return l, ok
}

// ForFile returns the language for a file path.
func (r *Registry) ForFile(path string) (*Language, bool) {
	return r.GetByExtension(filepath.Ext(path))
}

// Names returns all registered mode names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// DefaultRegistry returns a registry with the built-in languages.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Define(TOML(), ".toml"))
	r.Register(Define(Brackets(2), ".lisp", ".scm", ".clj", ".el"))
	r.Register(Define[*SimpleState](GoMode(), ".go"))
	r.Register(Define[*SimpleState](PythonMode(), ".py", ".pyw", ".pyi"))
	r.Register(Define[*SimpleState](JavaScriptMode(), ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"))
	r.Register(Define[*SimpleState](RustMode(), ".rs"))
	return r
}
