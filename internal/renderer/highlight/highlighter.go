package highlight

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/syntax/lexcache"
)

// Span is a styled range within one line, in byte offsets from the line
// start.
type Span struct {
	StartCol int
	EndCol   int
	Tag      string
	Style    tcell.Style
}

// Range is a styled range of the document in absolute byte offsets.
type Range struct {
	From  int
	To    int
	Tag   string
	Style tcell.Style
}

// Provider turns cached tokens into styled spans.
// It bridges a lexical cache with whatever draws the document.
type Provider struct {
	mu sync.RWMutex

	// cache supplies the tokens
	cache lexcache.Any

	// theme is the active color theme
	theme *Theme
}

// NewProvider creates a new highlight provider.
func NewProvider(cache lexcache.Any, theme *Theme) *Provider {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Provider{cache: cache, theme: theme}
}

// SetCache replaces the token source.
func (p *Provider) SetCache(cache lexcache.Any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = cache
}

// SetTheme sets the active theme.
func (p *Provider) SetTheme(theme *Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
}

// Theme returns the current theme.
func (p *Provider) Theme() *Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

// HighlightsForLine returns the style spans of a 1-based line. It returns nil
// when there is no cache, the line does not exist or tokenization failed.
func (p *Provider) HighlightsForLine(line int) []Span {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.cache == nil {
		return nil
	}
	l, tokens, err := p.cache.LineTokens(line)
	if err != nil || len(tokens) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(tokens))
	for _, tok := range tokens {
		spans = append(spans, Span{
			StartCol: tok.From - l.Start,
			EndCol:   tok.To - l.Start,
			Tag:      tok.Tag,
			Style:    p.theme.StyleForTag(tok.Tag),
		})
	}
	return spans
}

// Styles returns the styled decorations overlapping [from, to).
func (p *Provider) Styles(from, to int) ([]Range, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.cache == nil {
		return nil, nil
	}
	decos, err := p.cache.Decorations(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]Range, 0, len(decos))
	for _, d := range decos {
		out = append(out, Range{
			From:  d.From,
			To:    d.To,
			Tag:   d.Tag,
			Style: p.theme.StyleForTag(d.Tag),
		})
	}
	return out, nil
}
