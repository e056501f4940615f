package highlight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/config"
)

// Theme defines colors and styles for syntax highlighting.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Background is the document background color.
	Background tcell.Color

	// Foreground is the default text color.
	Foreground tcell.Color

	// TokenStyles maps token types to their styles.
	TokenStyles map[TokenType]tcell.Style

	// TagStyles maps tag scopes to styles. They take precedence over
	// TokenStyles.
	TagStyles map[string]tcell.Style
}

// DefaultStyle returns the style of untagged text.
func (t *Theme) DefaultStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(t.Foreground)
}

// StyleForToken returns the style for a token type, falling back to the
// parent type and then to the default style.
func (t *Theme) StyleForToken(tokenType TokenType) tcell.Style {
	for tt := tokenType; tt != TokenNone; tt = tt.Parent() {
		if style, ok := t.TokenStyles[tt]; ok {
			return style
		}
	}
	return t.DefaultStyle()
}

// StyleForTag returns the style for a mode tag. The most specific tag scope
// with an explicit style wins; otherwise the tag's token type decides.
func (t *Theme) StyleForTag(tag string) tcell.Style {
	if tag == "" {
		return t.DefaultStyle()
	}
	for scope := tag; scope != ""; scope = parentScope(scope) {
		if style, ok := t.TagStyles[scope]; ok {
			return style
		}
	}
	return t.StyleForToken(TokenTypeFromTag(tag))
}

// Clone returns a copy of the theme that can be modified independently.
func (t *Theme) Clone() *Theme {
	c := *t
	c.TokenStyles = make(map[TokenType]tcell.Style, len(t.TokenStyles))
	for k, v := range t.TokenStyles {
		c.TokenStyles[k] = v
	}
	c.TagStyles = make(map[string]tcell.Style, len(t.TagStyles))
	for k, v := range t.TagStyles {
		c.TagStyles[k] = v
	}
	return &c
}

// ThemeFromConfig builds a theme from configuration: the named built-in theme
// with the configured colors and tag styles applied on top. Color values are
// anything tcell.GetColor accepts, optionally preceded by "bold", "italic",
// "underline" or "strike".
func ThemeFromConfig(cfg config.ThemeConfig) (*Theme, error) {
	base := DefaultTheme()
	if cfg.Name != "" {
		t, ok := NewThemeRegistry().Get(cfg.Name)
		if !ok {
			return nil, fmt.Errorf("unknown theme %q", cfg.Name)
		}
		base = t
	}
	theme := base.Clone()

	if cfg.Foreground != "" {
		c, err := parseColor(cfg.Foreground)
		if err != nil {
			return nil, fmt.Errorf("theme foreground: %w", err)
		}
		theme.Foreground = c
	}
	if cfg.Background != "" {
		c, err := parseColor(cfg.Background)
		if err != nil {
			return nil, fmt.Errorf("theme background: %w", err)
		}
		theme.Background = c
	}
	for tag, spec := range cfg.Tags {
		style, err := parseStyle(spec)
		if err != nil {
			return nil, fmt.Errorf("theme tag %q: %w", tag, err)
		}
		theme.TagStyles[tag] = style
	}
	return theme, nil
}

func parseColor(name string) (tcell.Color, error) {
	c := tcell.GetColor(strings.ToLower(name))
	if c == tcell.ColorDefault && !strings.EqualFold(name, "default") {
		return c, fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}

func parseStyle(spec string) (tcell.Style, error) {
	style := tcell.StyleDefault
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return style, fmt.Errorf("empty style")
	}
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "bold":
			style = style.Bold(true)
		case "italic":
			style = style.Italic(true)
		case "underline":
			style = style.Underline(true)
		case "strike":
			style = style.StrikeThrough(true)
		default:
			c, err := parseColor(f)
			if err != nil {
				return style, err
			}
			style = style.Foreground(c)
		}
	}
	return style, nil
}

// DefaultTheme returns a sensible default dark theme.
func DefaultTheme() *Theme {
	comment := tcell.NewRGBColor(106, 153, 85)
	keyword := tcell.NewRGBColor(86, 156, 214)
	str := tcell.NewRGBColor(206, 145, 120)
	number := tcell.NewRGBColor(181, 206, 168)
	function := tcell.NewRGBColor(220, 220, 170)
	typ := tcell.NewRGBColor(78, 201, 176)
	variable := tcell.NewRGBColor(156, 220, 254)
	operator := tcell.NewRGBColor(212, 212, 212)
	invalid := tcell.NewRGBColor(244, 71, 71)

	return &Theme{
		Name:       "Default Dark",
		Background: tcell.NewRGBColor(30, 30, 30),
		Foreground: tcell.NewRGBColor(212, 212, 212),
		TokenStyles: map[TokenType]tcell.Style{
			TokenComment:          fg(comment).Italic(true),
			TokenString:           fg(str),
			TokenStringEscape:     fg(tcell.NewRGBColor(215, 186, 125)),
			TokenNumber:           fg(number),
			TokenKeyword:          fg(keyword),
			TokenOperator:         fg(operator),
			TokenPunctuation:      fg(operator),
			TokenVariable:         fg(variable),
			TokenVariableOther:    fg(variable),
			TokenConstant:         fg(tcell.NewRGBColor(79, 193, 255)),
			TokenConstantLanguage: fg(keyword),
			TokenFunction:         fg(function),
			TokenTypeName:         fg(typ),
			TokenStorage:          fg(keyword),
			TokenMeta:             fg(typ),
			TokenInvalid:          fg(invalid).Bold(true),
		},
		TagStyles: map[string]tcell.Style{},
	}
}

// MonokaiTheme returns a Monokai-inspired theme.
func MonokaiTheme() *Theme {
	pink := tcell.NewRGBColor(249, 38, 114)
	green := tcell.NewRGBColor(166, 226, 46)
	orange := tcell.NewRGBColor(253, 151, 31)
	yellow := tcell.NewRGBColor(230, 219, 116)
	blue := tcell.NewRGBColor(102, 217, 239)
	purple := tcell.NewRGBColor(174, 129, 255)
	comment := tcell.NewRGBColor(117, 113, 94)
	white := tcell.NewRGBColor(248, 248, 242)

	return &Theme{
		Name:       "Monokai",
		Background: tcell.NewRGBColor(39, 40, 34),
		Foreground: white,
		TokenStyles: map[TokenType]tcell.Style{
			TokenComment:            fg(comment).Italic(true),
			TokenString:             fg(yellow),
			TokenNumber:             fg(purple),
			TokenKeyword:            fg(pink),
			TokenKeywordDeclaration: fg(blue).Italic(true),
			TokenOperator:           fg(pink),
			TokenPunctuation:        fg(white),
			TokenVariable:           fg(white),
			TokenVariableOther:      fg(orange),
			TokenConstant:           fg(purple),
			TokenFunction:           fg(green),
			TokenTypeName:           fg(blue).Italic(true),
			TokenStorage:            fg(pink),
			TokenMeta:               fg(orange),
			TokenInvalid:            fg(white).Background(pink),
		},
		TagStyles: map[string]tcell.Style{},
	}
}

// LightTheme returns a light theme.
func LightTheme() *Theme {
	keyword := tcell.NewRGBColor(0, 0, 255)
	str := tcell.NewRGBColor(163, 21, 21)
	comment := tcell.NewRGBColor(0, 128, 0)
	number := tcell.NewRGBColor(9, 134, 88)
	typ := tcell.NewRGBColor(38, 127, 153)
	function := tcell.NewRGBColor(121, 94, 38)
	variable := tcell.NewRGBColor(0, 16, 128)

	return &Theme{
		Name:       "Light",
		Background: tcell.NewRGBColor(255, 255, 255),
		Foreground: tcell.NewRGBColor(0, 0, 0),
		TokenStyles: map[TokenType]tcell.Style{
			TokenComment:       fg(comment).Italic(true),
			TokenString:        fg(str),
			TokenNumber:        fg(number),
			TokenKeyword:       fg(keyword),
			TokenVariable:      fg(variable),
			TokenVariableOther: fg(variable),
			TokenConstant:      fg(keyword),
			TokenFunction:      fg(function),
			TokenTypeName:      fg(typ),
			TokenStorage:       fg(keyword),
			TokenInvalid:       fg(tcell.NewRGBColor(205, 49, 49)).Bold(true),
		},
		TagStyles: map[string]tcell.Style{},
	}
}

func fg(c tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(c)
}

// ThemeRegistry holds available themes.
type ThemeRegistry struct {
	themes map[string]*Theme
}

// NewThemeRegistry creates a new theme registry with built-in themes.
func NewThemeRegistry() *ThemeRegistry {
	r := &ThemeRegistry{
		themes: make(map[string]*Theme),
	}
	r.Register(DefaultTheme())
	r.Register(MonokaiTheme())
	r.Register(LightTheme())
	return r
}

// Register adds a theme to the registry.
func (r *ThemeRegistry) Register(theme *Theme) {
	r.themes[strings.ToLower(theme.Name)] = theme
}

// Get returns a theme by name, ignoring case.
func (r *ThemeRegistry) Get(name string) (*Theme, bool) {
	t, ok := r.themes[strings.ToLower(name)]
	return t, ok
}

// Names returns all registered theme names, sorted.
func (r *ThemeRegistry) Names() []string {
	names := make([]string, 0, len(r.themes))
	for _, t := range r.themes {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
