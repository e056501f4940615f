package highlight

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/config"
)

func TestThemeStyleForToken(t *testing.T) {
	theme := DefaultTheme()

	// Exact match
	if got := theme.StyleForToken(TokenComment); got != theme.TokenStyles[TokenComment] {
		t.Errorf("StyleForToken(comment) = %v", got)
	}
	// Falls back to the parent type
	if got := theme.StyleForToken(TokenCommentLine); got != theme.TokenStyles[TokenComment] {
		t.Errorf("StyleForToken(comment.line) should fall back to comment")
	}
	// No style at all
	if got := theme.StyleForToken(TokenIdentifier); got != theme.DefaultStyle() {
		t.Errorf("StyleForToken(identifier) should be the default style")
	}
}

func TestThemeStyleForTag(t *testing.T) {
	theme := DefaultTheme()
	special := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	theme.TagStyles["bracket.open"] = special

	tests := []struct {
		tag  string
		want tcell.Style
	}{
		{"", theme.DefaultStyle()},
		{"bracket.open", special},
		{"bracket.open.round", special},
		{"bracket.close", theme.TokenStyles[TokenPunctuation]},
		{"comment.line", theme.TokenStyles[TokenComment]},
		{"unknown.tag", theme.DefaultStyle()},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := theme.StyleForTag(tt.tag); got != tt.want {
				t.Errorf("StyleForTag(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestThemeClone(t *testing.T) {
	orig := DefaultTheme()
	c := orig.Clone()
	c.TokenStyles[TokenComment] = tcell.StyleDefault
	c.TagStyles["x"] = tcell.StyleDefault

	if orig.TokenStyles[TokenComment] == tcell.StyleDefault {
		t.Error("Clone shares TokenStyles")
	}
	if _, ok := orig.TagStyles["x"]; ok {
		t.Error("Clone shares TagStyles")
	}
}

func TestThemeFromConfig(t *testing.T) {
	theme, err := ThemeFromConfig(config.ThemeConfig{
		Name:       "monokai",
		Foreground: "#ffffff",
		Tags: map[string]string{
			"bracket.open": "bold yellow",
			"comment":      "italic #7f848e",
		},
	})
	if err != nil {
		t.Fatalf("ThemeFromConfig failed: %v", err)
	}
	if theme.Name != "Monokai" {
		t.Errorf("Name = %q, want Monokai", theme.Name)
	}
	if theme.Foreground != tcell.NewRGBColor(255, 255, 255) {
		t.Errorf("Foreground = %v", theme.Foreground)
	}

	fgc, _, attrs := theme.StyleForTag("bracket.open").Decompose()
	if fgc != tcell.ColorYellow || attrs&tcell.AttrBold == 0 {
		t.Errorf("bracket.open style = %v %v", fgc, attrs)
	}
	fgc, _, attrs = theme.StyleForTag("comment.line").Decompose()
	if fgc != tcell.NewRGBColor(0x7f, 0x84, 0x8e) || attrs&tcell.AttrItalic == 0 {
		t.Errorf("comment.line style = %v %v", fgc, attrs)
	}

	// The built-in theme is untouched.
	if _, ok := MonokaiTheme().TagStyles["bracket.open"]; ok {
		t.Error("ThemeFromConfig modified the built-in theme")
	}
}

func TestThemeFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ThemeConfig
	}{
		{"unknown theme", config.ThemeConfig{Name: "Solarized Neon"}},
		{"bad foreground", config.ThemeConfig{Foreground: "not-a-color"}},
		{"bad background", config.ThemeConfig{Background: "#zzzzzz"}},
		{"empty tag style", config.ThemeConfig{Tags: map[string]string{"comment": " "}}},
		{"bad tag color", config.ThemeConfig{Tags: map[string]string{"comment": "bold blurple"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ThemeFromConfig(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestThemeFromConfig_Default(t *testing.T) {
	theme, err := ThemeFromConfig(config.Default().Theme)
	if err != nil {
		t.Fatalf("ThemeFromConfig failed: %v", err)
	}
	if theme.Name != "Default Dark" {
		t.Errorf("Name = %q", theme.Name)
	}
}

func TestThemeRegistry(t *testing.T) {
	r := NewThemeRegistry()

	names := r.Names()
	want := []string{"Default Dark", "Light", "Monokai"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if _, ok := r.Get("LIGHT"); !ok {
		t.Error("Get should ignore case")
	}
	if _, ok := r.Get("nope"); ok {
		t.Error("Get(nope) should fail")
	}

	custom := LightTheme()
	custom.Name = "Paper"
	r.Register(custom)
	if got, ok := r.Get("paper"); !ok || got != custom {
		t.Error("registered theme not found")
	}
}
