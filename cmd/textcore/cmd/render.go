package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/renderer/highlight"
)

// lipglossStyle converts a terminal cell style to a lipgloss style.
func lipglossStyle(s tcell.Style) lipgloss.Style {
	fg, bg, attrs := s.Decompose()
	out := lipgloss.NewStyle()
	if c, ok := lipglossColor(fg); ok {
		out = out.Foreground(c)
	}
	if c, ok := lipglossColor(bg); ok {
		out = out.Background(c)
	}
	return out.
		Bold(attrs&tcell.AttrBold != 0).
		Italic(attrs&tcell.AttrItalic != 0).
		Underline(attrs&tcell.AttrUnderline != 0).
		Strikethrough(attrs&tcell.AttrStrikeThrough != 0)
}

func lipglossColor(c tcell.Color) (lipgloss.Color, bool) {
	if c == tcell.ColorDefault {
		return "", false
	}
	hex := c.Hex()
	if hex < 0 {
		return "", false
	}
	return lipgloss.Color(fmt.Sprintf("#%06x", hex)), true
}

// renderLine styles the spans of one line. Text between spans uses the
// theme's default style.
func renderLine(line string, spans []highlight.Span, theme *highlight.Theme) string {
	plain := lipglossStyle(theme.DefaultStyle())
	var b strings.Builder
	col := 0
	for _, sp := range spans {
		start, end := max(sp.StartCol, col), min(sp.EndCol, len(line))
		if start >= end {
			continue
		}
		if start > col {
			b.WriteString(plain.Render(line[col:start]))
		}
		b.WriteString(lipglossStyle(sp.Style).Render(line[start:end]))
		col = end
	}
	if col < len(line) {
		b.WriteString(plain.Render(line[col:]))
	}
	return b.String()
}
