package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/engine/text"
	"github.com/dshills/textcore/internal/renderer/highlight"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestLipglossStyle(t *testing.T) {
	s := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(255, 0, 0)).
		Background(tcell.NewRGBColor(0, 0, 16)).
		Bold(true).
		Italic(true)

	got := lipglossStyle(s)
	if got.GetForeground() != lipgloss.Color("#ff0000") {
		t.Errorf("foreground = %v", got.GetForeground())
	}
	if got.GetBackground() != lipgloss.Color("#000010") {
		t.Errorf("background = %v", got.GetBackground())
	}
	if !got.GetBold() || !got.GetItalic() {
		t.Error("bold and italic should carry over")
	}
	if got.GetUnderline() || got.GetStrikethrough() {
		t.Error("underline and strikethrough should be off")
	}

	plain := lipglossStyle(tcell.StyleDefault)
	if _, ok := plain.GetForeground().(lipgloss.NoColor); !ok {
		t.Errorf("default foreground = %v, want NoColor", plain.GetForeground())
	}
}

func TestRenderLine(t *testing.T) {
	theme := highlight.DefaultTheme()
	line := `(a "s") ; c`
	spans := []highlight.Span{
		{StartCol: 0, EndCol: 1, Tag: "bracket.open", Style: theme.StyleForTag("bracket.open")},
		{StartCol: 3, EndCol: 6, Tag: "string", Style: theme.StyleForTag("string")},
		{StartCol: 8, EndCol: 40, Tag: "comment.line", Style: theme.StyleForTag("comment.line")},
	}

	got := ansi.ReplaceAllString(renderLine(line, spans, theme), "")
	if got != line {
		t.Errorf("renderLine text = %q, want %q", got, line)
	}
	if got := ansi.ReplaceAllString(renderLine("", nil, theme), ""); got != "" {
		t.Errorf("empty line rendered as %q", got)
	}
}

func TestWriteDot(t *testing.T) {
	var small bytes.Buffer
	writeDot(&small, text.Of("hello\nworld"))
	out := small.String()
	if !strings.HasPrefix(out, "digraph rope {") || !strings.HasSuffix(out, "}\n") {
		t.Errorf("not a digraph:\n%s", out)
	}
	if !strings.Contains(out, `leaf len=11 lines=2\nhello`) {
		t.Errorf("missing leaf label:\n%s", out)
	}

	lines := make([]string, 2000)
	for i := range lines {
		lines[i] = "some line of text"
	}
	var big bytes.Buffer
	writeDot(&big, text.Of(strings.Join(lines, "\n")))
	if !strings.Contains(big.String(), "branch len=") || !strings.Contains(big.String(), "n0 -> n1;") {
		t.Errorf("large document should have branches:\n%.400s", big.String())
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("textcore %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokensCommand(t *testing.T) {
	path := writeTemp(t, "cfg.toml", "[a]\nk = 1\n")
	out := execute(t, "tokens", path)
	if !strings.Contains(out, "1:0-") || !strings.Contains(out, "keyword.expression") {
		t.Errorf("tokens output missing the table token:\n%s", out)
	}
	if !strings.Contains(out, "2:") {
		t.Errorf("tokens output missing line 2:\n%s", out)
	}
}

func TestIndentCommand(t *testing.T) {
	path := writeTemp(t, "code.lisp", "(a\n(b\nc))\n")
	if out := execute(t, "indent", "--line", path, "3"); strings.TrimSpace(out) != "4" {
		t.Errorf("indent line 3 = %q, want 4", out)
	}
}

func TestDecorateCommand(t *testing.T) {
	path := writeTemp(t, "x.dat", "(a)\n; note\n")
	out := execute(t, "decorate", "--lang", "brackets", path)
	if got := ansi.ReplaceAllString(out, ""); got != "(a)\n; note\n\n" {
		t.Errorf("decorate output = %q", got)
	}

	out = execute(t, "decorate", "--lang", "brackets", "-n", "--from", "2", path)
	if got := ansi.ReplaceAllString(out, ""); got != "2  ; note\n3  \n" {
		t.Errorf("decorate range output = %q", got)
	}
}

func TestUnknownLanguage(t *testing.T) {
	path := writeTemp(t, "x.unknown", "x")
	rootCmd.SetArgs([]string{"tokens", "--lang", "", path})
	rootCmd.SetOut(&bytes.Buffer{})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error for a file with no language")
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warning", "error"} {
		if _, err := parseLevel(s); err != nil {
			t.Errorf("parseLevel(%q) failed: %v", s, err)
		}
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Error("parseLevel(loud) should fail")
	}
}
