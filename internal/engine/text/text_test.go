package text

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"
)

// checkTree verifies the structural invariants of a subtree and returns its
// length and line count.
func checkTree(t *testing.T, n node) (int, int) {
	t.Helper()
	switch n := n.(type) {
	case *leaf:
		if len(n.text) == 0 {
			t.Fatalf("leaf with no lines")
		}
		if got := textLength(n.text); got != n.len {
			t.Fatalf("leaf length = %d, want %d", n.len, got)
		}
		if n.len >= maxLeaf {
			t.Fatalf("leaf length %d exceeds ceiling %d", n.len, maxLeaf)
		}
		for _, s := range n.text {
			if !utf8.ValidString(s) {
				t.Fatalf("leaf fragment split inside a rune: %q", s)
			}
		}
		return n.len, len(n.text)
	case *branch:
		if len(n.children) == 0 {
			t.Fatalf("branch with no children")
		}
		length, lines := 0, 1
		for _, child := range n.children {
			l, c := checkTree(t, child)
			length += l
			lines += c - 1
		}
		if length != n.len {
			t.Fatalf("branch length = %d, children sum to %d", n.len, length)
		}
		if lines != n.lines {
			t.Fatalf("branch lines = %d, children sum to %d", n.lines, lines)
		}
		return length, lines
	}
	t.Fatalf("unknown node type %T", n)
	return 0, 0
}

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d %s", i+1, strings.Repeat("x", i%17))
	}
	return lines
}

func mustOfLines(t *testing.T, lines []string) Text {
	t.Helper()
	doc, err := OfLines(lines)
	if err != nil {
		t.Fatalf("OfLines: %v", err)
	}
	return doc
}

func TestOf(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		lines int
	}{
		{"empty", "", "", 1},
		{"single line", "hello", "hello", 1},
		{"newline", "hello\nworld", "hello\nworld", 2},
		{"crlf", "hello\r\nworld", "hello\nworld", 2},
		{"bare cr", "a\rb\rc", "a\nb\nc", 3},
		{"trailing newline", "abc\n", "abc\n", 2},
		{"only newlines", "\n\n", "\n\n", 3},
		{"unicode", "héllo\n世界 🌍", "héllo\n世界 🌍", 2},
		{"long", strings.Repeat("abcdefghij\n", 500), strings.Repeat("abcdefghij\n", 500), 501},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Of(tt.input)
			if got := doc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if doc.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", doc.Len(), len(tt.want))
			}
			if doc.Lines() != tt.lines {
				t.Errorf("Lines() = %d, want %d", doc.Lines(), tt.lines)
			}
			checkTree(t, doc.node())
		})
	}
}

func TestOfSep(t *testing.T) {
	doc := OfSep("a;b;c", ";")
	if doc.Lines() != 3 {
		t.Fatalf("Lines() = %d, want 3", doc.Lines())
	}
	if got := doc.SliceSep(0, doc.Len(), ";"); got != "a;b;c" {
		t.Errorf("SliceSep() = %q, want %q", got, "a;b;c")
	}
}

func TestOfLinesEmpty(t *testing.T) {
	if _, err := OfLines(nil); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("OfLines(nil) error = %v, want ErrEmptyText", err)
	}
}

func TestZeroText(t *testing.T) {
	var doc Text
	if doc.Len() != 0 || doc.Lines() != 1 {
		t.Fatalf("zero Text: Len=%d Lines=%d", doc.Len(), doc.Lines())
	}
	line, err := doc.Line(1)
	if err != nil {
		t.Fatalf("Line(1): %v", err)
	}
	if line.Text() != "" {
		t.Errorf("line text = %q, want empty", line.Text())
	}
	if !doc.Eq(Empty) {
		t.Error("zero Text should equal Empty")
	}
}

func TestLineScenario(t *testing.T) {
	doc := Of("abc\ndef\nghi")
	if doc.Len() != 11 || doc.Lines() != 3 {
		t.Fatalf("Len=%d Lines=%d, want 11 and 3", doc.Len(), doc.Lines())
	}

	line, err := doc.Line(2)
	if err != nil {
		t.Fatalf("Line(2): %v", err)
	}
	if line.Start != 4 || line.End != 7 || line.Number != 2 || line.Text() != "def" {
		t.Errorf("Line(2) = {%d %d %d %q}, want {4 7 2 \"def\"}", line.Start, line.End, line.Number, line.Text())
	}

	edited, err := doc.Replace(4, 7, []string{"xyz"})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got := edited.String(); got != "abc\nxyz\nghi" {
		t.Errorf("after Replace = %q", got)
	}
	line, _ = edited.Line(2)
	if line.Text() != "xyz" {
		t.Errorf("Line(2).Text() = %q, want %q", line.Text(), "xyz")
	}

	// The original is untouched.
	if doc.String() != "abc\ndef\nghi" {
		t.Errorf("original changed to %q", doc.String())
	}
}

func TestLineAt(t *testing.T) {
	doc := Of("abc\ndef\nghi")
	tests := []struct {
		pos    int
		number int
		text   string
	}{
		{0, 1, "abc"},
		{3, 1, "abc"},
		{4, 2, "def"},
		{7, 2, "def"},
		{8, 3, "ghi"},
		{11, 3, "ghi"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("pos %d", tt.pos), func(t *testing.T) {
			line, err := doc.LineAt(tt.pos)
			if err != nil {
				t.Fatalf("LineAt: %v", err)
			}
			if line.Number != tt.number || line.Text() != tt.text {
				t.Errorf("LineAt(%d) = line %d %q, want line %d %q", tt.pos, line.Number, line.Text(), tt.number, tt.text)
			}
		})
	}
}

func TestRangeErrors(t *testing.T) {
	doc := Of("abc\ndef")
	tests := []struct {
		name string
		call func() error
	}{
		{"LineAt negative", func() error { _, err := doc.LineAt(-1); return err }},
		{"LineAt past end", func() error { _, err := doc.LineAt(8); return err }},
		{"Line zero", func() error { _, err := doc.Line(0); return err }},
		{"Line past end", func() error { _, err := doc.Line(3); return err }},
		{"Replace negative", func() error { _, err := doc.Replace(-1, 2, []string{"x"}); return err }},
		{"Replace past end", func() error { _, err := doc.Replace(2, 9, []string{"x"}); return err }},
		{"Replace inverted", func() error { _, err := doc.Replace(4, 2, []string{"x"}); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("error = %v, want ErrOutOfRange", err)
			}
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("error %T is not a *RangeError", err)
			}
		})
	}

	if _, err := doc.Replace(0, 1, nil); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Replace with no lines error = %v, want ErrEmptyText", err)
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		from    int
		to      int
		lines   []string
		want    string
	}{
		{"insert at start", "world", 0, 0, []string{"hello "}, "hello world"},
		{"insert at end", "hello", 5, 5, []string{" world"}, "hello world"},
		{"delete range", "hello world", 5, 11, []string{""}, "hello"},
		{"split line", "abcdef", 3, 3, []string{"", ""}, "abc\ndef"},
		{"join lines", "abc\ndef", 3, 4, []string{""}, "abcdef"},
		{"multi-line insert", "ad", 1, 1, []string{"b", "c", ""}, "ab\nc\nd"},
		{"replace all", "abc\ndef", 0, 7, []string{"x"}, "x"},
		{"unicode", "世界", 3, 3, []string{"!"}, "世!界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Of(tt.initial).Replace(tt.from, tt.to, tt.lines)
			if err != nil {
				t.Fatalf("Replace: %v", err)
			}
			if got := doc.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			checkTree(t, doc.node())
		})
	}
}

// splice is the reference implementation for Replace.
func splice(s string, from, to int, lines []string) string {
	return s[:from] + strings.Join(lines, "\n") + s[to:]
}

func randomLines(rng *rand.Rand, maxLines, maxLen int) []string {
	lines := make([]string, 1+rng.Intn(maxLines))
	for i := range lines {
		var sb strings.Builder
		for j := rng.Intn(maxLen + 1); j > 0; j-- {
			switch rng.Intn(10) {
			case 0:
				sb.WriteString("é")
			case 1:
				sb.WriteString("世")
			default:
				sb.WriteByte(byte('a' + rng.Intn(26)))
			}
		}
		lines[i] = sb.String()
	}
	return lines
}

// runeBoundary moves pos back to the start of the rune containing it.
func runeBoundary(s string, pos int) int {
	for pos > 0 && pos < len(s) && !utf8.RuneStart(s[pos]) {
		pos--
	}
	return pos
}

func TestReplaceRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	doc := mustOfLines(t, numberedLines(2000))
	want := doc.String()

	for i := 0; i < 500; i++ {
		from := runeBoundary(want, rng.Intn(len(want)+1))
		to := runeBoundary(want, from+rng.Intn(min(len(want)-from, 3000)+1))
		var lines []string
		if rng.Intn(20) == 0 {
			lines = randomLines(rng, 200, 80)
		} else {
			lines = randomLines(rng, 3, 20)
		}

		next, err := doc.Replace(from, to, lines)
		if err != nil {
			t.Fatalf("step %d: Replace(%d, %d): %v", i, from, to, err)
		}
		want = splice(want, from, to, lines)
		doc = next

		if doc.Len() != len(want) {
			t.Fatalf("step %d: Len() = %d, want %d", i, doc.Len(), len(want))
		}
		if i%25 == 0 {
			if got := doc.String(); got != want {
				t.Fatalf("step %d: content mismatch", i)
			}
			checkTree(t, doc.node())
		}
	}

	if got := doc.String(); got != want {
		t.Fatal("final content mismatch")
	}
	if wantLines := strings.Count(want, "\n") + 1; doc.Lines() != wantLines {
		t.Errorf("Lines() = %d, want %d", doc.Lines(), wantLines)
	}
	if d := doc.Depth(); d > 8 {
		t.Errorf("Depth() = %d after random edits, tree is not balanced", d)
	}
}

func TestDepthLogarithmic(t *testing.T) {
	doc := mustOfLines(t, numberedLines(100000))
	checkTree(t, doc.node())
	if d := doc.Depth(); d > 7 {
		t.Errorf("Depth() = %d for 100000 lines", d)
	}

	// Many small edits at the same spot must not deepen the tree.
	for i := 0; i < 2000; i++ {
		var err error
		doc, err = doc.Replace(5000, 5000, []string{"ab", "c"})
		if err != nil {
			t.Fatalf("Replace: %v", err)
		}
	}
	checkTree(t, doc.node())
	if d := doc.Depth(); d > 8 {
		t.Errorf("Depth() = %d after repeated inserts", d)
	}
}

func TestLineContinuity(t *testing.T) {
	lines := numberedLines(3000)
	lines[10] = strings.Repeat("long line ", 300)
	lines[11] = ""
	lines[12] = strings.Repeat("é", 2000)
	doc := mustOfLines(t, lines)

	total := 0
	for n := 1; n <= doc.Lines(); n++ {
		line, err := doc.Line(n)
		if err != nil {
			t.Fatalf("Line(%d): %v", n, err)
		}
		if line.Text() != lines[n-1] {
			t.Fatalf("Line(%d).Text() = %q, want %q", n, line.Text(), lines[n-1])
		}
		if line.Len() != len(lines[n-1]) {
			t.Fatalf("Line(%d).Len() = %d, want %d", n, line.Len(), len(lines[n-1]))
		}
		if n < doc.Lines() {
			next, _ := doc.Line(n + 1)
			if line.End+1 != next.Start {
				t.Fatalf("Line(%d).End+1 = %d, Line(%d).Start = %d", n, line.End+1, n+1, next.Start)
			}
		}
		byPos, err := doc.LineAt(line.Start)
		if err != nil || byPos.Number != n {
			t.Fatalf("LineAt(%d) = line %d (%v), want %d", line.Start, byPos.Number, err, n)
		}
		total += line.Len()
	}
	if total+doc.Lines()-1 != doc.Len() {
		t.Errorf("sum of line lengths plus separators = %d, want %d", total+doc.Lines()-1, doc.Len())
	}
}

func TestLineSliceSpanningLeaves(t *testing.T) {
	long := strings.Repeat("0123456789", 400)
	doc := mustOfLines(t, []string{"head", long, "tail"})
	if doc.IsLeaf() {
		t.Fatal("expected a branch for a 4000-byte document")
	}
	line, err := doc.Line(2)
	if err != nil {
		t.Fatalf("Line(2): %v", err)
	}
	if got := line.Slice(995, 1012); got != long[995:1012] {
		t.Errorf("Slice(995, 1012) = %q, want %q", got, long[995:1012])
	}
	if got := line.Slice(3990, 5000); got != long[3990:] {
		t.Errorf("Slice past end = %q, want %q", got, long[3990:])
	}
	if line.Text() != long {
		t.Error("Text() does not match the long line")
	}
	// A second read is served from the memoized content.
	if line.Slice(0, 10) != long[:10] {
		t.Error("memoized Slice mismatch")
	}
}

func TestSlice(t *testing.T) {
	doc := Of("hello\nworld\n!")
	tests := []struct {
		name     string
		from, to int
		want     string
	}{
		{"full", 0, 13, "hello\nworld\n!"},
		{"first word", 0, 5, "hello"},
		{"across break", 3, 8, "lo\nwo"},
		{"empty", 5, 5, ""},
		{"beyond end", 6, 100, "world\n!"},
		{"negative start", -4, 2, "he"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.Slice(tt.from, tt.to); got != tt.want {
				t.Errorf("Slice(%d, %d) = %q, want %q", tt.from, tt.to, got, tt.want)
			}
		})
	}

	got := doc.SliceLines(3, 8)
	if len(got) != 2 || got[0] != "lo" || got[1] != "wo" {
		t.Errorf("SliceLines(3, 8) = %q", got)
	}
}

func TestEqDifferentChunking(t *testing.T) {
	lines := numberedLines(5000)
	a := mustOfLines(t, lines)

	// Build the same content by appending in small pieces so the tree ends
	// up with a different shape.
	b := mustOfLines(t, lines[:1])
	for _, line := range lines[1:] {
		var err error
		b, err = b.Replace(b.Len(), b.Len(), []string{"", line})
		if err != nil {
			t.Fatalf("Replace: %v", err)
		}
	}
	if a.String() != b.String() {
		t.Fatal("test setup: contents differ")
	}
	if !a.Eq(b) || !b.Eq(a) {
		t.Error("Eq() = false for identical content with different chunking")
	}

	c, _ := b.Replace(20000, 20001, []string{"#"})
	if a.Eq(c) {
		t.Error("Eq() = true after a one-byte change")
	}
	d, _ := b.Replace(b.Len(), b.Len(), []string{"", ""})
	if a.Eq(d) {
		t.Error("Eq() = true with an extra trailing line")
	}
}

func collect(it Iterator) []string {
	var out []string
	for it.Next() {
		out = append(out, it.Value())
	}
	return out
}

func TestIter(t *testing.T) {
	lines := numberedLines(400)
	doc := mustOfLines(t, lines)
	want := doc.String()

	forward := strings.Join(collect(doc.Iter(Forward)), "")
	if forward != want {
		t.Error("forward iteration does not reconstruct the document")
	}

	backward := collect(doc.Iter(Backward))
	var sb strings.Builder
	for i := len(backward) - 1; i >= 0; i-- {
		sb.WriteString(backward[i])
	}
	if sb.String() != want {
		t.Error("backward iteration does not reconstruct the document")
	}

	it := doc.Iter(Forward)
	for it.Next() {
		if it.Value() == "" {
			t.Fatal("cursor produced an empty fragment")
		}
		if it.LineBreak() != (it.Value() == "\n") {
			t.Fatalf("LineBreak() = %v for %q", it.LineBreak(), it.Value())
		}
	}
	if !it.Done() {
		t.Error("cursor not done after Next returned false")
	}
}

func TestCursorSkip(t *testing.T) {
	doc := mustOfLines(t, numberedLines(300))
	s := doc.String()
	for _, pos := range []int{0, 1, 7, 511, 512, 1023, 2048, len(s) - 1} {
		it := doc.Iter(Forward)
		if !it.Skip(pos) {
			t.Fatalf("Skip(%d) returned false", pos)
		}
		if !strings.HasPrefix(s[pos:], it.Value()) {
			t.Errorf("Skip(%d) value %q is not at %q", pos, it.Value(), s[pos:min(len(s), pos+20)])
		}
	}
}

func TestIterRange(t *testing.T) {
	doc := mustOfLines(t, numberedLines(300))
	s := doc.String()
	tests := []struct{ from, to int }{
		{0, 0}, {0, 10}, {5, 900}, {100, len(s)}, {len(s) - 3, len(s)},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d", tt.from, tt.to), func(t *testing.T) {
			got := strings.Join(collect(doc.IterRange(tt.from, tt.to)), "")
			if got != s[tt.from:tt.to] {
				t.Errorf("forward range = %q, want %q", got, s[tt.from:tt.to])
			}
			parts := collect(doc.IterRange(tt.to, tt.from))
			var sb strings.Builder
			for i := len(parts) - 1; i >= 0; i-- {
				sb.WriteString(parts[i])
			}
			if sb.String() != s[tt.from:tt.to] {
				t.Errorf("backward range = %q, want %q", sb.String(), s[tt.from:tt.to])
			}
		})
	}
}

func TestIterLines(t *testing.T) {
	lines := []string{"abc", "", "def", strings.Repeat("z", 1500), ""}
	doc := mustOfLines(t, lines)

	got := collect(doc.IterLines(0))
	if strings.Join(got, "|") != strings.Join(lines, "|") {
		t.Errorf("IterLines(0) = %q, want %q", got, lines)
	}

	got = collect(doc.IterLines(4))
	if len(got) != 4 || got[0] != "" || got[1] != "def" {
		t.Errorf("IterLines(4) = %q", got)
	}

	got = collect(doc.IterLines(1))
	if got[0] != "bc" {
		t.Errorf("IterLines(1) first = %q, want %q", got[0], "bc")
	}
}

func TestChildren(t *testing.T) {
	doc := mustOfLines(t, numberedLines(2000))
	children := doc.Children()
	if len(children) == 0 {
		t.Fatal("expected children for a large document")
	}
	total := 0
	for _, child := range children {
		total += child.Len()
	}
	if total != doc.Len() {
		t.Errorf("children lengths sum to %d, want %d", total, doc.Len())
	}
	if Of("x").Children() != nil {
		t.Error("leaf should have no children")
	}
	if got := Of("a\nb").LeafLines(); len(got) != 2 {
		t.Errorf("LeafLines() = %q", got)
	}
}

func sanitize(lines []string) []string {
	out := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		line = strings.ToValidUTF8(line, "?")
		line = strings.NewReplacer("\n", " ", "\r", " ").Replace(line)
		out = append(out, line)
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}

func TestRoundTripProperty(t *testing.T) {
	f := func(raw []string) bool {
		lines := sanitize(raw)
		doc, err := OfLines(lines)
		if err != nil {
			return false
		}
		return doc.Slice(0, doc.Len()) == strings.Join(lines, "\n") && doc.Lines() == len(lines)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestReplaceProperty(t *testing.T) {
	f := func(raw []string, ins []string, a, b uint16) bool {
		lines := sanitize(raw)
		insert := sanitize(ins)
		doc, _ := OfLines(lines)
		s := doc.String()
		from, to := int(a)%(len(s)+1), int(b)%(len(s)+1)
		if from > to {
			from, to = to, from
		}
		from, to = runeBoundary(s, from), runeBoundary(s, to)
		next, err := doc.Replace(from, to, insert)
		if err != nil {
			return false
		}
		return next.String() == splice(s, from, to, insert)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
