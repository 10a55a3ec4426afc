package conflict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpeningc/cmt/internal/document"
)

const simple = "<<<<<<< HEAD\nfoo\n=======\nbar\n>>>>>>> branch\n"

func lines(ss ...string) string {
	return strings.Join(ss, "\n") + "\n"
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line   string
		want   Marker
		wantOK bool
	}{
		{"<<<<<<< HEAD", Header, true},
		{"<<<<<<<", Header, true},
		{"||||||| merged common ancestors", Ancestor, true},
		{"=======", Splitter, true},
		{"========", Splitter, true},
		{">>>>>>> feature/x", Footer, true},
		{"<<<<<< six", 0, false},
		{" <<<<<<< indented", 0, false},
		{"plain text", 0, false},
	}

	for _, tt := range tests {
		got, ok := Classify(tt.line)
		require.Equal(t, tt.wantOK, ok, tt.line)
		if ok {
			require.Equal(t, tt.want, got, tt.line)
		}
	}
}

func TestParseSimple(t *testing.T) {
	doc := document.New("", simple)

	conflicts := Parse(doc)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	require.Equal(t, 0, c.Index)
	require.Equal(t, "<<<<<<< HEAD", doc.Substr(c.Header))
	require.Equal(t, "=======", doc.Substr(c.Splitter))
	require.Equal(t, ">>>>>>> branch", doc.Substr(c.Footer))
	require.Equal(t, "foo\n", doc.Substr(c.CurrentBody))
	require.Equal(t, "bar\n", doc.Substr(c.IncomingBody))
	require.Equal(t, document.Span{Start: 0, End: len(simple)}, c.Block)
	require.False(t, c.HasBase())
	require.Equal(t, "HEAD", Label(doc, c.Header))
	require.Equal(t, "branch", Label(doc, c.Footer))
	assertSpans(t, doc, c)
}

func TestParseWithAncestors(t *testing.T) {
	text := lines(
		"<<<<<<< ours",
		"foo",
		"||||||| base",
		"old",
		"=======",
		"bar",
		">>>>>>> theirs",
	)
	doc := document.New("", text)

	conflicts := Parse(doc)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	require.Len(t, c.Ancestors, 1)
	require.True(t, c.HasBase())
	require.Equal(t, "foo\n", doc.Substr(c.CurrentBody))
	require.Equal(t, "||||||| base\nold\n", doc.Substr(c.Base))
	require.Equal(t, "bar\n", doc.Substr(c.IncomingBody))
	assertSpans(t, doc, c)
}

func TestParseMultiple(t *testing.T) {
	text := lines(
		"package main",
		"<<<<<<< HEAD",
		"a := 1",
		"=======",
		"a := 2",
		">>>>>>> other",
		"",
		"func main() {}",
		"<<<<<<< HEAD",
		"",
		"b := 1",
		"   ",
		"=======",
		"b := 2",
		">>>>>>> other",
	)
	doc := document.New("", text)

	conflicts := Parse(doc)
	require.Len(t, conflicts, 2)
	for i, c := range conflicts {
		require.Equal(t, i, c.Index)
		assertSpans(t, doc, c)
	}
	require.Equal(t, "\nb := 1\n   \n", doc.Substr(conflicts[1].CurrentBody))
	require.Less(t, conflicts[0].Block.End, conflicts[1].Block.Start)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "header without footer",
			text: lines("<<<<<<< HEAD", "foo", "=======", "bar"),
			want: 0,
		},
		{
			name: "footer without splitter",
			text: lines("<<<<<<< HEAD", "foo", ">>>>>>> b"),
			want: 0,
		},
		{
			name: "no header",
			text: lines("foo", "=======", "bar", ">>>>>>> b"),
			want: 0,
		},
		{
			name: "footer before header",
			text: lines(">>>>>>> b", "<<<<<<< HEAD", "foo"),
			want: 0,
		},
		{
			name: "restarted header drops the first",
			text: lines("<<<<<<< a", "x", "<<<<<<< b", "y", "=======", "z", ">>>>>>> b"),
			want: 1,
		},
		{
			name: "unterminated then complete",
			text: lines("<<<<<<< a", "x", "=======", "<<<<<<< b", "y", "=======", "z", ">>>>>>> b"),
			want: 1,
		},
		{
			name: "markers not at line start",
			text: lines("  <<<<<<< a", "x", "  =======", "y", "  >>>>>>> b"),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.New("", tt.text)
			conflicts := Parse(doc)
			require.Len(t, conflicts, tt.want)
			for _, c := range conflicts {
				require.Equal(t, 0, c.Index)
				require.Equal(t, "<<<<<<< b", doc.Substr(c.Header))
				assertSpans(t, doc, c)
			}
		})
	}
}

func TestParseSecondSplitterStaysInIncomingBody(t *testing.T) {
	text := lines("<<<<<<< a", "x", "=======", "y", "=======", "z", ">>>>>>> b")
	doc := document.New("", text)

	conflicts := Parse(doc)
	require.Len(t, conflicts, 1)
	require.Equal(t, "y\n=======\nz\n", doc.Substr(conflicts[0].IncomingBody))
}

func TestParseEmptyBodies(t *testing.T) {
	doc := document.New("", lines("<<<<<<< a", "=======", ">>>>>>> b"))

	conflicts := Parse(doc)
	require.Len(t, conflicts, 1)
	require.True(t, conflicts[0].CurrentBody.IsEmpty())
	require.True(t, conflicts[0].IncomingBody.IsEmpty())
}

func TestParseNoTrailingNewline(t *testing.T) {
	text := "<<<<<<< a\nfoo\n=======\nbar\n>>>>>>> b"
	doc := document.New("", text)

	conflicts := Parse(doc)
	require.Len(t, conflicts, 1)
	require.Equal(t, len(text), conflicts[0].Block.End)
	require.Equal(t, "bar\n", doc.Substr(conflicts[0].IncomingBody))
}

func TestParseIsIdempotent(t *testing.T) {
	doc := document.New("", lines("x", "<<<<<<< a", "1", "=======", "2", ">>>>>>> b", "<<<<<<< a", "3", "=======", "4", ">>>>>>> b"))

	first := Parse(doc)
	second := Parse(doc)
	require.Equal(t, first, second)
	require.Len(t, first, 2)
}

func assertSpans(t *testing.T, doc *document.Document, c Conflict) {
	t.Helper()

	require.Less(t, c.Header.Start, c.Splitter.Start)
	require.Less(t, c.Splitter.Start, c.Footer.Start)
	require.LessOrEqual(t, c.Header.End, c.CurrentBody.Start)
	require.LessOrEqual(t, c.CurrentBody.End, c.Splitter.Start)
	require.LessOrEqual(t, c.Splitter.End, c.IncomingBody.Start)
	require.LessOrEqual(t, c.IncomingBody.End, c.Footer.Start)
	for _, a := range c.Ancestors {
		require.Less(t, c.Header.Start, a.Start)
		require.Less(t, a.Start, c.Splitter.Start)
	}

	for _, body := range []document.Span{c.CurrentBody, c.IncomingBody} {
		for _, line := range bodyLines(doc, body) {
			m, ok := Classify(line)
			if ok {
				require.NotEqual(t, Header, m, "body contains a header marker")
				require.NotEqual(t, Footer, m, "body contains a footer marker")
			}
		}
	}
}

func bodyLines(doc *document.Document, body document.Span) []string {
	if body.IsEmpty() {
		return nil
	}
	return strings.Split(strings.TrimSuffix(doc.Substr(body), "\n"), "\n")
}
