package conflict

import (
	"regexp"
	"strings"

	"github.com/corpeningc/cmt/internal/document"
)

// Marker identifies one of the four conflict marker lines.
type Marker int

const (
	Header Marker = iota
	Ancestor
	Splitter
	Footer
)

const (
	HeaderToken   = "<<<<<<<"
	AncestorToken = "|||||||"
	SplitterToken = "======="
	FooterToken   = ">>>>>>>"
)

var (
	markerPattern = regexp.MustCompile(`(?m)^(?:<{7}|\|{7}|={7}|>{7})`)
	headerPattern = regexp.MustCompile(`(?m)^<{7}`)
	footerPattern = regexp.MustCompile(`(?m)^>{7}`)
)

func (m Marker) Token() string {
	switch m {
	case Header:
		return HeaderToken
	case Ancestor:
		return AncestorToken
	case Splitter:
		return SplitterToken
	case Footer:
		return FooterToken
	default:
		return ""
	}
}

func (m Marker) String() string {
	switch m {
	case Header:
		return "header"
	case Ancestor:
		return "ancestor"
	case Splitter:
		return "splitter"
	case Footer:
		return "footer"
	default:
		return "unknown"
	}
}

// Classify reports which marker, if any, line starts with. Anything after the
// seven marker characters (a branch name, for instance) is ignored.
func Classify(line string) (Marker, bool) {
	switch {
	case strings.HasPrefix(line, HeaderToken):
		return Header, true
	case strings.HasPrefix(line, AncestorToken):
		return Ancestor, true
	case strings.HasPrefix(line, SplitterToken):
		return Splitter, true
	case strings.HasPrefix(line, FooterToken):
		return Footer, true
	}
	return 0, false
}

// Match is a marker found by the scanner.
type Match struct {
	Marker Marker
	// Token covers the seven marker characters.
	Token document.Span
	// Line covers the whole marker line without its terminator.
	Line document.Span
}

// Scan returns the first marker at the start of a line at or after from.
func Scan(doc *document.Document, from int) (Match, bool) {
	return scan(doc, markerPattern, from)
}

func scan(doc *document.Document, re *regexp.Regexp, from int) (Match, bool) {
	token, ok := doc.FindFirst(re, from)
	if !ok {
		return Match{}, false
	}
	marker, _ := Classify(doc.Substr(token))
	return Match{Marker: marker, Token: token, Line: doc.Line(token.Start)}, true
}

// Bounds returns the smallest span running from the first header marker to
// the end of the last footer marker.
func Bounds(doc *document.Document) (document.Span, bool) {
	first, ok := doc.FindFirst(headerPattern, 0)
	if !ok {
		return document.Span{}, false
	}
	footers := doc.FindAll(footerPattern)
	if len(footers) == 0 {
		return document.Span{}, false
	}
	last := footers[len(footers)-1]
	if last.End < first.Start {
		return document.Span{}, false
	}
	return document.Span{Start: first.Start, End: last.End}, true
}
