package conflict

import (
	"strings"

	"github.com/corpeningc/cmt/internal/document"
)

type pending struct {
	header      document.Span
	ancestors   []document.Span
	splitter    document.Span
	hasSplitter bool
}

// Parse groups the marker lines of doc into conflicts, in document order.
//
// It is a single pass over the lines between the first header and the last
// footer. A header always starts a new conflict, silently dropping one that
// was still in progress; ancestor markers count only before the splitter; a
// second splitter is ignored; a footer closes the conflict only once a
// splitter has been seen. Blank lines never change state. Unterminated or
// otherwise malformed conflicts produce nothing.
func Parse(doc *document.Document) []Conflict {
	bounds, ok := Bounds(doc)
	if !ok {
		return nil
	}

	var (
		conflicts []Conflict
		cur       *pending
	)

	for _, line := range doc.Lines(bounds) {
		text := doc.Substr(line)
		if strings.TrimSpace(text) == "" {
			continue
		}

		marker, ok := Classify(text)
		if !ok {
			continue
		}

		switch {
		case marker == Header:
			cur = &pending{header: line}
		case cur == nil:
			// stray marker outside any conflict
		case marker == Ancestor && !cur.hasSplitter:
			cur.ancestors = append(cur.ancestors, line)
		case marker == Splitter && !cur.hasSplitter:
			cur.splitter = line
			cur.hasSplitter = true
		case marker == Footer && cur.hasSplitter:
			conflicts = append(conflicts, cur.finish(doc, line, len(conflicts)))
			cur = nil
		}
	}

	return conflicts
}

func (p *pending) finish(doc *document.Document, footer document.Span, index int) Conflict {
	c := Conflict{
		Index:     index,
		Header:    p.header,
		Ancestors: p.ancestors,
		Splitter:  p.splitter,
		Footer:    footer,
	}

	bodyStart := doc.FullLine(p.header.Start).End
	currentEnd := p.splitter.Start
	if len(p.ancestors) > 0 {
		currentEnd = p.ancestors[0].Start
		c.Base = document.Span{Start: currentEnd, End: p.splitter.Start}
	} else {
		c.Base = document.Span{Start: p.splitter.Start, End: p.splitter.Start}
	}

	c.CurrentBody = document.Span{Start: bodyStart, End: currentEnd}
	c.IncomingBody = document.Span{Start: doc.FullLine(p.splitter.Start).End, End: footer.Start}
	c.Block = document.Span{Start: p.header.Start, End: doc.FullLine(footer.Start).End}
	return c
}
