package conflict

import (
	"regexp"

	"github.com/corpeningc/cmt/internal/document"
)

// FindNext returns the first marker at or after offset, wrapping around to
// the top of the document. It works from the raw text alone, so it is usable
// before any parse has run.
func FindNext(doc *document.Document, offset int) (Match, error) {
	return findNext(doc, markerPattern, offset)
}

// FindNextConflict is FindNext restricted to header markers, stepping from one
// conflict to the next instead of from marker to marker.
func FindNextConflict(doc *document.Document, offset int) (Match, error) {
	return findNext(doc, headerPattern, offset)
}

func findNext(doc *document.Document, re *regexp.Regexp, offset int) (Match, error) {
	if m, ok := scan(doc, re, offset); ok {
		return m, nil
	}
	if m, ok := scan(doc, re, 0); ok {
		return m, nil
	}
	return Match{}, ErrNotFound
}
