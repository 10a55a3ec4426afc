package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/corpeningc/cmt/internal/document"
)

// parseSelections reads --select values. Each is either a byte range
// "start:end" or a 1-based inclusive line range "L3" or "L3-L5", which
// selects whole lines including their terminators.
func parseSelections(doc *document.Document, values []string) ([]document.Span, error) {
	spans := make([]document.Span, 0, len(values))
	for _, v := range values {
		span, err := parseSelection(doc, strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q: %w", v, err)
		}
		spans = append(spans, span)
	}
	return spans, nil
}

func parseSelection(doc *document.Document, v string) (document.Span, error) {
	if strings.HasPrefix(v, "L") {
		return parseLineRange(doc, v)
	}

	a, b, ok := strings.Cut(v, ":")
	if !ok {
		return document.Span{}, errors.New("want start:end or Ln-Lm")
	}
	start, err := strconv.Atoi(a)
	if err != nil {
		return document.Span{}, err
	}
	end, err := strconv.Atoi(b)
	if err != nil {
		return document.Span{}, err
	}
	if start < 0 || end < start || end > doc.Len() {
		return document.Span{}, fmt.Errorf("range outside document of %d bytes", doc.Len())
	}
	return document.Span{Start: start, End: end}, nil
}

func parseLineRange(doc *document.Document, v string) (document.Span, error) {
	a, b, ranged := strings.Cut(v, "-")
	first, err := strconv.Atoi(strings.TrimPrefix(a, "L"))
	if err != nil {
		return document.Span{}, err
	}
	last := first
	if ranged {
		if last, err = strconv.Atoi(strings.TrimPrefix(b, "L")); err != nil {
			return document.Span{}, err
		}
	}

	count := len(doc.LineStarts())
	if first < 1 || last < first || last > count {
		return document.Span{}, fmt.Errorf("lines outside document of %d lines", count)
	}
	start := doc.OffsetOfLine(first - 1)
	end := doc.FullLine(doc.OffsetOfLine(last - 1)).End
	return document.Span{Start: start, End: end}, nil
}
