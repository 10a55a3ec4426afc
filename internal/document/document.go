package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Document is an in-memory text buffer addressed by byte offsets.
type Document struct {
	path     string
	text     string
	revision int
}

func New(path, text string) *Document {
	return &Document{path: path, text: text}
}

func (d *Document) Path() string {
	return d.path
}

func (d *Document) Text() string {
	return d.text
}

func (d *Document) Len() int {
	return len(d.text)
}

// Revision increases every time the text changes.
func (d *Document) Revision() int {
	return d.revision
}

func (d *Document) SetText(text string) {
	if text == d.text {
		return
	}
	d.text = text
	d.revision++
}

func (d *Document) Substr(s Span) string {
	s = d.clamp(s)
	return d.text[s.Start:s.End]
}

// Line returns the line containing offset, without its line terminator.
func (d *Document) Line(offset int) Span {
	offset = d.clampOffset(offset)
	start := strings.LastIndexByte(d.text[:offset], '\n') + 1
	end := strings.IndexByte(d.text[offset:], '\n')
	if end < 0 {
		return Span{Start: start, End: len(d.text)}
	}
	return Span{Start: start, End: offset + end}
}

// FullLine returns the line containing offset including its trailing newline.
func (d *Document) FullLine(offset int) Span {
	line := d.Line(offset)
	if line.End < len(d.text) {
		line.End++
	}
	return line
}

// Lines returns every line intersecting s, each without its line terminator.
func (d *Document) Lines(s Span) []Span {
	s = d.clamp(s)

	var lines []Span
	pos := d.Line(s.Start).Start
	for {
		end := strings.IndexByte(d.text[pos:], '\n')
		if end < 0 {
			lines = append(lines, Span{Start: pos, End: len(d.text)})
			break
		}
		lines = append(lines, Span{Start: pos, End: pos + end})
		pos += end + 1
		if pos > s.End || pos >= len(d.text) {
			break
		}
	}
	return lines
}

// FindFirst returns the first match of re starting at or after from. Matching
// begins at the start of from's line so that line anchors keep their meaning.
func (d *Document) FindFirst(re *regexp.Regexp, from int) (Span, bool) {
	from = d.clampOffset(from)
	base := d.Line(from).Start
	for _, loc := range re.FindAllStringIndex(d.text[base:], -1) {
		if base+loc[0] >= from {
			return Span{Start: base + loc[0], End: base + loc[1]}, true
		}
	}
	return Span{}, false
}

func (d *Document) FindAll(re *regexp.Regexp) []Span {
	var spans []Span
	for _, loc := range re.FindAllStringIndex(d.text, -1) {
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return spans
}

// ApplyDeletions removes each span in turn. Spans must be in descending,
// non-overlapping order so that earlier deletions never shift the offsets of
// later ones. The whole batch is validated before the text is touched.
func (d *Document) ApplyDeletions(spans []Span) error {
	for i, s := range spans {
		if s.Start < 0 || s.End > len(d.text) || s.Start > s.End {
			return fmt.Errorf("deletion %d %s: %w", i, s, ErrRangeInvalid)
		}
		if i > 0 && s.End > spans[i-1].Start {
			return fmt.Errorf("deletion %d %s after %s: %w", i, s, spans[i-1], ErrEditsOverlap)
		}
	}

	text := d.text
	for _, s := range spans {
		text = text[:s.Start] + text[s.End:]
	}
	d.SetText(text)
	return nil
}

// LineNumber returns the 0-based line index of offset.
func (d *Document) LineNumber(offset int) int {
	offset = d.clampOffset(offset)
	return strings.Count(d.text[:offset], "\n")
}

// LineStarts returns the start offset of every line, in order.
func (d *Document) LineStarts() []int {
	starts := []int{0}
	for i := 0; i < len(d.text); i++ {
		if d.text[i] == '\n' && i+1 < len(d.text) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// OffsetOfLine returns the start offset of the given 0-based line, clamped to
// the last line.
func (d *Document) OffsetOfLine(line int) int {
	starts := d.LineStarts()
	if line < 0 {
		return 0
	}
	if line >= len(starts) {
		return starts[len(starts)-1]
	}
	return starts[line]
}

// LineAt returns the index into starts of the line holding offset.
func LineAt(starts []int, offset int) int {
	return sort.SearchInts(starts, offset+1) - 1
}

func (d *Document) clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(d.text) {
		return len(d.text)
	}
	return offset
}

func (d *Document) clamp(s Span) Span {
	return Span{Start: d.clampOffset(s.Start), End: d.clampOffset(s.End)}
}
