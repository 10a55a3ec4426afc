package conflict

import (
	"slices"

	"github.com/corpeningc/cmt/internal/document"
)

// Regions are the named spans of one conflict as registered on a document.
type Regions struct {
	Current      document.Span
	CurrentBody  document.Span
	Border       document.Span
	IncomingBody document.Span
	Incoming     document.Span
}

// Span is the full extent of the conflict, header start to footer end.
func (r Regions) Span() document.Span {
	return document.Span{Start: r.Current.Start, End: r.Incoming.End}
}

// KeepIntervals returns the fragments of the conflict that survive choice, in
// ascending, non-overlapping order.
//
// For Highlighted, selections are folded in the order given: a selection is
// kept when it lies wholly inside the current or incoming body and starts no
// earlier than the end of the previously kept fragment. Selections that cross
// the border, touch a marker line, overlap an earlier fragment or come out of
// order are dropped.
func KeepIntervals(r Regions, choice Choice, selections []document.Span) []document.Span {
	switch choice {
	case Current:
		return []document.Span{r.CurrentBody}
	case Incoming:
		return []document.Span{r.IncomingBody}
	case Both:
		return []document.Span{r.CurrentBody, r.IncomingBody}
	case Highlighted:
		return highlighted(r, selections)
	}
	return nil
}

func highlighted(r Regions, selections []document.Span) []document.Span {
	var keep []document.Span
	cursor := r.Current.Start
	for _, sel := range selections {
		if sel.IsEmpty() {
			continue
		}
		if !r.CurrentBody.Contains(sel) && !r.IncomingBody.Contains(sel) {
			continue
		}
		if sel.Start < cursor {
			continue
		}
		keep = append(keep, sel)
		cursor = sel.End
	}
	return keep
}

// Deletions returns the ranges to delete to resolve a conflict, highest
// offset first. Applying them in order leaves exactly the keep intervals.
func Deletions(r Regions, choice Choice, selections []document.Span) []document.Span {
	return complement(r.Span(), KeepIntervals(r, choice, selections))
}

func complement(whole document.Span, keep []document.Span) []document.Span {
	var del []document.Span
	cursor := whole.Start
	for _, k := range keep {
		if k.Start > cursor {
			del = append(del, document.Span{Start: cursor, End: k.Start})
		}
		cursor = max(cursor, k.End)
	}
	if cursor < whole.End {
		del = append(del, document.Span{Start: cursor, End: whole.End})
	}
	slices.Reverse(del)
	return del
}

// Preview returns the text a conflict would be replaced with under choice.
func Preview(doc *document.Document, r Regions, choice Choice, selections []document.Span) string {
	var out []byte
	for _, k := range KeepIntervals(r, choice, selections) {
		out = append(out, doc.Substr(k)...)
	}
	return string(out)
}
