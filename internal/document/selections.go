package document

import "sort"

// Selections is the user's current multi-selection, kept in document order.
type Selections struct {
	spans []Span
}

func NewSelections(spans ...Span) *Selections {
	s := &Selections{}
	s.Set(spans...)
	return s
}

// Set replaces the selection set. Spans are stored in document order.
func (s *Selections) Set(spans ...Span) {
	s.spans = append(s.spans[:0:0], spans...)
	s.sort()
}

func (s *Selections) Add(span Span) {
	s.spans = append(s.spans, span)
	s.sort()
}

// Toggle removes span if an identical span is selected, otherwise adds it.
func (s *Selections) Toggle(span Span) bool {
	for i, existing := range s.spans {
		if existing == span {
			s.spans = append(s.spans[:i], s.spans[i+1:]...)
			return false
		}
	}
	s.Add(span)
	return true
}

// Rebase adjusts the selections after the bytes of block were rewritten and
// removed bytes were dropped from it. Selections touching block are discarded;
// those after it move back by removed.
func (s *Selections) Rebase(block Span, removed int) {
	kept := s.spans[:0]
	for _, sel := range s.spans {
		switch {
		case block.Overlaps(sel) || block.Contains(sel):
			continue
		case sel.Start >= block.End:
			sel.Start -= removed
			sel.End -= removed
		}
		kept = append(kept, sel)
	}
	s.spans = kept
}

func (s *Selections) Clear() {
	s.spans = nil
}

func (s *Selections) Len() int {
	return len(s.spans)
}

// All returns a copy of the selections in document order.
func (s *Selections) All() []Span {
	out := make([]Span, len(s.spans))
	copy(out, s.spans)
	return out
}

func (s *Selections) sort() {
	sort.SliceStable(s.spans, func(i, j int) bool {
		if s.spans[i].Start != s.spans[j].Start {
			return s.spans[i].Start < s.spans[j].Start
		}
		return s.spans[i].End < s.spans[j].End
	})
}
