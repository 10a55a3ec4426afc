package document

import "fmt"

// Span is a half-open [Start, End) byte range into a document's text.
// Offsets are only meaningful for the revision they were computed against.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether other lies within s. Both ends are inclusive, so an
// empty span sitting on either boundary of s is contained.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// ContainsOffset reports whether offset falls inside the half-open range.
func (s Span) ContainsOffset(offset int) bool {
	return s.Start <= offset && offset < s.End
}

func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
