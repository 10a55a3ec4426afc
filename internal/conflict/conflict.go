package conflict

import (
	"fmt"
	"strings"

	"github.com/corpeningc/cmt/internal/document"
)

// Conflict is one merge-conflict block. Marker spans cover the marker line
// without its terminator; body spans cover whole lines between markers.
// Offsets are only valid for the document revision that was parsed.
type Conflict struct {
	Index int

	Header    document.Span
	Ancestors []document.Span
	Splitter  document.Span
	Footer    document.Span

	// CurrentBody runs from the end of the header line to the first ancestor
	// marker, or to the splitter when there is no common-ancestor section.
	CurrentBody document.Span
	// Base is the common-ancestor section, from the first ancestor marker to
	// the splitter. It is empty for two-way conflicts.
	Base         document.Span
	IncomingBody document.Span

	// Block covers the whole conflict, through the footer's line terminator.
	Block document.Span
}

// CurrentBlock runs from the start of the header line to the splitter.
func (c Conflict) CurrentBlock() document.Span {
	return document.Span{Start: c.Header.Start, End: c.Splitter.Start}
}

// Border is the splitter line including its terminator.
func (c Conflict) Border() document.Span {
	return document.Span{Start: c.Splitter.Start, End: c.IncomingBody.Start}
}

// IncomingBlock runs from the end of the splitter line through the footer
// line terminator.
func (c Conflict) IncomingBlock() document.Span {
	return document.Span{Start: c.IncomingBody.Start, End: c.Block.End}
}

// Regions returns the spans the resolution planner works from.
func (c Conflict) Regions() Regions {
	return Regions{
		Current:      c.CurrentBlock(),
		CurrentBody:  c.CurrentBody,
		Border:       c.Border(),
		IncomingBody: c.IncomingBody,
		Incoming:     c.IncomingBlock(),
	}
}

func (c Conflict) HasBase() bool {
	return len(c.Ancestors) > 0
}

// Label returns the text after a marker token on the given marker line,
// typically a branch or commit name.
func Label(doc *document.Document, line document.Span) string {
	text := doc.Substr(line)
	if len(text) < len(HeaderToken) {
		return ""
	}
	return strings.TrimSpace(text[len(HeaderToken):])
}

// Choice is the resolution picked for a conflict.
type Choice int

const (
	Current Choice = iota
	Incoming
	Both
	Highlighted
)

// Choices lists every choice in menu order.
func Choices() []Choice {
	return []Choice{Current, Incoming, Both, Highlighted}
}

func (c Choice) String() string {
	switch c {
	case Current:
		return "current"
	case Incoming:
		return "incoming"
	case Both:
		return "both"
	case Highlighted:
		return "highlighted"
	default:
		return fmt.Sprintf("Choice(%d)", int(c))
	}
}

// Label is the text shown in the inline action menu.
func (c Choice) Label() string {
	switch c {
	case Current:
		return "Accept Current Change"
	case Incoming:
		return "Accept Incoming Change"
	case Both:
		return "Accept Both Changes"
	case Highlighted:
		return "Accept Highlighted Changes"
	default:
		return c.String()
	}
}

// ParseChoice maps a choice name to a Choice. "ours" and "theirs" are
// accepted as aliases for current and incoming.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "ours":
		return Current, nil
	case "incoming", "theirs":
		return Incoming, nil
	case "both":
		return Both, nil
	case "highlighted", "selected":
		return Highlighted, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownChoice)
}
