package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/corpeningc/cmt/internal/config"
	"github.com/corpeningc/cmt/internal/conflict"
	"github.com/corpeningc/cmt/internal/document"
	"github.com/corpeningc/cmt/internal/editor"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// Styles maps region scopes and menu choices onto terminal colours.
type Styles struct {
	Title    lipgloss.Style
	Help     lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	LineNo   lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style

	scopes map[string]lipgloss.Style
	menu   map[conflict.Choice]lipgloss.Style
}

func NewStyles(colors config.Colors) Styles {
	current := lipgloss.Color(colors.Current)
	incoming := lipgloss.Color(colors.Incoming)
	both := lipgloss.Color(colors.Both)
	highlighted := lipgloss.Color(colors.Highlighted)

	return Styles{
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		LineNo:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Selected: lipgloss.NewStyle().Background(highlighted).Foreground(lipgloss.Color("0")),

		scopes: map[string]lipgloss.Style{
			document.ScopeString:    lipgloss.NewStyle().Foreground(current),
			document.ScopeParameter: lipgloss.NewStyle().Foreground(incoming),
			document.ScopeComment:   lipgloss.NewStyle().Foreground(both),
		},
		menu: map[conflict.Choice]lipgloss.Style{
			conflict.Current:     lipgloss.NewStyle().Foreground(current),
			conflict.Incoming:    lipgloss.NewStyle().Foreground(incoming),
			conflict.Both:        lipgloss.NewStyle().Foreground(both),
			conflict.Highlighted: lipgloss.NewStyle().Foreground(highlighted),
		},
	}
}

// lineStyle is what the registry says about one display line.
type lineStyle struct {
	fill    string // scope of a filled region covering the line
	outline string // scope of an outlined region covering the line
}

// lineStyles projects every registered region onto display lines. Outlined
// regions mark the gutter; filled regions colour the text of lines that no
// outlined region covers.
func lineStyles(reg *document.Registry, starts []int) []lineStyle {
	out := make([]lineStyle, len(starts))
	for _, r := range reg.Regions() {
		if r.Style.Scope == document.ScopeNone {
			continue
		}
		for _, s := range r.Spans {
			if s.IsEmpty() {
				continue
			}
			first := document.LineAt(starts, s.Start)
			last := document.LineAt(starts, s.End-1)
			for l := first; l <= last && l < len(out); l++ {
				if r.Style.Outline {
					out[l].outline = r.Style.Scope
				} else if out[l].fill == "" {
					out[l].fill = r.Style.Scope
				}
			}
		}
	}
	return out
}

func menuKeys(c conflict.Choice) string {
	switch c {
	case conflict.Current:
		return "1"
	case conflict.Incoming:
		return "2"
	case conflict.Both:
		return "3"
	case conflict.Highlighted:
		return "4"
	}
	return "?"
}

func (st Styles) renderMenu(anchor document.Anchor[conflict.Choice]) string {
	parts := make([]string, len(anchor.Options))
	for i, opt := range anchor.Options {
		parts[i] = st.menu[opt.Value].Render(fmt.Sprintf("[%s] %s", menuKeys(opt.Value), opt.Label))
	}
	return strings.Join(parts, st.Help.Render(" | "))
}

// renderDocument draws the session's document, one display line per text
// line, clipped to width.
func renderDocument(s *editor.Session, cursor, width int, st Styles) string {
	doc := s.Document()
	starts := doc.LineStarts()
	styles := lineStyles(s.Registry(), starts)

	menus := make(map[int]document.Anchor[conflict.Choice])
	for _, anchor := range s.Actions().Anchors() {
		menus[document.LineAt(starts, anchor.At)] = anchor
	}

	selected := make(map[int]bool)
	for _, sel := range s.Selections().All() {
		if sel.IsEmpty() {
			continue
		}
		for l := document.LineAt(starts, sel.Start); l <= document.LineAt(starts, sel.End-1); l++ {
			selected[l] = true
		}
	}

	numWidth := len(fmt.Sprint(len(starts)))
	textWidth := width - numWidth - 4
	if textWidth < 1 {
		textWidth = 1
	}

	var b strings.Builder
	for i, start := range starts {
		line := doc.Substr(doc.Line(start))
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
		line = runewidth.Truncate(line, textWidth, "…")

		pointer := " "
		if i == cursor {
			pointer = st.Cursor.Render(">")
		}

		gutter := " "
		if ls := styles[i]; ls.outline != "" {
			gutter = st.scopes[ls.outline].Render("│")
		}

		switch ls := styles[i]; {
		case selected[i]:
			line = st.Selected.Render(line)
		case ls.outline == "" && ls.fill != "":
			line = st.scopes[ls.fill].Render(line)
		}

		row := fmt.Sprintf("%s%s %s%s", pointer, st.LineNo.Render(fmt.Sprintf("%*d", numWidth, i+1)), gutter, line)
		if anchor, ok := menus[i]; ok {
			row += "  " + st.renderMenu(anchor)
		}
		b.WriteString(ansi.Truncate(row, width, ""))
		if i < len(starts)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
