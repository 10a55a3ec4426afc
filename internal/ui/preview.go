package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PreviewModel pages through the replacement a resolution would produce,
// with the conflict block it replaces above it.
type PreviewModel struct {
	title    string
	before   string
	after    string
	viewport viewport.Model
	ready    bool

	// Styles
	titleStyle   lipgloss.Style
	addedStyle   lipgloss.Style
	removedStyle lipgloss.Style
	contextStyle lipgloss.Style
	helpStyle    lipgloss.Style
}

func NewPreviewModel(title, before, after string) PreviewModel {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()

	return PreviewModel{
		title:    title,
		before:   before,
		after:    after,
		viewport: vp,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),

		addedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),

		removedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// SetContent replaces what the preview shows and scrolls back to the top.
func (m *PreviewModel) SetContent(title, before, after string) {
	m.title, m.before, m.after = title, before, after
	if m.ready {
		m.viewport.SetContent(m.formatPreview())
		m.viewport.GotoTop()
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2 // title + help
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.viewport.SetContent(m.formatPreview())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "j", "down":
			m.viewport.LineDown(1)

		case "k", "up":
			m.viewport.LineUp(1)

		case "d", "ctrl+d":
			m.viewport.HalfViewDown()

		case "u", "ctrl+u":
			m.viewport.HalfViewUp()

		case "g", "home":
			m.viewport.GotoTop()

		case "G", "end":
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m PreviewModel) View() string {
	if !m.ready {
		return "Loading preview..."
	}

	title := m.titleStyle.Render(m.title)
	help := m.helpStyle.Render("j/k: line by line | d/u: half page | g/G: top/bottom | q: back")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), help)
}

// formatPreview renders the replaced block as removed lines followed by its
// replacement as added lines.
func (m PreviewModel) formatPreview() string {
	var lines []string
	for _, l := range splitLines(m.before) {
		lines = append(lines, m.removedStyle.Render("- "+l))
	}
	after := splitLines(m.after)
	if len(after) == 0 {
		lines = append(lines, m.contextStyle.Render("(conflict is removed entirely)"))
	}
	for _, l := range after {
		lines = append(lines, m.addedStyle.Render("+ "+l))
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// ShowPreview pages through a resolution preview until the user quits.
func ShowPreview(title, before, after string) error {
	p := tea.NewProgram(NewPreviewModel(title, before, after), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
