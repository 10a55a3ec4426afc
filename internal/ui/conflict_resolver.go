package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/corpeningc/cmt/internal/config"
	"github.com/corpeningc/cmt/internal/conflict"
	"github.com/corpeningc/cmt/internal/document"
	"github.com/corpeningc/cmt/internal/editor"
	"github.com/corpeningc/cmt/internal/watch"
)

const chromeHeight = 3 // title, help and status lines

// ResolverResult describes the state of the file when the resolver exits.
type ResolverResult struct {
	Path      string
	Remaining int
	Saved     bool
}

type ConflictResolverModel struct {
	session *editor.Session
	path    string
	watcher *watch.Watcher
	log     *slog.Logger

	viewport viewport.Model
	ready    bool
	width    int

	cursor        int
	savedRevision int
	saved         bool
	confirmQuit   bool

	status string
	err    error

	preview       *PreviewModel
	previewIndex  int
	previewChoice conflict.Choice

	styles Styles
}

func NewConflictResolverModel(session *editor.Session, settings config.Settings, w *watch.Watcher, log *slog.Logger) ConflictResolverModel {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()

	m := ConflictResolverModel{
		session:       session,
		path:          session.Document().Path(),
		watcher:       w,
		log:           log,
		viewport:      vp,
		savedRevision: session.Document().Revision(),
		styles:        NewStyles(settings.Colors),
	}
	if c := session.Conflicts(); len(c) > 0 {
		m.cursor = session.Document().LineNumber(c[0].Header.Start)
	}
	return m
}

func (m ConflictResolverModel) Init() tea.Cmd {
	return m.waitForChange()
}

func (m ConflictResolverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - chromeHeight
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()
		if m.preview != nil {
			pm, _ := m.preview.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height})
			p := pm.(PreviewModel)
			m.preview = &p
		}
		return m, nil

	case fileChangedMsg:
		m.onFileChanged(msg)
		return m, m.waitForChange()

	case watchClosedMsg:
		return m, nil

	case tea.KeyMsg:
		if m.preview != nil {
			return m.handlePreviewKey(msg)
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ConflictResolverModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "ctrl+c" {
		m.confirmQuit = false
	}
	m.err = nil

	switch key {
	case "q", "ctrl+c":
		if m.Dirty() && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "Unsaved changes: w to save, q again to discard"
			return m, nil
		}
		return m, tea.Quit

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "ctrl+d", "pgdown":
		m.moveCursor(m.viewport.Height / 2)
	case "ctrl+u", "pgup":
		m.moveCursor(-m.viewport.Height / 2)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = m.lineCount() - 1

	case "n":
		m.jump(m.session.FindNextConflict)
	case "m":
		m.jump(m.session.FindNext)

	case " ", "space", "v":
		m.toggleLine()
	case "esc":
		m.session.Selections().Clear()

	case "1", "c":
		m.accept(conflict.Current)
	case "2", "i":
		m.accept(conflict.Incoming)
	case "3", "b":
		m.accept(conflict.Both)
	case "4", "h":
		m.accept(conflict.Highlighted)

	case "C":
		m.acceptAll(conflict.Current)
	case "I":
		m.acceptAll(conflict.Incoming)
	case "B":
		m.acceptAll(conflict.Both)

	case "p":
		m.openPreview()

	case "w":
		m.save()
	case "r":
		m.reloadFromDisk()
	}

	m.refresh()
	return m, nil
}

// handlePreviewKey drives the preview pane: 1-4 switch the previewed
// choice, enter applies it and q, esc or p close the pane.
func (m ConflictResolverModel) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "p":
		m.preview = nil
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "1", "2", "3", "4":
		m.previewChoice = conflict.Choices()[msg.String()[0]-'1']
		m.updatePreview()
		return m, nil
	case "enter":
		m.preview = nil
		if err := m.session.Invoke(m.previewIndex, m.previewChoice); err != nil {
			m.err = err
		} else {
			m.status = fmt.Sprintf("%s: %d conflict(s) left", m.previewChoice.Label(), m.session.Len())
		}
		m.clampCursor()
		m.refresh()
		return m, nil
	}

	pm, cmd := m.preview.Update(msg)
	p := pm.(PreviewModel)
	m.preview = &p
	return m, cmd
}

func (m *ConflictResolverModel) openPreview() {
	c, ok := m.session.ConflictAt(m.cursorOffset())
	if !ok {
		m.status = "Cursor is not inside a conflict"
		return
	}
	m.previewIndex = c.Index
	m.previewChoice = conflict.Current
	if m.session.Selections().Len() > 0 {
		m.previewChoice = conflict.Highlighted
	}

	p := NewPreviewModel("", "", "")
	pm, _ := p.Update(tea.WindowSizeMsg{Width: m.width, Height: m.viewport.Height + chromeHeight})
	p = pm.(PreviewModel)
	m.preview = &p
	m.updatePreview()
}

func (m *ConflictResolverModel) updatePreview() {
	after, err := m.session.Preview(m.previewIndex, m.previewChoice)
	if err != nil {
		m.preview = nil
		m.err = err
		return
	}
	c := m.session.Conflicts()[m.previewIndex]
	before := m.session.Document().Substr(c.Block)
	title := fmt.Sprintf("Preview conflict %d: %s (1-4: choice, enter: apply)", m.previewIndex+1, m.previewChoice.Label())
	m.preview.SetContent(title, before, after)
}

func (m ConflictResolverModel) Previewing() bool {
	return m.preview != nil
}

func (m ConflictResolverModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.preview != nil {
		return m.preview.View()
	}

	title := fmt.Sprintf("cmt - %s", m.path)
	if m.Dirty() {
		title += " [modified]"
	}
	title = m.styles.Title.Render(title) + m.styles.Help.Render(fmt.Sprintf("  %d conflict(s)", m.session.Len()))

	help := m.styles.Help.Render("j/k: move | n: next conflict | space: highlight | 1-4: accept | p: preview | C/I/B: accept all | w: save | q: quit")

	status := m.styles.Status.Render(m.status)
	if m.err != nil {
		status = m.styles.Error.Render("Error: " + m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), help, status)
}

// Dirty reports whether the document differs from what was last saved.
func (m ConflictResolverModel) Dirty() bool {
	return m.session.Document().Revision() != m.savedRevision
}

func (m ConflictResolverModel) Cursor() int {
	return m.cursor
}

func (m ConflictResolverModel) Status() string {
	return m.status
}

func (m ConflictResolverModel) Err() error {
	return m.err
}

func (m ConflictResolverModel) Result() ResolverResult {
	return ResolverResult{Path: m.path, Remaining: m.session.Len(), Saved: m.saved && !m.Dirty()}
}

func (m *ConflictResolverModel) lineCount() int {
	return len(m.session.Document().LineStarts())
}

func (m *ConflictResolverModel) cursorOffset() int {
	return m.session.Document().OffsetOfLine(m.cursor)
}

func (m *ConflictResolverModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *ConflictResolverModel) clampCursor() {
	if n := m.lineCount(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// jump moves the cursor to the next match after the cursor line.
func (m *ConflictResolverModel) jump(find func(int) (conflict.Match, error)) {
	doc := m.session.Document()
	from := doc.FullLine(m.cursorOffset()).End
	match, err := find(from)
	if errors.Is(err, conflict.ErrNotFound) {
		m.status = "No conflict found"
		return
	}
	if err != nil {
		m.err = err
		return
	}
	m.cursor = doc.LineNumber(match.Line.Start)
	m.status = ""
}

func (m *ConflictResolverModel) toggleLine() {
	line := m.session.Document().FullLine(m.cursorOffset())
	if line.IsEmpty() {
		return
	}
	if m.session.Selections().Toggle(line) {
		m.status = fmt.Sprintf("Highlighted line %d", m.cursor+1)
	} else {
		m.status = fmt.Sprintf("Cleared line %d", m.cursor+1)
	}
}

func (m *ConflictResolverModel) accept(choice conflict.Choice) {
	c, ok := m.session.ConflictAt(m.cursorOffset())
	if !ok {
		m.status = "Cursor is not inside a conflict"
		return
	}
	if err := m.session.Invoke(c.Index, choice); err != nil {
		m.err = err
		return
	}
	m.cursor = m.session.Document().LineNumber(c.Block.Start)
	m.clampCursor()
	m.status = fmt.Sprintf("%s: %d conflict(s) left", choice.Label(), m.session.Len())
}

func (m *ConflictResolverModel) acceptAll(choice conflict.Choice) {
	n, err := m.session.ResolveAll(choice)
	if err != nil {
		m.err = err
	}
	m.clampCursor()
	m.status = fmt.Sprintf("%s: resolved %d conflict(s)", choice.Label(), n)
}

func (m *ConflictResolverModel) save() {
	doc := m.session.Document()
	if err := doc.Save(); err != nil {
		m.err = err
		return
	}
	m.savedRevision = doc.Revision()
	m.saved = true
	m.status = fmt.Sprintf("Saved %s", doc.Path())
	m.log.Info("saved document", "path", doc.Path(), "conflicts", m.session.Len())
}

func (m *ConflictResolverModel) reloadFromDisk() {
	content, err := os.ReadFile(m.path)
	if err != nil {
		m.err = err
		return
	}
	m.reload(string(content))
}

func (m *ConflictResolverModel) reload(text string) {
	n := m.session.Reload(text)
	m.savedRevision = m.session.Document().Revision()
	m.clampCursor()
	m.status = fmt.Sprintf("Reloaded from disk: %d conflict(s)", n)
}

func (m *ConflictResolverModel) onFileChanged(msg fileChangedMsg) {
	if msg.err != nil {
		m.err = msg.err
		return
	}
	if msg.text == m.session.Document().Text() {
		return
	}
	if m.Dirty() {
		m.status = "File changed on disk: r to reload"
		return
	}
	m.reload(msg.text)
	m.refresh()
}

// refresh re-renders the document and keeps the cursor line visible.
func (m *ConflictResolverModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderDocument(m.session, m.cursor, m.width, m.styles))

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// RunConflictResolver opens path in the resolver until the user quits.
func RunConflictResolver(path string, settings config.Settings, log *slog.Logger) (ResolverResult, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	doc, err := document.Load(path)
	if err != nil {
		return ResolverResult{}, err
	}

	session := editor.Open(doc, log)
	defer session.Close()

	var w *watch.Watcher
	if settings.LiveMatching {
		w, err = watch.New(watch.WithLogger(log))
		if err != nil {
			return ResolverResult{}, err
		}
		defer w.Close()
		if err := w.Add(path); err != nil {
			return ResolverResult{}, err
		}
	}

	m := NewConflictResolverModel(session, settings, w, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return ResolverResult{}, fmt.Errorf("resolver: %w", err)
	}

	if fm, ok := final.(ConflictResolverModel); ok {
		return fm.Result(), nil
	}
	return m.Result(), nil
}
