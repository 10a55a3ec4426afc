package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/corpeningc/cmt/internal/config"
	"github.com/corpeningc/cmt/internal/document"
	"github.com/corpeningc/cmt/internal/editor"
)

func lines(ss ...string) string {
	return strings.Join(ss, "\n") + "\n"
}

var twoConflicts = lines(
	"top",
	"<<<<<<< HEAD",
	"a1",
	"=======",
	"a2",
	">>>>>>> feature",
	"middle",
	"<<<<<<< HEAD",
	"b1",
	"=======",
	"b2",
	">>>>>>> feature",
	"bottom",
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, path, text string) ConflictResolverModel {
	t.Helper()
	session := editor.Open(document.New(path, text), nil)
	m := NewConflictResolverModel(session, config.Default(), nil, nil)
	return send(t, m, tea.WindowSizeMsg{Width: 200, Height: 30})
}

func send(t *testing.T, m ConflictResolverModel, msgs ...tea.Msg) ConflictResolverModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(ConflictResolverModel)
		require.True(t, ok)
	}
	return m
}

func TestResolverStartsOnFirstConflict(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	require.Equal(t, 1, m.Cursor())
	require.False(t, m.Dirty())

	view := m.View()
	require.Contains(t, view, "cmt - f.txt")
	require.Contains(t, view, "2 conflict(s)")
	require.Contains(t, view, "[1] Accept Current Change")
	require.Contains(t, view, "[4] Accept Highlighted Changes")
}

func TestResolverNextConflictWraps(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	m = send(t, m, key("n"))
	require.Equal(t, 7, m.Cursor())

	m = send(t, m, key("n"))
	require.Equal(t, 1, m.Cursor())

	m = send(t, m, key("m"))
	require.Equal(t, 3, m.Cursor())
}

func TestResolverNoConflicts(t *testing.T) {
	m := newModel(t, "f.txt", "plain\ntext\n")

	m = send(t, m, key("n"))
	require.Equal(t, 0, m.Cursor())
	require.Equal(t, "No conflict found", m.Status())

	m = send(t, m, key("1"))
	require.Equal(t, "Cursor is not inside a conflict", m.Status())
	require.False(t, m.Dirty())
}

func TestResolverAcceptChoices(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"1", "a1"},
		{"c", "a1"},
		{"2", "a2"},
		{"i", "a2"},
		{"3", "a1\na2"},
		{"b", "a1\na2"},
		{"4", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newModel(t, "f.txt", twoConflicts)
			m = send(t, m, key(tt.key))

			prefix := "top\n"
			if tt.want != "" {
				prefix += tt.want + "\n"
			}
			text := m.session.Document().Text()
			require.True(t, strings.HasPrefix(text, prefix+"middle\n<<<<<<< HEAD\n"), text)
			require.Equal(t, 1, m.session.Len())
			require.True(t, m.Dirty())
		})
	}
}

func TestResolverAcceptHighlightedLine(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	m = send(t, m, key("n"), key("j"), key("v"))
	require.Equal(t, 8, m.Cursor())
	require.Equal(t, 1, m.session.Selections().Len())

	m = send(t, m, key("4"))
	require.Equal(t, lines(
		"top",
		"<<<<<<< HEAD",
		"a1",
		"=======",
		"a2",
		">>>>>>> feature",
		"middle",
		"b1",
		"bottom",
	), m.session.Document().Text())
	require.Equal(t, 0, m.session.Selections().Len())
}

func TestResolverAcceptKeepsOtherHighlights(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	m = send(t, m, key("n"), key("j"), key("j"), key("j"), key("v"))
	require.Equal(t, 10, m.Cursor())

	m = send(t, m, key("n"), key("1"))
	require.Equal(t, 1, m.session.Len())
	require.Equal(t, 1, m.session.Selections().Len())

	m = send(t, m, key("n"), key("4"))
	require.Equal(t, lines("top", "a1", "middle", "b2", "bottom"), m.session.Document().Text())
}

func TestResolverToggleAndClearSelection(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	m = send(t, m, key("j"), key("v"))
	require.Equal(t, 1, m.session.Selections().Len())
	m = send(t, m, key("v"))
	require.Equal(t, 0, m.session.Selections().Len())

	m = send(t, m, key("v"), key("esc"))
	require.Equal(t, 0, m.session.Selections().Len())
}

func TestResolverAcceptAll(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	m = send(t, m, key("I"))
	require.Equal(t, lines("top", "a2", "middle", "b2", "bottom"), m.session.Document().Text())
	require.Equal(t, 0, m.session.Len())
	require.Contains(t, m.View(), "0 conflict(s)")
}

func TestResolverQuitAsksWhenDirty(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())

	m = send(t, m, key("1"))
	next, cmd := m.Update(key("q"))
	require.Nil(t, cmd)
	m = next.(ConflictResolverModel)
	require.Contains(t, m.Status(), "Unsaved changes")

	_, cmd = m.Update(key("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestResolverSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(twoConflicts), 0o600))

	m := newModel(t, path, twoConflicts)
	m = send(t, m, key("C"), key("w"))
	require.NoError(t, m.Err())
	require.False(t, m.Dirty())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, lines("top", "a1", "middle", "b1", "bottom"), string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	res := m.Result()
	require.Equal(t, ResolverResult{Path: path, Remaining: 0, Saved: true}, res)
}

func TestResolverSaveError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "f.txt")
	m := newModel(t, path, twoConflicts)

	m = send(t, m, key("w"))
	require.Error(t, m.Err())
	require.False(t, m.Result().Saved)
}

func TestResolverExternalChange(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	m = send(t, m, fileChangedMsg{text: "resolved\n"})
	require.Equal(t, 0, m.session.Len())
	require.False(t, m.Dirty())
	require.Contains(t, m.Status(), "Reloaded")
	require.Equal(t, 0, m.Cursor())

	m = newModel(t, "f.txt", twoConflicts)
	m = send(t, m, key("1"), fileChangedMsg{text: "resolved\n"})
	require.Equal(t, 1, m.session.Len())
	require.Contains(t, m.Status(), "r to reload")
}

func TestResolverReloadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte(twoConflicts), 0o644))

	m := newModel(t, path, twoConflicts)
	m = send(t, m, key("1"))
	require.True(t, m.Dirty())

	m = send(t, m, key("r"))
	require.False(t, m.Dirty())
	require.Equal(t, 2, m.session.Len())
}

func TestResolverPreview(t *testing.T) {
	m := newModel(t, "f.txt", twoConflicts)

	m = send(t, m, key("p"))
	require.True(t, m.Previewing())
	view := m.View()
	require.Contains(t, view, "- <<<<<<< HEAD")
	require.Contains(t, view, "+ a1")
	require.Contains(t, view, "Accept Current Change")

	m = send(t, m, key("2"))
	require.Contains(t, m.View(), "+ a2")
	require.Equal(t, twoConflicts, m.session.Document().Text())

	m = send(t, m, key("enter"))
	require.False(t, m.Previewing())
	require.True(t, strings.HasPrefix(m.session.Document().Text(), "top\na2\nmiddle\n"))

	m = send(t, m, key("p"), key("esc"))
	require.False(t, m.Previewing())
}

func TestLineStyles(t *testing.T) {
	session := editor.Open(document.New("f.txt", twoConflicts), nil)
	styles := lineStyles(session.Registry(), session.Document().LineStarts())

	require.Equal(t, lineStyle{}, styles[0])
	require.Equal(t, document.ScopeString, styles[1].fill)
	require.Equal(t, document.ScopeString, styles[2].outline)
	require.Equal(t, document.ScopeComment, styles[3].fill)
	require.Equal(t, document.ScopeParameter, styles[4].outline)
	require.Equal(t, document.ScopeParameter, styles[5].fill)
	require.Equal(t, "", styles[5].outline)
	require.Equal(t, lineStyle{}, styles[6])
}
