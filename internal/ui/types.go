package ui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// fileChangedMsg carries the new content of the open file after an
// external modification.
type fileChangedMsg struct {
	text string
	err  error
}

type watchClosedMsg struct{}

// waitForChange blocks until the watcher reports the open file changed. With
// live matching off there is no watcher and no command.
func (m ConflictResolverModel) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	path := m.path
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return watchClosedMsg{}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fileChangedMsg{err: err}
		}
		return fileChangedMsg{text: string(content)}
	}
}
