package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// SelectConflictFile asks which entry of names to open. names is a listing
// from git.DisplayNames, so index 0 means every file.
func SelectConflictFile(names []string) (int, error) {
	var selected int
	options := make([]huh.Option[int], len(names))
	for i, name := range names {
		options[i] = huh.NewOption(name, i)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select a conflicted file:").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return 0, err
	}
	return selected, nil
}

// ConfirmStage asks whether a fully resolved file should be staged.
func ConfirmStage(path string) (bool, error) {
	stage := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("No conflicts left in %s. Stage it?", path)).
				Affirmative("Stage").
				Negative("Not now").
				Value(&stage),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}
	return stage, nil
}
