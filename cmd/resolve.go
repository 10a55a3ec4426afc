package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/corpeningc/cmt/internal/git"
	"github.com/corpeningc/cmt/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List files with unresolved merge conflicts",
	Long:  "Lists the files git reports as unmerged. On a terminal a file can be picked and opened in the resolver",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve FILE...",
	Short: "Resolve conflicts interactively",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _, err := openRepo(cmd)
		if err != nil {
			logger.Debug("staging disabled", "error", err)
			repo = nil
		}
		return resolveFiles(cmd, repo, args)
	},
}

func init() {
	listCmd.Flags().Bool("plain", false, "print the list without prompting")
}

func runList(cmd *cobra.Command, args []string) error {
	repo, root, err := openRepo(cmd)
	if err != nil {
		return err
	}

	files, err := repo.ConflictedFiles(cmd.Context())
	if err != nil {
		return err
	}
	logger.Debug("listed conflicted files", "root", root, "count", len(files))

	if len(files) == 0 {
		fmt.Println("No conflicted files.")
		return nil
	}

	names := git.DisplayNames(files, settings.ShowOnlyFilenames)
	plain, _ := cmd.Flags().GetBool("plain")
	if plain || !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		for _, name := range names[1:] {
			fileColor.Println(name)
		}
		return nil
	}

	picked, err := ui.SelectConflictFile(names)
	if err != nil {
		return err
	}

	paths := git.AbsPaths(root, files)
	if picked > 0 {
		paths = paths[picked-1 : picked]
	}
	return resolveFiles(cmd, repo, paths)
}

// resolveFiles opens each path in the resolver in turn. When repo is set and
// a file was saved without conflicts, the user is offered to stage it.
func resolveFiles(cmd *cobra.Command, repo *git.GitRepo, paths []string) error {
	log, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	for _, path := range paths {
		res, err := ui.RunConflictResolver(path, settings, log)
		if err != nil {
			return err
		}

		if res.Remaining > 0 {
			fmt.Printf("%s: %d conflict(s) left\n", fileColor.Sprint(path), res.Remaining)
			continue
		}
		if !res.Saved || repo == nil {
			continue
		}

		stage, err := ui.ConfirmStage(path)
		if err != nil {
			return err
		}
		if !stage {
			continue
		}
		if err := stageFile(cmd, repo, path); err != nil {
			return err
		}
	}
	return nil
}

// stageFile stages path, given relative to the working directory, when git
// still reports it as unmerged.
func stageFile(cmd *cobra.Command, repo *git.GitRepo, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	staged, err := repo.StageResolved(cmd.Context(), []string{abs})
	if err != nil {
		return err
	}
	if len(staged) == 0 {
		fmt.Fprintf(os.Stderr, "Not staging %s: git does not report it as unmerged\n", path)
		return nil
	}
	fmt.Printf("Staged %s\n", fileColor.Sprint(path))
	return nil
}
