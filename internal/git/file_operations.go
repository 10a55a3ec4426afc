package git

import (
	"bufio"
	"context"
	"path/filepath"
	"strings"
)

type FileStatus struct {
	Path   string
	Status string // two-letter porcelain code, e.g. UU, AA, DU
}

// IsUnmerged reports whether the porcelain code marks an unmerged path.
func (f FileStatus) IsUnmerged() bool {
	switch f.Status {
	case "DD", "AU", "UD", "UA", "DU", "AA", "UU":
		return true
	}
	return false
}

// AddFiles stages files, marking their conflicts as resolved.
func (repo *GitRepo) AddFiles(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, files...)
	_, err := repo.run(ctx, "add files", args...)
	return err
}

// GetFileStatuses lists the porcelain status of every changed path.
func (repo *GitRepo) GetFileStatuses(ctx context.Context) ([]FileStatus, error) {
	out, err := repo.run(ctx, "status", "status", "--porcelain=v1")
	if err != nil {
		return nil, err
	}

	var files []FileStatus
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}

		filePath := strings.TrimSpace(line[3:])

		// Git quotes filenames with special characters - remove the quotes
		if strings.HasPrefix(filePath, "\"") && strings.HasSuffix(filePath, "\"") {
			filePath = filePath[1 : len(filePath)-1]
		}

		files = append(files, FileStatus{Path: filePath, Status: line[:2]})
	}

	return files, scanner.Err()
}

// StageResolved stages those of paths that git still reports as unmerged and
// returns them. Other paths are left alone so a file that was never part of
// the merge is not added by accident.
func (repo *GitRepo) StageResolved(ctx context.Context, paths []string) ([]string, error) {
	root, err := repo.DetermineRepo(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := repo.GetFileStatuses(ctx)
	if err != nil {
		return nil, err
	}

	unmerged := make(map[string]bool)
	for _, st := range statuses {
		if st.IsUnmerged() {
			unmerged[st.Path] = true
		}
	}

	var staged []string
	for _, p := range paths {
		rel, err := relativeTo(root, p)
		if err != nil {
			return nil, err
		}
		if unmerged[rel] {
			staged = append(staged, p)
		}
	}
	if err := repo.AddFiles(ctx, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

// relativeTo returns p as a slash-separated path relative to root, the form
// git status prints.
func relativeTo(root, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
