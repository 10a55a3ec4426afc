package git

import (
	"context"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// OpenAllLabel is the first entry of a conflicted-file listing.
const OpenAllLabel = "Open all conflicted files"

// ConflictedFiles returns the sorted repository-relative paths that git
// reports as unmerged. It runs a subprocess and may block; keep it off any
// interactive loop.
func (repo *GitRepo) ConflictedFiles(ctx context.Context) ([]string, error) {
	out, err := repo.run(ctx, "list conflicted files", "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	return parseNameList(out), nil
}

func parseNameList(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	sort.Strings(files)
	return files
}

// AbsPaths joins repository-relative paths onto the repository root.
func AbsPaths(root string, files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Join(root, filepath.FromSlash(f))
	}
	return out
}

// DisplayNames returns the labels for a file listing: an "open all" entry
// followed by one entry per file, either the path as given or its base name.
func DisplayNames(files []string, onlyFilenames bool) []string {
	names := make([]string, 0, len(files)+1)
	names = append(names, OpenAllLabel)
	for _, f := range files {
		if onlyFilenames {
			f = path.Base(f)
		}
		names = append(names, f)
	}
	return names
}
