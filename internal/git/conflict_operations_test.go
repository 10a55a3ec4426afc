package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNameList(t *testing.T) {
	got := parseNameList("src/b.go\n\nREADME.md\n  \na.txt\n")
	require.Equal(t, []string{"README.md", "a.txt", "src/b.go"}, got)
	require.Empty(t, parseNameList(""))
}

func TestDisplayNames(t *testing.T) {
	files := []string{"a/b/c.go", "d.txt"}

	require.Equal(t, []string{OpenAllLabel, "a/b/c.go", "d.txt"}, DisplayNames(files, false))
	require.Equal(t, []string{OpenAllLabel, "c.go", "d.txt"}, DisplayNames(files, true))
	require.Equal(t, []string{OpenAllLabel}, DisplayNames(nil, true))
}

func TestAbsPaths(t *testing.T) {
	got := AbsPaths("/repo", []string{"a/b.go"})
	require.Equal(t, []string{filepath.Join("/repo", "a", "b.go")}, got)
}

func TestExecutableAvailable(t *testing.T) {
	repo := New(t.TempDir())
	repo.Binary = "definitely-not-a-git-binary"

	require.ErrorIs(t, repo.ExecutableAvailable(), ErrGitNotFound)

	_, err := repo.ConflictedFiles(context.Background())
	require.ErrorIs(t, err, ErrGitNotFound)
}

func TestFileStatusIsUnmerged(t *testing.T) {
	require.True(t, FileStatus{Status: "UU"}.IsUnmerged())
	require.True(t, FileStatus{Status: "AA"}.IsUnmerged())
	require.False(t, FileStatus{Status: " M"}.IsUnmerged())
}

func gitCmd(t *testing.T, dir string, args ...string) error {
	t.Helper()
	base := []string{"-c", "user.name=cmt", "-c", "user.email=cmt@example.com", "-c", "commit.gpgsign=false"}
	cmd := exec.Command("git", append(base, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("git %v: %s", args, out)
	}
	return err
}

func conflictedRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	write := func(content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte(content), 0o644))
	}

	require.NoError(t, gitCmd(t, dir, "init", "-q"))
	write("base\n")
	require.NoError(t, gitCmd(t, dir, "add", "f.txt"))
	require.NoError(t, gitCmd(t, dir, "commit", "-q", "-m", "base"))
	require.NoError(t, gitCmd(t, dir, "checkout", "-q", "-b", "other"))
	write("theirs\n")
	require.NoError(t, gitCmd(t, dir, "commit", "-q", "-am", "theirs"))
	require.NoError(t, gitCmd(t, dir, "checkout", "-q", "-"))
	write("ours\n")
	require.NoError(t, gitCmd(t, dir, "commit", "-q", "-am", "ours"))
	require.Error(t, gitCmd(t, dir, "merge", "-q", "other"))
	return dir
}

func TestConflictedFilesInRepository(t *testing.T) {
	dir := conflictedRepo(t)
	ctx := context.Background()
	repo := New(dir)

	require.NoError(t, repo.ExecutableAvailable())

	root, err := repo.DetermineRepo(ctx)
	require.NoError(t, err)
	wantRoot, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	require.Equal(t, wantRoot, gotRoot)

	files, err := repo.ConflictedFiles(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"f.txt"}, files)

	statuses, err := repo.GetFileStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	require.True(t, statuses[0].IsUnmerged())

	content, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)
	require.Contains(t, string(content), "<<<<<<< ")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("ours\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch\n"), 0o644))

	staged, err := repo.StageResolved(ctx, []string{
		filepath.Join(dir, "f.txt"),
		filepath.Join(dir, "notes.txt"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "f.txt")}, staged)

	statuses, err = repo.GetFileStatuses(ctx)
	require.NoError(t, err)
	require.Contains(t, statuses, FileStatus{Path: "notes.txt", Status: "??"})

	files, err = repo.ConflictedFiles(ctx)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestDetermineRepoOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := New(dir).DetermineRepo(context.Background())
	require.ErrorIs(t, err, ErrNotRepository)
}
