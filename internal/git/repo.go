package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var (
	// ErrGitNotFound indicates the git executable could not be located.
	ErrGitNotFound = errors.New("git executable not found")

	// ErrNotRepository indicates the working directory is not inside a git
	// repository.
	ErrNotRepository = errors.New("not a git repository")
)

type GitRepo struct {
	WorkDir string
	Binary  string
}

func formatCommandError(operation string, err error, stdout, stderr bytes.Buffer) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w\nStdout: %s\nStderr: %s",
		operation, err, stdout.String(), stderr.String())
}

func New(workDir string) *GitRepo {
	return &GitRepo{WorkDir: workDir, Binary: "git"}
}

func (repo *GitRepo) binary() string {
	if repo.Binary == "" {
		return "git"
	}
	return repo.Binary
}

// ExecutableAvailable reports ErrGitNotFound when the configured git binary
// cannot be found on PATH.
func (repo *GitRepo) ExecutableAvailable() error {
	if _, err := exec.LookPath(repo.binary()); err != nil {
		return fmt.Errorf("%s: %w", repo.binary(), ErrGitNotFound)
	}
	return nil
}

func (repo *GitRepo) run(ctx context.Context, operation string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, repo.binary(), args...)
	cmd.Dir = repo.WorkDir
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", repo.binary(), ErrGitNotFound)
		}
		return "", formatCommandError(operation, err, stdout, stderr)
	}
	return stdout.String(), nil
}

// DetermineRepo returns the top-level directory of the repository holding
// WorkDir.
func (repo *GitRepo) DetermineRepo(ctx context.Context) (string, error) {
	out, err := repo.run(ctx, "rev-parse", "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, ErrGitNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%s: %w", repo.WorkDir, ErrNotRepository)
	}
	return strings.TrimSpace(out), nil
}

func (repo *GitRepo) GetCurrentBranch(ctx context.Context) (string, error) {
	out, err := repo.run(ctx, "get current branch", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimSpace(out), nil
}
