// Package git wraps the git binary for the operations gitassist needs.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	ErrRepositoryInvalid = errors.New("not a valid git repository")
	ErrMergeConflict     = errors.New("merge conflict")
	ErrBranchNotFound    = errors.New("branch not found")
)

type GitRepo struct {
	WorkDir string
	// Env is appended to the process environment for every git invocation.
	Env []string
}

func formatCommandError(operation string, err error, stdout, stderr *bytes.Buffer) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w\nStdout: %s\nStderr: %s",
		operation, err, stdout.String(), stderr.String())
}

func New(workDir string) *GitRepo {
	return &GitRepo{WorkDir: workDir}
}

// Open validates that path is inside a git work tree and returns a repo
// rooted at the top level of that tree.
func Open(path string, env ...string) (*GitRepo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRepositoryInvalid, path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRepositoryInvalid, path)
	}

	repo := &GitRepo{WorkDir: path, Env: env}
	top, err := repo.output("rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRepositoryInvalid, path, err)
	}

	repo.WorkDir = filepath.FromSlash(strings.TrimSpace(top))
	return repo, nil
}

func (repo *GitRepo) command(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = repo.WorkDir
	if len(repo.Env) > 0 {
		cmd.Env = append(os.Environ(), repo.Env...)
	}
	return cmd
}

// run executes git and returns stdout. Failures carry both output streams.
func (repo *GitRepo) run(operation string, args ...string) (string, error) {
	cmd := repo.command(args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), formatCommandError(operation, err, &stdout, &stderr)
}

func (repo *GitRepo) output(args ...string) (string, error) {
	return repo.run(args[0], args...)
}

// Path joins a repository-relative path onto the work tree.
func (repo *GitRepo) Path(rel string) string {
	return filepath.Join(repo.WorkDir, filepath.FromSlash(rel))
}

func (repo *GitRepo) CommitStaged(message string) error {
	_, err := repo.run("commit", "commit", "-m", message)
	return err
}

func (repo *GitRepo) HasHead() bool {
	return repo.command("rev-parse", "--verify", "--quiet", "HEAD").Run() == nil
}

// ListTrackedFiles returns every path in the index plus paths staged
// against HEAD, deduplicated, in git's order.
func (repo *GitRepo) ListTrackedFiles() ([]string, error) {
	out, err := repo.run("ls-files", "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	files := splitNul(out)

	if repo.HasHead() {
		staged, err := repo.run("diff", "diff", "--cached", "--name-only", "-z", "HEAD")
		if err != nil {
			return nil, err
		}
		files = append(files, splitNul(staged)...)
	}

	return dedupe(files), nil
}

func splitNul(out string) []string {
	var paths []string
	for _, p := range strings.Split(out, "\x00") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
