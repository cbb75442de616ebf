package git

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

func (repo *GitRepo) CurrentBranchName() (string, error) {
	out, err := repo.run("get current branch", "rev-parse", "--abbrev-ref", "HEAD")
	if err == nil {
		return strings.TrimSpace(out), nil
	}

	// Unborn branch: rev-parse has nothing to resolve yet.
	out, symErr := repo.run("get current branch", "symbolic-ref", "--short", "HEAD")
	if symErr != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (repo *GitRepo) ListBranches() ([]string, error) {
	out, err := repo.run("get branches", "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}

	var branches []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, scanner.Err()
}

func (repo *GitRepo) BranchExists(name string) (bool, error) {
	if name == "" || strings.HasPrefix(name, "-") {
		return false, nil
	}

	err := repo.command("rev-parse", "--verify", "--quiet", "refs/heads/"+name).Run()
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("check branch %s: %w", name, err)
}

// MergeBranchIntoCurrent merges a local branch. A merge that stops on
// conflicts returns an error wrapping ErrMergeConflict and leaves the work
// tree in the conflicted state for resolution.
func (repo *GitRepo) MergeBranchIntoCurrent(name string) error {
	exists, err := repo.BranchExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	}

	out, err := repo.run("merge", "merge", "--no-edit", name)
	if err == nil {
		return nil
	}
	if strings.Contains(out, "CONFLICT") || strings.Contains(err.Error(), "CONFLICT") {
		return fmt.Errorf("merging %s: %w", name, ErrMergeConflict)
	}
	return err
}

func (repo *GitRepo) AbortMerge() error {
	_, err := repo.run("abort merge", "merge", "--abort")
	return err
}
