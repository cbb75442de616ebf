package git

// ListConflictedFiles returns repository-relative paths that git still
// considers unmerged.
func (repo *GitRepo) ListConflictedFiles() ([]string, error) {
	out, err := repo.run("list conflicted files", "diff", "--name-only", "--diff-filter=U", "-z")
	if err != nil {
		return nil, err
	}
	return dedupe(splitNul(out)), nil
}
