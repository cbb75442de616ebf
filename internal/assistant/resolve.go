package assistant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/corpeningc/gitassist/internal/logging"
	"github.com/corpeningc/gitassist/internal/resolver"
)

// Summary reports a resolution pass over the conflicted files.
type Summary struct {
	Results   []resolver.Result
	Staged    []string
	Remaining []string
	Committed bool
	Aborted   bool
}

// Failed counts files that could not be resolved.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == resolver.PartiallyFailed || r.Outcome == resolver.IOError {
			n++
		}
	}
	return n
}

// ResolveConflicts resolves paths (repo-relative) or, when paths is nil,
// every file git reports as unmerged. Resolved files are staged. When commit
// is set and nothing is left unmerged the merge is committed; otherwise the
// user is told what remains.
func (a *Assistant) ResolveConflicts(ctx context.Context, paths []string, commit bool) (*Summary, error) {
	logger := logging.FromContext(ctx)

	if paths == nil {
		conflicted, err := a.Repo.ListConflictedFiles()
		if err != nil {
			return nil, fmt.Errorf("list conflicted files: %w", err)
		}
		paths = conflicted
	}

	summary := &Summary{}
	if len(paths) == 0 {
		a.printf("No conflicted files found.\n")
		return summary, nil
	}

	a.printList("Conflicts detected in the following files:", paths)
	a.printf("\n")

	for _, rel := range paths {
		result := a.resolveOne(ctx, rel)
		summary.Results = append(summary.Results, result)

		switch result.Outcome {
		case resolver.Resolved:
			summary.Staged = append(summary.Staged, rel)
			a.printf("%s\n", successStyle.Render(fmt.Sprintf("Conflicts in %s resolved.", rel)))
		case resolver.NoConflicts:
			a.printf("No conflict markers in %s.\n", rel)
		default:
			a.printf("%s\n", warningStyle.Render(fmt.Sprintf("Could not resolve %s: %v", rel, result.Err)))
		}
	}

	if len(summary.Staged) > 0 {
		if err := a.Repo.StageFiles(summary.Staged); err != nil {
			return summary, fmt.Errorf("stage resolved files: %w", err)
		}
		logger.Debug("staged resolved files", logging.FieldFiles, summary.Staged)
	}

	if !commit {
		return summary, nil
	}

	remaining, err := a.Repo.ListConflictedFiles()
	if err != nil {
		return summary, fmt.Errorf("list conflicted files: %w", err)
	}
	summary.Remaining = remaining

	if len(remaining) > 0 {
		a.printf("\n")
		a.printList("Merge not committed; these files still have conflicts:", remaining)
		if len(summary.Staged) == 0 {
			return summary, a.offerAbort(summary)
		}
		return summary, nil
	}

	if err := a.Repo.CommitStaged(a.CommitMessage); err != nil {
		return summary, fmt.Errorf("commit merge: %w", err)
	}
	summary.Committed = true
	a.printf("%s\n", successStyle.Render("All conflicts resolved and merge committed."))
	return summary, nil
}

func (a *Assistant) resolveOne(ctx context.Context, rel string) resolver.Result {
	full := filepath.Join(a.Root, filepath.FromSlash(rel))

	info, err := os.Stat(full)
	if err != nil {
		return resolver.Result{Path: full, Outcome: resolver.IOError, Err: err}
	}
	if !info.Mode().IsRegular() {
		return resolver.Result{Path: full, Outcome: resolver.IOError, Err: fmt.Errorf("%s is not a regular file", rel)}
	}
	return a.Resolver.ResolveFile(ctx, full)
}

func (a *Assistant) offerAbort(summary *Summary) error {
	abort, err := a.Prompter.Confirm("Abort the merge and restore the pre-merge state?")
	if err != nil || !abort {
		return err
	}
	if err := a.Repo.AbortMerge(); err != nil {
		return err
	}
	summary.Aborted = true
	a.printf("Merge aborted.\n")
	return nil
}
