// Package assistant ties scanning, ignore suggestions, merging and conflict
// resolution into the interactive gitassist flow.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/corpeningc/gitassist/internal/git"
	"github.com/corpeningc/gitassist/internal/ignore"
	"github.com/corpeningc/gitassist/internal/logging"
	"github.com/corpeningc/gitassist/internal/resolver"
	"github.com/corpeningc/gitassist/internal/scan"
)

// Repository is the version-control collaborator.
type Repository interface {
	CurrentBranchName() (string, error)
	ListBranches() ([]string, error)
	ListTrackedFiles() ([]string, error)
	MergeBranchIntoCurrent(name string) error
	ListConflictedFiles() ([]string, error)
	StageFiles(paths []string) error
	CommitStaged(message string) error
	AbortMerge() error
}

// Prompter asks the user yes/no and selection questions outside of
// per-block conflict decisions.
type Prompter interface {
	Confirm(question string) (bool, error)
	ChooseEntries(title string, entries []string) ([]string, error)
	ChooseBranch(title string, branches []string) (string, error)
}

type Assistant struct {
	Repo          Repository
	Root          string
	Scanner       *scan.Scanner
	Ignore        *ignore.Manager
	Resolver      *resolver.Resolver
	Prompter      Prompter
	Out           io.Writer
	CommitMessage string
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (a *Assistant) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func (a *Assistant) printList(title string, items []string) {
	a.printf("%s\n", titleStyle.Render(title))
	for _, item := range items {
		a.printf(" - %s\n", itemStyle.Render(item))
	}
}

// Run is the whole interactive session.
func (a *Assistant) Run(ctx context.Context) error {
	report, err := a.Scan(ctx)
	if err != nil {
		return err
	}
	a.Report(ctx, report)

	if err := a.SuggestIgnores(ctx, false); err != nil {
		return err
	}

	merge, err := a.Prompter.Confirm("Do you want to merge a branch into the current branch?")
	if err != nil {
		return err
	}
	if !merge {
		a.printf("Merge operation skipped.\n")
		return nil
	}

	branch, err := a.chooseMergeBranch()
	if err != nil {
		return err
	}
	if branch == "" {
		a.printf("Merge operation skipped.\n")
		return nil
	}

	_, err = a.Merge(ctx, branch)
	return err
}

// Report prints the scan findings together with the current branch.
func (a *Assistant) Report(ctx context.Context, report *scan.Report) {
	if len(report.SensitiveFiles) > 0 {
		a.printList("Sensitive files detected:", report.SensitiveFiles)
	} else {
		a.printf("No sensitive files detected.\n")
	}

	if branch, err := a.Repo.CurrentBranchName(); err == nil {
		a.printf("Current active branch: %s\n", branch)
	} else {
		logging.FromContext(ctx).Warn("could not determine current branch", logging.FieldError, err)
	}

	if len(report.SensitiveData) > 0 {
		a.printList("Files containing sensitive data detected:", report.SensitiveData)
	} else {
		a.printf("No sensitive data detected in files.\n")
	}
}

// Scan checks the repository's tracked files.
func (a *Assistant) Scan(ctx context.Context) (*scan.Report, error) {
	files, err := a.Repo.ListTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("list tracked files: %w", err)
	}
	a.printf("Scanning repository at %s...\n\n", a.Root)

	report, err := a.Scanner.Scan(ctx, files)
	if err != nil {
		return nil, err
	}
	for _, fe := range report.Errors {
		a.printf("%s\n", warningStyle.Render("Could not read file "+fe.Error()))
	}
	return report, nil
}

// SuggestIgnores offers to append unlisted sensitive paths to the ignore
// file. With assumeYes every suggestion is appended without asking.
func (a *Assistant) SuggestIgnores(ctx context.Context, assumeYes bool) error {
	suggestions, err := a.Ignore.Suggest(ctx)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		a.printf("No new entries to add to %s.\n", a.Ignore.File)
		return nil
	}

	a.printf("\n")
	a.printList(fmt.Sprintf("The following files are suggested to be added to %s:", a.Ignore.File), suggestions)

	chosen := suggestions
	if !assumeYes {
		chosen, err = a.Prompter.ChooseEntries(fmt.Sprintf("Add these entries to %s?", a.Ignore.File), suggestions)
		if err != nil {
			return err
		}
	}
	if len(chosen) == 0 {
		a.printf("No changes made to %s.\n", a.Ignore.File)
		return nil
	}

	written, err := a.Ignore.Append(chosen)
	if err != nil {
		return err
	}
	a.printf("%s\n", successStyle.Render(fmt.Sprintf("Updated %s with %d entries.", a.Ignore.File, len(written))))
	return nil
}

func (a *Assistant) chooseMergeBranch() (string, error) {
	branches, err := a.Repo.ListBranches()
	if err != nil {
		return "", err
	}
	current, err := a.Repo.CurrentBranchName()
	if err == nil {
		branches = slices.DeleteFunc(branches, func(b string) bool { return b == current })
	}
	if len(branches) == 0 {
		a.printf("No other branches to merge.\n")
		return "", nil
	}
	return a.Prompter.ChooseBranch("Select the branch to merge", branches)
}

// Merge merges branch into the current branch and, on conflict, runs the
// resolver over every conflicted file. A missing branch is reported and
// returned; a merge conflict is not an error.
func (a *Assistant) Merge(ctx context.Context, branch string) (*Summary, error) {
	current, err := a.Repo.CurrentBranchName()
	if err != nil {
		return nil, err
	}
	a.printf("Attempting to merge '%s' into '%s'...\n\n", branch, current)

	err = a.Repo.MergeBranchIntoCurrent(branch)
	switch {
	case err == nil:
		a.printf("%s\n", successStyle.Render(fmt.Sprintf("Branch '%s' merged successfully into '%s'.", branch, current)))
		return &Summary{}, nil
	case errors.Is(err, git.ErrMergeConflict):
		a.printf("%s\n", warningStyle.Render("Merge conflict detected."))
		return a.ResolveConflicts(ctx, nil, true)
	default:
		return nil, err
	}
}
