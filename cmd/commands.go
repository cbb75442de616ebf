package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/corpeningc/gitassist/internal/ui"
)

var (
	ignoreYes     bool
	resolveCommit bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [repo]",
	Short: "Report sensitive files and sensitive content",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, repoPathOrCwd(args), newPrompts(cmd))
		if err != nil {
			return err
		}

		report, err := s.assistant.Scan(s.ctx)
		if err != nil {
			return err
		}
		s.assistant.Report(s.ctx, report)
		return nil
	},
}

var ignoreCmd = &cobra.Command{
	Use:   "ignore [repo]",
	Short: "Suggest ignore-file entries for sensitive paths",
	Long: heredoc.Doc(`
		Walks the work tree and lists sensitive paths that the ignore file does
		not already cover, then offers to append them. Existing lines are never
		rewritten.
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, repoPathOrCwd(args), newPrompts(cmd))
		if err != nil {
			return err
		}
		return s.assistant.SuggestIgnores(s.ctx, ignoreYes)
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge <branch>",
	Short: "Merge a branch into the current branch and resolve conflicts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, repoPathOrCwd(nil), newPrompts(cmd))
		if err != nil {
			return err
		}

		summary, err := s.assistant.Merge(s.ctx, args[0])
		if err != nil {
			return err
		}
		return unresolvedError(summary.Failed())
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [files...]",
	Short: "Resolve conflict markers block by block",
	Long: heredoc.Doc(`
		Resolves the given files, or every file git reports as unmerged when
		none are given. Each file is written once, after all of its blocks
		have a decision, and resolved files are staged.

		With --commit the merge is committed once nothing is left unmerged.
		Use --strategy to apply the same choice to every block.
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, repoPathOrCwd(nil), newPrompts(cmd))
		if err != nil {
			return err
		}

		var paths []string
		for _, arg := range args {
			rel, err := relToRepo(s.repo.WorkDir, arg)
			if err != nil {
				return err
			}
			paths = append(paths, rel)
		}

		summary, err := s.assistant.ResolveConflicts(s.ctx, paths, resolveCommit)
		if err != nil {
			return err
		}
		return unresolvedError(summary.Failed())
	},
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Browse the conflict blocks of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !stdinIsTerminal(cmd) {
			return errors.New("show needs an interactive terminal")
		}
		return ui.ShowConflicts(args[0])
	},
}

func init() {
	ignoreCmd.Flags().BoolVarP(&ignoreYes, "yes", "y", false, "append every suggestion without asking")
	resolveCmd.Flags().BoolVar(&resolveCommit, "commit", false, "commit the merge when no conflicts remain")
}

func unresolvedError(failed int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d file(s) could not be resolved", failed)
}

// relToRepo turns a path given on the command line into a slash-separated
// path relative to root.
func relToRepo(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}
