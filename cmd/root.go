package cmd

import (
	"context"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/corpeningc/gitassist/internal/logging"
)

var (
	repoFlag     string
	configFlag   string
	debugFlag    bool
	strategyFlag string
)

var rootCmd = &cobra.Command{
	Use:   "gitassist [repo]",
	Short: "Scan a repository for secrets and resolve merge conflicts",
	Long: heredoc.Doc(`
		gitassist walks a git repository looking for files that should not be
		committed (keys, certificates, env files) and for content that looks
		like credentials. It can append the offending paths to .gitignore,
		merge another branch and walk you through every conflict block.

		Run without a subcommand for the full guided session.
	`),
	Example: heredoc.Doc(`
		gitassist ~/src/project
		gitassist scan -C ~/src/project
		gitassist merge feature/login
		gitassist resolve --strategy theirs --commit
	`),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			logging.SetLevel("debug")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrompts(cmd)
		path := repoPath(args)
		if path == "" {
			asked, err := p.Ask("Enter the path to the Git repository")
			if err != nil {
				return err
			}
			path = asked
		}
		if path == "" {
			path = "."
		}

		s, err := newSession(cmd, path, p)
		if err != nil {
			return err
		}
		return s.assistant.Run(s.ctx)
	},
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&repoFlag, "repo", "C", "", "path to the git repository (default: current directory)")
	flags.StringVar(&configFlag, "config", "", "config file to use instead of <repo>/.gitassist.yaml")
	flags.BoolVar(&debugFlag, "debug", false, "enable debug logging")
	flags.StringVar(&strategyFlag, "strategy", "", "resolve every conflict block without asking: ours, theirs or both")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(ignoreCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(shellCmd)
}

// repoPath picks the repository from a positional argument, then --repo.
// An empty result means none was given.
func repoPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return repoFlag
}

func repoPathOrCwd(args []string) string {
	if path := repoPath(args); path != "" {
		return path
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
