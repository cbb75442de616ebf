package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/corpeningc/gitassist/internal/assistant"
	"github.com/corpeningc/gitassist/internal/config"
	"github.com/corpeningc/gitassist/internal/conflict"
	"github.com/corpeningc/gitassist/internal/git"
	"github.com/corpeningc/gitassist/internal/ignore"
	"github.com/corpeningc/gitassist/internal/logging"
	"github.com/corpeningc/gitassist/internal/resolver"
	"github.com/corpeningc/gitassist/internal/scan"
	"github.com/corpeningc/gitassist/internal/ui"
)

// session is everything one command invocation needs once the repository
// and config are known.
type session struct {
	ctx       context.Context
	repo      *git.GitRepo
	cfg       *config.Config
	assistant *assistant.Assistant
}

// prompts routes questions to huh forms on a terminal and to plain line
// prompts otherwise. Both share one reader for the whole invocation.
type prompts struct {
	lines       *ui.ConflictPrompter
	forms       ui.Forms
	interactive bool
}

func newPrompts(cmd *cobra.Command) *prompts {
	return &prompts{
		lines:       ui.NewConflictPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		interactive: stdinIsTerminal(cmd),
	}
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *prompts) Ask(question string) (string, error) {
	if p.interactive {
		return p.forms.Ask(question)
	}
	return p.lines.Ask(question)
}

func (p *prompts) flow() assistant.Prompter {
	if p.interactive {
		return p.forms
	}
	return p.lines
}

func newSession(cmd *cobra.Command, path string, p *prompts) (*session, error) {
	repo, err := git.Open(path)
	if err != nil {
		return nil, err
	}

	loaded, err := config.Load(config.LoadOptions{
		RepoDir:      repo.WorkDir,
		ExplicitPath: configFlag,
	})
	if err != nil {
		return nil, err
	}
	cfg := loaded.Config

	level := cfg.LogLevel
	if debugFlag {
		level = "debug"
	}
	logger := logging.New(level)
	if cfg.LogFile != "" {
		logger = logging.NewWithWriter(logging.FileWriter(cfg.LogFile), level)
	}
	logging.SetDefault(logger)
	ctx := logging.WithLogger(cmd.Context(), logger)

	for _, source := range loaded.LoadedFrom {
		logger.Debug("loaded config", logging.FieldConfig, source)
	}
	logger.Debug("opened repository", logging.FieldRepo, repo.WorkDir)

	patterns, err := scan.Compile(cfg.PatternSet())
	if err != nil {
		return nil, err
	}

	decisions, err := decisionSource(cfg.Strategy, p)
	if err != nil {
		return nil, err
	}

	return &session{
		ctx:  ctx,
		repo: repo,
		cfg:  cfg,
		assistant: &assistant.Assistant{
			Repo: repo,
			Root: repo.WorkDir,
			Scanner: &scan.Scanner{
				Root:        repo.WorkDir,
				Patterns:    patterns,
				Workers:     cfg.ScanWorkers,
				MaxFileSize: cfg.MaxFileSize,
			},
			Ignore: &ignore.Manager{
				Root:     repo.WorkDir,
				File:     cfg.IgnoreFile,
				Patterns: patterns,
			},
			Resolver:      resolver.New(decisions),
			Prompter:      p.flow(),
			Out:           cmd.OutOrStdout(),
			CommitMessage: cfg.CommitMessage,
		},
	}, nil
}

// decisionSource applies --strategy over the configured strategy. With
// neither set every block is put to the user.
func decisionSource(configured string, p *prompts) (resolver.DecisionSource, error) {
	strategy := configured
	if strategyFlag != "" {
		strategy = strategyFlag
	}
	if strategy == "" {
		return p.lines, nil
	}

	choice, err := conflict.ParseChoice(strategy)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}
	return resolver.Fixed(choice), nil
}
