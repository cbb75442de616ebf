package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/corpeningc/gitassist/internal/git"
	"github.com/corpeningc/gitassist/internal/logging"
)

const historyFileName = ".gitassist_history"

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive gitassist shell",
	Long:  "Launch an interactive shell for running gitassist commands without repeating the 'gitassist' prefix",
	Args:  cobra.NoArgs,
}

// RunE is assigned in init to break the initialization cycle between
// shellCmd and executeCommand, which refers back to shellCmd.
func init() {
	shellCmd.RunE = func(cmd *cobra.Command, args []string) error {
		runInteractiveShell(cmd.OutOrStdout(), cmd.ErrOrStderr())
		return nil
	}
}

func runInteractiveShell(out, errOut io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	historyFile := getHistoryFilePath()
	if f, err := os.Open(historyFile); err == nil {
		if _, err := line.ReadHistory(f); err != nil {
			logging.Default().Debug("could not read shell history", logging.FieldPath, historyFile, logging.FieldError, err)
		}
		f.Close()
	}

	line.SetCompleter(func(input string) (c []string) {
		for _, name := range getCommandNames() {
			if strings.HasPrefix(name, strings.ToLower(input)) {
				c = append(c, name)
			}
		}
		return
	})

	// Flag values chosen when the shell started apply to every command.
	base := snapshotFlags()

	fmt.Fprintln(out, "gitassist interactive shell. Type 'exit' or press Ctrl+D to quit.")
	fmt.Fprintln(out, "Type 'help' to see available commands.")

	for {
		input, err := line.Prompt(shellPrompt())
		if err != nil {
			// Ctrl+D or Ctrl+C
			fmt.Fprintln(out)
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if done := handleSpecialCommand(out, input); done {
			break
		}
		if strings.EqualFold(input, "help") {
			_ = rootCmd.Help()
			continue
		}

		executeCommand(errOut, input)
		base.restore()
	}

	if f, err := os.Create(historyFile); err == nil {
		if _, err := line.WriteHistory(f); err != nil {
			logging.Default().Debug("could not write shell history", logging.FieldPath, historyFile, logging.FieldError, err)
		}
		f.Close()
	}
}

func shellPrompt() string {
	branch := "unknown"
	if repo, err := git.Open(repoPathOrCwd(nil)); err == nil {
		if name, err := repo.CurrentBranchName(); err == nil {
			branch = name
		}
	}
	return fmt.Sprintf("[%s]> ", branch)
}

// handleSpecialCommand deals with shell-only commands and reports whether
// the shell should exit.
func handleSpecialCommand(out io.Writer, input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		fmt.Fprintln(out, "Goodbye!")
		return true
	case "clear", "cls":
		fmt.Fprint(out, "\033[H\033[2J")
	}
	return false
}

func executeCommand(errOut io.Writer, input string) {
	parts := parseCommandLine(input)
	if len(parts) == 0 {
		return
	}
	if parts[0] == shellCmd.Name() {
		fmt.Fprintln(errOut, "Error: already in the gitassist shell")
		return
	}

	rootCmd.SetArgs(parts)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	rootCmd.SetArgs([]string{})
}

func parseCommandLine(input string) []string {
	// Split on spaces, keeping quoted sections together.
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, char := range input {
		switch {
		case (char == '"' || char == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = char
		case char == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case (char == ' ' || char == '\t') && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func getCommandNames() []string {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == shellCmd.Name() || cmd.Hidden {
			continue
		}
		names = append(names, cmd.Name())
	}
	return names
}

func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return historyFileName
	}
	return filepath.Join(homeDir, historyFileName)
}

type flagState struct {
	flag    *pflag.Flag
	value   string
	changed bool
}

type flagSnapshot []flagState

// snapshotFlags records every flag in the command tree so a shell command
// cannot leak its flags into the next one.
func snapshotFlags() flagSnapshot {
	var snap flagSnapshot
	record := func(f *pflag.Flag) {
		snap = append(snap, flagState{flag: f, value: f.Value.String(), changed: f.Changed})
	}

	rootCmd.PersistentFlags().VisitAll(record)
	for _, cmd := range rootCmd.Commands() {
		cmd.LocalNonPersistentFlags().VisitAll(record)
	}
	return snap
}

func (s flagSnapshot) restore() {
	for _, st := range s {
		_ = st.flag.Value.Set(st.value)
		st.flag.Changed = st.changed
	}
}
