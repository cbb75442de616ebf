package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// Forms asks yes/no and selection questions with huh. Accessible switches
// huh to plain line prompts, which is what we want when stdin is not a
// terminal.
type Forms struct {
	Accessible bool
}

func (f Forms) run(fields ...huh.Field) error {
	form := huh.NewForm(huh.NewGroup(fields...)).WithAccessible(f.Accessible)
	return form.Run()
}

func (f Forms) Confirm(question string) (bool, error) {
	var answer bool
	err := f.run(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&answer),
	)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return answer, err
}

// ChooseEntries lets the user deselect entries. Everything starts selected.
func (f Forms) ChooseEntries(title string, entries []string) ([]string, error) {
	var selected []string
	options := make([]huh.Option[string], 0, len(entries))
	for _, entry := range entries {
		options = append(options, huh.NewOption(entry, entry).Selected(true))
	}

	err := f.run(
		huh.NewMultiSelect[string]().
			Title(title).
			Options(options...).
			Value(&selected),
	)
	if errors.Is(err, huh.ErrUserAborted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return selected, nil
}

func (f Forms) ChooseBranch(title string, branches []string) (string, error) {
	var branch string
	err := f.run(
		huh.NewSelect[string]().
			Title(title).
			Options(huh.NewOptions(branches...)...).
			Value(&branch),
	)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", nil
	}
	return branch, err
}

// Ask asks for a single line of text.
func (f Forms) Ask(question string) (string, error) {
	var value string
	err := f.run(
		huh.NewInput().
			Title(question).
			Value(&value),
	)
	return strings.TrimSpace(value), err
}
