package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corpeningc/gitassist/internal/resolver"
)

// The methods below let a ConflictPrompter answer every question of the
// interactive flow from one reader, for when stdin is not a terminal.
// End of input counts as "no".

func (p *ConflictPrompter) Confirm(question string) (bool, error) {
	fmt.Fprint(p.out, p.helpStyle.Render(question+" (y/n): "))
	answer, err := p.readLine()
	if errors.Is(err, resolver.ErrAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ChooseEntries is all or nothing in line mode.
func (p *ConflictPrompter) ChooseEntries(title string, entries []string) ([]string, error) {
	ok, err := p.Confirm(title)
	if err != nil || !ok {
		return nil, err
	}
	return entries, nil
}

func (p *ConflictPrompter) ChooseBranch(title string, branches []string) (string, error) {
	fmt.Fprintln(p.out, p.titleStyle.Render(title))
	for _, b := range branches {
		fmt.Fprintf(p.out, " - %s\n", b)
	}

	for {
		name, err := p.Ask("Enter the name of the branch to merge")
		if err != nil || name == "" {
			return "", err
		}
		for _, b := range branches {
			if b == name {
				return name, nil
			}
		}
		fmt.Fprintln(p.out, p.errorStyle.Render(fmt.Sprintf("Unknown branch %q.", name)))
	}
}

// Ask reads one trimmed line. End of input yields an empty answer.
func (p *ConflictPrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, p.helpStyle.Render(question+": "))
	answer, err := p.readLine()
	if errors.Is(err, resolver.ErrAborted) {
		return "", nil
	}
	return strings.TrimSpace(answer), err
}
