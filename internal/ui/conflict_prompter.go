package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"

	"github.com/corpeningc/gitassist/internal/conflict"
	"github.com/corpeningc/gitassist/internal/resolver"
)

// customTerminator ends a custom resolution typed at the prompt.
const customTerminator = "."

// ConflictPrompter asks a person at a terminal how to resolve each conflict
// block. It reads answers line by line, so it works the same over a pipe.
type ConflictPrompter struct {
	in  *bufio.Reader
	out io.Writer

	titleStyle  lipgloss.Style
	oursStyle   lipgloss.Style
	theirsStyle lipgloss.Style
	baseStyle   lipgloss.Style
	errorStyle  lipgloss.Style
	helpStyle   lipgloss.Style
}

func NewConflictPrompter(in io.Reader, out io.Writer) *ConflictPrompter {
	return &ConflictPrompter{
		in:  bufio.NewReader(in),
		out: out,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		oursStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),

		theirsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),

		baseStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// RequestDecision shows the block and waits for a choice. End of input
// aborts the whole file.
func (p *ConflictPrompter) RequestDecision(ctx context.Context, req resolver.Request) (conflict.Resolution, error) {
	p.showBlock(req)

	for {
		if err := ctx.Err(); err != nil {
			return conflict.Resolution{}, err
		}

		fmt.Fprint(p.out, p.helpStyle.Render("Choose which changes to keep: (o)urs, (t)heirs, (b)oth, (c)ustom, (d)iff: "))
		answer, err := p.readLine()
		if err != nil {
			return conflict.Resolution{}, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "o", "ours":
			return conflict.Ours(), nil
		case "t", "theirs":
			return conflict.Theirs(), nil
		case "b", "both":
			return conflict.Both(), nil
		case "c", "custom", "e", "edit":
			return p.readCustom(ctx)
		case "d", "diff":
			p.showDiff(req.Block)
		default:
			fmt.Fprintln(p.out, p.errorStyle.Render("Invalid choice. Please enter o, t, b, c or d."))
		}
	}
}

func (p *ConflictPrompter) showBlock(req resolver.Request) {
	block := req.Block

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.titleStyle.Render(fmt.Sprintf("Conflict %d of %d in %s", req.Index+1, req.Total, req.Path)))

	p.showSide(p.oursStyle, "Current changes", block.OursLabel, block.Ours)
	if len(block.Base) > 0 {
		p.showSide(p.baseStyle, "Common ancestor", "", block.Base)
	}
	p.showSide(p.theirsStyle, "Incoming changes", block.TheirsLabel, block.Theirs)
}

func (p *ConflictPrompter) showSide(style lipgloss.Style, title, label string, lines []string) {
	if label != "" {
		title = fmt.Sprintf("%s (%s)", title, label)
	}
	fmt.Fprintln(p.out, style.Render(">>> "+title+":"))

	if len(lines) == 0 {
		fmt.Fprintln(p.out, p.helpStyle.Render("    (no lines)"))
		return
	}
	for i, line := range lines {
		fmt.Fprintf(p.out, "Line %d: %s\n", i+1, strings.TrimRight(line, "\r\n"))
	}
}

// showDiff prints a unified diff from the current side to the incoming one.
func (p *ConflictPrompter) showDiff(block conflict.Block) {
	oursLabel, theirsLabel := block.OursLabel, block.TheirsLabel
	if oursLabel == "" {
		oursLabel = "ours"
	}
	if theirsLabel == "" {
		theirsLabel = "theirs"
	}

	diff := udiff.Unified(oursLabel, theirsLabel, strings.Join(block.Ours, ""), strings.Join(block.Theirs, ""))
	if diff == "" {
		fmt.Fprintln(p.out, p.helpStyle.Render("Both sides are identical."))
		return
	}

	for _, line := range strings.SplitAfter(diff, "\n") {
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			fmt.Fprintln(p.out, p.titleStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(p.out, p.theirsStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(p.out, p.oursStyle.Render(line))
		default:
			fmt.Fprintln(p.out, line)
		}
	}
}

// readCustom collects replacement lines until a line holding only ".".
func (p *ConflictPrompter) readCustom(ctx context.Context) (conflict.Resolution, error) {
	fmt.Fprintln(p.out, p.helpStyle.Render("Enter the resolved lines. Finish with a line containing only '.'"))

	var lines []string
	for {
		if err := ctx.Err(); err != nil {
			return conflict.Resolution{}, err
		}

		line, err := p.readLine()
		if err != nil {
			return conflict.Resolution{}, err
		}
		if strings.TrimSpace(line) == customTerminator {
			return conflict.Custom(lines), nil
		}
		lines = append(lines, line+"\n")
	}
}

// readLine returns the next line without its terminator. A final line with
// no newline is still returned; after that io.EOF becomes ErrAborted.
func (p *ConflictPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", fmt.Errorf("%w: end of input", resolver.ErrAborted)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
