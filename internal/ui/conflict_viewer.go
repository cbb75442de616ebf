package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/corpeningc/gitassist/internal/conflict"
)

// ConflictViewerModel is a read-only pager over one file that highlights
// its conflict blocks. n and p jump between blocks.
type ConflictViewerModel struct {
	filePath string
	doc      *conflict.Document
	viewport viewport.Model
	ready    bool
	err      error

	// offsets holds the rendered line of each block's start marker.
	offsets []int
	current int

	titleStyle   lipgloss.Style
	oursStyle    lipgloss.Style
	theirsStyle  lipgloss.Style
	baseStyle    lipgloss.Style
	markerStyle  lipgloss.Style
	contextStyle lipgloss.Style
	gutterStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	helpStyle    lipgloss.Style
}

type conflictsLoadedMsg struct {
	doc *conflict.Document
	err error
}

func NewConflictViewerModel(filePath string) ConflictViewerModel {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()

	return ConflictViewerModel{
		filePath: filePath,
		viewport: vp,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		oursStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),

		theirsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),

		baseStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")),

		markerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		gutterStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

func (m ConflictViewerModel) Init() tea.Cmd {
	return m.loadConflicts()
}

func (m ConflictViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 3 // title, status and help
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.refresh()

	case conflictsLoadedMsg:
		m.doc = msg.doc
		m.err = msg.err
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "n":
			m.jump(1)

		case "p", "N":
			m.jump(-1)

		case "j", "down":
			m.viewport.LineDown(1)

		case "k", "up":
			m.viewport.LineUp(1)

		case "d", "ctrl+d":
			m.viewport.HalfViewDown()

		case "u", "ctrl+u":
			m.viewport.HalfViewUp()

		case "f", "pgdn":
			m.viewport.ViewDown()

		case "b", "pgup":
			m.viewport.ViewUp()

		case "g", "home":
			m.viewport.GotoTop()

		case "G", "end":
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ConflictViewerModel) refresh() {
	if !m.ready || m.err != nil || m.doc == nil {
		return
	}
	content, offsets := m.format(m.doc)
	m.offsets = offsets
	m.viewport.SetContent(content)
}

func (m *ConflictViewerModel) jump(delta int) {
	if len(m.offsets) == 0 {
		return
	}
	m.current = (m.current + delta + len(m.offsets)) % len(m.offsets)
	m.viewport.SetYOffset(m.offsets[m.current])
}

func (m ConflictViewerModel) View() string {
	title := m.titleStyle.Render("Conflicts - " + m.filePath)

	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			m.errorStyle.Render("Error loading file: "+m.err.Error()),
			"",
			m.helpStyle.Render("q: quit"),
		)
	}

	if !m.ready || m.doc == nil {
		return "Loading conflicts..."
	}

	status := m.helpStyle.Render("No conflict blocks in this file.")
	if n := len(m.offsets); n > 0 {
		status = m.helpStyle.Render(fmt.Sprintf("Block %d of %d", m.current+1, n))
	}
	help := m.helpStyle.Render("n/p: next/prev block | j/k: line | d/u: half page | f/b: page | g/G: top/bottom | q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, status, m.viewport.View(), help)
}

func (m ConflictViewerModel) loadConflicts() tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(m.filePath)
		if err != nil {
			return conflictsLoadedMsg{err: err}
		}
		doc, err := conflict.ParseBytes(content)
		return conflictsLoadedMsg{doc: doc, err: err}
	}
}

// format renders doc with source line numbers and returns the rendered
// line index of every block's start marker.
func (m ConflictViewerModel) format(doc *conflict.Document) (string, []int) {
	var (
		out     []string
		offsets []int
		lineNo  int
	)

	emit := func(style lipgloss.Style, text string) {
		lineNo++
		gutter := m.gutterStyle.Render(fmt.Sprintf("%5d │ ", lineNo))
		out = append(out, gutter+style.Render(strings.TrimRight(text, "\r\n")))
	}
	emitAll := func(style lipgloss.Style, lines []string) {
		for _, line := range lines {
			emit(style, line)
		}
	}

	for _, seg := range doc.Segments {
		if seg.Kind != conflict.Conflict {
			emitAll(m.contextStyle, seg.Lines)
			continue
		}

		block := seg.Block
		offsets = append(offsets, len(out))
		lineNo = block.Start

		emit(m.markerStyle, strings.TrimSpace(conflict.StartMarker+" "+block.OursLabel))
		emitAll(m.oursStyle, block.Ours)
		if len(block.Base) > 0 {
			emit(m.markerStyle, conflict.BaseMarker)
			emitAll(m.baseStyle, block.Base)
		}
		emit(m.markerStyle, conflict.MidMarker)
		emitAll(m.theirsStyle, block.Theirs)

		lineNo = block.End
		emit(m.markerStyle, strings.TrimSpace(conflict.EndMarker+" "+block.TheirsLabel))
	}

	return strings.Join(out, "\n"), offsets
}

// ShowConflicts opens the viewer for filePath in the alternate screen.
func ShowConflicts(filePath string) error {
	m := NewConflictViewerModel(filePath)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
