package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// DefaultMaxWidth caps the pager width on wide terminals.
const DefaultMaxWidth = 120

type pagerModel struct {
	viewport viewport.Model
	content  string
	title    string
	theme    Theme
	ready    bool
	maxWidth int // 0 = no limit
	width    int
	height   int
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title + footer
		h := max(msg.Height-2, 1)
		if !m.ready {
			m.viewport = viewport.New(m.contentWidth(), h)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = m.contentWidth()
			m.viewport.Height = h
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) contentWidth() int {
	if m.maxWidth > 0 && m.width > m.maxWidth {
		return m.maxWidth
	}
	return m.width
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := m.theme.HeaderStyle().Render(m.title)
	footer := m.theme.HelpStyle().Render(
		fmt.Sprintf("%3.f%% • ↑/↓ scroll • q quit", m.viewport.ScrollPercent()*100),
	)
	return header + "\n" + m.viewport.View() + "\n" + footer
}

// PageOutput displays content through a Bubble Tea pager when stdout is a
// TTY and the content does not fit. Otherwise it writes directly to stdout.
func PageOutput(title, content string, theme Theme) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Print(content)
		return nil
	}
	_, height, err := term.GetSize(fd)
	if err != nil || strings.Count(content, "\n")+1 <= height-2 {
		fmt.Print(content)
		return nil
	}

	m := pagerModel{content: content, title: title, theme: theme, maxWidth: DefaultMaxWidth}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// OutputOrPage writes content to w, paging it when w is the terminal.
// JSON output is never paged.
func OutputOrPage(w io.Writer, title, content string, jsonOutput bool, theme Theme) error {
	if !jsonOutput && w == os.Stdout {
		return PageOutput(title, content, theme)
	}
	_, err := fmt.Fprint(w, content)
	return err
}
