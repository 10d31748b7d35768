package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LeonardoGonSantos/tracectl/internal/savedsearch"
)

type answer int

const (
	pending answer = iota
	accepted
	declined
)

var (
	acceptKeys  = key.NewBinding(key.WithKeys("y", "Y"))
	declineKeys = key.NewBinding(key.WithKeys("n", "N", "enter", "esc", "q", "ctrl+c"))
)

// deletePrompt asks before a saved search is removed, showing what it
// would have run. The default answer is no.
type deletePrompt struct {
	search savedsearch.Search
	answer answer
	theme  Theme
}

func (m deletePrompt) Init() tea.Cmd { return nil }

func (m deletePrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, acceptKeys):
		m.answer = accepted
	case key.Matches(keyMsg, declineKeys):
		m.answer = declined
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m deletePrompt) View() string {
	if m.answer != pending {
		return ""
	}
	filters := m.search.Filters()
	if filters == "" {
		filters = "no filters"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		m.theme.HeaderStyle().Render("Delete saved search "+m.search.Name+"?"),
		m.theme.LabelStyle().Render("["+m.search.Kind+"]"))
	fmt.Fprintf(&b, "  %s\n", m.theme.HelpStyle().Render(filters))
	b.WriteString(m.theme.DangerStyle().Render("[y/N]") + " ")
	return b.String()
}

// ConfirmDelete shows s and asks whether to delete it. Anything but "y" is
// a no.
func ConfirmDelete(s savedsearch.Search, theme Theme) (bool, error) {
	result, err := tea.NewProgram(deletePrompt{search: s, theme: theme}).Run()
	if err != nil {
		return false, err
	}
	return result.(deletePrompt).answer == accepted, nil
}
