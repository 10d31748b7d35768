package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/LeonardoGonSantos/tracectl/internal/savedsearch"
)

// ErrNoSelection is returned when the picker is dismissed without a choice.
var ErrNoSelection = errors.New("no saved search selected")

type savedItem struct {
	search savedsearch.Search
}

func (s savedItem) Title() string { return s.search.Name + "  [" + s.search.Kind + "]" }

func (s savedItem) Description() string {
	if f := s.search.Filters(); f != "" {
		return f
	}
	return "no filters"
}

func (s savedItem) FilterValue() string { return s.search.Name }

type pickerModel struct {
	list     list.Model
	selected *savedsearch.Search
	quitting bool
}

func newPickerModel(searches []savedsearch.Search, theme Theme) pickerModel {
	items := make([]list.Item, len(searches))
	for i, s := range searches {
		items[i] = savedItem{search: s}
	}
	l := theme.NewList(items, 0, 0)
	l.Title = "Saved searches"
	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		// Let the filter input consume keys while it is open.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(savedItem); ok {
				s := item.search
				m.selected = &s
			}
			m.quitting = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// PickSavedSearch lets the user choose one of searches interactively.
func PickSavedSearch(searches []savedsearch.Search, theme Theme) (savedsearch.Search, error) {
	if len(searches) == 0 {
		return savedsearch.Search{}, savedsearch.ErrNotFound
	}
	result, err := tea.NewProgram(newPickerModel(searches, theme), tea.WithAltScreen()).Run()
	if err != nil {
		return savedsearch.Search{}, err
	}
	m := result.(pickerModel)
	if m.selected == nil {
		return savedsearch.Search{}, ErrNoSelection
	}
	return *m.selected, nil
}
