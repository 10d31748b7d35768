package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/LeonardoGonSantos/tracectl/internal/config"
	"github.com/LeonardoGonSantos/tracectl/internal/savedsearch"
)

func testSearches() []savedsearch.Search {
	return []savedsearch.Search{
		{Name: "client-errors", Kind: savedsearch.KindLogs, ClientID: "12345", Severity: "Error"},
		{Name: "slow-transfers", Kind: savedsearch.KindTraces, Operation: "TransferFunds", Period: "hoje"},
		{Name: "support-ticket", Kind: savedsearch.KindFlow, CorrelationID: "corr-42"},
	}
}

func sizedPicker(t *testing.T) pickerModel {
	t.Helper()
	m := newPickerModel(testSearches(), ResolveTheme(config.ThemeConfig{}))
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return sized.(pickerModel)
}

func TestPickerSelectsWithEnter(t *testing.T) {
	m := sizedPicker(t)

	moved, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = moved.(pickerModel)
	done, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = done.(pickerModel)

	if m.selected == nil || m.selected.Name != "slow-transfers" {
		t.Fatalf("selected = %+v", m.selected)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty once quitting")
	}
}

func TestPickerCancel(t *testing.T) {
	m := sizedPicker(t)
	done, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if done.(pickerModel).selected != nil {
		t.Error("esc should not select")
	}
}

func TestPickerViewListsSearches(t *testing.T) {
	out := stripANSI(sizedPicker(t).View())
	for _, want := range []string{"Saved searches", "client-errors", "[logs]", `severity="Error"`} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestSavedItem(t *testing.T) {
	item := savedItem{search: savedsearch.Search{Name: "bare", Kind: savedsearch.KindTraces}}
	if item.Title() != "bare  [traces]" {
		t.Errorf("Title() = %q", item.Title())
	}
	if item.Description() != "no filters" {
		t.Errorf("Description() = %q", item.Description())
	}
	if item.FilterValue() != "bare" {
		t.Errorf("FilterValue() = %q", item.FilterValue())
	}
}

func TestPickSavedSearchEmpty(t *testing.T) {
	if _, err := PickSavedSearch(nil, Theme{}); err != savedsearch.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
