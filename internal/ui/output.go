package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/LeonardoGonSantos/tracectl/internal/period"
	"github.com/LeonardoGonSantos/tracectl/internal/savedsearch"
)

// FormatJSON writes any value as JSON to the writer.
func FormatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// HighlightReport colors a plain-text search report for the terminal.
// Structure is preserved line for line; only styling is added.
func HighlightReport(report string, theme Theme) string {
	lines := strings.Split(report, "\n")
	for i, line := range lines {
		lines[i] = highlightLine(line, theme)
	}
	return strings.Join(lines, "\n")
}

func highlightLine(line string, theme Theme) string {
	switch {
	case line == "":
		return line
	case strings.HasPrefix(line, "Total "), strings.HasPrefix(line, "=== "):
		return theme.HeaderStyle().Render(line)
	case strings.HasPrefix(line, "--- "):
		return theme.HeaderStyle().Faint(true).Render(line)
	case strings.HasPrefix(line, "... and "), line == "No results found.":
		return theme.HelpStyle().Render(line)
	}

	label, value, ok := strings.Cut(line, ": ")
	if !ok || strings.Contains(label, " ") {
		return line
	}
	if label == "Severity" && isAlarming(value) {
		return theme.LabelStyle().Render(label+":") + " " + theme.DangerStyle().Render(value)
	}
	return theme.LabelStyle().Render(label+":") + " " + value
}

func isAlarming(severity string) bool {
	switch strings.ToLower(severity) {
	case "error", "critical", "fatal":
		return true
	}
	return false
}

// RangeJSON is the JSON representation of a resolved period.
type RangeJSON struct {
	Input    string    `json:"input"`
	Gte      time.Time `json:"gte"`
	Lte      time.Time `json:"lte"`
	Duration string    `json:"duration"`
}

// ToRangeJSON pairs a resolved window with the text it came from.
func ToRangeJSON(input string, r period.Range) RangeJSON {
	return RangeJSON{Input: input, Gte: r.Gte, Lte: r.Lte, Duration: r.Duration().String()}
}

// FormatRange writes a resolved window as plain text.
func FormatRange(w io.Writer, input string, r period.Range) {
	if input == "" {
		input = "(empty)"
	}
	fmt.Fprintf(w, "period: %s\n", input)
	fmt.Fprintf(w, "gte:    %s\n", r.Gte.Format(time.RFC3339Nano))
	fmt.Fprintf(w, "lte:    %s\n", r.Lte.Format(time.RFC3339Nano))
	fmt.Fprintf(w, "span:   %s\n", r.Duration())
}

// FormatSavedList formats saved searches one per line.
func FormatSavedList(w io.Writer, searches []savedsearch.Search) {
	if len(searches) == 0 {
		fmt.Fprintln(w, "No saved searches found.")
		return
	}
	for _, s := range searches {
		fmt.Fprintf(w, "%-24s %-7s %s\n", s.Name, s.Kind, s.Filters())
	}
}

// FormatSavedFull formats one saved search with its notes.
func FormatSavedFull(w io.Writer, s savedsearch.Search) {
	fmt.Fprintf(w, "Search: %s\n", s.Name)
	fmt.Fprintf(w, "Kind: %s\n", s.Kind)
	if f := s.Filters(); f != "" {
		fmt.Fprintf(w, "Filters: %s\n", f)
	}
	if s.Notes != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimRight(s.Notes, "\n"))
	}
}

// FormatSavedDeleted formats a deletion confirmation message.
func FormatSavedDeleted(w io.Writer, name string) {
	fmt.Fprintf(w, "Deleted saved search %s.\n", name)
}

// DeleteResult is a JSON representation for delete output.
type DeleteResult struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}
