package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/LeonardoGonSantos/tracectl/internal/config"
	"github.com/LeonardoGonSantos/tracectl/internal/period"
	"github.com/LeonardoGonSantos/tracectl/internal/savedsearch"
)

func TestHighlightReportPreservesText(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{})
	report := "Total logs: 1\n\n--- Log 1 ---\nTimestamp: 2024-11-24T13:00:00Z\nSeverity: Error\nMessage: insufficient funds: balance 10.00\n\n... and 5 more results."

	got := stripANSI(HighlightReport(report, theme))
	if got != report {
		t.Errorf("highlighting changed the text:\n got: %q\nwant: %q", got, report)
	}
	if countLines(got) != countLines(report) {
		t.Errorf("expected %d lines, got %d", countLines(report), countLines(got))
	}
}

func TestIsAlarming(t *testing.T) {
	tests := map[string]bool{
		"Error":       true,
		"CRITICAL":    true,
		"fatal":       true,
		"Warning":     false,
		"Information": false,
		"N/A":         false,
	}
	for in, want := range tests {
		if got := isAlarming(in); got != want {
			t.Errorf("isAlarming(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatRange(t *testing.T) {
	r := period.Range{
		Gte: time.Date(2024, 11, 23, 0, 0, 0, 0, time.UTC),
		Lte: time.Date(2024, 11, 23, 23, 59, 59, 999999999, time.UTC),
	}

	var buf bytes.Buffer
	FormatRange(&buf, "ontem", r)
	out := buf.String()
	for _, want := range []string{
		"period: ontem",
		"gte:    2024-11-23T00:00:00Z",
		"lte:    2024-11-23T23:59:59.999999999Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := FormatJSON(&buf, ToRangeJSON("ontem", r)); err != nil {
		t.Fatal(err)
	}
	var decoded RangeJSON
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !decoded.Gte.Equal(r.Gte) || decoded.Duration != r.Duration().String() {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestFormatSavedList(t *testing.T) {
	var buf bytes.Buffer
	FormatSavedList(&buf, nil)
	if buf.String() != "No saved searches found.\n" {
		t.Errorf("empty list = %q", buf.String())
	}

	buf.Reset()
	FormatSavedList(&buf, []savedsearch.Search{
		{Name: "client-errors", Kind: savedsearch.KindLogs, ClientID: "12345", Severity: "Error"},
		{Name: "flow", Kind: savedsearch.KindFlow, CorrelationID: "corr-1"},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "client-errors") || !strings.Contains(lines[0], `severity="Error"`) {
		t.Errorf("line 0 = %q", lines[0])
	}
}

func TestFormatSavedFull(t *testing.T) {
	var buf bytes.Buffer
	FormatSavedFull(&buf, savedsearch.Search{
		Name:  "client-errors",
		Kind:  savedsearch.KindLogs,
		Notes: "Escalated by support.\n",
	})
	want := "Search: client-errors\nKind: logs\n\nEscalated by support.\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
