package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/LeonardoGonSantos/tracectl/internal/ui"
)

func TestResolveRun(t *testing.T) {
	setupTestEnv(t)

	tests := []struct {
		text string
		at   string
		gte  string
		lte  string
	}{
		{"ontem", "", "2024-11-23T00:00:00Z", "2024-11-24T00:00:00Z"},
		{"há 2 horas", "", "2024-11-24T12:00:00Z", "2024-11-24T14:00:00Z"},
		{"", "", "2024-11-23T14:00:00Z", "2024-11-24T14:00:00Z"},
		{"qwerty asdf", "", "2024-11-23T14:00:00Z", "2024-11-24T14:00:00Z"},
		{"last week", "2024-12-01T09:00:00Z", "2024-11-24T09:00:00Z", "2024-12-01T09:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var buf bytes.Buffer
			if err := resolveRun(&buf, tt.text, tt.at); err != nil {
				t.Fatalf("resolveRun: %v", err)
			}
			out := buf.String()
			if !strings.Contains(out, "gte:    "+tt.gte) || !strings.Contains(out, "lte:    "+tt.lte) {
				t.Errorf("want %s..%s, got:\n%s", tt.gte, tt.lte, out)
			}
		})
	}
}

func TestResolveRunJSON(t *testing.T) {
	setupTestEnv(t)
	jsonOutput = true

	var buf bytes.Buffer
	if err := resolveRun(&buf, "hoje", ""); err != nil {
		t.Fatal(err)
	}
	var got ui.RangeJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Input != "hoje" {
		t.Errorf("input = %q", got.Input)
	}
	if !got.Gte.Equal(time.Date(2024, 11, 24, 0, 0, 0, 0, time.UTC)) || !got.Lte.Equal(testNow) {
		t.Errorf("range = %s..%s", got.Gte, got.Lte)
	}
	if got.Duration != "14h0m0s" {
		t.Errorf("duration = %q", got.Duration)
	}
}

func TestResolveRunInvalidAt(t *testing.T) {
	setupTestEnv(t)
	if err := resolveRun(&bytes.Buffer{}, "hoje", "yesterday"); err == nil {
		t.Error("expected error for invalid --at")
	}
}
