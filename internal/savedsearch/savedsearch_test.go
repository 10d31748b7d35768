package savedsearch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveFindRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Search{
		Name:     "client-errors",
		Kind:     KindLogs,
		ClientID: "12345",
		Period:   "última semana",
		Severity: "Error",
		Notes:    "Failed transfers reported by support.\n\nCheck \"insufficient funds\" first.",
	}

	if err := Save(dir, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Find(dir, "client-errors")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestFindHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `---
name: transfer-flow
kind: flow
correlation_id: corr-42
period: ontem
---

Incident 1234.
`
	if err := os.WriteFile(filepath.Join(dir, "transfer-flow.md"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Find(dir, "transfer-flow")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if s.Kind != KindFlow || s.CorrelationID != "corr-42" || s.Period != "ontem" {
		t.Errorf("unexpected search %+v", s)
	}
	if s.Notes != "Incident 1234." {
		t.Errorf("notes = %q", s.Notes)
	}
}

func TestFindNotFound(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"missing", "../etc/passwd", ""} {
		if _, err := Find(dir, name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Find(%q): expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestLoadSortsAndSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	for _, s := range []Search{
		{Name: "zeta", Kind: KindTraces, Operation: "TransferFunds"},
		{Name: "alpha", Kind: KindLogs, Period: "hoje"},
	} {
		if err := Save(dir, s); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	os.WriteFile(filepath.Join(dir, "broken.md"), []byte("---\nkind: [\n---\n"), 0644)
	os.WriteFile(filepath.Join(dir, "bad-kind.md"), []byte("---\nname: bad-kind\nkind: metrics\n---\n"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	searches, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(searches) != 2 {
		t.Fatalf("expected 2 searches, got %d: %+v", len(searches), searches)
	}
	if searches[0].Name != "alpha" || searches[1].Name != "zeta" {
		t.Errorf("unexpected order: %s, %s", searches[0].Name, searches[1].Name)
	}
}

func TestLoadMissingDir(t *testing.T) {
	searches, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(searches) != 0 {
		t.Errorf("expected none, got %d", len(searches))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Search
		wantErr bool
	}{
		{"logs", Search{Name: "a", Kind: KindLogs}, false},
		{"traces", Search{Name: "b_1", Kind: KindTraces}, false},
		{"flow", Search{Name: "c", Kind: KindFlow, CorrelationID: "x"}, false},
		{"flow without correlation", Search{Name: "c", Kind: KindFlow}, true},
		{"uppercase name", Search{Name: "Bad", Kind: KindLogs}, true},
		{"empty name", Search{Kind: KindLogs}, true},
		{"unknown kind", Search{Name: "d", Kind: "metrics"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, Search{Name: "gone", Kind: KindLogs}); err != nil {
		t.Fatal(err)
	}
	if err := Delete(dir, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := Delete(dir, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestFilters(t *testing.T) {
	s := Search{Name: "x", Kind: KindLogs, ClientID: "12345", Period: "última semana"}
	if got, want := s.Filters(), `client="12345" period="última semana"`; got != want {
		t.Errorf("Filters() = %s, want %s", got, want)
	}
	if got := (Search{Name: "y", Kind: KindTraces}).Filters(); got != "" {
		t.Errorf("empty search Filters() = %q", got)
	}
}
