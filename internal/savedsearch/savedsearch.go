// Package savedsearch stores named searches as Markdown files with YAML
// front matter. The file body holds free-form notes.
package savedsearch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/frontmatter"
)

// Search kinds.
const (
	KindLogs   = "logs"
	KindTraces = "traces"
	KindFlow   = "flow"
)

var (
	ErrNotFound = errors.New("saved search not found")
	ErrInvalid  = errors.New("invalid saved search")
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Search is one saved search.
type Search struct {
	Name          string `yaml:"name" json:"name"`
	Kind          string `yaml:"kind" json:"kind"`
	ClientID      string `yaml:"client_id" json:"client_id,omitempty"`
	CorrelationID string `yaml:"correlation_id" json:"correlation_id,omitempty"`
	Period        string `yaml:"period" json:"period,omitempty"`
	Severity      string `yaml:"severity" json:"severity,omitempty"`
	Operation     string `yaml:"operation" json:"operation,omitempty"`
	Notes         string `yaml:"-" json:"notes,omitempty"`
}

// Validate checks the name and that the filters fit the kind.
func (s Search) Validate() error {
	if !namePattern.MatchString(s.Name) {
		return fmt.Errorf("%w: name %q must be lowercase alphanumeric, hyphens, underscores", ErrInvalid, s.Name)
	}
	switch s.Kind {
	case KindLogs, KindTraces:
	case KindFlow:
		if s.CorrelationID == "" {
			return fmt.Errorf("%w: %s: flow searches need a correlation_id", ErrInvalid, s.Name)
		}
	default:
		return fmt.Errorf("%w: %s: kind %q must be logs, traces or flow", ErrInvalid, s.Name, s.Kind)
	}
	return nil
}

// Filters renders the set filters as space-separated key=value pairs.
func (s Search) Filters() string {
	var parts []string
	for _, kv := range [][2]string{
		{"client", s.ClientID},
		{"correlation", s.CorrelationID},
		{"period", s.Period},
		{"severity", s.Severity},
		{"operation", s.Operation},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+strconv.Quote(kv[1]))
		}
	}
	return strings.Join(parts, " ")
}

func path(dir, name string) string {
	return filepath.Join(dir, name+".md")
}

// Marshal renders s as front matter followed by its notes.
func Marshal(s Search) []byte {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "name: %s\n", s.Name)
	fmt.Fprintf(&b, "kind: %s\n", s.Kind)
	for _, kv := range [][2]string{
		{"client_id", s.ClientID},
		{"correlation_id", s.CorrelationID},
		{"period", s.Period},
		{"severity", s.Severity},
		{"operation", s.Operation},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "%s: %q\n", kv[0], kv[1])
		}
	}
	b.WriteString("---\n")
	if s.Notes != "" {
		b.WriteString("\n")
		b.WriteString(s.Notes)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// Unmarshal parses a saved search file. It does not validate.
func Unmarshal(data []byte) (Search, error) {
	var s Search
	body, err := frontmatter.Parse(strings.NewReader(string(data)), &s)
	if err != nil {
		return Search{}, fmt.Errorf("%w: parsing front-matter: %v", ErrInvalid, err)
	}
	s.Notes = strings.TrimSpace(string(body))
	return s, nil
}

// Load reads every *.md file in dir, sorted by name. A missing directory
// yields no searches. Files that do not parse or validate are skipped.
func Load(dir string) ([]Search, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading searches dir: %w", err)
	}

	var searches []Search
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, de.Name()))
		if err != nil {
			continue
		}
		s, err := Unmarshal(data)
		if err != nil || s.Validate() != nil {
			continue
		}
		searches = append(searches, s)
	}
	sort.Slice(searches, func(i, j int) bool {
		return searches[i].Name < searches[j].Name
	})
	return searches, nil
}

// Find returns the saved search called name.
func Find(dir, name string) (Search, error) {
	if !namePattern.MatchString(name) {
		return Search{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	data, err := os.ReadFile(path(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Search{}, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return Search{}, fmt.Errorf("reading saved search: %w", err)
	}
	s, err := Unmarshal(data)
	if err != nil {
		return Search{}, err
	}
	if err := s.Validate(); err != nil {
		return Search{}, err
	}
	return s, nil
}

// Save validates s and writes it to dir, replacing any search of the same
// name.
func Save(dir string, s Search) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return atomicWrite(path(dir, s.Name), Marshal(s))
}

// Delete removes the saved search called name.
func Delete(dir, name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := os.Remove(path(dir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return fmt.Errorf("removing saved search: %w", err)
	}
	return nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
func atomicWrite(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Lock the temp file during write
	if err := syscall.Flock(int(tmp.Fd()), syscall.LOCK_EX); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("acquiring lock: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming file: %w", err)
	}
	return nil
}
