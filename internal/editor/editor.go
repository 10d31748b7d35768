// Package editor round-trips text through the user's editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrEmptyCommand is returned when the editor command has no program.
var ErrEmptyCommand = errors.New("empty editor command")

// Resolve picks the editor command: config first, then $EDITOR, then
// $VISUAL, then vi.
func Resolve(configured string) string {
	for _, ed := range []string{configured, os.Getenv("EDITOR"), os.Getenv("VISUAL")} {
		if strings.TrimSpace(ed) != "" {
			return ed
		}
	}
	return "vi"
}

// Edit writes initial to a temp file with the given suffix, runs editorCmd
// on it and returns what the user saved. changed is false when the result
// is blank or equal to initial ignoring surrounding whitespace; content is
// then initial.
func Edit(ctx context.Context, editorCmd, suffix, initial string) (content string, changed bool, err error) {
	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		return "", false, ErrEmptyCommand
	}

	tmp, err := os.CreateTemp("", "tracectl-*"+suffix)
	if err != nil {
		return "", false, fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	_, err = tmp.WriteString(initial)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", false, fmt.Errorf("writing temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], name)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", false, fmt.Errorf("editor exited with error: %w", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", false, fmt.Errorf("reading edited file: %w", err)
	}
	result := strings.TrimSpace(string(data))
	if result == "" || result == strings.TrimSpace(initial) {
		return initial, false, nil
	}
	return string(data), true, nil
}
