// Package cliutil provides utilities for CLI operations.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erraggy/oasgen/oas"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// ParseFormat parses a user supplied output format name.
func ParseFormat(name string) (oas.Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return oas.FormatJSON, nil
	case "yaml", "yml":
		return oas.FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json or yaml)", name)
	}
}

// WriteOutput writes data to path, or to w when path is empty or "-".
func WriteOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: documents are meant to be shared
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
