// Package cliutil provides output helpers shared by the oasmatch commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Banner writes title underlined with '=' followed by a blank line.
func Banner(w io.Writer, title string) {
	Writef(w, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}
