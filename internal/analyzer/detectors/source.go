package detectors

import (
	"bytes"
	"strings"

	"paramcheck/internal/scope"
	"paramcheck/internal/syntax"
)

// SourceFile is one parsed file as seen by detectors.
type SourceFile struct {
	Path   string
	Source []byte
	Tree   *syntax.Tree
	Scopes *scope.Manager

	lines [][]byte
}

// Line returns the 1-based source line n without its line ending, or "".
func (f *SourceFile) Line(n int) string {
	if f.lines == nil {
		f.lines = bytes.Split(f.Source, []byte("\n"))
	}
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return strings.TrimRight(string(f.lines[n-1]), "\r")
}

// Snippet returns line n trimmed for display, shortened to width runes.
func (f *SourceFile) Snippet(n, width int) string {
	line := strings.TrimSpace(f.Line(n))
	if r := []rune(line); width > 3 && len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return line
}
