package ui

import (
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
	"github.com/muesli/reflow/wordwrap"
)

const (
	termWidthFloor    = 20
	fallbackTermWidth = 80
)

// TermWidth returns the width to wrap output written to w at. It prefers the
// terminal size of w, then columns (normally $COLUMNS), then 80.
func TermWidth(w io.Writer, columns string) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(f.Fd()); err == nil && width > 0 {
			return width
		}
	}
	if columns != "" {
		if v, err := strconv.Atoi(columns); err == nil && v > 0 {
			return v
		}
	}
	return fallbackTermWidth
}

// Wrap word-wraps s to width columns, never narrower than a sane floor.
func Wrap(s string, width int) string {
	return wordwrap.String(s, max(termWidthFloor, width))
}
