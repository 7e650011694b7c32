// Package terminal holds small ANSI helpers for interactive prompts.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Width returns the width of w when it is a terminal, else 80.
func Width(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// LinesFor returns how many rows n characters occupy at the given width.
func LinesFor(n, width int) int {
	if width <= 0 {
		width = 80
	}
	if n <= 0 {
		return 1
	}
	return (n + width - 1) / width
}

// ClearPreviousLines erases a prompt of textLength characters that the user
// has already answered with Enter. The cursor ends at the start of the first
// cleared row.
func ClearPreviousLines(w io.Writer, textLength int) {
	rows := LinesFor(textLength, Width(w)) + 1
	for i := 0; i < rows; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < rows-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
