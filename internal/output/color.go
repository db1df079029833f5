package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for the table rendering.
type ColorScheme struct {
	// ClusterName colors the attribution column
	ClusterName func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	useColor := !noColor && isTTY(w)

	if !useColor {
		return &ColorScheme{
			ClusterName: color.New().Sprintf,
			Header:      color.New().Sprintf,
			Disabled:    true,
		}
	}

	return &ColorScheme{
		ClusterName: color.New(color.FgCyan, color.Bold).Sprintf,
		Header:      color.New(color.FgWhite, color.Bold).Sprintf,
		Disabled:    false,
	}
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}
