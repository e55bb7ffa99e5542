// Package ui provides formatted terminal status lines and prompts. Status
// output goes to stderr so stdout stays clean for the rendered summary.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	Bold = color.New(color.Bold).SprintFunc()
	Dim  = color.New(color.Faint).SprintFunc()

	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()

	// Out is the status line destination, overridable in tests.
	Out io.Writer = os.Stderr
)

func statusLine(glyph string, format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", glyph, fmt.Sprintf(format, args...))
}

// Info prints an informational status line.
func Info(format string, args ...interface{}) {
	statusLine(cyan("→"), format, args...)
}

// Success prints a success status line.
func Success(format string, args ...interface{}) {
	statusLine(green("✔"), format, args...)
}

// Fail prints a failure status line.
func Fail(format string, args ...interface{}) {
	statusLine(red("✘"), format, args...)
}

// Warn prints a warning status line.
func Warn(format string, args ...interface{}) {
	statusLine(yellow("○"), format, args...)
}

// BlankLine prints a blank line.
func BlankLine() {
	fmt.Fprintln(Out, "")
}
