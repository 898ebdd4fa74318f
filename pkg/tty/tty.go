// Package tty detects whether the process's standard streams are
// connected to an interactive terminal, so the renderer can decide
// between ANSI-styled and plain output.
package tty

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsStdoutTerminal reports whether stdout is a terminal.
func IsStdoutTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// IsStderrTerminal reports whether stderr is a terminal.
func IsStderrTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
