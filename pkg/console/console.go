// Package console holds small terminal-output helpers shared by the CLI
// front end.
package console

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gh-audit/gh-audit/pkg/styles"
	"github.com/gh-audit/gh-audit/pkg/tty"
)

// isTTY checks if stdout is a terminal.
func isTTY() bool {
	return tty.IsStdoutTerminal()
}

// applyStyle conditionally applies styling based on TTY status.
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// FormatErrorMessage formats a simple error message for stderr output.
func FormatErrorMessage(message string) string {
	return applyStyle(styles.Error, "✗ ") + message
}
