// Package output prints CLI messages.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Stdout and Stderr are swapped out in tests.
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Error prints an error message to stderr
func Error(format string, args ...any) {
	fmt.Fprintln(Stderr, errorStyle.Render("Error: "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning message to stderr
func Warning(format string, args ...any) {
	fmt.Fprintln(Stderr, warningStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// Success prints a success message to stdout
func Success(format string, args ...any) {
	fmt.Fprintln(Stdout, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Println prints a plain line to stdout
func Println(s string) {
	fmt.Fprintln(Stdout, s)
}
