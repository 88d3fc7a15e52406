// Package ui holds the terminal styling used by the CLI.
//
// Output is plain text decorated with [lipgloss] colors. When stdout is not a terminal lipgloss drops the
// escape sequences, so piped output stays clean.
package ui
