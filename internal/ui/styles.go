// Package ui holds terminal color helpers for the CLI.
package ui

import "fmt"

// ANSI256 color codes.
const (
	colorHigh   = 196 // red
	colorMedium = 214 // orange
	colorLow    = 245 // gray
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray
)

var noColor bool

// RenderSeverity returns s colored by severity level (high red, medium
// orange, low gray).
func RenderSeverity(severity, s string) string {
	if noColor {
		return s
	}
	code := colorLow
	switch severity {
	case "high":
		code = colorHigh
	case "medium":
		code = colorMedium
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
