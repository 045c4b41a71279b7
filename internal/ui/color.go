// Copyright 2026 ArchGo
// SPDX-License-Identifier: AGPL-3.0-only

// Package ui provides color output helpers for the alpmgo-upgrade-check
// demo binary. Colors follow the --no-color flag: InitColors sets
// color.NoColor from the flag alone, replacing fatih/color's own
// NO_COLOR and terminal detection.
//
// Color usage guidelines:
//   - Red: errors, downgrades skipped
//   - Yellow: warnings
//   - Green: a planned upgrade
//   - Cyan: informational status
//   - Bold: headers
//   - Dim: less important details, URLs
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Pre-configured color instances, initialized at package load and
// respecting the global color.NoColor setting when called.
var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors configures global color output based on the --no-color flag.
// Call this early in main() after parsing flags.
func InitColors(noColor bool) {
	color.NoColor = noColor
}

// Success prints a green success message with a checkmark prefix.
func Success(msg string) {
	_, _ = Green.Println("✓ " + msg)
}

// Warning prints a yellow warning message with a warning symbol prefix.
func Warning(msg string) {
	_, _ = Yellow.Println("⚠ " + msg)
}

// Error prints a red error message with an X prefix.
func Error(msg string) {
	_, _ = Red.Println("✗ " + msg)
}

// Info prints a cyan informational message with an info symbol prefix.
func Info(msg string) {
	_, _ = Cyan.Println("ℹ " + msg)
}

// Header prints a bold header with an underline separator.
func Header(text string) {
	_, _ = Bold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

// Label returns a bold-formatted label string for inline use.
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText returns a dim-formatted string for less important text such as
// package versions or URLs.
func DimText(text string) string {
	return Dim.Sprint(text)
}
