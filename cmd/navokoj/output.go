// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
)

// colorEnabled is true when stdout is an interactive terminal.
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func colorize(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + ansiReset
}

func printSuccess(format string, args ...interface{}) {
	fmt.Println(colorize(ansiGreen, fmt.Sprintf(format, args...)))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, colorize(ansiRed, fmt.Sprintf(format, args...)))
}

func printHeading(format string, args ...interface{}) {
	fmt.Println(colorize(ansiCyan, fmt.Sprintf(format, args...)))
}
