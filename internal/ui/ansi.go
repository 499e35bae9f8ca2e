package ui

import (
	"fmt"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
	symInfo  = "ℹ"
	symWarn  = "▲"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func C(color, s string) string {
	if disableColor {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

// Muted renders dim secondary text (hints, placeholders).
func Muted(s string) string { return C(fgGray, s) }

func OK(msg string)   { fmt.Println(C(fgGreen, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(os.Stderr, C(fgRed, symCross+" "+msg)) }
func Info(msg string) { fmt.Println(C(fgBlue, symInfo+" "+msg)) }
func Warn(msg string) { fmt.Fprintln(os.Stderr, C(fgYellow, symWarn+" "+msg)) }
