package main

import (
	"fmt"
	"io"
	"os"
)

// Human-facing output goes to stderr so stdout stays clean for piping.
// Tests swap the writer.
var outw io.Writer = os.Stderr

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiBold   = "\033[1m"
)

// Widest label in use is "Last crawl counts"; padding to it keeps the
// status/show output in two aligned columns.
const statusLabelWidth = 18

func paint(code, text string) string {
	if noColor {
		return text
	}
	return code + text + ansiReset
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(outw, paint(ansiGreen, "ok: "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(outw, paint(ansiRed, "error: "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(outw, paint(ansiYellow, "warning: "+fmt.Sprintf(format, args...)))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(outw, paint(ansiCyan, "-> "+fmt.Sprintf(format, args...)))
}

// printStatus writes one "label: value" line, label column padded.
func printStatus(label, format string, args ...any) {
	padded := fmt.Sprintf("%-*s", statusLabelWidth, label+":")
	fmt.Fprintf(outw, "  %s %s\n", paint(ansiBold, padded), fmt.Sprintf(format, args...))
}
