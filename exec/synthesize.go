package exec

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TerminationStatement ends every synthesized do-file.
const TerminationStatement = "exit"

// setupPatterns recognize statements that already initialize a session.
// When any selected line matches one, no baseline setup is injected.
var setupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*clear\s+all\b`),
	regexp.MustCompile(`(?i)^\s*set\s+more\s+off\b`),
	regexp.MustCompile(`(?i)^\s*version\s+\d`),
	regexp.MustCompile(`(?i)^\s*capture\s+log\s+close\b`),
}

// baselineSetup is injected when the selection carries no setup of its own.
var baselineSetup = []string{
	"* Baseline setup",
	"clear all",
	"set more off",
}

// HasSetup reports whether any line is a recognized setup statement.
func HasSetup(lines []Line) bool {
	for _, l := range lines {
		for _, re := range setupPatterns {
			if re.MatchString(l.Text) {
				return true
			}
		}
	}
	return false
}

// Synthesize renders the ephemeral do-file for lines taken from source.
// The output depends only on its arguments. Lines split from a CRLF file
// produce a CRLF do-file.
func Synthesize(lines []Line, source string, start, end int, generated time.Time) string {
	eol := "\n"
	if len(lines) > 0 && strings.HasSuffix(lines[0].Text, "\r") {
		eol = "\r\n"
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString(eol)
	}

	line("* Temporary do-file for selective execution")
	line("* Source: %s", source)
	line("* Lines: %d-%d", start, end)
	line("* Generated: %s", generated.UTC().Format(time.RFC3339))
	line("")

	if !HasSetup(lines) {
		for _, l := range baselineSetup {
			line("%s", l)
		}
		line("")
	}

	for _, l := range lines {
		line("* Line %d", l.Number)
		line("%s", strings.TrimSuffix(l.Text, "\r"))
	}

	line("")
	line("* End of selected lines")
	line("%s", TerminationStatement)
	return b.String()
}
