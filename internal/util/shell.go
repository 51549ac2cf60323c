// Package util provides small string helpers shared by the menu renderer and
// the CLI.
package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
func ShellQuote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ShellJoin builds a single command line from a program and its arguments.
// Arguments that are plain words are left bare; anything else is quoted.
func ShellJoin(program string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteIfNeeded(program))
	for _, a := range args {
		parts = append(parts, quoteIfNeeded(a))
	}
	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, needsShellQuote) {
		return ShellQuote(s)
	}
	return s
}

func needsShellQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=,+%@", r)
}

// QuoteAttr quotes a menu attribute value when it contains whitespace or a
// character the host would otherwise split on. Embedded double quotes are
// escaped.
func QuoteAttr(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'|") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
