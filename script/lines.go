package script

import "strings"

// CommentChar is the Stata line-comment character.
const CommentChar = "*"

// Split breaks text into lines. A final newline does not produce an empty
// trailing line; trailingNewline records whether one was present so that
// Join can restore the text byte for byte.
func Split(text string) (lines []string, trailingNewline bool) {
	if text == "" {
		return nil, false
	}
	trailingNewline = strings.HasSuffix(text, "\n")
	if trailingNewline {
		text = text[:len(text)-1]
	}
	return strings.Split(text, "\n"), trailingNewline
}

// Lines is Split without the trailing-newline flag.
func Lines(text string) []string {
	lines, _ := Split(text)
	return lines
}

// Join is the inverse of Split.
func Join(lines []string, trailingNewline bool) string {
	out := strings.Join(lines, "\n")
	if trailingNewline {
		out += "\n"
	}
	return out
}

// IsComment reports whether line is a comment-only line.
func IsComment(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, CommentChar) || strings.HasPrefix(trimmed, "//")
}
