package script

import (
	"fmt"
	"strings"
)

// Position says where a block goes relative to a section marker.
type Position string

// Insertion positions.
const (
	// Before inserts at the marker line, pushing the marker down.
	Before Position = "before"

	// After inserts below the marker and its trailing comment run.
	After Position = "after"
)

// ParsePosition accepts "before", "after" or "" (after).
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(After):
		return After, nil
	case string(Before):
		return Before, nil
	default:
		return "", fmt.Errorf("invalid position %q: want %q or %q", s, Before, After)
	}
}

// LocateSection returns the 0-based index of the first line matching the
// marker for name.
func LocateSection(lines []string, name Section) (int, error) {
	re, ok := name.Marker()
	if !ok {
		return -1, &SectionError{Section: string(name), Err: ErrUnknownSection}
	}
	for i, line := range lines {
		if re.MatchString(line) {
			return i, nil
		}
	}
	return -1, &SectionError{Section: string(name), Err: ErrSectionNotFound}
}

// InsertAt returns a copy of lines with content inserted relative to index.
// The block is padded with a blank line on both sides and uses the line
// ending of lines[index]. With After, the
// insertion point moves past every comment-only line that directly follows
// index.
func InsertAt(lines []string, index int, content string, pos Position) []string {
	at := index
	if pos != Before {
		at = index + 1
		for at < len(lines) && IsComment(lines[at]) {
			at++
		}
	}
	if at < 0 {
		at = 0
	}
	if at > len(lines) {
		at = len(lines)
	}

	// Inserted lines take the line ending of the marker line.
	cr := ""
	if index >= 0 && index < len(lines) && strings.HasSuffix(lines[index], "\r") {
		cr = "\r"
	}

	block := Lines(content)
	out := make([]string, 0, len(lines)+len(block)+2)
	out = append(out, lines[:at]...)
	out = append(out, cr)
	for _, l := range block {
		out = append(out, strings.TrimSuffix(l, "\r")+cr)
	}
	out = append(out, cr)
	out = append(out, lines[at:]...)
	return out
}

// InsertSection inserts content relative to the named section's marker and
// returns the rewritten text. On error text is returned unchanged.
func InsertSection(text string, name Section, content string, pos Position) (string, error) {
	lines, nl := Split(text)
	idx, err := LocateSection(lines, name)
	if err != nil {
		return text, err
	}
	return Join(InsertAt(lines, idx, content, pos), nl), nil
}

// AddVariable inserts a variable definition after the preprocessing marker.
// The block is a comment naming the variable, the definition, and a
// "label variable" statement when label is not empty.
func AddVariable(text, name, definition, label string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Added variable: %s\n", CommentChar, name)
	b.WriteString(strings.TrimRight(definition, "\n"))
	if label != "" {
		fmt.Fprintf(&b, "\nlabel variable %s \"%s\"", name, label)
	}
	return InsertSection(text, SectionPreprocessing, b.String(), After)
}

// AddAnalysis inserts an analysis specification after the analysis marker,
// preceded by a comment naming the analysis type.
func AddAnalysis(text, analysisType, specification string) (string, error) {
	block := fmt.Sprintf("%s Added analysis: %s\n%s",
		CommentChar, analysisType, strings.TrimRight(specification, "\n"))
	return InsertSection(text, SectionAnalysis, block, After)
}

// Found is a located section marker.
type Found struct {
	Section Section
	// Line is the 1-based line number of the marker.
	Line int
	Text string
}

// Locate reports every registered section present in text, in registry
// order. Missing sections are omitted.
func Locate(text string) []Found {
	lines := Lines(text)
	var out []Found
	for _, s := range order {
		idx, err := LocateSection(lines, s)
		if err != nil {
			continue
		}
		out = append(out, Found{Section: s, Line: idx + 1, Text: lines[idx]})
	}
	return out
}
