package script

import (
	"regexp"
	"strings"
)

// Section identifies one of the registered logical sections of a do-file.
type Section string

// Registered sections, in the order they appear in a conventional do-file.
const (
	SectionSetup         Section = "setup"
	SectionDataLoad      Section = "data_load"
	SectionPreprocessing Section = "preprocessing"
	SectionDescriptive   Section = "descriptive"
	SectionAnalysis      Section = "analysis"
	SectionOutput        Section = "output"
)

// markerPrefix matches a comment opener, optional decoration and an optional
// step number such as "3." before the section keyword.
const markerPrefix = `(?i)^\s*(?:\*+|//+)\s*[-=#*]*\s*(?:\d+[.)]\s*)?`

var markers = map[Section]*regexp.Regexp{
	SectionSetup:         regexp.MustCompile(markerPrefix + `(?:set[- ]?up|initiali[sz]ation)\b`),
	SectionDataLoad:      regexp.MustCompile(markerPrefix + `(?:load(?:ing)?|import(?:ing)?|read(?:ing)?)\s+(?:the\s+)?data\b`),
	SectionPreprocessing: regexp.MustCompile(markerPrefix + `(?:data\s+)?(?:pre-?processing|cleaning|preparation)\b`),
	SectionDescriptive:   regexp.MustCompile(markerPrefix + `descriptive\b`),
	SectionAnalysis:      regexp.MustCompile(markerPrefix + `(?:main\s+|statistical\s+|regression\s+)?analys[ie]s\b`),
	SectionOutput:        regexp.MustCompile(markerPrefix + `(?:output|export(?:ing)?\s+results?|sav(?:e|ing)\s+results?|results)\b`),
}

var order = []Section{
	SectionSetup,
	SectionDataLoad,
	SectionPreprocessing,
	SectionDescriptive,
	SectionAnalysis,
	SectionOutput,
}

var aliases = map[string]Section{
	"dataload":               SectionDataLoad,
	"load":                   SectionDataLoad,
	"load_data":              SectionDataLoad,
	"data":                   SectionDataLoad,
	"cleaning":               SectionPreprocessing,
	"descriptives":           SectionDescriptive,
	"descriptive_statistics": SectionDescriptive,
	"results":                SectionOutput,
}

// Sections returns the registered sections in conventional order.
func Sections() []Section {
	return append([]Section(nil), order...)
}

// ParseSection normalizes a user-supplied section name. Case, surrounding
// space, hyphens and inner spaces are ignored, and a few aliases are accepted.
func ParseSection(name string) (Section, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)

	if _, ok := markers[Section(key)]; ok {
		return Section(key), nil
	}
	if s, ok := aliases[key]; ok {
		return s, nil
	}
	return "", &SectionError{Section: name, Err: ErrUnknownSection}
}

// Marker returns the pattern that identifies s.
func (s Section) Marker() (*regexp.Regexp, bool) {
	re, ok := markers[s]
	return re, ok
}

// Matches reports whether line is a marker line for s.
func (s Section) Matches(line string) bool {
	re, ok := markers[s]
	return ok && re.MatchString(line)
}

func knownSections() string {
	names := make([]string, len(order))
	for i, s := range order {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
