package exec

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/jonwraymond/dotools/script"
)

func TestSynthesize_Layout(t *testing.T) {
	lines := []Line{
		{Number: 5, Text: "sysuse auto"},
		{Number: 6, Text: "summarize price"},
	}
	got := Synthesize(lines, "/w/a.do", 5, 6, fixedNow())

	want := `* Temporary do-file for selective execution
* Source: /w/a.do
* Lines: 5-6
* Generated: 2026-10-17T10:57:03Z

* Baseline setup
clear all
set more off

* Line 5
sysuse auto
* Line 6
summarize price

* End of selected lines
exit
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Synthesize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_SetupDetection(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantSetup bool
	}{
		{"clear all", "clear all", false},
		{"indented uppercase", "   CLEAR ALL", false},
		{"tab indented", "\tclear all", false},
		{"set more off", "set more off", false},
		{"version", "version 18", false},
		{"capture log close", "capture log close", false},
		{"plain statement", "regress y x", true},
		{"clear without all", "clear", true},
		{"not at line start", "display \"clear all\"", true},
		{"commented out", "* clear all", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize([]Line{{Number: 1, Text: tt.line}}, "a.do", 1, 1, fixedNow())
			assert.Equal(t, tt.wantSetup, strings.Contains(got, "* Baseline setup\n"))
		})
	}
}

func TestSynthesize_AlwaysAppendsTermination(t *testing.T) {
	lines := []Line{
		{Number: 1, Text: "display 1"},
		{Number: 2, Text: "exit"},
	}
	got := Synthesize(lines, "a.do", 1, 2, fixedNow())

	var exits int
	for _, l := range script.Lines(got) {
		if l == TerminationStatement {
			exits++
		}
	}
	assert.Equal(t, 2, exits)
	assert.True(t, strings.HasSuffix(got, "\n"+TerminationStatement+"\n"))
}

func TestSynthesize_ReproducesSelection(t *testing.T) {
	lines := script.Lines(twentyLines())
	selected, err := ExtractRange(lines, 3, 9)
	if err != nil {
		t.Fatal(err)
	}
	got := script.Lines(Synthesize(selected, "a.do", 3, 9, fixedNow()))

	// Drop the provenance comments and keep what follows each one.
	var body []string
	for i, l := range got {
		if strings.HasPrefix(l, "* Line ") && i+1 < len(got) {
			body = append(body, got[i+1])
		}
	}
	if diff := cmp.Diff(lines[2:9], body); diff != "" {
		t.Errorf("selection not reproduced (-want +got):\n%s", diff)
	}
}

func TestHasSetup(t *testing.T) {
	assert.False(t, HasSetup(nil))
	assert.True(t, HasSetup([]Line{{Text: "x"}, {Text: " set more off"}}))
}

func TestSynthesize_CRLFSelection(t *testing.T) {
	selected, err := ExtractRange(script.Lines("* Setup\r\nsysuse auto\r\nsummarize price\r\n"), 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	got := Synthesize(selected, "/w/a.do", 2, 3, fixedNow())

	assert.True(t, strings.HasSuffix(got, "* End of selected lines\r\nexit\r\n"))
	assert.Contains(t, got, "* Line 2\r\nsysuse auto\r\n* Line 3\r\nsummarize price\r\n")
	assert.Equal(t, strings.Count(got, "\n"), strings.Count(got, "\r\n"), "no bare LF")
	assert.NotContains(t, got, "\r\r")
}
