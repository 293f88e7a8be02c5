// Package template generates skeleton Stata do-files.
//
// A generated do-file carries every registered section marker in order, so
// the section editor can insert into any of them straight away.
package template

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTitle is used when the description is blank.
const DefaultTitle = "Stata Analysis"

// hint is an analysis suggestion emitted when the description mentions one of
// its keywords.
type hint struct {
	keywords []string
	analysis []string
	output   []string
}

var hints = []hint{
	{
		keywords: []string{"regression", "regress", "ols"},
		analysis: []string{
			"* Linear regression",
			"* regress depvar indepvars, robust",
		},
		output: []string{
			"* esttab using \"results/regression.rtf\", replace",
		},
	},
	{
		keywords: []string{"panel", "fixed effect", "random effect", "longitudinal"},
		analysis: []string{
			"* Panel data models",
			"* xtset panelvar timevar",
			"* xtreg depvar indepvars, fe",
			"* xtreg depvar indepvars, re",
			"* hausman fe re",
		},
	},
	{
		keywords: []string{"logit", "probit", "binary", "logistic"},
		analysis: []string{
			"* Binary outcome models",
			"* logit depvar indepvars",
			"* probit depvar indepvars",
			"* margins, dydx(*)",
		},
	},
	{
		keywords: []string{"summary", "descriptive", "describe"},
		analysis: []string{
			"* Summary tables",
			"* tabstat varlist, statistics(mean sd min max n) columns(statistics)",
		},
	},
	{
		keywords: []string{"graph", "plot", "chart", "figure", "visual"},
		output: []string{
			"* Figures",
			"* histogram varname",
			"* twoway scatter yvar xvar",
			"* graph export \"results/figure1.png\", replace",
		},
	},
}

// Generate returns a do-file skeleton titled after description.
func Generate(description string, now time.Time) string {
	title := strings.Join(strings.Fields(description), " ")
	if title == "" {
		title = DefaultTitle
	}
	title = cases.Title(language.Und).String(title)

	var analysis, output []string
	lower := strings.ToLower(description)
	for _, h := range hints {
		if matchesAny(lower, h.keywords) {
			analysis = append(analysis, h.analysis...)
			output = append(output, h.output...)
		}
	}

	var b strings.Builder
	w := func(lines ...string) {
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}

	w(
		"* "+strings.Repeat("=", 70),
		"* Title: "+title,
		"* Created: "+now.Format("2006-01-02"),
		"* "+strings.Repeat("=", 70),
		"",
		"* Setup",
		"clear all",
		"set more off",
		"capture log close",
		fmt.Sprintf("log using \"%s.log\", replace text", logName(title)),
		"",
		"* Load data",
		"* use \"data/dataset.dta\", clear",
		"",
		"* Data preprocessing",
		"* generate newvar = ...",
		"* drop if missing(varname)",
		"",
		"* Descriptive statistics",
		"* describe",
		"* summarize",
		"",
		"* Main analysis",
	)
	if len(analysis) == 0 {
		w("* Add estimation commands here")
	} else {
		w(analysis...)
	}
	w(
		"",
		"* Output",
	)
	if len(output) == 0 {
		w("* Export tables and figures here")
	} else {
		w(output...)
	}
	w(
		"",
		"log close",
	)
	return b.String()
}

func matchesAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// logName derives a file stem from the title: lowercase, alphanumerics kept,
// runs of anything else collapsed to one underscore.
func logName(title string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		return "analysis"
	}
	return name
}
