package template_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/dotools/script"
	"github.com/jonwraymond/dotools/template"
)

var created = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func TestGenerate_ContainsAllSections(t *testing.T) {
	descriptions := []string{
		"",
		"wage regression",
		"analysis of wages",
		"panel data with fixed effects",
		"logit model of participation",
		"summary statistics and graphs",
		"Output of results",
	}
	for _, d := range descriptions {
		t.Run(d, func(t *testing.T) {
			lines := script.Lines(template.Generate(d, created))

			prev := -1
			for _, s := range script.Sections() {
				idx, err := script.LocateSection(lines, s)
				require.NoError(t, err, "section %s", s)
				assert.Greater(t, idx, prev, "section %s out of order", s)
				prev = idx
			}
		})
	}
}

func TestGenerate_Header(t *testing.T) {
	got := template.Generate("  wage   regression\nstudy ", created)
	assert.Contains(t, got, "* Title: Wage Regression Study\n")
	assert.Contains(t, got, "* Created: 2026-10-17\n")
	assert.Contains(t, got, `log using "wage_regression_study.log", replace text`)
	assert.True(t, strings.HasSuffix(got, "log close\n"))
}

func TestGenerate_DefaultTitle(t *testing.T) {
	got := template.Generate("   ", created)
	assert.Contains(t, got, "* Title: "+template.DefaultTitle+"\n")
	assert.Contains(t, got, `log using "stata_analysis.log"`)
}

func TestGenerate_Setup(t *testing.T) {
	got := template.Generate("x", created)
	for _, stmt := range []string{"clear all", "set more off", "capture log close"} {
		assert.Contains(t, got, "\n"+stmt+"\n")
	}
}

func TestGenerate_Hints(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"OLS regression of wages", "* regress depvar indepvars, robust"},
		{"panel study", "* xtreg depvar indepvars, fe"},
		{"probit for employment", "* probit depvar indepvars"},
		{"summary tables", "* tabstat varlist"},
		{"graph of trends", "* graph export"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Contains(t, template.Generate(tt.description, created), tt.want)
		})
	}

	plain := template.Generate("something else", created)
	assert.Contains(t, plain, "* Add estimation commands here")
	assert.Contains(t, plain, "* Export tables and figures here")
}

func TestGenerate_EditableAfterGeneration(t *testing.T) {
	text := template.Generate("regression", created)
	out, err := script.AddVariable(text, "lwage", "generate lwage = log(wage)", "Log wage")
	require.NoError(t, err)

	lines := script.Lines(out)
	pre, err := script.LocateSection(lines, script.SectionPreprocessing)
	require.NoError(t, err)
	desc, err := script.LocateSection(lines, script.SectionDescriptive)
	require.NoError(t, err)

	added := strings.Join(lines[pre:desc], "\n")
	assert.Contains(t, added, "generate lwage = log(wage)")
}
